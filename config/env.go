// Package config loads application settings from config/app.json and .env,
// layered over built-in defaults. Values are read once and cached; typed
// getters expose the keys the rest of the application cares about.
package config

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

const (
	defaultMongoURI     = "mongodb://127.0.0.1:27017"
	defaultMongoDB      = "travlr"
	defaultRedisAddr    = "localhost:6379"
	defaultJWTSecret    = "change-me-in-production"
	defaultSessionKey   = "change-me-too-in-production"
	defaultAppPort      = "3000"
	defaultAppEnv       = "local"
	defaultGuestTTLDays = 30
)

var (
	loadOnce sync.Once
	loadErr  error

	mu     sync.RWMutex
	values = defaultValues()
)

func Load() error {
	loadOnce.Do(func() {
		loadErr = loadFromFiles("config/app.json", ".env")
	})
	return loadErr
}

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":            defaultAppEnv,
		"APP_PORT":           defaultAppPort,
		"MONGO_URI":          defaultMongoURI,
		"MONGO_DB":           defaultMongoDB,
		"REDIS_ADDR":         defaultRedisAddr,
		"REDIS_PASSWORD":     "",
		"JWT_SECRET":         defaultJWTSecret,
		"SESSION_KEY":        defaultSessionKey,
		"QUEUE_DRIVER":       "memory",
		"LOG_MONGO":          "false",
		"GUEST_TTL_DAYS":     strconv.Itoa(defaultGuestTTLDays),
		"CATALOG_CACHE_TTL":  "60",
		"STORAGE_DISK":       "local",
		"STORAGE_LOCAL_ROOT": "public/images",
		"STORAGE_URL":        "http://localhost:3000/images",
	}
}

func AppEnv() string  { _ = Load(); return get("APP_ENV", defaultAppEnv) }
func AppPort() string { _ = Load(); return get("APP_PORT", defaultAppPort) }

func MongoURI() string { _ = Load(); return get("MONGO_URI", defaultMongoURI) }
func MongoDB() string  { _ = Load(); return get("MONGO_DB", defaultMongoDB) }

func RedisAddr() string     { _ = Load(); return get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { _ = Load(); return get("REDIS_PASSWORD", "") }

func JWTSecret() string  { _ = Load(); return get("JWT_SECRET", defaultJWTSecret) }
func SessionKey() string { _ = Load(); return get("SESSION_KEY", defaultSessionKey) }

func QueueDriver() string { _ = Load(); return get("QUEUE_DRIVER", "memory") }

// LogMongo reports whether request logs should also be shipped to MongoDB.
func LogMongo() bool {
	_ = Load()
	return strings.EqualFold(get("LOG_MONGO", "false"), "true")
}

// GuestTTLDays is how long an idle guest account survives before the
// scheduled purge removes it along with its cart items.
func GuestTTLDays() int {
	_ = Load()
	n, err := strconv.Atoi(get("GUEST_TTL_DAYS", ""))
	if err != nil || n <= 0 {
		return defaultGuestTTLDays
	}
	return n
}

// CatalogCacheTTL is the trip-listing cache lifetime in seconds.
func CatalogCacheTTL() int {
	_ = Load()
	n, err := strconv.Atoi(get("CATALOG_CACHE_TTL", ""))
	if err != nil || n < 0 {
		return 60
	}
	return n
}

// ── Mail ─────────────────────────────────────────────────────────────────────

func MailHost() string     { _ = Load(); return get("MAIL_HOST", "") }
func MailPort() string     { _ = Load(); return get("MAIL_PORT", "587") }
func MailUsername() string { _ = Load(); return get("MAIL_USERNAME", "") }
func MailPassword() string { _ = Load(); return get("MAIL_PASSWORD", "") }
func MailFrom() string     { _ = Load(); return get("MAIL_FROM", "hello@travlr.getaways") }
func MailFromName() string { _ = Load(); return get("MAIL_FROM_NAME", "Travlr Getaways") }

// ── Storage ──────────────────────────────────────────────────────────────────

func StorageDefault() string   { _ = Load(); return get("STORAGE_DISK", "local") }
func StorageLocalRoot() string { _ = Load(); return get("STORAGE_LOCAL_ROOT", "public/images") }
func StorageURL() string {
	_ = Load()
	return get("STORAGE_URL", "http://localhost:3000/images")
}

func StorageS3Bucket() string   { _ = Load(); return get("S3_BUCKET", "") }
func StorageS3Region() string   { _ = Load(); return get("S3_REGION", "us-east-1") }
func StorageS3Key() string      { _ = Load(); return get("S3_KEY", "") }
func StorageS3Secret() string   { _ = Load(); return get("S3_SECRET", "") }
func StorageS3Endpoint() string { _ = Load(); return get("S3_ENDPOINT", "") }
func StorageS3URL() string      { _ = Load(); return get("S3_URL", "") }

// ── Loading internals ────────────────────────────────────────────────────────

func loadFromFiles(configPath, envPath string) error {
	loaded := defaultValues()

	if err := mergeJSONConfig(configPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	if err := mergeDotEnv(envPath, loaded); err != nil {
		if !os.IsNotExist(err) {
			return err
		}
	}

	mu.Lock()
	values = loaded
	mu.Unlock()

	return nil
}

func mergeJSONConfig(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	var raw map[string]interface{}
	if err := json.NewDecoder(file).Decode(&raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	for key, val := range raw {
		s, ok := val.(string)
		if !ok {
			continue
		}

		k := strings.ToUpper(strings.TrimSpace(key))
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(s)
	}

	return nil
}

func mergeDotEnv(path string, out map[string]string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idx := strings.IndexByte(line, '=')
		if idx <= 0 {
			continue
		}

		key := strings.ToUpper(strings.TrimSpace(line[:idx]))
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		out[key] = value
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	return nil
}

func get(key, fallback string) string {
	mu.RLock()
	defer mu.RUnlock()

	if value := strings.TrimSpace(values[key]); value != "" {
		return value
	}

	return fallback
}

// Get reads any config key by name with an optional fallback.
// Keys from .env and app.json are available after config.Load().
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}
