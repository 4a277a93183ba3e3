// Package auth issues and verifies the bearer tokens used by the API, and
// wraps bcrypt for password storage.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/travlrgetaways/travlr/app/models"
	"github.com/travlrgetaways/travlr/config"
)

// TokenTTL is how long an access token stays valid.
const TokenTTL = time.Hour

var (
	// ErrTokenExpired is returned for a structurally valid but expired token.
	ErrTokenExpired = errors.New("auth: token expired")

	// ErrTokenInvalid is returned for a malformed or tampered token.
	ErrTokenInvalid = errors.New("auth: token invalid")
)

// Claims holds the typed JWT payload.
type Claims struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name,omitempty"`
	Email        string `json:"email,omitempty"`
	IsRegistered bool   `json:"isRegistered"`
	IsAdmin      bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

// GenerateToken creates a signed JWT for the given user.
func GenerateToken(user *models.User) (string, error) {
	claims := Claims{
		UserID:       user.ID.Hex(),
		Name:         user.FullName(),
		Email:        user.Email,
		IsRegistered: user.IsRegistered,
		IsAdmin:      user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// SignClaims signs an arbitrary claim set with the application secret.
// Mostly useful to mint expired or unusual tokens in tests.
func SignClaims(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateToken parses and validates a JWT string. Expiry is reported
// separately from tampering so the middleware can say which happened.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return secret(), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}

// HashPassword returns a bcrypt hash of the plain-text password.
func HashPassword(plain string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPassword compares a bcrypt hash against the plain-text candidate.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
