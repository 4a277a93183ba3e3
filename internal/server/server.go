// Package server assembles the application: storage, services, routes and
// the HTTP listener, with graceful shutdown on SIGINT/SIGTERM.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/travlrgetaways/travlr/app/controllers"
	"github.com/travlrgetaways/travlr/app/jobs"
	"github.com/travlrgetaways/travlr/app/repositories"
	"github.com/travlrgetaways/travlr/app/routes"
	"github.com/travlrgetaways/travlr/app/services"
	"github.com/travlrgetaways/travlr/config"
	"github.com/travlrgetaways/travlr/pkg/cache"
	"github.com/travlrgetaways/travlr/pkg/database"
	"github.com/travlrgetaways/travlr/pkg/logger"
	"github.com/travlrgetaways/travlr/pkg/metrics"
	"github.com/travlrgetaways/travlr/pkg/queue"
	"github.com/travlrgetaways/travlr/pkg/response"
	"github.com/travlrgetaways/travlr/pkg/router"
	"github.com/travlrgetaways/travlr/pkg/schedule"
	"github.com/travlrgetaways/travlr/pkg/storage"
)

const workerCount = 4

// Run boots everything and blocks until shutdown completes.
func Run() error {
	if err := config.Load(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := database.Connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if config.LogMongo() {
		mongoHandler := logger.NewMongoHandler(conn.DB, "logs")
		defer mongoHandler.Close()
		logger.SetHandler(logger.NewMultiHandler(logger.Handler(), mongoHandler))
	}

	if err := cache.Connect(ctx); err != nil {
		return err
	}
	defer cache.Close()

	if err := storage.Init(ctx); err != nil {
		return err
	}

	if err := queue.Init(); err != nil {
		return err
	}
	jobs.Register()
	workers := queue.StartWorkers(ctx, workerCount)

	r := router.New()
	routes.Register(r, buildControllers(conn))
	r.Get("/health", "health", healthHandler(conn))
	r.Get("/metrics", "metrics", func(w http.ResponseWriter, req *http.Request) {
		metrics.Handler().ServeHTTP(w, req)
	})

	if config.StorageDefault() == "local" {
		r.Static("/images", config.StorageLocalRoot())
	}

	startScheduler(ctx, conn)

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           r.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server: listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server: shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server: shutdown failed", "error", err)
	}

	workers.Wait()
	return nil
}

func buildControllers(conn *database.Conn) routes.Controllers {
	users := repositories.NewUserRepository(conn.DB)
	carts := repositories.NewCartRepository(conn.DB)
	trips := repositories.NewTripRepository(conn.DB)
	rooms := repositories.NewRoomRepository(conn.DB)
	meals := repositories.NewMealRepository(conn.DB)
	migrator := repositories.NewGuestMigrator(conn.Client, carts, users)

	authService := services.NewAuthService(users, carts, migrator)
	cartService := services.NewCartService(carts)
	catalogService := services.NewCatalogService(trips, rooms, meals)
	twoFactorService := services.NewTwoFactorService(users)

	return routes.Controllers{
		Auth:      controllers.NewAuthController(authService),
		Cart:      controllers.NewCartController(cartService),
		Catalog:   controllers.NewCatalogController(catalogService),
		TwoFactor: controllers.NewTwoFactorController(twoFactorService),
	}
}

// startScheduler arms the daily purge of abandoned guest accounts.
func startScheduler(ctx context.Context, conn *database.Conn) {
	users := repositories.NewUserRepository(conn.DB)
	carts := repositories.NewCartRepository(conn.DB)
	migrator := repositories.NewGuestMigrator(conn.Client, carts, users)
	authService := services.NewAuthService(users, carts, migrator)

	s := schedule.New()
	s.Task("purge-idle-guests", func(ctx context.Context) error {
		ttl := time.Duration(config.GuestTTLDays()) * 24 * time.Hour
		purged, err := authService.PurgeIdleGuests(ctx, ttl)
		if err != nil {
			return err
		}
		if purged > 0 {
			logger.Info("purge: removed idle guests", "count", purged)
		}
		return nil
	}).Daily()
	s.Start(ctx)
}

func healthHandler(conn *database.Conn) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := conn.Client.Ping(ctx, nil); err != nil {
			response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}

		response.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
