package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/nearmeconnect/internal/adapters/google"
	"github.com/samirrijal/nearmeconnect/internal/adapters/http"
	"github.com/samirrijal/nearmeconnect/internal/adapters/ipinfo"
	natsadapter "github.com/samirrijal/nearmeconnect/internal/adapters/nats"
	"github.com/samirrijal/nearmeconnect/internal/adapters/nominatim"
	"github.com/samirrijal/nearmeconnect/internal/adapters/postgres"
	"github.com/samirrijal/nearmeconnect/internal/adapters/valkey"
	"github.com/samirrijal/nearmeconnect/internal/core/ports"
	"github.com/samirrijal/nearmeconnect/internal/core/usecases"
	"github.com/samirrijal/nearmeconnect/internal/pkg/auth"
	"github.com/samirrijal/nearmeconnect/internal/pkg/config"
	"github.com/samirrijal/nearmeconnect/internal/pkg/logging"
	"github.com/samirrijal/nearmeconnect/internal/pkg/metrics"
	"github.com/samirrijal/nearmeconnect/internal/pkg/telemetry"
)

const poolMetricsInterval = 15 * time.Second

func main() {
	cfg, err := config.Load("nearmeconnect-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache. A nil *valkey.Cache must not leak into the interface.
	var cacheSvc ports.CacheService
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer cache.Close()
		cacheSvc = cache
	}

	// NATS
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		events = pub
	}

	var feed http.EventFeed
	if pub != nil {
		sub := natsadapter.NewSubscriber(pub.Conn())
		defer sub.Close()
		feed = sub
	}

	// External services
	places := google.New(cfg.Places.BaseURL, cfg.Places.APIKey, cfg.Places.Timeout, cfg.Places.RPS)
	geocoder := nominatim.New(cfg.Geocoder.BaseURL, cfg.Geocoder.UserAgent, cfg.Places.Timeout)
	ipLocator := ipinfo.New(cfg.IPLocate.BaseURL, cfg.IPLocate.Token, cfg.Places.Timeout)
	if cfg.Places.APIKey == "" {
		slog.Warn("places.api_key is empty; external discovery results will fail")
	}

	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL, cfg.Auth.RefreshTTL)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	// Repos
	userRepo := postgres.NewUserRepo(db)
	categoryRepo := postgres.NewCategoryRepo(db)
	providerRepo := postgres.NewProviderRepo(db)
	requestRepo := postgres.NewRequestRepo(db)
	reviewRepo := postgres.NewReviewRepo(db)

	// Use cases
	locationSvc := usecases.NewLocationService(geocoder, ipLocator, cacheSvc)
	categorySvc := usecases.NewCategoryService(categoryRepo, cacheSvc)

	deps := &http.Dependencies{
		Auth:       usecases.NewAuthService(userRepo, issuer),
		Categories: categorySvc,
		Providers:  usecases.NewProviderService(providerRepo, categoryRepo, locationSvc),
		Requests:   usecases.NewRequestService(requestRepo, providerRepo, locationSvc, events),
		Reviews:    usecases.NewReviewService(reviewRepo, providerRepo, events),
		Discovery:  usecases.NewDiscoveryService(categorySvc, providerRepo, places, locationSvc, cacheSvc),
		Tokens:     issuer,
		Feed:       feed,
		DB:         db,
		Cache:      cache,
	}
	if pub != nil {
		deps.NATS = pub.Conn()
	}

	go reportPoolStats(ctx, db)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "NearMeConnect API",
		ProxyHeader:  fiber.HeaderXForwardedFor,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(poolMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Stat())
		}
	}
}
