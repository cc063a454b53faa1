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
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/samirrijal/busticket/internal/adapters/http"
	"github.com/samirrijal/busticket/internal/adapters/memory"
	natsadapter "github.com/samirrijal/busticket/internal/adapters/nats"
	"github.com/samirrijal/busticket/internal/adapters/valkey"
	"github.com/samirrijal/busticket/internal/adapters/vendorapi"
	"github.com/samirrijal/busticket/internal/core/domain"
	"github.com/samirrijal/busticket/internal/core/poll"
	"github.com/samirrijal/busticket/internal/core/ports"
	"github.com/samirrijal/busticket/internal/core/usecases"
	"github.com/samirrijal/busticket/internal/pkg/config"
	"github.com/samirrijal/busticket/internal/pkg/logging"
	"github.com/samirrijal/busticket/internal/pkg/telemetry"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load("busticket-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	deps := &http.Dependencies{
		Catalog:   usecases.NewCatalogService(),
		StartedAt: time.Now(),
		PublicDir: cfg.Server.PublicDir,
	}

	// Cache
	var searchCache ports.SearchCache = memory.NewSearchCache(cfg.Search.CacheTTL())
	var byteCache ports.CacheService
	if cfg.Search.CacheBackend == "valkey" {
		cache, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			log.Fatalf("valkey: %v", err)
		}
		defer cache.Close()
		searchCache = valkey.NewSearchCache(cache, cfg.Search.CacheTTL())
		byteCache = cache
		deps.Cache = cache
	}

	// NATS
	var publisher ports.EventPublisher
	if cfg.NATS.Enabled {
		nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, domain events disabled", "error", err)
		} else {
			defer nc.Close()
			publisher = nc
			deps.NATS = nc
		}
	}

	// Upstream
	api := vendorapi.New(vendorapi.Config{
		BaseURL:  cfg.Upstream.BaseURL,
		APIKey:   cfg.Upstream.APIKey,
		Language: cfg.Upstream.Language,
		Timeout:  time.Duration(cfg.Upstream.Timeout) * time.Second,
	})

	lines := make(map[string]domain.LineInfo, len(cfg.Lines))
	for id, l := range cfg.Lines {
		lines[id] = domain.LineInfo{ServiceType: l.ServiceType, Amenities: l.Amenities}
	}
	catalog := domain.NewLineCatalog(lines)
	slog.Info("line catalog loaded", "lines", catalog.Len(), "overrides", len(lines))

	pollOpts := poll.Options{Interval: cfg.Poll.Interval(), MaxAttempts: cfg.Poll.MaxAttempts}

	// Use cases
	deps.Search = usecases.NewSearchService(api, searchCache, catalog, publisher, usecases.SearchOptions{
		Poll:        pollOpts,
		SortMode:    cfg.Search.SortMode,
		StrictDates: cfg.Search.StrictDates,
	})
	deps.Seats = usecases.NewSeatService(api, publisher, usecases.SeatOptions{
		Poll:         pollOpts,
		MockFallback: cfg.Seats.MockFallback,
	})
	deps.Places = usecases.NewPlaceService(api, byteCache)
	deps.Contact = usecases.NewContactService(publisher)

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Bus Ticket API",
		ErrorHandler: http.ErrorHandler,
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "upstream", cfg.Upstream.BaseURL, "cache", cfg.Search.CacheBackend)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// In-flight searches may still be polling the upstream.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 35*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
