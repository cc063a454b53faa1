package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/samirrijal/busticket/internal/pkg/metrics"
)

const (
	// Upstream jobs poll for up to max_attempts seconds, so these get more room.
	pollingTimeout = 30 * time.Second
	defaultTimeout = 10 * time.Second
)

// SetupRoutes registers all REST, GraphQL, and static routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", msgRateLimited, "")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	api := app.Group("/api")

	// Health & readiness (no timeout, fast internal checks)
	api.Get("/health", HealthHandler(deps))
	api.Get("/ready", ReadyHandler(deps))

	api.Get("/search", timeout.NewWithContext(SearchHandler(deps), pollingTimeout))
	api.Get("/seats", timeout.NewWithContext(SeatsHandler(deps), pollingTimeout))
	api.Get("/places", timeout.NewWithContext(PlacesHandler(deps), defaultTimeout))
	api.Get("/destinations", DestinationsHandler(deps))
	api.Get("/services", ServicesHandler(deps))
	api.Post("/contact", timeout.NewWithContext(ContactHandler(deps), defaultTimeout))

	// GraphQL
	app.Post("/graphql", timeout.NewWithContext(GraphQLHandler(deps), pollingTimeout))

	// API documentation (Swagger UI)
	specPath := deps.OpenAPIPath
	if specPath == "" {
		specPath = DefaultOpenAPIPath
	}
	SetupDocs(app, specPath)

	// Front-end bundle
	if deps.PublicDir != "" {
		app.Static("/", deps.PublicDir, fiber.Static{Compress: true})
	}

	app.Use(NotFoundHandler())
}
