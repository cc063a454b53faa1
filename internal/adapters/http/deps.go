package http

import (
	"context"
	"time"

	"github.com/samirrijal/busticket/internal/core/usecases"
)

// Pinger is a backing service that can be pinged for readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnState reports whether a long-lived connection is up.
type ConnState interface {
	Connected() bool
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Search    *usecases.SearchService
	Seats     *usecases.SeatService
	Places    *usecases.PlaceService
	Catalog   *usecases.CatalogService
	Contact   *usecases.ContactService
	Cache     Pinger    // nil when Valkey is not configured
	NATS      ConnState // nil when NATS is disabled
	StartedAt time.Time

	// PublicDir is served as static files when set.
	PublicDir string
	// OpenAPIPath defaults to DefaultOpenAPIPath.
	OpenAPIPath string
}
