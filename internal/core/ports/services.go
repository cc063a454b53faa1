package ports

import (
	"context"

	"github.com/samirrijal/busticket/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishSearchPerformed(ctx context.Context, event *domain.SearchPerformed) error
	PublishSeatMapServed(ctx context.Context, event *domain.SeatMapServed) error
	PublishContactReceived(ctx context.Context, event *domain.ContactReceived) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
