package ports

import (
	"context"

	"github.com/samirrijal/busticket/internal/core/domain"
)

// ReservationAPI is the upstream vendor reservation service.
// Search and trip-details are asynchronous jobs: a create call returns a job
// id that must then be polled.
type ReservationAPI interface {
	ListPlaces(ctx context.Context) ([]domain.Place, error)
	CreateSearch(ctx context.Context, req domain.SearchRequest) (string, error)
	GetSearch(ctx context.Context, searchID string) (*domain.VendorSearch, error)
	CreateDetailsRequest(ctx context.Context, tripID string) (string, error)
	GetDetailsRequest(ctx context.Context, tripID, requestID string) (*domain.VendorDetails, error)
}

// SearchCache remembers upstream search ids so identical searches within
// its TTL reuse the existing job.
type SearchCache interface {
	Get(ctx context.Context, key domain.SearchKey) (string, bool)
	Put(ctx context.Context, key domain.SearchKey, searchID string)
}
