package usecases

import "github.com/samirrijal/busticket/internal/core/domain"

// DefaultDestinationLimit is the number of destinations shown when the
// caller does not ask for a specific count.
const DefaultDestinationLimit = 4

// CatalogService serves the static marketing catalogs.
type CatalogService struct {
	destinations []domain.Destination
	services     []domain.Service
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService() *CatalogService {
	return &CatalogService{
		destinations: domain.FeaturedDestinations(),
		services:     domain.CompanyServices(),
	}
}

// Destinations returns up to limit featured destinations along with the
// size of the full catalog. A negative limit selects the default.
func (s *CatalogService) Destinations(limit int) ([]domain.Destination, int) {
	if limit < 0 {
		limit = DefaultDestinationLimit
	}
	return truncate(s.destinations, limit), len(s.destinations)
}

// Services returns the company services.
func (s *CatalogService) Services() []domain.Service {
	return s.services
}
