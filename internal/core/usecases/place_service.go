package usecases

import (
	"context"
	"encoding/json"
	"sort"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/busticket/internal/core/domain"
	"github.com/samirrijal/busticket/internal/core/ports"
	"github.com/samirrijal/busticket/internal/pkg/formatting"
	"github.com/samirrijal/busticket/internal/pkg/logging"
	"github.com/samirrijal/busticket/internal/pkg/metrics"
	"github.com/samirrijal/busticket/internal/pkg/telemetry"
)

const (
	placesCacheKey = "places:all"
	placesCacheTTL = 600 // 10 min

	placeMatchLimit   = 20
	placePopularLimit = 50
)

// PlaceService lists the cities trips can be searched between.
type PlaceService struct {
	api    ports.ReservationAPI
	cache  ports.CacheService
	local  []domain.Place
	tracer trace.Tracer
}

// NewPlaceService creates a new PlaceService. cache may be nil.
func NewPlaceService(api ports.ReservationAPI, cache ports.CacheService) *PlaceService {
	return &PlaceService{
		api:    api,
		cache:  cache,
		local:  domain.LocalPlaces(),
		tracer: otel.Tracer(telemetry.InstrumentationName),
	}
}

// List returns all places when prefetch is set, up to 20 places matching q
// when q is given, and otherwise the 50 most popular places. If the
// upstream list is unavailable the built-in city list is used instead.
func (s *PlaceService) List(ctx context.Context, q string, prefetch bool) []domain.Place {
	ctx, span := s.tracer.Start(ctx, telemetry.SpanPlaces, trace.WithAttributes(
		attribute.String("places.query", q),
		attribute.Bool("places.prefetch", prefetch),
	))
	defer span.End()

	q = strings.TrimSpace(q)

	places, err := s.upstreamPlaces(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn("place list unavailable, using local data", "error", err)
		metrics.PlaceListFallbacks.Inc()
		span.SetAttributes(attribute.Bool("places.local", true))
		return filterLocal(s.local, q, prefetch)
	}

	switch {
	case prefetch:
		return places
	case q != "":
		query := strings.ToLower(q)
		matches := []domain.Place{}
		for _, p := range places {
			if strings.Contains(strings.ToLower(p.Display), query) || strings.Contains(strings.ToLower(p.CityName), query) {
				matches = append(matches, p)
			}
		}
		return truncate(matches, placeMatchLimit)
	}

	sorted := append([]domain.Place(nil), places...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return formatting.Popularity(string(sorted[i].Popularity)) > formatting.Popularity(string(sorted[j].Popularity))
	})
	return truncate(sorted, placePopularLimit)
}

func (s *PlaceService) upstreamPlaces(ctx context.Context) ([]domain.Place, error) {
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, placesCacheKey); err == nil {
			var places []domain.Place
			if err := json.Unmarshal(data, &places); err == nil {
				metrics.CacheHits.WithLabelValues("places").Inc()
				return places, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("places").Inc()
	}

	places, err := s.api.ListPlaces(ctx)
	if err != nil {
		return nil, err
	}
	if places == nil {
		places = []domain.Place{}
	}

	if s.cache != nil {
		if data, err := json.Marshal(places); err == nil {
			_ = s.cache.Set(ctx, placesCacheKey, data, placesCacheTTL)
		}
	}
	return places, nil
}

func filterLocal(local []domain.Place, q string, prefetch bool) []domain.Place {
	switch {
	case prefetch:
		return local
	case q != "":
		query := formatting.StripAccents(strings.ToLower(q))
		matches := []domain.Place{}
		for _, p := range local {
			if strings.Contains(formatting.StripAccents(strings.ToLower(p.CityName)), query) {
				matches = append(matches, p)
			}
		}
		return truncate(matches, placeMatchLimit)
	}
	return truncate(local, placePopularLimit)
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
