package usecases

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/busticket/internal/core/domain"
	"github.com/samirrijal/busticket/internal/core/poll"
	"github.com/samirrijal/busticket/internal/core/ports"
	"github.com/samirrijal/busticket/internal/pkg/formatting"
	"github.com/samirrijal/busticket/internal/pkg/logging"
	"github.com/samirrijal/busticket/internal/pkg/metrics"
	"github.com/samirrijal/busticket/internal/pkg/telemetry"
)

// Departure sort modes.
const (
	SortLexical       = "lexical"
	SortChronological = "chronological"
)

// SearchOptions tunes SearchService.
type SearchOptions struct {
	Poll poll.Options
	// SortMode is SortLexical (compare "HH:MM AM/PM" strings) or
	// SortChronological (compare minutes since midnight).
	SortMode string
	// StrictDates rejects unrecognized dates instead of searching today.
	StrictDates bool
}

// SearchService creates, polls and normalizes upstream trip searches.
type SearchService struct {
	api       ports.ReservationAPI
	cache     ports.SearchCache
	lines     *domain.LineCatalog
	publisher ports.EventPublisher
	opts      SearchOptions
	now       clock
	tracer    trace.Tracer
}

// NewSearchService creates a new SearchService. publisher may be nil.
func NewSearchService(
	api ports.ReservationAPI,
	cache ports.SearchCache,
	lines *domain.LineCatalog,
	publisher ports.EventPublisher,
	opts SearchOptions,
) *SearchService {
	if lines == nil {
		lines = domain.NewLineCatalog(nil)
	}
	return &SearchService{
		api:       api,
		cache:     cache,
		lines:     lines,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
		tracer:    otel.Tracer(telemetry.InstrumentationName),
	}
}

// WithClock replaces the time source used for default dates.
func (s *SearchService) WithClock(now func() time.Time) *SearchService {
	s.now = now
	return s
}

// Search returns the trips from origin to destination on date. An empty
// date means today.
func (s *SearchService) Search(ctx context.Context, origin, destination, date string) (*domain.SearchResult, error) {
	ctx, span := s.tracer.Start(ctx, telemetry.SpanSearch, trace.WithAttributes(
		attribute.String("search.origin", origin),
		attribute.String("search.destination", destination),
		attribute.String("search.date", date),
	))
	defer span.End()

	res, hit, err := s.search(ctx, origin, destination, date)

	outcome := "ok"
	ev := &domain.SearchPerformed{
		ID:          newEventID(),
		Time:        s.now(),
		Origin:      origin,
		Destination: destination,
		Date:        date,
		CacheHit:    hit,
	}
	if err != nil {
		outcome = "error"
		ev.Error = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logging.FromContext(ctx).Error("trip search failed",
			"origin", origin, "destination", destination, "date", date, "error", err)
	} else {
		ev.Date = res.Date
		ev.Results = res.TotalResults
		span.SetAttributes(attribute.Int("search.results", res.TotalResults))
	}
	metrics.SearchesTotal.WithLabelValues(outcome).Inc()

	if s.publisher != nil && !invalid(err) {
		publishEvent(ctx, "search.performed", func() error {
			return s.publisher.PublishSearchPerformed(ctx, ev)
		})
	}
	return res, err
}

func (s *SearchService) search(ctx context.Context, origin, destination, date string) (*domain.SearchResult, bool, error) {
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	if origin == "" || destination == "" {
		return nil, false, fmt.Errorf("%w: origin and destination are required", domain.ErrInvalidInput)
	}

	now := s.now()
	if strings.TrimSpace(date) == "" {
		date = formatting.ISODate(now)
	}
	apiDate, ok := formatting.APIDate(date, now)
	if !ok {
		if s.opts.StrictDates {
			return nil, false, fmt.Errorf("%w: unrecognized date %q", domain.ErrInvalidInput, date)
		}
		logging.FromContext(ctx).Warn("unrecognized search date, using today", "date", date, "api_date", apiDate)
	}

	key := domain.SearchKey{
		Origin:      formatting.Slug(origin),
		Destination: formatting.Slug(destination),
		Date:        apiDate,
	}

	searchID, hit := s.cache.Get(ctx, key)
	if hit {
		metrics.CacheHits.WithLabelValues("search").Inc()
		logging.FromContext(ctx).Debug("search cache hit", "key", key.String(), "search_id", searchID)
	} else {
		metrics.CacheMisses.WithLabelValues("search").Inc()
		id, err := s.api.CreateSearch(ctx, domain.NewOneWaySearch(key.Origin, key.Destination, apiDate))
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", domain.ErrSearchCreationFailed, err)
		}
		if id == "" {
			return nil, false, fmt.Errorf("%w: upstream returned no search id", domain.ErrSearchCreationFailed)
		}
		searchID = id
		s.cache.Put(ctx, key, searchID)
	}

	raw, err := pollJob(ctx, "search", s.opts.Poll, func(ctx context.Context, _ int) (poll.Status[*domain.VendorSearch], error) {
		res, err := s.api.GetSearch(ctx, searchID)
		if err != nil {
			return poll.Status[*domain.VendorSearch]{}, err
		}
		switch {
		case res.Ready():
			return poll.Status[*domain.VendorSearch]{State: poll.Done, Payload: res}, nil
		case res.State == domain.JobError:
			return poll.Status[*domain.VendorSearch]{State: poll.Failed, Message: "search job reported error"}, nil
		}
		return poll.Status[*domain.VendorSearch]{State: poll.Pending}, nil
	})
	if err != nil {
		return nil, hit, fmt.Errorf("poll search %s: %w", searchID, err)
	}

	trips := make([]domain.Trip, 0, len(raw.Trips))
	for i := range raw.Trips {
		trips = append(trips, s.normalizeTrip(ctx, raw, i, origin, destination))
	}
	s.sortTrips(trips)

	return &domain.SearchResult{
		Success:      true,
		Origin:       formatting.DisplayPlace(origin),
		Destination:  formatting.DisplayPlace(destination),
		Date:         date,
		Trips:        trips,
		Filters:      buildFilters(trips),
		TotalResults: len(trips),
	}, hit, nil
}

func (s *SearchService) normalizeTrip(ctx context.Context, raw *domain.VendorSearch, index int, origin, destination string) domain.Trip {
	t := raw.Trips[index]

	var line *domain.VendorLine
	if l, ok := raw.Lines[t.LineID]; ok {
		line = &l
	}

	serviceName := domain.DefaultServiceName
	switch {
	case line != nil && line.Name != "":
		serviceName = line.Name
	case t.Service != "":
		serviceName = t.Service
	}

	var badges []string
	lineID := t.LineID
	if strings.Contains(lineID, "vip") || strings.Contains(lineID, "diamante") {
		badges = append(badges, domain.BadgeRecommended)
	}
	if index < 3 && t.Availability > 20 {
		badges = append(badges, domain.BadgePopular)
	}
	if badges == nil {
		badges = []string{}
	}

	price := domain.Price{
		Current:   int64(t.Pricing.Total),
		Formatted: formatting.Price(int64(t.Pricing.Total)),
	}
	if t.Pricing.DiscountType != nil {
		original := int64(t.Pricing.TotalBeforeDiscount)
		price.Original = &original
	}

	availability := t.Availability
	if availability < 0 {
		availability = 0
	}

	return domain.Trip{
		ID:                  string(t.ID),
		ServiceName:         serviceName,
		ServiceType:         s.lines.ServiceType(t.LineID, line),
		Departure:           endpoint(ctx, raw.Terminals, string(t.OriginID), origin, t.Departure),
		Arrival:             endpoint(ctx, raw.Terminals, string(t.DestinationID), destination, t.Arrival),
		Duration:            formatting.Duration(t.Duration),
		Price:               price,
		AvailableSeats:      availability,
		Amenities:           s.lines.Amenities(t.LineID, line),
		Badges:              badges,
		LineID:              t.LineID,
		AllowsSeatSelection: t.AllowsSeatSelection,
	}
}

func endpoint(ctx context.Context, terminals map[string]domain.VendorTerminal, terminalID, place, timestamp string) domain.Endpoint {
	upper := strings.ToUpper(place)
	ep := domain.Endpoint{
		City:     upper,
		Terminal: upper + " TERMINAL",
		Date:     formatting.DatePart(timestamp),
	}
	if term, ok := terminals[terminalID]; ok {
		if term.CityName != "" {
			ep.City = term.CityName
		}
		if term.Name != "" {
			ep.Terminal = term.Name
		}
	}
	clock, err := formatting.Clock(timestamp)
	if err != nil {
		logging.FromContext(ctx).Debug("unparseable trip timestamp", "timestamp", timestamp, "error", err)
	}
	ep.Time = clock
	return ep
}

func (s *SearchService) sortTrips(trips []domain.Trip) {
	if s.opts.SortMode == SortChronological {
		sort.SliceStable(trips, func(i, j int) bool {
			return formatting.MinutesSinceMidnight(trips[i].Departure.Time) < formatting.MinutesSinceMidnight(trips[j].Departure.Time)
		})
		return
	}
	sort.SliceStable(trips, func(i, j int) bool {
		return trips[i].Departure.Time < trips[j].Departure.Time
	})
}

func buildFilters(trips []domain.Trip) domain.SearchFilters {
	f := domain.SearchFilters{
		ServiceTypes:        []string{},
		DepartureTimeRanges: append([]domain.TimeRange(nil), domain.DepartureTimeRanges...),
	}
	seen := make(map[string]bool)
	for i, t := range trips {
		if !seen[t.ServiceType] {
			seen[t.ServiceType] = true
			f.ServiceTypes = append(f.ServiceTypes, t.ServiceType)
		}
		if i == 0 || t.Price.Current < f.PriceRange.Min {
			f.PriceRange.Min = t.Price.Current
		}
		if i == 0 || t.Price.Current > f.PriceRange.Max {
			f.PriceRange.Max = t.Price.Current
		}
	}
	return f
}
