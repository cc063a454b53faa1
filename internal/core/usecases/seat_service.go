package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/busticket/internal/core/domain"
	"github.com/samirrijal/busticket/internal/core/poll"
	"github.com/samirrijal/busticket/internal/core/ports"
	"github.com/samirrijal/busticket/internal/pkg/logging"
	"github.com/samirrijal/busticket/internal/pkg/metrics"
	"github.com/samirrijal/busticket/internal/pkg/telemetry"
)

// Mock seat map served when the real one cannot be fetched.
const (
	MockRows      = 10
	MockSeatPrice = 85000
)

// MockOccupiedSeats are the seat numbers marked occupied in the mock map.
var MockOccupiedSeats = []int{3, 7, 12, 15, 21, 28, 33, 37}

var seatColumns = [4]string{"A", "B", "C", "D"}

const seatsPerRow = len(seatColumns)

// SeatOptions tunes SeatService.
type SeatOptions struct {
	// Poll.InitialDelay defaults to Poll.Interval: details jobs are never
	// ready on the first poll.
	Poll poll.Options
	// MockFallback serves the mock seat map on any upstream failure.
	// When false the failure is returned to the caller.
	MockFallback bool
}

// SeatService fetches and flattens the seat map of a trip.
type SeatService struct {
	api       ports.ReservationAPI
	publisher ports.EventPublisher
	opts      SeatOptions
	now       clock
	tracer    trace.Tracer
}

// NewSeatService creates a new SeatService. publisher may be nil.
func NewSeatService(api ports.ReservationAPI, publisher ports.EventPublisher, opts SeatOptions) *SeatService {
	if opts.Poll.InitialDelay == 0 {
		opts.Poll.InitialDelay = opts.Poll.Interval
		if opts.Poll.InitialDelay <= 0 {
			opts.Poll.InitialDelay = poll.DefaultInterval
		}
	}
	return &SeatService{
		api:       api,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
		tracer:    otel.Tracer(telemetry.InstrumentationName),
	}
}

// Seats returns the seat map of tripID.
func (s *SeatService) Seats(ctx context.Context, tripID string) (*domain.SeatResult, error) {
	tripID = strings.TrimSpace(tripID)
	if tripID == "" {
		return nil, fmt.Errorf("%w: tripId is required", domain.ErrInvalidInput)
	}

	ctx, span := s.tracer.Start(ctx, telemetry.SpanSeats, trace.WithAttributes(
		attribute.String("trip.id", tripID),
	))
	defer span.End()

	res, err := s.seats(ctx, tripID)
	ev := &domain.SeatMapServed{ID: newEventID(), Time: s.now(), TripID: tripID}
	if err != nil {
		span.RecordError(err)
		ev.Error = err.Error()
		if !s.opts.MockFallback {
			span.SetStatus(codes.Error, err.Error())
			logging.FromContext(ctx).Error("seat map failed", "trip_id", tripID, "error", err)
			s.publishServed(ctx, ev)
			return nil, err
		}
		logging.FromContext(ctx).Warn("seat map failed, serving mock layout", "trip_id", tripID, "error", err)
		res = MockSeatMap(tripID)
	}

	source := "upstream"
	if res.IsMock {
		source = "mock"
	}
	metrics.SeatMapsTotal.WithLabelValues(source).Inc()
	span.SetAttributes(attribute.Bool("seats.mock", res.IsMock), attribute.Int("seats.total", res.TotalSeats))

	ev.TotalSeats = res.TotalSeats
	ev.AvailableSeats = res.AvailableSeats
	ev.IsMock = res.IsMock
	s.publishServed(ctx, ev)
	return res, nil
}

func (s *SeatService) publishServed(ctx context.Context, ev *domain.SeatMapServed) {
	if s.publisher == nil {
		return
	}
	publishEvent(ctx, "seats.served", func() error {
		return s.publisher.PublishSeatMapServed(ctx, ev)
	})
}

func (s *SeatService) seats(ctx context.Context, tripID string) (*domain.SeatResult, error) {
	requestID, err := s.api.CreateDetailsRequest(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDetailsRequestFailed, err)
	}
	if requestID == "" {
		return nil, fmt.Errorf("%w: upstream returned no request id", domain.ErrDetailsRequestFailed)
	}

	details, err := pollJob(ctx, "details", s.opts.Poll, func(ctx context.Context, _ int) (poll.Status[*domain.VendorDetails], error) {
		d, err := s.api.GetDetailsRequest(ctx, tripID, requestID)
		if err != nil {
			return poll.Status[*domain.VendorDetails]{}, err
		}
		switch {
		case d.Done():
			return poll.Status[*domain.VendorDetails]{State: poll.Done, Payload: d}, nil
		case d.State == domain.JobError:
			return poll.Status[*domain.VendorDetails]{State: poll.Failed, Message: d.ErrorMessage}, nil
		}
		return poll.Status[*domain.VendorDetails]{State: poll.Pending}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("poll details %s: %w", requestID, err)
	}

	if len(details.Bus) == 0 {
		return nil, errors.New("details job returned no bus layout")
	}

	seats := FlattenBus(details.Bus, details.TripTotal())
	return newSeatResult(tripID, seats, domain.BusLayout{
		Floors:      len(details.Bus),
		Rows:        len(details.Bus[0]),
		SeatsPerRow: seatsPerRow,
	}), nil
}

// FlattenBus turns a floors → rows → items matrix into a seat list sorted
// by seat number. Seats take columns A-D in order within their row; row
// numbers restart on every floor.
func FlattenBus(bus domain.BusMatrix, price int64) []domain.Seat {
	seats := []domain.Seat{}
	for _, floor := range bus {
		for rowIndex, row := range floor {
			n := 0
			for _, item := range row {
				if !item.IsSeat() {
					continue
				}
				status := domain.SeatAvailable
				if item.Sold || item.Occupied {
					status = domain.SeatOccupied
				}
				seats = append(seats, newSeat(string(item.Number), rowIndex+1, n, status, price))
				n++
			}
		}
	}

	sort.SliceStable(seats, func(i, j int) bool {
		return seatNumber(seats[i].ID) < seatNumber(seats[j].ID)
	})
	return seats
}

// MockSeatMap builds the fixed 10×4 fallback layout.
func MockSeatMap(tripID string) *domain.SeatResult {
	occupied := make(map[int]bool, len(MockOccupiedSeats))
	for _, n := range MockOccupiedSeats {
		occupied[n] = true
	}

	seats := make([]domain.Seat, 0, MockRows*seatsPerRow)
	for row := 1; row <= MockRows; row++ {
		for col := 0; col < seatsPerRow; col++ {
			number := (row-1)*seatsPerRow + col + 1
			status := domain.SeatAvailable
			if occupied[number] {
				status = domain.SeatOccupied
			}
			seats = append(seats, newSeat(strconv.Itoa(number), row, col, status, MockSeatPrice))
		}
	}

	res := newSeatResult(tripID, seats, domain.BusLayout{Floors: 1, Rows: MockRows, SeatsPerRow: seatsPerRow})
	res.IsMock = true
	return res
}

func newSeat(id string, row, col int, status string, price int64) domain.Seat {
	column := seatColumns[col%seatsPerRow]
	typ := domain.SeatAisle
	if column == "A" || column == "D" {
		typ = domain.SeatWindow
	}
	return domain.Seat{ID: id, Row: row, Column: column, Status: status, Price: price, Type: typ}
}

func newSeatResult(tripID string, seats []domain.Seat, layout domain.BusLayout) *domain.SeatResult {
	available := 0
	for _, seat := range seats {
		if seat.Status == domain.SeatAvailable {
			available++
		}
	}
	return &domain.SeatResult{
		Success:        true,
		TripID:         tripID,
		Seats:          seats,
		Legend:         append([]domain.LegendEntry(nil), domain.SeatLegend...),
		BusLayout:      layout,
		TotalSeats:     len(seats),
		AvailableSeats: available,
	}
}

// seatNumber parses the leading digits of a seat id; ids without digits
// sort first.
func seatNumber(id string) int {
	end := 0
	for end < len(id) && id[end] >= '0' && id[end] <= '9' {
		end++
	}
	n, _ := strconv.Atoi(id[:end])
	return n
}
