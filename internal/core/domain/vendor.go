package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Upstream job states.
const (
	JobFinished = "finished"
	JobComplete = "complete"
	JobError    = "error"
)

// SearchRequest is the body of an upstream search creation.
type SearchRequest struct {
	Origin      string   `json:"origin"`
	Destination string   `json:"destination"`
	Date        string   `json:"date"`
	Passengers  []string `json:"passengers"`
	Way         string   `json:"way"`
	Round       bool     `json:"round"`
}

// NewOneWaySearch builds a single-adult, one-way search request.
func NewOneWaySearch(origin, destination, date string) SearchRequest {
	return SearchRequest{
		Origin:      origin,
		Destination: destination,
		Date:        date,
		Passengers:  []string{"adult"},
		Way:         "departure",
		Round:       false,
	}
}

// VendorPricing is the pricing block of an upstream trip.
type VendorPricing struct {
	Total               Amount  `json:"total"`
	TotalBeforeDiscount Amount  `json:"total_before_discount"`
	DiscountType        *string `json:"discount_type"`
}

// VendorTrip is a trip as the upstream search job reports it.
type VendorTrip struct {
	ID                  FlexString    `json:"id"`
	LineID              string        `json:"line_id"`
	OriginID            FlexString    `json:"origin_id"`
	DestinationID       FlexString    `json:"destination_id"`
	Departure           string        `json:"departure"`
	Arrival             string        `json:"arrival"`
	Duration            int           `json:"duration"`
	Service             string        `json:"service"`
	Availability        int           `json:"availability"`
	AllowsSeatSelection bool          `json:"allows_seat_selection"`
	Pricing             VendorPricing `json:"pricing"`
}

// VendorLine describes a bus line (service class) of the upstream catalog.
type VendorLine struct {
	Name        string   `json:"name"`
	ServiceType string   `json:"service_type"`
	Services    []string `json:"services"`
}

// VendorTerminal describes a bus terminal.
type VendorTerminal struct {
	Name     string `json:"name"`
	CityName string `json:"city_name"`
}

// VendorSearch is one poll of an upstream search job.
type VendorSearch struct {
	State     string                    `json:"state"`
	Trips     []VendorTrip              `json:"trips"`
	Lines     map[string]VendorLine     `json:"lines"`
	Terminals map[string]VendorTerminal `json:"terminals"`
}

// Ready reports whether the search job has results to hand back.
func (s *VendorSearch) Ready() bool {
	return s.State == JobFinished || s.State == JobComplete || len(s.Trips) > 0
}

// BusItem is one cell of an upstream bus matrix: a seat or a filler
// (aisle gap, stairs, driver, ...).
type BusItem struct {
	Category string     `json:"category"`
	Number   FlexString `json:"number"`
	Sold     bool       `json:"sold"`
	Occupied bool       `json:"occupied"`
}

// IsSeat reports whether the item is a numbered seat.
func (i BusItem) IsSeat() bool {
	return i.Category == "seat" && i.Number != ""
}

// BusMatrix is floors → rows → items.
type BusMatrix [][][]BusItem

// VendorDetails is one poll of an upstream trip-details job.
type VendorDetails struct {
	State        string             `json:"state"`
	ErrorMessage string             `json:"error_message"`
	Bus          BusMatrix          `json:"bus"`
	Trip         *VendorTripSummary `json:"trip"`
}

// VendorTripSummary is the trip block of a details job.
type VendorTripSummary struct {
	Pricing *VendorPricing `json:"pricing"`
}

// Done reports whether the details job finished.
func (d *VendorDetails) Done() bool {
	return d.State == JobFinished || d.State == JobComplete
}

// TripTotal returns the trip price, or 0 if the job did not include pricing.
func (d *VendorDetails) TripTotal() int64 {
	if d.Trip == nil || d.Trip.Pricing == nil {
		return 0
	}
	return int64(d.Trip.Pricing.Total)
}

// FlexString decodes from either a JSON string or a JSON number.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("flexstring: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

// Amount is an integer COP amount. The upstream sometimes sends decimals or
// quoted numbers; both are rounded to whole pesos.
type Amount int64

func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(math.Round(v))
	return nil
}
