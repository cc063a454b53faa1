package domain

import (
	"net/url"
	"time"
)

// Badge tags attached to trips in search results.
const (
	BadgeRecommended = "recommended"
	BadgePopular     = "popular"
)

// Seat statuses. SeatSelected only ever appears in the legend; the client
// owns selection state.
const (
	SeatAvailable = "available"
	SeatSelected  = "selected"
	SeatOccupied  = "occupied"
)

// Seat types.
const (
	SeatWindow = "window"
	SeatAisle  = "aisle"
)

// SearchKey identifies an upstream search job for caching purposes.
type SearchKey struct {
	Origin      string
	Destination string
	Date        string
}

// String renders the key as origin/destination/date with each part
// path-escaped, so slugs containing "-" or "/" never collide.
func (k SearchKey) String() string {
	return url.PathEscape(k.Origin) + "/" + url.PathEscape(k.Destination) + "/" + url.PathEscape(k.Date)
}

// Endpoint is one end of a trip (departure or arrival).
type Endpoint struct {
	City     string `json:"city"`
	Terminal string `json:"terminal"`
	Time     string `json:"time"`
	Date     string `json:"date"`
}

// Price holds integer COP amounts. Original is nil unless a discount applies.
type Price struct {
	Current   int64  `json:"current"`
	Original  *int64 `json:"original"`
	Formatted string `json:"formatted"`
}

// Trip is a normalized bus trip returned by a search.
type Trip struct {
	ID                  string   `json:"id"`
	ServiceName         string   `json:"serviceName"`
	ServiceType         string   `json:"serviceType"`
	Departure           Endpoint `json:"departure"`
	Arrival             Endpoint `json:"arrival"`
	Duration            string   `json:"duration"`
	Price               Price    `json:"price"`
	AvailableSeats      int      `json:"availableSeats"`
	Amenities           []string `json:"amenities"`
	Badges              []string `json:"badges"`
	LineID              string   `json:"lineId"`
	AllowsSeatSelection bool     `json:"allowsSeatSelection"`
}

// PriceRange is the min/max current price across a result set.
type PriceRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// TimeRange is a departure-time bucket offered as a filter.
type TimeRange struct {
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// SearchFilters describes the facets available for a result set.
type SearchFilters struct {
	ServiceTypes        []string    `json:"serviceTypes"`
	PriceRange          PriceRange  `json:"priceRange"`
	DepartureTimeRanges []TimeRange `json:"departureTimeRanges"`
}

// SearchResult is the response of a trip search.
type SearchResult struct {
	Success      bool          `json:"success"`
	Origin       string        `json:"origin"`
	Destination  string        `json:"destination"`
	Date         string        `json:"date"`
	Trips        []Trip        `json:"trips"`
	Filters      SearchFilters `json:"filters"`
	TotalResults int           `json:"totalResults"`
}

// DepartureTimeRanges are the fixed departure filters shown to the user.
var DepartureTimeRanges = []TimeRange{
	{Label: "Madrugada", Start: "00:00", End: "06:00"},
	{Label: "Mañana", Start: "06:00", End: "12:00"},
	{Label: "Tarde", Start: "12:00", End: "18:00"},
	{Label: "Noche", Start: "18:00", End: "24:00"},
}

// Seat is one addressable seat in a bus layout.
type Seat struct {
	ID     string `json:"id"`
	Row    int    `json:"row"`
	Column string `json:"column"`
	Status string `json:"status"`
	Price  int64  `json:"price"`
	Type   string `json:"type"`
}

// LegendEntry maps a seat status to its display label and color.
type LegendEntry struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Color  string `json:"color"`
}

// SeatLegend is the fixed status legend sent with every seat map.
var SeatLegend = []LegendEntry{
	{Status: SeatAvailable, Label: "Disponible", Color: "#22c55e"},
	{Status: SeatSelected, Label: "Seleccionado", Color: "#3b82f6"},
	{Status: SeatOccupied, Label: "Ocupado", Color: "#ef4444"},
}

// BusLayout summarizes the physical layout of a bus.
type BusLayout struct {
	Floors      int `json:"floors"`
	Rows        int `json:"rows"`
	SeatsPerRow int `json:"seatsPerRow"`
}

// SeatResult is the response of a seat-map lookup.
type SeatResult struct {
	Success        bool          `json:"success"`
	TripID         string        `json:"tripId"`
	Seats          []Seat        `json:"seats"`
	Legend         []LegendEntry `json:"legend"`
	BusLayout      BusLayout     `json:"busLayout"`
	TotalSeats     int           `json:"totalSeats"`
	AvailableSeats int           `json:"availableSeats"`
	IsMock         bool          `json:"isMock,omitempty"`
}

// Place is a city or terminal the upstream API can route between.
type Place struct {
	ID         FlexString `json:"id"`
	Display    string     `json:"display"`
	CityName   string     `json:"city_name"`
	Slug       string     `json:"slug"`
	State      string     `json:"state,omitempty"`
	Country    string     `json:"country,omitempty"`
	Popularity FlexString `json:"popularity,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// Destination is a featured destination card on the home page.
type Destination struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image"`
	From     string `json:"from"`
	Price    int64  `json:"price"`
	Currency string `json:"currency"`
}

// Service is a company brand shown in the site footer.
type Service struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// ContactMessage is a message submitted through the contact form.
type ContactMessage struct {
	Nombre    string    `json:"nombre"`
	Email     string    `json:"email"`
	Telefono  string    `json:"telefono,omitempty"`
	Asunto    string    `json:"asunto,omitempty"`
	Mensaje   string    `json:"mensaje"`
	CreatedAt time.Time `json:"createdAt"`
}

// ContactReceipt acknowledges a contact message.
type ContactReceipt struct {
	Ticket  string         `json:"ticket"`
	Message ContactMessage `json:"data"`
}
