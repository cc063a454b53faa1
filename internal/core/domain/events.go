package domain

import "time"

// SearchPerformed is emitted after every trip search, successful or not.
type SearchPerformed struct {
	ID          string    `json:"id"`
	Time        time.Time `json:"time"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Date        string    `json:"date"`
	CacheHit    bool      `json:"cache_hit"`
	Results     int       `json:"results"`
	Error       string    `json:"error,omitempty"`
}

// SeatMapServed is emitted for every seat-map response.
type SeatMapServed struct {
	ID             string    `json:"id"`
	Time           time.Time `json:"time"`
	TripID         string    `json:"trip_id"`
	TotalSeats     int       `json:"total_seats"`
	AvailableSeats int       `json:"available_seats"`
	IsMock         bool      `json:"is_mock"`
	Error          string    `json:"error,omitempty"`
}

// ContactReceived carries a contact-form submission to downstream handlers.
type ContactReceived struct {
	ID      string         `json:"id"`
	Ticket  string         `json:"ticket"`
	Message ContactMessage `json:"message"`
}
