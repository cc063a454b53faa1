package telemetry

// InstrumentationName identifies tracers created by this service.
const InstrumentationName = "github.com/samirrijal/busticket"

// Span names used for instrumentation.
const (
	SpanSearch   = "search.trips"
	SpanSeats    = "seats.map"
	SpanPlaces   = "places.list"
	SpanUpstream = "upstream."
)
