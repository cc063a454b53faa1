package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	handler "github.com/samirrijal/busticket/internal/adapters/http"
	"github.com/samirrijal/busticket/internal/adapters/memory"
	"github.com/samirrijal/busticket/internal/core/domain"
	"github.com/samirrijal/busticket/internal/core/poll"
	"github.com/samirrijal/busticket/internal/core/usecases"
)

// ---- Mock reservation API ----

type mockReservationAPI struct {
	listPlacesFn    func(ctx context.Context) ([]domain.Place, error)
	createSearchFn  func(ctx context.Context, req domain.SearchRequest) (string, error)
	getSearchFn     func(ctx context.Context, id string) (*domain.VendorSearch, error)
	createDetailsFn func(ctx context.Context, tripID string) (string, error)
	getDetailsFn    func(ctx context.Context, tripID, requestID string) (*domain.VendorDetails, error)
}

func (m *mockReservationAPI) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	if m.listPlacesFn != nil {
		return m.listPlacesFn(ctx)
	}
	return nil, errors.New("places unavailable")
}
func (m *mockReservationAPI) CreateSearch(ctx context.Context, req domain.SearchRequest) (string, error) {
	if m.createSearchFn != nil {
		return m.createSearchFn(ctx, req)
	}
	return "search-1", nil
}
func (m *mockReservationAPI) GetSearch(ctx context.Context, id string) (*domain.VendorSearch, error) {
	if m.getSearchFn != nil {
		return m.getSearchFn(ctx, id)
	}
	return &domain.VendorSearch{State: domain.JobFinished}, nil
}
func (m *mockReservationAPI) CreateDetailsRequest(ctx context.Context, tripID string) (string, error) {
	if m.createDetailsFn != nil {
		return m.createDetailsFn(ctx, tripID)
	}
	return "", errors.New("details unavailable")
}
func (m *mockReservationAPI) GetDetailsRequest(ctx context.Context, tripID, requestID string) (*domain.VendorDetails, error) {
	if m.getDetailsFn != nil {
		return m.getDetailsFn(ctx, tripID, requestID)
	}
	return nil, errors.New("details unavailable")
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type stubConn bool

func (c stubConn) Connected() bool { return bool(c) }

// ---- Test helpers ----

var fastPoll = poll.Options{Interval: time.Millisecond, MaxAttempts: 3}

func setupApp(deps *handler.Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true, ErrorHandler: handler.ErrorHandler})
	handler.SetupRoutes(app, deps)
	return app
}

func makeDeps(api *mockReservationAPI, opts ...func(*handler.Dependencies)) *handler.Dependencies {
	if api == nil {
		api = &mockReservationAPI{}
	}
	d := &handler.Dependencies{
		Search:    usecases.NewSearchService(api, memory.NewSearchCache(time.Minute), nil, nil, usecases.SearchOptions{Poll: fastPoll}),
		Seats:     usecases.NewSeatService(api, nil, usecases.SeatOptions{Poll: fastPoll, MockFallback: true}),
		Places:    usecases.NewPlaceService(api, nil),
		Catalog:   usecases.NewCatalogService(),
		Contact:   usecases.NewContactService(nil),
		StartedAt: time.Now(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func readBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	b, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return b
}

func decodeAPIError(t *testing.T, body io.Reader) handler.APIError {
	t.Helper()
	var apiErr handler.APIError
	if err := json.NewDecoder(body).Decode(&apiErr); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return apiErr
}

// ---- Search handler tests ----

func TestSearch_Success(t *testing.T) {
	api := &mockReservationAPI{
		getSearchFn: func(ctx context.Context, id string) (*domain.VendorSearch, error) {
			return &domain.VendorSearch{
				State: domain.JobFinished,
				Trips: []domain.VendorTrip{
					{ID: "t1", LineID: "l1", Departure: "2026-10-15T14:30:00", Arrival: "2026-10-15T20:00:00", Availability: 12,
						Pricing: domain.VendorPricing{Total: 120000, TotalBeforeDiscount: 120000}},
					{ID: "t2", LineID: "l1", Departure: "2026-10-15T08:15:00", Arrival: "2026-10-15T14:00:00", Availability: 40,
						Pricing: domain.VendorPricing{Total: 95000, TotalBeforeDiscount: 95000}},
				},
			}, nil
		},
	}
	app := setupApp(makeDeps(api))

	req := httptest.NewRequest("GET", "/api/search?origin=bogota&destination=medellin&date=2026-10-20", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var result domain.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if !result.Success || result.TotalResults != 2 {
		t.Fatalf("expected 2 results, got %+v", result)
	}
	if result.Date != "2026-10-20" {
		t.Errorf("expected date echoed, got %q", result.Date)
	}
	if result.Filters.PriceRange != (domain.PriceRange{Min: 95000, Max: 120000}) {
		t.Errorf("unexpected price range %+v", result.Filters.PriceRange)
	}
	if len(result.Filters.DepartureTimeRanges) != 4 {
		t.Errorf("expected 4 departure ranges, got %d", len(result.Filters.DepartureTimeRanges))
	}
}

func TestSearch_MissingParams(t *testing.T) {
	app := setupApp(makeDeps(nil))

	for _, url := range []string{"/api/search", "/api/search?origin=bogota", "/api/search?destination=cali"} {
		req := httptest.NewRequest("GET", url, nil)
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != 400 {
			t.Fatalf("%s: expected 400, got %d", url, resp.StatusCode)
		}
		apiErr := decodeAPIError(t, resp.Body)
		if apiErr.Success || apiErr.Error != "Se requiere origen y destino" {
			t.Errorf("%s: unexpected error body %+v", url, apiErr)
		}
	}
}

func TestSearch_UpstreamFailure(t *testing.T) {
	api := &mockReservationAPI{
		createSearchFn: func(ctx context.Context, req domain.SearchRequest) (string, error) {
			return "", errors.New("connection refused")
		},
	}
	app := setupApp(makeDeps(api))

	req := httptest.NewRequest("GET", "/api/search?origin=bogota&destination=cali", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 500 {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}
	apiErr := decodeAPIError(t, resp.Body)
	if apiErr.Error != "Error al buscar viajes. Intente nuevamente." {
		t.Errorf("unexpected error %q", apiErr.Error)
	}
	if !strings.Contains(apiErr.Message, "connection refused") {
		t.Errorf("expected underlying cause in message, got %q", apiErr.Message)
	}
	if apiErr.RequestID == "" {
		t.Error("expected request id in error body")
	}
}

// ---- Seats handler tests ----

func TestSeats_MissingTripID(t *testing.T) {
	app := setupApp(makeDeps(nil))

	req := httptest.NewRequest("GET", "/api/seats", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	if apiErr := decodeAPIError(t, resp.Body); apiErr.Code != "bad_request" {
		t.Errorf("expected bad_request, got %+v", apiErr)
	}
}

func TestSeats_MockFallback(t *testing.T) {
	app := setupApp(makeDeps(nil))

	req := httptest.NewRequest("GET", "/api/seats?tripId=abc", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("expected no-store, got %q", cc)
	}
	if resp.Header.Get("ETag") != "" {
		t.Error("expected no ETag on seat maps")
	}

	var result domain.SeatResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if !result.IsMock || result.TotalSeats != 40 || result.AvailableSeats != 32 || result.TripID != "abc" {
		t.Errorf("unexpected mock seat map %+v", result)
	}
}

func TestSeats_FailFast(t *testing.T) {
	deps := makeDeps(nil, func(d *handler.Dependencies) {
		d.Seats = usecases.NewSeatService(&mockReservationAPI{}, nil, usecases.SeatOptions{Poll: fastPoll})
	})
	app := setupApp(deps)

	req := httptest.NewRequest("GET", "/api/seats?tripId=abc", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

// ---- Places handler tests ----

func TestPlaces_LocalFallback(t *testing.T) {
	app := setupApp(makeDeps(nil))

	req := httptest.NewRequest("GET", "/api/places?q=bogota", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var places []domain.Place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		t.Fatal(err)
	}
	if len(places) != 1 || places[0].CityName != "Bogotá" {
		t.Errorf("expected Bogotá, got %+v", places)
	}
}

func TestPlaces_Prefetch(t *testing.T) {
	api := &mockReservationAPI{
		listPlacesFn: func(ctx context.Context) ([]domain.Place, error) {
			return []domain.Place{{ID: "9", Display: "Tunja", CityName: "Tunja"}}, nil
		},
	}
	app := setupApp(makeDeps(api))

	req := httptest.NewRequest("GET", "/api/places?prefetch=true", nil)
	resp, _ := app.Test(req, -1)

	var places []domain.Place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		t.Fatal(err)
	}
	if len(places) != 1 || places[0].ID != "9" {
		t.Errorf("expected upstream places, got %+v", places)
	}
}

// ---- Catalog handler tests ----

func TestDestinations(t *testing.T) {
	tests := []struct {
		url   string
		items int
	}{
		{"/api/destinations", 4},
		{"/api/destinations?limit=2", 2},
		{"/api/destinations?limit=0", 0},
		{"/api/destinations?limit=99", 4},
	}

	app := setupApp(makeDeps(nil))
	for _, tc := range tests {
		req := httptest.NewRequest("GET", tc.url, nil)
		resp, _ := app.Test(req, -1)
		if resp.StatusCode != 200 {
			t.Fatalf("%s: expected 200, got %d", tc.url, resp.StatusCode)
		}

		var result struct {
			Success      bool                 `json:"success"`
			Count        int                  `json:"count"`
			Destinations []domain.Destination `json:"destinations"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			t.Fatal(err)
		}
		if !result.Success || result.Count != 4 || len(result.Destinations) != tc.items {
			t.Errorf("%s: unexpected result %+v", tc.url, result)
		}
	}
}

func TestDestinations_BadLimit(t *testing.T) {
	app := setupApp(makeDeps(nil))

	req := httptest.NewRequest("GET", "/api/destinations?limit=abc", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestServices_ETag(t *testing.T) {
	app := setupApp(makeDeps(nil))

	resp, _ := app.Test(httptest.NewRequest("GET", "/api/services", nil), -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var result struct {
		Count    int              `json:"count"`
		Services []domain.Service `json:"services"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if result.Count != 5 || len(result.Services) != 5 {
		t.Errorf("expected 5 services, got %+v", result)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "public, max-age=3600" {
		t.Errorf("unexpected Cache-Control %q", cc)
	}

	etag := resp.Header.Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("expected weak ETag, got %q", etag)
	}

	req := httptest.NewRequest("GET", "/api/services", nil)
	req.Header.Set("If-None-Match", etag)
	resp, _ = app.Test(req, -1)
	if resp.StatusCode != 304 {
		t.Errorf("expected 304, got %d", resp.StatusCode)
	}
}

// ---- Contact handler tests ----

func TestContact_Success(t *testing.T) {
	app := setupApp(makeDeps(nil))

	req := httptest.NewRequest("POST", "/api/contact", strings.NewReader(`{"nombre":"Ana","email":"ana@example.co","mensaje":"Hola"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, readBody(t, resp.Body))
	}

	var result struct {
		Success bool                  `json:"success"`
		Message string                `json:"message"`
		Ticket  string                `json:"ticket"`
		Data    domain.ContactMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if !result.Success || !strings.HasPrefix(result.Ticket, "TKT-") {
		t.Errorf("unexpected receipt %+v", result)
	}
	if result.Data.Nombre != "Ana" || result.Data.CreatedAt.IsZero() {
		t.Errorf("expected echoed data with createdAt, got %+v", result.Data)
	}
}

func TestContact_Validation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing mensaje", `{"nombre":"Ana","email":"ana@example.co"}`, usecases.MsgContactRequired},
		{"bad email", `{"nombre":"Ana","email":"ana@example","mensaje":"Hola"}`, usecases.MsgContactEmail},
		{"malformed body", `{"nombre":`, "Cuerpo de la solicitud inválido"},
	}

	app := setupApp(makeDeps(nil))
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/contact", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp, _ := app.Test(req, -1)
			if resp.StatusCode != 400 {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
			if apiErr := decodeAPIError(t, resp.Body); apiErr.Error != tc.want {
				t.Errorf("expected %q, got %q", tc.want, apiErr.Error)
			}
		})
	}
}

// ---- GraphQL tests ----

func TestGraphQL_Catalogs(t *testing.T) {
	app := setupApp(makeDeps(nil))

	body := `{"query":"{ destinations(limit: 1) { name price } services { name } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Data struct {
			Destinations []struct {
				Name  string `json:"name"`
				Price int64  `json:"price"`
			} `json:"destinations"`
			Services []struct {
				Name string `json:"name"`
			} `json:"services"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors %v", result.Errors)
	}
	if len(result.Data.Destinations) != 1 || result.Data.Destinations[0].Name != "Valledupar" || result.Data.Destinations[0].Price != 64000 {
		t.Errorf("unexpected destinations %+v", result.Data.Destinations)
	}
	if len(result.Data.Services) != 5 {
		t.Errorf("expected 5 services, got %d", len(result.Data.Services))
	}
}

func TestGraphQL_Places(t *testing.T) {
	app := setupApp(makeDeps(nil))

	body := `{"query":"{ places(q: \"cucuta\") { id city_name } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := app.Test(req, -1)

	var result struct {
		Data struct {
			Places []struct {
				ID       string `json:"id"`
				CityName string `json:"city_name"`
			} `json:"places"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatal(err)
	}
	if len(result.Data.Places) != 1 || result.Data.Places[0].ID != "9" {
		t.Errorf("unexpected places %+v", result.Data.Places)
	}
}

// ---- Health handler tests ----

func TestHealth_Returns200(t *testing.T) {
	app := setupApp(makeDeps(nil))

	req := httptest.NewRequest("GET", "/api/health", nil)
	resp, _ := app.Test(req, -1)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result map[string]interface{}
	json.NewDecoder(resp.Body).Decode(&result)
	if result["status"] != "OK" || result["success"] != true || result["apiConnected"] != true {
		t.Errorf("unexpected health body %v", result)
	}
	if _, ok := result["uptime"].(float64); !ok {
		t.Errorf("expected numeric uptime, got %v", result["uptime"])
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name  string
		cache handler.Pinger
		nats  handler.ConnState
		want  int
	}{
		{"nothing configured", nil, nil, 200},
		{"all up", stubPinger{}, stubConn(true), 200},
		{"cache down", stubPinger{err: errors.New("dial tcp: refused")}, nil, 503},
		{"nats down", nil, stubConn(false), 503},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			deps := makeDeps(nil, func(d *handler.Dependencies) {
				d.Cache = tc.cache
				d.NATS = tc.nats
			})
			app := setupApp(deps)

			resp, _ := app.Test(httptest.NewRequest("GET", "/api/ready", nil), -1)
			if resp.StatusCode != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

// ---- Routing ----

func TestUnknownRoute(t *testing.T) {
	app := setupApp(makeDeps(nil))

	resp, _ := app.Test(httptest.NewRequest("GET", "/api/nope", nil), -1)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	apiErr := decodeAPIError(t, resp.Body)
	if apiErr.Success || apiErr.Message != "Ruta no encontrada" {
		t.Errorf("unexpected 404 body %+v", apiErr)
	}
}

func TestAPIVersionHeader(t *testing.T) {
	app := setupApp(makeDeps(nil))

	resp, _ := app.Test(httptest.NewRequest("GET", "/api/health", nil), -1)
	if v := resp.Header.Get("X-API-Version"); v != "1.0.0" {
		t.Errorf("expected X-API-Version 1.0.0, got %q", v)
	}
	if v := resp.Header.Get("X-Content-Type-Options"); v != "nosniff" {
		t.Errorf("expected nosniff, got %q", v)
	}
}

// TestAccessLogMiddleware verifies errors are rendered before the line is logged.
func TestAccessLogMiddleware(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Use(handler.AccessLogMiddleware())

	app.Get("/ok", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})
	app.Get("/slow", func(c *fiber.Ctx) error {
		return fiber.ErrRequestTimeout
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	if body := readBody(t, resp.Body); !strings.Contains(string(body), "ok") {
		t.Errorf("expected response body to contain 'ok', got %s", body)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/slow", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusRequestTimeout {
		t.Fatalf("expected 408, got %d", resp.StatusCode)
	}
	if apiErr := decodeAPIError(t, resp.Body); apiErr.Code != "timeout" {
		t.Errorf("expected timeout code, got %+v", apiErr)
	}
}
