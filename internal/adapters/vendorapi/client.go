// Package vendorapi is the HTTP client for the upstream reservation API.
package vendorapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/busticket/internal/core/domain"
	"github.com/samirrijal/busticket/internal/pkg/metrics"
	"github.com/samirrijal/busticket/internal/pkg/telemetry"
)

// maxBodyBytes caps how much of an upstream response is read.
const maxBodyBytes = 8 << 20

// Config holds connection settings for the reservation API.
type Config struct {
	BaseURL  string
	APIKey   string
	Language string
	Timeout  time.Duration
}

// Client implements ports.ReservationAPI over HTTP.
type Client struct {
	baseURL  string
	apiKey   string
	language string
	http     *http.Client
	tracer   trace.Tracer
}

// New creates a client. Language defaults to es-CO and Timeout to 15s.
func New(cfg Config) *Client {
	if cfg.Language == "" {
		cfg.Language = "es-CO"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		http:     &http.Client{Timeout: cfg.Timeout},
		tracer:   otel.Tracer(telemetry.InstrumentationName),
	}
}

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Endpoint string
	Status   int
	Message  string // first upstream error message, if any
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: upstream status %d: %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: upstream status %d", e.Endpoint, e.Status)
}

// ListPlaces returns every place the upstream can route between.
func (c *Client) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	var places []domain.Place
	if err := c.do(ctx, "places", http.MethodGet, "/places?prefetch=true", nil, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// CreateSearch starts a search job and returns its id. The id may be empty
// if the upstream answered 2xx without one.
func (c *Client) CreateSearch(ctx context.Context, req domain.SearchRequest) (string, error) {
	var resp struct {
		Search *struct {
			ID domain.FlexString `json:"id"`
		} `json:"search"`
		ID domain.FlexString `json:"id"`
	}
	if err := c.do(ctx, "create_search", http.MethodPost, "/search", req, &resp); err != nil {
		return "", err
	}
	if resp.Search != nil && resp.Search.ID != "" {
		return string(resp.Search.ID), nil
	}
	return string(resp.ID), nil
}

// GetSearch polls a search job once.
func (c *Client) GetSearch(ctx context.Context, searchID string) (*domain.VendorSearch, error) {
	var s domain.VendorSearch
	path := "/search/" + url.PathEscape(searchID) + "?type=bus"
	if err := c.do(ctx, "get_search", http.MethodGet, path, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

type detailsRequestBody struct {
	WithPricing bool     `json:"with_pricing"`
	Include     []string `json:"include"`
}

// CreateDetailsRequest starts a trip-details job including the bus layout
// and pricing.
func (c *Client) CreateDetailsRequest(ctx context.Context, tripID string) (string, error) {
	var resp struct {
		ID domain.FlexString `json:"id"`
	}
	body := detailsRequestBody{WithPricing: true, Include: []string{"bus"}}
	path := "/trips/" + url.PathEscape(tripID) + "/details_requests"
	if err := c.do(ctx, "create_details", http.MethodPost, path, body, &resp); err != nil {
		return "", err
	}
	return string(resp.ID), nil
}

// GetDetailsRequest polls a trip-details job once.
func (c *Client) GetDetailsRequest(ctx context.Context, tripID, requestID string) (*domain.VendorDetails, error) {
	var d domain.VendorDetails
	path := "/trips/" + url.PathEscape(tripID) + "/details_requests/" + url.PathEscape(requestID)
	if err := c.do(ctx, "get_details", http.MethodGet, path, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, body, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, telemetry.SpanUpstream+endpoint,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("upstream.endpoint", endpoint),
		),
	)
	defer span.End()

	status := 0
	start := time.Now()
	defer func() {
		metrics.ObserveUpstream(endpoint, status, start)
		span.SetAttributes(attribute.Int("http.response.status_code", status))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode body: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Authorization", "Token token="+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.language)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read body: %w", endpoint, err)
	}

	if status < 200 || status >= 300 {
		return &StatusError{Endpoint: endpoint, Status: status, Message: upstreamMessage(data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", endpoint, err)
	}
	return nil
}

// upstreamMessage extracts errors[0].message from an error body.
func upstreamMessage(body []byte) string {
	var e struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &e); err != nil || len(e.Errors) == 0 {
		return ""
	}
	return e.Errors[0].Message
}
