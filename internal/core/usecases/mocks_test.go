package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/samirrijal/busticket/internal/core/domain"
)

// --- Mock ReservationAPI ---

type mockReservationAPI struct {
	mu sync.Mutex

	listPlacesFn    func(ctx context.Context) ([]domain.Place, error)
	createSearchFn  func(ctx context.Context, req domain.SearchRequest) (string, error)
	getSearchFn     func(ctx context.Context, id string) (*domain.VendorSearch, error)
	createDetailsFn func(ctx context.Context, tripID string) (string, error)
	getDetailsFn    func(ctx context.Context, tripID, requestID string) (*domain.VendorDetails, error)

	listPlacesCalls    int
	createSearchCalls  int
	getSearchCalls     int
	createDetailsCalls int
	getDetailsCalls    int
	lastSearch         domain.SearchRequest
}

func (m *mockReservationAPI) ListPlaces(ctx context.Context) ([]domain.Place, error) {
	m.mu.Lock()
	m.listPlacesCalls++
	m.mu.Unlock()
	if m.listPlacesFn != nil {
		return m.listPlacesFn(ctx)
	}
	return nil, nil
}

func (m *mockReservationAPI) CreateSearch(ctx context.Context, req domain.SearchRequest) (string, error) {
	m.mu.Lock()
	m.createSearchCalls++
	m.lastSearch = req
	m.mu.Unlock()
	if m.createSearchFn != nil {
		return m.createSearchFn(ctx, req)
	}
	return "search-1", nil
}

func (m *mockReservationAPI) GetSearch(ctx context.Context, id string) (*domain.VendorSearch, error) {
	m.mu.Lock()
	m.getSearchCalls++
	m.mu.Unlock()
	if m.getSearchFn != nil {
		return m.getSearchFn(ctx, id)
	}
	return &domain.VendorSearch{State: domain.JobFinished}, nil
}

func (m *mockReservationAPI) CreateDetailsRequest(ctx context.Context, tripID string) (string, error) {
	m.mu.Lock()
	m.createDetailsCalls++
	m.mu.Unlock()
	if m.createDetailsFn != nil {
		return m.createDetailsFn(ctx, tripID)
	}
	return "req-1", nil
}

func (m *mockReservationAPI) GetDetailsRequest(ctx context.Context, tripID, requestID string) (*domain.VendorDetails, error) {
	m.mu.Lock()
	m.getDetailsCalls++
	m.mu.Unlock()
	if m.getDetailsFn != nil {
		return m.getDetailsFn(ctx, tripID, requestID)
	}
	return &domain.VendorDetails{State: domain.JobFinished}, nil
}

// --- Mock SearchCache ---

type mockSearchCache struct {
	mu      sync.Mutex
	entries map[domain.SearchKey]string
	puts    int
}

func newMockSearchCache() *mockSearchCache {
	return &mockSearchCache{entries: make(map[domain.SearchKey]string)}
}

func (m *mockSearchCache) Get(ctx context.Context, key domain.SearchKey) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.entries[key]
	return id, ok
}

func (m *mockSearchCache) Put(ctx context.Context, key domain.SearchKey, id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = id
	m.puts++
}

// --- Mock CacheService ---

var errNotCached = errors.New("not cached")

type mockCache struct {
	data map[string][]byte
	ttls map[string]int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte), ttls: make(map[string]int)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, errNotCached
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.data[key] = value
	m.ttls[key] = ttlSeconds
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu       sync.Mutex
	searches []*domain.SearchPerformed
	seatMaps []*domain.SeatMapServed
	contacts []*domain.ContactReceived
	err      error
}

func (m *mockPublisher) PublishSearchPerformed(ctx context.Context, ev *domain.SearchPerformed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, ev)
	return m.err
}

func (m *mockPublisher) PublishSeatMapServed(ctx context.Context, ev *domain.SeatMapServed) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seatMaps = append(m.seatMaps, ev)
	return m.err
}

func (m *mockPublisher) PublishContactReceived(ctx context.Context, ev *domain.ContactReceived) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contacts = append(m.contacts, ev)
	return m.err
}
