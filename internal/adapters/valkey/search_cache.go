package valkey

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samirrijal/busticket/internal/core/domain"
	"github.com/samirrijal/busticket/internal/core/ports"
)

const searchKeyPrefix = "busticket:search:"

// SearchCache implements ports.SearchCache on top of a shared Valkey
// instance, so every API replica reuses the same upstream search jobs.
// Expiry is left to Valkey.
type SearchCache struct {
	cache ports.CacheService
	ttl   time.Duration
}

// NewSearchCache stores search ids in cache for ttl (rounded down to whole
// seconds, minimum one).
func NewSearchCache(cache ports.CacheService, ttl time.Duration) *SearchCache {
	return &SearchCache{cache: cache, ttl: ttl}
}

// Get returns the stored search id. Connection errors count as misses.
func (s *SearchCache) Get(ctx context.Context, key domain.SearchKey) (string, bool) {
	b, err := s.cache.Get(ctx, searchKeyPrefix+key.String())
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			slog.WarnContext(ctx, "search cache read failed", "key", key.String(), "error", err)
		}
		return "", false
	}
	if len(b) == 0 {
		return "", false
	}
	return string(b), true
}

// Put stores id under key. Failures are logged and otherwise ignored: the
// next identical search simply creates a new upstream job.
func (s *SearchCache) Put(ctx context.Context, key domain.SearchKey, id string) {
	secs := int(s.ttl / time.Second)
	if secs < 1 {
		secs = 1
	}
	if err := s.cache.Set(ctx, searchKeyPrefix+key.String(), []byte(id), secs); err != nil {
		slog.WarnContext(ctx, "search cache write failed", "key", key.String(), "error", err)
	}
}
