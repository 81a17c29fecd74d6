package screener

import (
	"sync"
	"time"

	"TradeFalcon/internal/model"
)

// Feed supplies screener recommendations keyed by symbol. The trading core
// only reads the feed; an external screening process refreshes it.
type Feed interface {
	Recommendations() (map[string]model.Recommendation, error)
	Name() string
}

// StaticFeed returns a fixed recommendation set. Used in tests.
type StaticFeed struct {
	Recs map[string]model.Recommendation
	Err  error
}

func (s *StaticFeed) Name() string { return "static" }

func (s *StaticFeed) Recommendations() (map[string]model.Recommendation, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Recs, nil
}

// CachedFeed wraps a Feed with a short TTL so repeated reads within a cycle
// don't re-parse or re-fetch.
type CachedFeed struct {
	inner Feed
	ttl   time.Duration

	mu        sync.Mutex
	cached    map[string]model.Recommendation
	fetchedAt time.Time
}

// NewCachedFeed wraps a feed with the given TTL.
func NewCachedFeed(inner Feed, ttl time.Duration) *CachedFeed {
	return &CachedFeed{inner: inner, ttl: ttl}
}

func (c *CachedFeed) Name() string { return c.inner.Name() }

func (c *CachedFeed) Recommendations() (map[string]model.Recommendation, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached != nil && time.Since(c.fetchedAt) < c.ttl {
		return c.cached, nil
	}
	recs, err := c.inner.Recommendations()
	if err != nil {
		// Serve the previous snapshot if we have one; the feed is advisory
		// and staleness is enforced downstream by the validator.
		if c.cached != nil {
			return c.cached, nil
		}
		return nil, err
	}
	c.cached = recs
	c.fetchedAt = time.Now()
	return recs, nil
}
