package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DanielChillemi/pourcast/internal/metrics"
)

// ErrRateLimited is returned when a provider's call budget for the current
// window is already spent; no upstream call is attempted.
var ErrRateLimited = errors.New("rate limit exceeded")

// Limits bundles the freshness and call-budget settings for one provider.
type Limits struct {
	TTL      time.Duration // how long a fetched value stays servable
	MaxCalls int           // attempted upstream calls allowed per window
	Window   time.Duration // fixed rate-limit window
}

type entry struct {
	value     any
	fetchedAt time.Time
}

type window struct {
	start time.Time
	calls int
}

// Store is the shared rate-limited cache every external-data component goes
// through. Cache entries are keyed by (provider, key); rate-limit windows are
// per provider. State lives for the process lifetime; there is no eviction
// beyond TTL expiry.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	windows map[string]*window
	now     func() time.Time
	met     *metrics.Registry
}

func New(met *metrics.Registry) *Store {
	return NewWithClock(met, time.Now)
}

// NewWithClock lets tests control entry expiry and window resets.
func NewWithClock(met *metrics.Registry, now func() time.Time) *Store {
	return &Store{
		entries: make(map[string]entry),
		windows: make(map[string]*window),
		now:     now,
		met:     met,
	}
}

// GetOrFetch returns the cached value for (provider, key) while it is fresh;
// a hit costs nothing against the provider's budget. On a miss it charges the
// window and invokes fetch. A failed fetch still counts against the window
// but leaves the cache unpopulated.
//
// The fetch runs outside the store lock and there is no request coalescing:
// two concurrent misses on the same key both call upstream and both charge
// the window. Callers must tolerate duplicate upstream calls under
// concurrent cold-cache load.
func GetOrFetch[T any](ctx context.Context, s *Store, provider, key string, lim Limits, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	if v, ok := s.lookup(provider, key, lim.TTL); ok {
		if cached, ok := v.(T); ok {
			return cached, nil
		}
		// Value stored under this key has a different type; treat as a miss.
	}

	if err := s.charge(provider, lim); err != nil {
		return zero, err
	}

	v, err := fetch(ctx)
	if err != nil {
		s.met.UpstreamCalls.WithLabelValues(provider, "error").Inc()
		return zero, err
	}
	s.met.UpstreamCalls.WithLabelValues(provider, "ok").Inc()

	s.put(provider, key, v)
	return v, nil
}

func (s *Store) lookup(provider, key string, ttl time.Duration) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[entryKey(provider, key)]
	if !ok || s.now().Sub(e.fetchedAt) >= ttl {
		s.met.CacheMisses.Inc()
		return nil, false
	}
	s.met.CacheHits.Inc()
	return e.value, true
}

// charge consumes one call from the provider's window, resetting the window
// first when it has elapsed.
func (s *Store) charge(provider string, lim Limits) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[provider]
	if !ok || now.Sub(w.start) >= lim.Window {
		w = &window{start: now}
		s.windows[provider] = w
	}
	if w.calls >= lim.MaxCalls {
		s.met.RateLimited.Inc()
		return fmt.Errorf("%s: %w", provider, ErrRateLimited)
	}
	w.calls++
	return nil
}

func (s *Store) put(provider, key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entryKey(provider, key)] = entry{value: v, fetchedAt: s.now()}
}

func entryKey(provider, key string) string {
	return provider + "\x1f" + key
}
