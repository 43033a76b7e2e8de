package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DanielChillemi/pourcast/internal/metrics"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewWithClock(metrics.NewRegistry(), clock.now), clock
}

func TestGetOrFetchCachesWithinTTL(t *testing.T) {
	store, clock := newTestStore()
	lim := Limits{TTL: 10 * time.Minute, MaxCalls: 100, Window: time.Minute}

	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "fetched", nil
	}

	for i := 0; i < 3; i++ {
		v, err := GetOrFetch(context.Background(), store, "weather", "austin", lim, fetch)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "fetched" {
			t.Fatalf("expected %q, got %q", "fetched", v)
		}
		clock.advance(time.Minute)
	}

	if calls != 1 {
		t.Fatalf("expected exactly 1 fetch within TTL, got %d", calls)
	}
}

func TestGetOrFetchRefetchesAfterTTL(t *testing.T) {
	store, clock := newTestStore()
	lim := Limits{TTL: 5 * time.Minute, MaxCalls: 100, Window: time.Minute}

	calls := 0
	fetch := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	if _, err := GetOrFetch(context.Background(), store, "weather", "austin", lim, fetch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Expiry is exact: an entry aged to exactly the TTL is stale.
	clock.advance(5 * time.Minute)

	v, err := GetOrFetch(context.Background(), store, "weather", "austin", lim, fetch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected a refetch after TTL, got %d calls", calls)
	}
	if v != 2 {
		t.Fatalf("expected fresh value 2, got %d", v)
	}
}

func TestGetOrFetchRateLimitsColdKeys(t *testing.T) {
	store, _ := newTestStore()
	lim := Limits{TTL: time.Minute, MaxCalls: 2, Window: time.Hour}

	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "v", nil
	}

	// Distinct keys so every call is a miss against the same provider budget.
	for _, key := range []string{"a", "b"} {
		if _, err := GetOrFetch(context.Background(), store, "upcitemdb", key, lim, fetch); err != nil {
			t.Fatalf("unexpected error for %q: %v", key, err)
		}
	}

	_, err := GetOrFetch(context.Background(), store, "upcitemdb", "c", lim, fetch)
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("fetch must not run once the budget is spent; got %d calls", calls)
	}

	// Cached keys still serve without touching the limiter.
	if _, err := GetOrFetch(context.Background(), store, "upcitemdb", "a", lim, fetch); err != nil {
		t.Fatalf("cache hit should not be rate limited: %v", err)
	}
}

func TestGetOrFetchWindowResets(t *testing.T) {
	store, clock := newTestStore()
	lim := Limits{TTL: time.Millisecond, MaxCalls: 1, Window: time.Minute}

	fetch := func(context.Context) (string, error) { return "v", nil }

	if _, err := GetOrFetch(context.Background(), store, "p", "k1", lim, fetch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := GetOrFetch(context.Background(), store, "p", "k2", lim, fetch); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited inside the window, got %v", err)
	}

	clock.advance(time.Minute)

	if _, err := GetOrFetch(context.Background(), store, "p", "k3", lim, fetch); err != nil {
		t.Fatalf("window should reset after it elapses: %v", err)
	}
}

func TestFailedFetchChargesWindowWithoutCaching(t *testing.T) {
	store, _ := newTestStore()
	lim := Limits{TTL: time.Hour, MaxCalls: 2, Window: time.Hour}

	boom := errors.New("upstream down")
	calls := 0
	fetch := func(context.Context) (string, error) {
		calls++
		return "", boom
	}

	if _, err := GetOrFetch(context.Background(), store, "p", "k", lim, fetch); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error to propagate, got %v", err)
	}

	// Nothing was cached, so the retry fetches again and spends the budget.
	if _, err := GetOrFetch(context.Background(), store, "p", "k", lim, fetch); !errors.Is(err, boom) {
		t.Fatalf("expected fetch error again, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 fetch attempts, got %d", calls)
	}

	if _, err := GetOrFetch(context.Background(), store, "p", "k", lim, fetch); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("failed fetches must still charge the window, got %v", err)
	}
}

func TestProvidersHaveIndependentBudgets(t *testing.T) {
	store, _ := newTestStore()
	lim := Limits{TTL: time.Millisecond, MaxCalls: 1, Window: time.Hour}

	fetch := func(context.Context) (string, error) { return "v", nil }

	if _, err := GetOrFetch(context.Background(), store, "alpha", "k", lim, fetch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := GetOrFetch(context.Background(), store, "beta", "k", lim, fetch); err != nil {
		t.Fatalf("providers must not share windows: %v", err)
	}
}
