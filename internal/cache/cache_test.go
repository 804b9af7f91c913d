package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) advance(d time.Duration) { f.now = f.now.Add(d) }

func newTestCache(ttl time.Duration) (*TTLCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC)}
	c := New(ttl)
	c.clock = func() time.Time { return clock.now }
	return c, clock
}

func TestGetReturnsFreshEntry(t *testing.T) {
	c, _ := newTestCache(30 * time.Second)
	c.Set("analytics", 42)

	v, ok := c.Get("analytics")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if v.(int) != 42 {
		t.Errorf("expected 42, got %v", v)
	}
}

func TestGetExpiresAfterTTL(t *testing.T) {
	c, clock := newTestCache(30 * time.Second)
	c.Set("analytics", 42)

	clock.advance(29 * time.Second)
	if _, ok := c.Get("analytics"); !ok {
		t.Fatal("expected hit before TTL")
	}

	clock.advance(2 * time.Second)
	if _, ok := c.Get("analytics"); ok {
		t.Fatal("expected miss after TTL")
	}
}

func TestInvalidateKey(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)

	c.InvalidateKey("a")

	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be invalidated")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b to survive")
	}
}

func TestGetOrLoadUsesLoaderOnMiss(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	calls := 0
	loader := func(ctx context.Context) (interface{}, error) {
		calls++
		return "loaded", nil
	}

	v, err := c.GetOrLoad(context.Background(), "k", loader)
	if err != nil {
		t.Fatalf("GetOrLoad returned error: %v", err)
	}
	if v.(string) != "loaded" {
		t.Errorf("expected loaded value, got %v", v)
	}

	// Second call hits the cache.
	if _, err := c.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("GetOrLoad returned error: %v", err)
	}
	if calls != 1 {
		t.Errorf("expected 1 loader call, got %d", calls)
	}
}

func TestRefreshKeepsStaleEntryOnLoaderFailure(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	c.Set("k", "stale")

	_, err := c.Refresh(context.Background(), "k", func(ctx context.Context) (interface{}, error) {
		return nil, errors.New("upstream down")
	})
	if err == nil {
		t.Fatal("expected loader error to propagate")
	}

	v, ok := c.Get("k")
	if !ok || v.(string) != "stale" {
		t.Errorf("expected stale entry to survive failed refresh, got %v ok=%v", v, ok)
	}
}

func TestSweepRemovesExpiredEntries(t *testing.T) {
	c, clock := newTestCache(30 * time.Second)
	c.Set("old", 1)
	clock.advance(31 * time.Second)
	c.Set("new", 2)

	c.Sweep()

	if c.Len() != 1 {
		t.Fatalf("expected 1 entry after sweep, got %d", c.Len())
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("expected fresh entry to survive sweep")
	}
}
