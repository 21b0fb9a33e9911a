package caching

import (
	"context"
	"errors"
	"testing"
	"time"

	"carte/contexts/catalog/adapters/memory"
)

func TestThroughCachesComputedValue(t *testing.T) {
	cache := memory.NewCache()
	calls := 0
	compute := func(context.Context) (string, error) {
		calls++
		return "first", nil
	}

	for i := 0; i < 2; i++ {
		value, err := Through(context.Background(), cache, testLogger(), "k", time.Minute, compute)
		if err != nil {
			t.Fatalf("read %d failed: %v", i, err)
		}
		if value != "first" {
			t.Fatalf("read %d: got %q, want %q", i, value, "first")
		}
	}
	if calls != 1 {
		t.Fatalf("compute ran %d times, want 1", calls)
	}
}

func TestThroughServesHitWithoutRecompute(t *testing.T) {
	cache := memory.NewCache()
	if err := cache.Set(context.Background(), "k", []byte(`"cached"`), 0); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	value, err := Through(context.Background(), cache, testLogger(), "k", time.Minute,
		func(context.Context) (string, error) {
			t.Fatal("compute must not run on a hit")
			return "", nil
		})
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if value != "cached" {
		t.Fatalf("got %q, want cached value", value)
	}
}

func TestThroughNeverCachesComputeError(t *testing.T) {
	cache := memory.NewCache()
	sentinel := errors.New("not found")

	_, err := Through(context.Background(), cache, testLogger(), "k", time.Minute,
		func(context.Context) (string, error) { return "", sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("got %v, want compute error", err)
	}
	if cache.Has("k") {
		t.Fatal("error result must not be cached")
	}

	value, err := Through(context.Background(), cache, testLogger(), "k", time.Minute,
		func(context.Context) (string, error) { return "present", nil })
	if err != nil {
		t.Fatalf("follow-up read failed: %v", err)
	}
	if value != "present" {
		t.Fatalf("got %q, the earlier miss must not mask the value", value)
	}
}

func TestThroughDegradesWhenCacheFails(t *testing.T) {
	cache := memory.NewCache()
	cache.FailWith(errors.New("cache down"))

	value, err := Through(context.Background(), cache, testLogger(), "k", time.Minute,
		func(context.Context) (string, error) { return "direct", nil })
	if err != nil {
		t.Fatalf("read must survive a dead cache, got %v", err)
	}
	if value != "direct" {
		t.Fatalf("got %q, want store value", value)
	}
}

func TestThroughToleratesNilCache(t *testing.T) {
	value, err := Through[string](context.Background(), nil, testLogger(), "k", time.Minute,
		func(context.Context) (string, error) { return "direct", nil })
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if value != "direct" {
		t.Fatalf("got %q, want store value", value)
	}
}
