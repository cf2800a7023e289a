package authz

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
)

func TestCacheBuildsOnce(t *testing.T) {
	cache := NewCache()

	builds := 0
	build := func() ([]Requirement, error) {
		builds++
		return []Requirement{Authenticated()}, nil
	}

	for i := 0; i < 3; i++ {
		reqs, err := cache.Get("page", build)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(reqs) != 1 {
			t.Fatalf("got %d requirements, want 1", len(reqs))
		}
	}

	if builds != 1 {
		t.Errorf("build ran %d times, want 1", builds)
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}

func TestCacheKeysAreIndependent(t *testing.T) {
	cache := NewCache()

	a, err := cache.Get("a", func() ([]Requirement, error) {
		return []Requirement{Role("admin")}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := cache.Get("b", func() ([]Requirement, error) {
		return []Requirement{Role("viewer")}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if a[0].String() == b[0].String() {
		t.Error("keys should cache independently")
	}
}

func TestCacheErrorsNotCached(t *testing.T) {
	cache := NewCache()

	calls := 0
	failing := func() ([]Requirement, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("transient")
		}
		return []Requirement{Authenticated()}, nil
	}

	if _, err := cache.Get("k", failing); err == nil {
		t.Fatal("expected first build to fail")
	}

	reqs, err := cache.Get("k", failing)
	if err != nil {
		t.Fatalf("second build should succeed, got %v", err)
	}
	if len(reqs) != 1 {
		t.Fatalf("got %d requirements, want 1", len(reqs))
	}
	if calls != 2 {
		t.Errorf("build ran %d times, want 2", calls)
	}
}

func TestCacheInvalidate(t *testing.T) {
	cache := NewCache()

	builds := 0
	build := func() ([]Requirement, error) {
		builds++
		return nil, nil
	}

	cache.Get("k", build)
	cache.Invalidate("k")
	cache.Get("k", build)

	if builds != 2 {
		t.Errorf("build ran %d times after invalidate, want 2", builds)
	}
}

func TestCacheConcurrentGet(t *testing.T) {
	cache := NewCache()

	var builds atomic.Int32
	build := func() ([]Requirement, error) {
		builds.Add(1)
		return []Requirement{Authenticated()}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reqs, err := cache.Get("hot", build)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if len(reqs) != 1 {
				t.Errorf("got %d requirements, want 1", len(reqs))
			}
		}()
	}
	wg.Wait()

	if got := builds.Load(); got != 1 {
		t.Errorf("build ran %d times under contention, want 1", got)
	}
}
