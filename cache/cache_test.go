package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	tests := []struct {
		key    string
		want   int
		wantOK bool
	}{
		{"a", 10, true},
		{"b", 2, true},
		{"c", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, ok := c.Get(tt.key)
			if v != tt.want || ok != tt.wantOK {
				t.Errorf("Get(%q) = %d, %v; want %d, %v", tt.key, v, ok, tt.want, tt.wantOK)
			}
		})
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d; want 2", c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b survived eviction")
	}
	for _, k := range []string{"a", "c"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("%s was evicted", k)
		}
	}
	if got := c.Stats().Evicts; got != 1 {
		t.Errorf("Evicts = %d; want 1", got)
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[string, int](0)
	if c.Stats().Capacity != DefaultCapacity {
		t.Errorf("Capacity = %d; want %d", c.Stats().Capacity, DefaultCapacity)
	}
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	c.Delete("missing")
	if _, ok := c.Get("a"); ok || c.Len() != 1 {
		t.Errorf("after Delete: Len() = %d", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("after Clear: Len() = %d", c.Len())
	}
	c.Set("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Errorf("cache unusable after Clear: %d, %v", v, ok)
	}
}

func TestCacheLoad(t *testing.T) {
	c := New[string, int](4)
	calls := 0
	load := func() (int, error) {
		calls++
		return 42, nil
	}

	for range 3 {
		v, err := c.Load("k", load)
		if err != nil || v != 42 {
			t.Fatalf("Load() = %d, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("load called %d times; want 1", calls)
	}

	boom := errors.New("boom")
	if _, err := c.Load("bad", func() (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Errorf("Load() err = %v; want boom", err)
	}
	if _, ok := c.Get("bad"); ok {
		t.Error("failed load was cached")
	}

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 3 {
		t.Errorf("Stats() = %+v; want 2 hits, 3 misses", s)
	}
	if s.HitRate != 0.4 {
		t.Errorf("HitRate = %v; want 0.4", s.HitRate)
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[int, string](64)

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				k := (g*200 + i) % 100
				v, err := c.Load(k, func() (string, error) { return strconv.Itoa(k), nil })
				if err != nil || v != strconv.Itoa(k) {
					t.Errorf("Load(%d) = %q, %v", k, v, err)
					return
				}
				c.Get(k + 1)
			}
		}()
	}
	wg.Wait()

	if c.Len() > 64 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func BenchmarkCacheLoad(b *testing.B) {
	c := New[int, int](1000)
	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			k := i % 2000
			c.Load(k, func() (int, error) { return k, nil })
			i++
		}
	})
}
