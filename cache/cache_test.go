package cache

import (
	"fmt"
	"sync"
	"testing"
)

func TestGetSet(t *testing.T) {
	c := New[string, int](8, StringHasher)

	if _, ok := c.Get("missing"); ok {
		t.Error("Get on empty cache returned ok")
	}
	c.Set("a", 1)
	c.Set("b", 2)

	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v", v, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	// Overwrite keeps a single entry.
	c.Set("a", 10)
	if v, _ := c.Get("a"); v != 10 {
		t.Errorf("Get(a) after overwrite = %d, want 10", v)
	}
	if c.Len() != 2 {
		t.Errorf("Len() after overwrite = %d, want 2", c.Len())
	}
}

func TestDelete(t *testing.T) {
	c := New[string, int](8, StringHasher)
	c.Set("a", 1)

	if !c.Delete("a") {
		t.Error("Delete(a) = false, want true")
	}
	if c.Delete("a") {
		t.Error("second Delete(a) = true, want false")
	}
	if _, ok := c.Get("a"); ok {
		t.Error("deleted entry still present")
	}
}

func TestEviction(t *testing.T) {
	// Single-shard hasher so capacity is exact.
	c := New[string, int](4, func(string) uint64 { return 0 })
	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}

	if c.Len() != 4 {
		t.Errorf("Len() = %d, want 4", c.Len())
	}
	if _, ok := c.Get("k0"); ok {
		t.Error("oldest entry survived eviction")
	}
	if v, ok := c.Get("k9"); !ok || v != 9 {
		t.Error("newest entry was evicted")
	}
	if got := c.Stats().Evictions; got != 6 {
		t.Errorf("Evictions = %d, want 6", got)
	}
}

func TestLRUOrder(t *testing.T) {
	c := New[string, int](2, func(string) uint64 { return 0 })
	c.Set("a", 1)
	c.Set("b", 2)

	// Touch a so b becomes the eviction candidate.
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry was evicted")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived")
	}
}

func TestClear(t *testing.T) {
	c := New[string, int](8, StringHasher)
	for i := 0; i < 20; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
	c.Set("a", 1)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Error("cache unusable after Clear")
	}
}

func TestStats(t *testing.T) {
	c := New[string, int](8, StringHasher)
	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("zzz")

	st := c.Stats()
	if st.Hits != 2 || st.Misses != 1 || st.Len != 1 {
		t.Errorf("Stats() = %+v", st)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New[string, int](64, StringHasher)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				key := fmt.Sprintf("k%d", i%100)
				c.Set(key, g)
				c.Get(key)
				if i%10 == 0 {
					c.Delete(key)
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestDefaultCapacity(t *testing.T) {
	c := New[string, int](0, StringHasher)
	if c.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", c.capacity, DefaultCapacity)
	}
}
