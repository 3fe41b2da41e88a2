package embedding

import (
	"fmt"
	"sync"
	"testing"
)

func TestCache_GetSet(t *testing.T) {
	c := NewCache(2)
	if v, ok := c.Get("a"); ok || v != nil {
		t.Fatal("expected miss")
	}
	c.Set("a", []float32{1, 2, 3})
	v, ok := c.Get("a")
	if !ok || len(v) != 3 || v[0] != 1 {
		t.Errorf("Get: got %v, %v", v, ok)
	}
	c.Set("b", []float32{4, 5})
	c.Set("c", []float32{6}) // evicts a
	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b to remain")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected c to be present")
	}
}

func TestCache_concurrentAccess(t *testing.T) {
	// Get bumps recency in the shared list, so concurrent readers hit the
	// same mutation path as writers. Run with -race.
	c := NewCache(16)
	for i := 0; i < 16; i++ {
		c.Set(fmt.Sprintf("key-%d", i), []float32{float32(i)})
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				key := fmt.Sprintf("key-%d", (g+i)%16)
				if v, ok := c.Get(key); ok && len(v) != 1 {
					t.Errorf("corrupt value for %s: %v", key, v)
					return
				}
				if i%100 == 0 {
					c.Set(fmt.Sprintf("key-%d", (g*i)%32), []float32{1})
				}
			}
		}(g)
	}
	wg.Wait()
}

func TestCache_updateMovesToFront(t *testing.T) {
	c := NewCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Set("a", []float32{3}) // refresh a
	c.Set("c", []float32{4}) // evicts b, not a
	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	v, ok := c.Get("a")
	if !ok || v[0] != 3 {
		t.Errorf("expected refreshed a, got %v, %v", v, ok)
	}
}
