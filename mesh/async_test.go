package mesh

import (
	"testing"
	"time"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/internal/worker"
)

func TestRequestResolves(t *testing.T) {
	pool := worker.NewPool(2)
	defer pool.Close()
	c := NewCache(Ribbon{}, 0)
	r := NewRequester(pool, c)

	cfg := ink.DefaultConfig()
	s := ink.GenerateTestStroke(60)

	f := r.Request(s, &cfg)
	select {
	case <-f.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("future never resolved")
	}
	if len(f.Mesh()) == 0 {
		t.Fatal("resolved mesh is empty")
	}

	// The result must have landed in the cache.
	cached := c.Get(s, &cfg)
	if &cached[0] != &f.Mesh()[0] {
		t.Error("async mesh not stored in the cache")
	}
}

func TestRequestSynchronousFallback(t *testing.T) {
	c := NewCache(Ribbon{}, 0)
	r := NewRequester(nil, c)

	cfg := ink.DefaultConfig()
	f := r.Request(ink.GenerateTestStroke(20), &cfg)

	// With no pool the future is resolved before Request returns.
	select {
	case <-f.Done():
	default:
		t.Fatal("nil-pool request did not resolve synchronously")
	}
	if len(f.Wait()) == 0 {
		t.Error("fallback mesh is empty")
	}
}

func TestRequestClosedPool(t *testing.T) {
	pool := worker.NewPool(1)
	pool.Close()
	r := NewRequester(pool, NewCache(Ribbon{}, 0))

	cfg := ink.DefaultConfig()
	f := r.Request(ink.GenerateTestStroke(20), &cfg)
	select {
	case <-f.Done():
	default:
		t.Fatal("closed-pool request did not fall back to synchronous build")
	}
}
