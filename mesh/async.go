package mesh

import (
	"github.com/gogpu/ink"
	"github.com/gogpu/ink/internal/worker"
)

// Future resolves to a built mesh. Callers keep using a synchronously
// computed fallback until Done is closed, then swap in Mesh.
type Future struct {
	done chan struct{}
	mesh []float32
}

// Done is closed when the mesh is ready.
func (f *Future) Done() <-chan struct{} { return f.done }

// Mesh returns the built vertex buffer. Valid only after Done is closed.
func (f *Future) Mesh() []float32 { return f.mesh }

// Wait blocks until the mesh is ready and returns it.
func (f *Future) Wait() []float32 {
	<-f.done
	return f.mesh
}

// Requester offloads mesh building to a worker pool and swaps results into a
// mesh cache as they resolve. The pool is injected, not ambient: the owner
// (typically the canvas) controls its lifecycle.
type Requester struct {
	pool  *worker.Pool
	cache *Cache
}

// NewRequester creates a requester. pool may be nil, in which case every
// request is served synchronously.
func NewRequester(pool *worker.Pool, cache *Cache) *Requester {
	return &Requester{pool: pool, cache: cache}
}

// Request builds the stroke's mesh off the caller's goroutine and resolves
// the returned future. The stroke must be finished: workers only ever read
// immutable snapshots. If the pool is missing, closed, or saturated, the
// mesh is built synchronously before Request returns: a slower frame, never
// a missing stroke.
func (r *Requester) Request(s *ink.Stroke, cfg *ink.Config) *Future {
	f := &Future{done: make(chan struct{})}

	// Snapshot on the caller's side; the worker touches no shared state.
	points := s.FlatPoints()
	widths := s.WidthProfile(cfg)
	color := [4]float32{
		float32(s.Color.R),
		float32(s.Color.G),
		float32(s.Color.B),
		float32(s.Color.A),
	}
	if s.Erase {
		color = [4]float32{0, 0, 0, 1}
	}
	id := s.ID

	build := func() {
		f.mesh = r.builderFor().Build(points, widths, color)
		if r.cache != nil {
			r.cache.Put(id, f.mesh)
		}
		close(f.done)
	}

	if r.pool == nil || !r.pool.Submit(build) {
		ink.Logger().Warn("async mesh build unavailable, building synchronously", "stroke", id)
		build()
	}
	return f
}

func (r *Requester) builderFor() Builder {
	if r.cache != nil {
		return r.cache.pick()
	}
	return Default()
}
