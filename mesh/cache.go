package mesh

import (
	"github.com/gogpu/ink"
	"github.com/gogpu/ink/cache"
)

// Cache memoizes finished-stroke meshes by stroke ID.
//
// Finished strokes are immutable, so entries never go stale; the cache is
// invalidated only by explicit Invalidate/Clear (e.g. when the whole board
// is cleared or reloaded from ISF). In-progress strokes must not be cached;
// their geometry changes on every pointer-move.
type Cache struct {
	builder Builder
	meshes  *cache.Cache[string, []float32]
}

// NewCache creates a mesh cache in front of the given builder.
// If builder is nil, [Default] is consulted on every build so a later
// accelerator registration takes effect without rebuilding the cache.
func NewCache(builder Builder, capacity int) *Cache {
	return &Cache{
		builder: builder,
		meshes:  cache.New[string, []float32](capacity, cache.StringHasher),
	}
}

func (c *Cache) pick() Builder {
	if c.builder != nil {
		return c.builder
	}
	return Default()
}

// Get returns the stroke's ribbon mesh, building and caching it for
// finished strokes. Unfinished strokes are built fresh every call.
func (c *Cache) Get(s *ink.Stroke, cfg *ink.Config) []float32 {
	if !s.IsFinished() {
		return BuildStroke(c.pick(), s, cfg)
	}
	if m, ok := c.meshes.Get(s.ID); ok {
		return m
	}
	m := BuildStroke(c.pick(), s, cfg)
	c.meshes.Set(s.ID, m)
	return m
}

// Live builds a mesh for an in-progress stroke snapshot. Nothing is cached;
// live geometry changes on every pointer-move.
func (c *Cache) Live(ls ink.LiveStroke) []float32 {
	return BuildLive(c.pick(), ls)
}

// Put stores a pre-built mesh for a finished stroke, e.g. one produced by an
// async build. The buffer must not be mutated afterwards.
func (c *Cache) Put(strokeID string, m []float32) {
	c.meshes.Set(strokeID, m)
}

// Invalidate drops one stroke's cached mesh.
func (c *Cache) Invalidate(strokeID string) {
	c.meshes.Delete(strokeID)
}

// Clear drops every cached mesh.
func (c *Cache) Clear() {
	c.meshes.Clear()
}

// Stats exposes the underlying cache counters.
func (c *Cache) Stats() cache.Stats {
	return c.meshes.Stats()
}
