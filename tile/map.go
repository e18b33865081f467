package tile

import (
	"math"
	"sync"

	"github.com/gogpu/ink"
)

// Map is the spatial index from grid coordinates to tiles.
//
// Membership is a superset test via bounding box, not exact geometry: a tile
// may list a stroke that misses it (a wasted draw at bake time), but never
// the reverse. Tiles are created lazily and persist for the session.
//
// Map methods are safe for concurrent use; baking individual tiles is the
// Baker's concern.
type Map struct {
	mu          sync.RWMutex
	tiles       map[Coord]*Tile
	deviceScale float64
}

// NewMap creates an empty index at the given device pixel ratio.
func NewMap(deviceScale float64) *Map {
	if deviceScale <= 0 {
		deviceScale = 1
	}
	return &Map{
		tiles:       make(map[Coord]*Tile),
		deviceScale: deviceScale,
	}
}

// DeviceScale returns the current target raster scale.
func (m *Map) DeviceScale() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.deviceScale
}

// SetDeviceScale changes the target raster resolution. Every existing tile
// is marked dirty so its surface is resized on next bake. Returns true if
// the scale actually changed.
func (m *Map) SetDeviceScale(s float64) bool {
	if s <= 0 {
		s = 1
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s == m.deviceScale {
		return false
	}
	m.deviceScale = s
	for _, t := range m.tiles {
		t.dirty = true
	}
	return true
}

// get returns the tile at c, creating it lazily.
func (m *Map) get(c Coord) *Tile {
	if t, ok := m.tiles[c]; ok {
		return t
	}
	t := newTile(c)
	m.tiles[c] = t
	return t
}

// AffectedTiles returns every tile whose cell overlaps the bounds, inclusive
// of partial overlap, creating tiles lazily.
func (m *Map) AffectedTiles(b ink.Rect) []*Tile {
	if b.IsEmpty() {
		return nil
	}
	tx0 := int(math.Floor(b.MinX / Size))
	ty0 := int(math.Floor(b.MinY / Size))
	tx1 := int(math.Floor(b.MaxX / Size))
	ty1 := int(math.Floor(b.MaxY / Size))

	m.mu.Lock()
	defer m.mu.Unlock()
	tiles := make([]*Tile, 0, (tx1-tx0+1)*(ty1-ty0+1))
	for ty := ty0; ty <= ty1; ty++ {
		for tx := tx0; tx <= tx1; tx++ {
			tiles = append(tiles, m.get(Coord{X: tx, Y: ty}))
		}
	}
	return tiles
}

// VisibleTiles returns the tiles overlapping the viewport's world bounds.
func (m *Map) VisibleTiles(vp *ink.Viewport) []*Tile {
	return m.AffectedTiles(vp.WorldBounds())
}

// AddStroke records a stroke (or erasure) in every tile its bounds overlap,
// marking those tiles dirty, and returns them.
func (m *Map) AddStroke(id string, b ink.Rect, erase bool) []*Tile {
	tiles := m.AffectedTiles(b)
	m.mu.Lock()
	for _, t := range tiles {
		t.addMember(id, erase)
	}
	m.mu.Unlock()
	return tiles
}

// Clear resets every tile's surface and membership, keeping tile identity.
func (m *Map) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tiles {
		t.Clear()
	}
}

// Len returns the number of tiles materialized so far.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tiles)
}
