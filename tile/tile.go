// Package tile implements the spatial raster cache of the whiteboard: the
// infinite canvas is divided into fixed-size world-space cells, each holding
// a baked bitmap of the strokes that touch it. Redraw cost is then
// O(visible tiles) instead of O(all strokes).
//
// A tile's bitmap is always rebuilt from scratch (never patched) in a fixed
// order: every member stroke, then every member erasure. Erasure is
// destination-out alpha subtraction, so it acts as a persistent mask that
// wins over any overlapping stroke regardless of drawing order.
package tile

import (
	"image"
	"math"

	"github.com/gogpu/ink"
)

// Size is the tile edge length in world units.
const Size = 256

// Coord identifies a tile by its integer grid position:
// (floor(x/Size), floor(y/Size)).
type Coord struct {
	X, Y int
}

// CoordAt returns the grid cell containing a world point.
func CoordAt(wx, wy float64) Coord {
	return Coord{
		X: int(math.Floor(wx / Size)),
		Y: int(math.Floor(wy / Size)),
	}
}

// Tile is one raster cache cell. It is created lazily on first reference and
// keeps its identity for the whole canvas session; Clear resets its surface
// and membership but not its coordinates.
//
// Invariant: whenever dirty is false, the surface equals the composite of
// all member strokes minus all member erasures at the baked device scale.
type Tile struct {
	Coord

	img     *image.RGBA
	bakedAt float64 // device scale the surface was last baked at
	dirty   bool

	strokes map[string]struct{}
	erases  map[string]struct{}
}

func newTile(c Coord) *Tile {
	return &Tile{
		Coord:   c,
		dirty:   true,
		strokes: make(map[string]struct{}),
		erases:  make(map[string]struct{}),
	}
}

// Dirty reports whether the surface is stale and must be rebaked before use.
func (t *Tile) Dirty() bool { return t.dirty }

// MarkDirty flags the surface as stale.
func (t *Tile) MarkDirty() { t.dirty = true }

// Image returns the baked surface, or nil if the tile was never baked.
// The bitmap's pixel dimensions depend on the device scale; compositors must
// draw it into WorldBounds (exactly Size x Size world units), never at its
// pixel dimensions, or device-scaled tiles double-apply the scaling.
func (t *Tile) Image() *image.RGBA { return t.img }

// BakedScale returns the device scale the surface was last baked at, zero if
// never baked.
func (t *Tile) BakedScale() float64 { return t.bakedAt }

// WorldBounds returns the world-space rectangle this tile covers.
func (t *Tile) WorldBounds() ink.Rect {
	return ink.Rect{
		MinX: float64(t.X) * Size,
		MinY: float64(t.Y) * Size,
		MaxX: float64(t.X+1) * Size,
		MaxY: float64(t.Y+1) * Size,
	}
}

// HasStroke reports whether a stroke ID is a member of this tile.
func (t *Tile) HasStroke(id string) bool {
	_, ok := t.strokes[id]
	return ok
}

// HasErase reports whether an erase-stroke ID is a member of this tile.
func (t *Tile) HasErase(id string) bool {
	_, ok := t.erases[id]
	return ok
}

// addMember records that a stroke's bounds overlap this tile.
func (t *Tile) addMember(id string, erase bool) {
	if erase {
		t.erases[id] = struct{}{}
	} else {
		t.strokes[id] = struct{}{}
	}
	t.dirty = true
}

// Clear resets the surface and membership sets, keeping the tile's identity.
func (t *Tile) Clear() {
	t.strokes = make(map[string]struct{})
	t.erases = make(map[string]struct{})
	if t.img != nil {
		clear(t.img.Pix)
	}
	t.dirty = true
}

// ensureSurface sizes the bitmap for the given device scale, reallocating
// only when the pixel dimensions change, and zeroes it.
func (t *Tile) ensureSurface(deviceScale float64) {
	px := int(math.Ceil(Size * deviceScale))
	if px < 1 {
		px = 1
	}
	if t.img == nil || t.img.Bounds().Dx() != px {
		t.img = image.NewRGBA(image.Rect(0, 0, px, px))
	} else {
		clear(t.img.Pix)
	}
	t.bakedAt = deviceScale
}
