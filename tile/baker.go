package tile

import (
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/image/vector"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/internal/blend"
	"github.com/gogpu/ink/internal/worker"
	"github.com/gogpu/ink/mesh"
)

// DebounceDelay is the quiescence window for coalescing device-scale rebakes
// during continuous zoom gestures.
const DebounceDelay = 150 * time.Millisecond

// Baker re-rasterizes dirty tiles from their member strokes.
//
// Every bake starts from a blank surface, draws all member strokes, then
// applies all member erasures with destination-out blending. Incremental
// patching would compound erase artifacts, so it is never attempted. Baking
// is deterministic: the same members in the same order produce bit-identical
// surfaces.
type Baker struct {
	tiles  *Map
	meshes *mesh.Cache
	pool   *worker.Pool

	mu     sync.Mutex
	timer  *time.Timer
	rebake func()

	bakes atomic.Uint64
}

// NewBaker creates a baker over the given index and mesh cache.
// pool may be nil; dirty tiles are then baked on the calling goroutine.
func NewBaker(tiles *Map, meshes *mesh.Cache, pool *worker.Pool) *Baker {
	return &Baker{tiles: tiles, meshes: meshes, pool: pool}
}

// SetRebakeFunc installs the callback fired by debounced or immediate
// rebakes (typically the canvas's full render pass).
func (b *Baker) SetRebakeFunc(fn func()) {
	b.mu.Lock()
	b.rebake = fn
	b.mu.Unlock()
}

// RenderTilesWithErase re-rasterizes every dirty tile among the visible set
// and returns all visible tiles (dirty or not) for compositing. Dirty tiles
// outside the viewport stay dirty until they next become visible.
//
// strokes and erases must be in a stable order; the baker draws member
// strokes in slice order so bakes are reproducible.
func (b *Baker) RenderTilesWithErase(strokes, erases []*ink.Stroke, vp *ink.Viewport, cfg *ink.Config) []*Tile {
	visible := b.tiles.VisibleTiles(vp)
	var dirty []*Tile
	for _, t := range visible {
		if t.Dirty() {
			dirty = append(dirty, t)
		}
	}
	if len(dirty) == 0 {
		return visible
	}

	scale := b.tiles.DeviceScale()
	if b.pool != nil && len(dirty) > 1 {
		// Distinct tiles own distinct surfaces, so they bake in parallel.
		tasks := make([]func(), len(dirty))
		for i, t := range dirty {
			t := t
			tasks[i] = func() { b.bakeTile(t, strokes, erases, scale, cfg) }
		}
		b.pool.ExecuteAll(tasks)
	} else {
		for _, t := range dirty {
			b.bakeTile(t, strokes, erases, scale, cfg)
		}
	}
	ink.Logger().Debug("tiles baked", "dirty", len(dirty), "visible", len(visible))
	return visible
}

// bakeTile rebuilds one tile's surface from scratch.
func (b *Baker) bakeTile(t *Tile, strokes, erases []*ink.Stroke, scale float64, cfg *ink.Config) {
	t.ensureSurface(scale)

	// Strokes first, erasures last, always: erasure is a persistent mask
	// that wins over any stroke on this tile, whatever the real order was.
	for _, s := range strokes {
		if !t.HasStroke(s.ID) {
			continue
		}
		drawMesh(t.img, b.meshes.Get(s, cfg), t.Coord, scale)
	}
	for _, s := range erases {
		if !t.HasErase(s.ID) {
			continue
		}
		eraseMesh(t.img, b.meshes.Get(s, cfg), t.Coord, scale)
	}

	t.dirty = false
	b.bakes.Add(1)
}

// Bakes returns the number of tile bakes performed.
func (b *Baker) Bakes() uint64 { return b.bakes.Load() }

// DeviceScaleChanged updates the target raster resolution. All tiles are
// marked dirty immediately, but the rebake callback is debounced behind
// DebounceDelay so continuous zoom gestures coalesce into one rebake.
func (b *Baker) DeviceScaleChanged(scale float64) {
	if !b.tiles.SetDeviceScale(scale) {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(DebounceDelay, b.fireRebake)
}

func (b *Baker) fireRebake() {
	b.mu.Lock()
	b.timer = nil
	fn := b.rebake
	b.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// RebakeNow cancels any pending debounce and rebakes immediately, off-thread
// when a worker pool is available, synchronously otherwise.
func (b *Baker) RebakeNow() {
	b.mu.Lock()
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	fn := b.rebake
	b.mu.Unlock()
	if fn == nil {
		return
	}
	if b.pool == nil || !b.pool.Submit(fn) {
		fn()
	}
}

// drawMesh rasterizes a ribbon mesh into the tile surface with source-over
// compositing. The mesh's triangles are accumulated into one coverage pass,
// so overlapping triangles of the same stroke don't double-blend.
func drawMesh(dst *image.RGBA, verts []float32, c Coord, scale float64) {
	ras := triangles(dst, verts, c, scale)
	if ras == nil {
		return
	}
	// Vertex color is constant per stroke; take it from the first vertex.
	src := image.NewUniform(premul(verts[2], verts[3], verts[4], verts[5]))
	ras.Draw(dst, dst.Bounds(), src, image.Point{})
}

// eraseMesh rasterizes the mesh's coverage and subtracts it from the tile's
// alpha (destination-out).
func eraseMesh(dst *image.RGBA, verts []float32, c Coord, scale float64) {
	ras := triangles(dst, verts, c, scale)
	if ras == nil {
		return
	}
	mask := image.NewAlpha(dst.Bounds())
	ras.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	for i, a := range mask.Pix {
		if a == 0 {
			continue
		}
		blend.DestinationOut(dst.Pix[i*4:i*4+4], a)
	}
}

// triangles feeds a mesh's triangles, transformed into tile pixel space,
// into a fresh rasterizer. Returns nil for meshes with no full triangle.
func triangles(dst *image.RGBA, verts []float32, c Coord, scale float64) *vector.Rasterizer {
	const tri = 3 * mesh.VertexSize
	if len(verts) < tri {
		return nil
	}
	ras := vector.NewRasterizer(dst.Bounds().Dx(), dst.Bounds().Dy())
	ox := float32(float64(c.X) * Size)
	oy := float32(float64(c.Y) * Size)
	s := float32(scale)
	for i := 0; i+tri <= len(verts); i += tri {
		ras.MoveTo((verts[i]-ox)*s, (verts[i+1]-oy)*s)
		ras.LineTo((verts[i+6]-ox)*s, (verts[i+7]-oy)*s)
		ras.LineTo((verts[i+12]-ox)*s, (verts[i+13]-oy)*s)
		ras.ClosePath()
	}
	return ras
}

// premul converts non-premultiplied float components to a premultiplied
// 8-bit color.
func premul(r, g, b, a float32) color.RGBA {
	return color.RGBA{
		R: uint8(clamp255(r * a * 255)),
		G: uint8(clamp255(g * a * 255)),
		B: uint8(clamp255(b * a * 255)),
		A: uint8(clamp255(a * 255)),
	}
}

func clamp255(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
