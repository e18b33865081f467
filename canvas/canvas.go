package canvas

import (
	"sync"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/internal/worker"
	"github.com/gogpu/ink/isf"
	"github.com/gogpu/ink/mesh"
	"github.com/gogpu/ink/tile"
)

// Option configures a Canvas at construction time.
type Option func(*options)

type options struct {
	cfg         ink.Config
	deviceScale float64
	workers     int
	isfOpts     isf.Options
}

// WithConfig sets the capture engine tuning.
func WithConfig(cfg ink.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithDeviceScale sets the device pixel ratio tiles are rasterized at.
func WithDeviceScale(s float64) Option {
	return func(o *options) { o.deviceScale = s }
}

// WithWorkers sets the worker pool size for parallel baking and async mesh
// builds. Zero uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithISFOptions sets the quantization used when the scene is serialized.
func WithISFOptions(opts isf.Options) Option {
	return func(o *options) { o.isfOpts = opts }
}

// Canvas ties the capture engine, tile index, baker, and mesh cache together
// behind a pointer-events-in, frames-out surface.
//
// Pointer and frame methods are safe to call from different goroutines, but a
// single pointer's down/move/up sequence must come from one goroutine in
// order, as any windowing event loop already guarantees.
type Canvas struct {
	engine  *ink.Engine
	tiles   *tile.Map
	baker   *tile.Baker
	meshes  *mesh.Cache
	request *mesh.Requester
	pool    *worker.Pool
	isfOpts isf.Options
	dpr     float64

	mu       sync.Mutex
	viewport *ink.Viewport
	tool     ink.Tool
	color    ink.RGBA
	width    float64
	order    []*ink.Stroke // finished strokes and erasures, chronological
	byID     map[string]*ink.Stroke
}

// New creates a canvas for a screen of the given logical pixel size.
func New(screenW, screenH float64, opts ...Option) *Canvas {
	o := options{
		cfg:         ink.DefaultConfig(),
		deviceScale: 1,
		isfOpts:     isf.DefaultOptions(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	pool := worker.NewPool(o.workers)
	meshes := mesh.NewCache(nil, 0)
	tiles := tile.NewMap(o.deviceScale)

	c := &Canvas{
		engine:   ink.NewEngine(o.cfg),
		tiles:    tiles,
		baker:    tile.NewBaker(tiles, meshes, pool),
		meshes:   meshes,
		request:  mesh.NewRequester(pool, meshes),
		pool:     pool,
		isfOpts:  o.isfOpts,
		dpr:      o.deviceScale,
		viewport: ink.NewViewport(screenW, screenH),
		tool:     ink.ToolPen,
		color:    ink.Black,
		width:    8,
		byID:     make(map[string]*ink.Stroke),
	}
	return c
}

// Close stops the worker pool. The canvas must not be used afterwards.
func (c *Canvas) Close() { c.pool.Close() }

// Engine exposes the capture engine, e.g. for live retuning.
func (c *Canvas) Engine() *ink.Engine { return c.engine }

// Baker exposes the tile baker, e.g. for wiring a rebake callback.
func (c *Canvas) Baker() *tile.Baker { return c.baker }

// SetTool selects the tool applied to subsequent pointer-downs. Strokes
// already in progress keep the tool they started with.
func (c *Canvas) SetTool(t ink.Tool) {
	c.mu.Lock()
	c.tool = t
	c.mu.Unlock()
}

// SetColor sets the pen color for subsequent strokes.
func (c *Canvas) SetColor(col ink.RGBA) {
	c.mu.Lock()
	c.color = col
	c.mu.Unlock()
}

// SetBrushWidth sets the base width for subsequent strokes, in world units.
func (c *Canvas) SetBrushWidth(w float64) {
	if w <= 0 {
		w = 1
	}
	c.mu.Lock()
	c.width = w
	c.mu.Unlock()
}

// PointerDown begins a stroke with the current tool at the event's screen
// position. A stroke still active on the same pointer (the up event never
// arrived) is finished and committed first, not dropped.
func (c *Canvas) PointerDown(ev ink.PointerEvent) {
	c.mu.Lock()
	tool, col, w := c.tool, c.color, c.width
	wx, wy := c.viewport.ScreenToWorld(ev.X, ev.Y)
	c.mu.Unlock()

	c.commit(c.engine.FinishStroke(ev.PointerID))

	if tool == ink.ToolEraser {
		c.engine.StartEraser(ev.PointerID, wx, wy, w, ev.Pressure, ev.TiltX, ev.TiltY, ev.Time)
		return
	}
	c.engine.StartStroke(ev.PointerID, wx, wy, col, w, ev.Pressure, ev.TiltX, ev.TiltY, ev.Time)
}

// PointerMove feeds a move sample into the pointer's active stroke.
func (c *Canvas) PointerMove(ev ink.PointerEvent) {
	c.mu.Lock()
	wx, wy := c.viewport.ScreenToWorld(ev.X, ev.Y)
	c.mu.Unlock()
	c.engine.AddPoint(ev.PointerID, wx, wy, ev.Pressure, ev.TiltX, ev.TiltY, ev.Time)
}

// PointerUp finishes the pointer's stroke and commits it to the scene: the
// stroke joins the draw order, dirties the tiles its bounds overlap, and gets
// an asynchronous mesh build so the next bake finds it cached.
func (c *Canvas) PointerUp(ev ink.PointerEvent) {
	c.PointerMove(ev)
	c.commit(c.engine.FinishStroke(ev.PointerID))
}

// PointerCancel finishes the stroke like PointerUp. There is no mid-stroke
// rollback; an unwanted stroke is removed with the eraser.
func (c *Canvas) PointerCancel(ev ink.PointerEvent) {
	c.commit(c.engine.FinishStroke(ev.PointerID))
}

// AddStroke commits an externally built finished stroke, e.g. a synthesized
// or decoded one.
func (c *Canvas) AddStroke(s *ink.Stroke) {
	if s != nil && !s.IsFinished() {
		return
	}
	c.commit(s)
}

func (c *Canvas) commit(s *ink.Stroke) {
	if s == nil || len(s.Points) == 0 {
		return
	}
	c.mu.Lock()
	c.order = append(c.order, s)
	c.byID[s.ID] = s
	c.mu.Unlock()

	c.tiles.AddStroke(s.ID, s.Bounds(), s.Erase)
	cfg := c.engine.Config()
	c.request.Request(s, &cfg)
	ink.Logger().Debug("stroke committed",
		"id", s.ID, "points", len(s.Points), "erase", s.Erase)
}

// LiveMesh is an in-progress stroke's vertex buffer, rebuilt every frame
// because the stroke is still growing.
type LiveMesh struct {
	StrokeID string
	Erase    bool
	Vertices []float32
}

// Frame is one render pass: the visible baked tiles plus vertex buffers for
// every stroke still being drawn. Live strokes composite over the tiles.
type Frame struct {
	Tiles []*tile.Tile
	Live  []LiveMesh
}

// Frame bakes whatever visible tiles are dirty and returns the data the host
// needs to present: all visible tiles and the live meshes of in-progress
// strokes.
func (c *Canvas) Frame() *Frame {
	cfg := c.engine.Config()

	c.mu.Lock()
	strokes, erases := c.split()
	vp := *c.viewport
	c.mu.Unlock()

	f := &Frame{
		Tiles: c.baker.RenderTilesWithErase(strokes, erases, &vp, &cfg),
	}
	// Snapshots rather than the strokes themselves: a frame pulled from a
	// render goroutine must not read point buffers mid-append.
	for _, ls := range c.engine.SnapshotActive() {
		f.Live = append(f.Live, LiveMesh{
			StrokeID: ls.ID,
			Erase:    ls.Erase,
			Vertices: c.meshes.Live(ls),
		})
	}
	return f
}

// split partitions the draw order into strokes and erasures, preserving
// relative order within each. Callers hold c.mu.
func (c *Canvas) split() (strokes, erases []*ink.Stroke) {
	for _, s := range c.order {
		if s.Erase {
			erases = append(erases, s)
		} else {
			strokes = append(strokes, s)
		}
	}
	return strokes, erases
}

// Pan shifts the view by a screen-space displacement.
func (c *Canvas) Pan(dx, dy float64) {
	c.mu.Lock()
	c.viewport.Pan(dx, dy)
	c.mu.Unlock()
}

// ZoomAt zooms about a screen position and schedules a debounced rebake at
// the new effective raster scale (zoom times device pixel ratio), so tiles
// stay crisp once the gesture settles.
func (c *Canvas) ZoomAt(sx, sy, factor float64) {
	c.mu.Lock()
	c.viewport.ZoomAt(sx, sy, factor)
	scale := c.viewport.Scale
	c.mu.Unlock()
	c.baker.DeviceScaleChanged(scale * c.dpr)
}

// Resize updates the logical screen size.
func (c *Canvas) Resize(screenW, screenH float64) {
	c.mu.Lock()
	c.viewport.Resize(screenW, screenH)
	c.mu.Unlock()
}

// Viewport returns a copy of the current view state.
func (c *Canvas) Viewport() ink.Viewport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.viewport
}

// StrokeCount returns the number of committed strokes and erasures.
func (c *Canvas) StrokeCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Stroke returns a committed stroke by ID, or nil.
func (c *Canvas) Stroke(id string) *ink.Stroke {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byID[id]
}

// Clear removes every committed stroke and resets all tile surfaces. Strokes
// still in progress are unaffected.
func (c *Canvas) Clear() {
	c.mu.Lock()
	c.order = nil
	c.byID = make(map[string]*ink.Stroke)
	c.mu.Unlock()
	c.tiles.Clear()
	c.meshes.Clear()
}

// EncodeISF serializes the committed scene in draw order.
func (c *Canvas) EncodeISF() []byte {
	c.mu.Lock()
	order := make([]*ink.Stroke, len(c.order))
	copy(order, c.order)
	opts := c.isfOpts
	c.mu.Unlock()
	return isf.MarshalStrokes(order, opts)
}

// DecodeISF replaces the scene with the container's strokes. Decoding is all
// or nothing: on error the existing scene is left untouched.
func (c *Canvas) DecodeISF(data []byte) error {
	strokes, err := isf.UnmarshalStrokes(data)
	if err != nil {
		return err
	}
	c.Clear()
	for _, s := range strokes {
		c.commit(s)
	}
	ink.Logger().Info("scene loaded", "strokes", len(strokes))
	return nil
}
