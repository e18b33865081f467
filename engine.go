package ink

import (
	"math"
	"sync"
	"sync/atomic"
)

// Engine is the stroke capture and smoothing state machine.
//
// Each active pointer owns an independent in-progress Stroke, so multi-touch
// strokes never interleave points into the same buffer. Raw samples are not
// appended verbatim: they are exponentially filtered with a speed- and
// curvature-adaptive factor, then resampled so that emitted point density
// depends on spacing rather than on the input device's polling rate.
//
// AddPoint is a synchronous, bounded-time operation suitable for calling on
// every pointer-move. Configuration is read through an atomic pointer, so
// SetConfig can retune a live engine from any goroutine.
type Engine struct {
	cfg atomic.Pointer[Config]

	mu     sync.Mutex
	active map[int]*Stroke
}

// NewEngine creates an engine with the given tuning.
func NewEngine(cfg Config) *Engine {
	e := &Engine{active: make(map[int]*Stroke)}
	e.cfg.Store(&cfg)
	return e
}

// Config returns the engine's current tuning.
func (e *Engine) Config() Config { return *e.cfg.Load() }

// SetConfig swaps the engine's tuning. Safe to call while strokes are active;
// in-flight strokes pick up the new values on their next sample.
func (e *Engine) SetConfig(cfg Config) { e.cfg.Store(&cfg) }

// StartStroke creates a one-point pen stroke owned by the given pointer.
// Any stroke already active on that pointer is sealed first.
func (e *Engine) StartStroke(pointerID int, x, y float64, color RGBA, width, pressure, tiltX, tiltY, t float64) *Stroke {
	return e.start(pointerID, x, y, color, width, pressure, tiltX, tiltY, t, false)
}

// StartEraser creates a one-point eraser stroke owned by the given pointer.
// Eraser strokes carry width but no visible color; they subtract alpha from
// baked tiles when composited.
func (e *Engine) StartEraser(pointerID int, x, y, width, pressure, tiltX, tiltY, t float64) *Stroke {
	return e.start(pointerID, x, y, Transparent, width, pressure, tiltX, tiltY, t, true)
}

func (e *Engine) start(pointerID int, x, y float64, color RGBA, width, pressure, tiltX, tiltY, t float64, erase bool) *Stroke {
	cfg := e.cfg.Load()

	first := Point{
		X:        finiteOr(x, 0),
		Y:        finiteOr(y, 0),
		Pressure: clamp01(finiteOr(pressure, 0.5)),
		TiltX:    finiteOr(tiltX, 0),
		TiltY:    finiteOr(tiltY, 0),
		Time:     finiteOr(t, 0),
	}
	if width <= 0 {
		width = 1
	}
	s := newStroke(first, color, width, erase)
	s.grow(first.X, first.Y, width*cfg.MaxWidthScale/2)

	e.mu.Lock()
	if prev, ok := e.active[pointerID]; ok {
		prev.seal(cfg)
	}
	e.active[pointerID] = s
	e.mu.Unlock()
	return s
}

// AddPoint feeds a raw pointer-move sample into the pointer's active stroke.
// It is a no-op when the pointer has no active stroke.
func (e *Engine) AddPoint(pointerID int, x, y, pressure, tiltX, tiltY, t float64) {
	cfg := e.cfg.Load()

	// The lock covers the whole append so SnapshotActive sees either the
	// stroke before or after this sample, never a half-written buffer.
	e.mu.Lock()
	defer e.mu.Unlock()
	s := e.active[pointerID]
	if s == nil {
		return
	}

	raw := Point{
		X:        finiteOr(x, s.lastRaw.X),
		Y:        finiteOr(y, s.lastRaw.Y),
		Pressure: clamp01(finiteOr(pressure, s.lastRaw.Pressure)),
		TiltX:    finiteOr(tiltX, s.lastRaw.TiltX),
		TiltY:    finiteOr(tiltY, s.lastRaw.TiltY),
		Time:     finiteOr(t, s.lastRaw.Time),
	}

	dt := raw.Time - s.lastRaw.Time
	if dt <= 0 {
		dt = 1
	}
	dx := raw.X - s.lastRaw.X
	dy := raw.Y - s.lastRaw.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	speed := dist / math.Max(1, dt)

	// Turn angle against the previous raw segment, as curvature in [0, 1].
	var curvature float64
	var dirX, dirY float64
	if dist > 1e-9 {
		dirX, dirY = dx/dist, dy/dist
		if s.rawCount >= 2 {
			cos := dirX*s.prevDirX + dirY*s.prevDirY
			curvature = clamp01((1 - cos) / 2)
		}
	}

	filtered := raw
	if cfg.SmoothingEnabled {
		// Speed maps to a smoothing amount: slow deliberate motion stays
		// crisp, fast motion gets more low-pass filtering. Sharp corners
		// reduce the amount so they are not rounded away.
		sm := cfg.MinSmoothing +
			(cfg.MaxSmoothing-cfg.MinSmoothing)*smoothstep(cfg.SpeedLow, cfg.SpeedHigh, speed)
		sm *= 1 - curvature*cfg.CurvatureBoost
		sm = clamp01(sm)
		follow := 1 - sm
		filtered.X = lerp(s.lastFiltered.X, raw.X, follow)
		filtered.Y = lerp(s.lastFiltered.Y, raw.Y, follow)
	}

	spacing := math.Max(0.35, s.BaseWidth*cfg.SpacingFactor)
	if !cfg.SmoothingEnabled {
		spacing = math.Max(0.15, s.BaseWidth*0.15)
	}

	// Spacing-gated emission: subdivide the filtered displacement into
	// evenly spaced points; shorter displacements stay buffered in the
	// filter state until enough distance accumulates.
	last := s.Points[len(s.Points)-1]
	d := last.Dist(filtered)
	if d >= spacing {
		steps := int(math.Ceil(d / spacing))
		for k := 1; k <= steps; k++ {
			ft := float64(k) / float64(steps)
			p := Point{
				X:        lerp(last.X, filtered.X, ft),
				Y:        lerp(last.Y, filtered.Y, ft),
				Pressure: lerp(last.Pressure, raw.Pressure, ft),
				TiltX:    lerp(last.TiltX, raw.TiltX, ft),
				TiltY:    lerp(last.TiltY, raw.TiltY, ft),
				Time:     lerp(last.Time, raw.Time, ft),
			}
			e.emit(s, cfg, p)
		}
	}

	s.lastRaw = raw
	s.lastFiltered = filtered
	if dist > 1e-9 {
		s.prevDirX, s.prevDirY = dirX, dirY
	}
	s.rawCount++
}

// emit appends one resampled point, computing its smoothed velocity and
// growing the in-progress bounds.
func (e *Engine) emit(s *Stroke, cfg *Config, p Point) {
	prev := s.Points[len(s.Points)-1]
	segLen := prev.Dist(p)
	segDt := p.Time - prev.Time
	if segDt <= 0 {
		segDt = 1
	}
	inst := segLen / math.Max(1, segDt)
	p.Velocity = lerp(prev.Velocity, inst, cfg.VelocitySmoothing)

	if cfg.AngleCulling && len(s.Points) >= 2 {
		a := s.Points[len(s.Points)-2]
		b := s.Points[len(s.Points)-1]
		abx, aby := b.X-a.X, b.Y-a.Y
		bpx, bpy := p.X-b.X, p.Y-b.Y
		al := math.Sqrt(abx*abx + aby*aby)
		bl := math.Sqrt(bpx*bpx + bpy*bpy)
		if al > 1e-9 && bl > 1e-9 {
			cos := (abx*bpx + aby*bpy) / (al * bl)
			if cos > 0.9995 {
				// Nearly collinear: extend the previous segment instead of
				// adding a vertex pair to the mesh.
				s.dropLast()
			}
		}
	}

	s.appendPoint(p)
	s.grow(p.X, p.Y, s.BaseWidth*cfg.MaxWidthScale/2)
}

// FinishStroke seals and returns the pointer's active stroke, or nil if the
// pointer has none. Pointer-cancel is treated identically: there is no
// mid-stroke rollback, an unwanted stroke is removed with the eraser.
func (e *Engine) FinishStroke(pointerID int) *Stroke {
	cfg := e.cfg.Load()

	e.mu.Lock()
	s := e.active[pointerID]
	delete(e.active, pointerID)
	e.mu.Unlock()

	if s == nil {
		return nil
	}
	s.seal(cfg)
	return s
}

// ActiveStroke returns the in-progress stroke for a pointer, or nil.
func (e *Engine) ActiveStroke(pointerID int) *Stroke {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.active[pointerID]
}

// ActiveStrokes returns all in-progress strokes, in no particular order.
// The returned strokes are still being appended to; read them only from the
// goroutine that feeds AddPoint, or take a [Engine.SnapshotActive] instead.
func (e *Engine) ActiveStrokes() []*Stroke {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Stroke, 0, len(e.active))
	for _, s := range e.active {
		out = append(out, s)
	}
	return out
}

// LiveStroke is a point-in-time copy of an in-progress stroke's mesh inputs.
// The buffers are owned by the caller; later pointer-moves do not touch them.
type LiveStroke struct {
	ID     string
	Erase  bool
	Color  RGBA
	Points []float32 // interleaved x,y pairs
	Widths []float32 // per-point widths, same length as Points/2
}

// SnapshotActive copies every in-progress stroke's flattened points and
// width profile under the engine lock. A renderer polling from its own
// goroutine uses this rather than ActiveStrokes, so it never reads a point
// buffer that AddPoint is appending to.
func (e *Engine) SnapshotActive() []LiveStroke {
	cfg := e.cfg.Load()

	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]LiveStroke, 0, len(e.active))
	for _, s := range e.active {
		if len(s.Points) == 0 {
			continue
		}
		out = append(out, LiveStroke{
			ID:     s.ID,
			Erase:  s.Erase,
			Color:  s.Color,
			Points: s.FlatPoints(),
			Widths: s.WidthProfile(cfg),
		})
	}
	return out
}

// ActiveCount returns the number of pointers currently drawing.
func (e *Engine) ActiveCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.active)
}

// dropLast removes the most recent emitted point (angle culling support).
func (s *Stroke) dropLast() {
	n := len(s.Points)
	if n < 2 {
		return
	}
	s.totalLength -= s.Points[n-2].Dist(s.Points[n-1])
	s.Points = s.Points[:n-1]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
