package ink

import (
	"time"

	"github.com/google/uuid"
)

// Stroke is an ordered sequence of captured ink points plus the style needed
// to render them. A stroke is created on pointer-down, grows on pointer-move,
// and is sealed by Finish on pointer-up or pointer-cancel. Once finished it
// is immutable; any further edit requires a new stroke.
//
// The positional-filter state (last raw sample, last filtered position,
// smoothed velocity) lives on the stroke itself rather than on the Engine, so
// concurrent multi-touch strokes can never leak filter state into each other.
type Stroke struct {
	ID        string
	Color     RGBA
	BaseWidth float64
	Erase     bool
	Points    []Point
	CreatedAt time.Time
	UpdatedAt time.Time

	bounds      Rect
	totalLength float64
	finished    bool

	// Capture state, meaningful only while the stroke is unfinished.
	lastRaw      Point
	lastFiltered Point
	rawCount     int
	prevDirX     float64
	prevDirY     float64
}

// newStroke creates a one-point stroke owned by a single pointer.
func newStroke(first Point, color RGBA, baseWidth float64, erase bool) *Stroke {
	now := time.Now()
	s := &Stroke{
		ID:        uuid.NewString(),
		Color:     color,
		BaseWidth: baseWidth,
		Erase:     erase,
		Points:    []Point{first},
		CreatedAt: now,
		UpdatedAt: now,
		bounds:    EmptyRect(),
	}
	s.lastRaw = first
	s.lastFiltered = first
	s.rawCount = 1
	return s
}

// RebuildStroke reconstructs a finished stroke from persisted data. Derived
// per-point fields (cumulative arc length, velocity) are recomputed from the
// positions and timestamps rather than stored, so a decoded stroke renders
// through the same width pipeline as a live one. The returned stroke is
// sealed.
func RebuildStroke(id string, color RGBA, baseWidth float64, erase bool, points []Point, cfg *Config) *Stroke {
	if cfg == nil {
		d := DefaultConfig()
		cfg = &d
	}
	now := time.Now()
	s := &Stroke{
		ID:        id,
		Color:     color,
		BaseWidth: baseWidth,
		Erase:     erase,
		Points:    make([]Point, 0, len(points)),
		CreatedAt: now,
		UpdatedAt: now,
		bounds:    EmptyRect(),
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	vel := 0.0
	for i, p := range points {
		if i > 0 {
			prev := points[i-1]
			dt := p.Time - prev.Time
			if dt <= 0 {
				dt = 1
			}
			inst := prev.Dist(p) / dt
			vel = lerp(vel, inst, cfg.VelocitySmoothing)
		}
		p.Velocity = vel
		s.appendPoint(p)
	}
	s.seal(cfg)
	return s
}

// IsFinished reports whether the stroke has been sealed.
func (s *Stroke) IsFinished() bool { return s.finished }

// TotalLength returns the arc length of the emitted point stream.
func (s *Stroke) TotalLength() float64 { return s.totalLength }

// Bounds returns the stroke's axis-aligned bounding box including the pen
// radius. While the stroke is unfinished the box only ever grows; Finish
// shrinks it to the tight union of per-point radii.
func (s *Stroke) Bounds() Rect { return s.bounds }

// grow widens the bounding box to include a point with the given radius.
func (s *Stroke) grow(x, y, radius float64) {
	s.bounds = s.bounds.UnionPoint(x-radius, y-radius)
	s.bounds = s.bounds.UnionPoint(x+radius, y+radius)
}

// appendPoint records an emitted point, maintaining cumulative arc length.
// Callers fill Velocity before appending.
func (s *Stroke) appendPoint(p Point) {
	if n := len(s.Points); n > 0 {
		s.totalLength += s.Points[n-1].Dist(p)
	}
	p.Length = s.totalLength
	s.Points = append(s.Points, p)
	s.UpdatedAt = time.Now()
}

// seal marks the stroke finished and recomputes tight bounds from the
// per-point widths.
func (s *Stroke) seal(cfg *Config) {
	s.finished = true
	s.UpdatedAt = time.Now()

	b := EmptyRect()
	for i, p := range s.Points {
		r := s.WidthAt(i, cfg) / 2
		b = b.UnionPoint(p.X-r, p.Y-r)
		b = b.UnionPoint(p.X+r, p.Y+r)
	}
	s.bounds = b
}

// WidthAt computes the rendered ribbon width at point index i.
//
// The width combines pressure, a speed-based thinning factor, and smoothstep
// tapers at the head and (once finished) tail of the stroke, clamped to
// [BaseWidth*MinWidthScale, BaseWidth*MaxWidthScale]. A stroke still in
// progress has no known total length, so the tail taper is skipped until
// Finish.
func (s *Stroke) WidthAt(i int, cfg *Config) float64 {
	if i < 0 || i >= len(s.Points) {
		return s.BaseWidth
	}
	p := s.Points[i]

	pressure := p.Pressure
	if pressure < 0.25 {
		pressure = 0.25
	}
	speedScale := 1 / (1 + p.Velocity*cfg.SpeedInfluence)

	taperLen := s.BaseWidth * cfg.TaperFactor
	if taperLen < 6 {
		taperLen = 6
	}
	if max := s.totalLength * 0.45; taperLen > max && max > 0 {
		taperLen = max
	}

	head := smoothstep(0, taperLen, p.Length)
	tail := 1.0
	if s.finished {
		tail = smoothstep(0, taperLen, s.totalLength-p.Length)
	}

	w := s.BaseWidth * pressure * speedScale * head * tail
	if min := s.BaseWidth * cfg.MinWidthScale; w < min {
		w = min
	}
	if max := s.BaseWidth * cfg.MaxWidthScale; w > max {
		w = max
	}
	return w
}

// WidthProfile evaluates WidthAt for every point, in the float32 layout the
// mesh builder consumes.
func (s *Stroke) WidthProfile(cfg *Config) []float32 {
	ws := make([]float32, len(s.Points))
	for i := range s.Points {
		ws[i] = float32(s.WidthAt(i, cfg))
	}
	return ws
}

// FlatPoints returns the emitted positions as interleaved x,y float32 pairs,
// the layout shared by the mesh builder and worker snapshots.
func (s *Stroke) FlatPoints() []float32 {
	pts := make([]float32, 0, len(s.Points)*2)
	for _, p := range s.Points {
		pts = append(pts, float32(p.X), float32(p.Y))
	}
	return pts
}
