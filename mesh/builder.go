package mesh

import (
	"errors"
	"sync"

	"github.com/gogpu/ink"
)

// Builder produces a ribbon vertex buffer from a flattened point stream.
// Implementations must be deterministic and emit the shared vertex layout
// ([VertexSize] float32 components per vertex), so that builders are freely
// interchangeable.
type Builder interface {
	Build(points, widths []float32, color [4]float32) []float32
}

// Accelerator is an optional replacement triangulator, typically backed by a
// native numeric kernel. Registering one swaps it in for every mesh build;
// the pure-Go [Ribbon] remains the fallback.
type Accelerator interface {
	Builder

	// Name returns the accelerator name for diagnostics.
	Name() string

	// Init initializes the accelerator. Called once during registration.
	Init() error

	// Close releases accelerator resources.
	Close()
}

var (
	accelMu sync.RWMutex
	accel   Accelerator
)

// RegisterAccelerator installs an accelerated mesh builder. Only one can be
// registered; subsequent calls replace (and close) the previous one. If
// Init fails the accelerator is not registered and the error is returned.
func RegisterAccelerator(a Accelerator) error {
	if a == nil {
		return errors.New("mesh: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	ink.Logger().Info("mesh accelerator registered", "name", a.Name())
	return nil
}

// RegisteredAccelerator returns the current accelerator, or nil if none.
func RegisteredAccelerator() Accelerator {
	accelMu.RLock()
	defer accelMu.RUnlock()
	return accel
}

// Default returns the builder every caller should use: the registered
// accelerator when present, otherwise the pure-Go ribbon triangulator.
func Default() Builder {
	if a := RegisteredAccelerator(); a != nil {
		return a
	}
	return Ribbon{}
}

// BuildStroke flattens a stroke's emitted points, evaluates its width
// profile, and triangulates it with b. Eraser strokes build with opaque
// black so their coverage can be used as an alpha mask.
func BuildStroke(b Builder, s *ink.Stroke, cfg *ink.Config) []float32 {
	color := [4]float32{
		float32(s.Color.R),
		float32(s.Color.G),
		float32(s.Color.B),
		float32(s.Color.A),
	}
	if s.Erase {
		color = [4]float32{0, 0, 0, 1}
	}
	return b.Build(s.FlatPoints(), s.WidthProfile(cfg), color)
}

// BuildLive triangulates an in-progress stroke snapshot. The same eraser
// masking as [BuildStroke] applies.
func BuildLive(b Builder, ls ink.LiveStroke) []float32 {
	color := [4]float32{
		float32(ls.Color.R),
		float32(ls.Color.G),
		float32(ls.Color.B),
		float32(ls.Color.A),
	}
	if ls.Erase {
		color = [4]float32{0, 0, 0, 1}
	}
	return b.Build(ls.Points, ls.Widths, color)
}
