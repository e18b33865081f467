package ink

// PointerType identifies the kind of input device behind a pointer event.
type PointerType uint8

const (
	PointerMouse PointerType = iota
	PointerTouch
	PointerPen
)

// String returns a human-readable name for the pointer type.
func (t PointerType) String() string {
	switch t {
	case PointerMouse:
		return "mouse"
	case PointerTouch:
		return "touch"
	case PointerPen:
		return "pen"
	default:
		return "unknown"
	}
}

// PointerEvent is the normalized input-event shape consumed by the capture
// pipeline. The core does not own event dispatch; the embedding application
// translates its native events into this form.
//
// Pressure defaults to 0 or 1 depending on the device; mouse buttons report 1
// while pressed. Tilt fields are zero when the device reports none.
type PointerEvent struct {
	PointerID int
	Type      PointerType
	IsPrimary bool
	X, Y      float64 // client/screen coordinates
	Pressure  float64
	TiltX     float64
	TiltY     float64
	Buttons   uint32 // bitmask, bit 0 = primary button
	Time      float64
}

// Tool selects what a captured stroke does when composited.
type Tool uint8

const (
	// ToolPen draws opaque ink.
	ToolPen Tool = iota
	// ToolEraser subtracts alpha from baked tiles (destination-out).
	ToolEraser
)
