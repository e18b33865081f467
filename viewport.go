package ink

// Viewport scale limits.
const (
	MinScale = 0.1
	MaxScale = 5.0
)

// Viewport maintains pan/zoom state and the screen-to-world mapping for the
// infinite canvas. A world point w maps to screen as (w - offset) * scale.
type Viewport struct {
	OffsetX, OffsetY float64 // world coordinates of the screen origin
	Scale            float64
	ScreenW, ScreenH float64
}

// NewViewport creates a viewport at the world origin with scale 1.
func NewViewport(screenW, screenH float64) *Viewport {
	return &Viewport{Scale: 1, ScreenW: screenW, ScreenH: screenH}
}

// WorldToScreen maps a world point to screen coordinates.
func (v *Viewport) WorldToScreen(wx, wy float64) (sx, sy float64) {
	return (wx - v.OffsetX) * v.Scale, (wy - v.OffsetY) * v.Scale
}

// ScreenToWorld maps a screen point to world coordinates.
// It is the exact inverse of WorldToScreen up to float precision.
func (v *Viewport) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	return sx/v.Scale + v.OffsetX, sy/v.Scale + v.OffsetY
}

// Pan shifts the viewport by a screen-space displacement.
func (v *Viewport) Pan(dxScreen, dyScreen float64) {
	v.OffsetX -= dxScreen / v.Scale
	v.OffsetY -= dyScreen / v.Scale
}

// ZoomAt multiplies the scale by factor, keeping the world point under the
// given screen position fixed. The resulting scale is clamped to
// [MinScale, MaxScale].
func (v *Viewport) ZoomAt(sx, sy, factor float64) {
	wx, wy := v.ScreenToWorld(sx, sy)
	v.SetScale(v.Scale * factor)
	// Re-anchor so (wx, wy) stays under (sx, sy).
	v.OffsetX = wx - sx/v.Scale
	v.OffsetY = wy - sy/v.Scale
}

// SetScale sets the zoom factor, clamped to [MinScale, MaxScale].
func (v *Viewport) SetScale(s float64) {
	if s < MinScale {
		s = MinScale
	} else if s > MaxScale {
		s = MaxScale
	}
	v.Scale = s
}

// Resize updates the screen dimensions.
func (v *Viewport) Resize(screenW, screenH float64) {
	v.ScreenW = screenW
	v.ScreenH = screenH
}

// WorldBounds returns the world-space rectangle currently visible.
func (v *Viewport) WorldBounds() Rect {
	return Rect{
		MinX: v.OffsetX,
		MinY: v.OffsetY,
		MaxX: v.OffsetX + v.ScreenW/v.Scale,
		MaxY: v.OffsetY + v.ScreenH/v.Scale,
	}
}
