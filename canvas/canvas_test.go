package canvas

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/mesh"
)

func drawLine(c *Canvas, pointer int, x0, y0, x1, y1 float64) {
	ev := ink.PointerEvent{
		PointerID: pointer,
		Type:      ink.PointerPen,
		IsPrimary: true,
		X:         x0,
		Y:         y0,
		Pressure:  0.6,
	}
	c.PointerDown(ev)
	const n = 40
	for i := 1; i <= n; i++ {
		ft := float64(i) / n
		ev.X = x0 + (x1-x0)*ft
		ev.Y = y0 + (y1-y0)*ft
		ev.Time = float64(i) * 8
		c.PointerMove(ev)
	}
	c.PointerUp(ev)
}

func TestPointerLifecycle(t *testing.T) {
	c := New(500, 500)
	defer c.Close()

	c.SetColor(ink.Hex("#336699"))
	c.SetBrushWidth(12)
	drawLine(c, 1, 50, 100, 400, 100)

	if got := c.StrokeCount(); got != 1 {
		t.Fatalf("StrokeCount() = %d, want 1", got)
	}
	if c.Engine().ActiveCount() != 0 {
		t.Error("stroke still active after PointerUp")
	}
}

func TestFrameBakesInk(t *testing.T) {
	c := New(500, 500)
	defer c.Close()

	c.SetBrushWidth(14)
	drawLine(c, 1, 50, 128, 230, 128)

	f := c.Frame()
	if len(f.Tiles) == 0 {
		t.Fatal("frame has no tiles")
	}
	if len(f.Live) != 0 {
		t.Errorf("frame has %d live meshes, want 0", len(f.Live))
	}

	inked := false
	for _, tl := range f.Tiles {
		img := tl.Image()
		if img == nil {
			continue
		}
		for i := 3; i < len(img.Pix); i += 4 {
			if img.Pix[i] != 0 {
				inked = true
				break
			}
		}
	}
	if !inked {
		t.Error("no tile contains ink after a committed stroke")
	}
}

func TestFrameLiveStroke(t *testing.T) {
	c := New(500, 500)
	defer c.Close()

	ev := ink.PointerEvent{PointerID: 1, X: 100, Y: 100, Pressure: 0.6}
	c.PointerDown(ev)
	for i := 1; i <= 20; i++ {
		ev.X = 100 + float64(i)*8
		ev.Time = float64(i) * 8
		c.PointerMove(ev)
	}

	f := c.Frame()
	if len(f.Live) != 1 {
		t.Fatalf("frame has %d live meshes, want 1", len(f.Live))
	}
	if len(f.Live[0].Vertices) == 0 {
		t.Error("live mesh is empty")
	}
	if f.Live[0].Erase {
		t.Error("pen stroke reported as eraser")
	}

	c.PointerUp(ev)
	if got := len(c.Frame().Live); got != 0 {
		t.Errorf("live meshes after commit = %d, want 0", got)
	}
}

func TestEraserReducesInk(t *testing.T) {
	c := New(500, 500)
	defer c.Close()

	c.SetBrushWidth(16)
	drawLine(c, 1, 50, 128, 230, 128)
	c.Frame()

	totalAlpha := func() int {
		sum := 0
		for _, tl := range c.Frame().Tiles {
			if img := tl.Image(); img != nil {
				for i := 3; i < len(img.Pix); i += 4 {
					sum += int(img.Pix[i])
				}
			}
		}
		return sum
	}
	before := totalAlpha()

	c.SetTool(ink.ToolEraser)
	c.SetBrushWidth(40)
	drawLine(c, 1, 140, 60, 140, 200)

	after := totalAlpha()
	if after >= before {
		t.Errorf("alpha after erase = %d, before = %d, want less", after, before)
	}
}

func TestClear(t *testing.T) {
	c := New(500, 500)
	defer c.Close()

	drawLine(c, 1, 50, 100, 400, 100)
	c.Frame()
	c.Clear()

	if c.StrokeCount() != 0 {
		t.Error("Clear kept strokes")
	}
	for _, tl := range c.Frame().Tiles {
		if img := tl.Image(); img != nil {
			for i := 3; i < len(img.Pix); i += 4 {
				if img.Pix[i] != 0 {
					t.Fatal("tile still inked after Clear")
				}
			}
		}
	}
}

func TestISFRoundTrip(t *testing.T) {
	c := New(500, 500)
	defer c.Close()

	c.SetColor(ink.Hex("#aa2211"))
	drawLine(c, 1, 50, 100, 400, 100)
	c.SetTool(ink.ToolEraser)
	drawLine(c, 1, 200, 50, 200, 150)

	data := c.EncodeISF()

	c2 := New(500, 500)
	defer c2.Close()
	if err := c2.DecodeISF(data); err != nil {
		t.Fatalf("DecodeISF: %v", err)
	}
	if got := c2.StrokeCount(); got != 2 {
		t.Fatalf("decoded StrokeCount() = %d, want 2", got)
	}

	// The decoded scene renders ink again.
	inked := false
	for _, tl := range c2.Frame().Tiles {
		if img := tl.Image(); img != nil {
			for i := 3; i < len(img.Pix); i += 4 {
				if img.Pix[i] != 0 {
					inked = true
					break
				}
			}
		}
	}
	if !inked {
		t.Error("decoded scene baked no ink")
	}
}

func TestDecodeISFKeepsSceneOnError(t *testing.T) {
	c := New(500, 500)
	defer c.Close()
	drawLine(c, 1, 50, 100, 400, 100)

	if err := c.DecodeISF([]byte("not an isf container")); err == nil {
		t.Fatal("DecodeISF accepted garbage")
	}
	if c.StrokeCount() != 1 {
		t.Error("failed decode modified the scene")
	}
}

func TestPanZoomViewport(t *testing.T) {
	c := New(800, 600)
	defer c.Close()

	c.Pan(-100, -50)
	c.ZoomAt(400, 300, 2)
	vp := c.Viewport()
	if vp.Scale != 2 {
		t.Errorf("Scale = %v, want 2", vp.Scale)
	}

	c.Resize(1024, 768)
	if got := c.Viewport(); got.ScreenW != 1024 || got.ScreenH != 768 {
		t.Errorf("screen = %vx%v, want 1024x768", got.ScreenW, got.ScreenH)
	}
}

func TestAddStrokeRejectsUnfinished(t *testing.T) {
	c := New(500, 500)
	defer c.Close()

	e := ink.NewEngine(ink.DefaultConfig())
	live := e.StartStroke(1, 0, 0, ink.Black, 8, 0.5, 0, 0, 0)
	c.AddStroke(live)
	if c.StrokeCount() != 0 {
		t.Error("unfinished stroke was committed")
	}

	c.AddStroke(ink.GenerateTestStroke(30))
	if c.StrokeCount() != 1 {
		t.Error("finished stroke was rejected")
	}
}

func TestWritePNG(t *testing.T) {
	c := New(300, 200, WithDeviceScale(1))
	defer c.Close()
	drawLine(c, 1, 20, 100, 280, 100)

	var buf bytes.Buffer
	if err := c.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	b := img.Bounds()
	if b.Dx() != 300 || b.Dy() != 200 {
		t.Errorf("image is %dx%d, want 300x200", b.Dx(), b.Dy())
	}
}

func TestFrameWhileDrawing(t *testing.T) {
	c := New(500, 500)
	defer c.Close()

	ev := ink.PointerEvent{
		PointerID: 1,
		Type:      ink.PointerPen,
		IsPrimary: true,
		Pressure:  0.6,
		X:         10,
		Y:         100,
	}
	c.PointerDown(ev)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 1; i <= 300; i++ {
			ev.X = 10 + float64(i)
			ev.Y = 100 + float64(i%40)
			ev.Time = float64(i) * 4
			c.PointerMove(ev)
		}
	}()

	// Frames pulled while the stroke is still growing must stay well formed.
	for i := 0; i < 100; i++ {
		f := c.Frame()
		for _, lm := range f.Live {
			if len(lm.Vertices)%mesh.VertexSize != 0 {
				t.Fatalf("live mesh has %d components, not a multiple of %d",
					len(lm.Vertices), mesh.VertexSize)
			}
		}
	}
	<-done

	c.PointerUp(ev)
	if got := c.StrokeCount(); got != 1 {
		t.Errorf("StrokeCount() = %d, want 1", got)
	}
}

func TestPointerDownCommitsPrevious(t *testing.T) {
	c := New(500, 500)
	defer c.Close()

	ev := ink.PointerEvent{
		PointerID: 1,
		Type:      ink.PointerPen,
		IsPrimary: true,
		Pressure:  0.6,
		X:         50,
		Y:         50,
	}
	c.PointerDown(ev)
	for i := 1; i <= 20; i++ {
		ev.X = 50 + float64(i)*10
		ev.Time = float64(i) * 8
		c.PointerMove(ev)
	}

	// The up event for the first stroke never arrives.
	ev.X, ev.Y, ev.Time = 60, 300, 400
	c.PointerDown(ev)

	if got := c.StrokeCount(); got != 1 {
		t.Fatalf("StrokeCount() after re-down = %d, want 1", got)
	}
	if c.Engine().ActiveCount() != 1 {
		t.Error("no stroke active after re-down")
	}

	ev.X, ev.Time = 260, 500
	c.PointerMove(ev)
	c.PointerUp(ev)
	if got := c.StrokeCount(); got != 2 {
		t.Errorf("StrokeCount() = %d, want 2", got)
	}
}
