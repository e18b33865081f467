// Command inkdemo draws a small scene through the ink pipeline and writes it
// out as a PNG plus an ISF scene file.
package main

import (
	"flag"
	"log"
	"math"
	"os"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/canvas"
	"github.com/gogpu/ink/isf"
)

func main() {
	var (
		width   = flag.Float64("width", 1280, "canvas width in logical pixels")
		height  = flag.Float64("height", 800, "canvas height in logical pixels")
		scale   = flag.Float64("scale", 2, "device pixel ratio")
		output  = flag.String("output", "ink.png", "output image file")
		scene   = flag.String("scene", "ink.isf", "output scene file")
		cfgPath = flag.String("config", "", "optional TOML tuning file")
	)
	flag.Parse()

	cfg := ink.DefaultConfig()
	if *cfgPath != "" {
		var err error
		if cfg, err = ink.LoadConfig(*cfgPath); err != nil {
			log.Fatalf("load config: %v", err)
		}
	}

	c := canvas.New(*width, *height,
		canvas.WithConfig(cfg),
		canvas.WithDeviceScale(*scale),
	)
	defer c.Close()

	drawWaves(c)
	drawSpiral(c)
	eraseBand(c)

	// Synthesized capture data exercises the same width pipeline as live
	// pointer input.
	c.AddStroke(ink.GenerateTestStroke(300))

	data := c.EncodeISF()
	if err := os.WriteFile(*scene, data, 0o644); err != nil {
		log.Fatalf("write scene: %v", err)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("create image: %v", err)
	}
	defer f.Close()
	if err := c.WritePNG(f); err != nil {
		log.Fatalf("encode image: %v", err)
	}

	points := 0
	strokes, _ := isf.UnmarshalStrokes(data)
	for _, s := range strokes {
		points += len(s.Points)
	}
	log.Printf("wrote %s and %s: %d strokes, %d points, %.1fx compression",
		*output, *scene, c.StrokeCount(), points,
		isf.CompressionRatio(points, len(data)))
}

// drawWaves lays down three colored sine strokes through the pointer event
// path, pressure rising toward each crest.
func drawWaves(c *canvas.Canvas) {
	colors := []ink.RGBA{
		ink.Hex("#1a6fb0"),
		ink.Hex("#d1453b"),
		ink.Hex("#2e8b57"),
	}
	c.SetBrushWidth(10)

	for row, col := range colors {
		c.SetColor(col)
		y0 := 160.0 + float64(row)*120
		ev := ink.PointerEvent{
			PointerID: 1,
			Type:      ink.PointerPen,
			IsPrimary: true,
			X:         80,
			Y:         y0,
			Pressure:  0.5,
		}
		c.PointerDown(ev)
		for i := 1; i <= 220; i++ {
			t := float64(i)
			ev.X = 80 + t*5
			ev.Y = y0 + 46*math.Sin(t*0.09+float64(row))
			ev.Pressure = 0.45 + 0.4*math.Abs(math.Sin(t*0.045))
			ev.Time = t * 7
			c.PointerMove(ev)
		}
		c.PointerUp(ev)
	}
}

// drawSpiral draws an inward spiral with decaying pressure.
func drawSpiral(c *canvas.Canvas) {
	c.SetColor(ink.Hex("#6a3db0"))
	c.SetBrushWidth(7)

	cx, cy := 640.0, 420.0
	ev := ink.PointerEvent{PointerID: 2, Type: ink.PointerPen, X: cx + 230, Y: cy, Pressure: 0.9}
	c.PointerDown(ev)
	for i := 1; i <= 500; i++ {
		a := float64(i) * 0.05
		r := 230 * (1 - float64(i)/520)
		ev.X = cx + r*math.Cos(a)
		ev.Y = cy + r*math.Sin(a)
		ev.Pressure = 0.9 - 0.6*float64(i)/500
		ev.Time = float64(i) * 6
		c.PointerMove(ev)
	}
	c.PointerUp(ev)
}

// eraseBand sweeps the eraser horizontally across the middle of the scene.
func eraseBand(c *canvas.Canvas) {
	c.SetTool(ink.ToolEraser)
	c.SetBrushWidth(28)

	ev := ink.PointerEvent{PointerID: 3, Type: ink.PointerPen, X: 200, Y: 400, Pressure: 1}
	c.PointerDown(ev)
	for i := 1; i <= 120; i++ {
		ev.X = 200 + float64(i)*7
		ev.Y = 400 + 14*math.Sin(float64(i)*0.12)
		ev.Time = float64(i) * 8
		c.PointerMove(ev)
	}
	c.PointerUp(ev)
	c.SetTool(ink.ToolPen)
}
