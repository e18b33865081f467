package canvas

import (
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
)

// RenderImage bakes any dirty visible tiles and composites them into a single
// bitmap covering the viewport, on a white background.
//
// The output pixel scale is the tile raster scale, so after a zoom gesture
// the image is crisp once the debounced rebake has run. Strokes still in
// progress are not composited; they live in Frame.Live and are the host's
// job to overlay.
func (c *Canvas) RenderImage() *image.RGBA {
	frame := c.Frame()
	vp := c.Viewport()
	s := c.tiles.DeviceScale()
	wb := vp.WorldBounds()

	w := int(math.Ceil(wb.Width() * s))
	h := int(math.Ceil(wb.Height() * s))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)

	for _, t := range frame.Tiles {
		img := t.Image()
		if img == nil {
			continue
		}
		tb := t.WorldBounds()
		ox := int(math.Round((tb.MinX - wb.MinX) * s))
		oy := int(math.Round((tb.MinY - wb.MinY) * s))
		r := image.Rect(ox, oy, ox+img.Bounds().Dx(), oy+img.Bounds().Dy())
		draw.Draw(dst, r, img, image.Point{}, draw.Over)
	}
	return dst
}

// WritePNG renders the viewport and encodes it as PNG.
func (c *Canvas) WritePNG(w io.Writer) error {
	return png.Encode(w, c.RenderImage())
}
