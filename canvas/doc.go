// Package canvas assembles the ink pipeline into a drawable surface.
//
// A Canvas owns the capture engine, the tile index and baker, the mesh cache,
// and a worker pool, and exposes the three entry points a host shell needs:
// pointer events in, frames out, and scene persistence. The host is
// responsible for actually presenting the frame (blitting tile surfaces and
// submitting live vertex buffers); the canvas produces the data.
//
//	c := canvas.New(1280, 800)
//	defer c.Close()
//
//	c.PointerDown(ev)
//	c.PointerMove(ev)
//	c.PointerUp(ev)
//
//	f := c.Frame()
//	for _, t := range f.Tiles { /* blit t.Image() */ }
//	for _, m := range f.Live { /* draw m.Vertices */ }
package canvas
