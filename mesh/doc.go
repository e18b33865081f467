// Package mesh turns captured ink strokes into triangulated variable-width
// ribbons ready for GPU submission.
//
// The output is a flat float32 vertex buffer with six components per vertex
// (x, y, r, g, b, a), three vertices per triangle. Interior joints use miter
// joins clamped to a 4x miter limit, falling back to round-join fans at
// sharp or degenerate corners; endpoints get round caps. A single-point
// stroke produces a filled disc so taps still render.
//
// The triangulation is exposed behind the [Builder] strategy interface so an
// accelerated implementation (native kernel, GPU compute) can replace the
// pure-Go one; both must produce the same vertex layout. Finished-stroke
// meshes are cached by stroke ID, and [Requester] offloads building to a
// worker pool with a synchronous fallback.
package mesh
