// Package ink implements the core pipeline of a multi-touch ink whiteboard:
// pressure- and velocity-sensitive stroke capture, geometry smoothing, and
// the shared data model consumed by the mesh, tile, and isf subpackages.
//
// # Overview
//
// Raw pointer samples flow through a per-pointer [Engine], which filters and
// resamples them into an evenly spaced point stream with per-point arc length
// and smoothed velocity. Finished strokes are immutable; their variable-width
// ribbon geometry is produced by the mesh package, baked into raster cache
// cells by the tile package, and persisted by the isf package.
//
// # Quick Start
//
//	eng := ink.NewEngine(ink.DefaultConfig())
//	eng.StartStroke(0, 10, 10, ink.RGB(0, 0, 0), 4, 0.5, 0, 0, 0)
//	eng.AddPoint(0, 40, 12, 0.6, 0, 0, 8)
//	stroke := eng.FinishStroke(0)
//
// For the full capture-to-composite flow, see the canvas subpackage.
//
// # Coordinate System
//
// World coordinates use the standard computer-graphics convention: origin at
// top-left, X increasing right, Y increasing down. The [Viewport] maps world
// space to screen space with a clamped zoom factor.
//
// # Logging
//
// ink produces no log output by default. Call [SetLogger] to enable logging;
// subpackages share the same logger via [Logger].
package ink
