// Package isf implements the Ink Serialized Format, the compact binary
// persistence format for whiteboard strokes.
//
// Each numeric stream (x, y, pressure, time) is quantized to integers,
// second-order differenced, and written as sign-flagged variable-length
// integers. Smooth pen motion has a near-constant first derivative, so the
// second differences cluster around zero and most samples fit in one byte,
// giving roughly 4x compression against the 16-bytes-per-point raw baseline.
//
// The encoding is lossy by design: positions, pressure, and time are
// quantized to a caller-chosen decimal precision, width to 1/100 of a unit,
// and color to 8-bit RGB with alpha not persisted.
//
// # Framing
//
// A serialized stroke is a 4-byte little-endian length followed by its
// payload (descriptor, then streams). A container is the magic "ISF1", a
// 4-byte little-endian stroke count, and the stroke blobs back to back, each
// self-delimited by its own length field, the same framing in both forms.
//
// Decoding is all-or-nothing: any truncation or inconsistency yields a
// *DecodeError and no partial result.
package isf
