package isf

import "fmt"

// DecodeError reports a malformed or truncated ISF buffer. Decoding is
// all-or-nothing: when a DecodeError is returned, no strokes have been
// produced and the caller's existing state is untouched.
type DecodeError struct {
	// Offset is the approximate byte position of the problem, when known.
	Offset int
	// Reason describes what was wrong.
	Reason string
}

func (e *DecodeError) Error() string {
	if e.Offset > 0 {
		return fmt.Sprintf("isf: decode error at byte %d: %s", e.Offset, e.Reason)
	}
	return "isf: decode error: " + e.Reason
}
