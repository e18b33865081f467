package isf

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/ink"
)

// Format constants.
const (
	formatVersion = 0x01

	flagPressure = 1 << 0
	flagTime     = 1 << 1
	flagEraser   = 1 << 2
)

// containerMagic opens a multi-stroke container.
var containerMagic = [4]byte{'I', 'S', 'F', '1'}

// Options controls per-stream quantization, expressed as decimal digits kept
// after the point. Higher values preserve more detail at the cost of larger
// deltas.
type Options struct {
	// PositionPrecision applies to the x and y streams. The default of 2
	// keeps positions to a hundredth of a world unit.
	PositionPrecision int

	// PressurePrecision applies to the pressure stream.
	PressurePrecision int

	// TimePrecision applies to the timestamp stream. Timestamps are already
	// integral milliseconds, so the default keeps them whole.
	TimePrecision int
}

// DefaultOptions returns the precision set used by the capture pipeline.
func DefaultOptions() Options {
	return Options{
		PositionPrecision: 2,
		PressurePrecision: 3,
		TimePrecision:     0,
	}
}

// Marshal serializes a single stroke: a 4-byte little-endian total length
// followed by the payload (descriptor, then streams). Streams that carry no
// information, a pressure stream that is all zero or a time stream that is
// all zero, are omitted and flagged absent in the descriptor.
func Marshal(s *ink.Stroke, opts Options) []byte {
	payload := appendStrokePayload(nil, s, opts)
	out := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint32(out, uint32(len(payload)))
	return append(out, payload...)
}

// Unmarshal decodes a single serialized stroke. Trailing bytes after the
// framed blob are an error; use UnmarshalStrokes for containers.
func Unmarshal(buf []byte) (*ink.Stroke, error) {
	s, n, err := unmarshalOne(buf)
	if err != nil {
		return nil, err
	}
	if n != len(buf) {
		return nil, &DecodeError{Offset: n, Reason: "trailing bytes after stroke"}
	}
	return s, nil
}

// MarshalStrokes serializes a whole scene: the magic "ISF1", a 4-byte
// little-endian stroke count, and each stroke's framed blob back to back.
func MarshalStrokes(strokes []*ink.Stroke, opts Options) []byte {
	out := make([]byte, 0, 8+len(strokes)*64)
	out = append(out, containerMagic[:]...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(strokes)))
	for _, s := range strokes {
		payload := appendStrokePayload(nil, s, opts)
		out = binary.LittleEndian.AppendUint32(out, uint32(len(payload)))
		out = append(out, payload...)
	}
	return out
}

// UnmarshalStrokes decodes a container produced by MarshalStrokes. Decoding
// is all or nothing: any malformed blob fails the whole container, so a
// partially corrupt file never yields a half-loaded scene.
func UnmarshalStrokes(buf []byte) ([]*ink.Stroke, error) {
	if len(buf) < 8 {
		return nil, &DecodeError{Reason: "container: short header"}
	}
	if [4]byte(buf[:4]) != containerMagic {
		return nil, &DecodeError{Reason: "container: bad magic"}
	}
	count := binary.LittleEndian.Uint32(buf[4:8])
	n := 8

	strokes := make([]*ink.Stroke, 0, count)
	for i := uint32(0); i < count; i++ {
		s, sn, err := unmarshalOne(buf[n:])
		if err != nil {
			if de, ok := err.(*DecodeError); ok {
				de.Offset += n
			}
			return nil, err
		}
		strokes = append(strokes, s)
		n += sn
	}
	if n != len(buf) {
		return nil, &DecodeError{Offset: n, Reason: "container: trailing bytes"}
	}
	return strokes, nil
}

// CompressionRatio compares an encoded size against the raw capture size of
// pointCount samples at 16 bytes each (four float32 fields: x, y,
// pressure, time).
func CompressionRatio(pointCount, encodedLen int) float64 {
	if encodedLen <= 0 {
		return 0
	}
	return float64(pointCount*16) / float64(encodedLen)
}

// appendStrokePayload appends the unframed stroke payload: version, flags,
// ID, color, base width, point count, then the per-channel streams.
func appendStrokePayload(dst []byte, s *ink.Stroke, opts Options) []byte {
	xs := make([]float64, len(s.Points))
	ys := make([]float64, len(s.Points))
	ps := make([]float64, len(s.Points))
	ts := make([]float64, len(s.Points))
	hasPressure, hasTime := false, false
	for i, p := range s.Points {
		xs[i], ys[i], ps[i], ts[i] = p.X, p.Y, p.Pressure, p.Time
		if p.Pressure != 0 {
			hasPressure = true
		}
		if p.Time != 0 {
			hasTime = true
		}
	}

	var flags byte
	if hasPressure {
		flags |= flagPressure
	}
	if hasTime {
		flags |= flagTime
	}
	if s.Erase {
		flags |= flagEraser
	}

	dst = append(dst, formatVersion, flags)
	dst = appendUvarint(dst, uint64(len(s.ID)))
	dst = append(dst, s.ID...)

	r, g, b, _ := s.Color.Bytes()
	dst = append(dst, r, g, b)
	dst = appendUvarint(dst, uint64(math.Round(s.BaseWidth*100)))
	dst = appendUvarint(dst, uint64(len(s.Points)))

	dst = appendStream(dst, xs, opts.PositionPrecision)
	dst = appendStream(dst, ys, opts.PositionPrecision)
	if hasPressure {
		dst = appendStream(dst, ps, opts.PressurePrecision)
	}
	if hasTime {
		dst = appendStream(dst, ts, opts.TimePrecision)
	}
	return dst
}

// unmarshalOne decodes one framed stroke blob from the front of buf and
// returns the bytes consumed including the length prefix.
func unmarshalOne(buf []byte) (*ink.Stroke, int, error) {
	if len(buf) < 4 {
		return nil, 0, &DecodeError{Reason: "stroke: short length prefix"}
	}
	plen := int(binary.LittleEndian.Uint32(buf))
	if len(buf)-4 < plen {
		return nil, 0, &DecodeError{Reason: "stroke: payload length exceeds buffer"}
	}
	p := buf[4 : 4+plen]

	if len(p) < 2 {
		return nil, 0, &DecodeError{Offset: 4, Reason: "stroke: short descriptor"}
	}
	if p[0] != formatVersion {
		return nil, 0, &DecodeError{Offset: 4, Reason: "stroke: unsupported version"}
	}
	flags := p[1]
	n := 2

	idLen, un, err := uvarint(p[n:])
	if err != nil {
		return nil, 0, err
	}
	n += un
	if uint64(len(p)-n) < idLen {
		return nil, 0, &DecodeError{Offset: 4 + n, Reason: "stroke: truncated id"}
	}
	id := string(p[n : n+int(idLen)])
	n += int(idLen)

	if len(p)-n < 3 {
		return nil, 0, &DecodeError{Offset: 4 + n, Reason: "stroke: truncated color"}
	}
	color := ink.RGB(float64(p[n])/255, float64(p[n+1])/255, float64(p[n+2])/255)
	n += 3

	widthCenti, un, err := uvarint(p[n:])
	if err != nil {
		return nil, 0, err
	}
	n += un

	count, un, err := uvarint(p[n:])
	if err != nil {
		return nil, 0, err
	}
	n += un
	if count == 0 {
		return nil, 0, &DecodeError{Offset: 4 + n, Reason: "stroke: zero points"}
	}
	if count > uint64(plen)*8 {
		return nil, 0, &DecodeError{Offset: 4 + n, Reason: "stroke: implausible point count"}
	}

	xs, sn, err := decodeStream(p[n:], int(count))
	if err != nil {
		return nil, 0, bump(err, 4+n)
	}
	n += sn
	ys, sn, err := decodeStream(p[n:], int(count))
	if err != nil {
		return nil, 0, bump(err, 4+n)
	}
	n += sn

	var ps, ts []float64
	if flags&flagPressure != 0 {
		ps, sn, err = decodeStream(p[n:], int(count))
		if err != nil {
			return nil, 0, bump(err, 4+n)
		}
		n += sn
	}
	if flags&flagTime != 0 {
		ts, sn, err = decodeStream(p[n:], int(count))
		if err != nil {
			return nil, 0, bump(err, 4+n)
		}
		n += sn
	}
	if n != plen {
		return nil, 0, &DecodeError{Offset: 4 + n, Reason: "stroke: trailing payload bytes"}
	}

	points := make([]ink.Point, count)
	for i := range points {
		points[i] = ink.Point{X: xs[i], Y: ys[i]}
		if ps != nil {
			points[i].Pressure = ps[i]
		}
		if ts != nil {
			points[i].Time = ts[i]
		}
	}

	s := ink.RebuildStroke(id, color, float64(widthCenti)/100, flags&flagEraser != 0, points, nil)
	return s, 4 + plen, nil
}

// bump shifts a DecodeError's offset into the caller's frame.
func bump(err error, by int) error {
	if de, ok := err.(*DecodeError); ok {
		de.Offset += by
	}
	return err
}
