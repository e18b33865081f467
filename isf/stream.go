package isf

import "math"

// maxPrecision bounds the per-stream quantization exponent.
const maxPrecision = 9

// quantize scales floats by 10^precision and rounds to integers.
// This is the (only) lossy step of the pipeline.
func quantize(vals []float64, precision int) []int64 {
	scale := math.Pow10(precision)
	out := make([]int64, len(vals))
	for i, v := range vals {
		out[i] = int64(math.Round(v * scale))
	}
	return out
}

// dequantize inverts quantize up to the precision's resolution.
func dequantize(vals []int64, precision int) []float64 {
	scale := math.Pow10(precision)
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v) / scale
	}
	return out
}

// appendStream appends one encoded time-series stream:
// a precision byte, the payload length as a uvarint, and the delta-delta
// transformed samples as signed varints. Streams are self-contained so a
// descriptor flag can omit one entirely (e.g. no pressure recorded).
func appendStream(dst []byte, vals []float64, precision int) []byte {
	if precision < 0 {
		precision = 0
	} else if precision > maxPrecision {
		precision = maxPrecision
	}
	deltas := deltaDeltaEncode(quantize(vals, precision))
	payload := make([]byte, 0, len(deltas)+8)
	for _, d := range deltas {
		payload = appendVarint(payload, d)
	}
	dst = append(dst, byte(precision))
	dst = appendUvarint(dst, uint64(len(payload)))
	return append(dst, payload...)
}

// decodeStream decodes a stream of exactly count samples from the front of
// buf, returning the samples and the bytes consumed.
func decodeStream(buf []byte, count int) ([]float64, int, error) {
	if len(buf) < 1 {
		return nil, 0, &DecodeError{Reason: "stream: missing precision"}
	}
	precision := int(buf[0])
	if precision > maxPrecision {
		return nil, 0, &DecodeError{Reason: "stream: bad precision"}
	}
	n := 1

	plen, pn, err := uvarint(buf[n:])
	if err != nil {
		return nil, 0, err
	}
	n += pn
	if uint64(len(buf)-n) < plen {
		return nil, 0, &DecodeError{Offset: n, Reason: "stream: payload length exceeds buffer"}
	}
	payload := buf[n : n+int(plen)]

	deltas := make([]int64, count)
	off := 0
	for i := 0; i < count; i++ {
		v, vn, err := varint(payload[off:])
		if err != nil {
			return nil, 0, &DecodeError{Offset: n + off, Reason: "stream: truncated sample"}
		}
		deltas[i] = v
		off += vn
	}
	if off != len(payload) {
		return nil, 0, &DecodeError{Offset: n + off, Reason: "stream: payload length mismatch"}
	}
	n += len(payload)

	return dequantize(deltaDeltaDecode(deltas), precision), n, nil
}
