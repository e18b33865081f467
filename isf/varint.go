package isf

// Signed varint layout: the first byte carries the continuation flag in bit
// 7, the sign in bit 6, and the low 6 bits of the magnitude; continuation
// bytes carry 7 magnitude bits each. Either sign costs no extra byte, unlike
// a fixed sign byte or two's-complement continuation.

// appendVarint appends the signed varint encoding of v.
func appendVarint(dst []byte, v int64) []byte {
	var sign byte
	mag := uint64(v)
	if v < 0 {
		sign = 0x40
		mag = uint64(-v)
	}
	first := byte(mag&0x3f) | sign
	mag >>= 6
	if mag != 0 {
		first |= 0x80
	}
	dst = append(dst, first)
	for mag != 0 {
		b := byte(mag & 0x7f)
		mag >>= 7
		if mag != 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}

// varint decodes a signed varint from the front of buf, returning the value
// and the number of bytes consumed.
func varint(buf []byte) (int64, int, error) {
	if len(buf) == 0 {
		return 0, 0, &DecodeError{Reason: "varint: empty input"}
	}
	b := buf[0]
	neg := b&0x40 != 0
	mag := uint64(b & 0x3f)
	shift := uint(6)
	n := 1
	for b&0x80 != 0 {
		if n >= len(buf) {
			return 0, 0, &DecodeError{Offset: n, Reason: "varint: truncated"}
		}
		if shift > 62 {
			return 0, 0, &DecodeError{Offset: n, Reason: "varint: overflow"}
		}
		b = buf[n]
		mag |= uint64(b&0x7f) << shift
		shift += 7
		n++
	}
	v := int64(mag)
	if neg {
		v = -v
	}
	return v, n, nil
}

// appendUvarint appends the unsigned varint encoding of v (7 bits per byte,
// continuation in bit 7). Used for lengths, counts, and the width field.
func appendUvarint(dst []byte, v uint64) []byte {
	for v >= 0x80 {
		dst = append(dst, byte(v)|0x80)
		v >>= 7
	}
	return append(dst, byte(v))
}

// uvarint decodes an unsigned varint from the front of buf.
func uvarint(buf []byte) (uint64, int, error) {
	var v uint64
	var shift uint
	for n := 0; n < len(buf); n++ {
		b := buf[n]
		if shift > 62 {
			return 0, 0, &DecodeError{Offset: n, Reason: "uvarint: overflow"}
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v, n + 1, nil
		}
		shift += 7
	}
	return 0, 0, &DecodeError{Reason: "uvarint: truncated"}
}
