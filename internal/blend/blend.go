// Package blend implements the Porter-Duff compositing subset the tile baker
// needs: source-over for ink and destination-out for erasure.
//
// All operations work on premultiplied RGBA bytes, following the convention
// of image.RGBA.
package blend

// mul8 multiplies two 0-255 channels with rounding: (a*b)/255.
func mul8(a, b uint8) uint8 {
	t := uint32(a)*uint32(b) + 128
	return uint8((t + t>>8) >> 8)
}

// SourceOver composites a premultiplied source pixel over a premultiplied
// destination pixel in place: D' = S + D*(1-Sa).
func SourceOver(dst []uint8, sr, sg, sb, sa uint8) {
	inv := 255 - sa
	dst[0] = sr + mul8(dst[0], inv)
	dst[1] = sg + mul8(dst[1], inv)
	dst[2] = sb + mul8(dst[2], inv)
	dst[3] = sa + mul8(dst[3], inv)
}

// DestinationOut removes source coverage from the destination in place:
// D' = D*(1-Sa). With full coverage the pixel becomes fully transparent,
// which is what makes erasure irreversible on a baked tile.
func DestinationOut(dst []uint8, sa uint8) {
	inv := 255 - sa
	dst[0] = mul8(dst[0], inv)
	dst[1] = mul8(dst[1], inv)
	dst[2] = mul8(dst[2], inv)
	dst[3] = mul8(dst[3], inv)
}
