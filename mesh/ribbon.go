package mesh

import (
	"github.com/chewxy/math32"
)

// VertexSize is the number of float32 components per vertex: x, y, r, g, b, a.
const VertexSize = 6

// miterLimit is the maximum miter length as a multiple of the local radius
// before a joint falls back to a round join.
const miterLimit = 4.0

// Ribbon is the pure-Go ribbon triangulator. It is stateless and safe for
// concurrent use; one value can serve every worker.
type Ribbon struct{}

// Build triangulates a polyline with per-point widths into a ribbon.
//
// points is interleaved x,y pairs; widths holds one diameter per point
// (missing entries default to 1). The returned buffer is deterministic for
// identical input.
func (Ribbon) Build(points, widths []float32, color [4]float32) []float32 {
	n := len(points) / 2
	if n == 0 {
		return nil
	}
	r, g, b, a := color[0], color[1], color[2], color[3]

	if n == 1 {
		return discMesh(nil, points[0], points[1], widthAt(widths, 0)*0.5, r, g, b, a)
	}

	// Unit directions and left-hand normals per segment.
	dirs := make([][2]float32, n-1)
	norms := make([][2]float32, n-1)
	for i := 0; i < n-1; i++ {
		dx := points[(i+1)*2] - points[i*2]
		dy := points[(i+1)*2+1] - points[i*2+1]
		length := math32.Sqrt(dx*dx + dy*dy)
		if length < 1e-6 {
			length = 1e-6
		}
		dirs[i] = [2]float32{dx / length, dy / length}
		norms[i] = [2]float32{-dirs[i][1], dirs[i][0]}
	}

	// Per-joint offset points. leftPrev/rightPrev belong to the incoming
	// segment, leftNext/rightNext to the outgoing one; for a clean miter the
	// two pairs collapse into a single point.
	leftPrev := make([][2]float32, n)
	rightPrev := make([][2]float32, n)
	leftNext := make([][2]float32, n)
	rightNext := make([][2]float32, n)
	miterOK := make([]bool, n)

	for i := 0; i < n; i++ {
		px := points[i*2]
		py := points[i*2+1]
		radius := widthAt(widths, i) * 0.5
		miterOK[i] = true

		if i == 0 || i == n-1 {
			var nm [2]float32
			if i == 0 {
				nm = norms[0]
			} else {
				nm = norms[n-2]
			}
			leftPrev[i] = [2]float32{px + nm[0]*radius, py + nm[1]*radius}
			rightPrev[i] = [2]float32{px - nm[0]*radius, py - nm[1]*radius}
			leftNext[i] = leftPrev[i]
			rightNext[i] = rightPrev[i]
			continue
		}

		n0 := norms[i-1]
		n1 := norms[i]
		mx := n0[0] + n1[0]
		my := n0[1] + n1[1]
		mlen := math32.Sqrt(mx*mx + my*my)
		if mlen < 1e-4 {
			// Near-180° reversal: the miter direction is undefined.
			leftPrev[i] = [2]float32{px + n0[0]*radius, py + n0[1]*radius}
			rightPrev[i] = [2]float32{px - n0[0]*radius, py - n0[1]*radius}
			leftNext[i] = [2]float32{px + n1[0]*radius, py + n1[1]*radius}
			rightNext[i] = [2]float32{px - n1[0]*radius, py - n1[1]*radius}
			miterOK[i] = false
			continue
		}

		mdx := mx / mlen
		mdy := my / mlen
		dot := mdx*n1[0] + mdy*n1[1]
		miterLen := radius
		if math32.Abs(dot) > 1e-6 {
			miterLen = radius / dot
		}

		if math32.Abs(miterLen) <= miterLimit*radius {
			leftPrev[i] = [2]float32{px + mdx*miterLen, py + mdy*miterLen}
			rightPrev[i] = [2]float32{px - mdx*miterLen, py - mdy*miterLen}
			leftNext[i] = leftPrev[i]
			rightNext[i] = rightPrev[i]
		} else {
			leftPrev[i] = [2]float32{px + n0[0]*radius, py + n0[1]*radius}
			rightPrev[i] = [2]float32{px - n0[0]*radius, py - n0[1]*radius}
			leftNext[i] = [2]float32{px + n1[0]*radius, py + n1[1]*radius}
			rightNext[i] = [2]float32{px - n1[0]*radius, py - n1[1]*radius}
			miterOK[i] = false
		}
	}

	// Two triangles per segment quad, plus joins and caps.
	verts := make([]float32, 0, (n-1)*2*3*VertexSize+32*VertexSize)
	for i := 0; i < n-1; i++ {
		l0 := leftNext[i]
		r0 := rightNext[i]
		l1 := leftPrev[i+1]
		r1 := rightPrev[i+1]
		verts = pushTri(verts, l0, r0, r1, r, g, b, a)
		verts = pushTri(verts, l0, r1, l1, r, g, b, a)
	}

	// Round-join fans at joints where the miter degenerated or overflowed.
	// The fan sweeps the shorter arc on the outer side of the turn, chosen
	// by the sign of the segment cross product.
	for i := 1; i < n-1; i++ {
		if miterOK[i] {
			continue
		}
		px := points[i*2]
		py := points[i*2+1]
		radius := widthAt(widths, i) * 0.5
		d0 := dirs[i-1]
		d1 := dirs[i]
		n0 := [2]float32{-d0[1], d0[0]}
		n1 := [2]float32{-d1[1], d1[0]}
		cross := d0[0]*d1[1] - d0[1]*d1[0]
		outer0, outer1 := n0, n1
		if cross < 0 {
			outer0 = [2]float32{-n0[0], -n0[1]}
			outer1 = [2]float32{-n1[0], -n1[1]}
		}
		a0 := math32.Atan2(outer0[1], outer0[0])
		a1 := math32.Atan2(outer1[1], outer1[0])
		for a1 < a0 {
			a1 += 2 * math32.Pi
		}
		verts = fan(verts, px, py, radius, a0, a1-a0, math32.Pi/8, 4, r, g, b, a)
	}

	// Round caps at both endpoints, half-disc fans across the end normal.
	verts = capMesh(verts, points[0], points[1], norms[0], widthAt(widths, 0)*0.5, r, g, b, a)
	verts = capMesh(verts, points[(n-1)*2], points[(n-1)*2+1], norms[n-2], widthAt(widths, n-1)*0.5, r, g, b, a)

	return verts
}

// widthAt returns the diameter at index i, defaulting to 1.
func widthAt(widths []float32, i int) float32 {
	if i < 0 || i >= len(widths) {
		return 1
	}
	return widths[i]
}

// discMesh appends a 24-segment filled circle (single-point strokes).
func discMesh(verts []float32, cx, cy, radius, r, g, b, a float32) []float32 {
	if verts == nil {
		verts = make([]float32, 0, 24*3*VertexSize)
	}
	const steps = 24
	for i := 0; i < steps; i++ {
		a0 := float32(i) / steps * 2 * math32.Pi
		a1 := float32(i+1) / steps * 2 * math32.Pi
		p0 := [2]float32{cx + math32.Cos(a0)*radius, cy + math32.Sin(a0)*radius}
		p1 := [2]float32{cx + math32.Cos(a1)*radius, cy + math32.Sin(a1)*radius}
		verts = pushTri(verts, [2]float32{cx, cy}, p0, p1, r, g, b, a)
	}
	return verts
}

// capMesh appends a half-disc fan spanning from -normal to +normal.
func capMesh(verts []float32, cx, cy float32, normal [2]float32, radius, r, g, b, a float32) []float32 {
	a0 := math32.Atan2(-normal[1], -normal[0])
	a1 := math32.Atan2(normal[1], normal[0])
	for a1 < a0 {
		a1 += 2 * math32.Pi
	}
	return fan(verts, cx, cy, radius, a0, a1-a0, math32.Pi/10, 6, r, g, b, a)
}

// fan appends a triangle fan around (cx, cy) sweeping angle radians from a0,
// subdividing by step with a minimum number of triangles.
func fan(verts []float32, cx, cy, radius, a0, angle, step float32, minSteps int, r, g, b, a float32) []float32 {
	steps := int(math32.Ceil(angle / step))
	if steps < minSteps {
		steps = minSteps
	}
	for s := 0; s < steps; s++ {
		t0 := a0 + angle*float32(s)/float32(steps)
		t1 := a0 + angle*float32(s+1)/float32(steps)
		p0 := [2]float32{cx + math32.Cos(t0)*radius, cy + math32.Sin(t0)*radius}
		p1 := [2]float32{cx + math32.Cos(t1)*radius, cy + math32.Sin(t1)*radius}
		verts = pushTri(verts, [2]float32{cx, cy}, p0, p1, r, g, b, a)
	}
	return verts
}

func pushTri(verts []float32, p0, p1, p2 [2]float32, r, g, b, a float32) []float32 {
	verts = append(verts,
		p0[0], p0[1], r, g, b, a,
		p1[0], p1[1], r, g, b, a,
		p2[0], p2[1], r, g, b, a,
	)
	return verts
}
