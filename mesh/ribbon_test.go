package mesh

import (
	"math"
	"testing"
)

const triSize = 3 * VertexSize

func triangleCount(t *testing.T, verts []float32) int {
	t.Helper()
	if len(verts)%triSize != 0 {
		t.Fatalf("vertex buffer length %d is not a whole number of triangles", len(verts))
	}
	return len(verts) / triSize
}

func TestBuildEmpty(t *testing.T) {
	if got := (Ribbon{}).Build(nil, nil, [4]float32{0, 0, 0, 1}); got != nil {
		t.Errorf("Build(no points) = %d floats, want nil", len(got))
	}
}

func TestBuildSinglePointDisc(t *testing.T) {
	verts := (Ribbon{}).Build([]float32{10, 20}, []float32{6}, [4]float32{1, 0, 0, 1})

	if triangleCount(t, verts) != 24 {
		t.Fatalf("disc has %d triangles, want 24", triangleCount(t, verts))
	}
	// Every non-center vertex sits on the radius-3 circle around (10, 20).
	for i := 0; i < len(verts); i += triSize {
		for _, off := range []int{VertexSize, 2 * VertexSize} {
			dx := float64(verts[i+off] - 10)
			dy := float64(verts[i+off+1] - 20)
			if r := math.Sqrt(dx*dx + dy*dy); math.Abs(r-3) > 1e-3 {
				t.Fatalf("rim vertex at radius %v, want 3", r)
			}
		}
	}
}

func TestBuildSegmentQuadAndCaps(t *testing.T) {
	verts := (Ribbon{}).Build(
		[]float32{0, 0, 100, 0},
		[]float32{10, 10},
		[4]float32{0, 0, 1, 1},
	)

	// One quad (2 triangles) plus two 10-triangle half-disc caps.
	if got := triangleCount(t, verts); got != 22 {
		t.Fatalf("segment mesh has %d triangles, want 22", got)
	}

	// The ribbon must cover the full +-5 extent around the horizontal line.
	minY, maxY := float32(0), float32(0)
	for i := 1; i < len(verts); i += VertexSize {
		if verts[i] < minY {
			minY = verts[i]
		}
		if verts[i] > maxY {
			maxY = verts[i]
		}
	}
	if minY > -4.99 || maxY < 4.99 {
		t.Errorf("ribbon spans y [%v, %v], want about [-5, 5]", minY, maxY)
	}
}

func TestBuildCarriesColor(t *testing.T) {
	color := [4]float32{0.2, 0.4, 0.6, 0.8}
	verts := (Ribbon{}).Build([]float32{0, 0, 50, 0}, []float32{4, 4}, color)

	for i := 0; i < len(verts); i += VertexSize {
		got := [4]float32{verts[i+2], verts[i+3], verts[i+4], verts[i+5]}
		if got != color {
			t.Fatalf("vertex %d color %v, want %v", i/VertexSize, got, color)
		}
	}
}

func TestBuildMiterJoin(t *testing.T) {
	// A gentle 90° turn stays within the miter limit: no join fan, so
	// exactly 2 quads + 2 caps.
	verts := (Ribbon{}).Build(
		[]float32{0, 0, 50, 0, 50, 50},
		[]float32{8, 8, 8},
		[4]float32{0, 0, 0, 1},
	)
	if got := triangleCount(t, verts); got != 24 {
		t.Errorf("miter mesh has %d triangles, want 24", got)
	}
}

func TestBuildRoundJoinOnSharpTurn(t *testing.T) {
	// A 170° reversal overflows the miter limit and gets a round-join fan.
	sharp := (Ribbon{}).Build(
		[]float32{0, 0, 50, 0, 0, 5},
		[]float32{8, 8, 8},
		[4]float32{0, 0, 0, 1},
	)
	gentle := (Ribbon{}).Build(
		[]float32{0, 0, 50, 0, 100, 5},
		[]float32{8, 8, 8},
		[4]float32{0, 0, 0, 1},
	)
	if triangleCount(t, sharp) <= triangleCount(t, gentle) {
		t.Errorf("sharp turn (%d triangles) should out-triangle gentle turn (%d)",
			triangleCount(t, sharp), triangleCount(t, gentle))
	}
}

func TestBuildDeterministic(t *testing.T) {
	points := []float32{0, 0, 30, 10, 60, -10, 90, 0}
	widths := []float32{5, 7, 7, 5}
	color := [4]float32{1, 1, 1, 1}

	a := (Ribbon{}).Build(points, widths, color)
	b := (Ribbon{}).Build(points, widths, color)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("buffers differ at %d", i)
		}
	}
}

func TestBuildCoincidentPoints(t *testing.T) {
	// Repeated positions must not produce NaN vertices.
	verts := (Ribbon{}).Build(
		[]float32{10, 10, 10, 10, 20, 10},
		[]float32{4, 4, 4},
		[4]float32{0, 0, 0, 1},
	)
	for i, v := range verts {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("component %d is not finite", i)
		}
	}
}

func TestWidthAtDefault(t *testing.T) {
	if got := widthAt(nil, 0); got != 1 {
		t.Errorf("widthAt(nil, 0) = %v, want 1", got)
	}
	if got := widthAt([]float32{3}, 5); got != 1 {
		t.Errorf("widthAt out of range = %v, want 1", got)
	}
	if got := widthAt([]float32{3}, 0); got != 3 {
		t.Errorf("widthAt = %v, want 3", got)
	}
}
