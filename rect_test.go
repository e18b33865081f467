package ink

import "testing"

func TestEmptyRect(t *testing.T) {
	r := EmptyRect()
	if !r.IsEmpty() {
		t.Error("EmptyRect().IsEmpty() = false")
	}
	if r.Width() != 0 || r.Height() != 0 {
		t.Errorf("empty rect has size %vx%v", r.Width(), r.Height())
	}

	// Union with an empty rect is the identity.
	a := Rect{MinX: 1, MinY: 2, MaxX: 3, MaxY: 4}
	if got := r.Union(a); got != a {
		t.Errorf("EmptyRect().Union(a) = %+v, want %+v", got, a)
	}
}

func TestUnionPoint(t *testing.T) {
	r := EmptyRect().UnionPoint(5, 5).UnionPoint(-1, 10)
	want := Rect{MinX: -1, MinY: 5, MaxX: 5, MaxY: 10}
	if r != want {
		t.Errorf("UnionPoint chain = %+v, want %+v", r, want)
	}
}

func TestExpand(t *testing.T) {
	r := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}.Expand(2)
	want := Rect{MinX: -2, MinY: -2, MaxX: 12, MaxY: 12}
	if r != want {
		t.Errorf("Expand(2) = %+v, want %+v", r, want)
	}
}

func TestIntersects(t *testing.T) {
	a := Rect{MinX: 0, MinY: 0, MaxX: 10, MaxY: 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlap", Rect{MinX: 5, MinY: 5, MaxX: 15, MaxY: 15}, true},
		{"contained", Rect{MinX: 2, MinY: 2, MaxX: 3, MaxY: 3}, true},
		{"touching edge", Rect{MinX: 10, MinY: 0, MaxX: 20, MaxY: 10}, true},
		{"disjoint", Rect{MinX: 11, MinY: 11, MaxX: 20, MaxY: 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects(%+v) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}

func TestPointDist(t *testing.T) {
	p := Point{X: 0, Y: 0}
	q := Point{X: 3, Y: 4}
	if got := p.Dist(q); got != 5 {
		t.Errorf("Dist = %v, want 5", got)
	}
}

func TestSmoothstep(t *testing.T) {
	if got := smoothstep(0, 10, -1); got != 0 {
		t.Errorf("smoothstep below edge = %v, want 0", got)
	}
	if got := smoothstep(0, 10, 11); got != 1 {
		t.Errorf("smoothstep above edge = %v, want 1", got)
	}
	if got := smoothstep(0, 10, 5); got != 0.5 {
		t.Errorf("smoothstep midpoint = %v, want 0.5", got)
	}
	// Monotone on the ramp.
	prev := -1.0
	for x := 0.0; x <= 10; x += 0.5 {
		v := smoothstep(0, 10, x)
		if v < prev {
			t.Fatalf("smoothstep not monotone at %v", x)
		}
		prev = v
	}
}
