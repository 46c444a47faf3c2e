package d2

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestPolygonArea(t *testing.T) {
	square := Polygon{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2}}
	if got := square.Area(); got != 4 {
		t.Errorf("square.Area() = %v, want 4", got)
	}
	tri := Polygon{{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 0, Y: 2}}
	if got := tri.Area(); got != 2 {
		t.Errorf("tri.Area() = %v, want 2", got)
	}
	clockwise := Polygon{{X: 0, Y: 0}, {X: 0, Y: 2}, {X: 2, Y: 0}}
	if got := clockwise.Area(); got != -2 {
		t.Errorf("clockwise.Area() = %v, want -2", got)
	}
}

func TestIntersectConvex(t *testing.T) {
	big := Polygon{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}
	small := Polygon{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 1, Y: 2}}

	tests := []struct {
		name     string
		subject  Polygon
		clip     Polygon
		wantArea float64
	}{
		{"containment", small, big, small.Area()},
		{"containment reversed", big, small, small.Area()},
		{"identity", small, small, small.Area()},
		{"disjoint", small, Polygon{{X: 10, Y: 10}, {X: 11, Y: 10}, {X: 10, Y: 11}}, 0},
		{"half overlap", big, Polygon{{X: 2, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 4}, {X: 2, Y: 4}}, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.subject.IntersectConvex(tt.clip).Area()
			if math.Abs(got-tt.wantArea) > 1e-9 {
				t.Errorf("intersection area = %v, want %v", got, tt.wantArea)
			}
		})
	}
}

func TestCollinear(t *testing.T) {
	diag := Segment{From: r2.Vec{X: 0, Y: 0}, To: r2.Vec{X: 1000, Y: 1000}}
	tests := []struct {
		name string
		b    Segment
		want bool
	}{
		{"same line shorter", Segment{From: r2.Vec{X: 250, Y: 250}, To: r2.Vec{X: 500, Y: 500}}, true},
		{"same line reversed", Segment{From: r2.Vec{X: 1000, Y: 1000}, To: r2.Vec{X: 0, Y: 0}}, true},
		{"parallel offset", Segment{From: r2.Vec{X: 0, Y: 100}, To: r2.Vec{X: 1000, Y: 1100}}, false},
		{"crossing", Segment{From: r2.Vec{X: 0, Y: 1000}, To: r2.Vec{X: 1000, Y: 0}}, false},
	}
	for _, tt := range tests {
		if got := Collinear(diag, tt.b, 10); got != tt.want {
			t.Errorf("%s: Collinear = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCollinearPanicsOnDegenerate(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero length segment")
		}
	}()
	p := r2.Vec{X: 1, Y: 1}
	Collinear(Segment{From: p, To: p}, Segment{From: p, To: r2.Vec{X: 2, Y: 2}}, 10)
}

func TestRange(t *testing.T) {
	r := EmptyRange().Include(3).Include(-1)
	if r.Min != -1 || r.Max != 3 {
		t.Fatalf("range = %+v, want [-1, 3]", r)
	}
	if got := r.Intersection(Range{Min: 1, Max: 5}).Size(); got != 2 {
		t.Errorf("intersection size = %v, want 2", got)
	}
	if got := r.Intersection(Range{Min: 4, Max: 5}).Size(); got >= 0 {
		t.Errorf("disjoint intersection size = %v, want negative", got)
	}
	if !r.Overlaps(Range{Min: 3, Max: 9}) {
		t.Error("touching ranges must overlap")
	}
	if r.Expanded(1).Max != 4 {
		t.Error("expanded range max")
	}
}
