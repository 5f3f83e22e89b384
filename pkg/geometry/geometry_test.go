package geometry

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestQuadBezier(t *testing.T) {
	got := QuadBezier(Point{0, 0}, Point{5, 10}, Point{10, 0}, 2)
	want := Polyline{
		{0, 0},
		{5, 5}, // B(0.5) = 0.25·p0 + 0.5·p1 + 0.25·p2
		{10, 0},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("QuadBezier mismatch (-want +got):\n%s", diff)
	}
}

func TestCubicBezier(t *testing.T) {
	// Control points on a straight line keep the curve on that line.
	got := CubicBezier(Point{0, 0}, Point{1, 1}, Point{2, 2}, Point{3, 3}, 10)
	if len(got) != 11 {
		t.Fatalf("expected 11 points, got %d", len(got))
	}
	for _, p := range got {
		if math.Abs(p.Y-p.X) > 1e-9 {
			t.Errorf("point (%v, %v) off the line y=x", p.X, p.Y)
		}
	}
	if got[0] != (Point{0, 0}) || got[10] != (Point{3, 3}) {
		t.Errorf("endpoints not preserved: %v .. %v", got[0], got[10])
	}
}

func TestResample(t *testing.T) {
	tests := []struct {
		name    string
		pl      Polyline
		spacing float64
		n       int
	}{
		{"line at exact divisor", Polyline{{0, 0}, {10, 0}}, 2, 6},
		{"line needing round up", Polyline{{0, 0}, {10, 0}}, 3, 5},
		{"two segments", Polyline{{0, 0}, {4, 0}, {4, 4}}, 2, 5},
		{"spacing wider than line", Polyline{{0, 0}, {1, 0}}, 5, 2},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Resample(test.pl, test.spacing)
			if len(got) != test.n {
				t.Fatalf("expected %d points, got %d: %v", test.n, len(got), got)
			}
			if got[0] != test.pl[0] || got[len(got)-1] != test.pl[len(test.pl)-1] {
				t.Errorf("endpoints not preserved")
			}
			for i := 1; i < len(got); i++ {
				if d := got[i-1].Distance(got[i]); d > test.spacing+1e-9 {
					t.Errorf("gap %v exceeds spacing %v", d, test.spacing)
				}
			}
		})
	}
}

func TestResampleDropsZeroLengthSegments(t *testing.T) {
	got := Resample(Polyline{{0, 0}, {0, 0}, {2, 0}}, 1)
	want := Polyline{{0, 0}, {1, 0}, {2, 0}}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Resample mismatch (-want +got):\n%s", diff)
	}
}

func TestResamplePreservesClosure(t *testing.T) {
	square := Polyline{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}
	got := Resample(square, 1)
	if got[0] != got[len(got)-1] {
		t.Errorf("closed polyline opened: first %v, last %v", got[0], got[len(got)-1])
	}
}

func TestResampleClosureIsBitExact(t *testing.T) {
	// Interpolating at t=1 yields e.g. 0.10000000000000009 instead of 0.1,
	// so closure must come from copying vertices, not recomputing them.
	for _, center := range []Point{{0.1, 0.1}, {0.3, 0.7}, {-1.1, 2.9}} {
		got := Resample(Circle(center, 20, 2), 2)
		if got[0] != got[len(got)-1] {
			t.Errorf("center %v: first %v != last %v", center, got[0], got[len(got)-1])
		}
	}
}

func TestResampleKeepsVerticesBitExact(t *testing.T) {
	pl := Polyline{{0, 0}, {0.3, 0}, {0.7, 0}}
	got := Resample(pl, 0.1)
	seen := map[Point]bool{}
	for _, p := range got {
		seen[p] = true
	}
	for _, v := range pl {
		if !seen[v] {
			t.Errorf("vertex %v not present bit-exact in %v", v, got)
		}
	}
}

func TestCircle(t *testing.T) {
	center := Point{50, 50}
	got := Circle(center, 20, 2)

	if got[0] != got[len(got)-1] {
		t.Error("circle not closed")
	}
	// 2π·20 / 2 ≈ 62 segments.
	if len(got) < 60 {
		t.Errorf("only %d points for a 125mm circumference at 2mm spacing", len(got))
	}
	for _, p := range got {
		if d := p.Distance(center); math.Abs(d-20) > 1e-9 {
			t.Errorf("point %v at distance %v, expected 20", p, d)
		}
	}
}

func TestCircleSegmentFloor(t *testing.T) {
	got := Circle(Point{0, 0}, 0.5, 10)
	if len(got) != 9 {
		t.Errorf("tiny circle should fall back to 8 segments, got %d points", len(got))
	}
}

func TestEllipticalArcSemicircle(t *testing.T) {
	// Half circle of radius 5 from (0,0) to (10,0).
	got := EllipticalArc(Point{0, 0}, Point{10, 0}, 5, 5, 0, false, true, 20)

	if got[0] != (Point{0, 0}) || got[len(got)-1] != (Point{10, 0}) {
		t.Fatalf("endpoints not pinned: %v .. %v", got[0], got[len(got)-1])
	}
	center := Point{5, 0}
	for _, p := range got {
		if d := p.Distance(center); math.Abs(d-5) > 1e-9 {
			t.Errorf("point %v at distance %v from center, expected 5", p, d)
		}
	}
}

func TestEllipticalArcSweepDirection(t *testing.T) {
	positive := EllipticalArc(Point{0, 0}, Point{10, 0}, 5, 5, 0, false, false, 8)
	negative := EllipticalArc(Point{0, 0}, Point{10, 0}, 5, 5, 0, false, true, 8)

	if positive[4].Y <= 0 {
		t.Errorf("sweep=0 midpoint %v should have positive Y", positive[4])
	}
	if negative[4].Y >= 0 {
		t.Errorf("sweep=1 midpoint %v should have negative Y", negative[4])
	}
}

func TestEllipticalArcDegenerate(t *testing.T) {
	got := EllipticalArc(Point{1, 1}, Point{9, 1}, 0, 5, 0, false, true, 8)
	want := Polyline{{1, 1}, {9, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("zero radius should collapse to the chord (-want +got):\n%s", diff)
	}
}

func TestEllipticalArcRadiusScaling(t *testing.T) {
	// Radii too small for the endpoint distance must scale up rather
	// than fail; endpoints stay exact.
	got := EllipticalArc(Point{0, 0}, Point{10, 0}, 1, 1, 0, false, true, 16)
	if got[0] != (Point{0, 0}) || got[len(got)-1] != (Point{10, 0}) {
		t.Errorf("endpoints lost under radius scaling: %v .. %v", got[0], got[len(got)-1])
	}
}

func TestPolylineLength(t *testing.T) {
	pl := Polyline{{0, 0}, {3, 0}, {3, 4}}
	if got := pl.Length(); math.Abs(got-7) > 1e-9 {
		t.Errorf("Length = %v, expected 7", got)
	}
}

func TestReflect(t *testing.T) {
	got := Point{2, 3}.Reflect(Point{5, 5})
	want := Point{8, 7}
	if got != want {
		t.Errorf("Reflect = %v, expected %v", got, want)
	}
}
