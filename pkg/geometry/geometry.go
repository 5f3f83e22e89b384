// Package geometry provides the 2D primitives and sampling routines used
// to turn vector curves into evenly spaced weld points.
package geometry

import (
	"math"
)

type Point struct {
	X float64
	Y float64
}

type Polyline []Point

func (p Point) Minus(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) Plus(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Distance returns the Euclidean distance between p and o.
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Reflect returns the reflection of p about center. Used for the smooth
// curve commands (S/T), whose first control point is the previous control
// point mirrored through the current point.
func (p Point) Reflect(center Point) Point {
	return Point{X: 2*center.X - p.X, Y: 2*center.Y - p.Y}
}

// Length returns the total length of the polyline.
func (pl Polyline) Length() float64 {
	total := 0.0
	for i := 1; i < len(pl); i++ {
		total += pl[i-1].Distance(pl[i])
	}
	return total
}

// DefaultCurveResolution is the number of parametric samples per Bézier
// segment.
const DefaultCurveResolution = 20

// QuadBezier samples the quadratic Bézier curve p0-p1-p2 at n fixed
// parametric steps, returning n+1 points including both endpoints.
//
//	B(t) = (1-t)²·p0 + 2(1-t)t·p1 + t²·p2
func QuadBezier(p0, p1, p2 Point, n int) Polyline {
	if n < 1 {
		n = 1
	}
	out := make(Polyline, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		out = append(out, Point{
			X: mt*mt*p0.X + 2*mt*t*p1.X + t*t*p2.X,
			Y: mt*mt*p0.Y + 2*mt*t*p1.Y + t*t*p2.Y,
		})
	}
	return out
}

// CubicBezier samples the cubic Bézier curve p0-p1-p2-p3 at n fixed
// parametric steps, returning n+1 points including both endpoints.
//
//	B(t) = (1-t)³·p0 + 3(1-t)²t·p1 + 3(1-t)t²·p2 + t³·p3
func CubicBezier(p0, p1, p2, p3 Point, n int) Polyline {
	if n < 1 {
		n = 1
	}
	out := make(Polyline, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		mt := 1 - t
		out = append(out, Point{
			X: mt*mt*mt*p0.X + 3*mt*mt*t*p1.X + 3*mt*t*t*p2.X + t*t*t*p3.X,
			Y: mt*mt*mt*p0.Y + 3*mt*mt*t*p1.Y + 3*mt*t*t*p2.Y + t*t*t*p3.Y,
		})
	}
	return out
}

// Resample re-samples the polyline so that consecutive points are at most
// spacing apart. Each segment of length d is split into ceil(d/spacing)
// equal steps; segment joints are emitted once. Zero-length segments are
// dropped. Both endpoints are preserved, so a closed polyline stays closed
// and an open one stays open.
func Resample(pl Polyline, spacing float64) Polyline {
	if len(pl) < 2 || spacing <= 0 {
		return append(Polyline(nil), pl...)
	}

	out := Polyline{pl[0]}
	for i := 1; i < len(pl); i++ {
		start, end := pl[i-1], pl[i]
		d := start.Distance(end)
		if d == 0 {
			continue
		}
		steps := int(math.Ceil(d / spacing))
		if steps < 1 {
			steps = 1
		}
		for j := 1; j < steps; j++ {
			t := float64(j) / float64(steps)
			out = append(out, Point{
				X: start.X + t*(end.X-start.X),
				Y: start.Y + t*(end.Y-start.Y),
			})
		}
		// Vertices must survive bit-exact, so the segment end is
		// appended verbatim rather than interpolated at t=1.
		out = append(out, end)
	}
	return out
}

// Circle samples a full circle as a closed polyline. The segment count
// scales with circumference so tessellation density is radius-independent,
// with a floor of 8 segments. The first and last points are identical.
func Circle(center Point, radius float64, spacing float64) Polyline {
	segments := 8
	if spacing > 0 {
		if n := int(2 * math.Pi * radius / spacing); n > segments {
			segments = n
		}
	}
	out := make(Polyline, 0, segments+1)
	for i := 0; i < segments; i++ {
		angle := 2 * math.Pi * float64(i) / float64(segments)
		out = append(out, Point{
			X: center.X + radius*math.Cos(angle),
			Y: center.Y + radius*math.Sin(angle),
		})
	}
	out = append(out, out[0])
	return out
}
