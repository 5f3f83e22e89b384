package geometry

import (
	"math"
)

// EllipticalArc samples an SVG endpoint-parameterized elliptical arc from
// start to end at n parametric steps, returning n+1 points including both
// endpoints. Degenerate arcs (zero radius, coincident endpoints) collapse
// to the straight chord.
//
// The endpoint-to-center conversion follows the SVG implementation notes
// (W3C SVG 1.1, appendix F.6.5).
func EllipticalArc(start, end Point, rx, ry, xAxisRotation float64, largeArc, sweep bool, n int) Polyline {
	if n < 1 {
		n = 1
	}
	rx, ry = math.Abs(rx), math.Abs(ry)
	if rx == 0 || ry == 0 || (start.X == end.X && start.Y == end.Y) {
		return Polyline{start, end}
	}

	phi := xAxisRotation * math.Pi / 180
	cosPhi, sinPhi := math.Cos(phi), math.Sin(phi)

	// F.6.5.1: transform to the ellipse-aligned frame.
	dx := (start.X - end.X) / 2
	dy := (start.Y - end.Y) / 2
	x1p := cosPhi*dx + sinPhi*dy
	y1p := -sinPhi*dx + cosPhi*dy

	// F.6.6: scale radii up if the endpoints are too far apart.
	lambda := (x1p*x1p)/(rx*rx) + (y1p*y1p)/(ry*ry)
	if lambda > 1 {
		s := math.Sqrt(lambda)
		rx *= s
		ry *= s
	}

	// F.6.5.2: center in the aligned frame.
	num := rx*rx*ry*ry - rx*rx*y1p*y1p - ry*ry*x1p*x1p
	den := rx*rx*y1p*y1p + ry*ry*x1p*x1p
	coeff := 0.0
	if den != 0 && num > 0 {
		coeff = math.Sqrt(num / den)
	}
	if largeArc == sweep {
		coeff = -coeff
	}
	cxp := coeff * rx * y1p / ry
	cyp := -coeff * ry * x1p / rx

	// F.6.5.3: center in the original frame.
	cx := cosPhi*cxp - sinPhi*cyp + (start.X+end.X)/2
	cy := sinPhi*cxp + cosPhi*cyp + (start.Y+end.Y)/2

	// F.6.5.5/6: start angle and sweep extent.
	theta1 := angleBetween(1, 0, (x1p-cxp)/rx, (y1p-cyp)/ry)
	delta := angleBetween((x1p-cxp)/rx, (y1p-cyp)/ry, (-x1p-cxp)/rx, (-y1p-cyp)/ry)
	if !sweep && delta > 0 {
		delta -= 2 * math.Pi
	} else if sweep && delta < 0 {
		delta += 2 * math.Pi
	}

	out := make(Polyline, 0, n+1)
	for i := 0; i <= n; i++ {
		theta := theta1 + delta*float64(i)/float64(n)
		ct, st := math.Cos(theta), math.Sin(theta)
		out = append(out, Point{
			X: cx + rx*ct*cosPhi - ry*st*sinPhi,
			Y: cy + rx*ct*sinPhi + ry*st*cosPhi,
		})
	}
	// The parameterization is exact at the endpoints up to rounding; pin
	// them so closure checks see the original coordinates.
	out[0] = start
	out[len(out)-1] = end
	return out
}

func angleBetween(ux, uy, vx, vy float64) float64 {
	dot := ux*vx + uy*vy
	lenU := math.Hypot(ux, uy)
	lenV := math.Hypot(vx, vy)
	if lenU == 0 || lenV == 0 {
		return 0
	}
	ratio := dot / (lenU * lenV)
	if ratio > 1 {
		ratio = 1
	} else if ratio < -1 {
		ratio = -1
	}
	angle := math.Acos(ratio)
	if ux*vy-uy*vx < 0 {
		angle = -angle
	}
	return angle
}
