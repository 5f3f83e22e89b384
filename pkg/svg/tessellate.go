package svg

import (
	"math"

	"microweldr/pkg/geometry"
	"microweldr/pkg/model"
	"microweldr/pkg/svgpath"
)

// tessellate flattens a drawable element into polylines in document
// coordinates, applying the element's accumulated transform.
func (p *parser) tessellate(el element) ([]geometry.Polyline, model.SourceShape, error) {
	n := el.node
	shape := model.SourceShape{Element: n.tag()}

	switch n.tag() {
	case "path":
		polylines, err := p.tessellatePath(el)
		return polylines, shape, err

	case "line":
		x1, y1 := el.transform.TransformPoint(parseFloat(n.X1, 0), parseFloat(n.Y1, 0))
		x2, y2 := el.transform.TransformPoint(parseFloat(n.X2, 0), parseFloat(n.Y2, 0))
		return []geometry.Polyline{{
			{X: x1, Y: y1},
			{X: x2, Y: y2},
		}}, shape, nil

	case "circle":
		cx, cy := el.transform.TransformPoint(parseFloat(n.CX, 0), parseFloat(n.CY, 0))
		r := parseFloat(n.R, 1) * el.transform.ScaleMagnitude()
		shape.Radius = r
		spacing := p.opts.DotSpacing
		if spacing <= 0 {
			spacing = 2.0
		}
		circle := geometry.Circle(geometry.Point{X: cx, Y: cy}, r, spacing)
		return []geometry.Polyline{circle}, shape, nil

	case "rect":
		x := parseFloat(n.X, 0)
		y := parseFloat(n.Y, 0)
		w := parseFloat(n.Width, 0)
		h := parseFloat(n.Height, 0)
		corners := [][2]float64{
			{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y},
		}
		polyline := make(geometry.Polyline, len(corners))
		for i, c := range corners {
			px, py := el.transform.TransformPoint(c[0], c[1])
			polyline[i] = geometry.Point{X: px, Y: py}
		}
		return []geometry.Polyline{polyline}, shape, nil
	}

	return nil, shape, &ParseError{Element: elementName(n),
		Err: errUnsupportedElement}
}

// tessellatePath parses path data and flattens each subpath.
func (p *parser) tessellatePath(el element) ([]geometry.Polyline, error) {
	subPaths, err := svgpath.Parse(el.node.D)
	if err != nil {
		return nil, &ParseError{Element: elementName(el.node), Err: err}
	}
	el.transform.TransformPath(subPaths)

	polylines := make([]geometry.Polyline, 0, len(subPaths))
	for _, sp := range subPaths {
		polyline := p.flattenSubPath(sp)
		if len(polyline) >= 2 {
			polylines = append(polylines, polyline)
		}
	}
	return polylines, nil
}

// flattenSubPath converts one subpath's commands into a polyline, sampling
// curves at the configured resolution.
func (p *parser) flattenSubPath(sp *svgpath.SubPath) geometry.Polyline {
	res := p.opts.CurveResolution
	polyline := geometry.Polyline{{X: sp.X, Y: sp.Y}}
	current := geometry.Point{X: sp.X, Y: sp.Y}
	start := current

	appendTail := func(points []geometry.Point) {
		if len(points) > 1 {
			polyline = append(polyline, points[1:]...)
		}
	}

	for _, d := range sp.DrawTo {
		end := geometry.Point{X: d.X, Y: d.Y}
		switch d.Command {
		case svgpath.LineTo:
			polyline = append(polyline, end)

		case svgpath.CurveTo:
			appendTail(geometry.CubicBezier(current,
				geometry.Point{X: d.X1, Y: d.Y1},
				geometry.Point{X: d.X2, Y: d.Y2},
				end, res))

		case svgpath.QuadTo:
			appendTail(geometry.QuadBezier(current,
				geometry.Point{X: d.X1, Y: d.Y1},
				end, res))

		case svgpath.ArcTo:
			if p.opts.ArcApproximation == ArcSampled {
				appendTail(geometry.EllipticalArc(current, end,
					d.RX, d.RY, d.XAxisRotation, d.LargeArc, d.Sweep, res))
			} else {
				polyline = append(polyline, end)
			}

		case svgpath.ClosePath:
			// Return to the start only when not already there.
			if !samePoint(current, start) {
				polyline = append(polyline, start)
			}
			current = start
			continue
		}
		current = end
	}
	return polyline
}

const closeTolerance = 1e-9

func samePoint(a, b geometry.Point) bool {
	return math.Abs(a.X-b.X) < closeTolerance && math.Abs(a.Y-b.Y) < closeTolerance
}
