// Package multipass expands a weld path into spot-weld passes. Early passes
// place widely spaced welds to tack the part down with minimal heat input,
// and each later pass halves the spacing, filling in between the welds laid
// so far. The flattened union of all passes in order is the canonical weld
// sequence for a path: the G-code emitter and the animation renderer both
// consume it, so they always agree on weld order.
package multipass

import (
	"math"

	"microweldr/pkg/geometry"
	"microweldr/pkg/model"
)

// Resample densifies a path's points at the given final spacing. Original
// vertices are preserved exactly, and any per-point overrides they carry are
// transferred to the matching resampled points.
func Resample(path model.WeldPath, spacing float64) []model.WeldPoint {
	if len(path.Points) == 0 {
		return nil
	}

	overrides := make(map[[2]float64]model.Overrides)
	for _, p := range path.Points {
		if !p.Overrides.IsZero() {
			overrides[[2]float64{p.X, p.Y}] = p.Overrides
		}
	}

	polyline := make(geometry.Polyline, len(path.Points))
	for i, p := range path.Points {
		polyline[i] = geometry.Point{X: p.X, Y: p.Y}
	}

	dense := geometry.Resample(polyline, spacing)
	out := make([]model.WeldPoint, len(dense))
	for i, p := range dense {
		out[i] = model.WeldPoint{X: p.X, Y: p.Y, Kind: path.Kind}
		if ov, ok := overrides[[2]float64{p.X, p.Y}]; ok {
			out[i].Overrides = ov
		}
	}
	return out
}

// Generate splits dense points into passCount passes. Pass 0 takes every
// 2^(passCount-1)-th point starting at index 0; each later pass halves the
// stride and starts at its stride offset, skipping points already placed.
// The final pass has stride 1, so the union of all passes covers every
// point exactly once. A passCount of one (or fewer) yields the dense points
// as the sole pass.
func Generate(points []model.WeldPoint, passCount int) [][]model.WeldPoint {
	if len(points) == 0 {
		return nil
	}
	if passCount <= 1 {
		return [][]model.WeldPoint{points}
	}

	n := len(points)
	emitted := make([]bool, n)
	passes := make([][]model.WeldPoint, 0, passCount)

	stride := 1 << (passCount - 1)
	var first []model.WeldPoint
	for i := 0; i < n; i += stride {
		first = append(first, points[i])
		emitted[i] = true
	}
	passes = append(passes, first)

	for p := 1; p < passCount; p++ {
		stride = 1 << (passCount - 1 - p)
		var pass []model.WeldPoint
		for i := stride; i < n; i += stride {
			if emitted[i] {
				continue
			}
			pass = append(pass, points[i])
			emitted[i] = true
		}
		passes = append(passes, pass)
	}
	return passes
}

// Flatten concatenates passes in order into the canonical weld sequence.
func Flatten(passes [][]model.WeldPoint) []model.WeldPoint {
	total := 0
	for _, pass := range passes {
		total += len(pass)
	}
	out := make([]model.WeldPoint, 0, total)
	for _, pass := range passes {
		out = append(out, pass...)
	}
	return out
}

// PlanPath resamples a path at the final spacing and splits the result into
// passes.
func PlanPath(path model.WeldPath, spacing float64, passCount int) [][]model.WeldPoint {
	return Generate(Resample(path, spacing), passCount)
}

// PassCount derives how many passes are needed so that the first pass
// spacing is at least initialSpacing, given the final spacing. Both
// spacings must be positive; otherwise a single pass is planned.
func PassCount(finalSpacing, initialSpacing float64) int {
	if finalSpacing <= 0 || initialSpacing <= finalSpacing {
		return 1
	}
	return int(math.Ceil(math.Log2(initialSpacing/finalSpacing))) + 1
}
