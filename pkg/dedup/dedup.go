// Package dedup filters out duplicate weld points. Drawings routinely trace
// the same seam twice (shared edges of adjacent shapes, closed paths whose
// endpoints coincide), and welding the same spot twice overheats the film.
// Points are considered duplicates when they round to the same 0.1mm cell
// and share a weld kind.
package dedup

import (
	"math"

	"github.com/asim/quadtree"

	"microweldr/pkg/model"
)

// Precision is the duplicate detection grid size in mm.
const Precision = 0.1

var zeroPoint = quadtree.NewPoint(0, 0, nil)

// Filter tracks weld locations already seen.
type Filter struct {
	tree *quadtree.QuadTree
}

// NewFilter creates a filter covering the given bounding box. A small margin
// is added to avoid dropping points at the edges.
func NewFilter(minX, minY, maxX, maxY float64) *Filter {
	midX := (maxX + minX) / 2
	midY := (maxY + minY) / 2
	halfWidth := maxX - midX + 10
	halfHeight := maxY - midY + 10

	aabb := quadtree.NewAABB(
		quadtree.NewPoint(midX, midY, nil),
		quadtree.NewPoint(halfWidth, halfHeight, nil))
	return &Filter{tree: quadtree.New(aabb, 0, nil)}
}

func roundTo(v float64) float64 {
	return math.Round(v/Precision) * Precision
}

// Seen reports whether a point at the same rounded location and kind was
// already recorded, and records it otherwise.
func (f *Filter) Seen(p model.WeldPoint) bool {
	x := roundTo(p.X)
	y := roundTo(p.Y)

	probe := quadtree.NewPoint(x, y, nil)
	points := f.tree.KNearest(quadtree.NewAABB(probe, zeroPoint), 1, nil)
	if len(points) > 0 {
		px, py := points[0].Coordinates()
		if px == x && py == y {
			kinds := points[0].Data().(map[model.WeldKind]struct{})
			if _, ok := kinds[p.Kind]; ok {
				return true
			}
			kinds[p.Kind] = struct{}{}
			return false
		}
	}

	kinds := map[model.WeldKind]struct{}{p.Kind: {}}
	f.tree.Insert(quadtree.NewPoint(x, y, kinds))
	return false
}

// NewFilterForPaths creates a filter sized to cover all paths of a document.
// The filter is shared across a whole emission run, so a seam traced by two
// different paths is still welded only once.
func NewFilterForPaths(paths []model.WeldPath) *Filter {
	minX, minY, maxX, maxY, ok := model.BoundsOf(paths)
	if !ok {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}
	return NewFilter(minX, minY, maxX, maxY)
}

// FilterPoints returns the points not yet seen by the filter, in order,
// recording them as it goes. Applied to a flattened weld sequence it drops
// revisited spots, most commonly the closing point of a closed path.
func (f *Filter) FilterPoints(points []model.WeldPoint) []model.WeldPoint {
	out := make([]model.WeldPoint, 0, len(points))
	for _, p := range points {
		if !f.Seen(p) {
			out = append(out, p)
		}
	}
	return out
}
