package dedup

import (
	"testing"

	"microweldr/pkg/model"
)

func TestSeenExactDuplicate(t *testing.T) {
	f := NewFilter(0, 0, 100, 100)
	p := model.WeldPoint{X: 10, Y: 10, Kind: model.Normal}

	if f.Seen(p) {
		t.Error("first sighting reported as duplicate")
	}
	if !f.Seen(p) {
		t.Error("second sighting not reported as duplicate")
	}
}

func TestSeenRoundsToGrid(t *testing.T) {
	f := NewFilter(0, 0, 100, 100)
	f.Seen(model.WeldPoint{X: 10.00, Y: 10.00, Kind: model.Normal})

	// Within half a grid cell: same rounded location.
	if !f.Seen(model.WeldPoint{X: 10.04, Y: 9.96, Kind: model.Normal}) {
		t.Error("point within rounding precision not treated as duplicate")
	}
	// A full cell away: distinct.
	if f.Seen(model.WeldPoint{X: 10.1, Y: 10.0, Kind: model.Normal}) {
		t.Error("point a full cell away treated as duplicate")
	}
}

func TestSeenIsKindAware(t *testing.T) {
	f := NewFilter(0, 0, 100, 100)
	f.Seen(model.WeldPoint{X: 5, Y: 5, Kind: model.Normal})

	if f.Seen(model.WeldPoint{X: 5, Y: 5, Kind: model.Frangible}) {
		t.Error("same location with a different kind treated as duplicate")
	}
	if !f.Seen(model.WeldPoint{X: 5, Y: 5, Kind: model.Frangible}) {
		t.Error("repeated frangible point not treated as duplicate")
	}
}

func TestFilterPointsDropsClosurePoint(t *testing.T) {
	// A closed path's flattened sequence revisits its start.
	points := []model.WeldPoint{
		{X: 0, Y: 0, Kind: model.Normal},
		{X: 1, Y: 0, Kind: model.Normal},
		{X: 1, Y: 1, Kind: model.Normal},
		{X: 0, Y: 0, Kind: model.Normal},
	}
	f := NewFilter(0, 0, 10, 10)
	kept := f.FilterPoints(points)
	if len(kept) != 3 {
		t.Fatalf("expected 3 points after dedup, got %d", len(kept))
	}
	last := kept[len(kept)-1]
	if last.X != 1 || last.Y != 1 {
		t.Errorf("wrong point dropped: last kept point is (%v, %v)", last.X, last.Y)
	}
}

func TestFilterSharedAcrossPaths(t *testing.T) {
	paths := []model.WeldPath{
		{ID: "a", Kind: model.Normal, Points: []model.WeldPoint{
			{X: 0, Y: 0, Kind: model.Normal}, {X: 5, Y: 0, Kind: model.Normal}}},
		{ID: "b", Kind: model.Normal, Points: []model.WeldPoint{
			{X: 5, Y: 0, Kind: model.Normal}, {X: 10, Y: 0, Kind: model.Normal}}},
	}
	f := NewFilterForPaths(paths)

	keptA := f.FilterPoints(paths[0].Points)
	keptB := f.FilterPoints(paths[1].Points)
	if len(keptA) != 2 {
		t.Errorf("path a: expected 2 points, got %d", len(keptA))
	}
	if len(keptB) != 1 {
		t.Errorf("path b: expected the shared point to be dropped, got %d points", len(keptB))
	}
}
