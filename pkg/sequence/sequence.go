// Package sequence reorders weld points within a pass to spread heat across
// the part. Each policy produces a permutation of the point indices; welding
// far-apart points back to back gives earlier welds time to cool.
package sequence

import (
	"math"
	"strings"
)

// Policy selects an ordering strategy for the points of a pass.
type Policy int

const (
	// Linear visits points in their geometric order.
	Linear Policy = iota
	// FarthestPoint greedily jumps to the unvisited point farthest from
	// the last weld.
	FarthestPoint
	// BinarySubdivision welds the endpoints first, then recursively the
	// midpoints of the remaining gaps.
	BinarySubdivision
	// Skip interleaves fixed-stride sweeps: every strideth point from
	// offset 0, then from offset 1, and so on.
	Skip
)

var policyNames = map[Policy]string{
	Linear:            "linear",
	FarthestPoint:     "farthest_point",
	BinarySubdivision: "binary_subdivision",
	Skip:              "skip",
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return "skip"
}

// ParsePolicy maps a configuration string to a Policy. Unrecognized names
// fall back to Skip.
func ParsePolicy(s string) Policy {
	name := strings.ToLower(strings.TrimSpace(s))
	for p, n := range policyNames {
		if n == name {
			return p
		}
	}
	return Skip
}

// Order returns a permutation of [0, n) giving the weld order for n points
// under the policy. positions supplies point coordinates (only used by
// FarthestPoint); stride is the sweep stride for Skip and must be at least 1.
func Order(n int, positions func(i int) (x, y float64), policy Policy, stride int) []int {
	if n <= 0 {
		return nil
	}
	switch policy {
	case Linear:
		return linearOrder(n)
	case FarthestPoint:
		return farthestPointOrder(n, positions)
	case BinarySubdivision:
		return binarySubdivisionOrder(n)
	default:
		return skipOrder(n, stride)
	}
}

func linearOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// farthestPointOrder starts at index 0 and repeatedly picks the unvisited
// point at maximum Euclidean distance from the previous pick. Ties go to the
// lowest index.
func farthestPointOrder(n int, positions func(i int) (x, y float64)) []int {
	if positions == nil {
		return linearOrder(n)
	}

	order := make([]int, 0, n)
	visited := make([]bool, n)

	current := 0
	order = append(order, current)
	visited[current] = true

	for len(order) < n {
		cx, cy := positions(current)
		best := -1
		bestDist := -1.0
		for i := 0; i < n; i++ {
			if visited[i] {
				continue
			}
			x, y := positions(i)
			d := math.Hypot(x-cx, y-cy)
			if d > bestDist {
				best = i
				bestDist = d
			}
		}
		order = append(order, best)
		visited[best] = true
		current = best
	}
	return order
}

// binarySubdivisionOrder welds both endpoints, then processes a FIFO queue
// of index ranges, welding each range's midpoint and enqueueing the two
// halves while a gap remains.
func binarySubdivisionOrder(n int) []int {
	if n == 1 {
		return []int{0}
	}

	order := []int{0, n - 1}
	type span struct{ start, end int }
	queue := []span{{0, n - 1}}

	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		if s.end-s.start <= 1 {
			continue
		}
		mid := (s.start + s.end) / 2
		order = append(order, mid)
		queue = append(queue, span{s.start, mid}, span{mid, s.end})
	}
	return order
}

func skipOrder(n, stride int) []int {
	if stride < 1 {
		stride = 1
	}
	order := make([]int, 0, n)
	for offset := 0; offset < stride; offset++ {
		for i := offset; i < n; i += stride {
			order = append(order, i)
		}
	}
	return order
}
