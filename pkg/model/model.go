// Package model holds the weld data types shared by every pipeline stage.
// A WeldPath is produced once by a parser and never mutated afterwards;
// downstream stages (sequencing, multipass expansion) derive new point
// slices from it.
package model

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// WeldKind classifies what the toolhead does at a point.
type WeldKind int

const (
	// Normal is a standard heat/dwell weld.
	Normal WeldKind = iota
	// Frangible is a reduced heat/time weld for break-away features.
	Frangible
	// Stop pauses the machine with a message; no welding occurs.
	Stop
	// Pipette pauses for fluid filling; no welding occurs.
	Pipette
)

var kindNames = map[WeldKind]string{
	Normal:    "normal",
	Frangible: "frangible",
	Stop:      "stop",
	Pipette:   "pipette",
}

func (k WeldKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("WeldKind(%d)", int(k))
}

// IsWeld reports whether the kind performs an actual weld operation,
// as opposed to a pause.
func (k WeldKind) IsWeld() bool {
	return k == Normal || k == Frangible
}

// DefaultPauseMessage returns the operator message shown for a pause
// kind when the source drawing does not carry one. Weld kinds have no
// message.
func DefaultPauseMessage(k WeldKind) string {
	switch k {
	case Stop:
		return "Pause for user interaction"
	case Pipette:
		return "Pipette filling required"
	}
	return ""
}

// ParseKind converts a kind name to a WeldKind.
func ParseKind(s string) (WeldKind, error) {
	for k, name := range kindNames {
		if name == strings.ToLower(strings.TrimSpace(s)) {
			return k, nil
		}
	}
	return Normal, errors.Newf("invalid weld kind %q", s)
}

// Overrides carries optional per-point or per-path parameter overrides.
// A nil field means "use the next level up": point overrides win over
// path overrides, which win over the per-kind configuration defaults.
// Override values are still subject to the safety validator's bounds.
type Overrides struct {
	Temperature    *float64 // °C
	DwellTime      *float64 // seconds
	BedTemperature *float64 // °C
	PlungeHeight   *float64 // mm
}

// IsZero reports whether no override is set.
func (o Overrides) IsZero() bool {
	return o.Temperature == nil && o.DwellTime == nil &&
		o.BedTemperature == nil && o.PlungeHeight == nil
}

// Merged returns o with nil fields filled in from fallback.
func (o Overrides) Merged(fallback Overrides) Overrides {
	out := o
	if out.Temperature == nil {
		out.Temperature = fallback.Temperature
	}
	if out.DwellTime == nil {
		out.DwellTime = fallback.DwellTime
	}
	if out.BedTemperature == nil {
		out.BedTemperature = fallback.BedTemperature
	}
	if out.PlungeHeight == nil {
		out.PlungeHeight = fallback.PlungeHeight
	}
	return out
}

// WeldPoint is a single location where a dwell/heat operation occurs.
// Coordinates are in millimeters.
type WeldPoint struct {
	X, Y      float64
	Kind      WeldKind
	Overrides Overrides
}

// SourceShape records the primitive a path came from. It is only used to
// size stop/pipette markers in preview output.
type SourceShape struct {
	Element string  // "circle", "rect", "line", "path"
	Radius  float64 // circles only
}

// WeldPath is an ordered list of weld points derived from one source
// primitive. The point list is never empty.
type WeldPath struct {
	Points       []WeldPoint
	Kind         WeldKind
	ID           string
	PauseMessage string // meaningful for Stop/Pipette kinds
	Shape        SourceShape
	Overrides    Overrides
}

// NewWeldPath builds a WeldPath, enforcing the non-empty invariant.
func NewWeldPath(id string, kind WeldKind, points []WeldPoint) (WeldPath, error) {
	if len(points) == 0 {
		return WeldPath{}, errors.Newf("weld path %q must contain at least one point", id)
	}
	if id == "" {
		return WeldPath{}, errors.New("weld path must have an id")
	}
	return WeldPath{Points: points, Kind: kind, ID: id}, nil
}

// Bounds returns the path's bounding box as (minX, minY, maxX, maxY).
func (p WeldPath) Bounds() (minX, minY, maxX, maxY float64) {
	minX, minY = p.Points[0].X, p.Points[0].Y
	maxX, maxY = minX, minY
	for _, pt := range p.Points[1:] {
		if pt.X < minX {
			minX = pt.X
		}
		if pt.X > maxX {
			maxX = pt.X
		}
		if pt.Y < minY {
			minY = pt.Y
		}
		if pt.Y > maxY {
			maxY = pt.Y
		}
	}
	return minX, minY, maxX, maxY
}

// BoundsOf returns the bounding box of all paths. ok is false when there
// are no paths.
func BoundsOf(paths []WeldPath) (minX, minY, maxX, maxY float64, ok bool) {
	for i, p := range paths {
		pMinX, pMinY, pMaxX, pMaxY := p.Bounds()
		if i == 0 {
			minX, minY, maxX, maxY = pMinX, pMinY, pMaxX, pMaxY
			ok = true
			continue
		}
		if pMinX < minX {
			minX = pMinX
		}
		if pMinY < minY {
			minY = pMinY
		}
		if pMaxX > maxX {
			maxX = pMaxX
		}
		if pMaxY > maxY {
			maxY = pMaxY
		}
	}
	return minX, minY, maxX, maxY, ok
}

// Translate returns a copy of the path with every point offset by (dx, dy).
// The receiver is left untouched.
func (p WeldPath) Translate(dx, dy float64) WeldPath {
	out := p
	out.Points = make([]WeldPoint, len(p.Points))
	for i, pt := range p.Points {
		pt.X += dx
		pt.Y += dy
		out.Points[i] = pt
	}
	return out
}
