// Package dxf reads weld paths from DXF drawings. LINE, CIRCLE and
// POLYLINE entities become weld paths; the weld kind comes from the
// entity's layer name. Layers whose names mark them as construction
// geometry are skipped.
package dxf

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/rpaloschi/dxf-go/document"
	"github.com/rpaloschi/dxf-go/entities"

	"microweldr/pkg/geometry"
	"microweldr/pkg/logger"
	"microweldr/pkg/model"
)

// Options control entity tessellation.
type Options struct {
	// DotSpacing is the target distance between weld points in mm.
	// Zero disables resampling.
	DotSpacing float64
}

// constructionMarkers identify layers that hold guide geometry rather
// than features to weld.
var constructionMarkers = []string{"construction", "const", "guide", "reference", "ref"}

// layerKinds maps layer-name substrings to weld kinds, checked in
// order so stop wins over pipette wins over frangible.
var layerKinds = []struct {
	kind     model.WeldKind
	keywords []string
}{
	{model.Stop, []string{"stop", "pause"}},
	{model.Pipette, []string{"pipette", "fill"}},
	{model.Frangible, []string{"frangible", "light", "break", "seal", "weak"}},
}

func isConstructionLayer(layer string) bool {
	lower := strings.ToLower(layer)
	for _, marker := range constructionMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func kindForLayer(layer string) model.WeldKind {
	lower := strings.ToLower(layer)
	for _, entry := range layerKinds {
		for _, keyword := range entry.keywords {
			if strings.Contains(lower, keyword) {
				return entry.kind
			}
		}
	}
	return model.Normal
}

// Parse reads a DXF document and converts its supported entities to
// weld paths in document order.
func Parse(r io.Reader, opts Options) ([]model.WeldPath, error) {
	doc, err := document.DxfDocumentFromStream(r)
	if err != nil {
		return nil, errors.Wrap(err, "invalid DXF document")
	}

	var paths []model.WeldPath
	for i, entity := range doc.Entities.Entities {
		var (
			polyline geometry.Polyline
			shape    model.SourceShape
			layer    string
		)

		switch e := entity.(type) {
		case *entities.Line:
			layer = e.LayerName
			polyline = geometry.Polyline{
				{X: e.Start.X, Y: e.Start.Y},
				{X: e.End.X, Y: e.End.Y},
			}
			shape.Element = "line"

		case *entities.Circle:
			layer = e.LayerName
			spacing := opts.DotSpacing
			if spacing <= 0 {
				spacing = 2.0
			}
			center := geometry.Point{X: e.Center.X, Y: e.Center.Y}
			polyline = geometry.Circle(center, e.Radius, spacing)
			shape.Element = "circle"
			shape.Radius = e.Radius

		case *entities.Polyline:
			layer = e.LayerName
			for _, v := range e.Vertices {
				polyline = append(polyline, geometry.Point{X: v.Location.X, Y: v.Location.Y})
			}
			shape.Element = "polyline"

		default:
			logger.Log.Debugf("skipping unsupported DXF entity %T", entity)
			continue
		}

		if isConstructionLayer(layer) {
			logger.Log.Debugf("skipping construction entity on layer %q", layer)
			continue
		}
		if len(polyline) < 2 {
			continue
		}
		if opts.DotSpacing > 0 {
			polyline = geometry.Resample(polyline, opts.DotSpacing)
		}

		kind := kindForLayer(layer)
		points := make([]model.WeldPoint, len(polyline))
		for j, pt := range polyline {
			points[j] = model.WeldPoint{X: pt.X, Y: pt.Y, Kind: kind}
		}

		id := fmt.Sprintf("dxf_%s_%d", shape.Element, i+1)
		path, err := model.NewWeldPath(id, kind, points)
		if err != nil {
			return nil, errors.Wrapf(err, "DXF entity %d", i+1)
		}
		path.Shape = shape
		if kind == model.Stop || kind == model.Pipette {
			path.PauseMessage = model.DefaultPauseMessage(kind)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
