// Package svg parses SVG drawings into weld paths. Supported elements are
// path, line, circle, and rect, plus group and use indirection; weld kind is
// derived from element color, and per-element data attributes carry process
// parameter overrides. All geometry is flattened to polylines and resampled
// at the requested dot spacing.
package svg

import (
	"encoding/xml"
	"fmt"
	"math"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"microweldr/pkg/geometry"
	"microweldr/pkg/model"
	"microweldr/pkg/svgpath"
)

// ArcApproximation selects how elliptical arc path commands are flattened.
type ArcApproximation int

const (
	// ArcLinear replaces each arc with a straight chord to its endpoint.
	// Not geometrically exact, but adequate for drawings that use arcs
	// only for tiny corner rounds.
	ArcLinear ArcApproximation = iota
	// ArcSampled evaluates the arc by center parameterization and samples
	// it like a curve.
	ArcSampled
)

// Options controls parsing.
type Options struct {
	// DotSpacing is the resample spacing in mm. Values <= 0 disable
	// resampling and keep raw tessellation vertices.
	DotSpacing float64
	// CurveResolution is the number of parametric steps per Bézier or
	// sampled arc. Zero means geometry.DefaultCurveResolution.
	CurveResolution  int
	ArcApproximation ArcApproximation
}

var errUnsupportedElement = errors.New("unsupported element")

// ParseError reports where in the document parsing failed.
type ParseError struct {
	Element string // element id, or tag name when no id is present
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("svg element %q: %v", e.Element, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// node mirrors the subset of SVG structure the parser consumes.
type node struct {
	XMLName  xml.Name
	Children []*node `xml:",any"`

	ID        string `xml:"id,attr"`
	D         string `xml:"d,attr"`
	Transform string `xml:"transform,attr"`
	Stroke    string `xml:"stroke,attr"`
	Fill      string `xml:"fill,attr"`
	Style     string `xml:"style,attr"`

	X1 string `xml:"x1,attr"`
	Y1 string `xml:"y1,attr"`
	X2 string `xml:"x2,attr"`
	Y2 string `xml:"y2,attr"`

	CX string `xml:"cx,attr"`
	CY string `xml:"cy,attr"`
	R  string `xml:"r,attr"`

	X      string `xml:"x,attr"`
	Y      string `xml:"y,attr"`
	Width  string `xml:"width,attr"`
	Height string `xml:"height,attr"`

	Href      string `xml:"href,attr"`
	XlinkHref string `xml:"http://www.w3.org/1999/xlink href,attr"`

	DataPauseMessage string `xml:"data-pause-message,attr"`
	DataMessage      string `xml:"data-message,attr"`
	Title            string `xml:"title,attr"`
	AriaLabel        string `xml:"aria-label,attr"`
	Desc             string `xml:"desc,attr"`

	DataTemp       string `xml:"data-temp,attr"`
	DataWeldTime   string `xml:"data-weld-time,attr"`
	DataBedTemp    string `xml:"data-bed-temp,attr"`
	DataWeldHeight string `xml:"data-weld-height,attr"`
}

func (n *node) tag() string {
	return n.XMLName.Local
}

func (n *node) href() string {
	if n.Href != "" {
		return n.Href
	}
	return n.XlinkHref
}

// element is a drawable found during traversal, with its accumulated
// transform.
type element struct {
	node      *node
	transform svgpath.Matrix
}

// ParseFile reads and parses an SVG document from disk.
func ParseFile(path string, opts Options) ([]model.WeldPath, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Element: path, Err: err}
	}
	paths, err := Parse(data, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return paths, nil
}

// Parse converts SVG document bytes into weld paths.
func Parse(data []byte, opts Options) ([]model.WeldPath, error) {
	if opts.CurveResolution <= 0 {
		opts.CurveResolution = geometry.DefaultCurveResolution
	}

	var root node
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "invalid SVG document")
	}
	if root.tag() != "svg" {
		return nil, errors.Newf("root element is not svg, got %q", root.tag())
	}

	p := &parser{opts: opts, defs: map[string]*node{}}
	p.collectDefs(&root)

	if err := p.collect(&root, svgpath.Identity()); err != nil {
		return nil, err
	}

	// Weld order follows the numeric suffix of element ids; elements
	// without one keep document order at the end.
	sort.SliceStable(p.elements, func(i, j int) bool {
		return idSortKey(p.elements[i].node.ID) < idSortKey(p.elements[j].node.ID)
	})

	return p.buildPaths()
}

type parser struct {
	opts     Options
	defs     map[string]*node
	elements []element
}

// collectDefs indexes every identified node inside defs sections for use
// resolution.
func (p *parser) collectDefs(n *node) {
	inDefs := n.tag() == "defs"
	for _, child := range n.Children {
		if inDefs {
			p.indexDef(child)
		} else {
			p.collectDefs(child)
		}
	}
}

func (p *parser) indexDef(n *node) {
	if n.ID != "" {
		p.defs[n.ID] = n
	}
	for _, child := range n.Children {
		p.indexDef(child)
	}
}

var drawableTags = map[string]bool{
	"path":   true,
	"line":   true,
	"circle": true,
	"rect":   true,
}

// collect walks the tree gathering drawables with their accumulated
// transforms, descending through groups and resolving use references.
// Content inside defs is only reachable through use.
func (p *parser) collect(n *node, transform svgpath.Matrix) error {
	for _, child := range n.Children {
		switch tag := child.tag(); {
		case tag == "defs":
			continue
		case drawableTags[tag]:
			m, err := p.composeTransform(transform, child)
			if err != nil {
				return err
			}
			p.elements = append(p.elements, element{node: child, transform: m})
		case tag == "g":
			m, err := p.composeTransform(transform, child)
			if err != nil {
				return err
			}
			if err := p.collect(child, m); err != nil {
				return err
			}
		case tag == "use":
			if err := p.expandUse(child, transform); err != nil {
				return err
			}
		}
	}
	return nil
}

func (p *parser) composeTransform(parent svgpath.Matrix, n *node) (svgpath.Matrix, error) {
	if n.Transform == "" {
		return parent, nil
	}
	m, err := svgpath.ParseTransform(n.Transform)
	if err != nil {
		return parent, &ParseError{Element: elementName(n), Err: err}
	}
	return parent.Multiply(m), nil
}

// expandUse resolves a use element against the defs index. The use's x/y
// offset applies before its transform attribute and the referenced content.
func (p *parser) expandUse(use *node, transform svgpath.Matrix) error {
	ref := use.href()
	if !strings.HasPrefix(ref, "#") {
		return nil
	}
	target, ok := p.defs[ref[1:]]
	if !ok {
		return nil
	}

	m, err := p.composeTransform(transform, use)
	if err != nil {
		return err
	}
	x := parseFloat(use.X, 0)
	y := parseFloat(use.Y, 0)
	if x != 0 || y != 0 {
		m = m.Multiply(svgpath.Matrix{A: 1, D: 1, E: x, F: y})
	}

	if drawableTags[target.tag()] {
		tm, err := p.composeTransform(m, target)
		if err != nil {
			return err
		}
		p.elements = append(p.elements, element{node: target, transform: tm})
		return nil
	}
	// Referenced groups expand recursively with the composed transform.
	tm, err := p.composeTransform(m, target)
	if err != nil {
		return err
	}
	return p.collect(target, tm)
}

var idNumberPattern = regexp.MustCompile(`(\d+)`)

// idSortKey extracts the numeric part of an element id for ordering.
// Ids without digits sort last.
func idSortKey(id string) float64 {
	match := idNumberPattern.FindString(id)
	if match == "" {
		return math.Inf(1)
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return math.Inf(1)
	}
	return float64(n)
}

func (p *parser) buildPaths() ([]model.WeldPath, error) {
	paths := make([]model.WeldPath, 0, len(p.elements))
	usedIDs := map[string]bool{}

	for _, el := range p.elements {
		n := el.node

		kind := kindForColor(n.Stroke, n.Fill, n.Style)
		polylines, shape, err := p.tessellate(el)
		if err != nil {
			return nil, err
		}

		for _, polyline := range polylines {
			if p.opts.DotSpacing > 0 {
				polyline = geometry.Resample(polyline, p.opts.DotSpacing)
			}
			if len(polyline) == 0 {
				continue
			}

			baseID := n.ID
			if baseID == "" {
				baseID = fmt.Sprintf("%s_%d", n.tag(), len(paths)+1)
			}
			id := baseID
			for counter := 1; usedIDs[id]; counter++ {
				id = fmt.Sprintf("%s_%d", baseID, counter)
			}
			usedIDs[id] = true

			points := make([]model.WeldPoint, len(polyline))
			for i, pt := range polyline {
				points[i] = model.WeldPoint{X: pt.X, Y: pt.Y, Kind: kind}
			}

			path, err := model.NewWeldPath(id, kind, points)
			if err != nil {
				return nil, &ParseError{Element: elementName(n), Err: err}
			}
			path.Shape = shape
			path.Overrides = overridesFromNode(n)
			if kind == model.Stop || kind == model.Pipette {
				path.PauseMessage = pauseMessage(n, kind)
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

// pauseMessage extracts an operator message, falling back to the kind's
// default.
func pauseMessage(n *node, kind model.WeldKind) string {
	for _, candidate := range []string{
		n.DataPauseMessage, n.DataMessage, n.Title, n.AriaLabel, n.Desc,
	} {
		if candidate != "" {
			return candidate
		}
	}
	return model.DefaultPauseMessage(kind)
}

func overridesFromNode(n *node) model.Overrides {
	var o model.Overrides
	o.Temperature = parseFloatAttr(n.DataTemp)
	o.DwellTime = parseFloatAttr(n.DataWeldTime)
	o.BedTemperature = parseFloatAttr(n.DataBedTemp)
	o.PlungeHeight = parseFloatAttr(n.DataWeldHeight)
	return o
}

func parseFloatAttr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseFloat(s string, fallback float64) float64 {
	if s == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return v
}

func elementName(n *node) string {
	if n.ID != "" {
		return n.ID
	}
	return n.tag()
}
