package svg

import (
	"math"
	"testing"

	"microweldr/pkg/model"
)

func parseDoc(t *testing.T, doc string, opts Options) []model.WeldPath {
	t.Helper()
	paths, err := Parse([]byte(doc), opts)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return paths
}

func TestParseLine(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
		<line id="weld1" x1="10" y1="10" x2="50" y2="10" stroke="black"/>
	</svg>`
	paths := parseDoc(t, doc, Options{DotSpacing: 2.0})

	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	path := paths[0]
	if path.Kind != model.Normal {
		t.Errorf("kind = %v, expected Normal", path.Kind)
	}
	if path.ID != "weld1" {
		t.Errorf("id = %q, expected weld1", path.ID)
	}
	if len(path.Points) != 21 {
		t.Errorf("expected 21 points for a 40mm line at 2mm spacing, got %d", len(path.Points))
	}
	first := path.Points[0]
	last := path.Points[len(path.Points)-1]
	if first.X != 10 || first.Y != 10 || last.X != 50 || last.Y != 10 {
		t.Errorf("endpoints (%v,%v)..(%v,%v), expected (10,10)..(50,10)",
			first.X, first.Y, last.X, last.Y)
	}
}

func TestParseCircle(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
		<circle id="c1" cx="50" cy="50" r="20" stroke="black"/>
	</svg>`
	paths := parseDoc(t, doc, Options{DotSpacing: 2.0})

	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	path := paths[0]

	const tolerance = 0.05
	for _, p := range path.Points {
		d := math.Hypot(p.X-50, p.Y-50)
		if math.Abs(d-20) > tolerance {
			t.Errorf("point (%v, %v) at distance %v from center, expected 20", p.X, p.Y, d)
		}
	}

	first := path.Points[0]
	last := path.Points[len(path.Points)-1]
	if first.X != last.X || first.Y != last.Y {
		t.Errorf("circle not closed: first (%v,%v), last (%v,%v)",
			first.X, first.Y, last.X, last.Y)
	}

	if path.Shape.Element != "circle" || path.Shape.Radius != 20 {
		t.Errorf("shape = %+v, expected circle with radius 20", path.Shape)
	}
}

func TestKindFromColor(t *testing.T) {
	tests := []struct {
		name     string
		attrs    string
		expected model.WeldKind
	}{
		{"black stroke", `stroke="black"`, model.Normal},
		{"unknown color", `stroke="green"`, model.Normal},
		{"no color", ``, model.Normal},
		{"blue stroke", `stroke="blue"`, model.Frangible},
		{"blue hex fill", `fill="#0000ff"`, model.Frangible},
		{"red stroke", `stroke="red"`, model.Stop},
		{"red in style", `style="stroke:#ff0000;fill:none"`, model.Stop},
		{"magenta stroke", `stroke="magenta"`, model.Pipette},
		{"pink fill", `fill="pink"`, model.Pipette},
		{"stop beats pipette", `stroke="red" fill="pink"`, model.Stop},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := `<svg xmlns="http://www.w3.org/2000/svg">
				<line x1="0" y1="0" x2="10" y2="0" ` + test.attrs + `/>
			</svg>`
			paths := parseDoc(t, doc, Options{DotSpacing: 2.0})
			if len(paths) != 1 {
				t.Fatalf("expected 1 path, got %d", len(paths))
			}
			if paths[0].Kind != test.expected {
				t.Errorf("kind = %v, expected %v", paths[0].Kind, test.expected)
			}
		})
	}
}

func TestPauseMessagePriority(t *testing.T) {
	tests := []struct {
		name     string
		attrs    string
		expected string
	}{
		{"data-pause-message wins", `data-pause-message="insert chip" title="nope"`, "insert chip"},
		{"data-message", `data-message="fill wells"`, "fill wells"},
		{"title", `title="check seal"`, "check seal"},
		{"aria-label", `aria-label="align film"`, "align film"},
		{"desc", `desc="verify"`, "verify"},
		{"stop default", ``, "Pause for user interaction"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := `<svg xmlns="http://www.w3.org/2000/svg">
				<circle cx="5" cy="5" r="1" stroke="red" ` + test.attrs + `/>
			</svg>`
			paths := parseDoc(t, doc, Options{DotSpacing: 2.0})
			if paths[0].PauseMessage != test.expected {
				t.Errorf("message = %q, expected %q", paths[0].PauseMessage, test.expected)
			}
		})
	}

	doc := `<svg xmlns="http://www.w3.org/2000/svg">
		<circle cx="5" cy="5" r="1" stroke="magenta"/>
	</svg>`
	paths := parseDoc(t, doc, Options{DotSpacing: 2.0})
	if paths[0].PauseMessage != "Pipette filling required" {
		t.Errorf("pipette default message = %q", paths[0].PauseMessage)
	}
}

func TestOverrideAttributes(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
		<line x1="0" y1="0" x2="10" y2="0" stroke="black"
			data-temp="95" data-weld-time="0.2" data-bed-temp="60" data-weld-height="0.03"/>
	</svg>`
	paths := parseDoc(t, doc, Options{DotSpacing: 2.0})

	o := paths[0].Overrides
	if o.Temperature == nil || *o.Temperature != 95 {
		t.Error("data-temp not captured")
	}
	if o.DwellTime == nil || *o.DwellTime != 0.2 {
		t.Error("data-weld-time not captured")
	}
	if o.BedTemperature == nil || *o.BedTemperature != 60 {
		t.Error("data-bed-temp not captured")
	}
	if o.PlungeHeight == nil || *o.PlungeHeight != 0.03 {
		t.Error("data-weld-height not captured")
	}
}

func TestDefsExcluded(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
		<defs>
			<line id="template" x1="0" y1="0" x2="10" y2="0" stroke="black"/>
		</defs>
		<line id="real" x1="0" y1="5" x2="10" y2="5" stroke="black"/>
	</svg>`
	paths := parseDoc(t, doc, Options{DotSpacing: 2.0})

	if len(paths) != 1 {
		t.Fatalf("expected only the element outside defs, got %d paths", len(paths))
	}
	if paths[0].ID != "real" {
		t.Errorf("id = %q, expected real", paths[0].ID)
	}
}

func TestUseExpansion(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">
		<defs>
			<g id="unit">
				<line id="seg" x1="0" y1="0" x2="10" y2="0" stroke="black"/>
			</g>
		</defs>
		<use xlink:href="#unit" x="100" y="50"/>
	</svg>`
	paths := parseDoc(t, doc, Options{DotSpacing: 10.0})

	if len(paths) != 1 {
		t.Fatalf("expected 1 expanded path, got %d", len(paths))
	}
	first := paths[0].Points[0]
	last := paths[0].Points[len(paths[0].Points)-1]
	if first.X != 100 || first.Y != 50 || last.X != 110 || last.Y != 50 {
		t.Errorf("use offset not applied: (%v,%v)..(%v,%v)", first.X, first.Y, last.X, last.Y)
	}
}

func TestGroupTransformComposition(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
		<g transform="translate(10, 0)">
			<g transform="scale(2)">
				<line x1="1" y1="1" x2="5" y2="1" stroke="black"/>
			</g>
		</g>
	</svg>`
	paths := parseDoc(t, doc, Options{DotSpacing: 10.0})

	first := paths[0].Points[0]
	last := paths[0].Points[len(paths[0].Points)-1]
	// translate(10,0) ∘ scale(2): (1,1) -> (12,2), (5,1) -> (20,2)
	if first.X != 12 || first.Y != 2 || last.X != 20 || last.Y != 2 {
		t.Errorf("composed transform wrong: (%v,%v)..(%v,%v)", first.X, first.Y, last.X, last.Y)
	}
}

func TestElementOrderByIDSuffix(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
		<line id="weld10" x1="0" y1="10" x2="1" y2="10" stroke="black"/>
		<line id="weld2" x1="0" y1="2" x2="1" y2="2" stroke="black"/>
		<line id="unnumbered" x1="0" y1="99" x2="1" y2="99" stroke="black"/>
		<line id="weld1" x1="0" y1="1" x2="1" y2="1" stroke="black"/>
	</svg>`
	paths := parseDoc(t, doc, Options{DotSpacing: 10.0})

	expected := []string{"weld1", "weld2", "weld10", "unnumbered"}
	if len(paths) != len(expected) {
		t.Fatalf("expected %d paths, got %d", len(expected), len(paths))
	}
	for i, id := range expected {
		if paths[i].ID != id {
			t.Errorf("position %d: id = %q, expected %q", i, paths[i].ID, id)
		}
	}
}

func TestDuplicateIDsSuffixed(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
		<line id="weld1" x1="0" y1="0" x2="1" y2="0" stroke="black"/>
		<line id="weld1" x1="0" y1="5" x2="1" y2="5" stroke="black"/>
	</svg>`
	paths := parseDoc(t, doc, Options{DotSpacing: 10.0})

	if paths[0].ID != "weld1" || paths[1].ID != "weld1_1" {
		t.Errorf("ids = %q, %q; expected weld1, weld1_1", paths[0].ID, paths[1].ID)
	}
}

func TestPathElementWithCurves(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
		<path id="p1" d="M 0 0 L 10 0 Q 15 5 20 0 Z" stroke="black"/>
	</svg>`
	paths := parseDoc(t, doc, Options{DotSpacing: 0.5})

	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d", len(paths))
	}
	points := paths[0].Points
	first := points[0]
	last := points[len(points)-1]
	if first.X != 0 || first.Y != 0 {
		t.Errorf("first point (%v, %v), expected (0, 0)", first.X, first.Y)
	}
	if last.X != first.X || last.Y != first.Y {
		t.Errorf("closed path does not return to start: last (%v, %v)", last.X, last.Y)
	}
}

func TestArcApproximationModes(t *testing.T) {
	doc := `<svg xmlns="http://www.w3.org/2000/svg">
		<path id="p1" d="M 0 0 A 5 5 0 0 1 10 0" stroke="black"/>
	</svg>`

	linear := parseDoc(t, doc, Options{DotSpacing: 0.5, ArcApproximation: ArcLinear})
	sampled := parseDoc(t, doc, Options{DotSpacing: 0.5, ArcApproximation: ArcSampled})

	// The chord is 10mm; the semicircular arc is πr ≈ 15.7mm, so sampling
	// produces noticeably more points at the same spacing.
	if len(sampled[0].Points) <= len(linear[0].Points) {
		t.Errorf("sampled arc has %d points, linear chord has %d; expected more",
			len(sampled[0].Points), len(linear[0].Points))
	}

	// Sampled points stay on the circle of radius 5 centered at (5, 0).
	for _, p := range sampled[0].Points {
		d := math.Hypot(p.X-5, p.Y)
		if math.Abs(d-5) > 0.05 {
			t.Errorf("sampled arc point (%v, %v) off the circle (distance %v)", p.X, p.Y, d)
		}
	}
}

func TestInvalidDocuments(t *testing.T) {
	docs := map[string]string{
		"not xml":      "this is not xml",
		"wrong root":   `<html xmlns="http://www.w3.org/2000/svg"></html>`,
		"bad path":     `<svg xmlns="http://www.w3.org/2000/svg"><path id="p" d="M 1" stroke="black"/></svg>`,
		"bad transform": `<svg xmlns="http://www.w3.org/2000/svg"><g transform="spin(45)"><line x1="0" y1="0" x2="1" y2="0"/></g></svg>`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(doc), Options{DotSpacing: 1}); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
