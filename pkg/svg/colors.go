package svg

import (
	"strings"

	"microweldr/pkg/model"
)

// Weld kinds are encoded in drawings by color. The alias sets are checked in
// fixed priority order (stop, then pipette, then frangible); anything
// unmatched is a normal weld. The tables are matched as substrings against
// the element's combined stroke, fill, and style text, so both attribute and
// inline-style colors are recognized.
var kindAliases = []struct {
	kind    model.WeldKind
	aliases []string
}{
	{model.Stop, []string{
		"red", "#ff0000", "#f00", "rgb(255,0,0)",
	}},
	{model.Pipette, []string{
		"magenta", "pink", "fuchsia",
		"#ff00ff", "#f0f", "#ff69b4", "#ffc0cb",
		"rgb(255,0,255)", "rgb(255,105,180)", "rgb(255,192,203)",
	}},
	{model.Frangible, []string{
		"blue", "#0000ff", "#00f", "rgb(0,0,255)",
	}},
}

// kindForColor derives the weld kind from an element's color information.
func kindForColor(stroke, fill, style string) model.WeldKind {
	colorInfo := strings.ToLower(stroke + " " + fill + " " + style)
	for _, entry := range kindAliases {
		for _, alias := range entry.aliases {
			if strings.Contains(colorInfo, alias) {
				return entry.kind
			}
		}
	}
	return model.Normal
}

