// Package animation renders an animated SVG preview of a weld document.
// Each weld appears as a nozzle-sized dot at its scheduled time; stop
// and pipette paths show a timed marker with their operator message.
// The weld order replays gcode.ExpandPasses with the same deduplication
// state the emitter uses, so the preview and the emitted instruction
// stream visit points identically.
package animation

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"microweldr/pkg/config"
	"microweldr/pkg/dedup"
	"microweldr/pkg/gcode"
	"microweldr/pkg/model"
	"microweldr/pkg/sequence"
)

const (
	// padding is the margin around the drawing content in mm.
	padding = 2.0
	// scaleFactor triples the canvas so message text stays legible.
	scaleFactor = 3.0
	// defaultMarkerRadius sizes stop/pipette markers that did not come
	// from a circle element.
	defaultMarkerRadius = 3.0
	// scaleBarLength is the 10mm reference bar in canvas units.
	scaleBarLength = 10 * scaleFactor
)

// event is one timed element of the animation.
type event struct {
	x, y    float64
	begin   float64 // seconds
	kind    model.WeldKind
	radius  float64 // stop/pipette marker radius in mm
	message string
}

// Render writes the animated preview for paths to w.
func Render(w io.Writer, paths []model.WeldPath, cfg *config.Config) error {
	if len(paths) == 0 {
		return errors.New("no paths to animate")
	}

	events, weldCount, pauseCount := schedule(paths, cfg)

	a := cfg.Animation
	duration := float64(weldCount)*a.TimeBetweenWelds + float64(pauseCount)*a.PauseTime
	if duration < a.MinAnimationDuration {
		duration = a.MinAnimationDuration
	}

	minX, minY, maxX, maxY, ok := model.BoundsOf(paths)
	if !ok {
		return errors.New("no paths to animate")
	}
	width := (maxX - minX + 2*padding) * scaleFactor
	height := (maxY-minY+2*padding)*scaleFactor + 30 // room for the scale bar

	r := &renderer{w: w, cfg: cfg, minX: minX, minY: minY, width: width, height: height}
	r.writeHeader(duration)
	for _, ev := range events {
		switch ev.kind {
		case model.Stop:
			r.writeMarker(ev, "red")
		case model.Pipette:
			r.writeMarker(ev, "magenta")
		default:
			r.writeWeldDot(ev)
		}
	}
	r.writeScaleBar(maxY)
	r.printf("</svg>\n")

	if r.err != nil {
		return errors.Wrap(r.err, "render animation")
	}
	return nil
}

// schedule expands every path into timed events, mirroring the
// emitter's traversal.
func schedule(paths []model.WeldPath, cfg *config.Config) (events []event, weldCount, pauseCount int) {
	seen := dedup.NewFilterForPaths(paths)
	policy := sequence.ParsePolicy(cfg.Sequencing.Algorithm)
	clock := 0.0

	for _, path := range paths {
		if path.Kind == model.Stop || path.Kind == model.Pipette {
			radius := defaultMarkerRadius
			if path.Shape.Element == "circle" && path.Shape.Radius > 0 {
				radius = path.Shape.Radius
			}
			events = append(events, event{
				x:       path.Points[0].X,
				y:       path.Points[0].Y,
				begin:   clock,
				kind:    path.Kind,
				radius:  radius,
				message: path.PauseMessage,
			})
			clock += cfg.Animation.PauseTime
			pauseCount++
			continue
		}

		for _, pass := range gcode.ExpandPasses(path, cfg, seen, policy) {
			for _, point := range pass {
				events = append(events, event{x: point.X, y: point.Y, begin: clock, kind: path.Kind})
				clock += cfg.Animation.TimeBetweenWelds
				weldCount++
			}
		}
	}
	return events, weldCount, pauseCount
}

type renderer struct {
	w             io.Writer
	cfg           *config.Config
	err           error
	minX, minY    float64
	width, height float64
}

func (r *renderer) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// canvas maps drawing coordinates to canvas coordinates.
func (r *renderer) canvas(x, y float64) (float64, float64) {
	return (x - r.minX + padding) * scaleFactor, (y - r.minY + padding) * scaleFactor
}

func (r *renderer) writeHeader(duration float64) {
	r.printf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	r.printf("<svg width=\"%.0f\" height=\"%.0f\" xmlns=\"http://www.w3.org/2000/svg\">\n",
		r.width, r.height)
	r.printf("  <!-- welding animation, %.1fs -->\n", duration)
	r.printf("  <rect width=\"100%%\" height=\"100%%\" fill=\"white\"/>\n")
}

// writeWeldDot draws one weld as a nozzle-sized dot that appears at its
// scheduled time and stays.
func (r *renderer) writeWeldDot(ev event) {
	color := "black"
	if ev.kind == model.Frangible {
		color = "blue"
	}
	x, y := r.canvas(ev.x, ev.y)
	radius := r.cfg.Nozzle.OuterDiameter / 2 * scaleFactor

	r.printf("  <g transform=\"translate(%.2f,%.2f)\" opacity=\"0\">\n", x, y)
	r.printf("    <animate attributeName=\"opacity\" values=\"0;1\" dur=\"0.01s\" begin=\"%.2fs\" fill=\"freeze\"/>\n", ev.begin)
	r.printf("    <circle cx=\"0\" cy=\"0\" r=\"%.2f\" fill=\"%s\" stroke=\"%s\" stroke-width=\"0.5\" opacity=\"0.8\"/>\n",
		radius, color, color)
	r.printf("  </g>\n")
}

// writeMarker draws a stop or pipette marker visible for the pause
// window, with the operator message above it.
func (r *renderer) writeMarker(ev event, color string) {
	x, y := r.canvas(ev.x, ev.y)
	radius := ev.radius * scaleFactor
	end := ev.begin + r.cfg.Animation.PauseTime

	r.printf("  <g transform=\"translate(%.2f,%.2f)\" opacity=\"0\">\n", x, y)
	r.printf("    <animate attributeName=\"opacity\" values=\"0;1;1;0\" keyTimes=\"0;0.05;0.95;1\" dur=\"%.2fs\" begin=\"%.2fs\"/>\n",
		end-ev.begin, ev.begin)
	r.printf("    <circle cx=\"0\" cy=\"0\" r=\"%.1f\" fill=\"%s\" opacity=\"0.6\"/>\n", radius, color)
	if ev.message != "" {
		r.printf("    <text x=\"0\" y=\"%.1f\" text-anchor=\"middle\" font-family=\"Arial\" font-size=\"10\" fill=\"%s\">%s</text>\n",
			-(radius + 4), color, escapeText(ev.message))
	}
	r.printf("  </g>\n")
}

func (r *renderer) writeScaleBar(maxY float64) {
	_, contentBottom := r.canvas(r.minX, maxY)
	barX := padding * scaleFactor
	barY := contentBottom + 10

	r.printf("  <rect x=\"%.1f\" y=\"%.1f\" width=\"%.1f\" height=\"3\" fill=\"red\"/>\n",
		barX, barY, scaleBarLength)
	r.printf("  <text x=\"%.1f\" y=\"%.1f\" text-anchor=\"middle\" font-family=\"Arial\" font-size=\"10\" fill=\"red\">10mm</text>\n",
		barX+scaleBarLength/2, barY+18)
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

func escapeText(s string) string {
	return textEscaper.Replace(s)
}
