// Package gcode emits printer instructions for a validated weld
// document. The emission runs as a fixed state machine: init and
// heating, then one section per weld path, then cooldown. Normal and
// frangible paths expand through the multipass planner and the
// configured sequencing policy; stop and pipette paths become operator
// pauses. Callers are expected to run safety validation first and to
// publish the output atomically.
package gcode

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"microweldr/pkg/config"
	"microweldr/pkg/dedup"
	"microweldr/pkg/model"
	"microweldr/pkg/multipass"
	"microweldr/pkg/sequence"
)

// Options adjust emission behavior.
type Options struct {
	// SkipBedLeveling omits the G29 mesh leveling pass.
	SkipBedLeveling bool
	// SkipUserPause omits the sheet-insertion pause after heating.
	SkipUserPause bool
	// Progress, when non-nil, is called after each path has been emitted.
	Progress func(done, total int)
}

// Emit writes the full instruction stream for paths to w. Paths are
// emitted in slice order. Write errors abort emission immediately.
func Emit(w io.Writer, paths []model.WeldPath, cfg *config.Config, opts Options) error {
	e := &emitter{
		w:           w,
		cfg:         cfg,
		currentTemp: cfg.Temperatures.NozzleTemperature,
		bedTemp:     bedTemperature(paths, cfg),
		seen:        dedup.NewFilterForPaths(paths),
		policy:      sequence.ParsePolicy(cfg.Sequencing.Algorithm),
	}

	e.writeHeader(len(paths))
	e.writeInitAndHeating(opts)
	if !opts.SkipUserPause {
		e.writeUserPause()
	}

	for i, path := range paths {
		if e.err != nil {
			break
		}
		e.writePath(path)
		if opts.Progress != nil {
			opts.Progress(i+1, len(paths))
		}
	}

	e.writeCooldown()
	if e.err != nil {
		return errors.Wrap(e.err, "emit G-code")
	}
	return nil
}

type emitter struct {
	w   io.Writer
	cfg *config.Config
	err error

	currentTemp    float64
	bedTemp        float64
	weldingStarted bool
	seen           *dedup.Filter
	policy         sequence.Policy
}

// bedTemperature resolves the bed setpoint for a document. The bed heats
// once for the whole run, so the first path-level override wins over the
// configured temperature.
func bedTemperature(paths []model.WeldPath, cfg *config.Config) float64 {
	for _, p := range paths {
		if p.Overrides.BedTemperature != nil {
			return *p.Overrides.BedTemperature
		}
	}
	return cfg.Temperatures.BedTemperature
}

// printf writes one formatted line, latching the first write error.
func (e *emitter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *emitter) writeHeader(pathCount int) {
	t := e.cfg.Temperatures
	e.printf("; MicroWeldr plastic welding G-code\n")
	e.printf("; Paths: %d\n", pathCount)
	e.printf("; Bed temperature: %g°C\n", e.bedTemp)
	e.printf("; Nozzle temperature: %g°C\n", t.NozzleTemperature)
	e.printf(";\n\n")
}

func (e *emitter) writeInitAndHeating(opts Options) {
	t := e.cfg.Temperatures

	// Start the bed early so it heats while homing runs.
	e.printf("M140 S%g ; Set bed temperature (start heating)\n\n", e.bedTemp)

	e.printf("G90 ; Absolute positioning\n")
	e.printf("M83 ; Relative extrusion\n")
	e.printf("G28 ; Home all axes\n\n")

	e.printf("M190 S%g ; Wait for bed temperature\n", e.bedTemp)
	e.printf("M104 S%g ; Set nozzle temperature\n", t.NozzleTemperature)
	e.printf("M109 S%g ; Wait for nozzle temperature\n\n", t.NozzleTemperature)

	if !opts.SkipBedLeveling {
		e.printf("G29 ; Auto bed leveling\n\n")
	}
	if t.UseChamberHeating {
		e.printf("M141 S%g ; Set chamber temperature\n\n", t.ChamberTemperature)
	}
}

func (e *emitter) writeUserPause() {
	e.printf("M117 Insert plastic sheets...\n")
	e.printf("M0 ; Pause - Insert plastic sheets and press continue\n")
	e.printf("M117 Starting welding sequence...\n\n")
}

// writeCompressionOffset biases the Z origin so welds press into the
// film stack instead of just touching it. Runs once, before the first
// weld.
func (e *emitter) writeCompressionOffset() {
	offset := e.cfg.Movement.WeldCompressionOffset
	if offset == 0 {
		return
	}
	zSpeed := e.cfg.Movement.ZSpeed
	e.printf("; Apply Z offset for weld compression\n")
	e.printf("G1 Z0 F%g ; Move to Z=0 for relative offset\n", zSpeed)
	e.printf("G92 Z%g ; Set Z offset, head now reads %gmm above surface\n", offset, offset)
	e.printf("G1 Z%g F%g ; Return to travel height\n\n", e.cfg.Movement.MoveHeight, zSpeed)
}

func (e *emitter) writePath(path model.WeldPath) {
	e.printf("; Path %s (%s)\n", path.ID, path.Kind)

	switch path.Kind {
	case model.Stop:
		e.writeStop(path)
	case model.Pipette:
		e.writePipette(path)
	default:
		e.writeWeldPath(path)
	}
	e.printf("\n")
}

func (e *emitter) writeStop(path model.WeldPath) {
	e.moveTo(path.Points[0].X, path.Points[0].Y)
	e.printf("M117 %s\n", sanitizeMessage(path.PauseMessage, model.Stop))
	e.printf("M0 ; Pause for user interaction\n")
}

func (e *emitter) writePipette(path model.WeldPath) {
	e.moveTo(path.Points[0].X, path.Points[0].Y)
	e.printf("M117 %s\n", sanitizeMessage(path.PauseMessage, model.Pipette))
	e.printf("M0 ; Pause for pipette filling\n")
	e.printf("G1 Z0.05 F%g ; Lower for pipette\n", e.cfg.Movement.ZSpeed)
	e.printf("G4 P500 ; Brief pause\n")
	e.printf("G1 Z%g F%g ; Raise to travel height\n", e.cfg.Movement.MoveHeight, e.cfg.Movement.ZSpeed)
}

// ExpandPasses turns a normal or frangible path into its emission-order
// weld points: multipass planning, per-pass sequencing, then
// document-level deduplication through seen. The animation renderer
// calls this with the same inputs as the emitter so the preview replays
// the exact weld order.
func ExpandPasses(path model.WeldPath, cfg *config.Config, seen *dedup.Filter, policy sequence.Policy) [][]model.WeldPoint {
	kindCfg := cfg.WeldKind(path.Kind == model.Frangible)
	passCount := cfg.Sequencing.Passes
	if passCount == 0 {
		passCount = multipass.PassCount(kindCfg.DotSpacing, kindCfg.InitialDotSpacing)
	}
	passes := multipass.PlanPath(path, kindCfg.DotSpacing, passCount)

	expanded := make([][]model.WeldPoint, 0, len(passes))
	for _, pass := range passes {
		order := sequence.Order(len(pass), func(i int) (float64, float64) {
			return pass[i].X, pass[i].Y
		}, policy, cfg.Sequencing.SkipBaseDistance)

		var seq []model.WeldPoint
		for _, idx := range order {
			if seen.Seen(pass[idx]) {
				continue
			}
			seq = append(seq, pass[idx])
		}
		expanded = append(expanded, seq)
	}
	return expanded
}

func (e *emitter) writeWeldPath(path model.WeldPath) {
	kindCfg := e.cfg.WeldKind(path.Kind == model.Frangible)

	for passIndex, pass := range ExpandPasses(path, e.cfg, e.seen, e.policy) {
		if passIndex > 0 && kindCfg.CoolingTimeBetweenPasses > 0 {
			e.printf("G4 P%.0f ; Cooling between passes\n", kindCfg.CoolingTimeBetweenPasses*1000)
		}
		for _, point := range pass {
			e.writeWeld(point, path, kindCfg)
		}
	}
}

func (e *emitter) writeWeld(point model.WeldPoint, path model.WeldPath, kindCfg config.WeldKindConfig) {
	temp := effectiveValue(point.Overrides.Temperature, path.Overrides.Temperature, kindCfg.WeldTemperature)
	height := effectiveValue(point.Overrides.PlungeHeight, path.Overrides.PlungeHeight, kindCfg.WeldHeight)
	dwell := effectiveValue(point.Overrides.DwellTime, path.Overrides.DwellTime, kindCfg.WeldTime)
	zSpeed := e.cfg.Movement.ZSpeed

	if !e.weldingStarted {
		e.writeCompressionOffset()
		e.printf("G1 Z%g F%g ; Move to travel height\n", e.cfg.Movement.MoveHeight, zSpeed)
		e.weldingStarted = true
	}
	if temp != e.currentTemp {
		e.printf("M104 S%g ; Adjust nozzle temperature\n", temp)
		e.currentTemp = temp
	}

	e.moveTo(point.X, point.Y)
	e.printf("G1 Z%g F%g ; Lower to weld height\n", height, zSpeed)
	e.printf("G4 P%.0f ; Weld for %gs\n", dwell*1000, dwell)
	e.printf("G1 Z%g F%g ; Raise to travel height\n", e.cfg.Movement.MoveHeight, zSpeed)
}

func (e *emitter) moveTo(x, y float64) {
	e.printf("G1 X%.3f Y%.3f F%g ; Move to next point\n", x, y, e.cfg.Movement.TravelSpeed)
}

func (e *emitter) writeCooldown() {
	t := e.cfg.Temperatures

	e.printf("; End of welding sequence\n")
	e.printf("G1 Z10 F600 ; Raise nozzle\n")
	e.printf("G28 X Y ; Home X and Y axes\n")
	e.printf("M104 S%g ; Cool nozzle\n", t.CooldownTemperature)
	e.printf("M140 S%g ; Cool bed\n", t.CooldownTemperature)
	if t.UseChamberHeating {
		e.printf("M141 S0 ; Turn off chamber heating\n")
	}
	e.printf("M107 ; Turn off part cooling fan\n")
	e.printf("M84 ; Disable steppers\n")
}

func effectiveValue(point, path *float64, fallback float64) float64 {
	if point != nil {
		return *point
	}
	if path != nil {
		return *path
	}
	return fallback
}

// sanitizeMessage makes a pause message safe for an M117 display line:
// single line, ASCII-ish, bounded length.
func sanitizeMessage(msg string, kind model.WeldKind) string {
	if strings.TrimSpace(msg) == "" {
		msg = model.DefaultPauseMessage(kind)
	}
	msg = strings.NewReplacer("\n", " ", "\r", " ", ";", ",").Replace(msg)
	msg = strings.TrimSpace(msg)
	const maxDisplayLen = 64
	if len(msg) > maxDisplayLen {
		msg = msg[:maxDisplayLen]
	}
	return msg
}
