// Package convert drives the full drawing-to-G-code pipeline: parse,
// center on the bed, safety-validate, then emit G-code and the animated
// preview through atomic file publishes. Stages are plain function
// calls over the parsed path slice; progress is reported through an
// optional callback at path boundaries.
package convert

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"

	"microweldr/internal/atomicfile"
	"microweldr/pkg/animation"
	"microweldr/pkg/config"
	"microweldr/pkg/dxf"
	"microweldr/pkg/gcode"
	"microweldr/pkg/logger"
	"microweldr/pkg/model"
	"microweldr/pkg/safety"
	"microweldr/pkg/svg"
)

// maxFilenameLength is a conservative limit for Prusa printer displays;
// longer names cause selection and transfer problems.
const maxFilenameLength = 31

// Progress is called as emission advances, once per completed path.
type Progress func(done, total int)

// Options control a single conversion run.
type Options struct {
	// OutputPath overrides the derived G-code path.
	OutputPath string
	// SkipBedLeveling omits the mesh leveling pass.
	SkipBedLeveling bool
	// SkipUserPause omits the sheet-insertion pause.
	SkipUserPause bool
	// NoAnimation skips the preview file.
	NoAnimation bool
	// Progress, when non-nil, receives per-path completion updates.
	Progress Progress
}

// Result reports what a conversion produced.
type Result struct {
	GCodePath     string
	AnimationPath string
	PathCount     int
	Warnings      []string
}

// Run converts one drawing file end to end.
func Run(inputPath string, cfg *config.Config, opts Options) (*Result, error) {
	paths, err := ParseDrawing(inputPath, cfg)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, errors.Newf("%s contains no weldable geometry", inputPath)
	}
	logger.Log.Infow("parsed drawing", "file", inputPath, "paths", len(paths))

	paths = CenterOnBed(paths, cfg)

	result := safety.Validate(paths, cfg)
	for _, w := range result.Warnings {
		logger.Log.Warnw("safety warning", "detail", w)
	}
	if !result.OK() {
		return nil, errors.Newf("safety validation failed:\n  %s",
			strings.Join(result.Errors, "\n  "))
	}

	gcodePath := opts.OutputPath
	if gcodePath == "" {
		gcodePath = outputPath(inputPath, cfg.Output.GCodeExtension)
	}
	if name := filepath.Base(gcodePath); len(name) > maxFilenameLength {
		return nil, errors.Newf(
			"G-code filename %q is %d characters, over the %d character printer limit",
			name, len(name), maxFilenameLength)
	}

	emitOpts := gcode.Options{
		SkipBedLeveling: opts.SkipBedLeveling,
		SkipUserPause:   opts.SkipUserPause,
	}
	if opts.Progress != nil {
		emitOpts.Progress = opts.Progress
	}

	err = atomicfile.WriteFile(gcodePath, func(w io.Writer) error {
		return gcode.Emit(w, paths, cfg, emitOpts)
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Infow("wrote G-code", "file", gcodePath)

	res := &Result{GCodePath: gcodePath, PathCount: len(paths), Warnings: result.Warnings}

	if !opts.NoAnimation {
		animPath := outputPath(inputPath, cfg.Output.AnimationExtension)
		err = atomicfile.WriteFile(animPath, func(w io.Writer) error {
			return animation.Render(w, paths, cfg)
		})
		if err != nil {
			return nil, err
		}
		res.AnimationPath = animPath
		logger.Log.Infow("wrote animation", "file", animPath)
	}
	return res, nil
}

// ParseDrawing parses an SVG or DXF file into weld paths.
func ParseDrawing(path string, cfg *config.Config) ([]model.WeldPath, error) {
	spacing := cfg.NormalWelds.DotSpacing

	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return svg.ParseFile(path, svg.Options{DotSpacing: spacing})
	case ".dxf":
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.Wrapf(err, "open %s", path)
		}
		defer f.Close()
		return dxf.Parse(f, dxf.Options{DotSpacing: spacing})
	default:
		return nil, errors.Newf("unsupported drawing format %q (want .svg or .dxf)", filepath.Ext(path))
	}
}

// CenterOnBed translates the whole document so its bounding box sits in
// the middle of the configured bed.
func CenterOnBed(paths []model.WeldPath, cfg *config.Config) []model.WeldPath {
	minX, minY, maxX, maxY, ok := model.BoundsOf(paths)
	if !ok {
		return paths
	}

	width := maxX - minX
	height := maxY - minY
	dx := (cfg.Printer.BedSizeX-width)/2 - minX
	dy := (cfg.Printer.BedSizeY-height)/2 - minY

	if width > cfg.Printer.BedSizeX || height > cfg.Printer.BedSizeY {
		logger.Log.Warnw("design exceeds bed size",
			"width", width, "height", height,
			"bed_x", cfg.Printer.BedSizeX, "bed_y", cfg.Printer.BedSizeY)
	}
	logger.Log.Debugw("centering on bed", "dx", dx, "dy", dy,
		"margin_x", (cfg.Printer.BedSizeX-width)/2, "margin_y", (cfg.Printer.BedSizeY-height)/2)

	out := make([]model.WeldPath, len(paths))
	for i, p := range paths {
		out[i] = p.Translate(dx, dy)
	}
	return out
}

// outputPath swaps a drawing file's extension for ext, which may be a
// suffix like "_animation.svg".
func outputPath(inputPath, ext string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + ext
}
