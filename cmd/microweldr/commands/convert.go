package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"microweldr/pkg/config"
	"microweldr/pkg/convert"
)

var (
	convertConfigPath   string
	convertOutput       string
	convertSkipLeveling bool
	convertSkipPause    bool
	convertNoAnimation  bool
)

// ConvertCmd converts a drawing to G-code plus an animated preview.
var ConvertCmd = &cobra.Command{
	Use:   "convert <drawing.svg|drawing.dxf>",
	Short: "Convert a drawing to welding G-code",
	Long: `Convert parses the drawing, centers it on the bed, runs the safety
validator, and writes the G-code and an animated SVG preview next to
the input file. Emission is blocked if any safety error is found.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	ConvertCmd.Flags().StringVarP(&convertConfigPath, "config", "c", "", "config file (TOML)")
	ConvertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "G-code output path (default: input with .gcode)")
	ConvertCmd.Flags().BoolVar(&convertSkipLeveling, "skip-bed-leveling", false, "omit the G29 bed leveling pass")
	ConvertCmd.Flags().BoolVar(&convertSkipPause, "skip-user-pause", false, "omit the sheet-insertion pause")
	ConvertCmd.Flags().BoolVar(&convertNoAnimation, "no-animation", false, "skip the animated preview")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(convertConfigPath)
	if err != nil {
		return err
	}

	res, err := convert.Run(args[0], cfg, convert.Options{
		OutputPath:      convertOutput,
		SkipBedLeveling: convertSkipLeveling,
		SkipUserPause:   convertSkipPause,
		NoAnimation:     convertNoAnimation,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Wrote %s (%d paths)\n", res.GCodePath, res.PathCount)
	if res.AnimationPath != "" {
		fmt.Printf("Wrote %s\n", res.AnimationPath)
	}
	for _, w := range res.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	return nil
}

// loadConfig loads either the given file or the default search chain,
// and structurally validates the result.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
