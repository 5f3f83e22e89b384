package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"microweldr/pkg/convert"
	"microweldr/pkg/safety"
)

var validateConfigPath string

// ValidateCmd runs the safety validator without emitting anything.
var ValidateCmd = &cobra.Command{
	Use:   "validate <drawing.svg|drawing.dxf>",
	Short: "Check a drawing against the welding safety bounds",
	Long: `Validate parses the drawing and reports every safety warning and
error that conversion would hit, without writing any output files.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	ValidateCmd.Flags().StringVarP(&validateConfigPath, "config", "c", "", "config file (TOML)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(validateConfigPath)
	if err != nil {
		return err
	}

	paths, err := convert.ParseDrawing(args[0], cfg)
	if err != nil {
		return err
	}
	fmt.Printf("Parsed %d weld paths from %s\n", len(paths), args[0])

	result := safety.Validate(paths, cfg)
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	for _, e := range result.Errors {
		fmt.Printf("Error: %s\n", e)
	}
	if !result.OK() {
		return errors.Newf("%d safety error(s) found", len(result.Errors))
	}

	fmt.Println("All safety checks passed")
	return nil
}
