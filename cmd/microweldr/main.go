package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"microweldr/cmd/microweldr/commands"
	"microweldr/pkg/logger"
)

var (
	flagVerbose  bool
	flagJSONLogs bool
)

var rootCmd = &cobra.Command{
	Use:   "microweldr",
	Short: "Convert vector drawings to plastic-welding G-code",
	Long: `MicroWeldr converts SVG and DXF drawings of microfluidic devices
into spot-welding G-code for polymer film bonding on a 3D printer.

Weld kinds come from element colors (SVG) or layer names (DXF):
black for normal welds, blue for frangible break-away seams, red for
operator stop points, magenta for pipette filling points.

Examples:
  microweldr convert chip.svg             # chip.gcode + chip_animation.svg
  microweldr convert -c weld.toml chip.dxf
  microweldr validate chip.svg            # safety report only`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Initialize(flagJSONLogs, flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagJSONLogs, "json-logs", false, "write logs as JSON")

	rootCmd.AddCommand(commands.ConvertCmd)
	rootCmd.AddCommand(commands.ValidateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
