// Package config loads and validates machine and process configuration from
// TOML files via Viper. Values here are structural defaults and limits of
// the hardware; the process-safety bounds on welding parameters are enforced
// separately by the safety validator.
package config

// Config is the full configuration snapshot. The conversion pipeline
// consumes it by value and never mutates it.
type Config struct {
	Printer        PrinterConfig     `mapstructure:"printer"`
	Nozzle         NozzleConfig      `mapstructure:"nozzle"`
	Temperatures   TemperatureConfig `mapstructure:"temperatures"`
	Movement       MovementConfig    `mapstructure:"movement"`
	NormalWelds    WeldKindConfig    `mapstructure:"normal_welds"`
	FrangibleWelds WeldKindConfig    `mapstructure:"frangible_welds"`
	Sequencing     SequencingConfig  `mapstructure:"sequencing"`
	Animation      AnimationConfig   `mapstructure:"animation"`
	Output         OutputConfig      `mapstructure:"output"`
}

// PrinterConfig describes the build volume of the target machine.
type PrinterConfig struct {
	BedSizeX   float64 `mapstructure:"bed_size_x"` // mm
	BedSizeY   float64 `mapstructure:"bed_size_y"` // mm
	MaxZHeight float64 `mapstructure:"max_z_height"`
}

// NozzleConfig describes the welding tip geometry. The outer diameter sizes
// stop/pipette markers in the animation output.
type NozzleConfig struct {
	OuterDiameter float64 `mapstructure:"outer_diameter"` // mm
	InnerDiameter float64 `mapstructure:"inner_diameter"` // mm
}

// TemperatureConfig holds the global temperature setpoints in °C.
type TemperatureConfig struct {
	BedTemperature      float64 `mapstructure:"bed_temperature"`
	NozzleTemperature   float64 `mapstructure:"nozzle_temperature"`
	ChamberTemperature  float64 `mapstructure:"chamber_temperature"`
	UseChamberHeating   bool    `mapstructure:"use_chamber_heating"`
	CooldownTemperature float64 `mapstructure:"cooldown_temperature"`
}

// MovementConfig holds travel parameters.
type MovementConfig struct {
	MoveHeight            float64 `mapstructure:"move_height"`             // safe travel Z in mm
	TravelSpeed           float64 `mapstructure:"travel_speed"`            // mm/min
	ZSpeed                float64 `mapstructure:"z_speed"`                 // mm/min
	WeldCompressionOffset float64 `mapstructure:"weld_compression_offset"` // mm, zero disables
}

// WeldKindConfig holds the per-kind welding process parameters. Normal and
// frangible welds each get their own section; frangible welds run cooler and
// dwell longer so the joint stays breakable.
type WeldKindConfig struct {
	WeldHeight               float64 `mapstructure:"weld_height"` // plunge Z in mm
	WeldTemperature          float64 `mapstructure:"weld_temperature"`
	WeldTime                 float64 `mapstructure:"weld_time"` // dwell in seconds
	DotSpacing               float64 `mapstructure:"dot_spacing"`
	InitialDotSpacing        float64 `mapstructure:"initial_dot_spacing"`
	CoolingTimeBetweenPasses float64 `mapstructure:"cooling_time_between_passes"`
}

// SequencingConfig selects the within-pass weld ordering.
type SequencingConfig struct {
	Algorithm        string `mapstructure:"algorithm"`
	SkipBaseDistance int    `mapstructure:"skip_base_distance"` // stride for the skip policy
	Passes           int    `mapstructure:"passes"`             // 0 derives from dot spacings
}

// AnimationConfig drives the timing of the SVG preview animation.
type AnimationConfig struct {
	TimeBetweenWelds     float64 `mapstructure:"time_between_welds"` // seconds
	PauseTime            float64 `mapstructure:"pause_time"`
	MinAnimationDuration float64 `mapstructure:"min_animation_duration"`
}

// OutputConfig controls output file naming.
type OutputConfig struct {
	GCodeExtension     string `mapstructure:"gcode_extension"`
	AnimationExtension string `mapstructure:"animation_extension"`
}

// WeldKind returns the per-kind parameters for normal or frangible welds.
// Frangible parameters are returned for frangible, everything else gets the
// normal parameters.
func (c *Config) WeldKind(frangible bool) WeldKindConfig {
	if frangible {
		return c.FrangibleWelds
	}
	return c.NormalWelds
}
