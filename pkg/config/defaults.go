package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options.
// The defaults describe a small-format polymer film welder and sit inside
// the safety validator's hard bounds.
func SetDefaults(v *viper.Viper) {
	// Printer defaults
	v.SetDefault("printer.bed_size_x", 250.0)
	v.SetDefault("printer.bed_size_y", 220.0)
	v.SetDefault("printer.max_z_height", 270.0)

	// Nozzle defaults
	v.SetDefault("nozzle.outer_diameter", 1.1)
	v.SetDefault("nozzle.inner_diameter", 0.2)

	// Temperature defaults
	v.SetDefault("temperatures.bed_temperature", 70.0)
	v.SetDefault("temperatures.nozzle_temperature", 115.0)
	v.SetDefault("temperatures.chamber_temperature", 35.0)
	v.SetDefault("temperatures.use_chamber_heating", false)
	v.SetDefault("temperatures.cooldown_temperature", 50.0)

	// Movement defaults
	v.SetDefault("movement.move_height", 5.0)
	v.SetDefault("movement.travel_speed", 3000.0)
	v.SetDefault("movement.z_speed", 600.0)
	v.SetDefault("movement.weld_compression_offset", 0.3)

	// Normal weld defaults
	v.SetDefault("normal_welds.weld_height", 0.020)
	v.SetDefault("normal_welds.weld_temperature", 115.0)
	v.SetDefault("normal_welds.weld_time", 0.1)
	v.SetDefault("normal_welds.dot_spacing", 0.5)
	v.SetDefault("normal_welds.initial_dot_spacing", 3.6)
	v.SetDefault("normal_welds.cooling_time_between_passes", 2.0)

	// Frangible weld defaults: cooler and longer, so the seam peels open
	v.SetDefault("frangible_welds.weld_height", 0.020)
	v.SetDefault("frangible_welds.weld_temperature", 105.0)
	v.SetDefault("frangible_welds.weld_time", 0.3)
	v.SetDefault("frangible_welds.dot_spacing", 0.5)
	v.SetDefault("frangible_welds.initial_dot_spacing", 3.6)
	v.SetDefault("frangible_welds.cooling_time_between_passes", 1.5)

	// Sequencing defaults
	v.SetDefault("sequencing.algorithm", "skip")
	v.SetDefault("sequencing.skip_base_distance", 5)
	v.SetDefault("sequencing.passes", 0)

	// Animation defaults
	v.SetDefault("animation.time_between_welds", 0.1)
	v.SetDefault("animation.pause_time", 3.0)
	v.SetDefault("animation.min_animation_duration", 10.0)

	// Output defaults
	v.SetDefault("output.gcode_extension", ".gcode")
	v.SetDefault("output.animation_extension", "_animation.svg")
}
