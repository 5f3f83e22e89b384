package config

import "github.com/cockroachdb/errors"

// Validate checks structural sanity of the configuration: positive
// dimensions, spacings, and speeds. Welding process bounds (temperature,
// plunge, dwell) are checked by the safety validator, which also covers
// per-path and per-point overrides.
func (c *Config) Validate() error {
	if c.Printer.BedSizeX <= 0 || c.Printer.BedSizeY <= 0 {
		return errors.Newf("printer bed size must be positive, got %gx%g",
			c.Printer.BedSizeX, c.Printer.BedSizeY)
	}
	if c.Movement.MoveHeight < 0 {
		return errors.Newf("movement.move_height must be >= 0, got %g", c.Movement.MoveHeight)
	}
	if c.Movement.TravelSpeed <= 0 {
		return errors.Newf("movement.travel_speed must be > 0, got %g", c.Movement.TravelSpeed)
	}
	if c.Movement.ZSpeed <= 0 {
		return errors.Newf("movement.z_speed must be > 0, got %g", c.Movement.ZSpeed)
	}
	if c.Movement.WeldCompressionOffset < 0 {
		return errors.Newf("movement.weld_compression_offset must be >= 0, got %g", c.Movement.WeldCompressionOffset)
	}

	for _, section := range []struct {
		name string
		cfg  WeldKindConfig
	}{
		{"normal_welds", c.NormalWelds},
		{"frangible_welds", c.FrangibleWelds},
	} {
		if section.cfg.DotSpacing <= 0 {
			return errors.Newf("%s.dot_spacing must be > 0, got %g",
				section.name, section.cfg.DotSpacing)
		}
		if section.cfg.InitialDotSpacing <= 0 {
			return errors.Newf("%s.initial_dot_spacing must be > 0, got %g",
				section.name, section.cfg.InitialDotSpacing)
		}
		if section.cfg.CoolingTimeBetweenPasses < 0 {
			return errors.Newf("%s.cooling_time_between_passes must be >= 0, got %g",
				section.name, section.cfg.CoolingTimeBetweenPasses)
		}
	}

	if c.Sequencing.SkipBaseDistance < 1 {
		return errors.Newf("sequencing.skip_base_distance must be >= 1, got %d",
			c.Sequencing.SkipBaseDistance)
	}
	if c.Sequencing.Passes < 0 {
		return errors.Newf("sequencing.passes must be >= 0, got %d",
			c.Sequencing.Passes)
	}
	return nil
}
