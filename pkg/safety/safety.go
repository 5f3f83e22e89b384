// Package safety validates welding parameters against fixed process limits
// for thin polymer film. Hard bound violations are errors and must block
// G-code emission; values inside the hard bounds but below the effective
// minimums are warnings. Bounds apply uniformly to configuration defaults,
// per-kind parameters, and every per-path and per-point override: an
// override never relaxes a limit.
package safety

import (
	"fmt"

	"microweldr/pkg/config"
	"microweldr/pkg/model"
)

// Process limits.
const (
	MaxTemperature = 120.0 // °C, hard limit for most plastics
	MinTemperature = 50.0  // °C, minimum effective welding temperature
	MaxWeldHeight  = 0.5   // mm, maximum safe compression depth
	MinWeldHeight  = 0.001 // mm, minimum effective compression
	MaxWeldTime    = 5.0   // seconds, maximum safe heating time
	MinWeldTime    = 0.05  // seconds, minimum effective weld time
	MaxTravelSpeed = 3000.0 // mm/min
	MaxZSpeed      = 1000.0 // mm/min
	MaxBedTemp     = 80.0  // °C
)

// Result collects everything found during validation. Emission may proceed
// only when OK reports true; warnings are advisory.
type Result struct {
	Warnings []string
	Errors   []string
}

// OK reports whether no hard bound was violated.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks the configuration and every path and point override.
func Validate(paths []model.WeldPath, cfg *config.Config) Result {
	var r Result
	r.validateConfig(cfg)
	for _, path := range paths {
		r.validatePath(path)
	}
	return r
}

func (r *Result) validateConfig(cfg *config.Config) {
	if cfg.Temperatures.BedTemperature > MaxBedTemp {
		r.errorf("bed_temperature %g°C exceeds maximum safe limit of %g°C",
			cfg.Temperatures.BedTemperature, MaxBedTemp)
	}
	r.checkTemperature(cfg.Temperatures.NozzleTemperature, "nozzle_temperature")

	for _, section := range []struct {
		name string
		cfg  config.WeldKindConfig
	}{
		{"normal_welds", cfg.NormalWelds},
		{"frangible_welds", cfg.FrangibleWelds},
	} {
		r.checkTemperature(section.cfg.WeldTemperature, section.name+".weld_temperature")
		r.checkWeldHeight(section.cfg.WeldHeight, section.name+".weld_height")
		r.checkWeldTime(section.cfg.WeldTime, section.name+".weld_time")
	}

	r.checkSpeed(cfg.Movement.TravelSpeed, "travel_speed", MaxTravelSpeed)
	r.checkSpeed(cfg.Movement.ZSpeed, "z_speed", MaxZSpeed)
}

func (r *Result) validatePath(path model.WeldPath) {
	r.checkOverrides(path.Overrides, fmt.Sprintf("path %q", path.ID))
	for i, point := range path.Points {
		r.checkOverrides(point.Overrides, fmt.Sprintf("path %q point %d", path.ID, i))
	}
}

func (r *Result) checkOverrides(o model.Overrides, context string) {
	if o.Temperature != nil {
		r.checkTemperature(*o.Temperature, context+" temperature override")
	}
	if o.DwellTime != nil {
		r.checkWeldTime(*o.DwellTime, context+" weld time override")
	}
	if o.PlungeHeight != nil {
		r.checkWeldHeight(*o.PlungeHeight, context+" weld height override")
	}
	if o.BedTemperature != nil && *o.BedTemperature > MaxBedTemp {
		r.errorf("%s bed temperature override %g°C exceeds maximum safe limit of %g°C",
			context, *o.BedTemperature, MaxBedTemp)
	}
}

func (r *Result) checkTemperature(temp float64, name string) {
	switch {
	case temp > MaxTemperature:
		r.errorf("%s %g°C exceeds maximum safe limit of %g°C", name, temp, MaxTemperature)
	case temp < 0:
		r.errorf("%s %g°C is negative", name, temp)
	case temp < MinTemperature:
		r.warnf("%s %g°C is below recommended minimum of %g°C", name, temp, MinTemperature)
	}
}

func (r *Result) checkWeldHeight(height float64, name string) {
	switch {
	case height > MaxWeldHeight:
		r.errorf("%s %gmm exceeds maximum safe limit of %gmm", name, height, MaxWeldHeight)
	case height < 0:
		r.errorf("%s %gmm is negative", name, height)
	case height < MinWeldHeight:
		r.warnf("%s %gmm is below recommended minimum of %gmm", name, height, MinWeldHeight)
	}
}

func (r *Result) checkWeldTime(t float64, name string) {
	switch {
	case t > MaxWeldTime:
		r.errorf("%s %gs exceeds maximum safe limit of %gs", name, t, MaxWeldTime)
	case t < 0:
		r.errorf("%s %gs is negative", name, t)
	case t < MinWeldTime:
		r.warnf("%s %gs is below recommended minimum of %gs", name, t, MinWeldTime)
	}
}

func (r *Result) checkSpeed(speed float64, name string, maxSpeed float64) {
	switch {
	case speed <= 0:
		r.errorf("%s must be positive, got %g", name, speed)
	case speed > maxSpeed:
		r.errorf("%s %gmm/min exceeds maximum safe limit of %gmm/min", name, speed, maxSpeed)
	}
}
