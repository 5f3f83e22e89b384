package safety

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"microweldr/pkg/config"
	"microweldr/pkg/model"
)

func safeConfig(t *testing.T) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.LoadWithViper(v)
	require.NoError(t, err)
	return cfg
}

func TestDefaultsAreSafe(t *testing.T) {
	r := Validate(nil, safeConfig(t))
	assert.True(t, r.OK(), "errors: %v", r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestSafeOperatingPoint(t *testing.T) {
	cfg := safeConfig(t)
	cfg.NormalWelds.WeldTemperature = 100
	cfg.NormalWelds.WeldHeight = 0.02
	cfg.NormalWelds.WeldTime = 0.1
	cfg.Movement.TravelSpeed = 1500

	r := Validate(nil, cfg)
	assert.True(t, r.OK(), "errors: %v", r.Errors)
	assert.Empty(t, r.Warnings)
}

func TestHardBoundViolations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"temperature over limit", func(c *config.Config) {
			c.NormalWelds.WeldTemperature = 121
		}, "121°C exceeds"},
		{"weld height over limit", func(c *config.Config) {
			c.FrangibleWelds.WeldHeight = 0.51
		}, "0.51mm exceeds"},
		{"weld time over limit", func(c *config.Config) {
			c.NormalWelds.WeldTime = 5.1
		}, "5.1s exceeds"},
		{"travel speed over limit", func(c *config.Config) {
			c.Movement.TravelSpeed = 3001
		}, "3001mm/min exceeds"},
		{"z speed over limit", func(c *config.Config) {
			c.Movement.ZSpeed = 1001
		}, "1001mm/min exceeds"},
		{"bed temperature over limit", func(c *config.Config) {
			c.Temperatures.BedTemperature = 81
		}, "81°C exceeds"},
		{"negative temperature", func(c *config.Config) {
			c.NormalWelds.WeldTemperature = -1
		}, "negative"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := safeConfig(t)
			test.mutate(cfg)
			r := Validate(nil, cfg)
			require.False(t, r.OK(), "expected a validation error")
			found := false
			for _, e := range r.Errors {
				if strings.Contains(e, test.want) {
					found = true
				}
			}
			assert.True(t, found, "no error containing %q in %v", test.want, r.Errors)
		})
	}
}

func TestSoftBoundWarnings(t *testing.T) {
	cfg := safeConfig(t)
	cfg.NormalWelds.WeldTemperature = 40   // below effective minimum
	cfg.NormalWelds.WeldHeight = 0.0005    // below effective compression
	cfg.FrangibleWelds.WeldTime = 0.01     // below effective dwell

	r := Validate(nil, cfg)
	assert.True(t, r.OK(), "soft violations must not block emission: %v", r.Errors)
	assert.Len(t, r.Warnings, 3)
}

func TestPathOverrideValidation(t *testing.T) {
	cfg := safeConfig(t)
	hot := 130.0
	path, err := model.NewWeldPath("hot", model.Normal, []model.WeldPoint{
		{X: 0, Y: 0, Kind: model.Normal},
	})
	require.NoError(t, err)
	path.Overrides.Temperature = &hot

	r := Validate([]model.WeldPath{path}, cfg)
	require.False(t, r.OK())
	assert.Contains(t, r.Errors[0], `path "hot"`)
}

func TestPointOverrideValidation(t *testing.T) {
	cfg := safeConfig(t)
	deep := 0.6
	hotBed := 90.0
	path, err := model.NewWeldPath("p1", model.Normal, []model.WeldPoint{
		{X: 0, Y: 0, Kind: model.Normal},
		{X: 1, Y: 0, Kind: model.Normal,
			Overrides: model.Overrides{PlungeHeight: &deep, BedTemperature: &hotBed}},
	})
	require.NoError(t, err)

	r := Validate([]model.WeldPath{path}, cfg)
	require.False(t, r.OK())
	assert.Len(t, r.Errors, 2)
	for _, e := range r.Errors {
		assert.Contains(t, e, "point 1")
	}
}

func TestOverrideDoesNotRelaxGlobalBound(t *testing.T) {
	// A path whose own default is high does not permit a point override
	// above the hard limit.
	cfg := safeConfig(t)
	pathTemp := 118.0
	pointTemp := 121.0
	path, err := model.NewWeldPath("p1", model.Normal, []model.WeldPoint{
		{X: 0, Y: 0, Kind: model.Normal,
			Overrides: model.Overrides{Temperature: &pointTemp}},
	})
	require.NoError(t, err)
	path.Overrides.Temperature = &pathTemp

	r := Validate([]model.WeldPath{path}, cfg)
	assert.False(t, r.OK())
}

func TestAllViolationsCollected(t *testing.T) {
	cfg := safeConfig(t)
	cfg.NormalWelds.WeldTemperature = 121
	cfg.FrangibleWelds.WeldTime = 5.1
	cfg.Movement.TravelSpeed = 3001

	r := Validate(nil, cfg)
	assert.Len(t, r.Errors, 3)
}
