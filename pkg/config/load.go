package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Load reads configuration from the first config.toml or microweldr.toml
// found by walking up from the working directory, then
// ~/.microweldr/config.toml. When no file exists the defaults are used as-is.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path := findConfigFile(); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	return LoadWithViper(v)
}

// LoadFromFile loads configuration from a specific file path, merged over
// the defaults.
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	return LoadWithViper(v)
}

// LoadWithViper unmarshals configuration from a prepared Viper instance.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// findConfigFile searches for config.toml by walking up the directory tree
// from the working directory, then falls back to ~/.microweldr/config.toml.
// Returns empty string when no config file exists.
func findConfigFile() string {
	dir, err := os.Getwd()
	if err == nil {
		for {
			for _, name := range []string{"config.toml", "microweldr.toml"} {
				path := filepath.Join(dir, name)
				if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
					return path
				}
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".microweldr", "config.toml")
		if info, statErr := os.Stat(path); statErr == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
