// Package config loads the optional .seqqc.yaml configuration.
// Resolution order: explicit -config flag, SEQQC_CONFIG env var, a
// .seqqc.yaml in the working directory, then the user config dir.
// Absent config is not an error; defaults apply.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	OutputDir string `yaml:"output_dir"`
	// IgnoreSamples are glob patterns; matching sample names are
	// dropped from every module.
	IgnoreSamples []string `yaml:"ignore_samples"`
	// ExtraCleanExts extend the default sample-name extension strip
	// list.
	ExtraCleanExts []string `yaml:"extra_clean_exts"`
	// KeepReadMarkers disables trimming of trailing _1/_2/_R1/_R2
	// read-pair markers from sample names.
	KeepReadMarkers bool `yaml:"keep_read_markers"`

	Crosscheck CrosscheckConfig `yaml:"crosscheck"`
}

// CrosscheckConfig overrides the crosscheck table's column lists.
// A nil list keeps the built-in default.
type CrosscheckConfig struct {
	TableCols       []string `yaml:"table_cols"`
	TableColsHidden []string `yaml:"table_cols_hidden"`
}

const configName = ".seqqc.yaml"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:  "info",
		OutputDir: "seqqc_data",
	}
}

// Load reads the configuration from path, or from the first discovered
// config file when path is empty. Missing discovered files fall back
// to defaults; an explicit path that cannot be read is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = discoverPath()
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "seqqc_data"
	}
	return cfg, nil
}

func discoverPath() string {
	if p := os.Getenv("SEQQC_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat(configName); err == nil {
		return configName
	}
	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "seqqc", "config.yaml")
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
