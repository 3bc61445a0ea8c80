// Package config loads the optional YAML settings file of the franklin
// command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/aerissecure/franklin/view"
)

// Config holds the settings a run can change. Schema, gene set and
// thresholds are fixed and not part of it.
type Config struct {
	Extension string `yaml:"extension"`
	OutputDir string `yaml:"output_dir"`
	GeneMatch string `yaml:"gene_match"`
	Verify    bool   `yaml:"verify"`
	LogLevel  string `yaml:"log_level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Extension: ".txt",
		GeneMatch: "exact",
		Verify:    true,
		LogLevel:  "info",
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated settings.
func (c Config) Validate() error {
	if _, err := c.GenePolicy(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if c.Extension == "" {
		return errors.New("extension must not be empty")
	}
	return nil
}

// GenePolicy maps gene_match to a view.GeneMatch.
func (c Config) GenePolicy() (view.GeneMatch, error) {
	switch strings.ToLower(c.GeneMatch) {
	case "", "exact":
		return view.MatchExact, nil
	case "fold":
		return view.MatchFold, nil
	}
	return 0, fmt.Errorf("gene_match %q: want exact or fold", c.GeneMatch)
}

// Level parses log_level.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("log_level: %w", err)
	}
	return lvl, nil
}
