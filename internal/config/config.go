// Package config loads the optional YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the defaults for command flags. Flags given on the command line
// take precedence.
type Config struct {
	LogLevel    string   `yaml:"log_level"`
	VPKPrefix   string   `yaml:"vpk_prefix"`
	ImageFormat string   `yaml:"image_format"`
	PreviewSize int      `yaml:"preview_size"`
	Threads     int      `yaml:"threads"`
	Entities    Entities `yaml:"entities"`
}

// Entities configures entity output.
type Entities struct {
	// Multi emits every value of duplicated keys as a list.
	Multi bool `yaml:"multi"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		LogLevel:    "off",
		VPKPrefix:   "english",
		ImageFormat: "png",
		PreviewSize: 256,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/srcasset/config.yaml or its platform
// equivalent.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "srcasset", "config.yaml"), nil
}

// Parse decodes buf over the defaults. Unknown keys are an error.
func Parse(buf []byte) (Config, error) {
	c := Default()
	if len(bytes.TrimSpace(buf)) == 0 {
		return c, nil
	}
	d := yaml.NewDecoder(bytes.NewReader(buf))
	d.KnownFields(true)
	if err := d.Decode(&c); err != nil {
		return c, fmt.Errorf("parse config: %w", err)
	}
	if c.PreviewSize < 0 {
		return c, fmt.Errorf("parse config: preview_size must not be negative")
	}
	if c.Threads < 0 {
		return c, fmt.Errorf("parse config: threads must not be negative")
	}
	return c, nil
}

// Load reads the config file at path. If optional is set, a missing file
// yields the defaults.
func Load(path string, optional bool) (Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("read config: %w", err)
	}
	return Parse(buf)
}
