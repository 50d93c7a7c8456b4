// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Color modes for Display.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds all contactbook configuration.
type Config struct {
	Storage Storage `yaml:"storage"`
	Display Display `yaml:"display"`
	Log     Log     `yaml:"log"`
}

// Storage holds contacts file settings.
type Storage struct {
	Path        string `yaml:"path"`          // Contacts file, relative to the working directory.
	LoadOnStart bool   `yaml:"load_on_start"` // Load the file when the menu starts.
}

// Display holds terminal output settings.
type Display struct {
	Color string `yaml:"color"` // "auto" | "always" | "never"
}

// Log holds structured log settings.
type Log struct {
	File  string `yaml:"file"`  // Empty disables logging.
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: Storage{
			Path:        "contacts.txt",
			LoadOnStart: true,
		},
		Display: Display{
			Color: ColorAuto,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing, empty and comment-only files
// are skipped. Invalid YAML or unknown fields are an error.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.Storage.Path == "" {
		return errors.New("config: storage.path cannot be empty")
	}
	switch c.Display.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("config: display.color must be \"auto\", \"always\" or \"never\", got %q", c.Display.Color)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	return nil
}

// ApplyEnv applies environment variable overrides to the config.
// Supported variables: CONTACTBOOK_FILE, CONTACTBOOK_LOAD_ON_START,
// CONTACTBOOK_COLOR, CONTACTBOOK_LOG_FILE.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("CONTACTBOOK_FILE"); v != "" {
		c.Storage.Path = v
	}
	if v := os.Getenv("CONTACTBOOK_LOAD_ON_START"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: invalid CONTACTBOOK_LOAD_ON_START %q: %w", v, err)
		}
		c.Storage.LoadOnStart = b
	}
	if v := os.Getenv("CONTACTBOOK_COLOR"); v != "" {
		c.Display.Color = v
	}
	if v := os.Getenv("CONTACTBOOK_LOG_FILE"); v != "" {
		c.Log.File = v
	}
	return nil
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Storage *rawStorage `yaml:"storage"`
	Display *rawDisplay `yaml:"display"`
	Log     *rawLog     `yaml:"log"`
}

type rawStorage struct {
	Path        *string `yaml:"path"`
	LoadOnStart *bool   `yaml:"load_on_start"`
}

type rawDisplay struct {
	Color *string `yaml:"color"`
}

type rawLog struct {
	File  *string `yaml:"file"`
	Level *string `yaml:"level"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Storage != nil {
		if layer.Storage.Path != nil {
			c.Storage.Path = *layer.Storage.Path
		}
		if layer.Storage.LoadOnStart != nil {
			c.Storage.LoadOnStart = *layer.Storage.LoadOnStart
		}
	}
	if layer.Display != nil {
		if layer.Display.Color != nil {
			c.Display.Color = *layer.Display.Color
		}
	}
	if layer.Log != nil {
		if layer.Log.File != nil {
			c.Log.File = *layer.Log.File
		}
		if layer.Log.Level != nil {
			c.Log.Level = *layer.Log.Level
		}
	}
}
