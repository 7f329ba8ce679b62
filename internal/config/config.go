// Package config loads and validates tether's TOML configuration.
//
// A configuration names the JSON data document to bind against, an
// optional metadata document for type inference, watch settings for
// live reload, and the set of property bindings to create:
//
//	data_file = "data.json"
//	metadata_file = "metadata.json"
//	log_level = "info"
//
//	[watch]
//	enabled = true
//	debounce_ms = 100
//
//	[[binding]]
//	path = "Name"
//	context = "/Products/0"
//	auto_type = true
//
//	[[binding]]
//	path = "/Products/0/Price"
//	formatter = 'string.format("%.2f EUR", value)'
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config is the application configuration.
type Config struct {
	// DataFile is the JSON document the model serves reads from.
	DataFile string `toml:"data_file"`

	// MetadataFile is the optional metadata document for type
	// inference. Empty disables automatic type determination.
	MetadataFile string `toml:"metadata_file"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	LogLevel string `toml:"log_level"`

	// Watch configures live reload of the data file.
	Watch Watch `toml:"watch"`

	// Bindings lists the property bindings to create.
	Bindings []Binding `toml:"binding"`
}

// Watch configures data file watching.
type Watch struct {
	// Enabled turns live reload on.
	Enabled bool `toml:"enabled"`

	// DebounceMS is the quiet period before a burst of file events
	// triggers a single reload.
	DebounceMS int `toml:"debounce_ms"`
}

// Debounce returns the debounce duration.
func (w Watch) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Binding declares one property binding.
type Binding struct {
	// Path is the (possibly relative) binding path.
	Path string `toml:"path"`

	// Context is the absolute base path for a relative Path.
	Context string `toml:"context"`

	// Type names an explicit display type.
	Type string `toml:"type"`

	// Formatter is a Lua expression formatting the value; `value` is
	// in scope.
	Formatter string `toml:"formatter"`

	// AutoType requests one-shot automatic type determination when no
	// explicit type or formatter is set.
	AutoType bool `toml:"auto_type"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataFile: "data.json",
		LogLevel: "info",
		Watch: Watch{
			Enabled:    false,
			DebounceMS: 100,
		},
	}
}

// Load reads configuration from path, layered over the defaults. A
// missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{Path: path, Message: err.Error(), Err: err}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if c.DataFile == "" {
		return ErrNoDataFile
	}
	if c.Watch.DebounceMS < 0 {
		return fmt.Errorf("%w: debounce_ms must not be negative", ErrInvalidWatch)
	}
	for i, b := range c.Bindings {
		if b.Path == "" {
			return fmt.Errorf("%w: binding %d has no path", ErrInvalidBinding, i)
		}
		if b.Type != "" && b.Formatter != "" {
			return fmt.Errorf("%w: binding %d sets both type and formatter", ErrInvalidBinding, i)
		}
		if b.Context != "" && b.Context[0] != '/' {
			return fmt.Errorf("%w: binding %d context %q is not absolute", ErrInvalidBinding, i, b.Context)
		}
	}
	return nil
}
