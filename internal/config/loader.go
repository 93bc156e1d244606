// Package config loads benchmark settings from YAML or JSON files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/apibench/internal/bench"
	apihttp "github.com/wesleyorama2/apibench/internal/http"
)

// Config is the benchmark configuration file structure.
type Config struct {
	// URL is the values endpoint every strategy calls
	URL string `json:"url" yaml:"url"`

	// Iterations is the number of timed runs per strategy
	Iterations int `json:"iterations" yaml:"iterations"`

	// Warmup is the warm-up failure policy: abort or ignore
	Warmup string `json:"warmup" yaml:"warmup"`

	// Strategies restricts the run to these labels; empty means all
	Strategies []string `json:"strategies,omitempty" yaml:"strategies,omitempty"`

	// Timeout is an overall per-request timeout ("30s", "500ms", "5"); empty means none
	Timeout string `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// FreshPostClient gives every POST its own connection pool
	FreshPostClient *bool `json:"freshPostClient,omitempty" yaml:"freshPostClient,omitempty"`

	// Headers are sent with every request
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// PayloadFile is a JSON document POST strategies send instead of the
	// result of the GET warm-up
	PayloadFile string `json:"payloadFile,omitempty" yaml:"payloadFile,omitempty"`

	Output OutputConfig `json:"output" yaml:"output"`
}

// OutputConfig controls how results are printed.
type OutputConfig struct {
	// Format is text, json or yaml
	Format  string `json:"format" yaml:"format"`
	NoColor bool   `json:"noColor,omitempty" yaml:"noColor,omitempty"`
	Verbose bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	fresh := true
	return &Config{
		URL:             apihttp.DefaultEndpoint,
		Iterations:      bench.DefaultIterations,
		Warmup:          string(bench.WarmupAbort),
		FreshPostClient: &fresh,
		Output: OutputConfig{
			Format: "text",
		},
	}
}

// LoadConfig loads a configuration file on top of the defaults.
//
// The file format is determined by extension:
//   - .yaml, .yml -> YAML
//   - .json -> JSON
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data, path)
}

// ParseConfig parses configuration data on top of the defaults. The format
// follows the extension of path and falls back to YAML.
func ParseConfig(data []byte, path string) (*Config, error) {
	config := Default()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config (unknown format %s): %w", ext, err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// TimeoutDuration returns the parsed Timeout. Zero means no timeout.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	return ParseDurationString(c.Timeout)
}

// UseFreshPostClient reports whether POSTs get their own connection pool.
func (c *Config) UseFreshPostClient() bool {
	return c.FreshPostClient == nil || *c.FreshPostClient
}

// ParseDurationString parses a duration string with support for common formats.
//
// Supported formats:
//   - Standard Go duration: "30s", "2m", "500ms"
//   - Seconds as integer: "30" (treated as 30 seconds)
func ParseDurationString(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}

	var seconds int
	var rest string
	if n, _ := fmt.Sscanf(s, "%d%s", &seconds, &rest); n == 1 {
		return time.Duration(seconds) * time.Second, nil
	}

	return 0, fmt.Errorf("invalid duration format: %s", s)
}
