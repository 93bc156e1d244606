package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wesleyorama2/apibench/internal/bench"
	"github.com/wesleyorama2/apibench/internal/strategy"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidationErrors is every problem found in a configuration.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

var validFormats = []string{"text", "json", "yaml"}

// Validate checks the configuration and reports every problem at once.
func (c *Config) Validate() error {
	var errors ValidationErrors

	if c.URL == "" {
		errors = append(errors, ValidationError{Path: "url", Message: "url is required"})
	} else if u, err := url.Parse(c.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, ValidationError{Path: "url", Message: fmt.Sprintf("invalid http(s) url: %s", c.URL)})
	}

	if c.Iterations < 1 {
		errors = append(errors, ValidationError{Path: "iterations", Message: "must be at least 1"})
	}

	if _, err := bench.ParseWarmupPolicy(c.Warmup); err != nil {
		errors = append(errors, ValidationError{Path: "warmup", Message: err.Error()})
	}

	known := make(map[string]bool)
	for _, label := range strategy.Labels() {
		known[label] = true
	}
	for i, label := range c.Strategies {
		if !known[strings.ToLower(strings.TrimSpace(label))] {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("strategies[%d]", i),
				Message: fmt.Sprintf("unknown strategy %q", label),
			})
		}
	}

	if d, err := c.TimeoutDuration(); err != nil {
		errors = append(errors, ValidationError{Path: "timeout", Message: err.Error()})
	} else if d < 0 {
		errors = append(errors, ValidationError{Path: "timeout", Message: "cannot be negative"})
	}

	for key := range c.Headers {
		if strings.TrimSpace(key) == "" {
			errors = append(errors, ValidationError{Path: "headers", Message: "header name cannot be empty"})
		}
	}

	if !stringInSlice(c.Output.Format, validFormats) {
		errors = append(errors, ValidationError{
			Path:    "output.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: %s", c.Output.Format, strings.Join(validFormats, ", ")),
		})
	}

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func stringInSlice(s string, list []string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
