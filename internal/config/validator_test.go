package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(c *Config)
		wantPath string
	}{
		{name: "missing url", mutate: func(c *Config) { c.URL = "" }, wantPath: "url"},
		{name: "non http url", mutate: func(c *Config) { c.URL = "ftp://host/values" }, wantPath: "url"},
		{name: "url without host", mutate: func(c *Config) { c.URL = "http:///values" }, wantPath: "url"},
		{name: "zero iterations", mutate: func(c *Config) { c.Iterations = 0 }, wantPath: "iterations"},
		{name: "bad warmup", mutate: func(c *Config) { c.Warmup = "retry" }, wantPath: "warmup"},
		{name: "unknown strategy", mutate: func(c *Config) { c.Strategies = []string{"basic-get", "turbo-get"} }, wantPath: "strategies[1]"},
		{name: "bad timeout", mutate: func(c *Config) { c.Timeout = "later" }, wantPath: "timeout"},
		{name: "negative timeout", mutate: func(c *Config) { c.Timeout = "-1s" }, wantPath: "timeout"},
		{name: "empty header", mutate: func(c *Config) { c.Headers = map[string]string{" ": "x"} }, wantPath: "headers"},
		{name: "bad format", mutate: func(c *Config) { c.Output.Format = "xml" }, wantPath: "output.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)

			err := c.Validate()
			require.Error(t, err)

			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.wantPath, verrs[0].Path)
		})
	}
}

func TestValidate_ReportsEverything(t *testing.T) {
	c := Default()
	c.URL = ""
	c.Iterations = -1
	c.Output.Format = "html"

	err := c.Validate()
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)
	assert.Contains(t, err.Error(), "invalid configuration: url: url is required")
}

func TestValidate_StrategyLabelsAreNormalized(t *testing.T) {
	c := Default()
	c.Strategies = []string{" Stream-Headers-Get"}
	assert.NoError(t, c.Validate())
}
