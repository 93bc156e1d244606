package config

import (
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. APIBENCH_URL or
// APIBENCH_OUTPUT_FORMAT.
const EnvPrefix = "APIBENCH"

// ApplyEnv overlays APIBENCH_* environment variables onto the configuration.
// Unset or empty variables leave the current value alone. Strategies are
// comma separated.
func (c *Config) ApplyEnv() error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	keys := []string{
		"url", "iterations", "warmup", "strategies", "timeout",
		"fresh_post_client", "payload_file",
		"output.format", "output.no_color", "output.verbose",
	}
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}

	if v.IsSet("url") {
		c.URL = v.GetString("url")
	}
	if v.IsSet("iterations") {
		c.Iterations = v.GetInt("iterations")
	}
	if v.IsSet("warmup") {
		c.Warmup = v.GetString("warmup")
	}
	if v.IsSet("strategies") {
		c.Strategies = splitList(v.GetString("strategies"))
	}
	if v.IsSet("timeout") {
		c.Timeout = v.GetString("timeout")
	}
	if v.IsSet("fresh_post_client") {
		fresh := v.GetBool("fresh_post_client")
		c.FreshPostClient = &fresh
	}
	if v.IsSet("payload_file") {
		c.PayloadFile = v.GetString("payload_file")
	}
	if v.IsSet("output.format") {
		c.Output.Format = v.GetString("output.format")
	}
	if v.IsSet("output.no_color") {
		c.Output.NoColor = v.GetBool("output.no_color")
	}
	if v.IsSet("output.verbose") {
		c.Output.Verbose = v.GetBool("output.verbose")
	}
	return nil
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
