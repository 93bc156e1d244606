package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/apibench/internal/bench"
	"github.com/wesleyorama2/apibench/internal/config"
	apihttp "github.com/wesleyorama2/apibench/internal/http"
	"github.com/wesleyorama2/apibench/internal/logger"
	"github.com/wesleyorama2/apibench/internal/model"
	"github.com/wesleyorama2/apibench/internal/output"
	"github.com/wesleyorama2/apibench/internal/server"
	"github.com/wesleyorama2/apibench/internal/strategy"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Benchmark every call strategy against the values endpoint",
		Long: `Run warms up each selected strategy once, then times it for the configured
number of iterations and prints its mean latency.

Strategies, in order:
  basic-get, cancellable-get, status-checked-get, api-error-get,
  stream-get, stream-headers-get, basic-post, stream-post

Values are taken from --config, then APIBENCH_* environment variables
(APIBENCH_URL, APIBENCH_ITERATIONS, APIBENCH_STRATEGIES, ...), then flags.`,
		Args: cobra.NoArgs,
		RunE: runBenchmark,
	}

	cmd.Flags().StringP("config", "c", "", "Benchmark configuration file (YAML or JSON)")
	cmd.Flags().StringP("url", "u", apihttp.DefaultEndpoint, "Values endpoint to call")
	cmd.Flags().IntP("iterations", "n", bench.DefaultIterations, "Timed runs per strategy")
	cmd.Flags().String("warmup", string(bench.WarmupAbort), "What to do when a warm-up call fails (abort, ignore)")
	cmd.Flags().StringArrayP("strategy", "s", []string{}, "Strategy to run (can be used multiple times; default all)")
	cmd.Flags().StringP("timeout", "t", "", "Per-request timeout, e.g. 5s (default none)")
	cmd.Flags().StringArrayP("header", "H", []string{}, "HTTP headers to include (can be used multiple times)")
	cmd.Flags().String("payload-file", "", "JSON file POST strategies send instead of the GET result")
	cmd.Flags().Bool("fresh-post-client", true, "Give every POST its own connection pool")
	cmd.Flags().StringP("format", "f", string(output.FormatText), "Output format (text, json, yaml)")
	cmd.Flags().Bool("no-color", false, "Disable colored output")
	cmd.Flags().BoolP("verbose", "v", false, "Show min/percentiles/max for each strategy")
	return cmd
}

func runBenchmark(cmd *cobra.Command, _ []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return err
	}
	options := []apihttp.ClientOption{
		apihttp.WithEndpoint(cfg.URL),
		apihttp.WithTimeout(timeout),
		apihttp.WithFreshPostClient(cfg.UseFreshPostClient()),
	}
	for key, value := range cfg.Headers {
		options = append(options, apihttp.WithHeader(key, value))
	}
	client := apihttp.NewClient(options...)

	selected, err := strategy.Select(strategy.All(strategy.NewCaller(client)), cfg.Strategies)
	if err != nil {
		return err
	}

	warmup, err := bench.ParseWarmupPolicy(cfg.Warmup)
	if err != nil {
		return err
	}

	reporter, err := output.NewReporter(output.OutputFormat(cfg.Output.Format), cmd.OutOrStdout(), cfg.Output.Verbose, cfg.Output.NoColor)
	if err != nil {
		return err
	}

	driver := &bench.Driver{
		Harness:    bench.NewHarness(),
		Strategies: selected,
		Iterations: cfg.Iterations,
		Warmup:     warmup,
		Reporter:   reporter,
		Logger:     *logger.Get(),
	}
	if cfg.PayloadFile != "" {
		payload, err := loadPayloadRecords(cfg.PayloadFile)
		if err != nil {
			return err
		}
		driver.Payload = payload
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger.Get().Debug().
		Str("url", cfg.URL).
		Int("iterations", cfg.Iterations).
		Int("strategies", len(selected)).
		Msg("starting benchmark")

	_, runErr := driver.Run(ctx)
	if err := reporter.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// loadRunConfig reads --config (or the defaults) and applies every flag the
// user set explicitly on top of it.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	cfg := config.Default()
	if path, _ := flags.GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if flags.Changed("url") {
		cfg.URL, _ = flags.GetString("url")
	}
	if flags.Changed("iterations") {
		cfg.Iterations, _ = flags.GetInt("iterations")
	}
	if flags.Changed("warmup") {
		cfg.Warmup, _ = flags.GetString("warmup")
	}
	if flags.Changed("strategy") {
		cfg.Strategies, _ = flags.GetStringArray("strategy")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetString("timeout")
	}
	if flags.Changed("header") {
		raw, _ := flags.GetStringArray("header")
		headers, err := parseHeaders(raw)
		if err != nil {
			return nil, err
		}
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(headers))
		}
		for key, value := range headers {
			cfg.Headers[key] = value
		}
	}
	if flags.Changed("payload-file") {
		cfg.PayloadFile, _ = flags.GetString("payload-file")
	}
	if flags.Changed("fresh-post-client") {
		fresh, _ := flags.GetBool("fresh-post-client")
		cfg.FreshPostClient = &fresh
	}
	if flags.Changed("format") {
		cfg.Output.Format, _ = flags.GetString("format")
	}
	if flags.Changed("no-color") {
		cfg.Output.NoColor, _ = flags.GetBool("no-color")
	}
	if flags.Changed("verbose") {
		cfg.Output.Verbose, _ = flags.GetBool("verbose")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadPayloadRecords(path string) ([]model.Record, error) {
	data, err := server.LoadPayload(path)
	if err != nil {
		return nil, err
	}
	var records []model.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}
