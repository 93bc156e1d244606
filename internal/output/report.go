package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/wesleyorama2/apibench/internal/bench"
)

// OutputFormat represents the benchmark report format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// ResultReporter is a bench.Reporter that may buffer until Flush.
type ResultReporter interface {
	bench.Reporter
	Flush() error
}

// NewReporter returns the reporter for format writing to w.
func NewReporter(format OutputFormat, w io.Writer, verbose, noColor bool) (ResultReporter, error) {
	switch format {
	case FormatText, "":
		return NewTextReporter(w, verbose, noColor), nil
	case FormatJSON, FormatYAML:
		return &SummaryReporter{w: w, format: format, started: time.Now(), verbose: verbose}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}

// TextReporter prints one line per strategy as soon as it finishes:
//
//	<label> : Average <ms> ms
type TextReporter struct {
	w       io.Writer
	verbose bool
	colors  *ColorScheme
}

// NewTextReporter creates a TextReporter. Colors are used only when w is a
// terminal and noColor is false.
func NewTextReporter(w io.Writer, verbose, noColor bool) *TextReporter {
	return &TextReporter{
		w:       w,
		verbose: verbose,
		colors:  SchemeFor(w, noColor),
	}
}

// Report writes the result line.
func (r *TextReporter) Report(result *bench.Result) error {
	_, err := fmt.Fprintf(r.w, "%s : Average %s ms\n",
		r.colors.Label.Sprint(result.Label),
		r.colors.Mean.Sprint(FormatMillis(result.MeanMillis)))
	if err != nil || !r.verbose {
		return err
	}

	d := result.Distribution
	_, err = fmt.Fprintln(r.w, r.colors.Stat.Sprintf("  runs=%d min=%s p50=%s p95=%s p99=%s max=%s",
		result.Iterations, d.Min, d.P50, d.P95, d.P99, d.Max))
	return err
}

// Flush is a no-op; lines are written as results arrive.
func (r *TextReporter) Flush() error {
	return nil
}

// Summary is the document written by the json and yaml reporters.
type Summary struct {
	StartedAt  string          `json:"startedAt" yaml:"startedAt"`
	Strategies []SummaryResult `json:"strategies" yaml:"strategies"`
}

// SummaryResult is one strategy in a Summary, with durations in milliseconds.
type SummaryResult struct {
	Label      string  `json:"label" yaml:"label"`
	Iterations int     `json:"iterations" yaml:"iterations"`
	MeanMs     float64 `json:"meanMs" yaml:"meanMs"`
	MinMs      float64 `json:"minMs" yaml:"minMs"`
	P50Ms      float64 `json:"p50Ms" yaml:"p50Ms"`
	P95Ms      float64 `json:"p95Ms" yaml:"p95Ms"`
	P99Ms      float64 `json:"p99Ms" yaml:"p99Ms"`
	MaxMs      float64 `json:"maxMs" yaml:"maxMs"`
	SamplesMs  []int64 `json:"samplesMs,omitempty" yaml:"samplesMs,omitempty"`
}

// SummaryReporter collects results and writes them as one JSON or YAML
// document on Flush.
type SummaryReporter struct {
	w       io.Writer
	format  OutputFormat
	started time.Time
	verbose bool
	results []SummaryResult
}

// Report records result for the summary.
func (r *SummaryReporter) Report(result *bench.Result) error {
	d := result.Distribution
	entry := SummaryResult{
		Label:      result.Label,
		Iterations: result.Iterations,
		MeanMs:     result.MeanMillis,
		MinMs:      millis(d.Min),
		P50Ms:      millis(d.P50),
		P95Ms:      millis(d.P95),
		P99Ms:      millis(d.P99),
		MaxMs:      millis(d.Max),
	}
	if r.verbose {
		entry.SamplesMs = result.SampleMillis()
	}
	r.results = append(r.results, entry)
	return nil
}

// Flush writes the summary document.
func (r *SummaryReporter) Flush() error {
	summary := Summary{
		StartedAt:  r.started.UTC().Format(time.RFC3339),
		Strategies: r.results,
	}
	if summary.Strategies == nil {
		summary.Strategies = []SummaryResult{}
	}

	switch r.format {
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(summary); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}
}

// FormatMillis renders a mean without trailing zeros: 30, 12.5, 0.33.
func FormatMillis(ms float64) string {
	return strconv.FormatFloat(ms, 'f', -1, 64)
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
