package bench

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// histogram range in microseconds: 1us to 1h, 3 significant figures
	histogramMin     = 1
	histogramMax     = int64(time.Hour / time.Microsecond)
	histogramSigFigs = 3
)

// Distribution summarizes the spread of a strategy's samples.
type Distribution struct {
	Min time.Duration `json:"min" yaml:"min"`
	P50 time.Duration `json:"p50" yaml:"p50"`
	P95 time.Duration `json:"p95" yaml:"p95"`
	P99 time.Duration `json:"p99" yaml:"p99"`
	Max time.Duration `json:"max" yaml:"max"`
}

// latencyRecorder wraps an HDR histogram. It is not safe for concurrent use;
// the harness only records from one goroutine.
type latencyRecorder struct {
	hist *hdrhistogram.Histogram
}

func newLatencyRecorder() *latencyRecorder {
	return &latencyRecorder{
		hist: hdrhistogram.New(histogramMin, histogramMax, histogramSigFigs),
	}
}

func (r *latencyRecorder) record(d time.Duration) {
	micros := d.Microseconds()
	if micros < histogramMin {
		micros = histogramMin
	}
	if micros > histogramMax {
		micros = histogramMax
	}
	// cannot fail after clamping
	_ = r.hist.RecordValue(micros)
}

func (r *latencyRecorder) distribution() Distribution {
	if r.hist.TotalCount() == 0 {
		return Distribution{}
	}
	return Distribution{
		Min: micros(r.hist.Min()),
		P50: micros(r.hist.ValueAtQuantile(50)),
		P95: micros(r.hist.ValueAtQuantile(95)),
		P99: micros(r.hist.ValueAtQuantile(99)),
		Max: micros(r.hist.Max()),
	}
}

func micros(v int64) time.Duration {
	return time.Duration(v) * time.Microsecond
}
