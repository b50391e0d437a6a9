// Package metrics exposes Prometheus instruments for dataset loads and
// hypothesis test runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	datasetLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bikestats_dataset_loads_total",
		Help: "Dataset loads by outcome",
	}, []string{"outcome"})

	datasetLoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bikestats_dataset_load_duration_seconds",
		Help:    "Time to load and derive the dataset",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
	})

	datasetRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bikestats_dataset_records",
		Help: "Records in the published dataset",
	})

	testRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bikestats_test_runs_total",
		Help: "Hypothesis test runs by kind and decision",
	}, []string{"kind", "decision"})

	testRunDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bikestats_test_run_duration_seconds",
		Help:    "Hypothesis test latency",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	}, []string{"kind"})

	exports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bikestats_exports_total",
		Help: "Exports by format and outcome",
	}, []string{"format", "outcome"})
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}

// ObserveLoad records one load attempt. records is ignored on failure.
func ObserveLoad(elapsed time.Duration, records int, err error) {
	datasetLoads.WithLabelValues(outcome(err)).Inc()
	datasetLoadDuration.Observe(elapsed.Seconds())
	if err == nil {
		datasetRecords.Set(float64(records))
	}
}

// ObserveTestRun records one test run. A failed run is counted with the
// decision "error".
func ObserveTestRun(kind, decision string, elapsed time.Duration, err error) {
	if err != nil {
		decision = OutcomeError
	}
	testRuns.WithLabelValues(kind, decision).Inc()
	testRunDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// ObserveExport records one export.
func ObserveExport(format string, err error) {
	exports.WithLabelValues(format, outcome(err)).Inc()
}
