// Package metrics exposes run counters for kielabel commands. The tool is a
// batch CLI, so metrics are written to a node-exporter textfile instead of
// being served.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder owns a private registry and the kielabel collectors.
type Recorder struct {
	reg *prometheus.Registry

	recordsTotal    *prometheus.CounterVec
	skippedLines    *prometheus.CounterVec
	degenerateItems prometheus.Counter
	valuesAssigned  *prometheus.CounterVec
	problemsFound   *prometheus.CounterVec
	filesRewritten  *prometheus.CounterVec
	runDuration     *prometheus.HistogramVec
}

// New returns a Recorder with every collector registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		reg: reg,
		recordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kielabel_records_total",
				Help: "Total number of label file records read",
			},
			[]string{"command"},
		),
		skippedLines: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kielabel_skipped_lines_total",
				Help: "Lines that could not be parsed",
			},
			[]string{"command", "reason"}, // reason: missing_separator, malformed_payload
		),
		degenerateItems: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "kielabel_degenerate_items_total",
				Help: "Annotation items skipped for unusable polygons",
			},
		),
		valuesAssigned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kielabel_values_assigned_total",
				Help: "Field values assigned, by key class and source",
			},
			[]string{"key", "source"}, // source: candidate, inline
		),
		problemsFound: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kielabel_check_problems_total",
				Help: "Validation problems found by check",
			},
			[]string{"reason"},
		),
		filesRewritten: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "kielabel_files_rewritten_total",
				Help: "Files written by a command",
			},
			[]string{"command"},
		),
		runDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "kielabel_run_duration_seconds",
				Help:    "Duration of one command over one input",
				Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60},
			},
			[]string{"command"},
		),
	}
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// ObserveRecord counts one parsed record.
func (r *Recorder) ObserveRecord(command string) {
	r.recordsTotal.WithLabelValues(command).Inc()
}

// ObserveSkip counts one unparseable line.
func (r *Recorder) ObserveSkip(command, reason string) {
	r.skippedLines.WithLabelValues(command, reason).Inc()
}

// ObserveDegenerate counts n skipped annotation items.
func (r *Recorder) ObserveDegenerate(n int) {
	r.degenerateItems.Add(float64(n))
}

// ObserveValue counts one assigned field value.
func (r *Recorder) ObserveValue(key, source string) {
	r.valuesAssigned.WithLabelValues(key, source).Inc()
}

// ObserveProblem counts one validation finding.
func (r *Recorder) ObserveProblem(reason string) {
	r.problemsFound.WithLabelValues(reason).Inc()
}

// ObserveRewrite counts one file written by command.
func (r *Recorder) ObserveRewrite(command string) {
	r.filesRewritten.WithLabelValues(command).Inc()
}

// ObserveDuration records how long command took on one input.
func (r *Recorder) ObserveDuration(command string, d time.Duration) {
	r.runDuration.WithLabelValues(command).Observe(d.Seconds())
}

// WriteTextfile writes every collected metric to path in the text exposition
// format. A nil Recorder or an empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
