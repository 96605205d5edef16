// Package metrics records provisioning metrics in a private Prometheus
// registry that is written out as a node-exporter textfile at the end of a
// run.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rookctl"

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Recorder holds the run's collectors. A nil *Recorder is valid and
// records nothing.
type Recorder struct {
	registry *prometheus.Registry

	phaseTotal    *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec
	manifestOps   *prometheus.CounterVec
	fetchTotal    *prometheus.CounterVec
	wipeCommands  *prometheus.CounterVec
	planNodes     prometheus.Gauge
	planMons      prometheus.Gauge
	lastRun       *prometheus.GaugeVec
}

// New creates a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		phaseTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "phase",
				Name:      "total",
				Help:      "Provisioning phases run by operation, phase and result",
			},
			[]string{"operation", "phase", "result"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "phase",
				Name:      "duration_seconds",
				Help:      "Duration of provisioning phases in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14), // 100ms to ~27min
			},
			[]string{"operation", "phase"},
		),
		manifestOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "manifest",
				Name:      "operations_total",
				Help:      "Manifest applies and deletes by file, action and result",
			},
			[]string{"file", "action", "result"},
		),
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "template",
				Name:      "fetch_total",
				Help:      "Template fetches by source and result",
			},
			[]string{"source", "result"},
		),
		wipeCommands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "wipe",
				Name:      "commands_total",
				Help:      "Host cleanup and device wipe commands by result",
			},
			[]string{"result"},
		),
		planNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "nodes",
			Help:      "Node count of the last storage plan",
		}),
		planMons: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "plan",
			Name:      "mon_count",
			Help:      "Monitor count of the last storage plan",
		}),
		lastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time the last run of an operation finished",
			},
			[]string{"operation", "result"},
		),
	}

	r.registry.MustRegister(
		r.phaseTotal,
		r.phaseDuration,
		r.manifestOps,
		r.fetchTotal,
		r.wipeCommands,
		r.planNodes,
		r.planMons,
		r.lastRun,
	)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObservePhase records one phase run.
func (r *Recorder) ObservePhase(operation, phase string, seconds float64, err error) {
	if r == nil {
		return
	}
	r.phaseTotal.WithLabelValues(operation, phase, result(err)).Inc()
	r.phaseDuration.WithLabelValues(operation, phase).Observe(seconds)
}

// ObserveManifest records an apply or delete of one staged file.
func (r *Recorder) ObserveManifest(file, action string, err error) {
	if r == nil {
		return
	}
	r.manifestOps.WithLabelValues(file, action, result(err)).Inc()
}

// ObserveFetch records one template fetch.
func (r *Recorder) ObserveFetch(source string, err error) {
	if r == nil {
		return
	}
	r.fetchTotal.WithLabelValues(source, result(err)).Inc()
}

// ObserveWipeCommand records one cleanup command.
func (r *Recorder) ObserveWipeCommand(err error) {
	if r == nil {
		return
	}
	r.wipeCommands.WithLabelValues(result(err)).Inc()
}

// SetPlan records the sizes of the computed storage plan.
func (r *Recorder) SetPlan(nodes, mons int) {
	if r == nil {
		return
	}
	r.planNodes.Set(float64(nodes))
	r.planMons.Set(float64(mons))
}

// MarkRun stamps the completion time of an operation.
func (r *Recorder) MarkRun(operation string, err error) {
	if r == nil {
		return
	}
	r.lastRun.WithLabelValues(operation, result(err)).SetToCurrentTime()
}

// WriteTextfile writes all metrics to path in the text exposition format,
// atomically, for the node-exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
