package metrics

import (
	"time"

	bosherr "github.com/cloudfoundry/bosh-utils/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "bosh_alongside"

type Recorder interface {
	RecordScan(partitions int, err error)
	RecordAnalysis(result string)
	ObserveStage(stage string, outcome string, duration time.Duration)
	RecordShrinkOutcome(state string)
}

type Registry struct {
	registry *prometheus.Registry

	scans                 *prometheus.CounterVec
	installablePartitions prometheus.Gauge
	analyses              *prometheus.CounterVec
	stageDuration         *prometheus.HistogramVec
	shrinkOutcomes        *prometheus.CounterVec
}

func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		scans: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scans_total",
				Help:      "Number of disk catalog scans by result",
			},
			[]string{"result"},
		),
		installablePartitions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "installable_partitions",
				Help:      "Partitions offered by the last successful scan",
			},
		),
		analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "capacity_analyses_total",
				Help:      "Number of capacity analyses by result",
			},
			[]string{"result"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "shrink_stage_duration_seconds",
				Help:      "Duration of shrink stages",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800, 3600},
			},
			[]string{"stage", "outcome"},
		),
		shrinkOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shrinks_total",
				Help:      "Number of shrink executions by final state",
			},
			[]string{"state"},
		),
	}

	r.registry.MustRegister(r.scans, r.installablePartitions, r.analyses, r.stageDuration, r.shrinkOutcomes)

	return r
}

func (r *Registry) RecordScan(partitions int, err error) {
	if err != nil {
		r.scans.WithLabelValues("error").Inc()
		return
	}

	r.scans.WithLabelValues("ok").Inc()
	r.installablePartitions.Set(float64(partitions))
}

func (r *Registry) RecordAnalysis(result string) {
	r.analyses.WithLabelValues(result).Inc()
}

func (r *Registry) ObserveStage(stage string, outcome string, duration time.Duration) {
	r.stageDuration.WithLabelValues(stage, outcome).Observe(duration.Seconds())
}

func (r *Registry) RecordShrinkOutcome(state string) {
	r.shrinkOutcomes.WithLabelValues(state).Inc()
}

func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile exports all metrics in the node_exporter textfile format
func (r *Registry) WriteTextfile(path string) error {
	err := prometheus.WriteToTextfile(path, r.registry)
	if err != nil {
		return bosherr.WrapErrorf(err, "Writing metrics to `%s'", path)
	}

	return nil
}
