// Package metrics exposes run progress as Prometheus metrics.
package metrics

import (
	"context"
	"net/http"

	"github.com/RayMarquina/dbt-project-sub004/internal/progress"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is a progress.Sink backed by its own Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	nodesTotal    *prometheus.CounterVec
	nodeDuration  *prometheus.HistogramVec
	nodesInFlight prometheus.Gauge
	nodesSelected prometheus.Gauge
	runsTotal     *prometheus.CounterVec
}

// New registers every collector on a fresh registry, including the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		nodesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphrun_nodes_total",
				Help: "Total number of finished nodes by status",
			},
			[]string{"status"},
		),
		nodeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "graphrun_node_duration_seconds",
				Help:    "Wall-clock duration of node executions in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"status"},
		),
		nodesInFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "graphrun_nodes_in_flight",
			Help: "Number of nodes currently executing",
		}),
		nodesSelected: factory.NewGauge(prometheus.GaugeOpts{
			Name: "graphrun_nodes_selected",
			Help: "Number of nodes counted toward progress in the current run",
		}),
		runsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "graphrun_runs_total",
				Help: "Total number of finished runs by final state",
			},
			[]string{"state"},
		),
	}
}

// Emit implements progress.Sink.
func (m *Metrics) Emit(_ context.Context, ev progress.Event) {
	switch ev.Type {
	case progress.RunStarted:
		m.nodesSelected.Set(float64(ev.Total))
	case progress.NodeStarted:
		m.nodesInFlight.Inc()
	case progress.NodeFinished:
		m.nodesInFlight.Dec()
		m.nodesTotal.WithLabelValues(string(ev.Status)).Inc()
		m.nodeDuration.WithLabelValues(string(ev.Status)).Observe(ev.Duration.Seconds())
	case progress.RunFinished:
		m.runsTotal.WithLabelValues(ev.State).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
