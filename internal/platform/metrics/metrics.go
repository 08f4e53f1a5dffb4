package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "evals"

type Collector struct {
	Registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	transitions         *prometheus.CounterVec
	transitionConflicts prometheus.Counter
	importCommits       prometheus.Counter
	importRowErrors     prometheus.Counter
	sheetsGenerated     prometheus.Counter
	generationSkips     prometheus.Counter
}

func New() *Collector {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Collector{
		Registry: registry,
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transitions: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_transitions_total",
			Help:      "Total number of successful sheet workflow transitions by action.",
		}, []string{"action"}),
		transitionConflicts: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_transition_conflicts_total",
			Help:      "Total number of transitions rejected by the optimistic concurrency check.",
		}),
		importCommits: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "template_import_commits_total",
			Help:      "Total number of committed template import batches.",
		}),
		importRowErrors: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "template_import_row_errors_total",
			Help:      "Total number of rejected template import rows.",
		}),
		sheetsGenerated: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sheets_generated_total",
			Help:      "Total number of evaluation sheets created by cycle generation.",
		}),
		generationSkips: auto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_skips_total",
			Help:      "Total number of employees skipped during cycle generation.",
		}),
	}
}

func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, statusLabel(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (c *Collector) RecordTransition(action string) {
	c.transitions.WithLabelValues(action).Inc()
}

func (c *Collector) RecordTransitionConflict() {
	c.transitionConflicts.Inc()
}

func (c *Collector) RecordImportCommit(rowErrors int) {
	if rowErrors > 0 {
		c.importRowErrors.Add(float64(rowErrors))
		return
	}
	c.importCommits.Inc()
}

func (c *Collector) RecordGeneration(created, skipped int) {
	c.sheetsGenerated.Add(float64(created))
	c.generationSkips.Add(float64(skipped))
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
