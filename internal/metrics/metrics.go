// Package metrics exposes Prometheus metrics for model operations.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/saltyorg/wbnkit/internal/model"
)

const (
	Namespace = "wbnkit"

	NameOperations        = "model_operations_total"
	NameOperationDuration = "model_operation_duration_seconds"

	LabelOperation = "operation"
	LabelTable     = "table"
	LabelResult    = "result"

	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultError    = "error"
)

// Collector records model operations in its own registry.
type Collector struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New creates a collector with Go runtime and process collectors registered.
func New() *Collector {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Collector{
		registry: reg,
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name:      NameOperations,
				Help:      "Model operations by table and result",
				Namespace: Namespace,
			},
			[]string{LabelOperation, LabelTable, LabelResult},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:      NameOperationDuration,
				Help:      "Model operation latency",
				Namespace: Namespace,
				Buckets:   prometheus.DefBuckets,
			},
			[]string{LabelOperation, LabelTable},
		),
	}
}

// Observe records one operation. It matches model.WithObserver.
func (c *Collector) Observe(op model.Op) {
	c.operations.With(prometheus.Labels{
		LabelOperation: op.Name,
		LabelTable:     op.Table,
		LabelResult:    resultOf(op.Err),
	}).Inc()

	c.duration.With(prometheus.Labels{
		LabelOperation: op.Name,
		LabelTable:     op.Table,
	}).Observe(op.Duration.Seconds())
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return ResultOK
	case errors.Is(err, model.ErrRecordNotFound):
		return ResultNotFound
	default:
		return ResultError
	}
}
