// Package prometheus exports prioritypool metrics as Prometheus collectors.
package prometheus

import (
	"errors"
	"fmt"

	pp "github.com/Andrej220/go-utils/prioritypool"
	prom "github.com/prometheus/client_golang/prometheus"
)

// ExporterOptions controls collector configuration.
type ExporterOptions struct {
	// Namespace prefixes every metric name. Defaults to "prioritypool".
	Namespace string

	// Pool is the value of the "pool" label. Defaults to "default".
	Pool string
}

// MetricsExporter adapts prioritypool.MetricsPolicy to Prometheus collectors.
type MetricsExporter struct {
	submittedTotal     prom.Counter
	executedTotal      prom.Counter
	panickedTotal      prom.Counter
	reprioritizedTotal prom.Counter
	queueDepth         prom.Gauge
}

var _ pp.MetricsPolicy = (*MetricsExporter)(nil)

// NewMetricsExporter creates and registers the pool collectors on reg.
// A nil reg uses prom.DefaultRegisterer. Collectors already registered by
// an earlier exporter with the same namespace are reused.
func NewMetricsExporter(reg prom.Registerer, opts ExporterOptions) (*MetricsExporter, error) {
	namespace := normalizeLabel(opts.Namespace, "prioritypool")
	pool := normalizeLabel(opts.Pool, "default")
	if reg == nil {
		reg = prom.DefaultRegisterer
	}

	submittedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_submitted_total",
		Help:      "Total number of tasks submitted to the pool.",
	}, []string{"pool"})
	executedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_executed_total",
		Help:      "Total number of tasks executed by workers.",
	}, []string{"pool"})
	panickedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_panicked_total",
		Help:      "Total number of tasks that panicked.",
	}, []string{"pool"})
	reprioritizedVec := prom.NewCounterVec(prom.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_reprioritized_total",
		Help:      "Total number of priority adjustments made by the policy.",
	}, []string{"pool"})
	queueDepthVec := prom.NewGaugeVec(prom.GaugeOpts{
		Namespace: namespace,
		Name:      "queue_depth",
		Help:      "Current number of queued tasks.",
	}, []string{"pool"})

	var err error
	if submittedVec, err = registerCollector(reg, submittedVec); err != nil {
		return nil, err
	}
	if executedVec, err = registerCollector(reg, executedVec); err != nil {
		return nil, err
	}
	if panickedVec, err = registerCollector(reg, panickedVec); err != nil {
		return nil, err
	}
	if reprioritizedVec, err = registerCollector(reg, reprioritizedVec); err != nil {
		return nil, err
	}
	if queueDepthVec, err = registerCollector(reg, queueDepthVec); err != nil {
		return nil, err
	}

	return &MetricsExporter{
		submittedTotal:     submittedVec.WithLabelValues(pool),
		executedTotal:      executedVec.WithLabelValues(pool),
		panickedTotal:      panickedVec.WithLabelValues(pool),
		reprioritizedTotal: reprioritizedVec.WithLabelValues(pool),
		queueDepth:         queueDepthVec.WithLabelValues(pool),
	}, nil
}

func (m *MetricsExporter) IncSubmitted() { m.submittedTotal.Inc() }
func (m *MetricsExporter) IncExecuted()  { m.executedTotal.Inc() }
func (m *MetricsExporter) IncPanicked()  { m.panickedTotal.Inc() }

func (m *MetricsExporter) SetQueued(n int) { m.queueDepth.Set(float64(n)) }

func (m *MetricsExporter) IncReprioritized(n int) {
	m.reprioritizedTotal.Add(float64(n))
}

func normalizeLabel(v string, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func registerCollector[T prom.Collector](reg prom.Registerer, collector T) (T, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}

	var alreadyRegisteredErr prom.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return collector, fmt.Errorf("collector type mismatch for %T", collector)
		}
		return existing, nil
	}

	return collector, err
}
