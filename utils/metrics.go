package utils

import (
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Metrics records simulation counters on a private registry
type Metrics struct {
	Registry *prometheus.Registry

	Generations  prometheus.Counter
	Resets       *prometheus.CounterVec
	Discarded    prometheus.Counter
	Population   prometheus.Gauge
	StepDuration prometheus.Histogram
}

// NewMetrics creates and registers the game metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Generations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gol_generations_total",
			Help: "Total number of generations computed and installed",
		}),
		Resets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gol_resets_total",
			Help: "Total number of board resets",
		}, []string{"reason"}),
		Discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gol_discarded_generations_total",
			Help: "Generations dropped because a reset replaced their parent board",
		}),
		Population: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gol_population",
			Help: "Living cells on the current board",
		}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "gol_step_duration_seconds",
			Help:    "Time spent computing one generation",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
	m.Registry.MustRegister(m.Generations, m.Resets, m.Discarded, m.Population, m.StepDuration)
	return m
}

// ObserveStep records a completed generation
func (m *Metrics) ObserveStep(population int, took time.Duration) {
	if m == nil {
		return
	}
	m.Generations.Inc()
	m.Population.Set(float64(population))
	m.StepDuration.Observe(took.Seconds())
}

// ObserveReset records a board reset
func (m *Metrics) ObserveReset(reason string, population int) {
	if m == nil {
		return
	}
	m.Resets.WithLabelValues(reason).Inc()
	m.Population.Set(float64(population))
}

// ObserveDiscard records a generation thrown away after a concurrent reset
func (m *Metrics) ObserveDiscard() {
	if m == nil {
		return
	}
	m.Discarded.Inc()
}

// Summary gathers the registry into name -> value, summing label sets.
// Histograms report their sample count.
func (m *Metrics) Summary() (map[string]float64, error) {
	families, err := m.Registry.Gather()
	if err != nil {
		return nil, errors.Wrap(err, "[Metrics.Summary] gather failed")
	}
	out := make(map[string]float64, len(families))
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			out[mf.GetName()] += metricValue(mf.GetType(), metric)
		}
	}
	return out, nil
}

func metricValue(kind dto.MetricType, metric *dto.Metric) float64 {
	switch kind {
	case dto.MetricType_COUNTER:
		return metric.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return metric.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		return float64(metric.GetHistogram().GetSampleCount())
	default:
		return 0
	}
}
