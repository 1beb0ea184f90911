package predict

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rankcet/internal/cutoff"
)

// Metrics is the Prometheus instrumentation of the lookup path. Each
// instance owns its registry so tests can create as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	lookups  *prometheus.CounterVec
	results  prometheus.Histogram
	duration prometheus.Histogram
	rows     prometheus.Gauge
	files    *prometheus.GaugeVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rankcet",
			Name:      "lookups_total",
			Help:      "Prediction lookups by outcome code.",
		}, []string{"outcome"}),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rankcet",
			Name:      "lookup_results",
			Help:      "Number of rows returned per successful lookup.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "rankcet",
			Name:      "lookup_duration_seconds",
			Help:      "Time spent answering a lookup.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "rankcet",
			Name:      "table_rows",
			Help:      "Rows in the unified cutoff table.",
		}),
		files: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "rankcet",
			Name:      "source_files",
			Help:      "Source files seen at load, by status.",
		}, []string{"status"}),
	}
	m.registry.MustRegister(
		m.lookups, m.results, m.duration, m.rows, m.files,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveTable records the size of a freshly loaded table.
func (m *Metrics) ObserveTable(t *cutoff.Table) {
	m.rows.Set(float64(t.Len()))
	var ok, failed int
	for _, s := range t.Sources() {
		if s.Error != "" {
			failed++
		} else {
			ok++
		}
	}
	m.files.WithLabelValues("loaded").Set(float64(ok))
	m.files.WithLabelValues("skipped").Set(float64(failed))
}

// ObserveLookup records one lookup. outcome is "ok" or an error code.
func (m *Metrics) ObserveLookup(outcome string, n int, elapsed time.Duration) {
	m.lookups.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
	if outcome == "ok" {
		m.results.Observe(float64(n))
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
