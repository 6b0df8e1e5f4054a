// Package metrics exposes pipeline counters on a private Prometheus registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jobalert"

// Metrics methods are safe on a nil receiver.
type Metrics struct {
	reg *prometheus.Registry

	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	scraped       *prometheus.CounterVec
	sourceErrors  *prometheus.CounterVec
	admitted      prometheus.Counter
	persistErrors prometheus.Counter
	sent          prometheus.Counter
	sendFailures  prometheus.Counter
	deferred      prometheus.Counter
	cleanupRows   prometheus.Counter
	storeRows     prometheus.Gauge
	storeBytes    prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		cycles: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cycles_total",
			Help: "Scrape cycles by result (ok, failed, skipped).",
		}, []string{"result"}),
		cycleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "cycle_duration_seconds",
			Help:    "Wall time of a full scrape cycle.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		}),
		scraped: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "jobs_scraped_total",
			Help: "Raw job cards returned per source.",
		}, []string{"source"}),
		sourceErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "source_errors_total",
			Help: "Failed scrape calls per source.",
		}, []string{"source"}),
		admitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "jobs_new_total",
			Help: "Jobs admitted as new by the dedup gate.",
		}),
		persistErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "persist_errors_total",
			Help: "Store failures while admitting jobs.",
		}),
		sent: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "alerts_sent_total",
			Help: "Job alerts confirmed by the message sink.",
		}),
		sendFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "alerts_failed_total",
			Help: "Job alerts the message sink rejected.",
		}),
		deferred: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "alerts_deferred_total",
			Help: "New jobs left for a later cycle by the per-cycle cap.",
		}),
		cleanupRows: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "cleanup_deleted_total",
			Help: "Rows removed by maintenance.",
		}),
		storeRows: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "store_jobs",
			Help: "Jobs currently recorded as seen.",
		}),
		storeBytes: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "store_size_bytes",
			Help: "On-disk size of the seen job store.",
		}),
	}
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

func (m *Metrics) CycleDone(result string, took time.Duration) {
	if m == nil {
		return
	}
	m.cycles.WithLabelValues(result).Inc()
	if took > 0 {
		m.cycleDuration.Observe(took.Seconds())
	}
}

func (m *Metrics) Scraped(source string, n int) {
	if m == nil {
		return
	}
	m.scraped.WithLabelValues(source).Add(float64(n))
}

func (m *Metrics) SourceError(source string) {
	if m == nil {
		return
	}
	m.sourceErrors.WithLabelValues(source).Inc()
}

func (m *Metrics) Admitted() {
	if m != nil {
		m.admitted.Inc()
	}
}

func (m *Metrics) PersistError() {
	if m != nil {
		m.persistErrors.Inc()
	}
}

func (m *Metrics) Sent(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.sent.Inc()
	} else {
		m.sendFailures.Inc()
	}
}

func (m *Metrics) Deferred(n int) {
	if m != nil && n > 0 {
		m.deferred.Add(float64(n))
	}
}

func (m *Metrics) Cleaned(n int64) {
	if m != nil && n > 0 {
		m.cleanupRows.Add(float64(n))
	}
}

func (m *Metrics) StoreStats(rows int, bytes int64) {
	if m == nil {
		return
	}
	m.storeRows.Set(float64(rows))
	m.storeBytes.Set(float64(bytes))
}
