// metrics — Prometheus-коллекторы сервиса секций.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sections"

// Metrics собирает счётчики загрузок, поиска и размер кэша.
type Metrics struct {
	loads          *prometheus.CounterVec
	loadDuration   *prometheus.HistogramVec
	searches       *prometheus.CounterVec
	searchDuration prometheus.Histogram
	cached         prometheus.Gauge
}

// New создаёт коллекторы и регистрирует их в reg.
// Для глобального реестра передаётся prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Paging loads by direction and result (ok, end, error kind).",
		}, []string{"direction", "result"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "Duration of paging loads that reached the remote source.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"direction"}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_calls_total",
			Help:      "Search dispatches by result (ok, empty, error kind).",
		}, []string{"result"}),
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Duration of remote search calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		cached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_sections",
			Help:      "Number of sections in the local cache after the last load.",
		}),
	}

	if reg != nil {
		reg.MustRegister(m.loads, m.loadDuration, m.searches, m.searchDuration, m.cached)
	}

	return m
}

// ObserveLoad учитывает одну загрузку. d == 0 — загрузка без обращения к сети.
func (m *Metrics) ObserveLoad(direction, result string, d time.Duration) {
	m.loads.WithLabelValues(direction, result).Inc()
	if d > 0 {
		m.loadDuration.WithLabelValues(direction).Observe(d.Seconds())
	}
}

// ObserveSearch учитывает один поисковый запрос. d == 0 — без обращения к сети.
func (m *Metrics) ObserveSearch(result string, d time.Duration) {
	m.searches.WithLabelValues(result).Inc()
	if d > 0 {
		m.searchDuration.Observe(d.Seconds())
	}
}

// SetCachedSections выставляет текущий размер кэша.
func (m *Metrics) SetCachedSections(n int) {
	m.cached.Set(float64(n))
}
