// Package metrics exposes Prometheus collectors for stemming activity.
//
// Every method is safe to call on a nil *Metrics, so callers that run
// without instrumentation simply pass nil.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/arissetyawan/indostemmer/morph"
)

const namespace = "indostem"

// Cache lookup outcomes, used as the "result" label.
const (
	CacheMemory = "memory"
	CacheDisk   = "disk"
	CacheMiss   = "miss"
)

// Metrics holds the collectors.
type Metrics struct {
	tokens       prometheus.Counter
	changed      prometheus.Counter
	resolutions  *prometheus.CounterVec
	shortStems   prometheus.Counter
	backoffs     prometheus.Counter
	cacheLookups *prometheus.CounterVec
	files        *prometheus.CounterVec
	fileDuration prometheus.Histogram
	requests     *prometheus.CounterVec
}

// MustNew constructs Metrics registered with reg. A collector that is
// already registered under the same name is reused; any other registration
// error panics.
func MustNew(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &Metrics{
		tokens: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stemmer",
			Name:      "tokens_total",
			Help:      "Word tokens stemmed.",
		})),
		changed: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stemmer",
			Name:      "changed_total",
			Help:      "Word tokens whose stem differs from the input.",
		})),
		resolutions: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stemmer",
			Name:      "reduplications_total",
			Help:      "Hyphenated compounds by the rule that resolved them.",
		}, []string{"rule"})),
		shortStems: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stemmer",
			Name:      "short_stems_total",
			Help:      "Stems left with fewer than two syllables.",
		})),
		backoffs: register(reg, prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stemmer",
			Name:      "backoffs_total",
			Help:      "Affix layers given back to lengthen a short root.",
		})),
		cacheLookups: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Stem cache lookups by result.",
		}, []string{"result"})),
		files: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "files_total",
			Help:      "Input files processed by status.",
		}, []string{"status"})),
		fileDuration: register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "file_duration_seconds",
			Help:      "Time spent stemming one input file.",
			Buckets:   prometheus.DefBuckets,
		})),
		requests: register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"route", "code"})),
	}
}

// register adds c to reg, returning the existing collector when one with
// the same descriptor is already registered.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// ObserveAnalysis records one stemmed token.
func (m *Metrics) ObserveAnalysis(a morph.Analysis) {
	if m == nil {
		return
	}
	m.tokens.Inc()
	if a.Changed() {
		m.changed.Inc()
	}
	if a.Resolution != morph.ResolvedNone {
		m.resolutions.WithLabelValues(a.Resolution.String()).Inc()
	}
	if a.Diagnostics.ShortStem {
		m.shortStems.Inc()
	}
	if a.Diagnostics.Backoffs > 0 {
		m.backoffs.Add(float64(a.Diagnostics.Backoffs))
	}
}

// ObserveCache records a cache lookup with one of the Cache* results.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveFile records one processed input file.
func (m *Metrics) ObserveFile(err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.files.WithLabelValues(status).Inc()
	m.fileDuration.Observe(d.Seconds())
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, code string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, code).Inc()
}
