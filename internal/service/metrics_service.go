package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/udgtools/horarios-api/internal/dto"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// import pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	cacheHitRatio   prometheus.Gauge
	importRuns      prometheus.Counter
	importDuration  prometheus.Histogram
	importEntities  *prometheus.CounterVec
	importErrors    prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
	requestCount   uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	importRuns := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "siiau_import_runs_total",
		Help: "Total timetable import runs",
	})

	importDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "siiau_import_duration_seconds",
		Help:    "Duration of timetable import runs",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	importEntities := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "siiau_import_entities_total",
		Help: "Entities created or updated by timetable imports",
	}, []string{"entity", "action"})

	importErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "siiau_import_group_errors_total",
		Help: "Section groups skipped due to errors during imports",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheHits, cacheMisses, cacheHitRatio,
		importRuns, importDuration, importEntities, importErrors, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		cacheHitRatio:   cacheHitRatio,
		importRuns:      importRuns,
		importDuration:  importDuration,
		importEntities:  importEntities,
		importErrors:    importErrors,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveImportRun records the outcome counters of a finished import run.
func (m *MetricsService) ObserveImportRun(stats dto.ImportStats) {
	if m == nil {
		return
	}
	m.importRuns.Inc()
	m.importEntities.WithLabelValues("seccion", "created").Add(float64(stats.SeccionesCreadas))
	m.importEntities.WithLabelValues("seccion", "updated").Add(float64(stats.SeccionesActualizadas))
	m.importEntities.WithLabelValues("materia", "created").Add(float64(stats.MateriasCreadas))
	m.importEntities.WithLabelValues("profesor", "created").Add(float64(stats.ProfesoresCreados))
	m.importEntities.WithLabelValues("edificio", "created").Add(float64(stats.EdificiosCreados))
	m.importEntities.WithLabelValues("aula", "created").Add(float64(stats.AulasCreadas))
	m.importEntities.WithLabelValues("clase", "created").Add(float64(stats.ClasesCreadas))
	m.importErrors.Add(float64(stats.Errores))
}

// ObserveImportDuration records how long an import run took end to end.
func (m *MetricsService) ObserveImportDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.importDuration.Observe(duration.Seconds())
}
