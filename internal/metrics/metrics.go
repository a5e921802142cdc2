// Package metrics содержит метрики Prometheus конвейера и HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry отдельный реестр приложения
	Registry = prometheus.NewRegistry()

	// RowsLoaded количество загруженных строк источника
	RowsLoaded = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "incident_rows_loaded_total", Help: "Incident rows retained by the loader."},
	)
	// RowsRejected количество отброшенных строк по причине
	RowsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "incident_rows_rejected_total", Help: "Incident rows dropped by the loader."},
		[]string{"reason"},
	)
	// CacheLookups обращения к кэшу по уровню и результату
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "dataset_cache_lookups_total", Help: "Dataset cache lookups by tier and result."},
		[]string{"tier", "result"},
	)
	// Imports импорты прогнозов по результату
	Imports = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "prediction_imports_total", Help: "Prediction imports by outcome."},
		[]string{"outcome"},
	)
	// HTTPRequests запросы по методу, маршруту и статусу
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration длительность запросов в секундах
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)
)

var regOnce sync.Once

// RegisterDefault регистрирует коллекторы в реестре приложения.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(RowsLoaded)
		Registry.MustRegister(RowsRejected)
		Registry.MustRegister(CacheLookups)
		Registry.MustRegister(Imports)
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// Handler отдает метрики реестра приложения.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware считает запросы по шаблону маршрута mux, чтобы не плодить метки.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}
		status := strconv.Itoa(sw.status)
		HTTPRequests.WithLabelValues(r.Method, path, status).Inc()
		HTTPDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
	})
}
