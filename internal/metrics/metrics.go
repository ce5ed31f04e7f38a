package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the wrap service metrics on its own registry
type Recorder struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	requestBytes  *prometheus.CounterVec
	responseBytes *prometheus.CounterVec

	wrappedLines prometheus.Counter
	hyphenations *prometheus.CounterVec
	corpusLoads  *prometheus.CounterVec
}

// NewRecorder creates and registers all collectors
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textwrap_http_requests_total",
				Help: "HTTP requests by route and status",
			},
			[]string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "textwrap_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		requestBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textwrap_http_request_bytes_total",
				Help: "Bytes received in HTTP request bodies",
			},
			[]string{"route"},
		),
		responseBytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textwrap_http_response_bytes_total",
				Help: "Bytes sent in HTTP responses",
			},
			[]string{"route"},
		),
		wrappedLines: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "textwrap_wrapped_lines_total",
				Help: "Lines produced by wrap requests",
			},
		),
		hyphenations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textwrap_hyphenations_total",
				Help: "Words hyphenated by language",
			},
			[]string{"language"},
		),
		corpusLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "textwrap_corpus_loads_total",
				Help: "Hyphenation corpus lookups by language and result",
			},
			[]string{"language", "result"},
		),
	}

	r.registry.MustRegister(
		r.requests,
		r.duration,
		r.requestBytes,
		r.responseBytes,
		r.wrappedLines,
		r.hyphenations,
		r.corpusLoads,
	)
	return r
}

// Registry returns the registry backing Handler
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler returns HTTP handler for Prometheus metrics
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordWrap counts the lines of one wrap result
func (r *Recorder) RecordWrap(lines int) {
	r.wrappedLines.Add(float64(lines))
}

// RecordHyphenation counts one hyphenated word
func (r *Recorder) RecordHyphenation(language string) {
	r.hyphenations.WithLabelValues(language).Inc()
}

// RecordCorpusLoad counts a corpus lookup
func (r *Recorder) RecordCorpusLoad(language string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.corpusLoads.WithLabelValues(language, result).Inc()
}

// Middleware records request counts, latency and sizes. Routes are labelled
// by their mux path template to keep label cardinality bounded.
func (r *Recorder) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		route := routeTemplate(req)

		if req.ContentLength > 0 {
			r.requestBytes.WithLabelValues(route).Add(float64(req.ContentLength))
		}

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(rw, req)

		r.requests.WithLabelValues(req.Method, route, strconv.Itoa(rw.statusCode)).Inc()
		r.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		if rw.bytesWritten > 0 {
			r.responseBytes.WithLabelValues(route).Add(float64(rw.bytesWritten))
		}
	})
}

func routeTemplate(req *http.Request) string {
	if route := mux.CurrentRoute(req); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

type responseWriter struct {
	http.ResponseWriter
	bytesWritten int
	statusCode   int
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += n
	return n, err
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
