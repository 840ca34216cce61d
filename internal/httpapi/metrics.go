package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"mbtid/internal/predictor"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mbtid",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mbtid",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mbtid",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
	)

	predictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mbtid",
			Subsystem: "predictor",
			Name:      "predictions_total",
			Help:      "Successful predictions by personality type code",
		},
		[]string{"type"},
	)

	predictionErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mbtid",
			Subsystem: "predictor",
			Name:      "prediction_errors_total",
			Help:      "Failed predictions by kind",
		},
		[]string{"kind"},
	)

	artifactLoadSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mbtid",
			Subsystem: "predictor",
			Name:      "artifact_load_seconds",
			Help:      "Time spent loading the classifier artifact",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight,
		predictionsTotal, predictionErrorsTotal, artifactLoadSeconds)
}

// unmatchedRoute labels requests chi could not route, keeping 404 scans from
// creating one series per URL.
const unmatchedRoute = "unmatched"

// statusRecorder wraps http.ResponseWriter to capture status code
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sr *statusRecorder) Unwrap() http.ResponseWriter { return sr.ResponseWriter }

// MetricsMiddleware instruments requests for Prometheus
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInflight.Inc()
		defer httpInflight.Dec()

		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sr, r)
		// The route pattern is only known once chi has routed the request.
		path := routePatternOrPath(r)
		status := strconv.Itoa(sr.status)
		httpRequestsTotal.WithLabelValues(path, r.Method, status).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method, status).Observe(time.Since(start).Seconds())
	})
}

// routePatternOrPath returns the chi route pattern when the request went
// through a router, "unmatched" when the router found no route, and the URL
// path when no router is involved.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
		return unmatchedRoute
	}
	return r.URL.Path
}

// MetricsPublisher turns predictor events into Prometheus samples. It is
// meant to be installed as the predictor's EventPublisher.
type MetricsPublisher struct {
	// Next, when set, receives every event after it is recorded.
	Next predictor.EventPublisher
}

// Publish implements predictor.EventPublisher.
func (p MetricsPublisher) Publish(e predictor.Event) {
	switch e.Name {
	case predictor.EventPrediction:
		code := "unknown"
		if class, ok := e.Fields["class"].(int); ok {
			if c, ok := predictor.Code(class); ok {
				code = c
			}
		}
		predictionsTotal.WithLabelValues(code).Inc()
	case predictor.EventPredictionFailed:
		kind, _ := e.Fields["kind"].(string)
		if kind == "" {
			kind = predictor.KindInference
		}
		predictionErrorsTotal.WithLabelValues(kind).Inc()
	case predictor.EventArtifactLoaded:
		observeLoad("ok", e)
	case predictor.EventArtifactLoadFailed:
		observeLoad("error", e)
	}
	if p.Next != nil {
		p.Next.Publish(e)
	}
}

func observeLoad(result string, e predictor.Event) {
	if d, ok := e.Fields["duration"].(time.Duration); ok {
		artifactLoadSeconds.WithLabelValues(result).Observe(d.Seconds())
	}
}
