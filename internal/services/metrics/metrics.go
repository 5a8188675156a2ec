package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	grpc_prom "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
)

const divisor = 100

// Metrics holds Prometheus metric vectors for the API.
type Metrics struct {
	reg *prometheus.Registry

	// HTTP server metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Domain metrics
	WeatherRequestsTotal *prometheus.CounterVec
	WeatherErrorsTotal   *prometheus.CounterVec

	// Upstream client metrics
	UpstreamRequestsTotal   *prometheus.CounterVec
	UpstreamRequestDuration *prometheus.HistogramVec
}

// NewMetrics constructs and registers all metrics on a private registry.
func NewMetrics(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		reg: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests received",
			},
			[]string{"method", "endpoint", "status_class"},
		),

		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request latencies",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		WeatherRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "weather_requests_total",
				Help:      "Total number of weather lookups served",
			},
			[]string{"city"},
		),

		WeatherErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "weather_errors_total",
				Help:      "Total number of failed weather lookups",
			},
			[]string{"city", "error_type"},
		),

		UpstreamRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: serviceName,
				Name:      "upstream_requests_total",
				Help:      "Requests sent to OpenWeatherMap",
			},
			[]string{"upstream", "status_class"},
		),

		UpstreamRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: serviceName,
				Name:      "upstream_request_duration_seconds",
				Help:      "Latency of OpenWeatherMap requests",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"upstream"},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.WeatherRequestsTotal,
		m.WeatherErrorsTotal,
		m.UpstreamRequestsTotal,
		m.UpstreamRequestDuration,
	)

	// enable grpc handling time histograms
	grpc_prom.EnableHandlingTimeHistogram()

	return m
}

// Handler exposes the private registry together with the default one, which
// carries the runtime and gRPC server collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		prometheus.Gatherers{m.reg, prometheus.DefaultGatherer},
		promhttp.HandlerOpts{},
	)
}

// HTTPMiddleware returns a Gin middleware to instrument HTTP endpoints.
func (m *Metrics) HTTPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		d := time.Since(start)

		endpoint := c.FullPath()
		if endpoint == "" {
			// static assets and unknown paths
			endpoint = "unmatched"
		}

		statusClass := getStatusClass(c.Writer.Status())

		m.HTTPRequestsTotal.With(prometheus.Labels{
			"method":       c.Request.Method,
			"endpoint":     endpoint,
			"status_class": statusClass,
		}).Inc()
		m.HTTPRequestDuration.With(prometheus.Labels{
			"method":   c.Request.Method,
			"endpoint": endpoint,
		}).Observe(d.Seconds())
	}
}

// ObserveWeather records the outcome of one /api/weather call. city must come
// from a bounded set, such as the upstream's resolved name, never raw input.
func (m *Metrics) ObserveWeather(city string, status int) {
	m.WeatherRequestsTotal.WithLabelValues(city).Inc()
	switch getStatusClass(status) {
	case "5xx":
		m.WeatherErrorsTotal.WithLabelValues(city, "server_error").Inc()
	case "4xx":
		m.WeatherErrorsTotal.WithLabelValues(city, "client_error").Inc()
	}
}

// UnaryInterceptor returns a gRPC UnaryServerInterceptor for metrics.
func (m *Metrics) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return grpc_prom.UnaryServerInterceptor
}

// StreamInterceptor returns a gRPC StreamServerInterceptor for metrics.
func (m *Metrics) StreamInterceptor() grpc.StreamServerInterceptor {
	return grpc_prom.StreamServerInterceptor
}

// RegisterGRPC initialises per-method gRPC metrics for srv.
func (m *Metrics) RegisterGRPC(srv *grpc.Server) {
	grpc_prom.Register(srv)
}

func getStatusClass(code int) string {
	return fmt.Sprintf("%dxx", code/divisor)
}
