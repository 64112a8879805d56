package middleware

import (
	"bytes"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
	"github.com/watt-toolkit/arc/pkg/arc/web"
)

// Metrics records per-request Prometheus counters and latency histograms
// and renders them in the text exposition format.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates a metrics collector with its own registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arc",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled",
		},
		[]string{"method", "status"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arc",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
	registry.MustRegister(requests, duration)

	return &Metrics{registry: registry, requests: requests, duration: duration}
}

// Middleware returns the interceptor recording every request.
func (m *Metrics) Middleware() web.Middleware {
	return func(next web.Handler) web.Handler {
		return web.HandlerFunc(func(req *http11.Request) *http11.Response {
			start := time.Now()
			resp := next.Serve(req)

			method := req.Method.String()
			m.requests.WithLabelValues(method, strconv.Itoa(resp.Status.Code())).Inc()
			m.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
			return resp
		})
	}
}

// Handler serves the gathered metrics in the Prometheus text format.
// Mount it on a route:
//
//	app.Get("/metrics", metrics.Handler())
func (m *Metrics) Handler() web.Handler {
	return web.HandlerFunc(func(req *http11.Request) *http11.Response {
		families, err := m.registry.Gather()
		if err != nil {
			return http11.NewResponse(http11.StatusInternalServerError,
				body.FromString("failed to gather metrics"))
		}

		var buf bytes.Buffer
		encoder := expfmt.NewEncoder(&buf, expfmt.NewFormat(expfmt.TypeTextPlain))
		for _, family := range families {
			if err := encoder.Encode(family); err != nil {
				return http11.NewResponse(http11.StatusInternalServerError,
					body.FromString("failed to encode metrics"))
			}
		}

		resp := http11.NewResponse(http11.StatusOK, body.FromBytes(buf.Bytes()))
		resp.Headers.Set(http11.HeaderContentType, string(expfmt.NewFormat(expfmt.TypeTextPlain)))
		return resp
	})
}
