package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsPath = "/metrics"

// Metrics holds the prometheus collectors exposed by the service. Each
// instance carries its own registry so tests never clash on global state.
type Metrics struct {
	registry     *prometheus.Registry
	httpDuration *prometheus.HistogramVec
	checkouts    *prometheus.CounterVec
}

// New builds and registers the service collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "topupmart",
			Name:      "http_request_seconds",
			Help:      "Histogram of response latency (seconds) of http handlers.",
		}, []string{"method", "code", "path"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "topupmart",
			Name:      "checkouts_total",
			Help:      "Checkout attempts by payment method and resulting order status.",
		}, []string{"payment", "status"}),
	}
	m.registry.MustRegister(m.httpDuration, m.checkouts)
	return m
}

// Middleware records request latency per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == metricsPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpDuration.WithLabelValues(
			c.Request.Method,
			strconv.Itoa(c.Writer.Status()),
			path,
		).Observe(time.Since(start).Seconds())
	}
}

// ObserveCheckout counts one checkout outcome.
func (m *Metrics) ObserveCheckout(payment, status string) {
	m.checkouts.WithLabelValues(payment, status).Inc()
}

// Handler serves the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
