package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the HTTP collectors and the POS business counters. It
// implements services.Recorder.
type Metrics struct {
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	checkouts     *prometheus.CounterVec
	loyaltyPoints *prometheus.CounterVec
	lowStock      prometheus.Gauge
	sms           *prometheus.CounterVec
}

func InitMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HttpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HttpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path"},
		),
		checkouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_checkouts_total",
				Help: "Checkouts by outcome",
			},
			[]string{"result"},
		),
		loyaltyPoints: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_loyalty_points_total",
				Help: "Loyalty points moved, by ledger entry type",
			},
			[]string{"type"},
		),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pos_low_stock_items",
			Help: "Products at or below their low stock threshold",
		}),
		sms: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_sms_total",
				Help: "SMS notifications by outcome",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.HttpRequestsTotal, m.HttpRequestDuration, m.checkouts, m.loyaltyPoints, m.lowStock, m.sms)
	return m
}

func (m *Metrics) PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = "undefined"
		}

		m.HttpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.HttpRequestDuration.WithLabelValues(path).Observe(duration.Seconds())
	}
}

func (m *Metrics) Checkout(result string) {
	m.checkouts.WithLabelValues(result).Inc()
}

func (m *Metrics) LoyaltyPoints(kind string, points int) {
	if points <= 0 {
		return
	}
	m.loyaltyPoints.WithLabelValues(kind).Add(float64(points))
}

func (m *Metrics) LowStock(count int) {
	m.lowStock.Set(float64(count))
}

// SMS counts gateway outcomes. It implements api.SMSRecorder.
func (m *Metrics) SMS(result string) {
	m.sms.WithLabelValues(result).Inc()
}

// MetricsHandler serves the registry to the listed client IPs only. An empty
// list serves everyone.
func MetricsHandler(g prometheus.Gatherer, allowedIPs []string) gin.HandlerFunc {
	h := promhttp.HandlerFor(g, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		if len(allowedIPs) > 0 && !slices.Contains(allowedIPs, c.ClientIP()) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		h.ServeHTTP(c.Writer, c.Request)
	}
}
