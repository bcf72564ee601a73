package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the terminal's collectors. It satisfies cache.Observer so the
// query cache and scan index report through it.
type Metrics struct {
	cacheEvents *prometheus.CounterVec
	checkouts   *prometheus.CounterVec
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		cacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_cache_events_total",
				Help: "Cache lookups by cache name and outcome",
			},
			[]string{"cache", "event"},
		),
		checkouts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pos_checkouts_total",
				Help: "Checkout attempts by payment mode and result",
			},
			[]string{"mode", "result"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
	}
	reg.MustRegister(m.cacheEvents, m.checkouts, m.requests, m.duration)
	return m
}

func (m *Metrics) Hit(cache string)       { m.cacheEvents.WithLabelValues(cache, "hit").Inc() }
func (m *Metrics) Miss(cache string)      { m.cacheEvents.WithLabelValues(cache, "miss").Inc() }
func (m *Metrics) Coalesced(cache string) { m.cacheEvents.WithLabelValues(cache, "coalesced").Inc() }
func (m *Metrics) FetchError(cache string) {
	m.cacheEvents.WithLabelValues(cache, "fetch_error").Inc()
}

func (m *Metrics) Evicted(cache string, n int) {
	m.cacheEvents.WithLabelValues(cache, "evicted").Add(float64(n))
}

func (m *Metrics) Checkout(mode, result string) {
	m.checkouts.WithLabelValues(mode, result).Inc()
}

// Middleware records request count and latency per matched route.
func (m *Metrics) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}
		path := c.Route().Path
		labels := []string{c.Method(), path, strconv.Itoa(status)}

		m.requests.WithLabelValues(labels...).Inc()
		m.duration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}
