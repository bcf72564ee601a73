package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCacheCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.Hit("query")
	m.Hit("query")
	m.Miss("query")
	m.Evicted("scan", 3)

	require.Equal(t, 2.0, testutil.ToFloat64(m.cacheEvents.WithLabelValues("query", "hit")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.cacheEvents.WithLabelValues("query", "miss")))
	require.Equal(t, 3.0, testutil.ToFloat64(m.cacheEvents.WithLabelValues("scan", "evicted")))
}

func TestMiddleware_CountsRequests(t *testing.T) {
	m := New(prometheus.NewRegistry())

	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ping", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/ping", "200")))
}
