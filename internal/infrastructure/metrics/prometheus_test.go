package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestor-api/internal/application/ports"
)

func TestBusinessCounters(t *testing.T) {
	m := New("test")

	m.StockEntry(ports.OutcomeSuccess)
	m.StockEntry(ports.OutcomeSuccess)
	m.StockEntry(ports.OutcomeFailed)
	m.Compensation("invoice", false)
	m.PermissionCacheLookup(true)
	m.PermissionCacheLookup(false)
	m.PermissionResolved("director")
	m.TenantProvisioned("new_tenant", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.stockEntries.WithLabelValues(ports.OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stockEntries.WithLabelValues(ports.OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.compensations.WithLabelValues("invoice", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.permissions.WithLabelValues("director")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.provisioning.WithLabelValues("new_tenant", "ok")))
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New("test")
	app := fiber.New()
	app.Use(m.Middleware())
	app.Get("/metrics", m.Handler())
	app.Get("/api/products/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/api/products/123", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/products/:id", "404")))

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), `test_http_requests_total{method="GET",path="/api/products/:id",status="404"} 1`)
}
