// Package metrics implementa ports.Metrics con Prometheus y expone /metrics en Fiber.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/Gestor-api/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus métricas HTTP y de negocio sobre un registry propio.
type Prometheus struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	permissions   *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	stockEntries  *prometheus.CounterVec
	compensations *prometheus.CounterVec
	provisioning  *prometheus.CounterVec
}

// New registra las métricas con el prefijo dado (p. ej. "gestor").
func New(prefix string) *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		permissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_permission_resolutions_total",
			Help: "Permission resolutions by matching rule",
		}, []string{"rule"}),
		cacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_permission_cache_lookups_total",
			Help: "Permission cache lookups by result",
		}, []string{"result"}),
		stockEntries: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_stock_entries_total",
			Help: "Stock entries by outcome",
		}, []string{"outcome"}),
		compensations: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_stock_entry_compensations_total",
			Help: "Compensation steps executed after a failed stock entry",
		}, []string{"step", "result"}),
		provisioning: f.NewCounterVec(prometheus.CounterOpts{
			Name: prefix + "_tenant_provisioning_total",
			Help: "create-tenant-admin calls by request shape and result",
		}, []string{"shape", "result"}),
	}
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

func (p *Prometheus) PermissionResolved(rule string) {
	p.permissions.WithLabelValues(rule).Inc()
}

func (p *Prometheus) PermissionCacheLookup(hit bool) {
	label := "miss"
	if hit {
		label = "hit"
	}
	p.cacheLookups.WithLabelValues(label).Inc()
}

func (p *Prometheus) StockEntry(outcome string) {
	p.stockEntries.WithLabelValues(outcome).Inc()
}

func (p *Prometheus) Compensation(step string, ok bool) {
	p.compensations.WithLabelValues(step, result(ok)).Inc()
}

func (p *Prometheus) TenantProvisioned(shape string, ok bool) {
	p.provisioning.WithLabelValues(shape, result(ok)).Inc()
}

// Middleware registra conteo y duración por ruta (patrón de la ruta, no la URL, para acotar cardinalidad).
func (p *Prometheus) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < fiber.StatusBadRequest {
				status = fiber.StatusInternalServerError
			}
		}
		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		labels := []string{c.Method(), path, strconv.Itoa(status)}
		p.httpRequests.WithLabelValues(labels...).Inc()
		p.httpDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler expone el registry en formato Prometheus.
func (p *Prometheus) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{}))
}

// Registry para tests y colectores adicionales.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}
