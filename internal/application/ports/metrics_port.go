package ports

// Resultados de una entrada de stock para métricas.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeFailed     = "failed"
)

// Metrics puerto de métricas de negocio; la implementación vive en infrastructure/metrics.
type Metrics interface {
	PermissionResolved(rule string)
	PermissionCacheLookup(hit bool)
	StockEntry(outcome string)
	Compensation(step string, ok bool)
	TenantProvisioned(shape string, ok bool)
}

// NopMetrics implementación vacía para tests y arranque sin métricas.
type NopMetrics struct{}

func (NopMetrics) PermissionResolved(string) {}
func (NopMetrics) PermissionCacheLookup(bool) {}
func (NopMetrics) StockEntry(string) {}
func (NopMetrics) Compensation(string, bool) {}
func (NopMetrics) TenantProvisioned(string, bool) {}
