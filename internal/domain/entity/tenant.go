package entity

import "time"

// Estados de un tenant.
const (
	TenantStatusTrial     = "trial"
	TenantStatusActive    = "active"
	TenantStatusSuspended = "suspended"
	TenantStatusInactive  = "inactive"
)

// Tenant representa una organización cliente. Es la raíz del aislamiento multi-tenant:
// todo registro de negocio lleva su tenant_id.
type Tenant struct {
	ID        string
	Name      string
	Slug      string // único, solo [a-z0-9-]
	Status    string // trial, active, suspended, inactive
	Document  string // CNPJ/CPF u otro identificador fiscal
	Email     string
	Phone     string
	Address   string
	City      string
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
