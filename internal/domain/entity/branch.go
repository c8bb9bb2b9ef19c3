package entity

import "time"

// Branch representa una sucursal de un tenant. Se da de baja con IsActive = false.
// Cada tenant tiene exactamente una sucursal principal (IsMain), creada junto con el tenant.
type Branch struct {
	ID        string
	TenantID  string
	Name      string
	Code      string // opcional
	IsMain    bool
	IsActive  bool
	Address   string
	City      string
	State     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
