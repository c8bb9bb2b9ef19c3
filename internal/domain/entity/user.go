package entity

import "time"

// Estados de una identidad.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User es la identidad de autenticación (email + hash de contraseña).
// Los datos de negocio del usuario viven en Profile.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca plano después de persistir
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile extensión 1:1 de la identidad (mismo ID).
// SelectedBranchID vacío identifica una cuenta "director" (visión de todas las sucursales).
type Profile struct {
	ID               string
	TenantID         string // vacío para superadmin de plataforma
	FullName         string
	Email            string
	SelectedBranchID string
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// HasBranch informa si el perfil está atado a una sucursal concreta.
func (p *Profile) HasBranch() bool {
	return p != nil && p.SelectedBranchID != ""
}
