package dto

import "time"

// UserRef referencia mínima a una identidad creada.
type UserRef struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ProfileResponse perfil con sus roles en el tenant (get-tenant-users).
type ProfileResponse struct {
	ID               string    `json:"id"`
	TenantID         string    `json:"tenant_id,omitempty"`
	FullName         string    `json:"full_name"`
	Email            string    `json:"email"`
	SelectedBranchID *string   `json:"selected_branch_id"`
	IsActive         bool      `json:"is_active"`
	Roles            []string  `json:"roles"`
	Role             string    `json:"role"`
	CreatedAt        time.Time `json:"created_at"`
}

// TenantUsersResponse listado de usuarios de un tenant.
type TenantUsersResponse struct {
	Users []ProfileResponse `json:"users"`
}

// CreateTenantUserRequest body de create-tenant-user (tenant tomado de la ruta).
type CreateTenantUserRequest struct {
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	FullName   string `json:"full_name" validate:"required,min=2,max=200"`
	Role       string `json:"role" validate:"omitempty,oneof=admin manager technician warehouse caixa"`
	BranchID   string `json:"branch_id" validate:"omitempty,max=64"`
	TemplateID string `json:"template_id" validate:"omitempty,max=64"`
}

// UpdatePasswordRequest body de update-user-password.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6,max=72"`
}
