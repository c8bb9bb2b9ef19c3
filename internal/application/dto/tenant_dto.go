package dto

import "time"

// CreateTenantAdminRequest body de create-tenant-admin. La forma se decide por TenantID:
// vacío → nuevo tenant con admin ({tenant, admin}); definido → admin de sucursal o director.
type CreateTenantAdminRequest struct {
	Tenant *NewTenantInput `json:"tenant,omitempty"`
	Admin  *NewAdminInput  `json:"admin,omitempty"`

	TenantID   string `json:"tenant_id,omitempty"`
	BranchID   string `json:"branch_id,omitempty"`
	Email      string `json:"email,omitempty"`
	Password   string `json:"password,omitempty"`
	FullName   string `json:"full_name,omitempty"`
	Role       string `json:"role,omitempty"`
	TemplateID string `json:"template_id,omitempty"`
}

// IsExistingTenant informa si la petición es para un tenant existente.
func (r *CreateTenantAdminRequest) IsExistingTenant() bool {
	return r.TenantID != ""
}

// NewTenantAdminInput forma A validada.
type NewTenantAdminInput struct {
	Tenant NewTenantInput `json:"tenant"`
	Admin  NewAdminInput  `json:"admin"`
}

// NewTenantInput datos del tenant a crear. Slug vacío se deriva del nombre.
type NewTenantInput struct {
	Name     string `json:"name" validate:"required,min=2,max=200"`
	Slug     string `json:"slug" validate:"required,min=2,max=63,slug"`
	Status   string `json:"status" validate:"omitempty,oneof=trial active"`
	Document string `json:"document" validate:"omitempty,max=32"`
	Email    string `json:"email" validate:"omitempty,email,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=32"`
	Address  string `json:"address" validate:"omitempty,max=255"`
	City     string `json:"city" validate:"omitempty,max=100"`
	State    string `json:"state" validate:"omitempty,max=50"`
}

// NewAdminInput administrador inicial del tenant.
type NewAdminInput struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FullName string `json:"full_name" validate:"required,min=2,max=200"`
}

// BranchAdminInput forma B validada.
type BranchAdminInput struct {
	TenantID   string `json:"tenant_id" validate:"required,max=64"`
	BranchID   string `json:"branch_id" validate:"omitempty,max=64"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Password   string `json:"password" validate:"required,min=6,max=72"`
	FullName   string `json:"full_name" validate:"required,min=2,max=200"`
	Role       string `json:"role" validate:"omitempty,oneof=admin manager technician warehouse caixa"`
	TemplateID string `json:"template_id" validate:"omitempty,max=64"`
}

// TenantResponse salida de un tenant.
type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Status    string    `json:"status"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateTenantAdminResponse respuesta de éxito de create-tenant-admin.
type CreateTenantAdminResponse struct {
	Success bool            `json:"success"`
	Tenant  *TenantResponse `json:"tenant,omitempty"`
	User    UserRef         `json:"user"`
}
