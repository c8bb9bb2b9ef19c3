package dto

import (
	"time"

	"github.com/jhoicas/Gestor-api/internal/domain/permission"
)

// PermissionFlagsInput banderas opcionales; null/ausente = valor por defecto.
type PermissionFlagsInput struct {
	PageDashboard     *bool `json:"page_dashboard"`
	PageProducts      *bool `json:"page_products"`
	PageStock         *bool `json:"page_stock"`
	PageInvoices      *bool `json:"page_invoices"`
	PageServiceOrders *bool `json:"page_service_orders"`
	PageHR            *bool `json:"page_hr"`
	PageProjects      *bool `json:"page_projects"`
	PageFleet         *bool `json:"page_fleet"`
	PageReports       *bool `json:"page_reports"`
	PageBranches      *bool `json:"page_branches"`
	PageSettings      *bool `json:"page_settings"`
	CanCreate         *bool `json:"can_create"`
	CanEdit           *bool `json:"can_edit"`
	CanDelete         *bool `json:"can_delete"`
	CanExport         *bool `json:"can_export"`
	CanViewCosts      *bool `json:"can_view_costs"`
	CanViewReports    *bool `json:"can_view_reports"`
	CanManageUsers    *bool `json:"can_manage_users"`
}

// PermissionTemplateRequest crear/actualizar plantilla.
type PermissionTemplateRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=100"`
	Color         string `json:"color" validate:"omitempty,max=20"`
	Role          string `json:"role" validate:"omitempty,oneof=admin manager technician warehouse caixa"`
	DashboardType string `json:"dashboard_type" validate:"omitempty,max=40"`
	PermissionFlagsInput
}

// PermissionTemplateResponse salida de una plantilla con sus banderas ya resueltas.
type PermissionTemplateResponse struct {
	ID            string          `json:"id"`
	TenantID      string          `json:"tenant_id"`
	Name          string          `json:"name"`
	Color         string          `json:"color,omitempty"`
	Role          string          `json:"role,omitempty"`
	DashboardType string          `json:"dashboard_type,omitempty"`
	Flags         map[string]bool `json:"flags"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// UserPermissionsRequest upsert del override de un usuario.
type UserPermissionsRequest struct {
	TemplateID    string `json:"template_id" validate:"omitempty,max=64"`
	DashboardType string `json:"dashboard_type" validate:"omitempty,max=40"`
	PermissionFlagsInput
}

// ResolvedPermissionsResponse permisos efectivos del usuario.
type ResolvedPermissionsResponse struct {
	UserID      string      `json:"user_id"`
	TenantID    string      `json:"tenant_id"`
	Director    bool                   `json:"director"`
	Role        string                 `json:"role"`
	Rule        string                 `json:"rule"`
	Permissions permission.Permissions `json:"permissions"`
}

// UserPermissionsResponse override almacenado de un usuario (banderas sin resolver: null = por defecto).
type UserPermissionsResponse struct {
	UserID        string               `json:"user_id"`
	TenantID      string               `json:"tenant_id"`
	TemplateID    string               `json:"template_id,omitempty"`
	DashboardType string               `json:"dashboard_type,omitempty"`
	Flags         PermissionFlagsInput `json:"flags"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
