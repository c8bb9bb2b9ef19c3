// Package permission resuelve los permisos efectivos de un usuario dentro de un tenant.
//
// Las reglas se evalúan en orden y gana la primera que aplique:
//
//	director → rol superadmin/admin → override con plantilla → override directo → restrictivo
package permission

import "github.com/jhoicas/Gestor-api/internal/domain/entity"

// Flag nombre de una bandera de permiso (page_* visibilidad, can_* capacidad).
type Flag string

const (
	PageDashboard     Flag = "page_dashboard"
	PageProducts      Flag = "page_products"
	PageStock         Flag = "page_stock"
	PageInvoices      Flag = "page_invoices"
	PageServiceOrders Flag = "page_service_orders"
	PageHR            Flag = "page_hr"
	PageProjects      Flag = "page_projects"
	PageFleet         Flag = "page_fleet"
	PageReports       Flag = "page_reports"
	PageBranches      Flag = "page_branches"
	PageSettings      Flag = "page_settings"

	CanCreate      Flag = "can_create"
	CanEdit        Flag = "can_edit"
	CanDelete      Flag = "can_delete"
	CanExport      Flag = "can_export"
	CanViewCosts   Flag = "can_view_costs"
	CanViewReports Flag = "can_view_reports"
	CanManageUsers Flag = "can_manage_users"
)

// DashboardOverview tipo de dashboard del modo director.
const DashboardOverview = "overview"

// Permissions resultado de la resolución: banderas planas más el tipo de dashboard.
type Permissions struct {
	PageDashboard     bool `json:"page_dashboard"`
	PageProducts      bool `json:"page_products"`
	PageStock         bool `json:"page_stock"`
	PageInvoices      bool `json:"page_invoices"`
	PageServiceOrders bool `json:"page_service_orders"`
	PageHR            bool `json:"page_hr"`
	PageProjects      bool `json:"page_projects"`
	PageFleet         bool `json:"page_fleet"`
	PageReports       bool `json:"page_reports"`
	PageBranches      bool `json:"page_branches"`
	PageSettings      bool `json:"page_settings"`

	CanCreate      bool `json:"can_create"`
	CanEdit        bool `json:"can_edit"`
	CanDelete      bool `json:"can_delete"`
	CanExport      bool `json:"can_export"`
	CanViewCosts   bool `json:"can_view_costs"`
	CanViewReports bool `json:"can_view_reports"`
	CanManageUsers bool `json:"can_manage_users"`

	DashboardType *string `json:"dashboard_type"`
}

// DefaultPermissions todo visible y todo permitido. Se usa para superadmin y admin.
var DefaultPermissions = Permissions{
	PageDashboard: true, PageProducts: true, PageStock: true, PageInvoices: true,
	PageServiceOrders: true, PageHR: true, PageProjects: true, PageFleet: true,
	PageReports: true, PageBranches: true, PageSettings: true,
	CanCreate: true, CanEdit: true, CanDelete: true, CanExport: true,
	CanViewCosts: true, CanViewReports: true, CanManageUsers: true,
}

// DirectorPermissions modo director: todas las páginas salvo configuración, solo lectura.
var DirectorPermissions = func() Permissions {
	p := DefaultPermissions
	p.PageSettings = false
	p.CanCreate = false
	p.CanEdit = false
	p.CanDelete = false
	p.CanManageUsers = false
	p.CanExport = true
	p.CanViewCosts = true
	p.CanViewReports = true
	dashboard := DashboardOverview
	p.DashboardType = &dashboard
	return p
}()

// RestrictivePermissions usuario sin configuración explícita.
var RestrictivePermissions = func() Permissions {
	p := DefaultPermissions
	p.PageSettings = false
	p.CanDelete = false
	p.CanManageUsers = false
	return p
}()

// FieldDefaults tabla única de valores por defecto para banderas no definidas en BD.
var FieldDefaults = Permissions{
	PageDashboard: true, PageProducts: true, PageStock: true, PageInvoices: true,
	PageServiceOrders: true, PageHR: true, PageProjects: true, PageFleet: true,
	PageReports: true, PageBranches: true, PageSettings: false,
	CanCreate: true, CanEdit: true, CanDelete: false, CanExport: true,
	CanViewCosts: true, CanViewReports: true, CanManageUsers: false,
}

// FromFlags convierte banderas almacenadas en Permissions aplicando FieldDefaults.
// dashboardType vacío se traduce a nil.
func FromFlags(f entity.PermissionFlags, dashboardType string) Permissions {
	d := FieldDefaults
	p := Permissions{
		PageDashboard:     pick(f.PageDashboard, d.PageDashboard),
		PageProducts:      pick(f.PageProducts, d.PageProducts),
		PageStock:         pick(f.PageStock, d.PageStock),
		PageInvoices:      pick(f.PageInvoices, d.PageInvoices),
		PageServiceOrders: pick(f.PageServiceOrders, d.PageServiceOrders),
		PageHR:            pick(f.PageHR, d.PageHR),
		PageProjects:      pick(f.PageProjects, d.PageProjects),
		PageFleet:         pick(f.PageFleet, d.PageFleet),
		PageReports:       pick(f.PageReports, d.PageReports),
		PageBranches:      pick(f.PageBranches, d.PageBranches),
		PageSettings:      pick(f.PageSettings, d.PageSettings),
		CanCreate:         pick(f.CanCreate, d.CanCreate),
		CanEdit:           pick(f.CanEdit, d.CanEdit),
		CanDelete:         pick(f.CanDelete, d.CanDelete),
		CanExport:         pick(f.CanExport, d.CanExport),
		CanViewCosts:      pick(f.CanViewCosts, d.CanViewCosts),
		CanViewReports:    pick(f.CanViewReports, d.CanViewReports),
		CanManageUsers:    pick(f.CanManageUsers, d.CanManageUsers),
	}
	if dashboardType != "" {
		dt := dashboardType
		p.DashboardType = &dt
	}
	return p
}

func pick(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// Map devuelve las banderas como mapa nombre → valor.
func (p Permissions) Map() map[Flag]bool {
	return map[Flag]bool{
		PageDashboard:     p.PageDashboard,
		PageProducts:      p.PageProducts,
		PageStock:         p.PageStock,
		PageInvoices:      p.PageInvoices,
		PageServiceOrders: p.PageServiceOrders,
		PageHR:            p.PageHR,
		PageProjects:      p.PageProjects,
		PageFleet:         p.PageFleet,
		PageReports:       p.PageReports,
		PageBranches:      p.PageBranches,
		PageSettings:      p.PageSettings,
		CanCreate:         p.CanCreate,
		CanEdit:           p.CanEdit,
		CanDelete:         p.CanDelete,
		CanExport:         p.CanExport,
		CanViewCosts:      p.CanViewCosts,
		CanViewReports:    p.CanViewReports,
		CanManageUsers:    p.CanManageUsers,
	}
}

// Has informa si la bandera está activa. Banderas desconocidas devuelven false.
func (p Permissions) Has(flag Flag) bool {
	return p.Map()[flag]
}
