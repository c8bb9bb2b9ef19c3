package entity

import "time"

// PermissionFlags banderas tal como se guardan en BD: nil significa "no definido"
// y se resuelve con la tabla de valores por defecto del dominio de permisos.
type PermissionFlags struct {
	PageDashboard     *bool
	PageProducts      *bool
	PageStock         *bool
	PageInvoices      *bool
	PageServiceOrders *bool
	PageHR            *bool
	PageProjects      *bool
	PageFleet         *bool
	PageReports       *bool
	PageBranches      *bool
	PageSettings      *bool

	CanCreate      *bool
	CanEdit        *bool
	CanDelete      *bool
	CanExport      *bool
	CanViewCosts   *bool
	CanViewReports *bool
	CanManageUsers *bool
}

// PermissionTemplate paquete reutilizable de permisos, con nombre, dentro de un tenant.
type PermissionTemplate struct {
	ID            string
	TenantID      string
	Name          string
	Color         string
	Role          string // rol sugerido al asignar la plantilla
	DashboardType string
	Flags         PermissionFlags
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserPermissions override por usuario; única por (UserID, TenantID).
// Con TemplateID definido, las banderas de la plantilla reemplazan por completo a Flags;
// DashboardType siempre se toma de esta fila.
type UserPermissions struct {
	ID            string
	UserID        string
	TenantID      string
	TemplateID    string
	DashboardType string
	Flags         PermissionFlags
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasTemplate informa si el override apunta a una plantilla.
func (u *UserPermissions) HasTemplate() bool {
	return u != nil && u.TemplateID != ""
}
