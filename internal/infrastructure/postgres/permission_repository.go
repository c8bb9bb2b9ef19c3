package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
)

var (
	_ repository.PermissionTemplateRepository = (*PermissionTemplateRepo)(nil)
	_ repository.UserPermissionsRepository    = (*UserPermissionsRepo)(nil)
)

// flagColumns mismo orden que flagArgs y flagDest.
const flagColumns = `page_dashboard, page_products, page_stock, page_invoices, page_service_orders, page_hr,
	page_projects, page_fleet, page_reports, page_branches, page_settings,
	can_create, can_edit, can_delete, can_export, can_view_costs, can_view_reports, can_manage_users`

func flagArgs(f *entity.PermissionFlags) []any {
	return []any{
		f.PageDashboard, f.PageProducts, f.PageStock, f.PageInvoices, f.PageServiceOrders, f.PageHR,
		f.PageProjects, f.PageFleet, f.PageReports, f.PageBranches, f.PageSettings,
		f.CanCreate, f.CanEdit, f.CanDelete, f.CanExport, f.CanViewCosts, f.CanViewReports, f.CanManageUsers,
	}
}

func flagDest(f *entity.PermissionFlags) []any {
	return []any{
		&f.PageDashboard, &f.PageProducts, &f.PageStock, &f.PageInvoices, &f.PageServiceOrders, &f.PageHR,
		&f.PageProjects, &f.PageFleet, &f.PageReports, &f.PageBranches, &f.PageSettings,
		&f.CanCreate, &f.CanEdit, &f.CanDelete, &f.CanExport, &f.CanViewCosts, &f.CanViewReports, &f.CanManageUsers,
	}
}

// PermissionTemplateRepo implementación del puerto PermissionTemplateRepository sobre PostgreSQL.
type PermissionTemplateRepo struct {
	q Querier
}

// NewPermissionTemplateRepository construye el adaptador.
func NewPermissionTemplateRepository(q Querier) *PermissionTemplateRepo {
	return &PermissionTemplateRepo{q: q}
}

const templateColumns = `id, tenant_id, name, COALESCE(color, ''), COALESCE(role, ''), COALESCE(dashboard_type, ''), ` +
	flagColumns + `, created_at, updated_at`

// Create persiste una plantilla.
func (r *PermissionTemplateRepo) Create(ctx context.Context, t *entity.PermissionTemplate) error {
	query := `
		INSERT INTO permission_templates (id, tenant_id, name, color, role, dashboard_type, ` + flagColumns + `, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24,
			$25, $26)`
	args := []any{t.ID, t.TenantID, t.Name, nullable(t.Color), nullable(t.Role), nullable(t.DashboardType)}
	args = append(args, flagArgs(&t.Flags)...)
	args = append(args, t.CreatedAt, t.UpdatedAt)
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert permission_template: %w", err)
	}
	return nil
}

// GetByID obtiene una plantilla del tenant.
func (r *PermissionTemplateRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.PermissionTemplate, error) {
	if !validUUID(tenantID, id) {
		return nil, nil
	}
	t, err := scanTemplate(r.q.QueryRow(ctx,
		`SELECT `+templateColumns+` FROM permission_templates WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get permission_template: %w", err)
	}
	return t, nil
}

// ListByTenant lista las plantillas del tenant por nombre.
func (r *PermissionTemplateRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.PermissionTemplate, error) {
	if !validUUID(tenantID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+templateColumns+` FROM permission_templates WHERE tenant_id = $1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list permission_templates: %w", err)
	}
	defer rows.Close()
	var list []*entity.PermissionTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan permission_template: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Update reemplaza nombre, metadatos y banderas.
func (r *PermissionTemplateRepo) Update(ctx context.Context, t *entity.PermissionTemplate) error {
	if !validUUID(t.TenantID, t.ID) {
		return domain.ErrNotFound
	}
	query := `
		UPDATE permission_templates SET name = $3, color = $4, role = $5, dashboard_type = $6,
			page_dashboard = $7, page_products = $8, page_stock = $9, page_invoices = $10,
			page_service_orders = $11, page_hr = $12, page_projects = $13, page_fleet = $14,
			page_reports = $15, page_branches = $16, page_settings = $17,
			can_create = $18, can_edit = $19, can_delete = $20, can_export = $21,
			can_view_costs = $22, can_view_reports = $23, can_manage_users = $24,
			updated_at = $25
		WHERE tenant_id = $1 AND id = $2`
	args := []any{t.TenantID, t.ID, t.Name, nullable(t.Color), nullable(t.Role), nullable(t.DashboardType)}
	args = append(args, flagArgs(&t.Flags)...)
	args = append(args, t.UpdatedAt)
	cmd, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update permission_template: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina la plantilla; los overrides que la usaban quedan sin plantilla (ON DELETE SET NULL).
func (r *PermissionTemplateRepo) Delete(ctx context.Context, tenantID, id string) error {
	if !validUUID(tenantID, id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM permission_templates WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete permission_template: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTemplate(row pgxScanner) (*entity.PermissionTemplate, error) {
	var t entity.PermissionTemplate
	dest := []any{&t.ID, &t.TenantID, &t.Name, &t.Color, &t.Role, &t.DashboardType}
	dest = append(dest, flagDest(&t.Flags)...)
	dest = append(dest, &t.CreatedAt, &t.UpdatedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &t, nil
}

// UserPermissionsRepo implementación del puerto UserPermissionsRepository sobre PostgreSQL.
type UserPermissionsRepo struct {
	q Querier
}

// NewUserPermissionsRepository construye el adaptador.
func NewUserPermissionsRepository(q Querier) *UserPermissionsRepo {
	return &UserPermissionsRepo{q: q}
}

// Get devuelve el override de (userID, tenantID) o nil.
func (r *UserPermissionsRepo) Get(ctx context.Context, userID, tenantID string) (*entity.UserPermissions, error) {
	if !validUUID(userID, tenantID) {
		return nil, nil
	}
	var (
		u        entity.UserPermissions
		template *string
	)
	dest := []any{&u.ID, &u.UserID, &u.TenantID, &template, &u.DashboardType}
	dest = append(dest, flagDest(&u.Flags)...)
	dest = append(dest, &u.CreatedAt, &u.UpdatedAt)
	err := r.q.QueryRow(ctx, `
		SELECT id, user_id, tenant_id, template_id::text, COALESCE(dashboard_type, ''), `+flagColumns+`, created_at, updated_at
		FROM user_permissions WHERE user_id = $1 AND tenant_id = $2`, userID, tenantID).Scan(dest...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user_permissions: %w", err)
	}
	u.TemplateID = deref(template)
	return &u, nil
}

// Upsert inserta o reemplaza la fila de (user_id, tenant_id).
func (r *UserPermissionsRepo) Upsert(ctx context.Context, u *entity.UserPermissions) error {
	query := `
		INSERT INTO user_permissions (id, user_id, tenant_id, template_id, dashboard_type, ` + flagColumns + `, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23,
			$24, $25)
		ON CONFLICT (user_id, tenant_id) DO UPDATE SET
			template_id = EXCLUDED.template_id,
			dashboard_type = EXCLUDED.dashboard_type,
			page_dashboard = EXCLUDED.page_dashboard,
			page_products = EXCLUDED.page_products,
			page_stock = EXCLUDED.page_stock,
			page_invoices = EXCLUDED.page_invoices,
			page_service_orders = EXCLUDED.page_service_orders,
			page_hr = EXCLUDED.page_hr,
			page_projects = EXCLUDED.page_projects,
			page_fleet = EXCLUDED.page_fleet,
			page_reports = EXCLUDED.page_reports,
			page_branches = EXCLUDED.page_branches,
			page_settings = EXCLUDED.page_settings,
			can_create = EXCLUDED.can_create,
			can_edit = EXCLUDED.can_edit,
			can_delete = EXCLUDED.can_delete,
			can_export = EXCLUDED.can_export,
			can_view_costs = EXCLUDED.can_view_costs,
			can_view_reports = EXCLUDED.can_view_reports,
			can_manage_users = EXCLUDED.can_manage_users,
			updated_at = EXCLUDED.updated_at`
	args := []any{u.ID, u.UserID, u.TenantID, nullable(u.TemplateID), nullable(u.DashboardType)}
	args = append(args, flagArgs(&u.Flags)...)
	args = append(args, u.CreatedAt, u.UpdatedAt)
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, constraintName(err))
		}
		return fmt.Errorf("upsert user_permissions: %w", err)
	}
	return nil
}
