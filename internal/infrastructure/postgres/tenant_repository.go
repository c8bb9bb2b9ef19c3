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
	_ repository.TenantRepository = (*TenantRepo)(nil)
	_ repository.BranchRepository = (*BranchRepo)(nil)
)

// TenantRepo implementación del puerto TenantRepository sobre PostgreSQL.
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

const tenantColumns = `id, name, slug, status, COALESCE(document, ''), COALESCE(email, ''), COALESCE(phone, ''),
	COALESCE(address, ''), COALESCE(city, ''), COALESCE(state, ''), created_at, updated_at`

// Create persiste el tenant; el trigger trg_tenants_main_branch crea la sucursal principal.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, slug, status, document, email, phone, address, city, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.Name, t.Slug, t.Status, nullable(t.Document), nullable(t.Email), nullable(t.Phone),
		nullable(t.Address), nullable(t.City), nullable(t.State), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSlugAlreadyExists
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene un tenant por ID.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	if !validUUID(id) {
		return nil, nil
	}
	t, err := scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// GetBySlug obtiene un tenant por slug.
func (r *TenantRepo) GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	t, err := scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE slug = $1`, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by slug: %w", err)
	}
	return t, nil
}

// List lista tenants con paginación.
func (r *TenantRepo) List(ctx context.Context, limit, offset int) ([]*entity.Tenant, error) {
	rows, err := r.q.Query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Delete elimina el tenant (cascada a sucursales).
func (r *TenantRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	return nil
}

func scanTenant(row pgxScanner) (*entity.Tenant, error) {
	var t entity.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Status, &t.Document, &t.Email, &t.Phone,
		&t.Address, &t.City, &t.State, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// BranchRepo implementación del puerto BranchRepository sobre PostgreSQL.
type BranchRepo struct {
	q Querier
}

// NewBranchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBranchRepository(q Querier) *BranchRepo {
	return &BranchRepo{q: q}
}

const branchColumns = `id, tenant_id, name, COALESCE(code, ''), is_main, is_active,
	COALESCE(address, ''), COALESCE(city, ''), COALESCE(state, ''), COALESCE(phone, ''), created_at, updated_at`

// Create persiste una sucursal. Una segunda principal viola uq_branches_main_per_tenant.
func (r *BranchRepo) Create(ctx context.Context, b *entity.Branch) error {
	query := `
		INSERT INTO branches (id, tenant_id, name, code, is_main, is_active, address, city, state, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.TenantID, b.Name, nullable(b.Code), b.IsMain, b.IsActive,
		nullable(b.Address), nullable(b.City), nullable(b.State), nullable(b.Phone), b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

// GetByID obtiene una sucursal por ID (de cualquier tenant; el llamador verifica el tenant).
func (r *BranchRepo) GetByID(ctx context.Context, id string) (*entity.Branch, error) {
	if !validUUID(id) {
		return nil, nil
	}
	b, err := scanBranch(r.q.QueryRow(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get branch: %w", err)
	}
	return b, nil
}

// GetMainByTenant obtiene la sucursal principal del tenant.
func (r *BranchRepo) GetMainByTenant(ctx context.Context, tenantID string) (*entity.Branch, error) {
	if !validUUID(tenantID) {
		return nil, nil
	}
	b, err := scanBranch(r.q.QueryRow(ctx, `SELECT `+branchColumns+` FROM branches WHERE tenant_id = $1 AND is_main`, tenantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get main branch: %w", err)
	}
	return b, nil
}

// ListByTenant lista las sucursales, la principal primero.
func (r *BranchRepo) ListByTenant(ctx context.Context, tenantID string, includeInactive bool) ([]*entity.Branch, error) {
	if !validUUID(tenantID) {
		return nil, nil
	}
	query := `SELECT ` + branchColumns + ` FROM branches WHERE tenant_id = $1 AND ($2 OR is_active) ORDER BY is_main DESC, name`
	rows, err := r.q.Query(ctx, query, tenantID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Branch
	for rows.Next() {
		b, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// SetActive alta/baja lógica.
func (r *BranchRepo) SetActive(ctx context.Context, id string, active bool) error {
	if !validUUID(id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx, `UPDATE branches SET is_active = $2, updated_at = now() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("update branch: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBranch(row pgxScanner) (*entity.Branch, error) {
	var b entity.Branch
	err := row.Scan(&b.ID, &b.TenantID, &b.Name, &b.Code, &b.IsMain, &b.IsActive,
		&b.Address, &b.City, &b.State, &b.Phone, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
