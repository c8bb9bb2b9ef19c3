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
	_ repository.UserRepository    = (*UserRepo)(nil)
	_ repository.ProfileRepository = (*ProfileRepo)(nil)
	_ repository.RoleRepository    = (*RoleRepo)(nil)
)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para identidades.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste una nueva identidad. Email duplicado (sin distinguir mayúsculas) → ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Status, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene una identidad por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	if !validUUID(id) {
		return nil, nil
	}
	return r.findOne(ctx, `SELECT id, email, password_hash, status, created_at, updated_at FROM users WHERE id = $1`, id)
}

// GetByEmail obtiene una identidad por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT id, email, password_hash, status, created_at, updated_at FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Status, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if !validUUID(id) {
		return domain.ErrUserNotFound
	}
	cmd, err := r.q.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// ProfileRepo implementación del puerto ProfileRepository sobre PostgreSQL.
type ProfileRepo struct {
	q Querier
}

// NewProfileRepository construye el adaptador.
func NewProfileRepository(q Querier) *ProfileRepo {
	return &ProfileRepo{q: q}
}

const profileColumns = `id, COALESCE(tenant_id::text, ''), full_name, email, COALESCE(selected_branch_id::text, ''),
	is_active, created_at, updated_at`

// Upsert inserta o actualiza el perfil (mismo ID que la identidad).
func (r *ProfileRepo) Upsert(ctx context.Context, p *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, tenant_id, full_name, email, selected_branch_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			tenant_id = EXCLUDED.tenant_id,
			full_name = EXCLUDED.full_name,
			email = EXCLUDED.email,
			selected_branch_id = EXCLUDED.selected_branch_id,
			is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		p.ID, nullable(p.TenantID), p.FullName, p.Email, nullable(p.SelectedBranchID), p.IsActive, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, constraintName(err))
		}
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// GetByID obtiene el perfil de un usuario.
func (r *ProfileRepo) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	if !validUUID(id) {
		return nil, nil
	}
	p, err := scanProfile(r.q.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

// ListByTenant lista los perfiles del tenant por nombre.
func (r *ProfileRepo) ListByTenant(ctx context.Context, tenantID string) ([]*entity.Profile, error) {
	if !validUUID(tenantID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE tenant_id = $1 ORDER BY full_name`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()
	var list []*entity.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProfile(row pgxScanner) (*entity.Profile, error) {
	var p entity.Profile
	err := row.Scan(&p.ID, &p.TenantID, &p.FullName, &p.Email, &p.SelectedBranchID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// RoleRepo implementación del puerto RoleRepository sobre PostgreSQL.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// Insert asigna un rol; repetir la misma asignación no falla.
func (r *RoleRepo) Insert(ctx context.Context, role *entity.UserRole) error {
	if !entity.IsValidRole(role.Role) {
		return domain.ErrInvalidInput
	}
	query := `
		INSERT INTO user_roles (user_id, tenant_id, role)
		VALUES ($1, $2, $3)
		ON CONFLICT DO NOTHING`
	if _, err := r.q.Exec(ctx, query, role.UserID, nullable(role.TenantID), role.Role); err != nil {
		return fmt.Errorf("insert user_role: %w", err)
	}
	return nil
}

// ListByUserAndTenant roles del usuario en el tenant más los globales.
func (r *RoleRepo) ListByUserAndTenant(ctx context.Context, userID, tenantID string) ([]string, error) {
	if !validUUID(userID) {
		return nil, nil
	}
	var tenant any
	if validUUID(tenantID) {
		tenant = tenantID
	}
	rows, err := r.q.Query(ctx,
		`SELECT role FROM user_roles WHERE user_id = $1 AND (tenant_id = $2 OR tenant_id IS NULL) ORDER BY created_at`,
		userID, tenant)
	if err != nil {
		return nil, fmt.Errorf("list user_roles: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// HasRole informa si el usuario tiene el rol en cualquier tenant.
func (r *RoleRepo) HasRole(ctx context.Context, userID, role string) (bool, error) {
	if !validUUID(userID) {
		return false, nil
	}
	var ok bool
	err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM user_roles WHERE user_id = $1 AND role = $2)`, userID, role).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("has role: %w", err)
	}
	return ok, nil
}
