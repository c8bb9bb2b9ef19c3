// Package provisioning crea tenants con su administrador y usuarios de tenants existentes
// (administradores de sucursal o directores), más los colaboradores de gestión de usuarios.
package provisioning

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/application/ports"
	"github.com/jhoicas/Gestor-api/internal/application/validation"
	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/permission"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
)

// Formas de la petición de create-tenant-admin (etiqueta de métricas).
const (
	ShapeNewTenant   = "new_tenant"
	ShapeBranchAdmin = "branch_admin"
)

// PermissionChecker consulta permisos resueltos (lo implementa permissions.UseCase).
type PermissionChecker interface {
	Has(ctx context.Context, userID, tenantID string, flag permission.Flag) bool
}

// Repos repositorios del aprovisionamiento.
type Repos struct {
	Tenants   repository.TenantRepository
	Branches  repository.BranchRepository
	Users     repository.UserRepository
	Profiles  repository.ProfileRepository
	Roles     repository.RoleRepository
	Templates repository.PermissionTemplateRepository
	Overrides repository.UserPermissionsRepository
}

// Actor usuario autenticado que ejecuta la operación.
type Actor struct {
	UserID   string
	TenantID string
}

// UseCase aprovisionamiento de tenants y usuarios.
type UseCase struct {
	repos      Repos
	perms      PermissionChecker
	validate   *validation.Validator
	metrics    ports.Metrics
	log        zerolog.Logger
	bcryptCost int
}

// NewUseCase construye el caso de uso.
func NewUseCase(repos Repos, perms PermissionChecker, v *validation.Validator, metrics ports.Metrics, log zerolog.Logger) *UseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &UseCase{
		repos:      repos,
		perms:      perms,
		validate:   v,
		metrics:    metrics,
		log:        log.With().Str("component", "provisioning").Logger(),
		bcryptCost: bcrypt.DefaultCost,
	}
}

// WithBcryptCost ajusta el costo de bcrypt (tests usan bcrypt.MinCost).
func (uc *UseCase) WithBcryptCost(cost int) *UseCase {
	uc.bcryptCost = cost
	return uc
}

// CreateTenantAdmin crea un tenant con su admin, o un admin de sucursal / director en un
// tenant existente (si la petición trae tenant_id). Solo superadmin.
func (uc *UseCase) CreateTenantAdmin(ctx context.Context, callerID string, in dto.CreateTenantAdminRequest) (*dto.CreateTenantAdminResponse, error) {
	ok, err := uc.repos.Roles.HasRole(ctx, callerID, entity.RoleSuperadmin)
	if err != nil {
		return nil, fmt.Errorf("verificar rol del llamador: %w", err)
	}
	if !ok {
		return nil, domain.ErrForbidden
	}

	if in.IsExistingTenant() {
		resp, err := uc.createBranchAdmin(ctx, in)
		uc.metrics.TenantProvisioned(ShapeBranchAdmin, err == nil)
		return resp, err
	}
	resp, err := uc.createTenantWithAdmin(ctx, in)
	uc.metrics.TenantProvisioned(ShapeNewTenant, err == nil)
	return resp, err
}

func (uc *UseCase) createTenantWithAdmin(ctx context.Context, req dto.CreateTenantAdminRequest) (*dto.CreateTenantAdminResponse, error) {
	if req.Tenant == nil || req.Admin == nil {
		verr := domain.NewValidationError()
		if req.Tenant == nil {
			verr.Add("tenant", "es obligatorio")
		}
		if req.Admin == nil {
			verr.Add("admin", "es obligatorio")
		}
		return nil, verr
	}
	in := dto.NewTenantAdminInput{Tenant: *req.Tenant, Admin: *req.Admin}
	in.Tenant.Name = strings.TrimSpace(in.Tenant.Name)
	in.Tenant.Slug = strings.TrimSpace(in.Tenant.Slug)
	if in.Tenant.Slug == "" {
		in.Tenant.Slug = Slugify(in.Tenant.Name)
	}
	in.Admin.Email = normalizeEmail(in.Admin.Email)
	if err := uc.validate.Struct(&in, ""); err != nil {
		return nil, err
	}

	// Colisiones antes de cualquier escritura.
	existing, err := uc.repos.Tenants.GetBySlug(ctx, in.Tenant.Slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrSlugAlreadyExists
	}
	if err := uc.ensureEmailFree(ctx, in.Admin.Email); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Admin.Password), uc.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	status := in.Tenant.Status
	if status == "" {
		status = entity.TenantStatusActive
	}
	tenant := &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      in.Tenant.Name,
		Slug:      in.Tenant.Slug,
		Status:    status,
		Document:  in.Tenant.Document,
		Email:     in.Tenant.Email,
		Phone:     in.Tenant.Phone,
		Address:   in.Tenant.Address,
		City:      in.Tenant.City,
		State:     in.Tenant.State,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repos.Tenants.Create(ctx, tenant); err != nil {
		return nil, fmt.Errorf("crear tenant: %w", err)
	}
	log := uc.log.With().Str("tenant_id", tenant.ID).Str("slug", tenant.Slug).Logger()

	main, err := uc.repos.Branches.GetMainByTenant(ctx, tenant.ID)
	if err == nil && main == nil {
		err = domain.ErrNotFound
	}
	if err != nil {
		log.Error().Err(err).Msg("sucursal principal no disponible; se elimina el tenant")
		uc.deleteTenant(ctx, log, tenant.ID)
		return nil, fmt.Errorf("obtener sucursal principal: %w", err)
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        in.Admin.Email,
		PasswordHash: string(hash),
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repos.Users.Create(ctx, user); err != nil {
		log.Error().Err(err).Str("email", user.Email).Msg("error creando identidad; se elimina el tenant")
		uc.deleteTenant(ctx, log, tenant.ID)
		return nil, fmt.Errorf("crear identidad: %w", err)
	}

	// A partir de aquí los fallos no se deshacen.
	profile := &entity.Profile{
		ID:               user.ID,
		TenantID:         tenant.ID,
		FullName:         in.Admin.FullName,
		Email:            user.Email,
		SelectedBranchID: main.ID,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repos.Profiles.Upsert(ctx, profile); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("error guardando perfil; identidad queda sin perfil completo")
		return nil, fmt.Errorf("guardar perfil: %w", err)
	}
	if err := uc.repos.Roles.Insert(ctx, &entity.UserRole{UserID: user.ID, TenantID: tenant.ID, Role: entity.RoleAdmin}); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("error asignando rol admin; identidad queda sin rol")
		return nil, fmt.Errorf("asignar rol: %w", err)
	}

	log.Info().Str("user_id", user.ID).Str("main_branch_id", main.ID).Msg("tenant aprovisionado")
	return &dto.CreateTenantAdminResponse{
		Success: true,
		Tenant: &dto.TenantResponse{
			ID:        tenant.ID,
			Name:      tenant.Name,
			Slug:      tenant.Slug,
			Status:    tenant.Status,
			Email:     tenant.Email,
			CreatedAt: tenant.CreatedAt,
		},
		User: dto.UserRef{ID: user.ID, Email: user.Email},
	}, nil
}

func (uc *UseCase) deleteTenant(ctx context.Context, log zerolog.Logger, tenantID string) {
	if err := uc.repos.Tenants.Delete(context.WithoutCancel(ctx), tenantID); err != nil {
		log.Error().Err(err).Msg("no se pudo eliminar el tenant huérfano")
	}
}

func (uc *UseCase) createBranchAdmin(ctx context.Context, req dto.CreateTenantAdminRequest) (*dto.CreateTenantAdminResponse, error) {
	in := dto.BranchAdminInput{
		TenantID:   strings.TrimSpace(req.TenantID),
		BranchID:   strings.TrimSpace(req.BranchID),
		Email:      normalizeEmail(req.Email),
		Password:   req.Password,
		FullName:   strings.TrimSpace(req.FullName),
		Role:       req.Role,
		TemplateID: strings.TrimSpace(req.TemplateID),
	}
	if err := uc.validate.Struct(&in, ""); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = entity.RoleAdmin
	}
	user, err := uc.createMember(ctx, member{
		TenantID:   in.TenantID,
		BranchID:   in.BranchID,
		Email:      in.Email,
		Password:   in.Password,
		FullName:   in.FullName,
		Role:       role,
		TemplateID: in.TemplateID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.CreateTenantAdminResponse{Success: true, User: *user}, nil
}

// member usuario a crear en un tenant existente.
type member struct {
	TenantID   string
	BranchID   string // vacío = director
	Email      string
	Password   string
	FullName   string
	Role       string
	TemplateID string
}

// createMember comprueba tenant, sucursal, plantilla y email sin escribir; luego crea
// identidad → perfil → rol → override con plantilla. Los fallos posteriores a la identidad
// se registran y se devuelven sin deshacer.
func (uc *UseCase) createMember(ctx context.Context, m member) (*dto.UserRef, error) {
	tenant, err := uc.repos.Tenants.GetByID(ctx, m.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, fmt.Errorf("%w: tenant %s", domain.ErrNotFound, m.TenantID)
	}
	if m.BranchID != "" {
		branch, err := uc.repos.Branches.GetByID(ctx, m.BranchID)
		if err != nil {
			return nil, err
		}
		if branch == nil || branch.TenantID != m.TenantID {
			return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, m.BranchID)
		}
	}
	if m.TemplateID != "" {
		tpl, err := uc.repos.Templates.GetByID(ctx, m.TenantID, m.TemplateID)
		if err != nil {
			return nil, err
		}
		if tpl == nil {
			return nil, fmt.Errorf("%w: plantilla %s", domain.ErrNotFound, m.TemplateID)
		}
	}
	if err := uc.ensureEmailFree(ctx, m.Email); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(m.Password), uc.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        m.Email,
		PasswordHash: string(hash),
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repos.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("crear identidad: %w", err)
	}
	log := uc.log.With().Str("tenant_id", m.TenantID).Str("user_id", user.ID).Logger()

	profile := &entity.Profile{
		ID:               user.ID,
		TenantID:         m.TenantID,
		FullName:         m.FullName,
		Email:            user.Email,
		SelectedBranchID: m.BranchID,
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repos.Profiles.Upsert(ctx, profile); err != nil {
		log.Error().Err(err).Msg("error guardando perfil; identidad queda sin perfil completo")
		return nil, fmt.Errorf("guardar perfil: %w", err)
	}
	if err := uc.repos.Roles.Insert(ctx, &entity.UserRole{UserID: user.ID, TenantID: m.TenantID, Role: m.Role}); err != nil {
		log.Error().Err(err).Str("role", m.Role).Msg("error asignando rol; identidad queda sin rol")
		return nil, fmt.Errorf("asignar rol: %w", err)
	}
	if m.TemplateID != "" {
		row := &entity.UserPermissions{
			ID:         uuid.New().String(),
			UserID:     user.ID,
			TenantID:   m.TenantID,
			TemplateID: m.TemplateID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := uc.repos.Overrides.Upsert(ctx, row); err != nil {
			log.Error().Err(err).Str("template_id", m.TemplateID).Msg("error asignando plantilla de permisos")
			return nil, fmt.Errorf("asignar plantilla: %w", err)
		}
	}

	log.Info().
		Str("role", m.Role).
		Bool("director", m.BranchID == "").
		Msg("usuario creado en tenant")
	return &dto.UserRef{ID: user.ID, Email: user.Email}, nil
}

func (uc *UseCase) ensureEmailFree(ctx context.Context, email string) error {
	u, err := uc.repos.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u != nil {
		return domain.ErrEmailAlreadyExists
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
