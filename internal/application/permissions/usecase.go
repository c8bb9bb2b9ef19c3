// Package permissions expone la resolución de permisos con caché y la administración
// de plantillas y overrides por usuario.
package permissions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/application/ports"
	"github.com/jhoicas/Gestor-api/internal/application/validation"
	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/permission"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
)

// Repos repositorios que usa el caso de uso.
type Repos struct {
	Profiles  repository.ProfileRepository
	Roles     repository.RoleRepository
	Templates repository.PermissionTemplateRepository
	Overrides repository.UserPermissionsRepository
}

// UseCase resolución y administración de permisos.
type UseCase struct {
	repos    Repos
	resolver *permission.Resolver
	cache    ports.PermissionCache
	metrics  ports.Metrics
	validate *validation.Validator
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. cache y metrics nil se reemplazan por implementaciones vacías.
func NewUseCase(repos Repos, cache ports.PermissionCache, metrics ports.Metrics, v *validation.Validator, log zerolog.Logger) *UseCase {
	if cache == nil {
		cache = ports.NoopPermissionCache{}
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &UseCase{
		repos:    repos,
		resolver: permission.NewResolver(repoSource{repos: repos}),
		cache:    cache,
		metrics:  metrics,
		validate: v,
		log:      log.With().Str("component", "permissions").Logger(),
	}
}

// repoSource adapta los repositorios al puerto de lectura del resolver.
type repoSource struct {
	repos Repos
}

func (s repoSource) GetUserPermissions(ctx context.Context, userID, tenantID string) (*entity.UserPermissions, error) {
	return s.repos.Overrides.Get(ctx, userID, tenantID)
}

func (s repoSource) GetTemplate(ctx context.Context, tenantID, templateID string) (*entity.PermissionTemplate, error) {
	return s.repos.Templates.GetByID(ctx, tenantID, templateID)
}

// Resolve aplica las reglas al sujeto pasando por la caché. Nunca falla: los errores
// de lectura se registran y el resultado degrada a permisos restrictivos. Los
// resultados degradados no se guardan en caché.
func (uc *UseCase) Resolve(ctx context.Context, s permission.Subject) ports.CachedPermissions {
	return uc.resolve(ctx, s, nil)
}

// resolve lookupErrs son fallos al cargar el sujeto (roles, perfil); con alguno el
// resultado se devuelve pero no se guarda.
func (uc *UseCase) resolve(ctx context.Context, s permission.Subject, lookupErrs []error) ports.CachedPermissions {
	key := ports.PermissionKey{TenantID: s.TenantID, UserID: s.UserID, Director: s.Director}

	cached, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key.String()).Msg("caché de permisos no disponible")
	}
	uc.metrics.PermissionCacheLookup(ok)
	if ok {
		return cached
	}

	res := uc.resolver.Resolve(ctx, s)
	uc.metrics.PermissionResolved(res.Rule)
	out := ports.CachedPermissions{Permissions: res.Permissions, Rule: res.Rule}

	if errs := append(lookupErrs, res.Errors...); len(errs) > 0 {
		for _, e := range errs {
			uc.log.Error().Err(e).
				Str("user_id", s.UserID).
				Str("tenant_id", s.TenantID).
				Msg("error resolviendo permisos; se aplican permisos restrictivos")
		}
		return out
	}
	if err := uc.cache.Set(ctx, key, out); err != nil {
		uc.log.Warn().Err(err).Str("key", key.String()).Msg("no se pudo guardar permisos en caché")
	}
	return out
}

// ResolveForUser carga perfil y roles del usuario en el tenant, detecta el modo director
// y resuelve. Los errores de lectura degradan igual que en Resolve.
func (uc *UseCase) ResolveForUser(ctx context.Context, userID, tenantID string) dto.ResolvedPermissionsResponse {
	var lookupErrs []error
	roles, err := uc.repos.Roles.ListByUserAndTenant(ctx, userID, tenantID)
	if err != nil {
		lookupErrs = append(lookupErrs, fmt.Errorf("leer roles: %w", err))
		roles = nil
	}
	profile, err := uc.repos.Profiles.GetByID(ctx, userID)
	if err != nil {
		lookupErrs = append(lookupErrs, fmt.Errorf("leer perfil: %w", err))
		profile = nil
	}
	director := permission.IsDirector(profile, roles)

	subject := permission.Subject{UserID: userID, TenantID: tenantID, Roles: roles, Director: director}
	res := uc.resolve(ctx, subject, lookupErrs)
	return dto.ResolvedPermissionsResponse{
		UserID:      userID,
		TenantID:    tenantID,
		Director:    director,
		Role:        entity.HighestRole(roles),
		Rule:        res.Rule,
		Permissions: res.Permissions,
	}
}

// Has atajo para middleware: informa si el usuario tiene la bandera en el tenant.
func (uc *UseCase) Has(ctx context.Context, userID, tenantID string, flag permission.Flag) bool {
	return uc.ResolveForUser(ctx, userID, tenantID).Permissions.Has(flag)
}

// ListTemplates devuelve las plantillas del tenant.
func (uc *UseCase) ListTemplates(ctx context.Context, tenantID string) ([]dto.PermissionTemplateResponse, error) {
	list, err := uc.repos.Templates.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PermissionTemplateResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTemplateResponse(t))
	}
	return out, nil
}

// GetTemplate devuelve una plantilla del tenant o ErrNotFound.
func (uc *UseCase) GetTemplate(ctx context.Context, tenantID, id string) (*dto.PermissionTemplateResponse, error) {
	tpl, err := uc.repos.Templates.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, domain.ErrNotFound
	}
	resp := toTemplateResponse(tpl)
	return &resp, nil
}

// CreateTemplate crea una plantilla en el tenant.
func (uc *UseCase) CreateTemplate(ctx context.Context, tenantID string, in dto.PermissionTemplateRequest) (*dto.PermissionTemplateResponse, error) {
	if err := uc.validate.Struct(&in, ""); err != nil {
		return nil, err
	}
	now := time.Now()
	tpl := &entity.PermissionTemplate{
		ID:            uuid.New().String(),
		TenantID:      tenantID,
		Name:          in.Name,
		Color:         in.Color,
		Role:          in.Role,
		DashboardType: in.DashboardType,
		Flags:         toFlags(in.PermissionFlagsInput),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repos.Templates.Create(ctx, tpl); err != nil {
		return nil, err
	}
	resp := toTemplateResponse(tpl)
	return &resp, nil
}

// UpdateTemplate reemplaza nombre, color, rol, dashboard y banderas de la plantilla.
// Invalida la caché del tenant: cualquier usuario puede apuntar a ella.
func (uc *UseCase) UpdateTemplate(ctx context.Context, tenantID, id string, in dto.PermissionTemplateRequest) (*dto.PermissionTemplateResponse, error) {
	if err := uc.validate.Struct(&in, ""); err != nil {
		return nil, err
	}
	tpl, err := uc.repos.Templates.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if tpl == nil {
		return nil, domain.ErrNotFound
	}
	tpl.Name = in.Name
	tpl.Color = in.Color
	tpl.Role = in.Role
	tpl.DashboardType = in.DashboardType
	tpl.Flags = toFlags(in.PermissionFlagsInput)
	tpl.UpdatedAt = time.Now()
	if err := uc.repos.Templates.Update(ctx, tpl); err != nil {
		return nil, err
	}
	uc.invalidateTenant(ctx, tenantID)
	resp := toTemplateResponse(tpl)
	return &resp, nil
}

// DeleteTemplate borra la plantilla. Los overrides que la referencian pasan a usar sus
// propias banderas en la próxima resolución.
func (uc *UseCase) DeleteTemplate(ctx context.Context, tenantID, id string) error {
	tpl, err := uc.repos.Templates.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if tpl == nil {
		return domain.ErrNotFound
	}
	if err := uc.repos.Templates.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	uc.invalidateTenant(ctx, tenantID)
	return nil
}

// GetUserPermissions devuelve el override almacenado o ErrNotFound.
func (uc *UseCase) GetUserPermissions(ctx context.Context, tenantID, userID string) (*dto.UserPermissionsResponse, error) {
	row, err := uc.repos.Overrides.Get(ctx, userID, tenantID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domain.ErrNotFound
	}
	resp := toUserPermissionsResponse(row)
	return &resp, nil
}

// UpsertUserPermissions guarda el override de (userID, tenantID). El usuario debe tener
// perfil en el tenant y la plantilla, si se indica, debe pertenecer al tenant.
func (uc *UseCase) UpsertUserPermissions(ctx context.Context, tenantID, userID string, in dto.UserPermissionsRequest) (*dto.UserPermissionsResponse, error) {
	if err := uc.validate.Struct(&in, ""); err != nil {
		return nil, err
	}
	profile, err := uc.repos.Profiles.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil || profile.TenantID != tenantID {
		return nil, domain.ErrUserNotFound
	}
	if in.TemplateID != "" {
		tpl, err := uc.repos.Templates.GetByID(ctx, tenantID, in.TemplateID)
		if err != nil {
			return nil, err
		}
		if tpl == nil {
			return nil, domain.ErrNotFound
		}
	}
	now := time.Now()
	row := &entity.UserPermissions{
		ID:            uuid.New().String(),
		UserID:        userID,
		TenantID:      tenantID,
		TemplateID:    in.TemplateID,
		DashboardType: in.DashboardType,
		Flags:         toFlags(in.PermissionFlagsInput),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repos.Overrides.Upsert(ctx, row); err != nil {
		return nil, err
	}
	uc.InvalidateUser(ctx, tenantID, userID)
	resp := toUserPermissionsResponse(row)
	return &resp, nil
}

// InvalidateUser descarta de la caché los permisos del usuario en el tenant.
func (uc *UseCase) InvalidateUser(ctx context.Context, tenantID, userID string) {
	if err := uc.cache.InvalidateUser(ctx, tenantID, userID); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Str("user_id", userID).Msg("no se pudo invalidar caché de permisos")
	}
}

func (uc *UseCase) invalidateTenant(ctx context.Context, tenantID string) {
	if err := uc.cache.InvalidateTenant(ctx, tenantID); err != nil {
		uc.log.Warn().Err(err).Str("tenant_id", tenantID).Msg("no se pudo invalidar caché de permisos del tenant")
	}
}

func toFlags(in dto.PermissionFlagsInput) entity.PermissionFlags {
	return entity.PermissionFlags{
		PageDashboard:     in.PageDashboard,
		PageProducts:      in.PageProducts,
		PageStock:         in.PageStock,
		PageInvoices:      in.PageInvoices,
		PageServiceOrders: in.PageServiceOrders,
		PageHR:            in.PageHR,
		PageProjects:      in.PageProjects,
		PageFleet:         in.PageFleet,
		PageReports:       in.PageReports,
		PageBranches:      in.PageBranches,
		PageSettings:      in.PageSettings,
		CanCreate:         in.CanCreate,
		CanEdit:           in.CanEdit,
		CanDelete:         in.CanDelete,
		CanExport:         in.CanExport,
		CanViewCosts:      in.CanViewCosts,
		CanViewReports:    in.CanViewReports,
		CanManageUsers:    in.CanManageUsers,
	}
}

func fromFlags(f entity.PermissionFlags) dto.PermissionFlagsInput {
	return dto.PermissionFlagsInput{
		PageDashboard:     f.PageDashboard,
		PageProducts:      f.PageProducts,
		PageStock:         f.PageStock,
		PageInvoices:      f.PageInvoices,
		PageServiceOrders: f.PageServiceOrders,
		PageHR:            f.PageHR,
		PageProjects:      f.PageProjects,
		PageFleet:         f.PageFleet,
		PageReports:       f.PageReports,
		PageBranches:      f.PageBranches,
		PageSettings:      f.PageSettings,
		CanCreate:         f.CanCreate,
		CanEdit:           f.CanEdit,
		CanDelete:         f.CanDelete,
		CanExport:         f.CanExport,
		CanViewCosts:      f.CanViewCosts,
		CanViewReports:    f.CanViewReports,
		CanManageUsers:    f.CanManageUsers,
	}
}

func toTemplateResponse(t *entity.PermissionTemplate) dto.PermissionTemplateResponse {
	resolved := permission.FromFlags(t.Flags, "").Map()
	flags := make(map[string]bool, len(resolved))
	for k, v := range resolved {
		flags[string(k)] = v
	}
	return dto.PermissionTemplateResponse{
		ID:            t.ID,
		TenantID:      t.TenantID,
		Name:          t.Name,
		Color:         t.Color,
		Role:          t.Role,
		DashboardType: t.DashboardType,
		Flags:         flags,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func toUserPermissionsResponse(u *entity.UserPermissions) dto.UserPermissionsResponse {
	return dto.UserPermissionsResponse{
		UserID:        u.UserID,
		TenantID:      u.TenantID,
		TemplateID:    u.TemplateID,
		DashboardType: u.DashboardType,
		Flags:         fromFlags(u.Flags),
		UpdatedAt:     u.UpdatedAt,
	}
}
