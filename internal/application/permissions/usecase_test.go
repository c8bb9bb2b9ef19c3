package permissions_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/application/permissions"
	"github.com/jhoicas/Gestor-api/internal/application/ports"
	"github.com/jhoicas/Gestor-api/internal/application/validation"
	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/permission"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
	"github.com/jhoicas/Gestor-api/internal/infrastructure/memory"
)

// mapCache caché en mapa que registra invalidaciones.
type mapCache struct {
	data              map[ports.PermissionKey]ports.CachedPermissions
	invalidatedUsers  []string
	invalidatedTenant []string
}

func newMapCache() *mapCache {
	return &mapCache{data: make(map[ports.PermissionKey]ports.CachedPermissions)}
}

func (c *mapCache) Get(_ context.Context, k ports.PermissionKey) (ports.CachedPermissions, bool, error) {
	v, ok := c.data[k]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, k ports.PermissionKey, v ports.CachedPermissions) error {
	c.data[k] = v
	return nil
}

func (c *mapCache) InvalidateUser(_ context.Context, tenantID, userID string) error {
	c.invalidatedUsers = append(c.invalidatedUsers, userID)
	for k := range c.data {
		if k.TenantID == tenantID && k.UserID == userID {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *mapCache) InvalidateTenant(_ context.Context, tenantID string) error {
	c.invalidatedTenant = append(c.invalidatedTenant, tenantID)
	for k := range c.data {
		if k.TenantID == tenantID {
			delete(c.data, k)
		}
	}
	return nil
}

// brokenOverrides falla siempre al leer.
type brokenOverrides struct {
	repository.UserPermissionsRepository
}

func (brokenOverrides) Get(context.Context, string, string) (*entity.UserPermissions, error) {
	return nil, errors.New("db caída")
}

// flakyRoles falla mientras down sea true.
type flakyRoles struct {
	repository.RoleRepository
	down bool
}

func (r *flakyRoles) ListByUserAndTenant(ctx context.Context, userID, tenantID string) ([]string, error) {
	if r.down {
		return nil, errors.New("db caída")
	}
	return r.RoleRepository.ListByUserAndTenant(ctx, userID, tenantID)
}

type fixture struct {
	store  *memory.Store
	tenant *entity.Tenant
	branch *entity.Branch
	cache  *mapCache
	uc     *permissions.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	tenant := &entity.Tenant{Name: "Acme", Slug: "acme"}
	require.NoError(t, store.Tenants().Create(ctx, tenant))
	main, err := store.Branches().GetMainByTenant(ctx, tenant.ID)
	require.NoError(t, err)
	f := &fixture{store: store, tenant: tenant, branch: main, cache: newMapCache()}
	f.uc = permissions.NewUseCase(f.repos(), f.cache, nil, validation.New(), zerolog.Nop())
	return f
}

func (f *fixture) repos() permissions.Repos {
	return permissions.Repos{
		Profiles:  f.store.Profiles(),
		Roles:     f.store.Roles(),
		Templates: f.store.Templates(),
		Overrides: f.store.Overrides(),
	}
}

func (f *fixture) user(t *testing.T, branchID string, roles ...string) string {
	t.Helper()
	ctx := context.Background()
	u := &entity.User{Email: uuid.New().String() + "@acme.com", Status: entity.UserStatusActive}
	require.NoError(t, f.store.Users().Create(ctx, u))
	require.NoError(t, f.store.Profiles().Upsert(ctx, &entity.Profile{
		ID: u.ID, TenantID: f.tenant.ID, FullName: "U", Email: u.Email, SelectedBranchID: branchID, IsActive: true,
	}))
	for _, r := range roles {
		require.NoError(t, f.store.Roles().Insert(ctx, &entity.UserRole{UserID: u.ID, TenantID: f.tenant.ID, Role: r}))
	}
	return u.ID
}

func boolPtr(b bool) *bool { return &b }

func TestResolveForUser_Director(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "", entity.RoleManager)

	res := f.uc.ResolveForUser(context.Background(), id, f.tenant.ID)
	assert.True(t, res.Director)
	assert.Equal(t, permission.RuleDirector, res.Rule)
	assert.Equal(t, permission.DirectorPermissions, res.Permissions)
}

func TestResolveForUser_AdminWithBranchIsNotDirector(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, f.branch.ID, entity.RoleAdmin)

	res := f.uc.ResolveForUser(context.Background(), id, f.tenant.ID)
	assert.False(t, res.Director)
	assert.Equal(t, permission.RuleRole, res.Rule)
	assert.Equal(t, entity.RoleAdmin, res.Role)
	assert.Equal(t, permission.DefaultPermissions, res.Permissions)
}

func TestResolveForUser_TemplateScenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl, err := f.uc.CreateTemplate(ctx, f.tenant.ID, dto.PermissionTemplateRequest{
		Name: "Caixa",
		PermissionFlagsInput: dto.PermissionFlagsInput{
			PageSettings: boolPtr(false),
			CanDelete:    boolPtr(true),
		},
	})
	require.NoError(t, err)
	id := f.user(t, f.branch.ID, entity.RoleCaixa)

	_, err = f.uc.UpsertUserPermissions(ctx, f.tenant.ID, id, dto.UserPermissionsRequest{TemplateID: tpl.ID, DashboardType: "sales"})
	require.NoError(t, err)

	res := f.uc.ResolveForUser(ctx, id, f.tenant.ID)
	assert.Equal(t, permission.RuleTemplate, res.Rule)
	assert.False(t, res.Permissions.PageSettings)
	assert.True(t, res.Permissions.CanDelete)
	assert.True(t, res.Permissions.CanCreate)
	assert.False(t, res.Permissions.CanManageUsers)
	require.NotNil(t, res.Permissions.DashboardType)
	assert.Equal(t, "sales", *res.Permissions.DashboardType)
}

func TestResolve_UsesCacheAndSkipsDegradedResults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.user(t, f.branch.ID, entity.RoleTechnician)

	first := f.uc.ResolveForUser(ctx, id, f.tenant.ID)
	assert.Equal(t, permission.RuleRestrictive, first.Rule)
	assert.Len(t, f.cache.data, 1)

	// Con la caché llena, un override nuevo no se ve hasta invalidar.
	require.NoError(t, f.store.Overrides().Upsert(ctx, &entity.UserPermissions{
		UserID: id, TenantID: f.tenant.ID, Flags: entity.PermissionFlags{CanCreate: boolPtr(false)},
	}))
	assert.Equal(t, permission.RuleRestrictive, f.uc.ResolveForUser(ctx, id, f.tenant.ID).Rule)

	f.uc.InvalidateUser(ctx, f.tenant.ID, id)
	res := f.uc.ResolveForUser(ctx, id, f.tenant.ID)
	assert.Equal(t, permission.RuleUserOverride, res.Rule)
	assert.False(t, res.Permissions.CanCreate)

	// Errores de lectura: restrictivo y sin guardar en caché.
	repos := f.repos()
	repos.Overrides = brokenOverrides{}
	cache := newMapCache()
	broken := permissions.NewUseCase(repos, cache, nil, validation.New(), zerolog.Nop())
	res = broken.ResolveForUser(ctx, id, f.tenant.ID)
	assert.Equal(t, permission.RuleRestrictive, res.Rule)
	assert.Equal(t, permission.RestrictivePermissions, res.Permissions)
	assert.Empty(t, cache.data)
}

func TestResolveForUser_RoleLookupFailureIsNotCached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.user(t, f.branch.ID, entity.RoleAdmin)

	roles := &flakyRoles{RoleRepository: f.store.Roles(), down: true}
	repos := f.repos()
	repos.Roles = roles
	cache := newMapCache()
	uc := permissions.NewUseCase(repos, cache, nil, validation.New(), zerolog.Nop())

	res := uc.ResolveForUser(ctx, id, f.tenant.ID)
	assert.Equal(t, permission.RuleRestrictive, res.Rule)
	assert.False(t, res.Permissions.CanDelete)
	assert.Empty(t, cache.data)

	roles.down = false
	res = uc.ResolveForUser(ctx, id, f.tenant.ID)
	assert.Equal(t, permission.RuleRole, res.Rule)
	assert.True(t, res.Permissions.CanDelete)
	assert.Len(t, cache.data, 1)
}

func TestTemplateWritesInvalidateTenant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl, err := f.uc.CreateTemplate(ctx, f.tenant.ID, dto.PermissionTemplateRequest{Name: "Base"})
	require.NoError(t, err)

	_, err = f.uc.UpdateTemplate(ctx, f.tenant.ID, tpl.ID, dto.PermissionTemplateRequest{
		Name:                 "Base v2",
		PermissionFlagsInput: dto.PermissionFlagsInput{CanExport: boolPtr(false)},
	})
	require.NoError(t, err)
	require.NoError(t, f.uc.DeleteTemplate(ctx, f.tenant.ID, tpl.ID))

	assert.Equal(t, []string{f.tenant.ID, f.tenant.ID}, f.cache.invalidatedTenant)
	assert.ErrorIs(t, f.uc.DeleteTemplate(ctx, f.tenant.ID, tpl.ID), domain.ErrNotFound)
}

func TestCreateTemplate_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateTemplate(context.Background(), f.tenant.ID, dto.PermissionTemplateRequest{Name: "x", Role: "root"})
	require.Error(t, err)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 2)
}

func TestUpsertUserPermissions_RejectsForeignTemplateAndUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.user(t, f.branch.ID, entity.RoleCaixa)

	_, err := f.uc.UpsertUserPermissions(ctx, f.tenant.ID, id, dto.UserPermissionsRequest{TemplateID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.UpsertUserPermissions(ctx, "otro-tenant", id, dto.UserPermissionsRequest{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestGetTemplate_FlagsResolvedWithDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tpl, err := f.uc.CreateTemplate(ctx, f.tenant.ID, dto.PermissionTemplateRequest{Name: "Vacía"})
	require.NoError(t, err)

	got, err := f.uc.GetTemplate(ctx, f.tenant.ID, tpl.ID)
	require.NoError(t, err)
	assert.False(t, got.Flags["page_settings"])
	assert.False(t, got.Flags["can_delete"])
	assert.True(t, got.Flags["can_create"])
	assert.Len(t, got.Flags, 18)
}
