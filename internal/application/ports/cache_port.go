package ports

import (
	"context"
	"fmt"

	"github.com/jhoicas/Gestor-api/internal/domain/permission"
)

// PermissionKey clave de caché de permisos resueltos.
type PermissionKey struct {
	TenantID string
	UserID   string
	Director bool
}

// String formato perms:{tenant}:{user}:{director}.
func (k PermissionKey) String() string {
	return fmt.Sprintf("%s:%s:%t", TenantKeyPrefix(k.TenantID), k.UserID, k.Director)
}

// TenantKeyPrefix prefijo común de todas las claves de un tenant.
func TenantKeyPrefix(tenantID string) string {
	return "perms:" + tenantID
}

// CachedPermissions valor guardado en caché.
type CachedPermissions struct {
	Permissions permission.Permissions `json:"permissions"`
	Rule        string                 `json:"rule"`
}

// PermissionCache caché de permisos resueltos con TTL (LRU en proceso o Redis).
// Get devuelve ok=false en un miss.
type PermissionCache interface {
	Get(ctx context.Context, key PermissionKey) (CachedPermissions, bool, error)
	Set(ctx context.Context, key PermissionKey, value CachedPermissions) error
	InvalidateUser(ctx context.Context, tenantID, userID string) error
	InvalidateTenant(ctx context.Context, tenantID string) error
}

// NoopPermissionCache caché deshabilitada (TTL 0).
type NoopPermissionCache struct{}

func (NoopPermissionCache) Get(context.Context, PermissionKey) (CachedPermissions, bool, error) {
	return CachedPermissions{}, false, nil
}
func (NoopPermissionCache) Set(context.Context, PermissionKey, CachedPermissions) error { return nil }
func (NoopPermissionCache) InvalidateUser(context.Context, string, string) error { return nil }
func (NoopPermissionCache) InvalidateTenant(context.Context, string) error { return nil }
