package repository

import (
	"context"

	"github.com/jhoicas/Gestor-api/internal/domain/entity"
)

// PermissionTemplateRepository define el puerto de persistencia para plantillas de permisos.
type PermissionTemplateRepository interface {
	Create(ctx context.Context, tpl *entity.PermissionTemplate) error
	// GetByID devuelve (nil, nil) si la plantilla no existe en el tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.PermissionTemplate, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.PermissionTemplate, error)
	Update(ctx context.Context, tpl *entity.PermissionTemplate) error
	Delete(ctx context.Context, tenantID, id string) error
}

// UserPermissionsRepository define el puerto para los overrides por usuario.
type UserPermissionsRepository interface {
	// Get devuelve (nil, nil) si no hay override para (userID, tenantID).
	Get(ctx context.Context, userID, tenantID string) (*entity.UserPermissions, error)
	// Upsert inserta o reemplaza la fila única de (UserID, TenantID).
	Upsert(ctx context.Context, perms *entity.UserPermissions) error
}
