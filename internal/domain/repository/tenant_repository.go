package repository

import (
	"context"

	"github.com/jhoicas/Gestor-api/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para Tenant (DIP).
type TenantRepository interface {
	// Create persiste el tenant y crea en la misma operación su sucursal principal.
	Create(ctx context.Context, tenant *entity.Tenant) error
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Tenant, error)
	// Delete solo se usa como compensación del aprovisionamiento.
	Delete(ctx context.Context, id string) error
}

// BranchRepository define el puerto de persistencia para Branch.
type BranchRepository interface {
	Create(ctx context.Context, branch *entity.Branch) error
	GetByID(ctx context.Context, id string) (*entity.Branch, error)
	GetMainByTenant(ctx context.Context, tenantID string) (*entity.Branch, error)
	ListByTenant(ctx context.Context, tenantID string, includeInactive bool) ([]*entity.Branch, error)
	SetActive(ctx context.Context, id string, active bool) error
}
