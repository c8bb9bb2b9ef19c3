package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Gestor-api/internal/domain/repository"
)

// NewRepositories construye todos los repositorios sobre el pool, fuera de transacción.
func NewRepositories(pool *pgxpool.Pool) repository.Repositories {
	return repository.Repositories{
		Tenants:        NewTenantRepository(pool),
		Branches:       NewBranchRepository(pool),
		Users:          NewUserRepository(pool),
		Profiles:       NewProfileRepository(pool),
		Roles:          NewRoleRepository(pool),
		Templates:      NewPermissionTemplateRepository(pool),
		Overrides:      NewUserPermissionsRepository(pool),
		Products:       NewProductRepository(pool),
		SerialNumbers:  NewSerialNumberRepository(pool),
		Invoices:       NewInvoiceRepository(pool),
		StockMovements: NewStockMovementRepository(pool),
	}
}
