package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestor-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	// GetByID devuelve (nil, nil) si el producto no existe en el tenant.
	GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error)
	// GetForUpdate como GetByID pero bloquea la fila cuando corre dentro de una transacción.
	GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Product, error)
	ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error)
	// UpdateStock fija stock y costo (motor de entradas y su compensación).
	UpdateStock(ctx context.Context, tenantID, id string, stock int, cost decimal.Decimal) error
}

// SerialNumberRepository define el puerto de persistencia para números de serie.
type SerialNumberRepository interface {
	Create(ctx context.Context, serial *entity.SerialNumber) error
	// FindExisting devuelve cuáles de serials ya existen para tenant+producto.
	FindExisting(ctx context.Context, tenantID, productID string, serials []string) ([]string, error)
	ListByProduct(ctx context.Context, tenantID, productID string) ([]*entity.SerialNumber, error)
	Delete(ctx context.Context, id string) error
}
