package repository

import (
	"context"

	"github.com/jhoicas/Gestor-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para notas de entrada y sus ítems.
// Los Delete* existen para la compensación manual: no hay borrado en cascada.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	CreateItem(ctx context.Context, item *entity.InvoiceItem) error
	GetByID(ctx context.Context, tenantID, id string) (*entity.Invoice, error)
	ListItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error)
	DeleteItem(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// StockMovementRepository define el puerto de persistencia para el libro de movimientos.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error)
	// Delete solo se usa como compensación de una entrada fallida.
	Delete(ctx context.Context, id string) error
}
