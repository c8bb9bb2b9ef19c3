package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto. El stock inicial siempre es 0:
// solo cambia mediante entradas.
type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Code         string          `json:"code" validate:"required,min=1,max=60"`
	Category     string          `json:"category" validate:"omitempty,max=100"`
	CostPrice    decimal.Decimal `json:"cost_price" validate:"gte=0"`
	IsSerialized bool            `json:"is_serialized"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string           `json:"id"`
	TenantID     string           `json:"tenant_id"`
	Name         string           `json:"name"`
	Code         string           `json:"code"`
	Category     string           `json:"category,omitempty"`
	CurrentStock int              `json:"current_stock"`
	CostPrice    *decimal.Decimal `json:"cost_price,omitempty"` // nil si el usuario no puede ver costos
	IsSerialized bool             `json:"is_serialized"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// SerialNumberResponse salida de un número de serie.
type SerialNumberResponse struct {
	ID            string     `json:"id"`
	SerialNumber  string     `json:"serial_number"`
	Status        string     `json:"status"`
	InvoiceItemID string     `json:"invoice_item_id,omitempty"`
	PurchaseDate  *time.Time `json:"purchase_date,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// StockMovementResponse salida de un movimiento de stock.
type StockMovementResponse struct {
	ID            string          `json:"id"`
	BranchID      string          `json:"branch_id"`
	ProductID     string          `json:"product_id"`
	InvoiceID     string          `json:"invoice_id,omitempty"`
	MovementType  string          `json:"movement_type"`
	Quantity      int             `json:"quantity"`
	PreviousStock int             `json:"previous_stock"`
	NewStock      int             `json:"new_stock"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	Reason        string          `json:"reason"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     time.Time       `json:"created_at"`
}
