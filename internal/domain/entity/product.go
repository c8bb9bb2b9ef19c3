package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del inventario de un tenant.
// CurrentStock es un total desnormalizado: solo cambia a través de movimientos de stock.
type Product struct {
	ID           string
	TenantID     string
	Name         string
	Code         string // código único por tenant
	Category     string
	CurrentStock int
	CostPrice    decimal.Decimal
	IsSerialized bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
