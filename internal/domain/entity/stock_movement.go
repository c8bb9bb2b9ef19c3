package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeEntrada = "entrada"
	MovementTypeSaida   = "saida"
	MovementTypeAjuste  = "ajuste"
)

// StockMovement registro append-only de un cambio de stock, con foto antes/después.
type StockMovement struct {
	ID            string
	TenantID      string
	BranchID      string
	ProductID     string
	InvoiceID     string
	MovementType  string
	Quantity      int
	PreviousStock int
	NewStock      int
	UnitCost      decimal.Decimal
	Reason        string
	CreatedBy     string
	CreatedAt     time.Time
}
