package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice cabecera de una nota fiscal de entrada (compra a proveedor).
type Invoice struct {
	ID            string
	TenantID      string
	BranchID      string
	InvoiceNumber string
	Series        string
	AccessKey     string
	IssueDate     time.Time
	SupplierID    string
	TotalProducts decimal.Decimal
	TotalInvoice  decimal.Decimal
	Notes         string
	SignatureData string // firma de recepción (data URL), opcional
	CreatedBy     string
	CreatedAt     time.Time
}

// InvoiceItem línea de una nota fiscal de entrada.
type InvoiceItem struct {
	ID         string
	InvoiceID  string
	ProductID  string
	Quantity   int
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
	CFOP       string
	NCM        string
}
