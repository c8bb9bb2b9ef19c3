package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateStockEntryRequest body de create-stock-entry.
type CreateStockEntryRequest struct {
	Invoice       StockEntryInvoiceInput `json:"invoice"`
	Items         []StockEntryItemInput  `json:"items" validate:"required,min=1,dive"`
	SignatureData string                 `json:"signature_data,omitempty"`
}

// StockEntryInvoiceInput cabecera de la nota de entrada. BranchID vacío = sucursal del usuario.
type StockEntryInvoiceInput struct {
	InvoiceNumber string          `json:"invoice_number" validate:"required,max=60"`
	Series        string          `json:"series" validate:"omitempty,max=10"`
	AccessKey     string          `json:"access_key" validate:"omitempty,max=60"`
	IssueDate     string          `json:"issue_date" validate:"required,datetime=2006-01-02"`
	BranchID      string          `json:"branch_id" validate:"omitempty,max=64"`
	SupplierID    string          `json:"supplier_id" validate:"omitempty,max=64"`
	TotalProducts decimal.Decimal `json:"total_products" validate:"gte=0"`
	TotalInvoice  decimal.Decimal `json:"total_invoice" validate:"gte=0"`
	Notes         string          `json:"notes" validate:"omitempty,max=1000"`
}

// StockEntryItemInput línea de la nota de entrada.
type StockEntryItemInput struct {
	ProductID     string          `json:"product_id" validate:"required,max=64"`
	Quantity      int             `json:"quantity" validate:"gt=0,lte=2147483647"`
	UnitPrice     decimal.Decimal `json:"unit_price" validate:"gte=0"`
	TotalPrice    decimal.Decimal `json:"total_price" validate:"gte=0"`
	CFOP          string          `json:"cfop" validate:"omitempty,max=10"`
	NCM           string          `json:"ncm" validate:"omitempty,max=10"`
	SerialNumbers []string        `json:"serial_numbers" validate:"omitempty,dive,required,max=100"`
}

// CreateStockEntryResponse respuesta de éxito.
type CreateStockEntryResponse struct {
	Success   bool   `json:"success"`
	InvoiceID string `json:"invoice_id"`
}

// StockEntryResponse nota de entrada con sus ítems.
type StockEntryResponse struct {
	ID            string                    `json:"id"`
	TenantID      string                    `json:"tenant_id"`
	BranchID      string                    `json:"branch_id"`
	InvoiceNumber string                    `json:"invoice_number"`
	Series        string                    `json:"series,omitempty"`
	AccessKey     string                    `json:"access_key,omitempty"`
	IssueDate     time.Time                 `json:"issue_date"`
	SupplierID    string                    `json:"supplier_id,omitempty"`
	TotalProducts decimal.Decimal           `json:"total_products"`
	TotalInvoice  decimal.Decimal           `json:"total_invoice"`
	Notes         string                    `json:"notes,omitempty"`
	CreatedBy     string                    `json:"created_by"`
	CreatedAt     time.Time                 `json:"created_at"`
	Items         []StockEntryItemResponse  `json:"items"`
}

// StockEntryItemResponse ítem de una nota de entrada.
type StockEntryItemResponse struct {
	ID         string          `json:"id"`
	ProductID  string          `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CFOP       string          `json:"cfop,omitempty"`
	NCM        string          `json:"ncm,omitempty"`
}
