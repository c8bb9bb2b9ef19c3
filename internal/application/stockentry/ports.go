package stockentry

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
)

// EntryRepos repositorios que participan en la escritura de una entrada.
// En modo transaccional están atados a la misma tx.
type EntryRepos struct {
	Invoices  repository.InvoiceRepository
	Serials   repository.SerialNumberRepository
	Movements repository.StockMovementRepository
	Products  repository.ProductRepository
}

// Runner ejecuta la secuencia de escritura de una entrada.
type Runner interface {
	RunStockEntry(ctx context.Context, fn func(repos EntryRepos) error) error
	// Transactional informa si un error dentro de fn deshace las escrituras de forma nativa.
	// Si es false el caso de uso aplica la compensación manual.
	Transactional() bool
}

// DirectRunner ejecuta cada sentencia de forma independiente, sin transacción.
type DirectRunner struct {
	repos EntryRepos
}

// NewDirectRunner construye el runner no transaccional.
func NewDirectRunner(repos EntryRepos) *DirectRunner {
	return &DirectRunner{repos: repos}
}

func (r *DirectRunner) RunStockEntry(_ context.Context, fn func(repos EntryRepos) error) error {
	return fn(r.repos)
}

func (r *DirectRunner) Transactional() bool { return false }

// ReceiptLine línea del comprobante de entrada.
type ReceiptLine struct {
	ProductCode string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
	CFOP        string
	NCM         string
	Serials     []string
}

// Receipt datos del comprobante de una entrada de stock.
type Receipt struct {
	Tenant  *entity.Tenant
	Branch  *entity.Branch
	Invoice *entity.Invoice
	Lines   []ReceiptLine
}

// ReceiptGenerator genera el PDF del comprobante.
type ReceiptGenerator interface {
	GenerateStockEntryPDF(ctx context.Context, receipt Receipt) ([]byte, error)
}
