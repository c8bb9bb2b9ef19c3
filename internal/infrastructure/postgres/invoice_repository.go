package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
)

var (
	_ repository.InvoiceRepository       = (*InvoiceRepo)(nil)
	_ repository.StockMovementRepository = (*StockMovementRepo)(nil)
)

// InvoiceRepo implementación del puerto InvoiceRepository sobre PostgreSQL (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

// Create persiste la cabecera de la nota de entrada.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, tenant_id, branch_id, invoice_number, series, access_key, issue_date, supplier_id,
			total_products, total_invoice, notes, signature_data, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.TenantID, inv.BranchID, inv.InvoiceNumber, nullable(inv.Series), nullable(inv.AccessKey),
		inv.IssueDate, nullable(inv.SupplierID), inv.TotalProducts, inv.TotalInvoice, nullable(inv.Notes),
		nullable(inv.SignatureData), nullable(inv.CreatedBy), inv.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// CreateItem persiste una línea de la nota.
func (r *InvoiceRepo) CreateItem(ctx context.Context, it *entity.InvoiceItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, product_id, quantity, unit_price, total_price, cfop, ncm)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.InvoiceID, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice, nullable(it.CFOP), nullable(it.NCM),
	)
	if err != nil {
		return fmt.Errorf("insert invoice_item: %w", err)
	}
	return nil
}

// GetByID obtiene una nota del tenant.
func (r *InvoiceRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Invoice, error) {
	if !validUUID(tenantID, id) {
		return nil, nil
	}
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, `
		SELECT id, tenant_id, branch_id, invoice_number, COALESCE(series, ''), COALESCE(access_key, ''), issue_date,
			COALESCE(supplier_id, ''), total_products, total_invoice, COALESCE(notes, ''), COALESCE(signature_data, ''),
			COALESCE(created_by::text, ''), created_at
		FROM invoices WHERE tenant_id = $1 AND id = $2`, tenantID, id).Scan(
		&inv.ID, &inv.TenantID, &inv.BranchID, &inv.InvoiceNumber, &inv.Series, &inv.AccessKey, &inv.IssueDate,
		&inv.SupplierID, &inv.TotalProducts, &inv.TotalInvoice, &inv.Notes, &inv.SignatureData,
		&inv.CreatedBy, &inv.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// ListItems lista las líneas de la nota.
func (r *InvoiceRepo) ListItems(ctx context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	if !validUUID(invoiceID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, product_id, quantity, unit_price, total_price, COALESCE(cfop, ''), COALESCE(ncm, '')
		FROM invoice_items WHERE invoice_id = $1`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice_items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceItem
	for rows.Next() {
		var it entity.InvoiceItem
		if err := rows.Scan(&it.ID, &it.InvoiceID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.CFOP, &it.NCM); err != nil {
			return nil, fmt.Errorf("scan invoice_item: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}

// DeleteItem elimina una línea (compensación).
func (r *InvoiceRepo) DeleteItem(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice_item: %w", err)
	}
	return nil
}

// Delete elimina la cabecera (compensación). Falla si aún quedan filas que la referencian.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: nota con filas dependientes", domain.ErrConflict)
		}
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

// StockMovementRepo implementación del puerto StockMovementRepository sobre PostgreSQL.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento (append-only).
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, tenant_id, branch_id, product_id, invoice_id, movement_type, quantity,
			previous_stock, new_stock, unit_cost, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.TenantID, nullable(m.BranchID), m.ProductID, nullable(m.InvoiceID), m.MovementType, m.Quantity,
		m.PreviousStock, m.NewStock, m.UnitCost, nullable(m.Reason), nullable(m.CreatedBy), m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock_movement: %w", err)
	}
	return nil
}

// ListByProduct movimientos del producto, más reciente primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	if !validUUID(tenantID, productID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, tenant_id, COALESCE(branch_id::text, ''), product_id, COALESCE(invoice_id::text, ''), movement_type,
			quantity, previous_stock, new_stock, unit_cost, COALESCE(reason, ''), COALESCE(created_by::text, ''), created_at
		FROM stock_movements WHERE tenant_id = $1 AND product_id = $2
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`, tenantID, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock_movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.TenantID, &m.BranchID, &m.ProductID, &m.InvoiceID, &m.MovementType,
			&m.Quantity, &m.PreviousStock, &m.NewStock, &m.UnitCost, &m.Reason, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock_movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// Delete elimina un movimiento (compensación).
func (r *StockMovementRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM stock_movements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete stock_movement: %w", err)
	}
	return nil
}
