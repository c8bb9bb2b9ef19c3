package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.SerialNumberRepository = (*SerialNumberRepo)(nil)
)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productColumns = `id, tenant_id, name, code, COALESCE(category, ''), current_stock, cost_price, is_serialized, created_at, updated_at`

// Create persiste un nuevo producto. Código repetido en el tenant → ErrDuplicate.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, tenant_id, name, code, category, current_stock, cost_price, is_serialized, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		p.ID, p.TenantID, p.Name, p.Code, nullable(p.Category), p.CurrentStock, p.CostPrice, p.IsSerialized,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto del tenant.
func (r *ProductRepo) GetByID(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND id = $2`, tenantID, id)
}

// GetForUpdate como GetByID pero con FOR UPDATE: dentro de una tx bloquea la fila hasta el commit.
func (r *ProductRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	return r.get(ctx, `SELECT `+productColumns+` FROM products WHERE tenant_id = $1 AND id = $2 FOR UPDATE`, tenantID, id)
}

func (r *ProductRepo) get(ctx context.Context, query, tenantID, id string) (*entity.Product, error) {
	if !validUUID(tenantID, id) {
		return nil, nil
	}
	p, err := scanProduct(r.q.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// ListByTenant lista productos por tenant con paginación.
func (r *ProductRepo) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	if !validUUID(tenantID) {
		return nil, nil
	}
	query := `SELECT ` + productColumns + ` FROM products WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// UpdateStock fija stock y costo. Solo lo usan la entrada de stock y su compensación.
func (r *ProductRepo) UpdateStock(ctx context.Context, tenantID, id string, stock int, cost decimal.Decimal) error {
	if !validUUID(tenantID, id) {
		return domain.ErrNotFound
	}
	cmd, err := r.q.Exec(ctx,
		`UPDATE products SET current_stock = $3, cost_price = $4, updated_at = now() WHERE tenant_id = $1 AND id = $2`,
		tenantID, id, stock, cost,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgxScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.TenantID, &p.Name, &p.Code, &p.Category, &p.CurrentStock, &p.CostPrice,
		&p.IsSerialized, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SerialNumberRepo implementación del puerto SerialNumberRepository sobre PostgreSQL.
type SerialNumberRepo struct {
	q Querier
}

// NewSerialNumberRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSerialNumberRepository(q Querier) *SerialNumberRepo {
	return &SerialNumberRepo{q: q}
}

// Create persiste un número de serie. Repetido para tenant+producto → ErrSerialConflict.
func (r *SerialNumberRepo) Create(ctx context.Context, s *entity.SerialNumber) error {
	query := `
		INSERT INTO serial_numbers (id, tenant_id, product_id, serial_number, status, invoice_item_id, warranty_expires, purchase_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.TenantID, s.ProductID, s.SerialNumber, s.Status, nullable(s.InvoiceItemID),
		s.WarrantyExpires, s.PurchaseDate, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", domain.ErrSerialConflict, s.SerialNumber)
		}
		return fmt.Errorf("insert serial_number: %w", err)
	}
	return nil
}

// FindExisting devuelve los seriales de la lista que ya existen para tenant+producto.
func (r *SerialNumberRepo) FindExisting(ctx context.Context, tenantID, productID string, serials []string) ([]string, error) {
	if len(serials) == 0 || !validUUID(tenantID, productID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT serial_number FROM serial_numbers WHERE tenant_id = $1 AND product_id = $2 AND serial_number = ANY($3) ORDER BY serial_number`,
		tenantID, productID, serials)
	if err != nil {
		return nil, fmt.Errorf("find serial_numbers: %w", err)
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

// ListByProduct lista los seriales de un producto.
func (r *SerialNumberRepo) ListByProduct(ctx context.Context, tenantID, productID string) ([]*entity.SerialNumber, error) {
	if !validUUID(tenantID, productID) {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, tenant_id, product_id, serial_number, status, COALESCE(invoice_item_id::text, ''),
			warranty_expires, purchase_date, created_at
		FROM serial_numbers WHERE tenant_id = $1 AND product_id = $2 ORDER BY created_at, serial_number`,
		tenantID, productID)
	if err != nil {
		return nil, fmt.Errorf("list serial_numbers: %w", err)
	}
	defer rows.Close()
	var list []*entity.SerialNumber
	for rows.Next() {
		var s entity.SerialNumber
		if err := rows.Scan(&s.ID, &s.TenantID, &s.ProductID, &s.SerialNumber, &s.Status, &s.InvoiceItemID,
			&s.WarrantyExpires, &s.PurchaseDate, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan serial_number: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Delete elimina un número de serie (compensación).
func (r *SerialNumberRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM serial_numbers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete serial_number: %w", err)
	}
	return nil
}
