package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Gestor-api/internal/application/stockentry"
)

var _ stockentry.Runner = (*TxRunner)(nil)

// EntryRepos repositorios de la entrada de stock atados a q (pool o tx).
func EntryRepos(q Querier) stockentry.EntryRepos {
	return stockentry.EntryRepos{
		Invoices:  NewInvoiceRepository(q),
		Serials:   NewSerialNumberRepository(q),
		Movements: NewStockMovementRepository(q),
		Products:  NewProductRepository(q),
	}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// RunStockEntry inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunStockEntry(ctx context.Context, fn func(repos stockentry.EntryRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(EntryRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Transactional un error dentro de fn deshace todo con el rollback.
func (r *TxRunner) Transactional() bool { return true }
