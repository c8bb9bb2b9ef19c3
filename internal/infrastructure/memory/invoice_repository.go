package memory

import (
	"context"

	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
)

type invoiceRepo struct{ s *Store }

func (r *invoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if inv.ID == "" {
		inv.ID = newID()
	}
	r.s.invoices.put(inv.ID, clone(inv))
	return nil
}

func (r *invoiceRepo) CreateItem(_ context.Context, item *entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.invoices.get(item.InvoiceID); !ok {
		return domain.ErrNotFound
	}
	if item.ID == "" {
		item.ID = newID()
	}
	r.s.items.put(item.ID, clone(item))
	return nil
}

func (r *invoiceRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Invoice, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	inv, ok := r.s.invoices.get(id)
	if !ok || inv.TenantID != tenantID {
		return nil, nil
	}
	return clone(inv), nil
}

func (r *invoiceRepo) ListItems(_ context.Context, invoiceID string) ([]*entity.InvoiceItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.InvoiceItem
	r.s.items.each(func(it *entity.InvoiceItem) bool {
		if it.InvoiceID == invoiceID {
			out = append(out, clone(it))
		}
		return true
	})
	return out, nil
}

func (r *invoiceRepo) DeleteItem(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.items.del(id) {
		return domain.ErrNotFound
	}
	return nil
}

func (r *invoiceRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.invoices.del(id) {
		return domain.ErrNotFound
	}
	return nil
}

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(_ context.Context, m *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == "" {
		m.ID = newID()
	}
	r.s.movements.put(m.ID, clone(m))
	return nil
}

// ListByProduct más reciente primero.
func (r *movementRepo) ListByProduct(_ context.Context, tenantID, productID string, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.StockMovement
	for i := len(r.s.movements.order) - 1; i >= 0; i-- {
		m := r.s.movements.rows[r.s.movements.order[i]]
		if m.TenantID == tenantID && m.ProductID == productID {
			all = append(all, clone(m))
		}
	}
	return paginate(all, limit, offset), nil
}

func (r *movementRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.movements.del(id) {
		return domain.ErrNotFound
	}
	return nil
}
