package memory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
)

type productRepo struct{ s *Store }

func (r *productRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	dup := false
	r.s.products.each(func(x *entity.Product) bool {
		dup = x.TenantID == p.TenantID && x.Code == p.Code
		return !dup
	})
	if dup {
		return domain.ErrDuplicate
	}
	if p.ID == "" {
		p.ID = newID()
	}
	r.s.products.put(p.ID, clone(p))
	return nil
}

func (r *productRepo) GetByID(_ context.Context, tenantID, id string) (*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.products.get(id)
	if !ok || p.TenantID != tenantID {
		return nil, nil
	}
	return clone(p), nil
}

// GetForUpdate sin transacciones no hay bloqueo: equivale a GetByID.
func (r *productRepo) GetForUpdate(ctx context.Context, tenantID, id string) (*entity.Product, error) {
	return r.GetByID(ctx, tenantID, id)
}

func (r *productRepo) ListByTenant(_ context.Context, tenantID string, limit, offset int) ([]*entity.Product, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.Product
	r.s.products.each(func(p *entity.Product) bool {
		if p.TenantID == tenantID {
			all = append(all, clone(p))
		}
		return true
	})
	return paginate(all, limit, offset), nil
}

func (r *productRepo) UpdateStock(_ context.Context, tenantID, id string, stock int, cost decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products.get(id)
	if !ok || p.TenantID != tenantID {
		return domain.ErrNotFound
	}
	p.CurrentStock = stock
	p.CostPrice = cost
	p.UpdatedAt = r.s.now()
	return nil
}

type serialRepo struct{ s *Store }

func (r *serialRepo) Create(_ context.Context, sn *entity.SerialNumber) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	dup := false
	r.s.serials.each(func(x *entity.SerialNumber) bool {
		dup = x.TenantID == sn.TenantID && x.ProductID == sn.ProductID && x.SerialNumber == sn.SerialNumber
		return !dup
	})
	if dup {
		return domain.ErrSerialConflict
	}
	if sn.ID == "" {
		sn.ID = newID()
	}
	r.s.serials.put(sn.ID, clone(sn))
	return nil
}

func (r *serialRepo) FindExisting(_ context.Context, tenantID, productID string, serials []string) ([]string, error) {
	want := make(map[string]bool, len(serials))
	for _, s := range serials {
		want[s] = true
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []string
	r.s.serials.each(func(x *entity.SerialNumber) bool {
		if x.TenantID == tenantID && x.ProductID == productID && want[x.SerialNumber] {
			out = append(out, x.SerialNumber)
		}
		return true
	})
	return out, nil
}

func (r *serialRepo) ListByProduct(_ context.Context, tenantID, productID string) ([]*entity.SerialNumber, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.SerialNumber
	r.s.serials.each(func(x *entity.SerialNumber) bool {
		if x.TenantID == tenantID && x.ProductID == productID {
			out = append(out, clone(x))
		}
		return true
	})
	return out, nil
}

func (r *serialRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.serials.del(id) {
		return domain.ErrNotFound
	}
	return nil
}
