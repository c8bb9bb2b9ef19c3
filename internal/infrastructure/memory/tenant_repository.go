package memory

import (
	"context"

	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
)

type tenantRepo struct{ s *Store }

// Create persiste el tenant y su sucursal principal, como el trigger de la BD.
func (r *tenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	dup := false
	r.s.tenants.each(func(x *entity.Tenant) bool {
		dup = x.Slug == t.Slug
		return !dup
	})
	if dup {
		return domain.ErrSlugAlreadyExists
	}
	if t.ID == "" {
		t.ID = newID()
	}
	now := r.s.now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt, t.UpdatedAt = now, now
	}
	r.s.tenants.put(t.ID, clone(t))
	main := &entity.Branch{
		ID:        newID(),
		TenantID:  t.ID,
		Name:      t.Name,
		Code:      "MATRIZ",
		IsMain:    true,
		IsActive:  true,
		Address:   t.Address,
		City:      t.City,
		State:     t.State,
		Phone:     t.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.s.branches.put(main.ID, main)
	return nil
}

func (r *tenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, _ := r.s.tenants.get(id)
	return clone(t), nil
}

func (r *tenantRepo) GetBySlug(_ context.Context, slug string) (*entity.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out *entity.Tenant
	r.s.tenants.each(func(t *entity.Tenant) bool {
		if t.Slug == slug {
			out = clone(t)
			return false
		}
		return true
	})
	return out, nil
}

func (r *tenantRepo) List(_ context.Context, limit, offset int) ([]*entity.Tenant, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var all []*entity.Tenant
	r.s.tenants.each(func(t *entity.Tenant) bool {
		all = append(all, clone(t))
		return true
	})
	return paginate(all, limit, offset), nil
}

// Delete borra el tenant y sus sucursales (ON DELETE CASCADE en SQL).
func (r *tenantRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.tenants.del(id) {
		return domain.ErrNotFound
	}
	var branchIDs []string
	r.s.branches.each(func(b *entity.Branch) bool {
		if b.TenantID == id {
			branchIDs = append(branchIDs, b.ID)
		}
		return true
	})
	for _, bid := range branchIDs {
		r.s.branches.del(bid)
	}
	return nil
}

type branchRepo struct{ s *Store }

func (r *branchRepo) Create(_ context.Context, b *entity.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tenants.get(b.TenantID); !ok {
		return domain.ErrNotFound
	}
	if b.IsMain {
		conflict := false
		r.s.branches.each(func(x *entity.Branch) bool {
			conflict = x.TenantID == b.TenantID && x.IsMain
			return !conflict
		})
		if conflict {
			return domain.ErrConflict
		}
	}
	if b.ID == "" {
		b.ID = newID()
	}
	r.s.branches.put(b.ID, clone(b))
	return nil
}

func (r *branchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	b, _ := r.s.branches.get(id)
	return clone(b), nil
}

func (r *branchRepo) GetMainByTenant(_ context.Context, tenantID string) (*entity.Branch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out *entity.Branch
	r.s.branches.each(func(b *entity.Branch) bool {
		if b.TenantID == tenantID && b.IsMain {
			out = clone(b)
			return false
		}
		return true
	})
	return out, nil
}

func (r *branchRepo) ListByTenant(_ context.Context, tenantID string, includeInactive bool) ([]*entity.Branch, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Branch
	r.s.branches.each(func(b *entity.Branch) bool {
		if b.TenantID == tenantID && (includeInactive || b.IsActive) {
			out = append(out, clone(b))
		}
		return true
	})
	return out, nil
}

func (r *branchRepo) SetActive(_ context.Context, id string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.branches.get(id)
	if !ok {
		return domain.ErrNotFound
	}
	if b.IsMain && !active {
		return domain.ErrConflict
	}
	b.IsActive = active
	b.UpdatedAt = r.s.now()
	return nil
}

func paginate[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all
}
