package memory

import (
	"context"

	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
)

type templateRepo struct{ s *Store }

func (r *templateRepo) Create(_ context.Context, t *entity.PermissionTemplate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t.ID == "" {
		t.ID = newID()
	}
	r.s.templates.put(t.ID, clone(t))
	return nil
}

func (r *templateRepo) GetByID(_ context.Context, tenantID, id string) (*entity.PermissionTemplate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.templates.get(id)
	if !ok || t.TenantID != tenantID {
		return nil, nil
	}
	return clone(t), nil
}

func (r *templateRepo) ListByTenant(_ context.Context, tenantID string) ([]*entity.PermissionTemplate, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.PermissionTemplate
	r.s.templates.each(func(t *entity.PermissionTemplate) bool {
		if t.TenantID == tenantID {
			out = append(out, clone(t))
		}
		return true
	})
	return out, nil
}

func (r *templateRepo) Update(_ context.Context, t *entity.PermissionTemplate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.templates.get(t.ID)
	if !ok || cur.TenantID != t.TenantID {
		return domain.ErrNotFound
	}
	r.s.templates.put(t.ID, clone(t))
	return nil
}

// Delete borra la plantilla; los overrides que la referencian quedan con template_id
// colgante, igual que sin FK.
func (r *templateRepo) Delete(_ context.Context, tenantID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.templates.get(id)
	if !ok || cur.TenantID != tenantID {
		return domain.ErrNotFound
	}
	r.s.templates.del(id)
	return nil
}

type overrideRepo struct{ s *Store }

func overrideKey(userID, tenantID string) string { return userID + "|" + tenantID }

func (r *overrideRepo) Get(_ context.Context, userID, tenantID string) (*entity.UserPermissions, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	row, _ := r.s.overrides.get(overrideKey(userID, tenantID))
	return clone(row), nil
}

func (r *overrideRepo) Upsert(_ context.Context, p *entity.UserPermissions) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	key := overrideKey(p.UserID, p.TenantID)
	if cur, ok := r.s.overrides.get(key); ok {
		p.ID = cur.ID
		p.CreatedAt = cur.CreatedAt
	}
	if p.ID == "" {
		p.ID = newID()
	}
	r.s.overrides.put(key, clone(p))
	return nil
}
