package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
)

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	dup := false
	r.s.users.each(func(x *entity.User) bool {
		dup = strings.EqualFold(x.Email, u.Email)
		return !dup
	})
	if dup {
		return domain.ErrEmailAlreadyExists
	}
	if u.ID == "" {
		u.ID = newID()
	}
	r.s.users.put(u.ID, clone(u))
	return nil
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, _ := r.s.users.get(id)
	return clone(u), nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out *entity.User
	r.s.users.each(func(u *entity.User) bool {
		if strings.EqualFold(u.Email, email) {
			out = clone(u)
			return false
		}
		return true
	})
	return out, nil
}

func (r *userRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users.get(id)
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = r.s.now()
	return nil
}

type profileRepo struct{ s *Store }

func (r *profileRepo) Upsert(_ context.Context, p *entity.Profile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users.get(p.ID); !ok {
		return domain.ErrUserNotFound
	}
	if existing, ok := r.s.profiles.get(p.ID); ok && !existing.CreatedAt.IsZero() {
		p.CreatedAt = existing.CreatedAt
	}
	r.s.profiles.put(p.ID, clone(p))
	return nil
}

func (r *profileRepo) GetByID(_ context.Context, id string) (*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, _ := r.s.profiles.get(id)
	return clone(p), nil
}

func (r *profileRepo) ListByTenant(_ context.Context, tenantID string) ([]*entity.Profile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []*entity.Profile
	r.s.profiles.each(func(p *entity.Profile) bool {
		if p.TenantID == tenantID {
			out = append(out, clone(p))
		}
		return true
	})
	return out, nil
}

type roleRepo struct{ s *Store }

// Insert ignora duplicados exactos (UNIQUE user_id, tenant_id, role).
func (r *roleRepo) Insert(_ context.Context, role *entity.UserRole) error {
	if !entity.IsValidRole(role.Role) {
		return domain.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, x := range r.s.roles {
		if x == *role {
			return nil
		}
	}
	r.s.roles = append(r.s.roles, *role)
	return nil
}

func (r *roleRepo) ListByUserAndTenant(_ context.Context, userID, tenantID string) ([]string, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []string
	for _, x := range r.s.roles {
		if x.UserID == userID && (x.TenantID == tenantID || x.TenantID == "") {
			out = append(out, x.Role)
		}
	}
	return out, nil
}

func (r *roleRepo) HasRole(_ context.Context, userID, role string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, x := range r.s.roles {
		if x.UserID == userID && x.Role == role {
			return true, nil
		}
	}
	return false, nil
}
