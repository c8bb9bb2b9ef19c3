package repository

import (
	"context"

	"github.com/jhoicas/Gestor-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para identidades (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// ProfileRepository define el puerto de persistencia para perfiles.
type ProfileRepository interface {
	// Upsert inserta o actualiza el perfil por ID.
	Upsert(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	ListByTenant(ctx context.Context, tenantID string) ([]*entity.Profile, error)
}

// RoleRepository define el puerto de persistencia para user_roles.
type RoleRepository interface {
	Insert(ctx context.Context, role *entity.UserRole) error
	// ListByUserAndTenant devuelve los roles del usuario en el tenant (incluye los globales, sin tenant).
	ListByUserAndTenant(ctx context.Context, userID, tenantID string) ([]string, error)
	// HasRole informa si el usuario tiene el rol en cualquier tenant.
	HasRole(ctx context.Context, userID, role string) (bool, error)
}
