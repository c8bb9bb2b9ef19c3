package auth

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/application/provisioning"
	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
	"github.com/jhoicas/Gestor-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase login: verifica credenciales y emite un JWT con el tenant y rol efectivo.
type AuthUseCase struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	roleRepo    repository.RoleRepository
	jwtCfg      JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, profileRepo repository.ProfileRepository, roleRepo repository.RoleRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, profileRepo: profileRepo, roleRepo: roleRepo, jwtCfg: jwtCfg}
}

// Login verifica email/password, genera JWT y retorna token + perfil.
// Email inexistente y contraseña incorrecta devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if user.Status != entity.UserStatusActive {
		return nil, domain.ErrForbidden
	}

	profile, err := uc.profileRepo.GetByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		// Superadmin de plataforma sin perfil.
		profile = &entity.Profile{ID: user.ID, Email: user.Email, IsActive: true, CreatedAt: user.CreatedAt}
	}
	if !profile.IsActive {
		return nil, domain.ErrForbidden
	}
	roles, err := uc.roleRepo.ListByUserAndTenant(ctx, user.ID, profile.TenantID)
	if err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, profile.TenantID, entity.HighestRole(roles), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  provisioning.ToProfileResponse(profile, roles),
	}, nil
}
