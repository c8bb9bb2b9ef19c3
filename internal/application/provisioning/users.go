package provisioning

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/permission"
)

// isSuperadmin los errores de lectura cuentan como "no" (se deniega).
func (uc *UseCase) isSuperadmin(ctx context.Context, userID string) bool {
	ok, err := uc.repos.Roles.HasRole(ctx, userID, entity.RoleSuperadmin)
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Msg("error verificando superadmin")
		return false
	}
	return ok
}

// canManage superadmin, o miembro del tenant con can_manage_users.
func (uc *UseCase) canManage(ctx context.Context, actor Actor, tenantID string) bool {
	if uc.isSuperadmin(ctx, actor.UserID) {
		return true
	}
	if actor.TenantID != tenantID {
		return false
	}
	return uc.perms.Has(ctx, actor.UserID, tenantID, permission.CanManageUsers)
}

// GetTenantUsers lista los perfiles del tenant con sus roles.
func (uc *UseCase) GetTenantUsers(ctx context.Context, actor Actor, tenantID string) (*dto.TenantUsersResponse, error) {
	if !uc.canManage(ctx, actor, tenantID) {
		return nil, domain.ErrForbidden
	}
	profiles, err := uc.repos.Profiles.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		roles, err := uc.repos.Roles.ListByUserAndTenant(ctx, p.ID, tenantID)
		if err != nil {
			return nil, err
		}
		out = append(out, ToProfileResponse(p, roles))
	}
	return &dto.TenantUsersResponse{Users: out}, nil
}

// CreateTenantUser crea un usuario en el tenant. Solo superadmin o admin pueden
// asignar un rol igual o superior al propio; el resto solo roles inferiores.
func (uc *UseCase) CreateTenantUser(ctx context.Context, actor Actor, tenantID string, in dto.CreateTenantUserRequest) (*dto.UserRef, error) {
	in.Email = normalizeEmail(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := uc.validate.Struct(&in, ""); err != nil {
		return nil, err
	}
	if !uc.canManage(ctx, actor, tenantID) {
		return nil, domain.ErrForbidden
	}
	role := in.Role
	if role == "" {
		role = entity.RoleCaixa
	}
	if !uc.isSuperadmin(ctx, actor.UserID) {
		roles, err := uc.repos.Roles.ListByUserAndTenant(ctx, actor.UserID, tenantID)
		if err != nil {
			return nil, err
		}
		own := entity.HighestRole(roles)
		if own != entity.RoleAdmin && !entity.Outranks(own, role) {
			return nil, domain.ErrForbidden
		}
	}
	return uc.createMember(ctx, member{
		TenantID:   tenantID,
		BranchID:   in.BranchID,
		Email:      in.Email,
		Password:   in.Password,
		FullName:   in.FullName,
		Role:       role,
		TemplateID: in.TemplateID,
	})
}

// UpdateUserPassword cambia la contraseña del usuario. Permitido al propio usuario,
// a superadmin y a miembros del mismo tenant con can_manage_users.
func (uc *UseCase) UpdateUserPassword(ctx context.Context, actor Actor, userID string, in dto.UpdatePasswordRequest) error {
	if err := uc.validate.Struct(&in, ""); err != nil {
		return err
	}
	user, err := uc.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if actor.UserID != userID {
		profile, err := uc.repos.Profiles.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		tenantID := ""
		if profile != nil {
			tenantID = profile.TenantID
		}
		if tenantID == "" {
			if !uc.isSuperadmin(ctx, actor.UserID) {
				return domain.ErrForbidden
			}
		} else if !uc.canManage(ctx, actor, tenantID) {
			return domain.ErrForbidden
		}
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.bcryptCost)
	if err != nil {
		return err
	}
	if err := uc.repos.Users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	uc.log.Info().Str("user_id", userID).Str("by", actor.UserID).Msg("contraseña actualizada")
	return nil
}

// ToProfileResponse mapea perfil + roles a DTO.
func ToProfileResponse(p *entity.Profile, roles []string) dto.ProfileResponse {
	var branch *string
	if p.SelectedBranchID != "" {
		b := p.SelectedBranchID
		branch = &b
	}
	if roles == nil {
		roles = []string{}
	}
	return dto.ProfileResponse{
		ID:               p.ID,
		TenantID:         p.TenantID,
		FullName:         p.FullName,
		Email:            p.Email,
		SelectedBranchID: branch,
		IsActive:         p.IsActive,
		Roles:            roles,
		Role:             entity.HighestRole(roles),
		CreatedAt:        p.CreatedAt,
	}
}
