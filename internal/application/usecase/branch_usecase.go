package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/application/validation"
	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
)

// BranchUseCase casos de uso de sucursales.
type BranchUseCase struct {
	repo     repository.BranchRepository
	validate *validation.Validator
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(repo repository.BranchRepository, v *validation.Validator) *BranchUseCase {
	return &BranchUseCase{repo: repo, validate: v}
}

// Create crea una sucursal secundaria (la principal nace con el tenant).
func (uc *BranchUseCase) Create(ctx context.Context, tenantID string, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if err := uc.validate.Struct(&in, ""); err != nil {
		return nil, err
	}
	now := time.Now()
	branch := &entity.Branch{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      in.Name,
		Code:      in.Code,
		IsMain:    false,
		IsActive:  true,
		Address:   in.Address,
		City:      in.City,
		State:     in.State,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// List sucursales del tenant.
func (uc *BranchUseCase) List(ctx context.Context, tenantID string, includeInactive bool) ([]dto.BranchResponse, error) {
	list, err := uc.repo.ListByTenant(ctx, tenantID, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBranchResponse(b))
	}
	return out, nil
}

// Deactivate baja lógica. La sucursal principal no se puede desactivar (ErrConflict).
func (uc *BranchUseCase) Deactivate(ctx context.Context, tenantID, id string) error {
	branch, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if branch == nil || branch.TenantID != tenantID {
		return domain.ErrNotFound
	}
	if branch.IsMain {
		return domain.ErrConflict
	}
	return uc.repo.SetActive(ctx, id, false)
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	return &dto.BranchResponse{
		ID:        b.ID,
		TenantID:  b.TenantID,
		Name:      b.Name,
		Code:      b.Code,
		IsMain:    b.IsMain,
		IsActive:  b.IsActive,
		Address:   b.Address,
		City:      b.City,
		State:     b.State,
		Phone:     b.Phone,
		CreatedAt: b.CreatedAt,
	}
}
