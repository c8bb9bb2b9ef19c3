package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/application/validation"
	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
)

// ProductUseCase alta y consulta de productos. El stock solo cambia vía entradas.
type ProductUseCase struct {
	repo      repository.ProductRepository
	serials   repository.SerialNumberRepository
	movements repository.StockMovementRepository
	validate  *validation.Validator
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, serials repository.SerialNumberRepository, movements repository.StockMovementRepository, v *validation.Validator) *ProductUseCase {
	return &ProductUseCase{repo: repo, serials: serials, movements: movements, validate: v}
}

// Create crea un nuevo producto con stock 0. ErrDuplicate si el código ya existe en el tenant.
func (uc *ProductUseCase) Create(ctx context.Context, tenantID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	in.Code = strings.TrimSpace(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	if err := uc.validate.Struct(&in, ""); err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Name:         in.Name,
		Code:         in.Code,
		Category:     in.Category,
		CurrentStock: 0,
		CostPrice:    in.CostPrice,
		IsSerialized: in.IsSerialized,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product, true), nil
}

// GetByID obtiene un producto del tenant. showCost=false oculta el costo.
func (uc *ProductUseCase) GetByID(ctx context.Context, tenantID, id string, showCost bool) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product, showCost), nil
}

// List lista productos del tenant con paginación.
func (uc *ProductUseCase) List(ctx context.Context, tenantID string, page dto.PageRequest, showCost bool) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByTenant(ctx, tenantID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p, showCost))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

// Movements libro de movimientos del producto, más reciente primero.
func (uc *ProductUseCase) Movements(ctx context.Context, tenantID, productID string, page dto.PageRequest) ([]dto.StockMovementResponse, error) {
	if _, err := uc.GetByID(ctx, tenantID, productID, false); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.movements.ListByProduct(ctx, tenantID, productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementResponse{
			ID:            m.ID,
			BranchID:      m.BranchID,
			ProductID:     m.ProductID,
			InvoiceID:     m.InvoiceID,
			MovementType:  m.MovementType,
			Quantity:      m.Quantity,
			PreviousStock: m.PreviousStock,
			NewStock:      m.NewStock,
			UnitCost:      m.UnitCost,
			Reason:        m.Reason,
			CreatedBy:     m.CreatedBy,
			CreatedAt:     m.CreatedAt,
		})
	}
	return out, nil
}

// SerialNumbers números de serie del producto.
func (uc *ProductUseCase) SerialNumbers(ctx context.Context, tenantID, productID string) ([]dto.SerialNumberResponse, error) {
	if _, err := uc.GetByID(ctx, tenantID, productID, false); err != nil {
		return nil, err
	}
	list, err := uc.serials.ListByProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SerialNumberResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.SerialNumberResponse{
			ID:            s.ID,
			SerialNumber:  s.SerialNumber,
			Status:        s.Status,
			InvoiceItemID: s.InvoiceItemID,
			PurchaseDate:  s.PurchaseDate,
			CreatedAt:     s.CreatedAt,
		})
	}
	return out, nil
}

func toProductResponse(p *entity.Product, showCost bool) *dto.ProductResponse {
	var cost *decimal.Decimal
	if showCost {
		c := p.CostPrice
		cost = &c
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		TenantID:     p.TenantID,
		Name:         p.Name,
		Code:         p.Code,
		Category:     p.Category,
		CurrentStock: p.CurrentStock,
		CostPrice:    cost,
		IsSerialized: p.IsSerialized,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
