// Package stockentry registra notas de entrada de proveedor y su efecto en el inventario:
// nota, ítems, números de serie, movimientos y stock de productos como una sola unidad lógica.
package stockentry

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/application/ports"
	"github.com/jhoicas/Gestor-api/internal/application/validation"
	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/inventory"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
)

const issueDateLayout = "2006-01-02"

// Caller quién registra la entrada. BranchID es la sucursal seleccionada del usuario
// (vacía para directores).
type Caller struct {
	UserID   string
	TenantID string
	BranchID string
}

// Deps dependencias de lectura (pase de validación y consultas) y de escritura (Runner).
type Deps struct {
	Runner    Runner
	Tenants   repository.TenantRepository
	Branches  repository.BranchRepository
	Products  repository.ProductRepository
	Serials   repository.SerialNumberRepository
	Invoices  repository.InvoiceRepository
	Receipts  ReceiptGenerator
	Validator *validation.Validator
	Metrics   ports.Metrics
}

// UseCase motor de entradas de stock.
type UseCase struct {
	runner     Runner
	tenants    repository.TenantRepository
	branches   repository.BranchRepository
	products   repository.ProductRepository
	serials    repository.SerialNumberRepository
	invoices   repository.InvoiceRepository
	receipts   ReceiptGenerator
	validate   *validation.Validator
	metrics    ports.Metrics
	costMethod string
	log        zerolog.Logger
	now        func() time.Time
}

// NewUseCase construye el caso de uso. costMethod: inventory.CostMethodLast o CostMethodAverage.
func NewUseCase(d Deps, costMethod string, log zerolog.Logger) *UseCase {
	m := d.Metrics
	if m == nil {
		m = ports.NopMetrics{}
	}
	return &UseCase{
		runner:     d.Runner,
		tenants:    d.Tenants,
		branches:   d.Branches,
		products:   d.Products,
		serials:    d.Serials,
		invoices:   d.Invoices,
		receipts:   d.Receipts,
		validate:   d.Validator,
		metrics:    m,
		costMethod: costMethod,
		log:        log.With().Str("component", "stock_entry").Logger(),
		now:        time.Now,
	}
}

// plannedItem ítem validado con su producto.
type plannedItem struct {
	input   dto.StockEntryItemInput
	product *entity.Product
}

// plan resultado del pase de validación.
type plan struct {
	branchID  string
	issueDate time.Time
	items     []plannedItem
}

// CreateStockEntry valida la petición completa sin escribir y luego ejecuta la secuencia
// de escritura. Con un Runner no transaccional, un fallo dispara la compensación manual.
func (uc *UseCase) CreateStockEntry(ctx context.Context, caller Caller, in dto.CreateStockEntryRequest) (*dto.CreateStockEntryResponse, error) {
	p, err := uc.check(ctx, caller, in)
	if err != nil {
		uc.metrics.StockEntry(ports.OutcomeValidation)
		return nil, err
	}

	j := &journal{}
	err = uc.runner.RunStockEntry(ctx, func(repos EntryRepos) error {
		return uc.commit(ctx, repos, caller, in, p, j)
	})
	if err != nil {
		uc.metrics.StockEntry(ports.OutcomeFailed)
		uc.log.Error().Err(err).
			Str("tenant_id", caller.TenantID).
			Str("invoice_number", in.Invoice.InvoiceNumber).
			Bool("transactional", uc.runner.Transactional()).
			Msg("entrada de stock fallida")
		if !uc.runner.Transactional() && !j.empty() {
			// La compensación no debe cortarse si el cliente canceló la petición.
			cctx := context.WithoutCancel(ctx)
			_ = uc.runner.RunStockEntry(cctx, func(repos EntryRepos) error {
				uc.compensate(cctx, caller.TenantID, repos, j)
				return nil
			})
		}
		return nil, fmt.Errorf("registrar entrada: %w", err)
	}

	uc.metrics.StockEntry(ports.OutcomeSuccess)
	uc.log.Info().
		Str("tenant_id", caller.TenantID).
		Str("invoice_id", j.invoiceID).
		Int("items", len(p.items)).
		Msg("entrada de stock registrada")
	return &dto.CreateStockEntryResponse{Success: true, InvoiceID: j.invoiceID}, nil
}

// check pase de validación de solo lectura: esquema, sucursal, productos y números de serie.
// maxStock límite de las columnas INTEGER de cantidades y stock.
const maxStock = math.MaxInt32

func (uc *UseCase) check(ctx context.Context, caller Caller, in dto.CreateStockEntryRequest) (*plan, error) {
	if err := uc.validate.Struct(&in, ""); err != nil {
		return nil, err
	}
	issueDate, err := time.Parse(issueDateLayout, in.Invoice.IssueDate)
	if err != nil {
		return nil, domain.NewValidationError(domain.FieldError{Field: "invoice.issue_date", Message: "fecha inválida"})
	}

	verr := domain.NewValidationError()

	branchID := in.Invoice.BranchID
	if branchID == "" {
		branchID = caller.BranchID
	}
	if branchID == "" {
		verr.Add("invoice.branch_id", "es obligatorio si el usuario no tiene sucursal seleccionada")
	} else {
		branch, err := uc.branches.GetByID(ctx, branchID)
		if err != nil {
			return nil, err
		}
		switch {
		case branch == nil || branch.TenantID != caller.TenantID:
			verr.Add("invoice.branch_id", "sucursal no encontrada")
		case !branch.IsActive:
			verr.Add("invoice.branch_id", "la sucursal está inactiva")
		}
	}

	products := make(map[string]*entity.Product)
	incoming := make(map[string]int64) // producto → unidades acumuladas en la nota
	seen := make(map[string]map[string]string) // producto → serie → campo donde apareció
	items := make([]plannedItem, 0, len(in.Items))

	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)

		product, ok := products[it.ProductID]
		if !ok {
			product, err = uc.products.GetByID(ctx, caller.TenantID, it.ProductID)
			if err != nil {
				return nil, err
			}
			products[it.ProductID] = product
		}
		if product == nil {
			verr.Add(field+".product_id", "producto no encontrado")
			continue
		}
		items = append(items, plannedItem{input: it, product: product})

		incoming[product.ID] += int64(it.Quantity)
		if int64(product.CurrentStock)+incoming[product.ID] > maxStock {
			verr.Add(field+".quantity", fmt.Sprintf("el stock resultante supera el máximo de %d", maxStock))
			continue
		}

		if len(it.SerialNumbers) == 0 {
			continue
		}
		if !product.IsSerialized {
			verr.Add(field+".serial_numbers", "el producto no es serializado")
			continue
		}
		if len(it.SerialNumbers) != it.Quantity {
			verr.Add(field+".serial_numbers",
				fmt.Sprintf("se esperaban %d números de serie y se recibieron %d", it.Quantity, len(it.SerialNumbers)))
			continue
		}

		batch, ok := seen[product.ID]
		if !ok {
			batch = make(map[string]string)
			seen[product.ID] = batch
		}
		dup := false
		for k, sn := range it.SerialNumbers {
			if prev, ok := batch[sn]; ok {
				verr.Add(fmt.Sprintf("%s.serial_numbers[%d]", field, k),
					fmt.Sprintf("número de serie %q repetido (ya en %s)", sn, prev))
				dup = true
				continue
			}
			batch[sn] = fmt.Sprintf("%s.serial_numbers[%d]", field, k)
		}
		if dup {
			continue
		}

		existing, err := uc.serials.FindExisting(ctx, caller.TenantID, product.ID, it.SerialNumbers)
		if err != nil {
			return nil, err
		}
		for _, sn := range existing {
			verr.Add(field+".serial_numbers", fmt.Sprintf("el número de serie %q ya existe para el producto", sn))
		}
	}

	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return &plan{branchID: branchID, issueDate: issueDate, items: items}, nil
}

// commit secuencia de escritura en orden estricto; cada id creado queda en el journal.
func (uc *UseCase) commit(ctx context.Context, repos EntryRepos, caller Caller, in dto.CreateStockEntryRequest, p *plan, j *journal) error {
	now := uc.now()
	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		TenantID:      caller.TenantID,
		BranchID:      p.branchID,
		InvoiceNumber: in.Invoice.InvoiceNumber,
		Series:        in.Invoice.Series,
		AccessKey:     in.Invoice.AccessKey,
		IssueDate:     p.issueDate,
		SupplierID:    in.Invoice.SupplierID,
		TotalProducts: in.Invoice.TotalProducts,
		TotalInvoice:  in.Invoice.TotalInvoice,
		Notes:         in.Invoice.Notes,
		SignatureData: in.SignatureData,
		CreatedBy:     caller.UserID,
		CreatedAt:     now,
	}
	if err := repos.Invoices.Create(ctx, inv); err != nil {
		return fmt.Errorf("crear nota: %w", err)
	}
	j.invoiceID = inv.ID

	reason := "Entrada NF " + inv.InvoiceNumber
	purchase := p.issueDate

	for i, it := range p.items {
		item := &entity.InvoiceItem{
			ID:         uuid.New().String(),
			InvoiceID:  inv.ID,
			ProductID:  it.product.ID,
			Quantity:   it.input.Quantity,
			UnitPrice:  it.input.UnitPrice,
			TotalPrice: it.input.TotalPrice,
			CFOP:       it.input.CFOP,
			NCM:        it.input.NCM,
		}
		if err := repos.Invoices.CreateItem(ctx, item); err != nil {
			return fmt.Errorf("ítem %d: crear ítem: %w", i, err)
		}
		j.items = append(j.items, item.ID)

		if it.product.IsSerialized {
			for _, sn := range it.input.SerialNumbers {
				serial := &entity.SerialNumber{
					ID:            uuid.New().String(),
					TenantID:      caller.TenantID,
					ProductID:     it.product.ID,
					SerialNumber:  sn,
					Status:        entity.SerialStatusAvailable,
					InvoiceItemID: item.ID,
					PurchaseDate:  &purchase,
					CreatedAt:     now,
				}
				if err := repos.Serials.Create(ctx, serial); err != nil {
					return fmt.Errorf("ítem %d: crear número de serie %q: %w", i, sn, err)
				}
				j.serials = append(j.serials, serial.ID)
			}
		}

		// Releer: un ítem previo pudo haber movido el mismo producto.
		current, err := repos.Products.GetForUpdate(ctx, caller.TenantID, it.product.ID)
		if err != nil {
			return fmt.Errorf("ítem %d: leer producto: %w", i, err)
		}
		if current == nil {
			return fmt.Errorf("ítem %d: %w", i, domain.ErrNotFound)
		}
		prev := current.CurrentStock
		next := prev + it.input.Quantity
		cost := inventory.EntryCost(uc.costMethod, prev, current.CostPrice, it.input.Quantity, it.input.UnitPrice)

		mov := &entity.StockMovement{
			ID:            uuid.New().String(),
			TenantID:      caller.TenantID,
			BranchID:      p.branchID,
			ProductID:     it.product.ID,
			InvoiceID:     inv.ID,
			MovementType:  entity.MovementTypeEntrada,
			Quantity:      it.input.Quantity,
			PreviousStock: prev,
			NewStock:      next,
			UnitCost:      it.input.UnitPrice,
			Reason:        reason,
			CreatedBy:     caller.UserID,
			CreatedAt:     now,
		}
		if err := repos.Movements.Create(ctx, mov); err != nil {
			return fmt.Errorf("ítem %d: crear movimiento: %w", i, err)
		}
		j.movements = append(j.movements, mov.ID)

		j.touchProduct(current.ID, prev, current.CostPrice)
		if err := repos.Products.UpdateStock(ctx, caller.TenantID, current.ID, next, cost); err != nil {
			return fmt.Errorf("ítem %d: actualizar stock: %w", i, err)
		}
	}
	return nil
}
