package stockentry_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/application/stockentry"
	"github.com/jhoicas/Gestor-api/internal/application/validation"
	"github.com/jhoicas/Gestor-api/internal/domain"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/inventory"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
	"github.com/jhoicas/Gestor-api/internal/infrastructure/memory"
)

var errBoom = errors.New("boom")

// failingProducts falla en la llamada número failOn a UpdateStock (1-based).
type failingProducts struct {
	repository.ProductRepository
	failOn int
	calls  int
}

func (f *failingProducts) UpdateStock(ctx context.Context, tenantID, id string, stock int, cost decimal.Decimal) error {
	f.calls++
	if f.calls == f.failOn {
		return errBoom
	}
	return f.ProductRepository.UpdateStock(ctx, tenantID, id, stock, cost)
}

// failingMovements falla al borrar (compensación).
type failingMovements struct {
	repository.StockMovementRepository
}

func (failingMovements) Delete(context.Context, string) error { return errBoom }

// txRunner simula un runner transaccional que no deshace nada: sirve para comprobar
// que la compensación manual solo corre en modo no transaccional.
type txRunner struct {
	stockentry.Runner
}

func (txRunner) Transactional() bool { return true }

type fixture struct {
	store  *memory.Store
	tenant *entity.Tenant
	branch *entity.Branch
	caller stockentry.Caller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	tenant := &entity.Tenant{Name: "Acme", Slug: "acme", Status: entity.TenantStatusActive}
	require.NoError(t, store.Tenants().Create(ctx, tenant))
	main, err := store.Branches().GetMainByTenant(ctx, tenant.ID)
	require.NoError(t, err)
	require.NotNil(t, main)
	return &fixture{
		store:  store,
		tenant: tenant,
		branch: main,
		caller: stockentry.Caller{UserID: "user-1", TenantID: tenant.ID, BranchID: main.ID},
	}
}

func (f *fixture) product(t *testing.T, code string, stock int, cost string, serialized bool) *entity.Product {
	t.Helper()
	p := &entity.Product{
		TenantID:     f.tenant.ID,
		Name:         "Producto " + code,
		Code:         code,
		CurrentStock: stock,
		CostPrice:    decimal.RequireFromString(cost),
		IsSerialized: serialized,
	}
	require.NoError(t, f.store.Products().Create(context.Background(), p))
	return p
}

func (f *fixture) useCase(runner stockentry.Runner, costMethod string) *stockentry.UseCase {
	if runner == nil {
		runner = f.store.Runner()
	}
	return stockentry.NewUseCase(stockentry.Deps{
		Runner:    runner,
		Tenants:   f.store.Tenants(),
		Branches:  f.store.Branches(),
		Products:  f.store.Products(),
		Serials:   f.store.SerialNumbers(),
		Invoices:  f.store.Invoices(),
		Validator: validation.New(),
	}, costMethod, zerolog.Nop())
}

func (f *fixture) stock(t *testing.T, id string) *entity.Product {
	t.Helper()
	p, err := f.store.Products().GetByID(context.Background(), f.tenant.ID, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func entry(items ...dto.StockEntryItemInput) dto.CreateStockEntryRequest {
	return dto.CreateStockEntryRequest{
		Invoice: dto.StockEntryInvoiceInput{InvoiceNumber: "123", IssueDate: "2025-01-15"},
		Items:   items,
	}
}

func item(productID string, qty int, price string, serials ...string) dto.StockEntryItemInput {
	unit := decimal.RequireFromString(price)
	return dto.StockEntryItemInput{
		ProductID:     productID,
		Quantity:      qty,
		UnitPrice:     unit,
		TotalPrice:    unit.Mul(decimal.NewFromInt(int64(qty))),
		SerialNumbers: serials,
	}
}

func validationFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	out := make([]string, 0, len(verr.Fields))
	for _, fe := range verr.Fields {
		out = append(out, fe.Field)
	}
	return out
}

func TestCreateStockEntry_SerializedSuccess(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CAM-01", 10, "100", true)
	uc := f.useCase(nil, inventory.CostMethodLast)

	resp, err := uc.CreateStockEntry(context.Background(), f.caller,
		entry(item(p.ID, 5, "120", "S1", "S2", "S3", "S4", "S5")))
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.InvoiceID)

	got := f.stock(t, p.ID)
	assert.Equal(t, 15, got.CurrentStock)
	assert.True(t, decimal.RequireFromString("120").Equal(got.CostPrice))

	serials, err := f.store.SerialNumbers().ListByProduct(context.Background(), f.tenant.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, serials, 5)
	for _, s := range serials {
		assert.Equal(t, entity.SerialStatusAvailable, s.Status)
		assert.NotEmpty(t, s.InvoiceItemID)
		require.NotNil(t, s.PurchaseDate)
		assert.Equal(t, "2025-01-15", s.PurchaseDate.Format("2006-01-02"))
	}

	movs, err := f.store.StockMovements().ListByProduct(context.Background(), f.tenant.ID, p.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, 10, movs[0].PreviousStock)
	assert.Equal(t, 15, movs[0].NewStock)
	assert.Equal(t, entity.MovementTypeEntrada, movs[0].MovementType)
	assert.Equal(t, "Entrada NF 123", movs[0].Reason)
	assert.Equal(t, f.branch.ID, movs[0].BranchID)
	assert.Equal(t, resp.InvoiceID, movs[0].InvoiceID)
}

func TestCreateStockEntry_SerialCountMismatchWritesNothing(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "CAM-01", 10, "100", true)
	uc := f.useCase(nil, inventory.CostMethodLast)
	before := f.store.Counts()

	_, err := uc.CreateStockEntry(context.Background(), f.caller,
		entry(item(p.ID, 5, "120", "S1", "S2", "S3", "S4")))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, []string{"items[0].serial_numbers"}, validationFields(t, err))

	assert.Equal(t, before, f.store.Counts())
	assert.Equal(t, 10, f.stock(t, p.ID).CurrentStock)
}

func TestCreateStockEntry_FailureOnSecondProductUpdateCompensates(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 3, "10", false)
	b := f.product(t, "B", 7, "20", false)

	repos := f.store.EntryRepos()
	repos.Products = &failingProducts{ProductRepository: repos.Products, failOn: 2}
	uc := f.useCase(stockentry.NewDirectRunner(repos), inventory.CostMethodLast)
	before := f.store.Counts()

	_, err := uc.CreateStockEntry(context.Background(), f.caller,
		entry(item(a.ID, 2, "11"), item(b.ID, 4, "22")))
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)

	gotA := f.stock(t, a.ID)
	assert.Equal(t, 3, gotA.CurrentStock)
	assert.True(t, decimal.RequireFromString("10").Equal(gotA.CostPrice))
	assert.Equal(t, 7, f.stock(t, b.ID).CurrentStock)
	assert.Equal(t, before, f.store.Counts())
}

func TestCreateStockEntry_CompensationContinuesAfterStepFailure(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 1, "10", false)

	repos := f.store.EntryRepos()
	repos.Products = &failingProducts{ProductRepository: repos.Products, failOn: 1}
	repos.Movements = failingMovements{StockMovementRepository: repos.Movements}
	uc := f.useCase(stockentry.NewDirectRunner(repos), inventory.CostMethodLast)

	_, err := uc.CreateStockEntry(context.Background(), f.caller, entry(item(a.ID, 2, "11")))
	require.Error(t, err)

	c := f.store.Counts()
	assert.Equal(t, 1, c.Movements, "el borrado del movimiento falló")
	assert.Zero(t, c.Items)
	assert.Zero(t, c.Invoices)
	assert.Equal(t, 1, f.stock(t, a.ID).CurrentStock)
}

func TestCreateStockEntry_TransactionalRunnerSkipsCompensation(t *testing.T) {
	f := newFixture(t)
	a := f.product(t, "A", 1, "10", false)

	repos := f.store.EntryRepos()
	repos.Products = &failingProducts{ProductRepository: repos.Products, failOn: 1}
	uc := f.useCase(txRunner{Runner: stockentry.NewDirectRunner(repos)}, inventory.CostMethodLast)

	_, err := uc.CreateStockEntry(context.Background(), f.caller, entry(item(a.ID, 2, "11")))
	require.Error(t, err)

	// Con un runner transaccional real el rollback es nativo; aquí quedan las filas.
	c := f.store.Counts()
	assert.Equal(t, 1, c.Invoices)
	assert.Equal(t, 1, c.Movements)
}

func TestCreateStockEntry_SameProductTwiceChainsMovements(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "A", 5, "10", false)
	uc := f.useCase(nil, inventory.CostMethodAverage)

	_, err := uc.CreateStockEntry(context.Background(), f.caller,
		entry(item(p.ID, 5, "20"), item(p.ID, 10, "10")))
	require.NoError(t, err)

	got := f.stock(t, p.ID)
	assert.Equal(t, 20, got.CurrentStock)
	// (5*10 + 5*20) / 10 = 15 ; (10*15 + 10*10) / 20 = 12.5
	assert.True(t, decimal.RequireFromString("12.5").Equal(got.CostPrice), got.CostPrice.String())

	movs, err := f.store.StockMovements().ListByProduct(context.Background(), f.tenant.ID, p.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, movs, 2)
	// Más reciente primero.
	assert.Equal(t, 10, movs[0].PreviousStock)
	assert.Equal(t, 20, movs[0].NewStock)
	assert.Equal(t, 5, movs[1].PreviousStock)
	assert.Equal(t, 10, movs[1].NewStock)
}

func TestCreateStockEntry_ValidationPass(t *testing.T) {
	f := newFixture(t)
	serialized := f.product(t, "CAM", 0, "1", true)
	plain := f.product(t, "CAB", 0, "1", false)
	nearlyFull := f.product(t, "TOP", math.MaxInt32-5, "1", false)
	require.NoError(t, f.store.SerialNumbers().Create(context.Background(), &entity.SerialNumber{
		TenantID: f.tenant.ID, ProductID: serialized.ID, SerialNumber: "USED", Status: entity.SerialStatusAvailable,
	}))

	other := &entity.Tenant{Name: "Other", Slug: "other"}
	require.NoError(t, f.store.Tenants().Create(context.Background(), other))
	otherBranch, err := f.store.Branches().GetMainByTenant(context.Background(), other.ID)
	require.NoError(t, err)

	inactive := &entity.Branch{TenantID: f.tenant.ID, Name: "Cerrada", IsActive: true}
	require.NoError(t, f.store.Branches().Create(context.Background(), inactive))
	require.NoError(t, f.store.Branches().SetActive(context.Background(), inactive.ID, false))

	cases := []struct {
		name   string
		req    func() dto.CreateStockEntryRequest
		caller func(c stockentry.Caller) stockentry.Caller
		fields []string
	}{
		{
			name:   "producto inexistente",
			req:    func() dto.CreateStockEntryRequest { return entry(item("nope", 1, "1")) },
			fields: []string{"items[0].product_id"},
		},
		{
			name: "serie repetida entre ítems",
			req: func() dto.CreateStockEntryRequest {
				return entry(item(serialized.ID, 1, "1", "X1"), item(serialized.ID, 1, "1", "X1"))
			},
			fields: []string{"items[1].serial_numbers[0]"},
		},
		{
			name:   "serie ya registrada",
			req:    func() dto.CreateStockEntryRequest { return entry(item(serialized.ID, 1, "1", "USED")) },
			fields: []string{"items[0].serial_numbers"},
		},
		{
			name:   "series en producto no serializado",
			req:    func() dto.CreateStockEntryRequest { return entry(item(plain.ID, 1, "1", "Z")) },
			fields: []string{"items[0].serial_numbers"},
		},
		{
			name: "sucursal de otro tenant",
			req: func() dto.CreateStockEntryRequest {
				r := entry(item(plain.ID, 1, "1"))
				r.Invoice.BranchID = otherBranch.ID
				return r
			},
			fields: []string{"invoice.branch_id"},
		},
		{
			name: "sucursal inactiva",
			req: func() dto.CreateStockEntryRequest {
				r := entry(item(plain.ID, 1, "1"))
				r.Invoice.BranchID = inactive.ID
				return r
			},
			fields: []string{"invoice.branch_id"},
		},
		{
			name:   "director sin sucursal",
			req:    func() dto.CreateStockEntryRequest { return entry(item(plain.ID, 1, "1")) },
			caller: func(c stockentry.Caller) stockentry.Caller { c.BranchID = ""; return c },
			fields: []string{"invoice.branch_id"},
		},
		{
			name: "cantidad no positiva",
			req: func() dto.CreateStockEntryRequest {
				return entry(item(plain.ID, 0, "1"))
			},
			fields: []string{"items[0].quantity"},
		},
		{
			name: "cantidad fuera del rango INTEGER",
			req: func() dto.CreateStockEntryRequest {
				return entry(item(plain.ID, math.MaxInt32+1, "1"))
			},
			fields: []string{"items[0].quantity"},
		},
		{
			name: "stock resultante desborda",
			req: func() dto.CreateStockEntryRequest {
				return entry(item(nearlyFull.ID, 3, "1"), item(nearlyFull.ID, 3, "1"))
			},
			fields: []string{"items[1].quantity"},
		},
	}

	uc := f.useCase(nil, inventory.CostMethodLast)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := f.store.Counts()
			caller := f.caller
			if tc.caller != nil {
				caller = tc.caller(caller)
			}
			_, err := uc.CreateStockEntry(context.Background(), caller, tc.req())
			require.Error(t, err)
			assert.Equal(t, tc.fields, validationFields(t, err))
			assert.Equal(t, before, f.store.Counts())
		})
	}
}

func TestGetStockEntry(t *testing.T) {
	f := newFixture(t)
	p := f.product(t, "A", 0, "1", false)
	uc := f.useCase(nil, inventory.CostMethodLast)

	resp, err := uc.CreateStockEntry(context.Background(), f.caller, entry(item(p.ID, 3, "2.5")))
	require.NoError(t, err)

	got, err := uc.GetStockEntry(context.Background(), f.tenant.ID, resp.InvoiceID)
	require.NoError(t, err)
	assert.Equal(t, "123", got.InvoiceNumber)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)

	_, err = uc.GetStockEntry(context.Background(), "otro-tenant", resp.InvoiceID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
