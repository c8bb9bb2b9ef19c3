package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gestor-api/internal/application/auth"
	"github.com/jhoicas/Gestor-api/internal/application/permissions"
	"github.com/jhoicas/Gestor-api/internal/application/provisioning"
	"github.com/jhoicas/Gestor-api/internal/application/stockentry"
	"github.com/jhoicas/Gestor-api/internal/application/usecase"
	"github.com/jhoicas/Gestor-api/internal/application/validation"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/inventory"
	"github.com/jhoicas/Gestor-api/internal/infrastructure/cache"
	"github.com/jhoicas/Gestor-api/internal/infrastructure/memory"
	"github.com/jhoicas/Gestor-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Gestor-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/Gestor-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor completo sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	rootEmail    = "root@gestor.dev"
	rootPassword = "rootpass"
)

type server struct {
	app   *fiber.App
	store *memory.Store
}

func newServer(t *testing.T) *server {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	hash, err := bcrypt.GenerateFromPassword([]byte(rootPassword), bcrypt.MinCost)
	require.NoError(t, err)
	root := &entity.User{Email: rootEmail, PasswordHash: string(hash), Status: entity.UserStatusActive}
	require.NoError(t, store.Users().Create(ctx, root))
	require.NoError(t, store.Roles().Insert(ctx, &entity.UserRole{UserID: root.ID, Role: entity.RoleSuperadmin}))

	v := validation.New()
	m := metrics.New("gestor_test")
	log := zerolog.Nop()

	repos := store.Repositories()

	permsUC := permissions.NewUseCase(permissions.Repos{
		Profiles:  repos.Profiles,
		Roles:     repos.Roles,
		Templates: repos.Templates,
		Overrides: repos.Overrides,
	}, cache.NewLRU(128, 0), m, v, log)
	provUC := provisioning.NewUseCase(provisioning.Repos{
		Tenants:   repos.Tenants,
		Branches:  repos.Branches,
		Users:     repos.Users,
		Profiles:  repos.Profiles,
		Roles:     repos.Roles,
		Templates: repos.Templates,
		Overrides: repos.Overrides,
	}, permsUC, v, m, log).WithBcryptCost(bcrypt.MinCost)
	entryUC := stockentry.NewUseCase(stockentry.Deps{
		Runner:    store.Runner(),
		Tenants:   repos.Tenants,
		Branches:  repos.Branches,
		Products:  repos.Products,
		Serials:   repos.SerialNumbers,
		Invoices:  repos.Invoices,
		Receipts:  pdf.NewMarotoPDFGenerator(),
		Validator: v,
		Metrics:   m,
	}, inventory.CostMethodLast, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         auth.NewAuthUseCase(repos.Users, repos.Profiles, repos.Roles, auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer}),
		PermissionsUC:  permsUC,
		ProvisioningUC: provUC,
		StockEntryUC:   entryUC,
		ProductUC:      usecase.NewProductUseCase(repos.Products, repos.SerialNumbers, repos.StockMovements, v),
		BranchUC:       usecase.NewBranchUseCase(repos.Branches, v),
		Profiles:       repos.Profiles,
		Metrics:        m,
		Log:            log,
		JWTSecret:      testJWTSecret,
	})
	return &server{app: app, store: store}
}

// call hace la petición y decodifica la respuesta JSON en out (si no es nil).
func (s *server) call(t *testing.T, method, path, token string, body any, out any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (s *server) login(t *testing.T, email, password string) string {
	t.Helper()
	var out struct {
		Token string `json:"token"`
	}
	resp := s.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": email, "password": password}, &out)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, out.Token)
	return out.Token
}

type tenantCreated struct {
	Success bool `json:"success"`
	Tenant  struct {
		ID   string `json:"id"`
		Slug string `json:"slug"`
	} `json:"tenant"`
	User struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// provision crea un tenant con admin y devuelve el token del admin.
func (s *server) provision(t *testing.T) (tenantCreated, string) {
	t.Helper()
	root := s.login(t, rootEmail, rootPassword)
	var created tenantCreated
	resp := s.call(t, http.MethodPost, "/api/tenants", root, fiber.Map{
		"tenant": fiber.Map{"name": "Loja Centro"},
		"admin":  fiber.Map{"email": "ana@loja.com", "password": "secret1", "full_name": "Ana Admin"},
	}, &created)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.True(t, created.Success)
	return created, s.login(t, "ana@loja.com", "secret1")
}

type errorBody struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"details"`
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo: tenant → admin → producto → entrada → consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_StockEntryFlow(t *testing.T) {
	s := newServer(t)
	created, admin := s.provision(t)
	assert.Equal(t, "loja-centro", created.Tenant.Slug)

	var me struct {
		Role        string         `json:"role"`
		Rule        string         `json:"rule"`
		Director    bool           `json:"director"`
		Permissions map[string]any `json:"permissions"`
	}
	resp := s.call(t, http.MethodGet, "/api/permissions/me", admin, nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.RoleAdmin, me.Role)
	assert.Equal(t, "role", me.Rule)
	assert.False(t, me.Director)
	assert.Equal(t, true, me.Permissions["can_manage_users"])

	var product struct {
		ID           string `json:"id"`
		CurrentStock int    `json:"current_stock"`
		CostPrice    string `json:"cost_price"`
	}
	resp = s.call(t, http.MethodPost, "/api/products", admin, fiber.Map{"name": "Roteador", "code": "RT-1", "cost_price": "10"}, &product)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 0, product.CurrentStock)

	var entry struct {
		Success   bool   `json:"success"`
		InvoiceID string `json:"invoice_id"`
	}
	resp = s.call(t, http.MethodPost, "/functions/v1/create-stock-entry", admin, fiber.Map{
		"invoice": fiber.Map{"invoice_number": "NF-100", "issue_date": "2026-01-15", "total_invoice": "37.50"},
		"items": []fiber.Map{{
			"product_id": product.ID, "quantity": 3, "unit_price": "12.50", "total_price": "37.50",
		}},
	}, &entry)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.True(t, entry.Success)
	require.NotEmpty(t, entry.InvoiceID)

	resp = s.call(t, http.MethodGet, "/api/products/"+product.ID, admin, nil, &product)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, product.CurrentStock)
	assert.Equal(t, "12.5", product.CostPrice)

	var movements []struct {
		MovementType  string `json:"movement_type"`
		PreviousStock int    `json:"previous_stock"`
		NewStock      int    `json:"new_stock"`
		Reason        string `json:"reason"`
	}
	resp = s.call(t, http.MethodGet, "/api/products/"+product.ID+"/movements", admin, nil, &movements)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, movements, 1)
	assert.Equal(t, "entrada", movements[0].MovementType)
	assert.Equal(t, 0, movements[0].PreviousStock)
	assert.Equal(t, 3, movements[0].NewStock)
	assert.Equal(t, "Entrada NF NF-100", movements[0].Reason)

	var got struct {
		InvoiceNumber string           `json:"invoice_number"`
		Items         []map[string]any `json:"items"`
	}
	resp = s.call(t, http.MethodGet, "/api/stock-entries/"+entry.InvoiceID, admin, nil, &got)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "NF-100", got.InvoiceNumber)
	assert.Len(t, got.Items, 1)

	resp = s.call(t, http.MethodGet, "/api/stock-entries/"+entry.InvoiceID+"/pdf", admin, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	resp = s.call(t, http.MethodGet, "/metrics", "", nil, nil)
	raw, _ = io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `gestor_test_stock_entries_total{outcome="success"} 1`)
	assert.Contains(t, string(raw), `gestor_test_tenant_provisioning_total`)
}

func TestRouter_StockEntryRejections(t *testing.T) {
	s := newServer(t)
	_, admin := s.provision(t)

	var body errorBody
	resp := s.call(t, http.MethodPost, "/api/stock-entries", admin, fiber.Map{
		"invoice": fiber.Map{"invoice_number": "NF-1", "issue_date": "2026-01-15"},
		"items":   []fiber.Map{},
	}, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
	require.NotEmpty(t, body.Details)
	assert.Equal(t, "items", body.Details[0].Field)

	body = errorBody{}
	resp = s.call(t, http.MethodPost, "/api/stock-entries", admin, fiber.Map{
		"invoice": fiber.Map{"invoice_number": "NF-2", "issue_date": "2026-01-15"},
		"items":   []fiber.Map{{"product_id": "no-existe", "quantity": 1, "unit_price": "1", "total_price": "1"}},
	}, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.NotEmpty(t, body.Error)

	assert.Zero(t, s.store.Counts().Invoices)

	resp = s.call(t, http.MethodPost, "/api/stock-entries", "", fiber.Map{}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Autorización: superadmin, admin y caixa
// ──────────────────────────────────────────────────────────────────────────────

func TestRouter_TenantUsersAndRoles(t *testing.T) {
	s := newServer(t)
	created, admin := s.provision(t)
	usersPath := "/api/tenants/" + created.Tenant.ID + "/users"

	var user struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	resp := s.call(t, http.MethodPost, usersPath, admin, fiber.Map{
		"email": "caio@loja.com", "password": "secret1", "full_name": "Caio Caixa",
	}, &user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "caio@loja.com", user.Email)

	var list struct {
		Users []struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"users"`
	}
	resp = s.call(t, http.MethodGet, usersPath, admin, nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	roles := map[string]string{}
	for _, u := range list.Users {
		roles[u.Email] = u.Role
	}
	assert.Equal(t, map[string]string{"ana@loja.com": "admin", "caio@loja.com": "caixa"}, roles)

	caixa := s.login(t, "caio@loja.com", "secret1")

	resp = s.call(t, http.MethodGet, usersPath, caixa, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.call(t, http.MethodGet, "/api/permission-templates", caixa, nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body errorBody
	resp = s.call(t, http.MethodPost, "/api/branches", caixa, fiber.Map{"name": "Filial"}, &body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body.Code)

	resp = s.call(t, http.MethodPost, "/api/tenants", admin, fiber.Map{
		"tenant": fiber.Map{"name": "Outra"},
		"admin":  fiber.Map{"email": "x@outra.com", "password": "secret1", "full_name": "X"},
	}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.call(t, http.MethodPut, "/api/users/"+user.ID+"/password", caixa, fiber.Map{"password": "novasenha"}, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	s.login(t, "caio@loja.com", "novasenha")
}

func TestRouter_BranchesAndTemplates(t *testing.T) {
	s := newServer(t)
	_, admin := s.provision(t)

	var branch struct {
		ID     string `json:"id"`
		IsMain bool   `json:"is_main"`
	}
	resp := s.call(t, http.MethodPost, "/api/branches", admin, fiber.Map{"name": "Filial Norte", "code": "F1"}, &branch)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.False(t, branch.IsMain)

	var branches []struct {
		ID     string `json:"id"`
		IsMain bool   `json:"is_main"`
	}
	resp = s.call(t, http.MethodGet, "/api/branches", admin, nil, &branches)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, branches, 2)
	var mainID string
	for _, b := range branches {
		if b.IsMain {
			mainID = b.ID
		}
	}
	require.NotEmpty(t, mainID)

	resp = s.call(t, http.MethodDelete, "/api/branches/"+mainID, admin, nil, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp = s.call(t, http.MethodDelete, "/api/branches/"+branch.ID, admin, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.call(t, http.MethodGet, "/api/branches", admin, nil, &branches)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, branches, 1)

	var tpl struct {
		ID    string          `json:"id"`
		Flags map[string]bool `json:"flags"`
	}
	resp = s.call(t, http.MethodPost, "/api/permission-templates", admin, fiber.Map{
		"name": "Estoquista", "role": "warehouse", "can_view_costs": false,
	}, &tpl)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.False(t, tpl.Flags["can_view_costs"])
	assert.True(t, tpl.Flags["page_stock"])

	var body errorBody
	resp = s.call(t, http.MethodPost, "/api/permission-templates", admin, fiber.Map{"name": ""}, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)

	resp = s.call(t, http.MethodDelete, "/api/permission-templates/"+tpl.ID, admin, nil, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = s.call(t, http.MethodGet, "/api/permission-templates/"+tpl.ID, admin, nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRouter_LoginRejected(t *testing.T) {
	s := newServer(t)
	var body errorBody
	resp := s.call(t, http.MethodPost, "/api/auth/login", "", fiber.Map{"email": rootEmail, "password": "errada"}, &body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", body.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	r, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, r.StatusCode)
}
