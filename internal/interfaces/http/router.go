package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestor-api/internal/application/auth"
	"github.com/jhoicas/Gestor-api/internal/application/permissions"
	"github.com/jhoicas/Gestor-api/internal/application/provisioning"
	"github.com/jhoicas/Gestor-api/internal/application/stockentry"
	"github.com/jhoicas/Gestor-api/internal/application/usecase"
	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/domain/permission"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
)

// MetricsExporter middleware de métricas HTTP y endpoint de scraping.
type MetricsExporter interface {
	Middleware() fiber.Handler
	Handler() fiber.Handler
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	PermissionsUC  *permissions.UseCase
	ProvisioningUC *provisioning.UseCase
	StockEntryUC   *stockentry.UseCase
	ProductUC      *usecase.ProductUseCase
	BranchUC       *usecase.BranchUseCase
	Profiles       repository.ProfileRepository
	Metrics        MetricsExporter // opcional
	Log            zerolog.Logger
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(RequestLogger(deps.Log))
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}

	requireAuth := AuthMiddleware(deps.JWTSecret)
	can := func(flag permission.Flag) fiber.Handler {
		return RequirePermission(flag, deps.PermissionsUC)
	}

	authHandler := NewAuthHandler(deps.AuthUC)
	permHandler := NewPermissionHandler(deps.PermissionsUC)
	provHandler := NewProvisioningHandler(deps.ProvisioningUC)
	entryHandler := NewStockEntryHandler(deps.StockEntryUC, deps.Profiles)
	productHandler := NewProductHandler(deps.ProductUC, deps.PermissionsUC)
	branchHandler := NewBranchHandler(deps.BranchUC)

	api := app.Group("/api")

	// Auth (público)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", requireAuth)

	protected.Get("/permissions/me", permHandler.Me)

	templates := protected.Group("/permission-templates", can(permission.CanManageUsers))
	templates.Get("/", permHandler.ListTemplates)
	templates.Post("/", permHandler.CreateTemplate)
	templates.Get("/:id", permHandler.GetTemplate)
	templates.Put("/:id", permHandler.UpdateTemplate)
	templates.Delete("/:id", permHandler.DeleteTemplate)

	// Tenants y usuarios; la autorización fina está en el caso de uso.
	protected.Post("/tenants", provHandler.CreateTenantAdmin)
	protected.Get("/tenants/:tenant_id/users", provHandler.GetTenantUsers)
	protected.Post("/tenants/:tenant_id/users", provHandler.CreateTenantUser)
	protected.Put("/users/:id/password", provHandler.UpdateUserPassword)
	protected.Get("/users/:id/permissions", can(permission.CanManageUsers), permHandler.GetUserPermissions)
	protected.Put("/users/:id/permissions", can(permission.CanManageUsers), permHandler.UpsertUserPermissions)

	entries := protected.Group("/stock-entries")
	entries.Post("/", can(permission.CanCreate), entryHandler.Create)
	entries.Get("/:id", entryHandler.GetByID)
	entries.Get("/:id/pdf", can(permission.CanExport), entryHandler.DownloadPDF)

	products := protected.Group("/products")
	products.Post("/", can(permission.CanCreate), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/movements", productHandler.Movements)
	products.Get("/:id/serial-numbers", productHandler.SerialNumbers)

	branches := protected.Group("/branches")
	branches.Get("/", branchHandler.List)
	branches.Post("/", RequireRole(entity.RoleSuperadmin, entity.RoleAdmin), can(permission.CanCreate), branchHandler.Create)
	branches.Delete("/:id", RequireRole(entity.RoleSuperadmin, entity.RoleAdmin), can(permission.CanDelete), branchHandler.Deactivate)

	// Contratos de las funciones originales.
	functions := app.Group("/functions/v1", requireAuth)
	functions.Post("/create-stock-entry", can(permission.CanCreate), entryHandler.Create)
	functions.Post("/create-tenant-admin", provHandler.CreateTenantAdmin)
}
