package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Gestor-api/internal/application/auth"
	"github.com/jhoicas/Gestor-api/internal/application/permissions"
	"github.com/jhoicas/Gestor-api/internal/application/ports"
	"github.com/jhoicas/Gestor-api/internal/application/provisioning"
	"github.com/jhoicas/Gestor-api/internal/application/stockentry"
	"github.com/jhoicas/Gestor-api/internal/application/usecase"
	"github.com/jhoicas/Gestor-api/internal/application/validation"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
	"github.com/jhoicas/Gestor-api/internal/infrastructure/cache"
	"github.com/jhoicas/Gestor-api/internal/infrastructure/memory"
	"github.com/jhoicas/Gestor-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Gestor-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Gestor-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Gestor-api/internal/interfaces/http"
	"github.com/jhoicas/Gestor-api/pkg/config"
	"github.com/jhoicas/Gestor-api/pkg/logger"

	_ "github.com/jhoicas/Gestor-api/docs"
)

// storage repositorios del driver elegido más el runner de entradas de stock.
type storage struct {
	repos  repository.Repositories
	runner stockentry.Runner
	close  func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	if cfg.DB.Driver == config.StorageDriverMemory {
		if cfg.Stock.EntryMode == config.StockEntryModeTransaction {
			log.Warn().Msg("el store en memoria no tiene transacciones; las entradas usan compensación")
		}
		store := memory.NewStore()
		return &storage{repos: store.Repositories(), runner: store.Runner(), close: func() {}}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
	}
	var runner stockentry.Runner = postgres.NewTxRunner(pool)
	if cfg.Stock.EntryMode == config.StockEntryModeCompensate {
		runner = stockentry.NewDirectRunner(postgres.EntryRepos(pool))
	}
	return &storage{repos: postgres.NewRepositories(pool), runner: runner, close: pool.Close}, nil
}

func permissionCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (ports.PermissionCache, func()) {
	if cfg.Redis.Enabled() {
		rdb, err := cache.NewRedisClient(ctx, cfg.Redis.URL)
		if err == nil {
			log.Info().Msg("caché de permisos en Redis")
			return cache.NewRedis(rdb, cfg.Permissions.CacheTTL()), func() { _ = rdb.Close() }
		}
		log.Error().Err(err).Msg("Redis no disponible; se usa caché en proceso")
	}
	return cache.NewLRU(cfg.Permissions.CacheSize, cfg.Permissions.CacheTTL()), func() {}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.DB.Driver).
		Str("stock_entry_mode", cfg.Stock.EntryMode).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	ctx := context.Background()
	zl := log.Zerolog()

	store, err := openStorage(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer store.close()

	permCache, closeCache := permissionCache(ctx, cfg, log.Component("cache"))
	defer closeCache()

	prom := metrics.New("gestor")
	v := validation.New()
	repos := store.repos

	permissionsUC := permissions.NewUseCase(permissions.Repos{
		Profiles:  repos.Profiles,
		Roles:     repos.Roles,
		Templates: repos.Templates,
		Overrides: repos.Overrides,
	}, permCache, prom, v, zl)

	provisioningUC := provisioning.NewUseCase(provisioning.Repos{
		Tenants:   repos.Tenants,
		Branches:  repos.Branches,
		Users:     repos.Users,
		Profiles:  repos.Profiles,
		Roles:     repos.Roles,
		Templates: repos.Templates,
		Overrides: repos.Overrides,
	}, permissionsUC, v, prom, zl)

	// PDF: comprobante de la nota de entrada
	stockEntryUC := stockentry.NewUseCase(stockentry.Deps{
		Runner:    store.runner,
		Tenants:   repos.Tenants,
		Branches:  repos.Branches,
		Products:  repos.Products,
		Serials:   repos.SerialNumbers,
		Invoices:  repos.Invoices,
		Receipts:  infrapdf.NewMarotoPDFGenerator(),
		Validator: v,
		Metrics:   prom,
	}, cfg.Stock.CostMethod, zl)

	authUC := auth.NewAuthUseCase(repos.Users, repos.Profiles, repos.Roles, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Gestor API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		PermissionsUC:  permissionsUC,
		ProvisioningUC: provisioningUC,
		StockEntryUC:   stockEntryUC,
		ProductUC:      usecase.NewProductUseCase(repos.Products, repos.SerialNumbers, repos.StockMovements, v),
		BranchUC:       usecase.NewBranchUseCase(repos.Branches, v),
		Profiles:       repos.Profiles,
		Metrics:        prom,
		Log:            log.Component("http"),
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
