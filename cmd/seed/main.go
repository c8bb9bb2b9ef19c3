// seed crea (o completa) la identidad superadmin de plataforma en PostgreSQL.
//
// Uso: go run ./cmd/seed [email] [password]
// Sin argumentos toma SUPERADMIN_EMAIL y SUPERADMIN_PASSWORD del entorno.
// Es idempotente: si el email ya existe solo asegura el rol superadmin.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Gestor-api/internal/domain/entity"
	"github.com/jhoicas/Gestor-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Gestor-api/pkg/config"
	"github.com/jhoicas/Gestor-api/pkg/logger"
)

func main() {
	email := os.Getenv("SUPERADMIN_EMAIL")
	password := os.Getenv("SUPERADMIN_PASSWORD")
	if len(os.Args) > 2 {
		email, password = os.Args[1], os.Args[2]
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || len(password) < 6 {
		fmt.Fprintln(os.Stderr, "uso: seed <email> <password> (password de al menos 6 caracteres)")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	// logs a stderr
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	repos := postgres.NewRepositories(pool)
	user, err := repos.Users.GetByEmail(ctx, email)
	if err != nil {
		log.Fatal().Err(err).Msg("buscar usuario")
	}
	if user == nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("hash de contraseña")
		}
		now := time.Now()
		user = &entity.User{
			ID:           uuid.New().String(),
			Email:        email,
			PasswordHash: string(hash),
			Status:       entity.UserStatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := repos.Users.Create(ctx, user); err != nil {
			log.Fatal().Err(err).Msg("crear usuario")
		}
		log.Info().Str("user_id", user.ID).Msg("identidad creada")
	}
	if err := repos.Roles.Insert(ctx, &entity.UserRole{UserID: user.ID, Role: entity.RoleSuperadmin}); err != nil {
		log.Fatal().Err(err).Msg("asignar rol superadmin")
	}
	log.Info().Str("email", email).Msg("superadmin listo")
}
