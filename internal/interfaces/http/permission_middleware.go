package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/domain/permission"
)

// permissionChecker contrato mínimo del middleware. Lo implementa *permissions.UseCase.
type permissionChecker interface {
	Has(ctx context.Context, userID, tenantID string, flag permission.Flag) bool
}

// RequirePermission verifica la bandera en los permisos resueltos del usuario para el
// tenant del token. Debe usarse DESPUÉS de AuthMiddleware.
//
// La resolución nunca falla: un error de lectura degrada a permisos restrictivos,
// así que aquí solo hay 401 (sin usuario) o 403 (bandera en false).
func RequirePermission(flag permission.Flag, checker permissionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Code:  "UNAUTHORIZED",
				Error: "user_id no encontrado en el token",
			})
		}
		if !checker.Has(c.UserContext(), userID, GetTenantID(c), flag) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:  "PERMISSION_DENIED",
				Error: "permiso '" + string(flag) + "' requerido",
			})
		}
		return c.Next()
	}
}
