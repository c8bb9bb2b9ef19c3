package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/application/provisioning"
)

// ProvisioningHandler alta de tenants y gestión de usuarios de un tenant.
type ProvisioningHandler struct {
	uc *provisioning.UseCase
}

// NewProvisioningHandler construye el handler.
func NewProvisioningHandler(uc *provisioning.UseCase) *ProvisioningHandler {
	return &ProvisioningHandler{uc: uc}
}

func actor(c *fiber.Ctx) provisioning.Actor {
	return provisioning.Actor{UserID: GetUserID(c), TenantID: GetTenantID(c)}
}

// CreateTenantAdmin godoc
// @Summary      Crear tenant con administrador, o admin de sucursal / director
// @Description  Sin tenant_id crea el tenant ({tenant, admin}); con tenant_id crea el usuario en ese tenant.
// @Tags         provisioning
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTenantAdminRequest  true  "Forma nueva o existente"
// @Success      200   {object}  dto.CreateTenantAdminResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/tenants [post]
func (h *ProvisioningHandler) CreateTenantAdmin(c *fiber.Ctx) error {
	var in dto.CreateTenantAdminRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateTenantAdmin(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetTenantUsers godoc
// @Summary      Usuarios del tenant con sus roles
// @Tags         provisioning
// @Security     Bearer
// @Produce      json
// @Param        tenant_id  path  string  true  "ID del tenant"
// @Success      200  {object}  dto.TenantUsersResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/tenants/{tenant_id}/users [get]
func (h *ProvisioningHandler) GetTenantUsers(c *fiber.Ctx) error {
	out, err := h.uc.GetTenantUsers(c.UserContext(), actor(c), c.Params("tenant_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateTenantUser godoc
// @Summary      Crear usuario en el tenant
// @Tags         provisioning
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        tenant_id  path  string                       true  "ID del tenant"
// @Param        body       body  dto.CreateTenantUserRequest  true  "Datos del usuario (rol por defecto caixa)"
// @Success      201  {object}  dto.UserRef
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/tenants/{tenant_id}/users [post]
func (h *ProvisioningHandler) CreateTenantUser(c *fiber.Ctx) error {
	var in dto.CreateTenantUserRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateTenantUser(c.UserContext(), actor(c), c.Params("tenant_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateUserPassword godoc
// @Summary      Cambiar contraseña de un usuario
// @Tags         provisioning
// @Security     Bearer
// @Accept       json
// @Param        id    path  string                     true  "ID del usuario"
// @Param        body  body  dto.UpdatePasswordRequest  true  "Nueva contraseña"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/password [put]
func (h *ProvisioningHandler) UpdateUserPassword(c *fiber.Ctx) error {
	var in dto.UpdatePasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if err := h.uc.UpdateUserPassword(c.UserContext(), actor(c), c.Params("id"), in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
