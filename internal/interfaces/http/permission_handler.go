package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/application/permissions"
)

// PermissionHandler permisos resueltos, plantillas y overrides por usuario.
type PermissionHandler struct {
	uc *permissions.UseCase
}

// NewPermissionHandler construye el handler.
func NewPermissionHandler(uc *permissions.UseCase) *PermissionHandler {
	return &PermissionHandler{uc: uc}
}

// Me godoc
// @Summary      Permisos efectivos del usuario autenticado
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ResolvedPermissionsResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/permissions/me [get]
func (h *PermissionHandler) Me(c *fiber.Ctx) error {
	return c.JSON(h.uc.ResolveForUser(c.UserContext(), GetUserID(c), GetTenantID(c)))
}

// ListTemplates godoc
// @Summary      Listar plantillas de permisos del tenant
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.PermissionTemplateResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/permission-templates [get]
func (h *PermissionHandler) ListTemplates(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return missingTenant(c)
	}
	out, err := h.uc.ListTemplates(c.UserContext(), tenantID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetTemplate godoc
// @Summary      Obtener plantilla de permisos
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la plantilla"
// @Success      200  {object}  dto.PermissionTemplateResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/permission-templates/{id} [get]
func (h *PermissionHandler) GetTemplate(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return missingTenant(c)
	}
	out, err := h.uc.GetTemplate(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateTemplate godoc
// @Summary      Crear plantilla de permisos
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PermissionTemplateRequest  true  "Nombre, rol y banderas"
// @Success      201   {object}  dto.PermissionTemplateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/permission-templates [post]
func (h *PermissionHandler) CreateTemplate(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return missingTenant(c)
	}
	var in dto.PermissionTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.CreateTemplate(c.UserContext(), tenantID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateTemplate godoc
// @Summary      Actualizar plantilla de permisos
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la plantilla"
// @Param        body  body  dto.PermissionTemplateRequest  true  "Nombre, rol y banderas"
// @Success      200   {object}  dto.PermissionTemplateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/permission-templates/{id} [put]
func (h *PermissionHandler) UpdateTemplate(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return missingTenant(c)
	}
	var in dto.PermissionTemplateRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpdateTemplate(c.UserContext(), tenantID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteTemplate godoc
// @Summary      Eliminar plantilla de permisos
// @Description  Los usuarios que la referencian conservan sus propias banderas.
// @Tags         permissions
// @Security     Bearer
// @Param        id   path  string  true  "ID de la plantilla"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/permission-templates/{id} [delete]
func (h *PermissionHandler) DeleteTemplate(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return missingTenant(c)
	}
	if err := h.uc.DeleteTemplate(c.UserContext(), tenantID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetUserPermissions godoc
// @Summary      Override de permisos de un usuario
// @Tags         permissions
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del usuario"
// @Success      200  {object}  dto.UserPermissionsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/users/{id}/permissions [get]
func (h *PermissionHandler) GetUserPermissions(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return missingTenant(c)
	}
	out, err := h.uc.GetUserPermissions(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpsertUserPermissions godoc
// @Summary      Crear o reemplazar el override de permisos de un usuario
// @Tags         permissions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID del usuario"
// @Param        body  body  dto.UserPermissionsRequest  true  "template_id o banderas"
// @Success      200   {object}  dto.UserPermissionsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/permissions [put]
func (h *PermissionHandler) UpsertUserPermissions(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return missingTenant(c)
	}
	var in dto.UserPermissionsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.UpsertUserPermissions(c.UserContext(), tenantID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
