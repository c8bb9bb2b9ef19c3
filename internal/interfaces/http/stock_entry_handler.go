package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/application/stockentry"
	"github.com/jhoicas/Gestor-api/internal/domain/repository"
)

// StockEntryHandler notas de entrada de proveedor.
type StockEntryHandler struct {
	uc       *stockentry.UseCase
	profiles repository.ProfileRepository
}

// NewStockEntryHandler construye el handler. profiles da la sucursal seleccionada del usuario.
func NewStockEntryHandler(uc *stockentry.UseCase, profiles repository.ProfileRepository) *StockEntryHandler {
	return &StockEntryHandler{uc: uc, profiles: profiles}
}

// Create godoc
// @Summary      Registrar entrada de stock
// @Description  Valida todo antes de escribir; luego nota, ítems, series, movimientos y stock como una unidad.
// @Tags         stock-entries
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateStockEntryRequest  true  "Nota e ítems"
// @Success      201   {object}  dto.CreateStockEntryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/stock-entries [post]
func (h *StockEntryHandler) Create(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return missingTenant(c)
	}
	var in dto.CreateStockEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	caller := stockentry.Caller{UserID: GetUserID(c), TenantID: tenantID}
	profile, err := h.profiles.GetByID(c.UserContext(), caller.UserID)
	if err != nil {
		return respondStockEntryError(c, fmt.Errorf("obtener perfil: %w", err))
	}
	if profile != nil {
		caller.BranchID = profile.SelectedBranchID
	}
	out, err := h.uc.CreateStockEntry(c.UserContext(), caller, in)
	if err != nil {
		return respondStockEntryError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener entrada de stock con sus ítems
// @Tags         stock-entries
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la nota"
// @Success      200  {object}  dto.StockEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-entries/{id} [get]
func (h *StockEntryHandler) GetByID(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return missingTenant(c)
	}
	out, err := h.uc.GetStockEntry(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DownloadPDF godoc
// @Summary      Comprobante PDF de la entrada
// @Tags         stock-entries
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la nota"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock-entries/{id}/pdf [get]
func (h *StockEntryHandler) DownloadPDF(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return missingTenant(c)
	}
	pdf, filename, err := h.uc.DownloadStockEntryPDF(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(pdf)
}
