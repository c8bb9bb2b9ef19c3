package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Gestor-api/internal/application/dto"
	"github.com/jhoicas/Gestor-api/internal/domain"
)

// errorStatus traduce un error de dominio a (status, código).
func errorStatus(err error) (int, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrSlugAlreadyExists):
		return fiber.StatusBadRequest, "SLUG_EXISTS"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusBadRequest, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusBadRequest, "DUPLICATE"
	case errors.Is(err, domain.ErrSerialConflict):
		return fiber.StatusBadRequest, "SERIAL_CONFLICT"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

func errorBody(err error, code string) dto.ErrorResponse {
	body := dto.ErrorResponse{Error: err.Error(), Code: code}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body.Details = verr.Fields
	}
	return body
}

// respondError responde con el status que corresponde al error.
func respondError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	return c.Status(status).JSON(errorBody(err, code))
}

// respondStockEntryError los fallos de una entrada de stock son 400 salvo autorización.
func respondStockEntryError(c *fiber.Ctx, err error) error {
	status, code := errorStatus(err)
	if status != fiber.StatusUnauthorized && status != fiber.StatusForbidden {
		status = fiber.StatusBadRequest
	}
	return c.Status(status).JSON(errorBody(err, code))
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Error: "cuerpo inválido"})
}

func missingTenant(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "NO_TENANT", Error: "el usuario no pertenece a ningún tenant"})
}
