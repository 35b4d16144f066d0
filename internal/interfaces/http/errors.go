package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/sistema-facturacion/internal/application/dto"
	"github.com/jhoicas/sistema-facturacion/internal/domain"
)

// writeError traduce los errores de dominio y de almacenamiento a respuestas HTTP.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case domain.IsStorageUnavailable(err):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "DB_UNAVAILABLE", Message: "base de datos no disponible"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}
