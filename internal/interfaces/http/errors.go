package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// PartialWriteResponse cuerpo de error cuando el pedido quedó sin ítems.
type PartialWriteResponse struct {
	dto.ErrorResponse
	OrderID string `json:"order_id"`
}

// writeError traduce errores de dominio a HTTP. El mensaje de ConstraintError se devuelve tal cual.
func writeError(c *fiber.Ctx, err error) error {
	var (
		ve *domain.ValidationError
		ce *domain.ConstraintError
		pe *domain.PartialWriteError
		te *domain.TransportError
	)
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: ve.Error()})
	case errors.As(err, &pe):
		return c.Status(fiber.StatusBadGateway).JSON(PartialWriteResponse{
			ErrorResponse: dto.ErrorResponse{Code: "PARTIAL_WRITE", Message: pe.Error()},
			OrderID:       pe.OrderID,
		})
	case errors.As(err, &ce):
		status := fiber.StatusUnprocessableEntity
		if errors.Is(err, domain.ErrDuplicate) {
			status = fiber.StatusConflict
		}
		return c.Status(status).JSON(dto.ErrorResponse{Code: "CONSTRAINT", Message: ce.Message})
	case errors.As(err, &te):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "REMOTE_UNAVAILABLE", Message: "el servidor remoto no respondió, intente más tarde"})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrEmptyOrder):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// pageQuery lee ?limit=&offset= del listado.
func pageQuery(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, domain.NewValidationError("page", "limit y offset deben ser enteros")
	}
	if err := dto.Validate(page); err != nil {
		return page, err
	}
	return page, nil
}
