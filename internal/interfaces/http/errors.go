package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/controle-validade/internal/application/dashboard"
	"github.com/jhoicas/controle-validade/internal/application/dto"
	"github.com/jhoicas/controle-validade/internal/domain"
)

// writeError traduce errores de dominio a dto.ErrorResponse. fallback es el mensaje de los
// fallos del backend (la alerta de la sesión, si la hay).
func writeError(c *fiber.Ctx, err error, fallback string) error {
	var verr *dashboard.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: verr.Error()})
	case errors.Is(err, domain.ErrEmptyBatch):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "EMPTY_SELECTION", Message: "nenhum produto selecionado"})
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnknownStatus):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "el backend rechazó el token"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado por el backend"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrMutationPending):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "MUTATION_PENDING", Message: err.Error()})
	case errors.Is(err, domain.ErrStaleProduct):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "STALE_PRODUCT", Message: dashboard.AlertStaleProduct})
	case errors.Is(err, dashboard.ErrNoReportGenerator):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	msg := fallback
	if msg == "" {
		msg = err.Error()
	}
	return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "BACKEND", Message: msg})
}

// confirmationRequired 409 con el texto de confirmación como mensaje.
func confirmationRequired(c *fiber.Ctx, n int) error {
	return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFIRMATION_REQUIRED", Message: dashboard.DeletePrompt(n)})
}
