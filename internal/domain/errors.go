package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrUnknownStatus   = errors.New("status de validade desconocido")
	ErrUnauthorized    = errors.New("no autorizado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrConflict        = errors.New("conflicto con el estado actual")
	ErrStaleProduct    = fmt.Errorf("el producto ya no existe en el backend: %w", ErrConflict)
	ErrEmptyBatch      = errors.New("la selección está vacía")
	ErrNotConfirmed    = errors.New("operación destructiva no confirmada")
	ErrMutationPending = errors.New("ya hay una operación en curso")
)
