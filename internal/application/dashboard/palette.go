package dashboard

import (
	"fmt"

	"github.com/jhoicas/controle-validade/internal/domain"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
)

// Tokens de color por status. Enumeración exhaustiva: un status fuera del conjunto es un
// defecto y se reporta como error en lugar de renderizarse sin estilo.

// CardColor color de la tarjeta de estadística.
func CardColor(s entity.Status) (string, error) {
	switch s {
	case entity.StatusVencido:
		return "bg-red-500", nil
	case entity.StatusMuitoCritico:
		return "bg-red-400", nil
	case entity.StatusCritico:
		return "bg-orange-500", nil
	case entity.StatusAtencao:
		return "bg-yellow-500", nil
	case entity.StatusValido:
		return "bg-green-500", nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownStatus, string(s))
}

// BadgeColor color de la etiqueta de status en la tabla.
func BadgeColor(s entity.Status) (string, error) {
	switch s {
	case entity.StatusVencido:
		return "bg-red-100 text-red-950", nil
	case entity.StatusMuitoCritico:
		return "bg-red-300 text-red-900", nil
	case entity.StatusCritico:
		return "bg-orange-100 text-orange-800", nil
	case entity.StatusAtencao:
		return "bg-yellow-100 text-yellow-800", nil
	case entity.StatusValido:
		return "bg-green-100 text-green-800", nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownStatus, string(s))
}

// CardTitle título de la tarjeta de cada status.
func CardTitle(s entity.Status) (string, error) {
	switch s {
	case entity.StatusVencido:
		return "Produtos Vencidos", nil
	case entity.StatusMuitoCritico:
		return "Muito Crítico (3 dias)", nil
	case entity.StatusCritico:
		return "Crítico (7 dias)", nil
	case entity.StatusAtencao:
		return "Atenção (30 dias)", nil
	case entity.StatusValido:
		return "Produtos Válidos", nil
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownStatus, string(s))
}
