// Package expiration clasifica productos por días restantes hasta el vencimiento.
//
// El backend hospedado calcula el status en sus funciones RPC; esta clasificación
// replica los mismos umbrales para el backend en memoria y para los reportes.
package expiration

import "github.com/jhoicas/controle-validade/internal/domain/entity"

// Umbrales en días hasta el vencimiento (inclusive).
const (
	VeryCriticalDays = 3
	CriticalDays     = 7
	AttentionDays    = 30
)

// Classify devuelve el status de un producto que vence en expiration, visto desde today.
// Un producto que vence hoy todavía no está vencido.
func Classify(expiration, today entity.Date) entity.Status {
	days := today.DaysUntil(expiration)
	switch {
	case days < 0:
		return entity.StatusVencido
	case days <= VeryCriticalDays:
		return entity.StatusMuitoCritico
	case days <= CriticalDays:
		return entity.StatusCritico
	case days <= AttentionDays:
		return entity.StatusAtencao
	default:
		return entity.StatusValido
	}
}
