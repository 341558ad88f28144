package entity

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/controle-validade/internal/domain"
)

// Status categoría de riesgo de vencimiento calculada por el backend.
type Status string

// Conjunto cerrado de status, de menor a mayor riesgo.
const (
	StatusValido       Status = "Válido"
	StatusAtencao      Status = "Atenção"
	StatusCritico      Status = "Crítico"
	StatusMuitoCritico Status = "Muito Crítico"
	StatusVencido      Status = "Vencido"
)

// Statuses devuelve el conjunto completo en orden creciente de riesgo.
func Statuses() []Status {
	return []Status{StatusValido, StatusAtencao, StatusCritico, StatusMuitoCritico, StatusVencido}
}

// ParseStatus valida una etiqueta recibida del backend o del cliente.
func ParseStatus(label string) (Status, error) {
	s := Status(label)
	if s.Rank() < 0 {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownStatus, label)
	}
	return s, nil
}

// Rank posición en el orden de riesgo (0 = Válido). -1 si la etiqueta no pertenece al conjunto.
func (s Status) Rank() int {
	switch s {
	case StatusValido:
		return 0
	case StatusAtencao:
		return 1
	case StatusCritico:
		return 2
	case StatusMuitoCritico:
		return 3
	case StatusVencido:
		return 4
	}
	return -1
}

// Worse indica si s representa más riesgo que other.
func (s Status) Worse(other Status) bool { return s.Rank() > other.Rank() }

func (s Status) String() string { return string(s) }

// UnmarshalJSON rechaza etiquetas fuera del conjunto cerrado.
func (s *Status) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err != nil {
		return err
	}
	parsed, err := ParseStatus(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
