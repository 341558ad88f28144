package entity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/controle-validade/internal/domain"
)

// DateLayout formato de fecha usado en el backend y en los formularios.
const DateLayout = "2006-01-02"

// Date fecha de calendario (sin hora) normalizada a medianoche UTC.
type Date struct {
	time.Time
}

// NewDate construye una fecha a partir de año, mes y día.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf extrae la fecha de calendario de t en su propia zona.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate interpreta una fecha YYYY-MM-DD.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	return DateOf(t), nil
}

// DaysUntil días de calendario desde d hasta other (negativo si other es anterior).
func (d Date) DaysUntil(other Date) int {
	return int(other.Sub(d.Time).Hours() / 24)
}

// String devuelve la fecha en formato YYYY-MM-DD.
func (d Date) String() string { return d.Format(DateLayout) }

// BR devuelve la fecha en formato dd/mm/aaaa.
func (d Date) BR() string { return d.Format("02/01/2006") }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	// PostgREST puede devolver timestamps completos para columnas date.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
