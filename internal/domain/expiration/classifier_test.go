package expiration_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/controle-validade/internal/domain/entity"
	"github.com/jhoicas/controle-validade/internal/domain/expiration"
)

func TestClassify_Umbrales(t *testing.T) {
	today := entity.NewDate(2026, time.October, 14)

	cases := []struct {
		name string
		days int
		want entity.Status
	}{
		{"vencido ayer", -1, entity.StatusVencido},
		{"vence hoy", 0, entity.StatusMuitoCritico},
		{"tres dias", 3, entity.StatusMuitoCritico},
		{"cuatro dias", 4, entity.StatusCritico},
		{"siete dias", 7, entity.StatusCritico},
		{"ocho dias", 8, entity.StatusAtencao},
		{"treinta dias", 30, entity.StatusAtencao},
		{"treinta y uno", 31, entity.StatusValido},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			exp := entity.DateOf(today.AddDate(0, 0, tc.days))
			assert.Equal(t, tc.want, expiration.Classify(exp, today))
		})
	}
}

func TestClassify_EmpeoraConElTiempo(t *testing.T) {
	exp := entity.NewDate(2026, time.December, 1)
	prev := expiration.Classify(exp, entity.NewDate(2026, time.January, 1))
	for d := 0; d < 400; d++ {
		today := entity.DateOf(entity.NewDate(2026, time.January, 1).AddDate(0, 0, d))
		got := expiration.Classify(exp, today)
		assert.False(t, prev.Worse(got), "el status nunca mejora al pasar los días")
		prev = got
	}
	assert.Equal(t, entity.StatusVencido, prev)
}
