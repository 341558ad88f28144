package dashboard_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controle-validade/internal/application/dashboard"
	"github.com/jhoicas/controle-validade/internal/domain"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
)

func TestPalette_TokensDistintosPorStatus(t *testing.T) {
	cards := map[string]bool{}
	badges := map[string]bool{}
	for _, s := range entity.Statuses() {
		c, err := dashboard.CardColor(s)
		require.NoError(t, err)
		b, err := dashboard.BadgeColor(s)
		require.NoError(t, err)
		_, err = dashboard.CardTitle(s)
		require.NoError(t, err)
		cards[c] = true
		badges[b] = true
	}
	assert.Len(t, cards, len(entity.Statuses()))
	assert.Len(t, badges, len(entity.Statuses()))

	c, _ := dashboard.CardColor(entity.StatusVencido)
	assert.Equal(t, "bg-red-500", c)
	b, _ := dashboard.BadgeColor(entity.StatusValido)
	assert.Equal(t, "bg-green-100 text-green-800", b)
}

func TestPalette_StatusDesconocidoFalla(t *testing.T) {
	_, err := dashboard.CardColor(entity.Status("Desconhecido"))
	assert.True(t, errors.Is(err, domain.ErrUnknownStatus))
	_, err = dashboard.BadgeColor(entity.Status(""))
	assert.True(t, errors.Is(err, domain.ErrUnknownStatus))
	_, err = dashboard.CardTitle(entity.Status("x"))
	assert.True(t, errors.Is(err, domain.ErrUnknownStatus))
}

func TestFilterProducts(t *testing.T) {
	page := []entity.Product{
		product("1", "Vaccine A", entity.StatusVencido),
		product("2", "Soro B", entity.StatusValido),
		product("3", "Antivaccinal C", entity.StatusCritico),
	}
	original := append([]entity.Product(nil), page...)

	got := dashboard.FilterProducts(page, "VACC")
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
	assert.Equal(t, got, dashboard.FilterProducts(page, "vacc"))

	assert.Empty(t, dashboard.FilterProducts(page, "xyz"))
	assert.Equal(t, original, dashboard.FilterProducts(page, ""), "sin término se devuelve la página tal cual")
	assert.Equal(t, original, dashboard.FilterProducts(page, "   "))
	assert.Equal(t, original, page, "filtrar no modifica la página")
}

func TestFilterProducts_Idempotente(t *testing.T) {
	page := []entity.Product{
		product("1", "Vaccine A", entity.StatusVencido),
		product("2", "Soro B", entity.StatusValido),
		product("3", "VACCINE C", entity.StatusAtencao),
	}
	for _, term := range []string{"vacc", "SORO", "xyz", "", "e"} {
		once := dashboard.FilterProducts(page, term)
		assert.Equal(t, once, dashboard.FilterProducts(once, term), "término %q", term)
	}
}

func TestCopyText(t *testing.T) {
	p := product("1", "Vacina A", entity.StatusAtencao)
	assert.Equal(t, "Vacina A | Validade: 01/11/2026 | Estoque: 5", dashboard.CopyText(p))
}
