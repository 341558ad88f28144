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

func TestValidate_Create(t *testing.T) {
	in, err := dashboard.Validate(dashboard.NewProductDraft{DraftFields: dashboard.DraftFields{
		Description: "  Vacina A ", ExpirationDate: "2025-01-01", Stock: "0",
	}})
	require.NoError(t, err)
	assert.Equal(t, "Vacina A", in.Description)
	assert.Equal(t, "2025-01-01", in.ExpirationDate.String())
	assert.Equal(t, 0, in.Stock)
}

func TestValidate_Errores(t *testing.T) {
	cases := []struct {
		name  string
		draft dashboard.Draft
		field string
	}{
		{"descripción vacía", dashboard.NewProductDraft{DraftFields: dashboard.DraftFields{Description: "  ", ExpirationDate: "2025-01-01", Stock: "1"}}, "description"},
		{"fecha vacía", dashboard.NewProductDraft{DraftFields: dashboard.DraftFields{Description: "A", Stock: "1"}}, "expiration_date"},
		{"fecha mal formada", dashboard.NewProductDraft{DraftFields: dashboard.DraftFields{Description: "A", ExpirationDate: "01/01/2025", Stock: "1"}}, "expiration_date"},
		{"stock no numérico", dashboard.NewProductDraft{DraftFields: dashboard.DraftFields{Description: "A", ExpirationDate: "2025-01-01", Stock: "dos"}}, "stock"},
		{"stock negativo", dashboard.NewProductDraft{DraftFields: dashboard.DraftFields{Description: "A", ExpirationDate: "2025-01-01", Stock: "-1"}}, "stock"},
		{"edición con stock 0", dashboard.EditProductDraft{ID: "1", DraftFields: dashboard.DraftFields{Description: "A", ExpirationDate: "2025-01-01", Stock: "0"}}, "stock"},
		{"edición sin id", dashboard.EditProductDraft{DraftFields: dashboard.DraftFields{Description: "A", ExpirationDate: "2025-01-01", Stock: "2"}}, "id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dashboard.Validate(tc.draft)
			var verr *dashboard.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tc.field, verr.Field)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestDraftFromProduct(t *testing.T) {
	p := product("42", "Soro", entity.StatusValido)
	d := dashboard.DraftFromProduct(p)
	assert.Equal(t, "42", d.ID)
	assert.Equal(t, "2026-11-01", d.ExpirationDate)
	assert.Equal(t, "5", d.Stock)
}
