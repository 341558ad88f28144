package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controle-validade/internal/application/ports"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
	"github.com/jhoicas/controle-validade/internal/infrastructure/pdf"
)

func TestGenerateExpirationReport(t *testing.T) {
	vencido := entity.StatusVencido
	report := ports.ExpirationReport{
		GeneratedAt:  time.Date(2026, time.October, 14, 9, 30, 0, 0, time.UTC),
		UserEmail:    "ana@example.com",
		StatusFilter: &vencido,
		SearchTerm:   "vac",
		Products: []entity.Product{
			{ID: "1", Description: "Vacina A", ExpirationDate: entity.NewDate(2025, time.January, 1), Stock: 12000, Status: entity.StatusVencido},
		},
	}

	out, err := pdf.NewMarotoReportGenerator().GenerateExpirationReport(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateExpirationReport_SinProductos(t *testing.T) {
	out, err := pdf.NewMarotoReportGenerator().GenerateExpirationReport(context.Background(), ports.ExpirationReport{GeneratedAt: time.Now()})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateExpirationReport_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := pdf.NewMarotoReportGenerator().GenerateExpirationReport(ctx, ports.ExpirationReport{})
	assert.ErrorIs(t, err, context.Canceled)
}
