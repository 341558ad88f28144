package ports

import (
	"context"
	"time"

	"github.com/jhoicas/controle-validade/internal/domain/entity"
)

// ExpirationReport datos del reporte PDF de la tabla visible del dashboard.
type ExpirationReport struct {
	GeneratedAt  time.Time
	UserEmail    string
	StatusFilter *entity.Status
	SearchTerm   string
	Products     []entity.Product
}

// ReportGenerator puerto para renderizar el reporte (implementado con Maroto).
type ReportGenerator interface {
	GenerateExpirationReport(ctx context.Context, report ExpirationReport) ([]byte, error)
}
