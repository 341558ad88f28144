// Package pdf genera el reporte de validade de la tabla visible del dashboard.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Controle de Validade      │  Fecha + usuario       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FILTROS: status / búsqueda                                  │
//	│  TABLA: Descrição | Validade | Estoque | Status              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: productos por status                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/controle-validade/internal/application/ports"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
)

var _ ports.ReportGenerator = (*MarotoReportGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 22, Green: 101, Blue: 52}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorHeader  = &props.Color{Red: 34, Green: 197, Blue: 94}
)

// statusColor color del texto de status en la tabla (mismo orden de riesgo que las tarjetas).
var statusColor = map[entity.Status]*props.Color{
	entity.StatusVencido:      {Red: 185, Green: 28, Blue: 28},
	entity.StatusMuitoCritico: {Red: 220, Green: 38, Blue: 38},
	entity.StatusCritico:      {Red: 234, Green: 88, Blue: 12},
	entity.StatusAtencao:      {Red: 202, Green: 138, Blue: 4},
	entity.StatusValido:       {Red: 22, Green: 101, Blue: 52},
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa ports.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateExpirationReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateExpirationReport(ctx context.Context, report ports.ExpirationReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Relatório de Validade", true).
		WithAuthor(report.UserEmail, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(filtersRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	if len(report.Products) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("Nenhum produto encontrado.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		)))
	}
	m.AddRows(tableDetailRows(report.Products)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRows(report.Products)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y fecha de generación + usuario (der).
func headerRow(report ports.ExpirationReport) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("Controle de Validade", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Relatório de produtos", props.Text{Size: 9, Top: 8, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Gerado em "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(nonEmpty(report.UserEmail, "—"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// filtersRow: filtro de status y término de búsqueda aplicados.
func filtersRow(report ports.ExpirationReport) core.Row {
	status := "Todos"
	if report.StatusFilter != nil {
		status = report.StatusFilter.String()
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("Status: %s   |   Pesquisa: %s   |   Produtos: %d",
			status, nonEmpty(report.SearchTerm, "—"), len(report.Products),
		), props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

// tableHeaderRow: cabecera de la tabla.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Descrição", 6, align.Left),
		h("Validade", 2, align.Center),
		h("Estoque", 2, align.Right),
		h("Status", 2, align.Center),
	).WithStyle(&props.Cell{BackgroundColor: colorHeader})
}

// tableDetailRows: una fila por producto.
func tableDetailRows(products []entity.Product) []core.Row {
	result := make([]core.Row, 0, len(products))
	for _, p := range products {
		statusStyle := props.Text{Size: 8, Align: align.Center, Top: 1, Style: fontstyle.Bold}
		if c, ok := statusColor[p.Status]; ok {
			statusStyle.Color = c
		}
		result = append(result, row.New(7).Add(
			col.New(6).Add(text.New(p.Description, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(p.ExpirationDate.BR(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(formatThousands(strconv.Itoa(p.Stock)), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(p.Status.String(), statusStyle)),
		))
	}
	return result
}

// totalsRows: cantidad de productos del reporte por status, de mayor a menor riesgo.
func totalsRows(products []entity.Product) []core.Row {
	counts := make(map[entity.Status]int)
	for _, p := range products {
		counts[p.Status]++
	}
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(text.New("TOTAIS POR STATUS", props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
		}))),
	}
	statuses := entity.Statuses()
	for i := len(statuses) - 1; i >= 0; i-- {
		s := statuses[i]
		rows = append(rows, row.New(5).Add(
			col.New(3),
			col.New(4).Add(text.New(s.String()+":", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Right: 2})),
			col.New(2).Add(text.New(strconv.Itoa(counts[s]), props.Text{Size: 8, Align: align.Right, Right: 1})),
			col.New(3),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatThousands inserta puntos de miles en un entero no negativo.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
