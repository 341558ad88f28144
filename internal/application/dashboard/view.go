package dashboard

import (
	"fmt"

	"github.com/jhoicas/controle-validade/internal/application/dto"
	"github.com/jhoicas/controle-validade/internal/application/query"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
)

// Textos de la vista.
const (
	EmptyMessage  = "Nenhum produto encontrado."
	titleCreate   = "Adicionar Produto"
	titleEdit     = "Editar Produto"
	labelCreate   = "Adicionar"
	labelUpdate   = "Salvar"
	labelCreating = "Adicionando..."
	labelUpdating = "Salvando..."
	labelDeleting = "Removendo..."
)

// cardOrder orden de las tarjetas: de mayor a menor riesgo.
var cardOrder = []entity.Status{
	entity.StatusVencido,
	entity.StatusMuitoCritico,
	entity.StatusCritico,
	entity.StatusAtencao,
	entity.StatusValido,
}

type viewInput struct {
	user     Identity
	state    State
	pending  mutationKind
	stats    query.Result[[]entity.ProductStats]
	products query.Result[[]entity.Product]
}

func buildView(in viewInput) (dto.DashboardView, error) {
	stats, err := buildStats(in.state, in.stats)
	if err != nil {
		return dto.DashboardView{}, err
	}
	panel, visible, err := buildProducts(in.state, in.products)
	if err != nil {
		return dto.DashboardView{}, err
	}
	return dto.DashboardView{
		UserEmail: in.user.Email,
		Stats:     stats,
		Products:  panel,
		Controls:  buildControls(in.state, in.pending, len(visible)),
		Modal:     buildModal(in.state, in.pending),
		Alert:     in.state.Alert,
	}, nil
}

func buildStats(st State, r query.Result[[]entity.ProductStats]) (dto.StatsPanel, error) {
	panel := dto.StatsPanel{Loading: r.IsLoading && !r.HasData(), Stale: r.Stale, Cards: []dto.StatCard{}}
	if r.Err != nil {
		panel.Error = "Erro ao carregar dados: " + r.Err.Error()
		return panel, nil
	}
	if !r.HasData() {
		return panel, nil
	}
	for _, s := range cardOrder {
		title, err := CardTitle(s)
		if err != nil {
			return panel, err
		}
		color, err := CardColor(s)
		if err != nil {
			return panel, err
		}
		panel.Cards = append(panel.Cards, dto.StatCard{
			Status: s.String(),
			Title:  title,
			Count:  entity.CountFor(r.Data, s),
			Color:  color,
			Active: st.StatusFilter != nil && *st.StatusFilter == s,
		})
	}
	return panel, nil
}

func buildProducts(st State, r query.Result[[]entity.Product]) (dto.ProductsPanel, []entity.Product, error) {
	panel := dto.ProductsPanel{
		Title:   "Produtos",
		Loading: r.IsLoading && !r.HasData(),
		Stale:   r.Stale,
		Rows:    []dto.ProductRow{},
	}
	if st.StatusFilter != nil {
		panel.Title = "Produtos - " + st.StatusFilter.String()
	}
	if r.Err != nil {
		panel.Error = "Erro ao carregar produtos: " + r.Err.Error()
		return panel, nil, nil
	}
	if !r.HasData() {
		return panel, nil, nil
	}

	visible := FilterProducts(r.Data, st.SearchTerm)
	for _, p := range visible {
		badge, err := BadgeColor(p.Status)
		if err != nil {
			return panel, nil, fmt.Errorf("producto %s: %w", p.ID, err)
		}
		panel.Rows = append(panel.Rows, dto.ProductRow{
			ID:             p.ID,
			Description:    p.Description,
			ExpirationDate: p.ExpirationDate.BR(),
			Stock:          p.Stock,
			Status:         p.Status.String(),
			BadgeColor:     badge,
			Selected:       st.IsSelected(p.ID),
		})
	}
	panel.Summary = fmt.Sprintf("Mostrando %d de %d produto(s)", len(visible), len(r.Data))
	panel.AllSelected = len(visible) > 0 && len(st.Selected) == len(visible)
	if len(visible) == 0 {
		panel.EmptyMessage = EmptyMessage
	}
	return panel, visible, nil
}

func buildControls(st State, pending mutationKind, visible int) dto.Controls {
	c := dto.Controls{
		SearchTerm:    st.SearchTerm,
		SearchFocused: st.SearchFocused,
		Limit:         limitOption(st.Limit),
		SelectedCount: len(st.Selected),
	}
	if st.StatusFilter != nil {
		c.StatusFilter = st.StatusFilter.String()
	}
	for _, l := range query.LimitOptions {
		c.LimitOptions = append(c.LimitOptions, limitOption(l))
	}
	// "Todos" solo con filtro activo, o si ya estaba elegido antes de limpiar el filtro.
	if st.StatusFilter != nil || st.Limit == query.Unbounded {
		c.LimitOptions = append(c.LimitOptions, limitOption(query.Unbounded))
	}
	if len(st.Selected) > 0 {
		c.DeleteLabel = fmt.Sprintf("Remover (%d)", len(st.Selected))
	}
	if pending == mutationDelete {
		c.DeleteLabel = labelDeleting
	}
	c.DeleteDisabled = len(st.Selected) == 0 || pending != mutationNone
	return c
}

func buildModal(st State, pending mutationKind) *dto.Modal {
	if !st.ModalOpen || st.Draft == nil {
		return nil
	}
	f := st.Draft.Fields()
	m := &dto.Modal{
		Draft:          dto.DraftView{Description: f.Description, ExpirationDate: f.ExpirationDate, Stock: f.Stock},
		StockMin:       st.Draft.minStock(),
		SubmitDisabled: pending != mutationNone,
	}
	switch d := st.Draft.(type) {
	case EditProductDraft:
		m.Mode, m.Title, m.ProductID, m.SubmitLabel = "edit", titleEdit, d.ID, labelUpdate
	default:
		m.Mode, m.Title, m.SubmitLabel = "create", titleCreate, labelCreate
	}
	switch pending {
	case mutationCreate:
		m.SubmitLabel = labelCreating
	case mutationUpdate:
		m.SubmitLabel = labelUpdating
	}
	return m
}

func limitOption(l query.RowLimit) dto.LimitOption {
	return dto.LimitOption{Value: int(l), Label: l.Label()}
}
