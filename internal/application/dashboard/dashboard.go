// Package dashboard compone el dashboard de validade de una sesión: estado de filtros y
// selección, formulario del modal, mutaciones y el modelo de vista que pinta el navegador.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/controle-validade/internal/application/dto"
	"github.com/jhoicas/controle-validade/internal/application/ports"
	"github.com/jhoicas/controle-validade/internal/application/query"
	"github.com/jhoicas/controle-validade/internal/domain"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
	"github.com/jhoicas/controle-validade/pkg/logger"
)

// Alertas bloqueantes ante un fallo de mutación.
const (
	AlertCreateFailed = "Erro ao adicionar produto. Tente novamente."
	AlertUpdateFailed = "Erro ao atualizar produto. Tente novamente."
	AlertDeleteFailed = "Erro ao remover produtos. Tente novamente."
	AlertStaleProduct = "O produto foi removido por outra operação."
)

// ErrNoReportGenerator el dashboard se construyó sin generador de PDF.
var ErrNoReportGenerator = errors.New("dashboard: reporte PDF no configurado")

// Identity usuario autenticado dueño de la sesión.
type Identity struct {
	UserID string
	Email  string
}

type mutationKind int

const (
	mutationNone mutationKind = iota
	mutationCreate
	mutationUpdate
	mutationDelete
)

// Option configura el dashboard.
type Option func(*Dashboard)

// WithReports inyecta el generador del reporte PDF.
func WithReports(g ports.ReportGenerator) Option {
	return func(d *Dashboard) { d.reports = g }
}

// WithLogger inyecta el logger.
func WithLogger(l *logger.Logger) Option {
	return func(d *Dashboard) {
		if l != nil {
			d.log = l
		}
	}
}

// WithClock inyecta el reloj (marca de uso y fecha del reporte).
func WithClock(now func() time.Time) Option {
	return func(d *Dashboard) { d.now = now }
}

// Dashboard estado y operaciones de una sesión. Seguro para uso concurrente: el estado se
// serializa con mu y la E/S contra backend y caché ocurre fuera del lock.
type Dashboard struct {
	user    Identity
	hooks   *query.Hooks
	orch    *Orchestrator
	reports ports.ReportGenerator
	log     *logger.Logger
	now     func() time.Time

	mu       sync.Mutex
	state    State
	pending  mutationKind
	page     []entity.Product
	pageKey  query.Key
	lastUsed time.Time
}

// New construye el dashboard de user sobre backend y cache (caché propia de la sesión).
func New(user Identity, backend ports.ProductBackend, cache *query.Cache, opts ...Option) *Dashboard {
	d := &Dashboard{
		user:  user,
		state: NewState(),
		log:   logger.Nop(),
		now:   time.Now,
	}
	for _, o := range opts {
		o(d)
	}
	d.log = d.log.Component("dashboard")
	d.hooks = query.NewHooks(cache, backend)
	d.orch = NewOrchestrator(backend, cache, d.log)
	d.lastUsed = d.now()
	return d
}

// User dueño de la sesión.
func (d *Dashboard) User() Identity { return d.user }

// Cache caché de lecturas de la sesión.
func (d *Dashboard) Cache() *query.Cache { return d.hooks.Cache() }

// LastUsed momento de la última operación.
func (d *Dashboard) LastUsed() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastUsed
}

// State copia del estado actual.
func (d *Dashboard) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.copyState()
}

// View carga (bloqueando si hace falta) estadísticas y página y devuelve la vista completa.
func (d *Dashboard) View(ctx context.Context) (dto.DashboardView, error) {
	filter, limit := d.params()
	stats := d.hooks.Stats(ctx)
	products := d.hooks.Products(ctx, filter, limit)
	return d.compose(filter, limit, stats, products)
}

// Snapshot devuelve la vista sin bloquear; las lecturas ausentes se inician en segundo plano
// y se reportan con su indicador de carga.
func (d *Dashboard) Snapshot(ctx context.Context) (dto.DashboardView, error) {
	filter, limit := d.params()
	stats := d.hooks.PeekStats(ctx)
	products := d.hooks.PeekProducts(ctx, filter, limit)
	return d.compose(filter, limit, stats, products)
}

// Refresh recarga manual: invalida estadísticas y productos.
func (d *Dashboard) Refresh(ctx context.Context) error {
	d.touch()
	return d.hooks.Cache().Invalidate(ctx, query.GroupStats, query.GroupProducts)
}

// SetStatusFilter activa el filtro por status (clic en una tarjeta).
func (d *Dashboard) SetStatusFilter(s entity.Status) error {
	if s.Rank() < 0 {
		return fmt.Errorf("%w: %q", domain.ErrUnknownStatus, string(s))
	}
	d.mutate(func(st *State) { st.SetStatusFilter(s) })
	return nil
}

// ClearStatusFilter quita el filtro ("Limpar filtro").
func (d *Dashboard) ClearStatusFilter() {
	d.mutate(func(st *State) { st.ClearStatusFilter() })
}

// SetLimit cambia el límite de filas.
func (d *Dashboard) SetLimit(l query.RowLimit) error {
	var err error
	d.mutate(func(st *State) { err = st.SetLimit(l) })
	return err
}

// SetSearchTerm cambia el término de búsqueda.
func (d *Dashboard) SetSearchTerm(term string) {
	d.mutate(func(st *State) { st.SetSearchTerm(term) })
}

// HandleKey atajos de teclado globales.
func (d *Dashboard) HandleKey(e KeyEvent) KeyResult {
	var r KeyResult
	d.mutate(func(st *State) { r = st.HandleKey(e) })
	return r
}

// ToggleSelection marca o desmarca una fila de la página cargada.
func (d *Dashboard) ToggleSelection(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastUsed = d.now()
	if _, ok := d.findLocked(id); !ok && !d.state.IsSelected(id) {
		return fmt.Errorf("%w: producto %s no está en la página", domain.ErrNotFound, id)
	}
	d.state.ToggleSelection(id)
	return nil
}

// SelectAll selecciona (o deselecciona) todas las filas visibles tras la búsqueda.
func (d *Dashboard) SelectAll() {
	d.mutate(func(st *State) { st.SelectAll(FilterProducts(d.visibleLocked(), st.SearchTerm)) })
}

// OpenCreate abre el modal de alta.
func (d *Dashboard) OpenCreate() {
	d.mutate(func(st *State) { st.OpenCreate() })
}

// OpenEdit abre el modal de edición precargado con la fila id.
func (d *Dashboard) OpenEdit(id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastUsed = d.now()
	p, ok := d.findLocked(id)
	if !ok {
		return fmt.Errorf("%w: producto %s no está en la página", domain.ErrNotFound, id)
	}
	d.state.OpenEdit(p)
	return nil
}

// UpdateDraft reemplaza los campos del formulario abierto.
func (d *Dashboard) UpdateDraft(f DraftFields) error {
	var err error
	d.mutate(func(st *State) { err = st.UpdateDraft(f) })
	return err
}

// CloseModal cierra el modal sin descartar el borrador.
func (d *Dashboard) CloseModal() {
	d.mutate(func(st *State) { st.CloseModal() })
}

// DismissAlert descarta la alerta bloqueante.
func (d *Dashboard) DismissAlert() {
	d.mutate(func(st *State) { st.Alert = "" })
}

// Submit envía el borrador del modal. Con éxito cierra el modal; con fallo deja el modal
// abierto, conserva el borrador y fija la alerta.
func (d *Dashboard) Submit(ctx context.Context) error {
	d.mu.Lock()
	d.lastUsed = d.now()
	if d.pending != mutationNone {
		d.mu.Unlock()
		return domain.ErrMutationPending
	}
	draft := d.state.Draft
	if draft == nil || !d.state.ModalOpen {
		d.mu.Unlock()
		return fmt.Errorf("%w: no hay formulario abierto", domain.ErrInvalidInput)
	}
	if _, err := Validate(draft); err != nil {
		d.mu.Unlock()
		return err
	}
	kind := mutationCreate
	if _, ok := draft.(EditProductDraft); ok {
		kind = mutationUpdate
	}
	d.pending = kind
	d.mu.Unlock()

	err := d.orch.Submit(ctx, draft)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = mutationNone
	if err != nil {
		d.state.Alert = submitAlert(kind, err)
		return err
	}
	d.state.resetDraft()
	return nil
}

// DeleteSelected elimina la selección tras confirmación, limitada a las filas de la página
// visible. Con éxito vacía la selección.
func (d *Dashboard) DeleteSelected(ctx context.Context, c Confirmer) error {
	d.mu.Lock()
	ids := d.selectedVisibleLocked()
	d.mu.Unlock()
	if err := d.delete(ctx, ids, c); err != nil {
		return err
	}
	d.mutate(func(st *State) { st.ClearSelection() })
	return nil
}

// PendingDeleteCount filas que eliminaría DeleteSelected (texto de confirmación).
func (d *Dashboard) PendingDeleteCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.selectedVisibleLocked())
}

// DeleteProduct elimina una fila tras confirmación. Con éxito la quita de la selección.
func (d *Dashboard) DeleteProduct(ctx context.Context, id string, c Confirmer) error {
	d.mu.Lock()
	_, ok := d.findLocked(id)
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: producto %s no está en la página", domain.ErrNotFound, id)
	}
	if err := d.delete(ctx, []string{id}, c); err != nil {
		return err
	}
	d.mutate(func(st *State) {
		if st.IsSelected(id) {
			st.ToggleSelection(id)
		}
	})
	return nil
}

// CopyProduct texto de la fila para el portapapeles.
func (d *Dashboard) CopyProduct(id string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastUsed = d.now()
	p, ok := d.findLocked(id)
	if !ok {
		return "", fmt.Errorf("%w: producto %s no está en la página", domain.ErrNotFound, id)
	}
	return CopyText(p), nil
}

// CopyText formato "<descrição> | Validade: dd/mm/aaaa | Estoque: N".
func CopyText(p entity.Product) string {
	return fmt.Sprintf("%s | Validade: %s | Estoque: %d", p.Description, p.ExpirationDate.BR(), p.Stock)
}

// Report genera el PDF de las filas visibles (filtro, límite y búsqueda actuales).
func (d *Dashboard) Report(ctx context.Context) ([]byte, error) {
	if d.reports == nil {
		return nil, ErrNoReportGenerator
	}
	filter, limit := d.params()
	r := d.hooks.Products(ctx, filter, limit)
	if r.Err != nil {
		return nil, r.Err
	}
	d.mu.Lock()
	d.storePageLocked(filter, limit, r)
	term := d.state.SearchTerm
	d.mu.Unlock()

	return d.reports.GenerateExpirationReport(ctx, ports.ExpirationReport{
		GeneratedAt:  d.now(),
		UserEmail:    d.user.Email,
		StatusFilter: filter,
		SearchTerm:   term,
		Products:     FilterProducts(r.Data, term),
	})
}

// Reset vuelve al estado inicial (el usuario abandonó la página). Las lecturas en caché se conservan.
func (d *Dashboard) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = NewState()
	d.page = nil
	d.pageKey = query.Key{}
	d.lastUsed = d.now()
}

func (d *Dashboard) delete(ctx context.Context, ids []string, c Confirmer) error {
	d.mu.Lock()
	d.lastUsed = d.now()
	if d.pending != mutationNone {
		d.mu.Unlock()
		return domain.ErrMutationPending
	}
	if len(ids) == 0 {
		d.mu.Unlock()
		return domain.ErrEmptyBatch
	}
	d.pending = mutationDelete
	d.mu.Unlock()

	err := d.orch.Delete(ctx, ids, c)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = mutationNone
	if err != nil && !errors.Is(err, domain.ErrNotConfirmed) && !errors.Is(err, domain.ErrEmptyBatch) {
		d.state.Alert = AlertDeleteFailed
	}
	return err
}

func (d *Dashboard) params() (*entity.Status, query.RowLimit) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastUsed = d.now()
	var filter *entity.Status
	if d.state.StatusFilter != nil {
		s := *d.state.StatusFilter
		filter = &s
	}
	return filter, d.state.Limit
}

func (d *Dashboard) compose(filter *entity.Status, limit query.RowLimit, stats query.Result[[]entity.ProductStats], products query.Result[[]entity.Product]) (dto.DashboardView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.storePageLocked(filter, limit, products)
	return buildView(viewInput{
		user:     d.user,
		state:    d.copyState(),
		pending:  d.pending,
		stats:    stats,
		products: products,
	})
}

// storePageLocked guarda la página y recorta la selección, solo si la lectura corresponde
// todavía al filtro y límite actuales.
func (d *Dashboard) storePageLocked(filter *entity.Status, limit query.RowLimit, r query.Result[[]entity.Product]) {
	if !r.HasData() || r.Err != nil {
		return
	}
	if query.ProductsKey(filter, limit) != query.ProductsKey(d.state.StatusFilter, d.state.Limit) {
		return
	}
	d.page = r.Data
	d.pageKey = query.ProductsKey(filter, limit)
	d.state.PruneSelection(d.page)
}

// visibleLocked página cargada para el filtro y límite actuales. Vacía mientras la lectura
// de una clave nueva no haya llegado: la página anterior ya no está en pantalla.
func (d *Dashboard) visibleLocked() []entity.Product {
	if d.page == nil || d.pageKey != query.ProductsKey(d.state.StatusFilter, d.state.Limit) {
		return nil
	}
	return d.page
}

func (d *Dashboard) selectedVisibleLocked() []string {
	ids := make([]string, 0, len(d.state.Selected))
	for _, id := range d.state.Selected {
		if _, ok := d.findLocked(id); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (d *Dashboard) findLocked(id string) (entity.Product, bool) {
	for _, p := range d.visibleLocked() {
		if p.ID == id {
			return p, true
		}
	}
	return entity.Product{}, false
}

func (d *Dashboard) touch() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastUsed = d.now()
}

func (d *Dashboard) mutate(fn func(st *State)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.lastUsed = d.now()
	fn(&d.state)
}

func (d *Dashboard) copyState() State {
	st := d.state
	st.Selected = append([]string(nil), d.state.Selected...)
	return st
}

func submitAlert(kind mutationKind, err error) string {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return ""
	case errors.Is(err, domain.ErrStaleProduct):
		return AlertStaleProduct
	case kind == mutationUpdate:
		return AlertUpdateFailed
	default:
		return AlertCreateFailed
	}
}
