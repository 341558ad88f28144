package dashboard_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/controle-validade/internal/application/dashboard"
	"github.com/jhoicas/controle-validade/internal/application/dto"
	"github.com/jhoicas/controle-validade/internal/application/ports"
	"github.com/jhoicas/controle-validade/internal/application/query"
	"github.com/jhoicas/controle-validade/internal/domain"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
	"github.com/jhoicas/controle-validade/internal/infrastructure/cache"
	"github.com/jhoicas/controle-validade/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var today = time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// flakyBackend memory.Backend con fallos o bloqueos inyectables en el alta.
type flakyBackend struct {
	*memory.Backend
	insertErr error
	started   chan struct{}
	release   chan struct{}
}

func (b *flakyBackend) InsertProduct(ctx context.Context, in entity.ProductInput) error {
	if b.started != nil {
		close(b.started)
		<-b.release
	}
	if b.insertErr != nil {
		return b.insertErr
	}
	return b.Backend.InsertProduct(ctx, in)
}

type fakeReports struct {
	got ports.ExpirationReport
}

func (f *fakeReports) GenerateExpirationReport(_ context.Context, r ports.ExpirationReport) ([]byte, error) {
	f.got = r
	return []byte("%PDF-fake"), nil
}

func newBackend() *memory.Backend {
	return memory.New(memory.WithClock(func() time.Time { return today }))
}

var user = dashboard.Identity{UserID: "u-1", Email: "ana@example.com"}

func newDashboard(b ports.ProductBackend, opts ...dashboard.Option) *dashboard.Dashboard {
	c := query.NewCache(cache.NewMemoryStore())
	return dashboard.New(user, b, c, opts...)
}

func seedTwo(b *memory.Backend) {
	b.Seed("a", entity.ProductInput{Description: "Vaccine A", ExpirationDate: entity.NewDate(2025, time.January, 1), Stock: 10})
	b.Seed("b", entity.ProductInput{Description: "Soro B", ExpirationDate: entity.NewDate(2027, time.January, 1), Stock: 3})
}

func cardCount(v dto.DashboardView, s entity.Status) int {
	for _, c := range v.Stats.Cards {
		if c.Status == s.String() {
			return c.Count
		}
	}
	return -1
}

// ──────────────────────────────────────────────────────────────────────────────
// Vista
// ──────────────────────────────────────────────────────────────────────────────

func TestView_ComposicionInicial(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)

	v, err := d.View(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ana@example.com", v.UserEmail)
	require.Len(t, v.Stats.Cards, 5)
	assert.Equal(t, "Vencido", v.Stats.Cards[0].Status)
	assert.Equal(t, 1, cardCount(v, entity.StatusVencido))
	assert.Equal(t, 1, cardCount(v, entity.StatusValido))
	assert.Equal(t, 0, cardCount(v, entity.StatusCritico), "status ausente se lee como 0")

	assert.Equal(t, "Produtos", v.Products.Title)
	require.Len(t, v.Products.Rows, 2)
	assert.Equal(t, "01/01/2025", v.Products.Rows[0].ExpirationDate)
	assert.Equal(t, "bg-red-100 text-red-950", v.Products.Rows[0].BadgeColor)
	assert.Equal(t, "Mostrando 2 de 2 produto(s)", v.Products.Summary)
	assert.Nil(t, v.Modal)

	for _, o := range v.Controls.LimitOptions {
		assert.NotEqual(t, int(query.Unbounded), o.Value, "Todos solo con filtro activo")
	}
}

func TestView_FiltroActivo(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)

	require.NoError(t, d.SetStatusFilter(entity.StatusVencido))
	v, err := d.View(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Produtos - Vencido", v.Products.Title)
	require.Len(t, v.Products.Rows, 1)
	assert.Equal(t, "a", v.Products.Rows[0].ID)
	assert.True(t, v.Stats.Cards[0].Active)
	last := v.Controls.LimitOptions[len(v.Controls.LimitOptions)-1]
	assert.Equal(t, "Todos", last.Label)

	assert.True(t, errors.Is(d.SetStatusFilter(entity.Status("Ruim")), domain.ErrUnknownStatus))
}

func TestView_BusquedaSobreLaPagina(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	b.Seed("c", entity.ProductInput{Description: "Vacina Vaccinia C", ExpirationDate: entity.NewDate(2026, time.November, 1), Stock: 7})
	d := newDashboard(b)
	ctx := context.Background()

	fetched, err := d.View(ctx)
	require.NoError(t, err)
	require.Len(t, fetched.Products.Rows, 3)

	d.SetSearchTerm("VACC")
	v, err := d.View(ctx)
	require.NoError(t, err)
	require.Len(t, v.Products.Rows, 2)
	for _, r := range v.Products.Rows {
		assert.NotEqual(t, "b", r.ID)
	}
	assert.Equal(t, "Mostrando 2 de 3 produto(s)", v.Products.Summary)

	d.SetSearchTerm("xyz")
	v, _ = d.View(ctx)
	assert.Empty(t, v.Products.Rows)
	assert.Equal(t, dashboard.EmptyMessage, v.Products.EmptyMessage)

	d.SetSearchTerm("")
	v, _ = d.View(ctx)
	assert.Equal(t, fetched.Products.Rows, v.Products.Rows, "limpiar el término restaura la página leída")
}

func TestView_ErrorDeLecturaSeMuestraEnLinea(t *testing.T) {
	d := newDashboard(&failingReads{err: errors.New("timeout")})
	v, err := d.View(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Erro ao carregar dados: get_product_stats: timeout", v.Stats.Error)
	assert.Equal(t, "Erro ao carregar produtos: get_all_products: timeout", v.Products.Error)
}

type failingReads struct {
	ports.ProductBackend
	err error
}

func (f *failingReads) ProductStats(context.Context) ([]entity.ProductStats, error) {
	return nil, f.err
}

func (f *failingReads) AllProducts(context.Context, int) ([]entity.Product, error) {
	return nil, f.err
}

func TestSnapshot_NoBloqueaYReportaCarga(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)
	ctx := context.Background()

	v, err := d.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, v.Stats.Loading)
	assert.True(t, v.Products.Loading)

	d.Cache().Wait()
	v, err = d.Snapshot(ctx)
	require.NoError(t, err)
	assert.False(t, v.Products.Loading)
	assert.Len(t, v.Products.Rows, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Selección
// ──────────────────────────────────────────────────────────────────────────────

func TestSelection_SeRecortaAlCambiarDePagina(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)
	ctx := context.Background()

	_, err := d.View(ctx)
	require.NoError(t, err)
	require.NoError(t, d.ToggleSelection("a"))
	require.NoError(t, d.ToggleSelection("b"))

	require.NoError(t, d.SetStatusFilter(entity.StatusVencido))
	v, err := d.View(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, d.State().Selected)
	assert.Equal(t, 1, v.Controls.SelectedCount)
	assert.True(t, v.Products.AllSelected)
}

func TestSelection_IdFueraDeLaPagina(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)
	_, err := d.View(context.Background())
	require.NoError(t, err)

	assert.True(t, errors.Is(d.ToggleSelection("zzz"), domain.ErrNotFound))
}

func TestSelection_SelectAllRespetaLaBusqueda(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)
	ctx := context.Background()
	_, err := d.View(ctx)
	require.NoError(t, err)

	d.SetSearchTerm("soro")
	d.SelectAll()
	assert.Equal(t, []string{"b"}, d.State().Selected)

	d.SelectAll()
	assert.Empty(t, d.State().Selected)
}

// ──────────────────────────────────────────────────────────────────────────────
// Mutaciones
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmit_CreateIncrementaEstadisticas(t *testing.T) {
	b := newBackend()
	d := newDashboard(b)
	ctx := context.Background()

	v, err := d.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, cardCount(v, entity.StatusVencido))

	d.OpenCreate()
	require.NoError(t, d.UpdateDraft(dashboard.DraftFields{Description: "Vaccine A", ExpirationDate: "2025-01-01", Stock: "10"}))
	require.NoError(t, d.Submit(ctx))

	v, err = d.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cardCount(v, entity.StatusVencido))
	require.Len(t, v.Products.Rows, 1)
	assert.Equal(t, "Vencido", v.Products.Rows[0].Status)
	assert.Nil(t, v.Modal, "el modal se cierra tras el éxito")
}

func TestSubmit_ValidacionNoLlamaAlBackend(t *testing.T) {
	b := &flakyBackend{Backend: newBackend(), insertErr: errors.New("no debería llamarse")}
	d := newDashboard(b)

	d.OpenCreate()
	require.NoError(t, d.UpdateDraft(dashboard.DraftFields{Description: "", ExpirationDate: "2025-01-01", Stock: "1"}))
	err := d.Submit(context.Background())

	var verr *dashboard.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Empty(t, d.State().Alert)
	assert.True(t, d.State().ModalOpen)
}

func TestSubmit_FalloConservaBorradorYFijaAlerta(t *testing.T) {
	b := &flakyBackend{Backend: newBackend(), insertErr: errors.New("503")}
	d := newDashboard(b)

	d.OpenCreate()
	fields := dashboard.DraftFields{Description: "Vacina", ExpirationDate: "2026-12-01", Stock: "4"}
	require.NoError(t, d.UpdateDraft(fields))
	require.Error(t, d.Submit(context.Background()))

	st := d.State()
	assert.Equal(t, dashboard.AlertCreateFailed, st.Alert)
	assert.True(t, st.ModalOpen)
	assert.Equal(t, fields, st.Draft.Fields())

	d.DismissAlert()
	assert.Empty(t, d.State().Alert)
}

func TestSubmit_EdicionDeProductoEliminado(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)
	ctx := context.Background()

	_, err := d.View(ctx)
	require.NoError(t, err)
	require.NoError(t, d.OpenEdit("a"))
	require.NoError(t, b.DeleteProducts(ctx, []string{"a"}))

	err = d.Submit(ctx)
	assert.True(t, errors.Is(err, domain.ErrStaleProduct))
	assert.True(t, errors.Is(err, domain.ErrConflict))
	st := d.State()
	assert.Equal(t, dashboard.AlertStaleProduct, st.Alert)
	assert.True(t, st.ModalOpen)
}

func TestSubmit_EdicionActualiza(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)
	ctx := context.Background()

	_, err := d.View(ctx)
	require.NoError(t, err)
	require.NoError(t, d.OpenEdit("b"))
	v, err := d.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, v.Modal)
	assert.Equal(t, "edit", v.Modal.Mode)
	assert.Equal(t, "Editar Produto", v.Modal.Title)
	assert.Equal(t, 1, v.Modal.StockMin)

	require.NoError(t, d.UpdateDraft(dashboard.DraftFields{Description: "Soro B", ExpirationDate: "2026-10-20", Stock: "3"}))
	require.NoError(t, d.Submit(ctx))

	v, err = d.View(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, cardCount(v, entity.StatusCritico))
	assert.Equal(t, 0, cardCount(v, entity.StatusValido))
}

func TestSubmit_GuardaDeOperacionEnCurso(t *testing.T) {
	b := &flakyBackend{Backend: newBackend(), started: make(chan struct{}), release: make(chan struct{})}
	d := newDashboard(b)
	ctx := context.Background()

	d.OpenCreate()
	require.NoError(t, d.UpdateDraft(dashboard.DraftFields{Description: "Vacina", ExpirationDate: "2026-12-01", Stock: "1"}))

	done := make(chan error, 1)
	go func() { done <- d.Submit(ctx) }()
	<-b.started

	assert.True(t, errors.Is(d.Submit(ctx), domain.ErrMutationPending))
	v, err := d.Snapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, v.Modal)
	assert.True(t, v.Modal.SubmitDisabled)
	assert.Equal(t, "Adicionando...", v.Modal.SubmitLabel)

	close(b.release)
	require.NoError(t, <-done)
	d.Cache().Wait()
}

func TestDelete_ConfirmacionYSeleccion(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)
	ctx := context.Background()

	assert.True(t, errors.Is(d.DeleteSelected(ctx, dashboard.Confirmed(true)), domain.ErrEmptyBatch))

	_, err := d.View(ctx)
	require.NoError(t, err)
	require.NoError(t, d.ToggleSelection("a"))
	require.NoError(t, d.ToggleSelection("b"))

	assert.True(t, errors.Is(d.DeleteSelected(ctx, dashboard.Confirmed(false)), domain.ErrNotConfirmed))
	assert.Len(t, d.State().Selected, 2)

	var prompt string
	err = d.DeleteSelected(ctx, dashboard.ConfirmFunc(func(p string) bool { prompt = p; return true }))
	require.NoError(t, err)
	assert.Equal(t, "Tem certeza que deseja remover 2 produto(s)?", prompt)
	assert.Empty(t, d.State().Selected)

	v, err := d.View(ctx)
	require.NoError(t, err)
	assert.Empty(t, v.Products.Rows)
	assert.Equal(t, 0, cardCount(v, entity.StatusVencido))
}

func TestDelete_FilaQuitaSoloSuId(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)
	ctx := context.Background()

	_, err := d.View(ctx)
	require.NoError(t, err)
	require.NoError(t, d.ToggleSelection("a"))
	require.NoError(t, d.ToggleSelection("b"))

	require.NoError(t, d.DeleteProduct(ctx, "a", dashboard.Confirmed(true)))
	assert.Equal(t, []string{"b"}, d.State().Selected)
}

// ──────────────────────────────────────────────────────────────────────────────
// Copiar, reporte y sesiones
// ──────────────────────────────────────────────────────────────────────────────

func TestCopyProduct(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)
	_, err := d.View(context.Background())
	require.NoError(t, err)

	text, err := d.CopyProduct("a")
	require.NoError(t, err)
	assert.Equal(t, "Vaccine A | Validade: 01/01/2025 | Estoque: 10", text)

	_, err = d.CopyProduct("nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestReport_UsaLasFilasVisibles(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	reports := &fakeReports{}
	d := newDashboard(b, dashboard.WithReports(reports), dashboard.WithClock(func() time.Time { return today }))

	d.SetSearchTerm("soro")
	pdf, err := d.Report(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(pdf))
	require.Len(t, reports.got.Products, 1)
	assert.Equal(t, "b", reports.got.Products[0].ID)
	assert.Equal(t, "ana@example.com", reports.got.UserEmail)
	assert.Equal(t, today, reports.got.GeneratedAt)

	_, err = newDashboard(b).Report(context.Background())
	assert.True(t, errors.Is(err, dashboard.ErrNoReportGenerator))
}

func TestSessions_GetCloseSweep(t *testing.T) {
	clk := &testClock{t: today}
	b := newBackend()
	built := 0
	sessions := dashboard.NewSessions(func(id dashboard.Identity) *dashboard.Dashboard {
		built++
		return dashboard.New(id, b, query.NewCache(cache.NewMemoryStore()), dashboard.WithClock(clk.Now))
	}, nil, dashboard.WithSessionClock(clk.Now))

	d1 := sessions.Get(user)
	d1.SetSearchTerm("vac")
	assert.Same(t, d1, sessions.Get(user))
	assert.Equal(t, 1, built)

	assert.True(t, sessions.Close(user.UserID))
	assert.False(t, sessions.Close(user.UserID))
	d2 := sessions.Get(user)
	assert.NotSame(t, d1, d2)
	assert.Empty(t, d2.State().SearchTerm)

	other := sessions.Get(dashboard.Identity{UserID: "u-2"})
	clk.Advance(20 * time.Minute)
	other.ClearStatusFilter()

	assert.Equal(t, 1, sessions.Sweep(15*time.Minute))
	assert.Equal(t, 1, sessions.Len())
	sessions.Wait()
}

// ──────────────────────────────────────────────────────────────────────────────
// Recarga y cambios de página
// ──────────────────────────────────────────────────────────────────────────────

func TestRefresh_VuelveALeerDelBackend(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)
	ctx := context.Background()

	v, err := d.View(ctx)
	require.NoError(t, err)
	require.Len(t, v.Products.Rows, 2)

	b.Seed("c", entity.ProductInput{Description: "Luvas", ExpirationDate: entity.NewDate(2025, time.March, 1), Stock: 1})
	v, _ = d.View(ctx)
	assert.Len(t, v.Products.Rows, 2, "la caché sigue fresca")
	assert.Equal(t, 1, cardCount(v, entity.StatusVencido))

	require.NoError(t, d.Refresh(ctx))
	v, err = d.View(ctx)
	require.NoError(t, err)
	assert.Len(t, v.Products.Rows, 3)
	assert.Equal(t, 2, cardCount(v, entity.StatusVencido))
}

func TestSelectAll_IgnoraLaPaginaDeOtroFiltro(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)
	ctx := context.Background()

	_, err := d.View(ctx)
	require.NoError(t, err)

	require.NoError(t, d.SetStatusFilter(entity.StatusValido))
	v, err := d.Snapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, v.Products.Rows)

	d.SelectAll()
	assert.Empty(t, d.State().Selected, "la página anterior ya no está visible")
	assert.True(t, errors.Is(d.OpenEdit("a"), domain.ErrNotFound))
	_, err = d.CopyProduct("a")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = d.View(ctx)
	require.NoError(t, err)
	d.SelectAll()
	assert.Equal(t, []string{"b"}, d.State().Selected)
	d.Cache().Wait()
}

func TestDeleteSelected_SoloBorraFilasVisibles(t *testing.T) {
	b := newBackend()
	seedTwo(b)
	d := newDashboard(b)
	ctx := context.Background()

	_, err := d.View(ctx)
	require.NoError(t, err)
	require.NoError(t, d.ToggleSelection("a"))

	require.NoError(t, d.SetStatusFilter(entity.StatusValido))
	_, err = d.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, d.PendingDeleteCount())

	err = d.DeleteSelected(ctx, dashboard.Confirmed(true))
	assert.True(t, errors.Is(err, domain.ErrEmptyBatch))

	all, err := b.AllProducts(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2, "el producto oculto no se borra")
	d.Cache().Wait()
}

// blockingReads memory.Backend cuya lectura de productos espera a release.
type blockingReads struct {
	*memory.Backend
	release chan struct{}
}

func (b *blockingReads) AllProducts(ctx context.Context, limit int) ([]entity.Product, error) {
	<-b.release
	return b.Backend.AllProducts(ctx, limit)
}

func TestSessions_WaitIncluyeSesionesRetiradas(t *testing.T) {
	clk := &testClock{t: today}
	b := &blockingReads{Backend: newBackend(), release: make(chan struct{})}
	sessions := dashboard.NewSessions(func(id dashboard.Identity) *dashboard.Dashboard {
		return dashboard.New(id, b, query.NewCache(cache.NewMemoryStore()), dashboard.WithClock(clk.Now))
	}, nil, dashboard.WithSessionClock(clk.Now))

	_, err := sessions.Get(user).Snapshot(context.Background())
	require.NoError(t, err)

	clk.Advance(time.Hour)
	require.Equal(t, 1, sessions.Sweep(30*time.Minute))

	done := make(chan struct{})
	go func() {
		sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
		t.Fatal("Wait no debe volver con una lectura en curso")
	case <-time.After(50 * time.Millisecond):
	}

	close(b.release)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait no volvió tras liberar la lectura")
	}
}
