package dashboard

import (
	"fmt"

	"github.com/jhoicas/controle-validade/internal/application/query"
	"github.com/jhoicas/controle-validade/internal/domain"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
)

// State estado efímero del dashboard de una sesión. Las transiciones son puras (sin I/O).
type State struct {
	StatusFilter  *entity.Status
	Limit         query.RowLimit
	SearchTerm    string
	SearchFocused bool
	Selected      []string
	Draft         Draft
	ModalOpen     bool
	Alert         string
}

// NewState estado inicial: sin filtro, 10 filas, sin selección, modal cerrado.
func NewState() State {
	return State{Limit: query.DefaultLimit}
}

// SetStatusFilter reemplaza el filtro activo. No toca selección ni búsqueda.
func (s *State) SetStatusFilter(status entity.Status) {
	st := status
	s.StatusFilter = &st
}

// ClearStatusFilter quita el filtro activo.
func (s *State) ClearStatusFilter() {
	s.StatusFilter = nil
}

// SetLimit reemplaza el límite de filas (forma parte de la clave de la lectura).
func (s *State) SetLimit(l query.RowLimit) error {
	if !l.Valid() {
		return fmt.Errorf("%w: límite %d no permitido", domain.ErrInvalidInput, l)
	}
	s.Limit = l
	return nil
}

// SetSearchTerm reemplaza el término; el filtrado se hace sobre la página ya cargada.
func (s *State) SetSearchTerm(term string) {
	s.SearchTerm = term
}

// IsSelected indica si id está seleccionado.
func (s *State) IsSelected(id string) bool {
	return indexOf(s.Selected, id) >= 0
}

// ToggleSelection agrega id si no está y lo quita si está.
func (s *State) ToggleSelection(id string) {
	if i := indexOf(s.Selected, id); i >= 0 {
		s.Selected = append(s.Selected[:i:i], s.Selected[i+1:]...)
		return
	}
	s.Selected = append(s.Selected, id)
}

// SelectAll es todo-o-nada respecto a los productos visibles (ya filtrados por búsqueda):
// si la selección tiene el mismo tamaño que visible se vacía; si no, pasa a ser exactamente visible.
func (s *State) SelectAll(visible []entity.Product) {
	if len(s.Selected) == len(visible) {
		s.Selected = nil
		return
	}
	ids := make([]string, 0, len(visible))
	for _, p := range visible {
		ids = append(ids, p.ID)
	}
	s.Selected = ids
}

// ClearSelection vacía la selección.
func (s *State) ClearSelection() {
	s.Selected = nil
}

// PruneSelection conserva solo los ids presentes en la página recién cargada.
func (s *State) PruneSelection(page []entity.Product) {
	if len(s.Selected) == 0 {
		return
	}
	present := make(map[string]struct{}, len(page))
	for _, p := range page {
		present[p.ID] = struct{}{}
	}
	kept := s.Selected[:0:0]
	for _, id := range s.Selected {
		if _, ok := present[id]; ok {
			kept = append(kept, id)
		}
	}
	s.Selected = kept
}

// OpenCreate abre el modal con un borrador vacío de creación.
func (s *State) OpenCreate() {
	s.Draft = NewProductDraft{}
	s.ModalOpen = true
}

// OpenEdit abre el modal precargado con p.
func (s *State) OpenEdit(p entity.Product) {
	s.Draft = DraftFromProduct(p)
	s.ModalOpen = true
}

// UpdateDraft reemplaza los campos del borrador conservando su variante.
func (s *State) UpdateDraft(f DraftFields) error {
	if s.Draft == nil {
		return fmt.Errorf("%w: no hay formulario abierto", domain.ErrInvalidInput)
	}
	s.Draft = s.Draft.withFields(f)
	return nil
}

// CloseModal cierra el modal. El borrador se conserva para reabrirlo tal cual.
func (s *State) CloseModal() {
	s.ModalOpen = false
}

// resetDraft cierra el modal y descarta el borrador (tras un guardado exitoso).
func (s *State) resetDraft() {
	s.ModalOpen = false
	s.Draft = nil
}

// HandleKey aplica el atajo global Ctrl+K (enfocar la búsqueda).
func (s *State) HandleKey(e KeyEvent) KeyResult {
	if isFocusSearch(e) {
		s.SearchFocused = true
		return KeyResult{Handled: true, PreventDefault: true, FocusSearch: true}
	}
	return KeyResult{}
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
