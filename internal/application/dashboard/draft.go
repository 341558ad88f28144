package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/controle-validade/internal/domain"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
)

// Mínimos de estoque por variante. La asimetría (0 al crear, 1 al editar) es la regla
// vigente del formulario y está pendiente de confirmación con el dueño del dominio.
const (
	MinStockOnCreate = 0
	MinStockOnUpdate = 1
)

// DraftFields campos del formulario tal como los escribe el usuario.
type DraftFields struct {
	Description    string `json:"description"`
	ExpirationDate string `json:"expiration_date"`
	Stock          string `json:"stock"`
}

// Draft formulario del modal: NewProductDraft (crear) o EditProductDraft (editar).
type Draft interface {
	Fields() DraftFields
	withFields(DraftFields) Draft
	minStock() int
}

// NewProductDraft borrador de un producto nuevo.
type NewProductDraft struct {
	DraftFields
}

// EditProductDraft borrador de la edición de un producto existente.
type EditProductDraft struct {
	ID string `json:"id"`
	DraftFields
}

func (d NewProductDraft) Fields() DraftFields { return d.DraftFields }

func (d NewProductDraft) withFields(f DraftFields) Draft { return NewProductDraft{DraftFields: f} }

func (NewProductDraft) minStock() int { return MinStockOnCreate }

func (d EditProductDraft) Fields() DraftFields { return d.DraftFields }

func (d EditProductDraft) withFields(f DraftFields) Draft {
	return EditProductDraft{ID: d.ID, DraftFields: f}
}

func (EditProductDraft) minStock() int { return MinStockOnUpdate }

// DraftFromProduct precarga el formulario de edición con los datos de p.
func DraftFromProduct(p entity.Product) EditProductDraft {
	return EditProductDraft{
		ID: p.ID,
		DraftFields: DraftFields{
			Description:    p.Description,
			ExpirationDate: p.ExpirationDate.String(),
			Stock:          strconv.Itoa(p.Stock),
		},
	}
}

// ValidationError campo inválido del formulario.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// Validate convierte el borrador en ProductInput aplicando las reglas del formulario:
// campos obligatorios, fecha YYYY-MM-DD y estoque entero con el mínimo de la variante.
func Validate(d Draft) (entity.ProductInput, error) {
	f := d.Fields()
	if e, ok := d.(EditProductDraft); ok && strings.TrimSpace(e.ID) == "" {
		return entity.ProductInput{}, &ValidationError{Field: "id", Message: "obligatorio para editar"}
	}
	desc := strings.TrimSpace(f.Description)
	if desc == "" {
		return entity.ProductInput{}, &ValidationError{Field: "description", Message: "obligatorio"}
	}
	if strings.TrimSpace(f.ExpirationDate) == "" {
		return entity.ProductInput{}, &ValidationError{Field: "expiration_date", Message: "obligatorio"}
	}
	date, err := entity.ParseDate(strings.TrimSpace(f.ExpirationDate))
	if err != nil {
		return entity.ProductInput{}, &ValidationError{Field: "expiration_date", Message: "formato AAAA-MM-DD"}
	}
	if strings.TrimSpace(f.Stock) == "" {
		return entity.ProductInput{}, &ValidationError{Field: "stock", Message: "obligatorio"}
	}
	stock, err := strconv.Atoi(strings.TrimSpace(f.Stock))
	if err != nil {
		return entity.ProductInput{}, &ValidationError{Field: "stock", Message: "debe ser un número entero"}
	}
	if stock < d.minStock() {
		return entity.ProductInput{}, &ValidationError{Field: "stock", Message: fmt.Sprintf("mínimo %d", d.minStock())}
	}
	return entity.ProductInput{Description: desc, ExpirationDate: date, Stock: stock}, nil
}
