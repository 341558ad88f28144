package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/controle-validade/internal/application/ports"
	"github.com/jhoicas/controle-validade/internal/application/query"
	"github.com/jhoicas/controle-validade/internal/domain"
	"github.com/jhoicas/controle-validade/pkg/logger"
)

// Confirmer responde a la pregunta de confirmación de una operación destructiva.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapta una función a Confirmer.
type ConfirmFunc func(prompt string) bool

// Confirm implementa Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed confirmer de respuesta fija (p. ej. el campo "confirm" de una petición HTTP).
type Confirmed bool

// Confirm implementa Confirmer.
func (c Confirmed) Confirm(string) bool { return bool(c) }

// DeletePrompt texto de confirmación del borrado de n productos.
func DeletePrompt(n int) string {
	return fmt.Sprintf("Tem certeza que deseja remover %d produto(s)?", n)
}

// Orchestrator valida y envía las mutaciones al backend. Tras cada éxito invalida las
// lecturas de productos y estadísticas.
type Orchestrator struct {
	backend ports.ProductBackend
	cache   *query.Cache
	log     *logger.Logger
}

// NewOrchestrator construye el orquestador.
func NewOrchestrator(backend ports.ProductBackend, cache *query.Cache, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{backend: backend, cache: cache, log: log.Component("mutations")}
}

// Submit despacha según la variante del borrador.
func (o *Orchestrator) Submit(ctx context.Context, d Draft) error {
	switch v := d.(type) {
	case NewProductDraft:
		return o.Create(ctx, v)
	case EditProductDraft:
		return o.Update(ctx, v)
	case nil:
		return fmt.Errorf("%w: no hay formulario abierto", domain.ErrInvalidInput)
	default:
		return fmt.Errorf("%w: borrador %T", domain.ErrInvalidInput, d)
	}
}

// Create valida e inserta un producto nuevo.
func (o *Orchestrator) Create(ctx context.Context, d NewProductDraft) error {
	in, err := Validate(d)
	if err != nil {
		return err
	}
	if err := o.backend.InsertProduct(ctx, in); err != nil {
		o.log.Error().Err(err).Str("mutation", "create").Msg("alta de producto fallida")
		return fmt.Errorf("insert tb_products: %w", err)
	}
	o.log.Info().Str("mutation", "create").Str("description", in.Description).Msg("producto creado")
	o.invalidate(ctx)
	return nil
}

// Update valida y actualiza d.ID. Si el producto ya no existe devuelve domain.ErrStaleProduct.
func (o *Orchestrator) Update(ctx context.Context, d EditProductDraft) error {
	in, err := Validate(d)
	if err != nil {
		return err
	}
	if _, err := o.backend.UpdateProduct(ctx, d.ID, in); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			o.log.Warn().Str("mutation", "update").Str("id", d.ID).Msg("edición de un producto ya eliminado")
			return fmt.Errorf("update tb_products %s: %w", d.ID, domain.ErrStaleProduct)
		}
		o.log.Error().Err(err).Str("mutation", "update").Str("id", d.ID).Msg("actualización fallida")
		return fmt.Errorf("update tb_products %s: %w", d.ID, err)
	}
	o.log.Info().Str("mutation", "update").Str("id", d.ID).Msg("producto actualizado")
	o.invalidate(ctx)
	return nil
}

// Delete pide confirmación y elimina ids en una sola petición.
func (o *Orchestrator) Delete(ctx context.Context, ids []string, c Confirmer) error {
	if len(ids) == 0 {
		return domain.ErrEmptyBatch
	}
	if c == nil || !c.Confirm(DeletePrompt(len(ids))) {
		return domain.ErrNotConfirmed
	}
	if err := o.backend.DeleteProducts(ctx, ids); err != nil {
		o.log.Error().Err(err).Str("mutation", "delete").Int("count", len(ids)).Msg("borrado fallido")
		return fmt.Errorf("delete tb_products: %w", err)
	}
	o.log.Info().Str("mutation", "delete").Int("count", len(ids)).Msg("productos eliminados")
	o.invalidate(ctx)
	return nil
}

// invalidate marca ambos grupos tras un éxito confirmado. La mutación ya ocurrió, así que un
// fallo del Store solo se registra.
func (o *Orchestrator) invalidate(ctx context.Context) {
	if err := o.cache.Invalidate(context.WithoutCancel(ctx), query.GroupProducts, query.GroupStats); err != nil {
		o.log.Warn().Err(err).Msg("invalidación de caché incompleta")
	}
}
