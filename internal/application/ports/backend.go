package ports

import (
	"context"

	"github.com/jhoicas/controle-validade/internal/domain/entity"
)

// ProductBackend contrato con el backend hospedado (RPC + tabla tb_products).
// Las implementaciones viven en infrastructure (supabase, postgres, memory).
type ProductBackend interface {
	// ProductStats equivale a get_product_stats(): una fila por status presente.
	ProductStats(ctx context.Context) ([]entity.ProductStats, error)
	// ProductsByStatus equivale a get_products_by_status(filter_status, p_limit); limit siempre > 0.
	ProductsByStatus(ctx context.Context, status entity.Status, limit int) ([]entity.Product, error)
	// AllProducts equivale a get_all_products(p_limit); limit 0 = sin límite.
	AllProducts(ctx context.Context, limit int) ([]entity.Product, error)
	// InsertProduct inserta un registro; el backend genera el id.
	InsertProduct(ctx context.Context, in entity.ProductInput) error
	// UpdateProduct actualiza por id. Devuelve domain.ErrNotFound si el id ya no existe.
	UpdateProduct(ctx context.Context, id string, in entity.ProductInput) (*entity.Product, error)
	// DeleteProducts elimina todos los ids en una sola petición.
	DeleteProducts(ctx context.Context, ids []string) error
}
