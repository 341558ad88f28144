package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/controle-validade/internal/application/ports"
	"github.com/jhoicas/controle-validade/internal/domain"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
)

var _ ports.ProductBackend = (*ProductBackend)(nil)

// ProductBackend implementación del backend sobre PostgreSQL: llama a las mismas funciones
// get_product_stats / get_products_by_status / get_all_products y a la tabla tb_products.
type ProductBackend struct {
	q Querier
}

// NewProductBackend construye el adaptador. Pasar pool o tx (Querier).
func NewProductBackend(q Querier) *ProductBackend {
	return &ProductBackend{q: q}
}

// ProductStats devuelve una fila por status presente.
func (b *ProductBackend) ProductStats(ctx context.Context) ([]entity.ProductStats, error) {
	rows, err := b.q.Query(ctx, `SELECT status::text, total_produtos FROM get_product_stats()`)
	if err != nil {
		return nil, fmt.Errorf("get_product_stats: %w", err)
	}
	defer rows.Close()

	var out []entity.ProductStats
	for rows.Next() {
		var (
			label string
			total int64
		)
		if err := rows.Scan(&label, &total); err != nil {
			return nil, fmt.Errorf("get_product_stats scan: %w", err)
		}
		status, err := entity.ParseStatus(label)
		if err != nil {
			return nil, err
		}
		out = append(out, entity.ProductStats{Status: status, TotalCount: int(total)})
	}
	return out, rows.Err()
}

// ProductsByStatus página filtrada por status; limit siempre positivo.
func (b *ProductBackend) ProductsByStatus(ctx context.Context, status entity.Status, limit int) ([]entity.Product, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: get_products_by_status exige p_limit > 0", domain.ErrInvalidInput)
	}
	query := `
		SELECT id::text, description, expiration_date, stock, status::text
		FROM get_products_by_status($1, $2)`
	return b.products(ctx, "get_products_by_status", query, status.String(), limit)
}

// AllProducts página sin filtro; limit 0 = sin límite.
func (b *ProductBackend) AllProducts(ctx context.Context, limit int) ([]entity.Product, error) {
	query := `
		SELECT id::text, description, expiration_date, stock, status::text
		FROM get_all_products($1)`
	return b.products(ctx, "get_all_products", query, limit)
}

// InsertProduct inserta un registro; la base genera el id.
func (b *ProductBackend) InsertProduct(ctx context.Context, in entity.ProductInput) error {
	query := `INSERT INTO tb_products (description, expiration_date, stock) VALUES ($1, $2, $3)`
	if _, err := b.q.Exec(ctx, query, in.Description, in.ExpirationDate.Time, in.Stock); err != nil {
		if isConstraintViolation(err) {
			return fmt.Errorf("insert tb_products: %w", domain.ErrInvalidInput)
		}
		return fmt.Errorf("insert tb_products: %w", err)
	}
	return nil
}

// UpdateProduct actualiza por id; domain.ErrNotFound si ya no existe.
func (b *ProductBackend) UpdateProduct(ctx context.Context, id string, in entity.ProductInput) (*entity.Product, error) {
	query := `
		UPDATE tb_products
		SET description = $2, expiration_date = $3, stock = $4
		WHERE id::text = $1
		RETURNING id::text, description, expiration_date, stock`
	var (
		p   entity.Product
		exp time.Time
	)
	err := b.q.QueryRow(ctx, query, id, in.Description, in.ExpirationDate.Time, in.Stock).
		Scan(&p.ID, &p.Description, &exp, &p.Stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		if isConstraintViolation(err) {
			return nil, fmt.Errorf("update tb_products: %w", domain.ErrInvalidInput)
		}
		return nil, fmt.Errorf("update tb_products: %w", err)
	}
	p.ExpirationDate = entity.DateOf(exp)
	return &p, nil
}

// DeleteProducts elimina todos los ids en una sola sentencia.
func (b *ProductBackend) DeleteProducts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if _, err := b.q.Exec(ctx, `DELETE FROM tb_products WHERE id::text = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete tb_products: %w", err)
	}
	return nil
}

func (b *ProductBackend) products(ctx context.Context, fn, query string, args ...any) ([]entity.Product, error) {
	rows, err := b.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	defer rows.Close()

	var out []entity.Product
	for rows.Next() {
		var (
			p     entity.Product
			exp   time.Time
			label string
		)
		if err := rows.Scan(&p.ID, &p.Description, &exp, &p.Stock, &label); err != nil {
			return nil, fmt.Errorf("%s scan: %w", fn, err)
		}
		p.ExpirationDate = entity.DateOf(exp)
		if p.Status, err = entity.ParseStatus(label); err != nil {
			return nil, fmt.Errorf("%s: producto %s: %w", fn, p.ID, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
