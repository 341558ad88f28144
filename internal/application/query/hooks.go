package query

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/controle-validade/internal/application/ports"
	"github.com/jhoicas/controle-validade/internal/domain"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
)

// RowLimit máximo de filas pedidas por lectura. Unbounded = "Todos".
type RowLimit int

const (
	// Unbounded pide todas las filas.
	Unbounded RowLimit = -1
	// DefaultLimit límite inicial del dashboard.
	DefaultLimit RowLimit = 10
	// unboundedStatusLimit get_products_by_status exige un límite positivo.
	unboundedStatusLimit = 999999
)

// LimitOptions límites ofrecidos en el selector (Unbounded aparte).
var LimitOptions = []RowLimit{10, 20, 50, 100}

// ParseRowLimit acepta 10/20/50/100 o "todos"/"all"/"-1".
func ParseRowLimit(s string) (RowLimit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "todos", "all", "-1":
		return Unbounded, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: límite %q", domain.ErrInvalidInput, s)
	}
	l := RowLimit(n)
	if !l.Valid() {
		return 0, fmt.Errorf("%w: límite %d no permitido", domain.ErrInvalidInput, n)
	}
	return l, nil
}

// Valid indica si l es una de las opciones permitidas.
func (l RowLimit) Valid() bool {
	if l == Unbounded {
		return true
	}
	for _, o := range LimitOptions {
		if l == o {
			return true
		}
	}
	return false
}

// Label texto del selector.
func (l RowLimit) Label() string {
	if l == Unbounded {
		return "Todos"
	}
	return strconv.Itoa(int(l))
}

// Hooks lecturas del dashboard (estadísticas y página de productos) sobre la caché.
type Hooks struct {
	cache   *Cache
	backend ports.ProductBackend
}

// NewHooks construye los hooks con el backend inyectado.
func NewHooks(cache *Cache, backend ports.ProductBackend) *Hooks {
	return &Hooks{cache: cache, backend: backend}
}

// Cache devuelve la caché compartida con el orquestador de mutaciones.
func (h *Hooks) Cache() *Cache { return h.cache }

// StatsKey clave de get_product_stats.
func StatsKey() Key { return Key{Group: GroupStats} }

// ProductsKey clave de la página de productos; incluye filtro y límite.
func ProductsKey(filter *entity.Status, limit RowLimit) Key {
	k := Key{Group: GroupProducts, Limit: int(limit)}
	if filter != nil {
		k.Status = string(*filter)
	}
	return k
}

// Stats lectura bloqueante de las estadísticas por status.
func (h *Hooks) Stats(ctx context.Context) Result[[]entity.ProductStats] {
	return Load(ctx, h.cache, StatsKey(), h.fetchStats)
}

// PeekStats lectura no bloqueante de las estadísticas.
func (h *Hooks) PeekStats(ctx context.Context) Result[[]entity.ProductStats] {
	return Peek(ctx, h.cache, StatsKey(), h.fetchStats)
}

// Products lectura bloqueante de la página filtrada por status y límite.
func (h *Hooks) Products(ctx context.Context, filter *entity.Status, limit RowLimit) Result[[]entity.Product] {
	return Load(ctx, h.cache, ProductsKey(filter, limit), h.productsFetcher(filter, limit))
}

// PeekProducts lectura no bloqueante de la página.
func (h *Hooks) PeekProducts(ctx context.Context, filter *entity.Status, limit RowLimit) Result[[]entity.Product] {
	return Peek(ctx, h.cache, ProductsKey(filter, limit), h.productsFetcher(filter, limit))
}

func (h *Hooks) fetchStats(ctx context.Context) ([]entity.ProductStats, error) {
	stats, err := h.backend.ProductStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_product_stats: %w", err)
	}
	if stats == nil {
		stats = []entity.ProductStats{}
	}
	return stats, nil
}

func (h *Hooks) productsFetcher(filter *entity.Status, limit RowLimit) Fetcher[[]entity.Product] {
	return func(ctx context.Context) ([]entity.Product, error) {
		var (
			list []entity.Product
			err  error
		)
		if filter != nil {
			n := int(limit)
			if limit == Unbounded {
				n = unboundedStatusLimit
			}
			list, err = h.backend.ProductsByStatus(ctx, *filter, n)
			if err != nil {
				return nil, fmt.Errorf("get_products_by_status: %w", err)
			}
		} else {
			n := int(limit)
			if limit == Unbounded {
				n = 0
			}
			list, err = h.backend.AllProducts(ctx, n)
			if err != nil {
				return nil, fmt.Errorf("get_all_products: %w", err)
			}
		}
		if list == nil {
			list = []entity.Product{}
		}
		return list, nil
	}
}
