// Package memory backend en proceso con la misma semántica que las RPC hospedadas.
// Se usa en desarrollo (BACKEND_DRIVER=memory) y como doble en los tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/controle-validade/internal/application/ports"
	"github.com/jhoicas/controle-validade/internal/domain"
	"github.com/jhoicas/controle-validade/internal/domain/entity"
	"github.com/jhoicas/controle-validade/internal/domain/expiration"
)

var _ ports.ProductBackend = (*Backend)(nil)

// Backend almacena tb_products en memoria y deriva el status con el reloj inyectado.
type Backend struct {
	mu       sync.RWMutex
	products map[string]entity.ProductInput
	now      func() time.Time
}

// Option configura el backend.
type Option func(*Backend)

// WithClock fija el reloj usado para clasificar.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// New construye un backend vacío.
func New(opts ...Option) *Backend {
	b := &Backend{products: make(map[string]entity.ProductInput), now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Seed inserta un producto con id conocido (tests y datos de demo).
func (b *Backend) Seed(id string, in entity.ProductInput) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products[id] = in
}

func (b *Backend) ProductStats(ctx context.Context) ([]entity.ProductStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	counts := make(map[entity.Status]int)
	for _, p := range b.snapshot() {
		counts[p.Status]++
	}
	out := make([]entity.ProductStats, 0, len(counts))
	for _, s := range entity.Statuses() {
		if n, ok := counts[s]; ok {
			out = append(out, entity.ProductStats{Status: s, TotalCount: n})
		}
	}
	return out, nil
}

func (b *Backend) ProductsByStatus(ctx context.Context, status entity.Status, limit int) ([]entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, domain.ErrInvalidInput
	}
	var out []entity.Product
	for _, p := range b.snapshot() {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return truncate(out, limit), nil
}

func (b *Backend) AllProducts(ctx context.Context, limit int) ([]entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, domain.ErrInvalidInput
	}
	return truncate(b.snapshot(), limit), nil
}

func (b *Backend) InsertProduct(ctx context.Context, in entity.ProductInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products[uuid.New().String()] = in
	return nil
}

func (b *Backend) UpdateProduct(ctx context.Context, id string, in entity.ProductInput) (*entity.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.products[id]; !ok {
		return nil, domain.ErrNotFound
	}
	b.products[id] = in
	p := b.toProduct(id, in)
	return &p, nil
}

func (b *Backend) DeleteProducts(ctx context.Context, ids []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, id := range ids {
		delete(b.products, id)
	}
	return nil
}

// snapshot lista todos los productos ordenados por vencimiento (los más próximos primero).
func (b *Backend) snapshot() []entity.Product {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]entity.Product, 0, len(b.products))
	for id, in := range b.products {
		out = append(out, b.toProduct(id, in))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpirationDate.Equal(out[j].ExpirationDate.Time) {
			return out[i].ExpirationDate.Before(out[j].ExpirationDate.Time)
		}
		if out[i].Description != out[j].Description {
			return out[i].Description < out[j].Description
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (b *Backend) toProduct(id string, in entity.ProductInput) entity.Product {
	return entity.Product{
		ID:             id,
		Description:    in.Description,
		ExpirationDate: in.ExpirationDate,
		Stock:          in.Stock,
		Status:         expiration.Classify(in.ExpirationDate, entity.DateOf(b.now())),
	}
}

func truncate(list []entity.Product, limit int) []entity.Product {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
