package query

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Result estado observable de una lectura.
type Result[T any] struct {
	Data      T
	IsLoading bool
	Err       error
	Stale     bool
	UpdatedAt time.Time
}

// HasData indica si hay datos (frescos o no) para mostrar.
func (r Result[T]) HasData() bool { return !r.UpdatedAt.IsZero() }

// Fetcher lectura tipada contra el backend.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Load devuelve la lectura de key: fresca desde caché, stale con refresco en segundo
// plano, o bloqueante contra el backend en caso de fallo de caché.
func Load[T any](ctx context.Context, c *Cache, key Key, fetch Fetcher[T]) Result[T] {
	raw := encoded(fetch)

	if e, ok := c.lookup(ctx, key); ok {
		data, err := decode[T](e)
		if err == nil {
			if c.fresh(e) {
				return Result[T]{Data: data, UpdatedAt: e.FetchedAt}
			}
			c.refreshAsync(ctx, key, raw)
			return Result[T]{Data: data, Stale: true, UpdatedAt: e.FetchedAt, IsLoading: true}
		}
		c.log.Warn().Err(err).Str("key", key.String()).Msg("entrada de caché ilegible; se descarta")
	}

	if err := c.Failure(key); err != nil {
		return Result[T]{Err: err}
	}
	e, err := c.fetch(ctx, key, raw)
	if err != nil {
		return Result[T]{Err: err}
	}
	data, err := decode[T](e)
	if err != nil {
		return Result[T]{Err: err}
	}
	return Result[T]{Data: data, UpdatedAt: e.FetchedAt}
}

// Peek devuelve lo que hay en caché sin bloquear. Si no hay entrada y nadie está
// leyendo key, inicia la lectura en segundo plano.
func Peek[T any](ctx context.Context, c *Cache, key Key, fetch Fetcher[T]) Result[T] {
	if e, ok := c.lookup(ctx, key); ok {
		if data, err := decode[T](e); err == nil {
			stale := !c.fresh(e)
			if stale {
				c.refreshAsync(ctx, key, encoded(fetch))
			}
			return Result[T]{Data: data, Stale: stale, UpdatedAt: e.FetchedAt, IsLoading: stale || c.Loading(key)}
		}
	}
	if err := c.Failure(key); err != nil {
		return Result[T]{Err: err}
	}
	if !c.Loading(key) {
		c.refreshAsync(ctx, key, encoded(fetch))
	}
	return Result[T]{IsLoading: true}
}

func encoded[T any](fetch Fetcher[T]) func(context.Context) (json.RawMessage, error) {
	return func(ctx context.Context) (json.RawMessage, error) {
		data, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("query: serializar: %w", err)
		}
		return b, nil
	}
}

func decode[T any](e Entry) (T, error) {
	var data T
	if err := json.Unmarshal(e.Data, &data); err != nil {
		return data, fmt.Errorf("query: deserializar: %w", err)
	}
	return data, nil
}
