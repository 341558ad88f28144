// Package query implementa los hooks de lectura del dashboard sobre una caché explícita.
//
// Cada lectura se indexa por una Key estructural (grupo, status, límite). Las entradas
// se consideran frescas durante staleTime; pasado ese tiempo se sirven marcadas como
// Stale y se refrescan en segundo plano. Invalidate es una operación explícita que
// fuerza a las lecturas siguientes a ir al backend.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/controle-validade/pkg/logger"
)

// Grupos de caché usados por el dashboard.
const (
	GroupStats    = "product-stats"
	GroupProducts = "products"
)

const (
	// DefaultStaleTime ventana de frescura de las lecturas.
	DefaultStaleTime = 2 * time.Minute
	// maxRestarts reintentos de una lectura invalidada mientras estaba en vuelo.
	maxRestarts = 3
	// backgroundTimeout límite de un refresco en segundo plano.
	backgroundTimeout = 30 * time.Second
)

// ErrRestartsExhausted la lectura fue invalidada repetidamente mientras estaba en vuelo.
var ErrRestartsExhausted = errors.New("query: lectura invalidada repetidamente")

// Key clave estructural de una lectura.
type Key struct {
	Group  string
	Status string // vacío = sin filtro
	Limit  int
}

// String forma serializada usada por los Store.
func (k Key) String() string {
	return k.Group + ":" + k.Status + ":" + strconv.Itoa(k.Limit)
}

// Prefix prefijo común a todas las claves de un grupo.
func Prefix(group string) string { return group + ":" }

// Entry valor almacenado: datos serializados y momento de la lectura.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Store almacenamiento de entradas (memoria o Redis).
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// Option configura la caché.
type Option func(*Cache)

// WithStaleTime cambia la ventana de frescura.
func WithStaleTime(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.staleTime = d
		}
	}
}

// WithClock inyecta el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger inyecta el logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Cache) { c.log = l.Component("query-cache") }
}

// Cache caché de lecturas con generaciones por grupo.
type Cache struct {
	store     Store
	staleTime time.Duration
	now       func() time.Time
	log       *logger.Logger

	mu          sync.Mutex
	generations map[string]uint64
	loading     map[string]int
	refreshing  map[string]bool
	failures    map[string]error

	flights singleflight.Group
	bg      sync.WaitGroup
}

// NewCache construye la caché sobre store.
func NewCache(store Store, opts ...Option) *Cache {
	c := &Cache{
		store:       store,
		staleTime:   DefaultStaleTime,
		now:         time.Now,
		log:         logger.Nop(),
		generations: make(map[string]uint64),
		loading:     make(map[string]int),
		refreshing:  make(map[string]bool),
		failures:    make(map[string]error),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StaleTime ventana de frescura configurada.
func (c *Cache) StaleTime() time.Duration { return c.staleTime }

// Invalidate descarta las entradas de los grupos indicados. Las lecturas en vuelo de
// esos grupos no se almacenan y se reinician.
func (c *Cache) Invalidate(ctx context.Context, groups ...string) error {
	c.mu.Lock()
	for _, g := range groups {
		c.generations[g]++
		for k := range c.failures {
			if strings.HasPrefix(k, Prefix(g)) {
				delete(c.failures, k)
			}
		}
	}
	c.mu.Unlock()

	var errs []error
	for _, g := range groups {
		if err := c.store.DeletePrefix(ctx, Prefix(g)); err != nil {
			errs = append(errs, fmt.Errorf("invalidar %s: %w", g, err))
		}
	}
	c.log.Debug().Strs("groups", groups).Msg("caché invalidada")
	return errors.Join(errs...)
}

// Loading indica si hay una lectura en vuelo para key.
func (c *Cache) Loading(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading[key.String()] > 0
}

// Failure último error de lectura de key, vigente hasta una invalidación de su grupo.
// Las lecturas fallidas no se reintentan solas: el usuario decide refrescar.
func (c *Cache) Failure(key Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failures[key.String()]
}

// Wait espera a que terminen los refrescos en segundo plano.
func (c *Cache) Wait() { c.bg.Wait() }

func (c *Cache) generation(group string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[group]
}

func (c *Cache) fresh(e Entry) bool {
	return c.now().Sub(e.FetchedAt) < c.staleTime
}

// lookup lee la entrada; un error del store se registra y se trata como fallo de caché.
func (c *Cache) lookup(ctx context.Context, key Key) (Entry, bool) {
	e, ok, err := c.store.Get(ctx, key.String())
	if err != nil {
		c.log.Warn().Err(err).Str("key", key.String()).Msg("error leyendo caché; se consulta el backend")
		return Entry{}, false
	}
	return e, ok
}

// fetch ejecuta la lectura compartida por clave y generación y almacena el resultado
// solo si el grupo no fue invalidado mientras estaba en vuelo.
func (c *Cache) fetch(ctx context.Context, key Key, fn func(context.Context) (json.RawMessage, error)) (Entry, error) {
	for attempt := 0; attempt < maxRestarts; attempt++ {
		gen := c.generation(key.Group)
		flightKey := key.String() + "@" + strconv.FormatUint(gen, 10)

		v, err, _ := c.flights.Do(flightKey, func() (any, error) {
			c.markLoading(key, 1)
			defer c.markLoading(key, -1)
			return fn(ctx)
		})
		c.mu.Lock()
		if c.generations[key.Group] != gen {
			c.mu.Unlock()
			c.log.Debug().Str("key", key.String()).Int("attempt", attempt+1).Msg("lectura invalidada en vuelo; reiniciando")
			continue
		}
		if err != nil {
			c.failures[key.String()] = err
			c.mu.Unlock()
			return Entry{}, err
		}
		delete(c.failures, key.String())
		entry := Entry{Data: v.(json.RawMessage), FetchedAt: c.now()}
		if err := c.store.Set(ctx, key.String(), entry); err != nil {
			c.log.Warn().Err(err).Str("key", key.String()).Msg("error escribiendo caché")
		}
		c.mu.Unlock()
		return entry, nil
	}
	return Entry{}, ErrRestartsExhausted
}

// refreshAsync refresca key en segundo plano una sola vez a la vez.
func (c *Cache) refreshAsync(ctx context.Context, key Key, fn func(context.Context) (json.RawMessage, error)) {
	c.mu.Lock()
	if c.refreshing[key.String()] {
		c.mu.Unlock()
		return
	}
	c.refreshing[key.String()] = true
	c.mu.Unlock()

	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		defer func() {
			c.mu.Lock()
			delete(c.refreshing, key.String())
			c.mu.Unlock()
		}()
		bgCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), backgroundTimeout)
		defer cancel()
		if _, err := c.fetch(bgCtx, key, fn); err != nil {
			c.log.Warn().Err(err).Str("key", key.String()).Msg("refresco en segundo plano fallido")
		}
	}()
}

func (c *Cache) markLoading(key Key, delta int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key.String()
	c.loading[k] += delta
	if c.loading[k] <= 0 {
		delete(c.loading, k)
	}
}
