// Package cache implementa los Store de la caché de lecturas (memoria y Redis).
package cache

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/controle-validade/internal/application/query"
)

var _ query.Store = (*MemoryStore)(nil)

// MemoryStore Store en proceso; una instancia por sesión de dashboard.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]query.Entry
}

// NewMemoryStore construye el store vacío.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]query.Entry)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (query.Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, e query.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = e
	return nil
}

func (s *MemoryStore) DeletePrefix(_ context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.entries {
		if strings.HasPrefix(k, prefix) {
			delete(s.entries, k)
		}
	}
	return nil
}

// Len número de entradas (tests y métricas).
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
