package dashboard

import (
	"sync"
	"time"

	"github.com/jhoicas/controle-validade/pkg/logger"
)

// Factory construye el dashboard de un usuario (backend, caché propia y opciones).
type Factory func(user Identity) *Dashboard

// Sessions registro de dashboards por usuario.
type Sessions struct {
	build Factory
	now   func() time.Time
	log   *logger.Logger

	mu      sync.Mutex
	items   map[string]*Dashboard
	closing sync.WaitGroup // refrescos pendientes de sesiones ya retiradas
}

// SessionOption configura el registro.
type SessionOption func(*Sessions)

// WithSessionClock inyecta el reloj usado por Sweep.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Sessions) { s.now = now }
}

// NewSessions construye el registro.
func NewSessions(build Factory, log *logger.Logger, opts ...SessionOption) *Sessions {
	if log == nil {
		log = logger.Nop()
	}
	s := &Sessions{
		build: build,
		now:   time.Now,
		log:   log.Component("sessions"),
		items: make(map[string]*Dashboard),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get devuelve el dashboard del usuario, creándolo si no existe.
func (s *Sessions) Get(user Identity) *Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.items[user.UserID]; ok {
		return d
	}
	d := s.build(user)
	s.items[user.UserID] = d
	s.log.Debug().Str("user_id", user.UserID).Msg("sesión de dashboard creada")
	return d
}

// Close descarta el estado del usuario (abandonó la página). Devuelve false si no había sesión.
func (s *Sessions) Close(userID string) bool {
	s.mu.Lock()
	d, ok := s.items[userID]
	delete(s.items, userID)
	s.mu.Unlock()
	if ok {
		d.Reset()
		s.retire(d)
	}
	return ok
}

// Sweep elimina las sesiones sin uso durante más de idle. Devuelve cuántas eliminó.
func (s *Sessions) Sweep(idle time.Duration) int {
	cutoff := s.now().Add(-idle)
	s.mu.Lock()
	var evicted []*Dashboard
	for id, d := range s.items {
		if d.LastUsed().Before(cutoff) {
			delete(s.items, id)
			evicted = append(evicted, d)
		}
	}
	active := len(s.items)
	s.mu.Unlock()

	for _, d := range evicted {
		s.retire(d)
	}
	if len(evicted) > 0 {
		s.log.Info().Int("evicted", len(evicted)).Int("active", active).Msg("sesiones inactivas eliminadas")
	}
	return len(evicted)
}

// retire sigue esperando los refrescos en segundo plano de d para que Wait los incluya.
func (s *Sessions) retire(d *Dashboard) {
	s.closing.Add(1)
	go func() {
		defer s.closing.Done()
		d.Cache().Wait()
	}()
}

// Len cantidad de sesiones activas.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Wait espera los refrescos en segundo plano de todas las sesiones, incluidas las retiradas (apagado).
func (s *Sessions) Wait() {
	s.mu.Lock()
	list := make([]*Dashboard, 0, len(s.items))
	for _, d := range s.items {
		list = append(list, d)
	}
	s.mu.Unlock()
	for _, d := range list {
		d.Cache().Wait()
	}
	s.closing.Wait()
}
