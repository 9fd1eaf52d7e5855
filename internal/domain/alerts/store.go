package alerts

import (
	"errors"
	"sync"
	"time"

	"herd-health/internal/domain/treatments"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

// Store es el cache de notificaciones compartido por todo el proceso, con
// fan-out publish/subscribe: cada mutación notifica sincrónicamente a todos
// los suscriptores, así varios observadores simultáneos (contador de badge,
// lista de notificaciones) quedan consistentes sin re-leer storage.
//
// Los lectores nunca mutan el cache directo: toda mutación pasa por los
// métodos del Store. Sin política de evicción más allá de Delete/Clear
// explícitos del usuario.
type Store struct {
	mu    sync.RWMutex
	byID  map[string]Notification
	order []string

	smu  sync.Mutex
	subs map[uint64]func()
	seq  uint64
}

func NewStore() *Store {
	return &Store{
		byID: make(map[string]Notification),
		subs: make(map[uint64]func()),
	}
}

// Subscribe registra un callback de cambio. Se invoca sincrónicamente en
// cada mutación del cache. Devuelve la función para desuscribirse.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.smu.Lock()
	s.seq++
	id := s.seq
	s.subs[id] = fn
	s.smu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.smu.Lock()
			delete(s.subs, id)
			s.smu.Unlock()
		})
	}
}

// notify hace snapshot de los suscriptores y los invoca fuera del lock de
// datos, para que un suscriptor pueda leer el Store desde su callback.
func (s *Store) notify() {
	s.smu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.smu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Publish agrega la notificación al cache y notifica a los suscriptores.
// Es la única vía de entrada de notificaciones nuevas.
func (s *Store) Publish(n Notification) {
	s.mu.Lock()
	s.byID[n.ID] = n
	s.order = append(s.order, n.ID)
	s.mu.Unlock()

	s.notify()
}

// ListByOwner devuelve las notificaciones del owner, más recientes primero.
func (s *Store) ListByOwner(ownerUserID string) []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Notification, 0)
	for i := len(s.order) - 1; i >= 0; i-- {
		n, ok := s.byID[s.order[i]]
		if !ok || n.OwnerUserID != ownerUserID {
			continue
		}
		out = append(out, n)
	}
	return out
}

func (s *Store) UnreadCount(ownerUserID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.byID {
		if n.OwnerUserID == ownerUserID && !n.Read {
			count++
		}
	}
	return count
}

// HasUnreadSameDay es el predicado de dedup: existe una notificación sin
// leer del owner con exactamente el mismo title+message creada el mismo día
// calendario.
func (s *Store) HasUnreadSameDay(ownerUserID, title, message string, day time.Time) bool {
	d := treatments.DateOnly(day)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, n := range s.byID {
		if n.OwnerUserID != ownerUserID || n.Read {
			continue
		}
		if n.Title != title || n.Message != message {
			continue
		}
		if treatments.DateOnly(n.CreatedAt).Equal(d) {
			return true
		}
	}
	return false
}

func (s *Store) MarkRead(id, ownerUserID string) error {
	s.mu.Lock()
	n, ok := s.byID[id]
	if !ok || n.OwnerUserID != ownerUserID {
		s.mu.Unlock()
		return ErrNotificationNotFound
	}
	n.Read = true
	s.byID[id] = n
	s.mu.Unlock()

	s.notify()
	return nil
}

func (s *Store) Delete(id, ownerUserID string) error {
	s.mu.Lock()
	n, ok := s.byID[id]
	if !ok || n.OwnerUserID != ownerUserID {
		s.mu.Unlock()
		return ErrNotificationNotFound
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// Clear borra todas las notificaciones del owner.
func (s *Store) Clear(ownerUserID string) {
	s.mu.Lock()
	keep := s.order[:0]
	for _, id := range s.order {
		n, ok := s.byID[id]
		if ok && n.OwnerUserID == ownerUserID {
			delete(s.byID, id)
			continue
		}
		keep = append(keep, id)
	}
	s.order = keep
	s.mu.Unlock()

	s.notify()
}
