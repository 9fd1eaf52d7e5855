package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"herd-health/internal/domain/calendar"
)

type calendarRepo struct {
	mu   sync.RWMutex
	byID map[string]calendar.Obligation
	seq  int64
	ord  map[string]int64
}

func NewCalendarRepo() calendar.Repository {
	return &calendarRepo{
		byID: make(map[string]calendar.Obligation),
		ord:  make(map[string]int64),
	}
}

func (r *calendarRepo) Create(ctx context.Context, o calendar.Obligation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return errors.New("obligation id required")
	}
	if _, exists := r.byID[o.ID]; exists {
		return errors.New("obligation already exists")
	}
	r.seq++
	r.byID[o.ID] = o
	r.ord[o.ID] = r.seq
	return nil
}

func (r *calendarRepo) Update(ctx context.Context, o calendar.Obligation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(o.ID) == "" {
		return errors.New("obligation id required")
	}
	if _, exists := r.byID[o.ID]; !exists {
		return ErrNotFound
	}
	r.byID[o.ID] = o
	return nil
}

func (r *calendarRepo) GetByID(ctx context.Context, id string) (calendar.Obligation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.byID[id]
	if !ok {
		return calendar.Obligation{}, ErrNotFound
	}
	return o, nil
}

func (r *calendarRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]calendar.Obligation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]calendar.Obligation, 0)
	for _, o := range r.byID {
		if o.OwnerUserID == ownerUserID {
			out = append(out, o)
		}
	}

	// orden de inserción: el agregador promete empates estables por llegada
	sort.Slice(out, func(i, j int) bool {
		return r.ord[out[i].ID] < r.ord[out[j].ID]
	})

	return out, nil
}

func (r *calendarRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	delete(r.ord, id)
	return nil
}
