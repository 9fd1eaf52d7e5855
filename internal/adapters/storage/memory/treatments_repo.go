package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"herd-health/internal/domain/treatments"
)

type treatmentsRepo struct {
	mu   sync.RWMutex
	byID map[string]treatments.Record
}

func NewTreatmentsRepo() treatments.Repository {
	return &treatmentsRepo{
		byID: make(map[string]treatments.Record),
	}
}

// CreateBatch valida todo el grupo antes de tocar el mapa: si algo está mal
// no queda ningún registro (todo-o-nada, como el bulk insert de SQL).
func (r *treatmentsRepo) CreateBatch(ctx context.Context, recs []treatments.Record) error {
	if len(recs) == 0 {
		return errors.New("empty record batch")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range recs {
		if strings.TrimSpace(rec.ID) == "" {
			return errors.New("record id required")
		}
		if _, exists := r.byID[rec.ID]; exists {
			return errors.New("record already exists")
		}
	}

	for _, rec := range recs {
		r.byID[rec.ID] = rec
	}
	return nil
}

func (r *treatmentsRepo) GetByID(ctx context.Context, id string) (treatments.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return treatments.Record{}, ErrNotFound
	}
	return rec, nil
}

func (r *treatmentsRepo) ListByAnimal(ctx context.Context, animalID string) ([]treatments.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]treatments.Record, 0)
	for _, rec := range r.byID {
		if rec.AnimalID == animalID {
			out = append(out, rec)
		}
	}

	// más reciente primero
	sort.Slice(out, func(i, j int) bool {
		return out[i].AppliedAt.After(out[j].AppliedAt)
	})

	return out, nil
}

func (r *treatmentsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]treatments.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]treatments.Record, 0)
	for _, rec := range r.byID {
		if rec.OwnerUserID == ownerUserID {
			out = append(out, rec)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}
