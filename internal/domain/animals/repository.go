package animals

import "context"

type Repository interface {
	Create(ctx context.Context, a Animal) error
	Update(ctx context.Context, a Animal) error
	GetByID(ctx context.Context, id string) (Animal, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Animal, error)

	// ListByBatch devuelve los animales del owner cuyo Batch coincide
	// exactamente (case-sensitive) con label. Vacío si no hay matches.
	ListByBatch(ctx context.Context, ownerUserID, label string) ([]Animal, error)
}
