package treatments

import "context"

type Repository interface {
	// CreateBatch inserta todos los registros en una sola operación agrupada.
	// Todo-o-nada según lo reporte el adapter: si falla, no queda ningún
	// registro del grupo (el core no hace reconciliación parcial).
	CreateBatch(ctx context.Context, recs []Record) error

	GetByID(ctx context.Context, id string) (Record, error)
	ListByAnimal(ctx context.Context, animalID string) ([]Record, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Record, error)
}
