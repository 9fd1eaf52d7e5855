package calendar

import "context"

type Repository interface {
	Create(ctx context.Context, o Obligation) error
	Update(ctx context.Context, o Obligation) error
	GetByID(ctx context.Context, id string) (Obligation, error)
	ListByOwner(ctx context.Context, ownerUserID string) ([]Obligation, error)
	Delete(ctx context.Context, id string) error
}
