package animals

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("animal not found")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Tag       string
	Name      string
	BirthDate *time.Time
	Phase     string
	Batch     string
	Notes     string
}

func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Animal, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Animal{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Tag) == "" {
		return Animal{}, ErrInvalidInput
	}

	phase := Phase(strings.TrimSpace(in.Phase))
	if phase != "" && !IsKnownPhase(phase) {
		return Animal{}, ErrInvalidInput
	}

	now := s.now()
	a := Animal{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Tag:         strings.TrimSpace(in.Tag),
		Name:        strings.TrimSpace(in.Name),
		BirthDate:   in.BirthDate,
		Phase:       phase,
		Batch:       strings.TrimSpace(in.Batch),
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Animal{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Animal, error) {
	return s.repo.ListByOwner(ctx, ownerUserID)
}

func (s *Service) ListByBatch(ctx context.Context, ownerUserID, label string) ([]Animal, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	// OJO: label NO se trimea ni normaliza; el match de lote es exacto.
	return s.repo.ListByBatch(ctx, ownerUserID, label)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Tag   *string
	Name  *string
	Phase *string
	Batch *string
	Notes *string
}

func (s *Service) Update(ctx context.Context, id, ownerUserID string, in UpdateInput) (Animal, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Animal{}, err
	}
	if a.OwnerUserID != ownerUserID {
		return Animal{}, ErrForbidden
	}

	if in.Tag != nil {
		t := strings.TrimSpace(*in.Tag)
		if t == "" {
			return Animal{}, ErrInvalidInput
		}
		a.Tag = t
	}
	if in.Name != nil {
		a.Name = strings.TrimSpace(*in.Name)
	}
	if in.Phase != nil {
		phase := Phase(strings.TrimSpace(*in.Phase))
		if phase != "" && !IsKnownPhase(phase) {
			return Animal{}, ErrInvalidInput
		}
		a.Phase = phase
	}
	if in.Batch != nil {
		a.Batch = strings.TrimSpace(*in.Batch)
	}
	if in.Notes != nil {
		a.Notes = strings.TrimSpace(*in.Notes)
	}

	a.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, a); err != nil {
		return Animal{}, err
	}
	return a, nil
}

// AgeInMonths devuelve la edad del animal en meses a la fecha dada,
// o -1 si no tiene fecha de nacimiento cargada.
func (a Animal) AgeInMonths(at time.Time) int {
	if a.BirthDate == nil {
		return -1
	}
	b := *a.BirthDate
	months := (at.Year()-b.Year())*12 + int(at.Month()) - int(b.Month())
	if at.Day() < b.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
