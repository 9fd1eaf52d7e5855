package calendar

import (
	"context"
	"errors"
	"strings"
	"time"

	"herd-health/internal/domain/treatments"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)

type Service struct {
	repo Repository
	now  func() time.Time

	// changed se dispara después de cada escritura exitosa (motor de alertas).
	changed func(ownerUserID string)
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *Service) OnChange(fn func(ownerUserID string)) {
	s.changed = fn
}

func (s *Service) notifyChanged(ownerUserID string) {
	if s.changed != nil {
		s.changed(ownerUserID)
	}
}

type CreateInput struct {
	Title       string
	Description string
	Date        time.Time
	Category    Category
	Icon        string
}

// Create registra una obligación. La usa tanto el usuario (entrada ad hoc)
// como el agendamiento de tratamientos futuros (category = treatment).
func (s *Service) Create(ctx context.Context, ownerUserID string, in CreateInput) (Obligation, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Obligation{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" {
		return Obligation{}, ErrInvalidInput
	}
	if in.Date.IsZero() {
		return Obligation{}, ErrInvalidInput
	}

	cat := in.Category
	if cat == "" {
		cat = CategoryTask
	}
	if !IsKnownCategory(cat) {
		return Obligation{}, ErrInvalidInput
	}

	now := s.now()
	o := Obligation{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Date:        treatments.DateOnly(in.Date),
		Category:    cat,
		Icon:        strings.TrimSpace(in.Icon),
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return Obligation{}, err
	}

	s.notifyChanged(ownerUserID)
	return o, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Obligation, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Obligation{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Obligation, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}

// Complete marca la obligación como cumplida. Idempotente.
func (s *Service) Complete(ctx context.Context, id, ownerUserID string) (Obligation, error) {
	return s.setCompleted(ctx, id, ownerUserID, true)
}

// Reopen limpia el flag de cumplida ("unmark"). Idempotente.
// Solo aplica a obligaciones de calendario; los registros de tratamiento
// son inmutables una vez creados (se corrigen creando un registro nuevo).
func (s *Service) Reopen(ctx context.Context, id, ownerUserID string) (Obligation, error) {
	return s.setCompleted(ctx, id, ownerUserID, false)
}

func (s *Service) setCompleted(ctx context.Context, id, ownerUserID string, done bool) (Obligation, error) {
	id = strings.TrimSpace(id)
	ownerUserID = strings.TrimSpace(ownerUserID)
	if id == "" || ownerUserID == "" {
		return Obligation{}, ErrInvalidInput
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Obligation{}, err
	}
	if o.OwnerUserID != ownerUserID {
		return Obligation{}, ErrForbidden
	}

	if o.Completed == done {
		return o, nil
	}

	o.Completed = done
	o.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, o); err != nil {
		return Obligation{}, err
	}

	s.notifyChanged(ownerUserID)
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id, ownerUserID string) error {
	id = strings.TrimSpace(id)
	ownerUserID = strings.TrimSpace(ownerUserID)
	if id == "" || ownerUserID == "" {
		return ErrInvalidInput
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if o.OwnerUserID != ownerUserID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.notifyChanged(ownerUserID)
	return nil
}
