package treatments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"herd-health/internal/domain/animals"
	"herd-health/internal/domain/catalog"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	// ErrBatchEmpty: el lote no existe o no tiene animales. Es una falla
	// visible para el caller, no un no-op silencioso.
	ErrBatchEmpty = errors.New("batch not found or empty")
)

// AnimalDirectory resuelve targets contra el módulo de animales.
// *animals.Service lo satisface; en tests se inyecta un directorio de mentira.
type AnimalDirectory interface {
	GetByID(ctx context.Context, id string) (animals.Animal, error)
	ListByBatch(ctx context.Context, ownerUserID, label string) ([]animals.Animal, error)
}

type Service struct {
	repo    Repository
	dir     AnimalDirectory
	catalog *catalog.Catalog
	now     func() time.Time

	// changed se dispara después de cada escritura exitosa para que el motor
	// de alertas re-evalúe. Opcional (nil = nadie escucha).
	changed func(ownerUserID string)
}

func NewService(repo Repository, dir AnimalDirectory, cat *catalog.Catalog) *Service {
	return &Service{
		repo:    repo,
		dir:     dir,
		catalog: cat,
		now:     time.Now,
	}
}

// OnChange registra el hook de cambio de datos (motor de alertas).
func (s *Service) OnChange(fn func(ownerUserID string)) {
	s.changed = fn
}

func (s *Service) notifyChanged(ownerUserID string) {
	if s.changed != nil {
		s.changed(ownerUserID)
	}
}

type RegisterInput struct {
	TreatmentTypeID string
	AppliedAt       time.Time

	// NextDueOverride reemplaza verbatim la fecha calculada por intervalo.
	NextDueOverride *time.Time

	Lot          string
	Manufacturer string
	Responsible  string
	Notes        string
}

// Register registra la aplicación de un tratamiento para el target dado.
//
// Orden garantizado dentro de la operación: el target se resuelve y valida
// ANTES de cualquier escritura (sin escrituras especulativas). El fan-out de
// lote va en un único CreateBatch; si falla, no queda ningún registro.
func (s *Service) Register(ctx context.Context, ownerUserID string, target Target, in RegisterInput) ([]Record, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	if target == nil {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(in.TreatmentTypeID) == "" {
		return nil, ErrInvalidInput
	}
	if in.AppliedAt.IsZero() {
		return nil, ErrInvalidInput
	}

	tt, err := s.catalog.Get(in.TreatmentTypeID)
	if err != nil {
		return nil, err
	}

	targets, err := s.resolve(ctx, ownerUserID, target)
	if err != nil {
		return nil, err
	}

	appliedAt := DateOnly(in.AppliedAt)

	var nextDue *time.Time
	if in.NextDueOverride != nil {
		d := DateOnly(*in.NextDueOverride)
		nextDue = &d
	} else {
		nextDue = NextDue(appliedAt, tt.IntervalMonths)
	}

	now := s.now()
	recs := make([]Record, 0, len(targets))
	for _, a := range targets {
		recs = append(recs, Record{
			ID:              uuid.NewString(),
			OwnerUserID:     ownerUserID,
			AnimalID:        a.ID,
			TreatmentTypeID: tt.ID,
			AppliedAt:       appliedAt,
			NextDue:         nextDue,
			Lot:             strings.TrimSpace(in.Lot),
			Manufacturer:    strings.TrimSpace(in.Manufacturer),
			Responsible:     strings.TrimSpace(in.Responsible),
			Notes:           strings.TrimSpace(in.Notes),
			CreatedAt:       now,
		})
	}

	if err := s.repo.CreateBatch(ctx, recs); err != nil {
		return nil, err
	}

	s.notifyChanged(ownerUserID)
	return recs, nil
}

// Preview calcula la fecha de refuerzo sin comprometer nada.
func (s *Service) Preview(appliedAt time.Time, treatmentTypeID string) (*time.Time, error) {
	tt, err := s.catalog.Get(treatmentTypeID)
	if err != nil {
		return nil, err
	}
	return NextDue(DateOnly(appliedAt), tt.IntervalMonths), nil
}

// resolve expande el target en la lista concreta de animales del owner.
// Switch exhaustivo sobre la variante cerrada.
func (s *Service) resolve(ctx context.Context, ownerUserID string, target Target) ([]animals.Animal, error) {
	switch t := target.(type) {
	case Individual:
		if strings.TrimSpace(t.AnimalID) == "" {
			return nil, ErrInvalidInput
		}
		a, err := s.dir.GetByID(ctx, t.AnimalID)
		if err != nil {
			return nil, err
		}
		if a.OwnerUserID != ownerUserID {
			return nil, ErrForbidden
		}
		return []animals.Animal{a}, nil

	case Batch:
		matches, err := s.dir.ListByBatch(ctx, ownerUserID, t.Label)
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrBatchEmpty, t.Label)
		}
		return matches, nil

	default:
		return nil, fmt.Errorf("%w: unknown target %T", ErrInvalidInput, target)
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByAnimal(ctx context.Context, animalID string) ([]Record, error) {
	animalID = strings.TrimSpace(animalID)
	if animalID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByAnimal(ctx, animalID)
}

func (s *Service) ListByOwner(ctx context.Context, ownerUserID string) ([]Record, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByOwner(ctx, ownerUserID)
}
