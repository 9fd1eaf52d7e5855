package agenda

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"herd-health/internal/domain/calendar"
	"herd-health/internal/domain/catalog"
	"herd-health/internal/domain/treatments"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	// ErrRecordImmutable: un registro de tratamiento aplicado no se "desmarca".
	// La administración real no se deshace; se corrige con un registro nuevo.
	ErrRecordImmutable = errors.New("treatment record cannot be reopened")
)

// Service arma la agenda unificada y opera la máquina aplicar/reabrir.
// No tiene repo propio: lee de calendar y treatments en cada consulta.
type Service struct {
	calSvc  *calendar.Service
	trtRepo treatments.Repository
	catalog *catalog.Catalog
	now     func() time.Time

	changed func(ownerUserID string)
}

func NewService(calSvc *calendar.Service, trtRepo treatments.Repository, cat *catalog.Catalog) *Service {
	return &Service{
		calSvc:  calSvc,
		trtRepo: trtRepo,
		catalog: cat,
		now:     time.Now,
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

// Timeline lee las dos fuentes y devuelve la agenda clasificada del owner.
// Siempre recalcula; el único "cache" permitido es el de la capa de vista.
func (s *Service) Timeline(ctx context.Context, ownerUserID string) (Timeline, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Timeline{}, ErrInvalidInput
	}

	obs, err := s.calSvc.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return Timeline{}, err
	}
	recs, err := s.trtRepo.ListByOwner(ctx, ownerUserID)
	if err != nil {
		return Timeline{}, err
	}

	tl := BuildTimeline(s.now(), obs, recs)
	s.resolveTitles(tl.Upcoming)
	s.resolveTitles(tl.Overdue)
	s.resolveTitles(tl.Past)
	return tl, nil
}

// resolveTitles reemplaza el id de tipo por su nombre de catálogo en las
// entradas proyectadas desde tratamientos.
func (s *Service) resolveTitles(entries []Entry) {
	for i := range entries {
		if entries[i].Source != SourceTreatment {
			continue
		}
		if tt, err := s.catalog.Get(entries[i].Title); err == nil {
			entries[i].Title = tt.Name
		}
	}
}

type ApplyInput struct {
	// AppliedAt default: hoy.
	AppliedAt time.Time

	Lot          string
	Manufacturer string
	Responsible  string
	Notes        string

	// ScheduleFollowUp agenda además una obligación de calendario para el
	// próximo refuerzo. Opt-in explícito, nunca automático.
	ScheduleFollowUp bool
	// FollowUpDate reemplaza la fecha calculada del refuerzo agendado.
	FollowUpDate *time.Time
}

// MarkApplied marca una obligación como aplicada.
//
//   - CalendarRef: setea completed (la obligación queda como evidencia).
//   - TreatmentRef: crea un registro NUEVO del mismo animal/tipo con su propio
//     next-due derivado; el ciclo pendiente arranca de nuevo. El registro
//     original no se toca.
func (s *Service) MarkApplied(ctx context.Context, ownerUserID string, ref ObligationRef, in ApplyInput) error {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" || ref == nil {
		return ErrInvalidInput
	}

	appliedAt := in.AppliedAt
	if appliedAt.IsZero() {
		appliedAt = s.now()
	}
	appliedAt = treatments.DateOnly(appliedAt)

	switch r := ref.(type) {
	case CalendarRef:
		o, err := s.calSvc.Complete(ctx, r.ObligationID, ownerUserID)
		if err != nil {
			return err
		}
		if in.ScheduleFollowUp {
			if in.FollowUpDate == nil {
				return fmt.Errorf("%w: follow-up date required for calendar obligation", ErrInvalidInput)
			}
			return s.scheduleFollowUp(ctx, ownerUserID, o.Title, *in.FollowUpDate)
		}
		return nil

	case TreatmentRef:
		prev, err := s.trtRepo.GetByID(ctx, r.RecordID)
		if err != nil {
			return err
		}
		if prev.OwnerUserID != ownerUserID {
			return ErrForbidden
		}

		tt, err := s.catalog.Get(prev.TreatmentTypeID)
		if err != nil {
			return err
		}

		next := treatments.NextDue(appliedAt, tt.IntervalMonths)

		rec := treatments.Record{
			ID:              uuid.NewString(),
			OwnerUserID:     ownerUserID,
			AnimalID:        prev.AnimalID,
			TreatmentTypeID: prev.TreatmentTypeID,
			AppliedAt:       appliedAt,
			NextDue:         next,
			Lot:             strings.TrimSpace(in.Lot),
			Manufacturer:    strings.TrimSpace(in.Manufacturer),
			Responsible:     strings.TrimSpace(in.Responsible),
			Notes:           strings.TrimSpace(in.Notes),
			CreatedAt:       s.now(),
		}
		if err := s.trtRepo.CreateBatch(ctx, []treatments.Record{rec}); err != nil {
			return err
		}

		if in.ScheduleFollowUp {
			due := next
			if in.FollowUpDate != nil {
				due = in.FollowUpDate
			}
			if due != nil {
				if err := s.scheduleFollowUp(ctx, ownerUserID, tt.Name, *due); err != nil {
					return err
				}
			}
		}

		s.notifyChanged(ownerUserID)
		return nil

	default:
		return fmt.Errorf("%w: unknown obligation ref %T", ErrInvalidInput, ref)
	}
}

// Reopen revierte una obligación a pendiente.
// Asimetría deliberada: calendario se desmarca, tratamiento no.
func (s *Service) Reopen(ctx context.Context, ownerUserID string, ref ObligationRef) error {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" || ref == nil {
		return ErrInvalidInput
	}

	switch r := ref.(type) {
	case CalendarRef:
		_, err := s.calSvc.Reopen(ctx, r.ObligationID, ownerUserID)
		return err
	case TreatmentRef:
		return ErrRecordImmutable
	default:
		return fmt.Errorf("%w: unknown obligation ref %T", ErrInvalidInput, ref)
	}
}

func (s *Service) scheduleFollowUp(ctx context.Context, ownerUserID, title string, due time.Time) error {
	_, err := s.calSvc.Create(ctx, ownerUserID, calendar.CreateInput{
		Title:    title,
		Date:     due,
		Category: calendar.CategoryTreatment,
		Icon:     "syringe",
	})
	return err
}
