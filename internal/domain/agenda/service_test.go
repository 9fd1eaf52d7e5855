package agenda

import (
	"context"
	"errors"
	"testing"
	"time"

	mem "herd-health/internal/adapters/storage/memory"
	"herd-health/internal/domain/calendar"
	"herd-health/internal/domain/catalog"
	"herd-health/internal/domain/treatments"
)

func newTestService(t *testing.T, today time.Time) (*Service, *calendar.Service, treatments.Repository) {
	t.Helper()

	calRepo := mem.NewCalendarRepo()
	trtRepo := mem.NewTreatmentsRepo()

	calSvc := calendar.NewService(calRepo)
	svc := NewService(calSvc, trtRepo, catalog.Default())
	svc.now = func() time.Time { return today }
	return svc, calSvc, trtRepo
}

func seedRecord(t *testing.T, repo treatments.Repository, rec treatments.Record) {
	t.Helper()
	if err := repo.CreateBatch(context.Background(), []treatments.Record{rec}); err != nil {
		t.Fatalf("seed record: %v", err)
	}
}

func TestMarkApplied_CalendarRefCompletes(t *testing.T) {
	today := date(2024, time.June, 15)
	svc, calSvc, _ := newTestService(t, today)

	o, err := calSvc.Create(context.Background(), "owner-1", calendar.CreateInput{
		Title: "Desparasitar terneros",
		Date:  date(2024, time.June, 10),
	})
	if err != nil {
		t.Fatalf("create obligation: %v", err)
	}

	if err := svc.MarkApplied(context.Background(), "owner-1", CalendarRef{ObligationID: o.ID}, ApplyInput{}); err != nil {
		t.Fatalf("mark applied: %v", err)
	}

	got, err := calSvc.GetByID(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("get obligation: %v", err)
	}
	if !got.Completed {
		t.Fatal("expected obligation completed")
	}
}

func TestMarkApplied_CalendarFollowUpRequiresDate(t *testing.T) {
	today := date(2024, time.June, 15)
	svc, calSvc, _ := newTestService(t, today)

	o, err := calSvc.Create(context.Background(), "owner-1", calendar.CreateInput{
		Title: "Revisión veterinaria",
		Date:  date(2024, time.June, 10),
	})
	if err != nil {
		t.Fatalf("create obligation: %v", err)
	}

	err = svc.MarkApplied(context.Background(), "owner-1", CalendarRef{ObligationID: o.ID}, ApplyInput{
		ScheduleFollowUp: true,
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without follow-up date, got %v", err)
	}
}

func TestMarkApplied_TreatmentRefCreatesNewRecord(t *testing.T) {
	today := date(2024, time.July, 20)
	svc, _, trtRepo := newTestService(t, today)

	due := date(2024, time.July, 15)
	seedRecord(t, trtRepo, treatments.Record{
		ID:              "rec-1",
		OwnerUserID:     "owner-1",
		AnimalID:        "a1",
		TreatmentTypeID: "brucelose",
		AppliedAt:       date(2024, time.January, 15),
		NextDue:         &due,
		CreatedAt:       date(2024, time.January, 15),
	})

	if err := svc.MarkApplied(context.Background(), "owner-1", TreatmentRef{RecordID: "rec-1"}, ApplyInput{
		Lot: "L-7",
	}); err != nil {
		t.Fatalf("mark applied: %v", err)
	}

	recs, err := trtRepo.ListByAnimal(context.Background(), "a1")
	if err != nil {
		t.Fatalf("list records: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records (original + new), got %d", len(recs))
	}

	// El original queda intacto, el nuevo arranca el ciclo desde hoy.
	orig, err := trtRepo.GetByID(context.Background(), "rec-1")
	if err != nil {
		t.Fatalf("get original: %v", err)
	}
	if orig.NextDue == nil || !orig.NextDue.Equal(due) {
		t.Fatalf("original record mutated: %+v", orig)
	}

	var created treatments.Record
	for _, r := range recs {
		if r.ID != "rec-1" {
			created = r
		}
	}
	if !created.AppliedAt.Equal(today) {
		t.Fatalf("expected applied_at %s, got %s", today, created.AppliedAt)
	}
	if want := date(2025, time.January, 20); created.NextDue == nil || !created.NextDue.Equal(want) {
		t.Fatalf("expected next due %s, got %v", want, created.NextDue)
	}
	if created.Lot != "L-7" {
		t.Fatalf("expected lot L-7, got %q", created.Lot)
	}
}

func TestMarkApplied_TreatmentRefForeignOwner(t *testing.T) {
	today := date(2024, time.July, 20)
	svc, _, trtRepo := newTestService(t, today)

	due := date(2024, time.July, 15)
	seedRecord(t, trtRepo, treatments.Record{
		ID:              "rec-1",
		OwnerUserID:     "owner-2",
		AnimalID:        "a1",
		TreatmentTypeID: "brucelose",
		AppliedAt:       date(2024, time.January, 15),
		NextDue:         &due,
	})

	err := svc.MarkApplied(context.Background(), "owner-1", TreatmentRef{RecordID: "rec-1"}, ApplyInput{})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestMarkApplied_TreatmentRefSchedulesFollowUp(t *testing.T) {
	today := date(2024, time.July, 20)
	svc, calSvc, trtRepo := newTestService(t, today)

	due := date(2024, time.July, 15)
	seedRecord(t, trtRepo, treatments.Record{
		ID:              "rec-1",
		OwnerUserID:     "owner-1",
		AnimalID:        "a1",
		TreatmentTypeID: "febre_aftosa",
		AppliedAt:       date(2024, time.January, 15),
		NextDue:         &due,
	})

	if err := svc.MarkApplied(context.Background(), "owner-1", TreatmentRef{RecordID: "rec-1"}, ApplyInput{
		ScheduleFollowUp: true,
	}); err != nil {
		t.Fatalf("mark applied: %v", err)
	}

	obs, err := calSvc.ListByOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("list obligations: %v", err)
	}
	if len(obs) != 1 {
		t.Fatalf("expected 1 scheduled follow-up, got %d", len(obs))
	}
	o := obs[0]
	if o.Category != calendar.CategoryTreatment {
		t.Fatalf("expected treatment category, got %s", o.Category)
	}
	if want := date(2025, time.January, 20); !o.Date.Equal(want) {
		t.Fatalf("expected follow-up at %s, got %s", want, o.Date)
	}
	if o.Title != "Febre Aftosa" {
		t.Fatalf("expected catalog name as title, got %q", o.Title)
	}
}

func TestReopen_CalendarYesTreatmentNo(t *testing.T) {
	today := date(2024, time.June, 15)
	svc, calSvc, trtRepo := newTestService(t, today)

	o, err := calSvc.Create(context.Background(), "owner-1", calendar.CreateInput{
		Title: "Control de peso",
		Date:  date(2024, time.June, 10),
	})
	if err != nil {
		t.Fatalf("create obligation: %v", err)
	}
	if _, err := calSvc.Complete(context.Background(), o.ID, "owner-1"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if err := svc.Reopen(context.Background(), "owner-1", CalendarRef{ObligationID: o.ID}); err != nil {
		t.Fatalf("reopen calendar: %v", err)
	}
	got, _ := calSvc.GetByID(context.Background(), o.ID)
	if got.Completed {
		t.Fatal("expected obligation reopened")
	}

	due := date(2024, time.June, 10)
	seedRecord(t, trtRepo, treatments.Record{
		ID:              "rec-1",
		OwnerUserID:     "owner-1",
		AnimalID:        "a1",
		TreatmentTypeID: "febre_aftosa",
		AppliedAt:       date(2024, time.January, 10),
		NextDue:         &due,
	})
	err = svc.Reopen(context.Background(), "owner-1", TreatmentRef{RecordID: "rec-1"})
	if !errors.Is(err, ErrRecordImmutable) {
		t.Fatalf("expected ErrRecordImmutable, got %v", err)
	}
}

func TestTimeline_ResolvesCatalogTitles(t *testing.T) {
	today := date(2024, time.June, 15)
	svc, _, trtRepo := newTestService(t, today)

	due := date(2024, time.June, 10)
	seedRecord(t, trtRepo, treatments.Record{
		ID:              "rec-1",
		OwnerUserID:     "owner-1",
		AnimalID:        "a1",
		TreatmentTypeID: "brucelose",
		AppliedAt:       date(2023, time.December, 10),
		NextDue:         &due,
	})

	tl, err := svc.Timeline(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(tl.Overdue) != 1 {
		t.Fatalf("expected 1 overdue entry, got %d", len(tl.Overdue))
	}
	if tl.Overdue[0].Title != "Brucelose (B19)" {
		t.Fatalf("expected catalog name, got %q", tl.Overdue[0].Title)
	}
}
