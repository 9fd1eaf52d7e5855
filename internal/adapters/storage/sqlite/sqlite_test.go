package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"herd-health/internal/domain/animals"
	"herd-health/internal/domain/calendar"
	"herd-health/internal/domain/treatments"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAnimals_RoundTripAndReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "herd.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	ctx := context.Background()
	repo := NewAnimalsRepo(db)

	born := date(2024, time.January, 15)
	a := animals.Animal{
		ID:          "a1",
		OwnerUserID: "owner-1",
		Tag:         "BR-001",
		Name:        "Mimosa",
		BirthDate:   &born,
		Phase:       animals.PhaseHeifer,
		Batch:       "Lote A",
		Notes:       "sana",
		CreatedAt:   date(2024, time.June, 1),
		UpdatedAt:   date(2024, time.June, 1),
	}
	if err := repo.Create(ctx, a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reabrir el archivo: el migrate es idempotente y los datos persisten.
	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen sqlite: %v", err)
	}
	defer db2.Close()
	repo2 := NewAnimalsRepo(db2)

	got, err := repo2.GetByID(ctx, "a1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Tag != "BR-001" || got.Name != "Mimosa" || got.Batch != "Lote A" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.BirthDate == nil || !got.BirthDate.Equal(born) {
		t.Fatalf("birth date mismatch: %v", got.BirthDate)
	}
	if got.Phase != animals.PhaseHeifer {
		t.Fatalf("phase mismatch: %s", got.Phase)
	}

	if _, err := repo2.GetByID(ctx, "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnimals_ListByBatchExactMatch(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "herd.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := NewAnimalsRepo(db)

	now := date(2024, time.June, 1)
	for i, batch := range []string{"Lote A", "Lote A", "lote a", ""} {
		if err := repo.Create(ctx, animals.Animal{
			ID:          string(rune('a' + i)),
			OwnerUserID: "owner-1",
			Tag:         "T",
			Batch:       batch,
			CreatedAt:   now,
			UpdatedAt:   now,
		}); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	got, err := repo.ListByBatch(ctx, "owner-1", "Lote A")
	if err != nil {
		t.Fatalf("list by batch: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 exact matches, got %d", len(got))
	}
}

func TestTreatments_CreateBatchAllOrNothing(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "herd.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := NewTreatmentsRepo(db)

	due := date(2024, time.July, 15)
	base := treatments.Record{
		OwnerUserID:     "owner-1",
		TreatmentTypeID: "brucelose",
		AppliedAt:       date(2024, time.January, 15),
		NextDue:         &due,
		CreatedAt:       date(2024, time.January, 15),
	}

	r1 := base
	r1.ID, r1.AnimalID = "rec-1", "a1"
	r2 := base
	r2.ID, r2.AnimalID = "rec-1", "a2" // id duplicado: el segundo insert falla

	if err := repo.CreateBatch(ctx, []treatments.Record{r1, r2}); err == nil {
		t.Fatal("expected constraint failure on duplicate id")
	}

	// La transacción se revirtió entera: tampoco quedó el primero.
	recs, err := repo.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no records after rollback, got %d", len(recs))
	}

	// El mismo grupo con ids válidos entra completo.
	r2.ID = "rec-2"
	if err := repo.CreateBatch(ctx, []treatments.Record{r1, r2}); err != nil {
		t.Fatalf("create batch: %v", err)
	}
	recs, err = repo.ListByOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	for _, rec := range recs {
		if rec.NextDue == nil || !rec.NextDue.Equal(due) {
			t.Fatalf("next due mismatch: %+v", rec)
		}
	}
}

func TestCalendar_CompletedFlagRoundTrip(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "herd.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	repo := NewCalendarRepo(db)

	o := calendar.Obligation{
		ID:          "ob-1",
		OwnerUserID: "owner-1",
		Title:       "Vacunar lote",
		Date:        date(2024, time.June, 15),
		Category:    calendar.CategoryTreatment,
		Icon:        "syringe",
		CreatedAt:   date(2024, time.June, 1),
		UpdatedAt:   date(2024, time.June, 1),
	}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("create: %v", err)
	}

	o.Completed = true
	o.UpdatedAt = date(2024, time.June, 16)
	if err := repo.Update(ctx, o); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := repo.GetByID(ctx, "ob-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Completed {
		t.Fatal("expected completed persisted")
	}
	if got.Category != calendar.CategoryTreatment {
		t.Fatalf("category mismatch: %s", got.Category)
	}

	if err := repo.Delete(ctx, "ob-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete(ctx, "ob-1"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}
