package calendar

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID  map[string]Obligation
	order []string
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Obligation{}}
}

func (r *testRepo) Create(ctx context.Context, o Obligation) error {
	r.byID[o.ID] = o
	r.order = append(r.order, o.ID)
	return nil
}

func (r *testRepo) Update(ctx context.Context, o Obligation) error {
	if _, ok := r.byID[o.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[o.ID] = o
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Obligation, error) {
	o, ok := r.byID[id]
	if !ok {
		return Obligation{}, errRepoNotFound
	}
	return o, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Obligation, error) {
	out := make([]Obligation, 0)
	for _, id := range r.order {
		if o := r.byID[id]; o.OwnerUserID == ownerUserID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestCreate_TruncatesDateAndDefaultsCategory(t *testing.T) {
	svc := NewService(newTestRepo())

	loc := time.FixedZone("UTC-3", -3*60*60)
	o, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Title: "Vacunar terneros",
		Date:  time.Date(2024, time.June, 15, 22, 40, 0, 0, loc),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	want := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	if !o.Date.Equal(want) {
		t.Fatalf("expected date-only %s, got %s", want, o.Date)
	}
	if o.Category != CategoryTask {
		t.Fatalf("expected default category task, got %s", o.Category)
	}
	if o.Completed {
		t.Fatal("new obligation must start pending")
	}
}

func TestCreate_RejectsUnknownCategory(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Title:    "Algo",
		Date:     time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
		Category: "vacaciones",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCompleteReopen_Idempotent(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	changes := 0
	svc.OnChange(func(string) { changes++ })

	o, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Title: "Pesar lote",
		Date:  time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	changes = 0

	got, err := svc.Complete(context.Background(), o.ID, "owner-1")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !got.Completed {
		t.Fatal("expected completed")
	}
	if changes != 1 {
		t.Fatalf("expected 1 change notification, got %d", changes)
	}

	// Segundo complete: no-op, sin hook.
	if _, err := svc.Complete(context.Background(), o.ID, "owner-1"); err != nil {
		t.Fatalf("second complete: %v", err)
	}
	if changes != 1 {
		t.Fatalf("idempotent complete must not re-notify, got %d", changes)
	}

	got, err = svc.Reopen(context.Background(), o.ID, "owner-1")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if got.Completed {
		t.Fatal("expected pending after reopen")
	}
	if changes != 2 {
		t.Fatalf("expected 2 change notifications, got %d", changes)
	}

	if _, err := svc.Reopen(context.Background(), o.ID, "owner-1"); err != nil {
		t.Fatalf("second reopen: %v", err)
	}
	if changes != 2 {
		t.Fatalf("idempotent reopen must not re-notify, got %d", changes)
	}
}

func TestSetCompleted_ForeignOwnerForbidden(t *testing.T) {
	svc := NewService(newTestRepo())

	o, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Title: "Pesar lote",
		Date:  time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Complete(context.Background(), o.ID, "owner-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	o, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Title: "Pesar lote",
		Date:  time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), o.ID, "owner-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(context.Background(), o.ID, "owner-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(context.Background(), o.ID); err == nil {
		t.Fatal("expected not found after delete")
	}
}
