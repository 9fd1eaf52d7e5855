package animals

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID  map[string]Animal
	order []string
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Animal{}}
}

func (r *testRepo) Create(ctx context.Context, a Animal) error {
	if a.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[a.ID] = a
	r.order = append(r.order, a.ID)
	return nil
}

func (r *testRepo) Update(ctx context.Context, a Animal) error {
	if _, ok := r.byID[a.ID]; !ok {
		return ErrNotFound
	}
	r.byID[a.ID] = a
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Animal, error) {
	a, ok := r.byID[id]
	if !ok {
		return Animal{}, ErrNotFound
	}
	return a, nil
}

func (r *testRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, id := range r.order {
		if a := r.byID[id]; a.OwnerUserID == ownerUserID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *testRepo) ListByBatch(ctx context.Context, ownerUserID, label string) ([]Animal, error) {
	out := make([]Animal, 0)
	for _, id := range r.order {
		if a := r.byID[id]; a.OwnerUserID == ownerUserID && a.Batch == label {
			out = append(out, a)
		}
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

// -------------------------
// Tests
// -------------------------

func TestCreate_RequiresTag(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{Name: "Mimosa"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreate_RejectsUnknownPhase(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), "owner-1", CreateInput{Tag: "BR-1", Phase: "ternero"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown phase, got %v", err)
	}

	a, err := svc.Create(context.Background(), "owner-1", CreateInput{Tag: "BR-1", Phase: "calf"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Phase != PhaseCalf {
		t.Fatalf("expected calf, got %s", a.Phase)
	}
}

func TestCreate_DuplicateTagsAllowed(t *testing.T) {
	// Tag es significativo pero no único: dos animales pueden compartirlo.
	svc := NewService(newTestRepo())

	a1, err := svc.Create(context.Background(), "owner-1", CreateInput{Tag: "BR-1"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	a2, err := svc.Create(context.Background(), "owner-1", CreateInput{Tag: "BR-1"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}
	if a1.ID == a2.ID {
		t.Fatal("expected distinct ids")
	}
}

func TestListByBatch_ExactLabelMatch(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	if _, err := svc.Create(context.Background(), "owner-1", CreateInput{Tag: "BR-1", Batch: "Lote A"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.ListByBatch(context.Background(), "owner-1", "Lote A")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 match, got %d", len(got))
	}

	// El label no se normaliza: case y espacios cuentan.
	for _, label := range []string{"lote a", "Lote A ", " Lote A"} {
		got, err := svc.ListByBatch(context.Background(), "owner-1", label)
		if err != nil {
			t.Fatalf("list %q: %v", label, err)
		}
		if len(got) != 0 {
			t.Fatalf("label %q must not match, got %d", label, len(got))
		}
	}
}

func TestUpdate_PatchSemantics(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	a, err := svc.Create(context.Background(), "owner-1", CreateInput{
		Tag: "BR-1", Name: "Mimosa", Batch: "Lote A", Notes: "sana",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Solo Batch: el resto queda igual.
	got, err := svc.Update(context.Background(), a.ID, "owner-1", UpdateInput{Batch: strPtr("Lote B")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Batch != "Lote B" {
		t.Fatalf("expected batch updated, got %q", got.Batch)
	}
	if got.Tag != "BR-1" || got.Name != "Mimosa" || got.Notes != "sana" {
		t.Fatalf("untouched fields mutated: %+v", got)
	}

	// Puntero a vacío limpia el campo (distinto de nil).
	got, err = svc.Update(context.Background(), a.ID, "owner-1", UpdateInput{Batch: strPtr("")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Batch != "" {
		t.Fatalf("expected batch cleared, got %q", got.Batch)
	}

	// Tag nunca puede quedar vacío.
	if _, err := svc.Update(context.Background(), a.ID, "owner-1", UpdateInput{Tag: strPtr("  ")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput clearing tag, got %v", err)
	}
}

func TestUpdate_ForeignOwnerForbidden(t *testing.T) {
	svc := NewService(newTestRepo())

	a, err := svc.Create(context.Background(), "owner-1", CreateInput{Tag: "BR-1"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Update(context.Background(), a.ID, "owner-2", UpdateInput{Name: strPtr("Ajena")})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAgeInMonths(t *testing.T) {
	born := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	a := Animal{BirthDate: &born}

	cases := []struct {
		at   time.Time
		want int
	}{
		{time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC), 6},
		{time.Date(2024, time.July, 14, 0, 0, 0, 0, time.UTC), 5}, // un día antes del cumple-mes
		{time.Date(2024, time.January, 20, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), 12},
	}
	for _, tc := range cases {
		if got := a.AgeInMonths(tc.at); got != tc.want {
			t.Fatalf("at %s: expected %d, got %d", tc.at, tc.want, got)
		}
	}

	if got := (Animal{}).AgeInMonths(time.Now()); got != -1 {
		t.Fatalf("no birth date: expected -1, got %d", got)
	}
}
