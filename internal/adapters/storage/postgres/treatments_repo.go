package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"herd-health/internal/domain/treatments"
)

type TreatmentsRepo struct {
	db *sql.DB
}

func NewTreatmentsRepo(db *sql.DB) *TreatmentsRepo {
	return &TreatmentsRepo{db: db}
}

// CreateBatch inserta el grupo entero dentro de una transacción:
// si una fila falla, rollback y no queda nada (todo-o-nada).
func (r *TreatmentsRepo) CreateBatch(ctx context.Context, recs []treatments.Record) error {
	if len(recs) == 0 {
		return errors.New("empty record batch")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, rec := range recs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO treatment_records (
				id, owner_user_id,
				animal_id, treatment_type_id,
				applied_at, next_due,
				lot, manufacturer, responsible, notes,
				created_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		`,
			rec.ID,
			rec.OwnerUserID,
			rec.AnimalID,
			rec.TreatmentTypeID,
			rec.AppliedAt,
			toNullDate(rec.NextDue),
			rec.Lot,
			rec.Manufacturer,
			rec.Responsible,
			rec.Notes,
			rec.CreatedAt,
		)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *TreatmentsRepo) GetByID(ctx context.Context, id string) (treatments.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return treatments.Record{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			animal_id, treatment_type_id,
			applied_at, next_due,
			lot, manufacturer, responsible, notes,
			created_at
		FROM treatment_records
		WHERE id = $1
	`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return treatments.Record{}, ErrNotFound
		}
		return treatments.Record{}, err
	}
	return rec, nil
}

func (r *TreatmentsRepo) ListByAnimal(ctx context.Context, animalID string) ([]treatments.Record, error) {
	return r.list(ctx, `
		SELECT
			id, owner_user_id,
			animal_id, treatment_type_id,
			applied_at, next_due,
			lot, manufacturer, responsible, notes,
			created_at
		FROM treatment_records
		WHERE animal_id = $1
		ORDER BY applied_at DESC
	`, animalID)
}

func (r *TreatmentsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]treatments.Record, error) {
	return r.list(ctx, `
		SELECT
			id, owner_user_id,
			animal_id, treatment_type_id,
			applied_at, next_due,
			lot, manufacturer, responsible, notes,
			created_at
		FROM treatment_records
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
	`, ownerUserID)
}

func (r *TreatmentsRepo) list(ctx context.Context, query string, args ...any) ([]treatments.Record, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]treatments.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanRecord(row rowScanner) (treatments.Record, error) {
	var rec treatments.Record
	var nd sql.NullTime
	if err := row.Scan(
		&rec.ID,
		&rec.OwnerUserID,
		&rec.AnimalID,
		&rec.TreatmentTypeID,
		&rec.AppliedAt,
		&nd,
		&rec.Lot,
		&rec.Manufacturer,
		&rec.Responsible,
		&rec.Notes,
		&rec.CreatedAt,
	); err != nil {
		return treatments.Record{}, err
	}
	if nd.Valid {
		t := nd.Time
		rec.NextDue = &t
	}
	return rec, nil
}
