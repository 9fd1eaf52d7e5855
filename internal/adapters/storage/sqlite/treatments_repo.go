package sqlite

import (
	"context"
	"database/sql"

	"herd-health/internal/domain/treatments"
)

type TreatmentsRepo struct {
	db *sql.DB
}

func NewTreatmentsRepo(db *sql.DB) *TreatmentsRepo {
	return &TreatmentsRepo{db: db}
}

// CreateBatch inserta todos los registros dentro de una transacción:
// si cualquier insert falla no queda ninguno del grupo.
func (r *TreatmentsRepo) CreateBatch(ctx context.Context, recs []treatments.Record) error {
	if len(recs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, rec := range recs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO treatment_records (
				id, owner_user_id, animal_id, treatment_type_id,
				applied_at, next_due,
				lot, manufacturer, responsible, notes,
				created_at
			) VALUES (?,?,?,?,?,?,?,?,?,?,?)
		`,
			rec.ID,
			rec.OwnerUserID,
			rec.AnimalID,
			rec.TreatmentTypeID,
			fmtTime(rec.AppliedAt),
			fmtTimePtr(rec.NextDue),
			rec.Lot,
			rec.Manufacturer,
			rec.Responsible,
			rec.Notes,
			fmtTime(rec.CreatedAt),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *TreatmentsRepo) GetByID(ctx context.Context, id string) (treatments.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, animal_id, treatment_type_id,
		       applied_at, next_due, lot, manufacturer, responsible, notes, created_at
		FROM treatment_records
		WHERE id = ?
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
		SELECT id, owner_user_id, animal_id, treatment_type_id,
		       applied_at, next_due, lot, manufacturer, responsible, notes, created_at
		FROM treatment_records
		WHERE animal_id = ?
		ORDER BY applied_at DESC
	`, animalID)
}

func (r *TreatmentsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]treatments.Record, error) {
	return r.list(ctx, `
		SELECT id, owner_user_id, animal_id, treatment_type_id,
		       applied_at, next_due, lot, manufacturer, responsible, notes, created_at
		FROM treatment_records
		WHERE owner_user_id = ?
		ORDER BY applied_at DESC
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
	var appliedAt, createdAt string
	var nextDue sql.NullString
	if err := row.Scan(
		&rec.ID,
		&rec.OwnerUserID,
		&rec.AnimalID,
		&rec.TreatmentTypeID,
		&appliedAt,
		&nextDue,
		&rec.Lot,
		&rec.Manufacturer,
		&rec.Responsible,
		&rec.Notes,
		&createdAt,
	); err != nil {
		return treatments.Record{}, err
	}

	var err error
	if rec.AppliedAt, err = parseTime(appliedAt); err != nil {
		return treatments.Record{}, err
	}
	if rec.NextDue, err = parseTimePtr(nextDue); err != nil {
		return treatments.Record{}, err
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return treatments.Record{}, err
	}
	return rec, nil
}
