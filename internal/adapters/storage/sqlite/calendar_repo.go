package sqlite

import (
	"context"
	"database/sql"

	"herd-health/internal/domain/calendar"
)

type CalendarRepo struct {
	db *sql.DB
}

func NewCalendarRepo(db *sql.DB) *CalendarRepo {
	return &CalendarRepo{db: db}
}

func (r *CalendarRepo) Create(ctx context.Context, o calendar.Obligation) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO calendar_obligations (
			id, owner_user_id,
			title, description, date, category, icon, completed,
			created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?)
	`,
		o.ID,
		o.OwnerUserID,
		o.Title,
		o.Description,
		fmtTime(o.Date),
		string(o.Category),
		o.Icon,
		boolToInt(o.Completed),
		fmtTime(o.CreatedAt),
		fmtTime(o.UpdatedAt),
	)
	return err
}

func (r *CalendarRepo) Update(ctx context.Context, o calendar.Obligation) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE calendar_obligations
		SET title = ?, description = ?, date = ?, category = ?, icon = ?, completed = ?, updated_at = ?
		WHERE id = ?
	`,
		o.Title,
		o.Description,
		fmtTime(o.Date),
		string(o.Category),
		o.Icon,
		boolToInt(o.Completed),
		fmtTime(o.UpdatedAt),
		o.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CalendarRepo) GetByID(ctx context.Context, id string) (calendar.Obligation, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, title, description, date, category, icon, completed, created_at, updated_at
		FROM calendar_obligations
		WHERE id = ?
	`, id)

	o, err := scanObligation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return calendar.Obligation{}, ErrNotFound
		}
		return calendar.Obligation{}, err
	}
	return o, nil
}

// ListByOwner devuelve en orden de inserción, igual que el adapter en memoria.
func (r *CalendarRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]calendar.Obligation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, owner_user_id, title, description, date, category, icon, completed, created_at, updated_at
		FROM calendar_obligations
		WHERE owner_user_id = ?
		ORDER BY created_at ASC, id ASC
	`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]calendar.Obligation, 0)
	for rows.Next() {
		o, err := scanObligation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *CalendarRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM calendar_obligations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanObligation(row rowScanner) (calendar.Obligation, error) {
	var o calendar.Obligation
	var date, category, createdAt, updatedAt string
	var completed int64
	if err := row.Scan(
		&o.ID,
		&o.OwnerUserID,
		&o.Title,
		&o.Description,
		&date,
		&category,
		&o.Icon,
		&completed,
		&createdAt,
		&updatedAt,
	); err != nil {
		return calendar.Obligation{}, err
	}

	var err error
	if o.Date, err = parseTime(date); err != nil {
		return calendar.Obligation{}, err
	}
	if o.CreatedAt, err = parseTime(createdAt); err != nil {
		return calendar.Obligation{}, err
	}
	if o.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return calendar.Obligation{}, err
	}
	o.Category = calendar.Category(category)
	o.Completed = completed != 0
	return o, nil
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
