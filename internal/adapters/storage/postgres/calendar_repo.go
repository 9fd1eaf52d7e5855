package postgres

import (
	"context"
	"database/sql"
	"strings"

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
			title, description, date,
			category, icon, completed,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		o.ID,
		o.OwnerUserID,
		o.Title,
		o.Description,
		o.Date,
		string(o.Category),
		o.Icon,
		o.Completed,
		o.CreatedAt,
		o.UpdatedAt,
	)
	return err
}

func (r *CalendarRepo) Update(ctx context.Context, o calendar.Obligation) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE calendar_obligations
		SET
			title = $2,
			description = $3,
			date = $4,
			category = $5,
			icon = $6,
			completed = $7,
			updated_at = $8
		WHERE id = $1
	`,
		o.ID,
		o.Title,
		o.Description,
		o.Date,
		string(o.Category),
		o.Icon,
		o.Completed,
		o.UpdatedAt,
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
	id = strings.TrimSpace(id)
	if id == "" {
		return calendar.Obligation{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, owner_user_id,
			title, description, date,
			category, icon, completed,
			created_at, updated_at
		FROM calendar_obligations
		WHERE id = $1
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

func (r *CalendarRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]calendar.Obligation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, owner_user_id,
			title, description, date,
			category, icon, completed,
			created_at, updated_at
		FROM calendar_obligations
		WHERE owner_user_id = $1
		ORDER BY created_at ASC
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
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM calendar_obligations WHERE id = $1
	`, id)
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
	var category string
	if err := row.Scan(
		&o.ID,
		&o.OwnerUserID,
		&o.Title,
		&o.Description,
		&o.Date,
		&category,
		&o.Icon,
		&o.Completed,
		&o.CreatedAt,
		&o.UpdatedAt,
	); err != nil {
		return calendar.Obligation{}, err
	}
	o.Category = calendar.Category(category)
	return o, nil
}
