package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"herd-health/internal/domain/animals"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

func (r *AnimalsRepo) Create(ctx context.Context, a animals.Animal) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO animals (
			id, owner_user_id,
			tag, name, birth_date, phase, batch, notes,
			created_at, updated_at
		) VALUES (?,?,?,?,?,?,?,?,?,?)
	`,
		a.ID,
		a.OwnerUserID,
		a.Tag,
		a.Name,
		fmtTimePtr(a.BirthDate),
		string(a.Phase),
		a.Batch,
		a.Notes,
		fmtTime(a.CreatedAt),
		fmtTime(a.UpdatedAt),
	)
	return err
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET tag = ?, name = ?, birth_date = ?, phase = ?, batch = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`,
		a.Tag,
		a.Name,
		fmtTimePtr(a.BirthDate),
		string(a.Phase),
		a.Batch,
		a.Notes,
		fmtTime(a.UpdatedAt),
		a.ID,
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

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, owner_user_id, tag, name, birth_date, phase, batch, notes, created_at, updated_at
		FROM animals
		WHERE id = ?
	`, id)

	a, err := scanAnimal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return animals.Animal{}, ErrNotFound
		}
		return animals.Animal{}, err
	}
	return a, nil
}

func (r *AnimalsRepo) ListByOwner(ctx context.Context, ownerUserID string) ([]animals.Animal, error) {
	return r.list(ctx, `
		SELECT id, owner_user_id, tag, name, birth_date, phase, batch, notes, created_at, updated_at
		FROM animals
		WHERE owner_user_id = ?
		ORDER BY created_at ASC
	`, ownerUserID)
}

func (r *AnimalsRepo) ListByBatch(ctx context.Context, ownerUserID, label string) ([]animals.Animal, error) {
	// igualdad directa: SQLite compara TEXT case-sensitive por default
	return r.list(ctx, `
		SELECT id, owner_user_id, tag, name, birth_date, phase, batch, notes, created_at, updated_at
		FROM animals
		WHERE owner_user_id = ? AND batch = ?
		ORDER BY created_at ASC
	`, ownerUserID, label)
}

func (r *AnimalsRepo) list(ctx context.Context, query string, args ...any) ([]animals.Animal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var a animals.Animal
	var bd sql.NullString
	var phase, createdAt, updatedAt string
	if err := row.Scan(
		&a.ID,
		&a.OwnerUserID,
		&a.Tag,
		&a.Name,
		&bd,
		&phase,
		&a.Batch,
		&a.Notes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return animals.Animal{}, err
	}

	var err error
	if a.BirthDate, err = parseTimePtr(bd); err != nil {
		return animals.Animal{}, err
	}
	if a.CreatedAt, err = parseTime(createdAt); err != nil {
		return animals.Animal{}, err
	}
	if a.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return animals.Animal{}, err
	}
	a.Phase = animals.Phase(phase)
	return a, nil
}
