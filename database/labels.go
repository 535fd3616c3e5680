package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"todo-api/models"
	"todo-api/repository"
)

var _ repository.LabelRepository = (*LabelRepository)(nil)

type LabelRepository struct {
	db *DB
}

func NewLabelRepository(db *DB) *LabelRepository {
	return &LabelRepository{db: db}
}

func (r *LabelRepository) Create(ctx context.Context, name string) (models.Label, error) {
	existing, err := r.findByName(ctx, name)
	if err != nil {
		return models.Label{}, repository.Unexpected(err)
	}
	if existing != nil {
		return models.Label{}, repository.Duplicate(existing.ID)
	}

	var label models.Label
	err = r.db.QueryRowContext(ctx, r.db.rebind(`
		INSERT INTO labels (name) VALUES (?) RETURNING id, name
	`), name).Scan(&label.ID, &label.Name)
	if err != nil {
		// A concurrent insert of the same name trips the unique constraint
		if existing, lookupErr := r.findByName(ctx, name); lookupErr == nil && existing != nil {
			return models.Label{}, repository.Duplicate(existing.ID)
		}
		return models.Label{}, repository.Unexpected(fmt.Errorf("insert label: %w", err))
	}

	return label, nil
}

func (r *LabelRepository) All(ctx context.Context) ([]models.Label, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM labels ORDER BY id ASC`)
	if err != nil {
		return nil, repository.Unexpected(fmt.Errorf("select labels: %w", err))
	}
	defer rows.Close()

	labels := make([]models.Label, 0)
	for rows.Next() {
		var label models.Label
		if err := rows.Scan(&label.ID, &label.Name); err != nil {
			return nil, repository.Unexpected(fmt.Errorf("scan label: %w", err))
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.Unexpected(fmt.Errorf("iterate labels: %w", err))
	}

	return labels, nil
}

// Delete removes the label. Links from todos cascade; the todos remain.
func (r *LabelRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.db.rebind(`DELETE FROM labels WHERE id = ?`), id)
	if err != nil {
		return repository.Unexpected(fmt.Errorf("delete label: %w", err))
	}
	return requireAffected(res, id)
}

func (r *LabelRepository) findByName(ctx context.Context, name string) (*models.Label, error) {
	var label models.Label
	err := r.db.QueryRowContext(ctx, r.db.rebind(`
		SELECT id, name FROM labels WHERE name = ?
	`), name).Scan(&label.ID, &label.Name)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select label by name: %w", err)
	}

	return &label, nil
}
