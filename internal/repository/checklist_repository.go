package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olivernygren/sponge-boss/internal/domain"
)

// ChecklistRepository defines persistence access for checklist items.
type ChecklistRepository interface {
	List(ctx context.Context) ([]domain.ChecklistItem, error)
	Create(ctx context.Context, item *domain.ChecklistItem) error
	UpdateText(ctx context.Context, id, text string) (*domain.ChecklistItem, error)
	Delete(ctx context.Context, id string) error
	// ReorderAll applies every (id, order) pair in a single transaction.
	// Any unknown id aborts the whole batch.
	ReorderAll(ctx context.Context, pairs []domain.ChecklistOrder) error
}

type checklistRepository struct {
	pool *pgxpool.Pool
}

// NewChecklistRepository returns a Postgres-backed implementation.
func NewChecklistRepository(pool *pgxpool.Pool) ChecklistRepository {
	return &checklistRepository{pool: pool}
}

func (r *checklistRepository) List(ctx context.Context) ([]domain.ChecklistItem, error) {
	const query = `
        SELECT id, text, "order", created_at, updated_at
        FROM checklist_items
        ORDER BY "order" ASC, id ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ChecklistItem
	for rows.Next() {
		var item domain.ChecklistItem
		if err := rows.Scan(&item.ID, &item.Text, &item.Order, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *checklistRepository) Create(ctx context.Context, item *domain.ChecklistItem) error {
	// New items are appended after the current tail.
	const query = `
        INSERT INTO checklist_items (text, "order")
        VALUES ($1, COALESCE((SELECT MAX("order") FROM checklist_items), 0) + 1)
        RETURNING id, "order", created_at, updated_at`

	return r.pool.QueryRow(ctx, query, item.Text).
		Scan(&item.ID, &item.Order, &item.CreatedAt, &item.UpdatedAt)
}

func (r *checklistRepository) UpdateText(ctx context.Context, id, text string) (*domain.ChecklistItem, error) {
	const query = `
        UPDATE checklist_items SET text=$1, updated_at=NOW()
        WHERE id=$2
        RETURNING id, text, "order", created_at, updated_at`

	var item domain.ChecklistItem
	if err := r.pool.QueryRow(ctx, query, text, id).
		Scan(&item.ID, &item.Text, &item.Order, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *checklistRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM checklist_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *checklistRepository) ReorderAll(ctx context.Context, pairs []domain.ChecklistOrder) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const query = `UPDATE checklist_items SET "order"=$1, updated_at=NOW() WHERE id=$2`
	for _, pair := range pairs {
		cmd, err := tx.Exec(ctx, query, pair.Order, pair.ID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
	}

	return tx.Commit(ctx)
}
