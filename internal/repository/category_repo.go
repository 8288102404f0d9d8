package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/francot77/cashflow-fp/internal/model"
)

type CategoryRepository struct {
	pool *pgxpool.Pool
}

func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

func (r *CategoryRepository) ListByUser(ctx context.Context, userID int64) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, name FROM categories WHERE user_id = $1 ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0)
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// getOrCreateCategory resolves the category id for (userID, name), inserting
// the row when it does not exist yet. The unique constraint on
// (user_id, name) arbitrates concurrent inserts: the loser's insert becomes
// a no-op and is retried as a lookup.
func getOrCreateCategory(ctx context.Context, tx pgx.Tx, userID int64, name string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO categories (user_id, name) VALUES ($1, $2)
		 ON CONFLICT (user_id, name) DO NOTHING
		 RETURNING id`,
		userID, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("insert category: %w", err)
	}

	err = tx.QueryRow(ctx,
		`SELECT id FROM categories WHERE user_id = $1 AND name = $2`,
		userID, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, model.ErrCategoryNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("lookup category after conflict: %w", err)
	}
	return id, nil
}
