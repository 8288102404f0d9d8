package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/francot77/cashflow-fp/internal/model"
)

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create resolves or lazily creates the category and inserts the transaction
// inside one database transaction, so a failed insert never leaves an
// orphaned category behind.
func (r *TransactionRepository) Create(ctx context.Context, t model.Transaction, categoryName string) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	categoryID, err := getOrCreateCategory(ctx, tx, t.UserID, categoryName)
	if err != nil {
		return 0, err
	}

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO transactions (user_id, category_id, amount, kind, description, date)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		t.UserID, categoryID, t.Amount, t.Kind, t.Description, t.Date).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert transaction: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return id, nil
}

// ListRecent returns the newest transactions for a user, ordered by date
// descending with id descending breaking same-day ties.
func (r *TransactionRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]model.Transaction, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.user_id, t.category_id, c.name, t.amount, t.kind, t.description, t.date
		 FROM transactions t
		 JOIN categories c ON t.category_id = c.id
		 WHERE t.user_id = $1
		 ORDER BY t.date DESC, t.id DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]model.Transaction, 0)
	for rows.Next() {
		var t model.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Category,
			&t.Amount, &t.Kind, &t.Description, &t.Date); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

// SumByKind totals the amounts of one kind inside [start, end]. A window
// with no matching rows yields 0, not an error.
func (r *TransactionRepository) SumByKind(ctx context.Context, userID int64, kind string, start time.Time, end time.Time) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)
		 FROM transactions
		 WHERE user_id = $1 AND kind = $2 AND date BETWEEN $3 AND $4`,
		userID, kind, start, end).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum transactions by kind: %w", err)
	}
	return total, nil
}

// SumByCategory groups one kind's amounts by category inside [start, end],
// ordered by total descending with category name breaking ties.
func (r *TransactionRepository) SumByCategory(ctx context.Context, userID int64, kind string, start time.Time, end time.Time) ([]model.CategoryTotal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.name, COALESCE(SUM(t.amount), 0) AS total
		 FROM transactions t
		 JOIN categories c ON t.category_id = c.id
		 WHERE t.user_id = $1 AND t.kind = $2 AND t.date BETWEEN $3 AND $4
		 GROUP BY c.id, c.name
		 ORDER BY total DESC, c.name ASC`,
		userID, kind, start, end)
	if err != nil {
		return nil, fmt.Errorf("sum transactions by category: %w", err)
	}
	defer rows.Close()

	totals := make([]model.CategoryTotal, 0)
	for rows.Next() {
		var ct model.CategoryTotal
		if err := rows.Scan(&ct.Category, &ct.Total); err != nil {
			return nil, fmt.Errorf("scan category total: %w", err)
		}
		totals = append(totals, ct)
	}
	return totals, rows.Err()
}
