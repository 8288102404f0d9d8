//go:build integration

package repository

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/francot77/cashflow-fp/internal/database"
	"github.com/francot77/cashflow-fp/internal/model"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, url, 10, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	return db
}

func TestConcurrentCreateYieldsOneCategoryRow(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	users := NewUserRepository(db.Pool)
	user, err := users.Create(ctx, "u-"+uuid.NewString(), "irrelevant-hash")
	require.NoError(t, err)

	transactions := NewTransactionRepository(db.Pool)
	categoryName := "c-" + uuid.NewString()
	date := time.Now().UTC().Truncate(24 * time.Hour)

	// Racing inserts of the same fresh category: exactly one insert wins
	// the unique constraint, every loser resolves the winner's row.
	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	ids := make([]int64, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = transactions.Create(ctx, model.Transaction{
				UserID: user.ID,
				Amount: 5,
				Kind:   model.KindExpense,
				Date:   date,
			}, categoryName)
		}(i)
	}
	wg.Wait()

	seen := map[int64]bool{}
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i], "worker %d", i)
		require.False(t, seen[ids[i]], "duplicate transaction id %d", ids[i])
		seen[ids[i]] = true
	}

	var categoryCount int
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM categories WHERE user_id = $1 AND name = $2`,
		user.ID, categoryName).Scan(&categoryCount))
	require.Equal(t, 1, categoryCount)

	var transactionCount int
	require.NoError(t, db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM transactions t
		 JOIN categories c ON t.category_id = c.id
		 WHERE t.user_id = $1 AND c.name = $2`,
		user.ID, categoryName).Scan(&transactionCount))
	require.Equal(t, workers, transactionCount)
}
