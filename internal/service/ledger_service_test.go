package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/francot77/cashflow-fp/internal/model"
	"github.com/francot77/cashflow-fp/pkg/apierror"
)

type fakeLedgerStore struct {
	categories   []model.Category
	transactions []model.Transaction
	created      []model.Transaction
	createdNames []string
	kindTotals   map[string]float64
	kindGroups   map[string][]model.CategoryTotal
	lastWindow   [2]time.Time
}

func (s *fakeLedgerStore) ListByUser(_ context.Context, _ int64) ([]model.Category, error) {
	return s.categories, nil
}

func (s *fakeLedgerStore) Create(_ context.Context, t model.Transaction, categoryName string) (int64, error) {
	s.created = append(s.created, t)
	s.createdNames = append(s.createdNames, categoryName)
	return int64(len(s.created)), nil
}

func (s *fakeLedgerStore) ListRecent(_ context.Context, _ int64, limit int) ([]model.Transaction, error) {
	if limit < len(s.transactions) {
		return s.transactions[:limit], nil
	}
	return s.transactions, nil
}

func (s *fakeLedgerStore) SumByKind(_ context.Context, _ int64, kind string, start time.Time, end time.Time) (float64, error) {
	s.lastWindow = [2]time.Time{start, end}
	return s.kindTotals[kind], nil
}

func (s *fakeLedgerStore) SumByCategory(_ context.Context, _ int64, kind string, _ time.Time, _ time.Time) ([]model.CategoryTotal, error) {
	return s.kindGroups[kind], nil
}

func TestRecordValidTransaction(t *testing.T) {
	store := &fakeLedgerStore{}
	svc := NewLedgerService(store, store)

	id, err := svc.Record(context.Background(), 3, model.RecordTransactionRequest{
		Amount:      "125.50",
		Kind:        model.KindExpense,
		Description: "groceries",
		Category:    "  Food  ",
		Date:        "2024-01-10",
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), id)

	require.Len(t, store.created, 1)
	created := store.created[0]
	require.Equal(t, int64(3), created.UserID)
	require.Equal(t, 125.50, created.Amount)
	require.Equal(t, model.KindExpense, created.Kind)
	require.Equal(t, "2024-01-10", created.Date.Format("2006-01-02"))
	require.Equal(t, "Food", store.createdNames[0])
}

func TestRecordDefaultsDateToToday(t *testing.T) {
	store := &fakeLedgerStore{}
	svc := NewLedgerService(store, store)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 17, 30, 0, 0, time.UTC) }

	_, err := svc.Record(context.Background(), 3, model.RecordTransactionRequest{
		Amount:   "10",
		Kind:     model.KindIncome,
		Category: "Salary",
	})
	require.NoError(t, err)
	require.Equal(t, "2024-06-01", store.created[0].Date.Format("2006-01-02"))
}

func TestRecordValidationFailures(t *testing.T) {
	store := &fakeLedgerStore{}
	svc := NewLedgerService(store, store)

	cases := []struct {
		name string
		req  model.RecordTransactionRequest
		code string
	}{
		{"zero amount", model.RecordTransactionRequest{Amount: "0", Kind: "income", Category: "a"}, "INVALID_AMOUNT"},
		{"negative amount", model.RecordTransactionRequest{Amount: "-5", Kind: "income", Category: "a"}, "INVALID_AMOUNT"},
		{"non numeric amount", model.RecordTransactionRequest{Amount: "abc", Kind: "income", Category: "a"}, "INVALID_AMOUNT"},
		{"missing amount", model.RecordTransactionRequest{Kind: "income", Category: "a"}, "INVALID_AMOUNT"},
		{"unknown kind", model.RecordTransactionRequest{Amount: "10", Kind: "transfer", Category: "a"}, "INVALID_KIND"},
		{"blank category", model.RecordTransactionRequest{Amount: "10", Kind: "expense", Category: "   "}, "MISSING_CATEGORY"},
		{"bad date", model.RecordTransactionRequest{Amount: "10", Kind: "expense", Category: "a", Date: "01/10/2024"}, "BAD_REQUEST"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Record(context.Background(), 3, tc.req)
			require.Error(t, err)
			require.True(t, apierror.HasCode(err, tc.code), "expected %s, got %v", tc.code, err)
		})
	}

	require.Empty(t, store.created)
}

func TestCategoriesPassThrough(t *testing.T) {
	store := &fakeLedgerStore{categories: []model.Category{
		{ID: 1, UserID: 3, Name: "Food"},
		{ID: 2, UserID: 3, Name: "Rent"},
	}}
	svc := NewLedgerService(store, store)

	categories, err := svc.Categories(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, categories, 2)
	require.Equal(t, "Food", categories[0].Name)
}
