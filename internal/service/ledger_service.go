package service

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/francot77/cashflow-fp/internal/model"
	"github.com/francot77/cashflow-fp/pkg/apierror"
)

const dateLayout = "2006-01-02"

// CategoryStore lists a user's categories.
type CategoryStore interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Category, error)
}

// TransactionStore is the slice of the ledger store the services need.
// Create must atomically resolve-or-create the named category and insert
// the transaction.
type TransactionStore interface {
	Create(ctx context.Context, t model.Transaction, categoryName string) (int64, error)
	ListRecent(ctx context.Context, userID int64, limit int) ([]model.Transaction, error)
	SumByKind(ctx context.Context, userID int64, kind string, start time.Time, end time.Time) (float64, error)
	SumByCategory(ctx context.Context, userID int64, kind string, start time.Time, end time.Time) ([]model.CategoryTotal, error)
}

// LedgerService validates and records transactions and lists categories.
type LedgerService struct {
	categories   CategoryStore
	transactions TransactionStore
	now          func() time.Time
}

func NewLedgerService(categories CategoryStore, transactions TransactionStore) *LedgerService {
	return &LedgerService{categories: categories, transactions: transactions, now: time.Now}
}

func (s *LedgerService) Categories(ctx context.Context, userID int64) ([]model.Category, error) {
	return s.categories.ListByUser(ctx, userID)
}

// Record validates the request and inserts the transaction, lazily creating
// the category for (userID, category) when it does not exist yet.
func (s *LedgerService) Record(ctx context.Context, userID int64, req model.RecordTransactionRequest) (int64, error) {
	amount, err := strconv.ParseFloat(string(req.Amount), 64)
	if err != nil || !(amount > 0) {
		return 0, apierror.New("INVALID_AMOUNT", "amount must be a number greater than zero", http.StatusBadRequest)
	}

	if !model.ValidKind(req.Kind) {
		return 0, apierror.New("INVALID_KIND", "type must be income or expense", http.StatusBadRequest)
	}

	categoryName := strings.TrimSpace(req.Category)
	if categoryName == "" {
		return 0, apierror.New("MISSING_CATEGORY", "category is required", http.StatusBadRequest)
	}

	date := s.now().UTC().Truncate(24 * time.Hour)
	if strings.TrimSpace(req.Date) != "" {
		date, err = time.Parse(dateLayout, strings.TrimSpace(req.Date))
		if err != nil {
			return 0, apierror.New("BAD_REQUEST", "date must be formatted YYYY-MM-DD", http.StatusBadRequest)
		}
	}

	return s.transactions.Create(ctx, model.Transaction{
		UserID:      userID,
		Amount:      amount,
		Kind:        req.Kind,
		Description: req.Description,
		Date:        date,
	}, categoryName)
}
