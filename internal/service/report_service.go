package service

import (
	"context"
	"sort"
	"time"

	"github.com/francot77/cashflow-fp/internal/model"
)

const defaultSummaryLimit = 100

// Sentinel window standing in for "no bound" when range=all.
var (
	openWindowStart = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	openWindowEnd   = time.Date(2100, 12, 31, 0, 0, 0, 0, time.UTC)
)

// ReportService computes windowed totals and per-category breakdowns over a
// user's transactions.
type ReportService struct {
	transactions TransactionStore
	now          func() time.Time
}

func NewReportService(transactions TransactionStore) *ReportService {
	return &ReportService{transactions: transactions, now: time.Now}
}

// Summary fetches the newest limit transactions and folds income, expense
// and balance over that page only. Bounded cost: the totals are not global.
func (s *ReportService) Summary(ctx context.Context, userID int64, limit int) (model.SummaryReport, error) {
	if limit <= 0 {
		limit = defaultSummaryLimit
	}

	rows, err := s.transactions.ListRecent(ctx, userID, limit)
	if err != nil {
		return model.SummaryReport{}, err
	}

	report := model.SummaryReport{Transactions: make([]model.TransactionEntry, 0, len(rows))}
	for _, t := range rows {
		switch t.Kind {
		case model.KindIncome:
			report.TotalIncome += t.Amount
		case model.KindExpense:
			report.TotalExpense += t.Amount
		}

		report.Transactions = append(report.Transactions, model.TransactionEntry{
			ID:          t.ID,
			Amount:      t.Amount,
			Kind:        t.Kind,
			Description: t.Description,
			Category:    t.Category,
			Date:        t.Date.Format(dateLayout),
		})
	}

	report.Balance = report.TotalIncome - report.TotalExpense
	return report, nil
}

// Analytics totals the entire window by kind and breaks each kind down per
// category. Empty windows surface zero totals and empty breakdown lists.
func (s *ReportService) Analytics(ctx context.Context, userID int64, rng string) (model.AnalyticsReport, error) {
	rng, start, end := s.window(rng)

	incomeTotal, err := s.transactions.SumByKind(ctx, userID, model.KindIncome, start, end)
	if err != nil {
		return model.AnalyticsReport{}, err
	}

	expenseTotal, err := s.transactions.SumByKind(ctx, userID, model.KindExpense, start, end)
	if err != nil {
		return model.AnalyticsReport{}, err
	}

	expensesByCategory, err := s.transactions.SumByCategory(ctx, userID, model.KindExpense, start, end)
	if err != nil {
		return model.AnalyticsReport{}, err
	}

	incomesByCategory, err := s.transactions.SumByCategory(ctx, userID, model.KindIncome, start, end)
	if err != nil {
		return model.AnalyticsReport{}, err
	}

	if expensesByCategory == nil {
		expensesByCategory = []model.CategoryTotal{}
	}
	if incomesByCategory == nil {
		incomesByCategory = []model.CategoryTotal{}
	}
	sortBreakdown(expensesByCategory)
	sortBreakdown(incomesByCategory)

	return model.AnalyticsReport{
		Range:              rng,
		StartDate:          start.Format(dateLayout),
		EndDate:            end.Format(dateLayout),
		IncomeTotal:        incomeTotal,
		ExpenseTotal:       expenseTotal,
		Balance:            incomeTotal - expenseTotal,
		ExpensesByCategory: expensesByCategory,
		IncomesByCategory:  incomesByCategory,
	}, nil
}

// window resolves a range name to its date interval: month is the 1st of
// the current month through today, year is Jan 1 through today, anything
// else is the wide-open sentinel interval. An empty range means month.
func (s *ReportService) window(rng string) (string, time.Time, time.Time) {
	today := s.now().UTC()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	switch rng {
	case "", "month":
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return "month", start, today
	case "year":
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return "year", start, today
	default:
		return rng, openWindowStart, openWindowEnd
	}
}

// sortBreakdown orders totals descending; equal totals fall back to the
// category name so the ordering stays deterministic.
func sortBreakdown(totals []model.CategoryTotal) {
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Total != totals[j].Total {
			return totals[i].Total > totals[j].Total
		}
		return totals[i].Category < totals[j].Category
	})
}
