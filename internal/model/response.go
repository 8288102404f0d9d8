package model

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type CategoriesResponse struct {
	Categories []Category `json:"categories"`
}

type RecordTransactionResponse struct {
	Status        string `json:"status"`
	TransactionID int64  `json:"transaction_id"`
}

// TransactionEntry is one row of the summary transaction page.
type TransactionEntry struct {
	ID          int64   `json:"id"`
	Amount      float64 `json:"amount"`
	Kind        string  `json:"type"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
}

// SummaryReport folds the most recent page of transactions. Totals cover
// the fetched page only, not the full history.
type SummaryReport struct {
	TotalIncome  float64            `json:"total_income"`
	TotalExpense float64            `json:"total_expense"`
	Balance      float64            `json:"balance"`
	Transactions []TransactionEntry `json:"transactions"`
}

// AnalyticsReport covers an entire date window, unlike SummaryReport.
type AnalyticsReport struct {
	Range              string          `json:"range"`
	StartDate          string          `json:"start_date"`
	EndDate            string          `json:"end_date"`
	IncomeTotal        float64         `json:"income_total"`
	ExpenseTotal       float64         `json:"expense_total"`
	Balance            float64         `json:"balance"`
	ExpensesByCategory []CategoryTotal `json:"expenses_by_category"`
	IncomesByCategory  []CategoryTotal `json:"incomes_by_category"`
}
