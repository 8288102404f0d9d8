package model

import "time"

const (
	KindIncome  = "income"
	KindExpense = "expense"
)

// ValidKind reports whether kind is one of the two supported
// transaction kinds.
func ValidKind(kind string) bool {
	return kind == KindIncome || kind == KindExpense
}

type Category struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
}

type Transaction struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"-"`
	CategoryID  int64     `json:"-"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Kind        string    `json:"type"`
	Description string    `json:"description"`
	Date        time.Time `json:"-"`
}

// CategoryTotal is one row of a per-category breakdown.
type CategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}
