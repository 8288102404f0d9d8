package model

import "encoding/json"

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ValidateRequest struct {
	Token string `json:"token"`
}

// RawAmount carries the amount field without forcing a JSON type on it.
// Clients send amounts as numbers or strings; either way a value that does
// not parse surfaces as an amount-validation failure rather than a generic
// decode error.
type RawAmount string

func (a *RawAmount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = RawAmount(s)
		return nil
	}
	*a = RawAmount(data)
	return nil
}

// RecordTransactionRequest is the body of POST /api/transactions.
type RecordTransactionRequest struct {
	Amount      RawAmount `json:"amount"`
	Kind        string    `json:"type"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
}
