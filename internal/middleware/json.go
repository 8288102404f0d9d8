package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/francot77/cashflow-fp/internal/model"
)

// writeErrorJSON emits the flat {"error","code"} shape used across the API.
// Middleware rejects requests before the handler layer, so it carries its
// own writer instead of reaching into internal/handler.
func writeErrorJSON(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: message, Code: code})
}
