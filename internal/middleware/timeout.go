package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/francot77/cashflow-fp/internal/model"
)

// Timeout bounds request handling. A tripped deadline answers with the same
// flat error shape as every other failure, rendered once up front.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	body, _ := json.Marshal(model.ErrorResponse{Error: "request timed out", Code: "REQUEST_TIMEOUT"})

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, string(body))
	}
}
