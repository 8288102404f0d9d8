package handler

import (
	"encoding/json"
	"net/http"

	"github.com/francot77/cashflow-fp/internal/middleware"
	"github.com/francot77/cashflow-fp/internal/model"
	"github.com/francot77/cashflow-fp/internal/service"
	"github.com/francot77/cashflow-fp/pkg/apierror"
)

type LedgerHandler struct {
	service *service.LedgerService
}

func NewLedgerHandler(service *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: service}
}

func (h *LedgerHandler) Categories(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("AUTH_HEADER_MISSING", "authorization required", http.StatusUnauthorized))
		return
	}

	categories, err := h.service.Categories(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.CategoriesResponse{Categories: categories})
}

func (h *LedgerHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("AUTH_HEADER_MISSING", "authorization required", http.StatusUnauthorized))
		return
	}

	var payload model.RecordTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", http.StatusBadRequest))
		return
	}

	id, err := h.service.Record(r.Context(), identity.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, model.RecordTransactionResponse{Status: "ok", TransactionID: id})
}
