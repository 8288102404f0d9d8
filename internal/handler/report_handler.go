package handler

import (
	"net/http"
	"strconv"

	"github.com/francot77/cashflow-fp/internal/middleware"
	"github.com/francot77/cashflow-fp/internal/service"
	"github.com/francot77/cashflow-fp/pkg/apierror"
)

const maxSummaryLimit = 500

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("AUTH_HEADER_MISSING", "authorization required", http.StatusUnauthorized))
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxSummaryLimit {
			writeError(w, apierror.New("BAD_REQUEST", "limit must be between 1 and 500", http.StatusBadRequest))
			return
		}
		limit = parsed
	}

	report, err := h.service.Summary(r.Context(), identity.UserID, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, apierror.New("AUTH_HEADER_MISSING", "authorization required", http.StatusUnauthorized))
		return
	}

	report, err := h.service.Analytics(r.Context(), identity.UserID, r.URL.Query().Get("range"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}
