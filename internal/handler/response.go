package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/francot77/cashflow-fp/internal/model"
	"github.com/francot77/cashflow-fp/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	body := model.ErrorResponse{
		Error: "unexpected server error",
		Code:  "INTERNAL_ERROR",
	}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Error = apiErr.Message
		body.Code = apiErr.Code
	} else if errors.Is(err, model.ErrUserNotFound) {
		status = http.StatusUnauthorized
		body.Error = "user not found"
		body.Code = "USER_NOT_FOUND"
	} else if errors.Is(err, model.ErrUserAlreadyExists) {
		status = http.StatusConflict
		body.Error = "username already exists"
		body.Code = "ALREADY_EXISTS"
	} else if errors.Is(err, model.ErrCategoryNotFound) {
		status = http.StatusBadRequest
		body.Error = "category not found"
		body.Code = "MISSING_CATEGORY"
	} else {
		// Log unclassified errors so they are visible in server logs.
		slog.Error("unhandled error in writeError", "error", err.Error())
	}

	writeJSON(w, status, body)
}
