package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/francot77/cashflow-fp/internal/middleware"
	"github.com/francot77/cashflow-fp/internal/model"
	"github.com/francot77/cashflow-fp/internal/service"
	"github.com/francot77/cashflow-fp/pkg/apierror"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", http.StatusBadRequest))
		return
	}

	if strings.TrimSpace(payload.Username) == "" || payload.Password == "" {
		writeError(w, apierror.New("BAD_REQUEST", "username and password are required", http.StatusBadRequest))
		return
	}

	grant, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, grant)
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", http.StatusBadRequest))
		return
	}

	user, err := h.service.Register(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		writeError(w, apierror.New("AUTH_HEADER_MISSING", "authorization required", http.StatusUnauthorized))
		return
	}

	grant, err := h.service.Refresh(token)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, grant)
}

// Validate accepts the token from the Authorization header, a JSON body or
// the query string, in that order. Failures keep the valid:false shape so
// clients can branch on one field.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	token, ok := middleware.BearerToken(r)
	if !ok {
		var payload model.ValidateRequest
		_ = json.NewDecoder(r.Body).Decode(&payload)
		token = strings.TrimSpace(payload.Token)
	}
	if token == "" {
		token = strings.TrimSpace(r.URL.Query().Get("token"))
	}

	if token == "" {
		writeJSON(w, http.StatusBadRequest, model.TokenStatus{Valid: false, Error: "token required"})
		return
	}

	status, err := h.service.Validate(r.Context(), token)
	if err != nil {
		httpStatus := http.StatusUnauthorized
		message := "token invalid"

		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) {
			httpStatus = apiErr.HTTPStatus
			message = apiErr.Message
		}

		writeJSON(w, httpStatus, model.TokenStatus{Valid: false, Error: message})
		return
	}

	writeJSON(w, http.StatusOK, status)
}

// Logout is stateless: there is no server-side token state to revoke, the
// client discards its token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
