package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/francot77/cashflow-fp/internal/model"
	"github.com/francot77/cashflow-fp/pkg/apierror"
)

// legacyBodyLimit caps how much of a request body is read while looking
// for a legacy username field.
const legacyBodyLimit = 1 << 20

type identityResolver interface {
	ResolveBearer(token string) (model.Identity, error)
	ResolveLegacy(ctx context.Context, username string) (model.Identity, error)
}

type contextKey string

const identityContextKey contextKey = "identity"

type AuthMiddleware struct {
	resolver identityResolver
}

func NewAuthMiddleware(resolver identityResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth guards token-only routes. A missing, malformed, expired or
// tampered Authorization header rejects with a distinguishable 401 code;
// unexpected resolver failures surface as 500, never as 401.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := m.bearerIdentity(r)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

// RequireIdentity guards routes that also accept the legacy raw-username
// path. A present Authorization header must validate: it never silently
// degrades to the legacy lookup. Only when the header is absent entirely
// is a username taken from the query string or JSON body and resolved
// against the store.
func (m *AuthMiddleware) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.TrimSpace(r.Header.Get("Authorization")) != "" {
			identity, err := m.bearerIdentity(r)
			if err != nil {
				writeAuthError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
			return
		}

		identity, err := m.resolver.ResolveLegacy(r.Context(), legacyUsername(r))
		if err != nil {
			writeAuthError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}

func (m *AuthMiddleware) bearerIdentity(r *http.Request) (model.Identity, error) {
	token, err := bearerToken(r)
	if err != nil {
		return model.Identity{}, err
	}

	return m.resolver.ResolveBearer(token)
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", apierror.New("AUTH_HEADER_MISSING", "authorization required", http.StatusUnauthorized)
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apierror.New("AUTH_HEADER_MALFORMED", "malformed authorization header", http.StatusUnauthorized)
	}

	return strings.TrimSpace(parts[1]), nil
}

// BearerToken extracts the bearer token from a request the gate already
// admitted. Handlers that need the raw token (refresh, validate) use this.
func BearerToken(r *http.Request) (string, bool) {
	token, err := bearerToken(r)
	return token, err == nil
}

// legacyUsername pulls a username from the query string, falling back to a
// JSON body. The body is restored so the handler can decode it again.
func legacyUsername(r *http.Request) string {
	if username := strings.TrimSpace(r.URL.Query().Get("username")); username != "" {
		return username
	}

	if r.Body == nil {
		return ""
	}

	raw, err := io.ReadAll(io.LimitReader(r.Body, legacyBodyLimit))
	_ = r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}

	var payload struct {
		Username string `json:"username"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}

	return strings.TrimSpace(payload.Username)
}

func withIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext returns the identity the gate attached to the
// request. Handlers must use this and never a user id from request input.
func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}

func writeAuthError(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	if !errors.As(err, &apiErr) {
		apiErr = apierror.New("INTERNAL_ERROR", "unexpected server error", http.StatusInternalServerError)
	}

	writeErrorJSON(w, apiErr.HTTPStatus, apiErr.Code, apiErr.Message)
}
