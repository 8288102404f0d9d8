package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/francot77/cashflow-fp/internal/model"
	"github.com/francot77/cashflow-fp/pkg/apierror"
)

// UserStore is the slice of the identity store the auth service needs.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	Create(ctx context.Context, username string, passwordHash string) (model.User, error)
}

// AuthService issues, refreshes and validates bearer tokens, and resolves a
// caller's identity either from a token or from the legacy raw-username
// path. There is no server-side token state: logout is client-side only.
type AuthService struct {
	users UserStore
	codec *tokenCodec
	ttl   time.Duration
}

func NewAuthService(jwtSecret string, tokenTTL time.Duration, users UserStore) (*AuthService, error) {
	codec, err := newTokenCodec(jwtSecret)
	if err != nil {
		return nil, err
	}

	return &AuthService{users: users, codec: codec, ttl: tokenTTL}, nil
}

func (s *AuthService) Login(ctx context.Context, username string, password string) (model.TokenGrant, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return model.TokenGrant{}, apierror.New("INVALID_CREDENTIALS", "invalid credentials", http.StatusUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.TokenGrant{}, apierror.New("INVALID_CREDENTIALS", "invalid credentials", http.StatusUnauthorized)
	}

	return s.grant(user.ID, user.Username)
}

func (s *AuthService) Register(ctx context.Context, username string, password string) (model.PublicUser, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)

	if username == "" || password == "" {
		return model.PublicUser{}, apierror.New("BAD_REQUEST", "username and password are required", http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return model.PublicUser{}, err
	}

	user, err := s.users.Create(ctx, username, string(hash))
	if err != nil {
		if errors.Is(err, model.ErrUserAlreadyExists) {
			return model.PublicUser{}, apierror.New("ALREADY_EXISTS", "username already exists", http.StatusConflict)
		}
		return model.PublicUser{}, err
	}

	return model.PublicUser{ID: user.ID, Username: user.Username}, nil
}

// Refresh re-issues a fresh token for the subject of a currently valid
// token. User existence is not re-checked here, matching the gate's trust
// in a well-formed unexpired signature.
func (s *AuthService) Refresh(token string) (model.TokenGrant, error) {
	claims, err := s.codec.Decode(token, true)
	if err != nil {
		return model.TokenGrant{}, err
	}

	userID, err := claims.userID()
	if err != nil {
		return model.TokenGrant{}, apierror.New("TOKEN_INVALID", "token invalid", http.StatusUnauthorized)
	}

	return s.grant(userID, claims.Username)
}

// Validate decodes a token and additionally re-queries the identity store,
// so tokens of deleted users are caught here even though the gate would
// still trust them.
func (s *AuthService) Validate(ctx context.Context, token string) (model.TokenStatus, error) {
	claims, err := s.codec.Decode(token, true)
	if err != nil {
		return model.TokenStatus{}, err
	}

	userID, err := claims.userID()
	if err != nil {
		return model.TokenStatus{}, apierror.New("TOKEN_INVALID", "token invalid", http.StatusUnauthorized)
	}

	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return model.TokenStatus{}, apierror.New("USER_NOT_FOUND", "user not found", http.StatusUnauthorized)
	}

	issuedAt := claims.IssuedAt.Time
	expiresAt := claims.ExpiresAt.Time
	return model.TokenStatus{
		Valid:     true,
		UserID:    userID,
		Username:  claims.Username,
		IssuedAt:  &issuedAt,
		ExpiresAt: &expiresAt,
	}, nil
}

// ResolveBearer resolves an identity from a token without touching the
// store. Used by the gate on every authenticated request.
func (s *AuthService) ResolveBearer(token string) (model.Identity, error) {
	claims, err := s.codec.Decode(token, true)
	if err != nil {
		return model.Identity{}, err
	}

	userID, err := claims.userID()
	if err != nil {
		return model.Identity{}, apierror.New("TOKEN_INVALID", "token invalid", http.StatusUnauthorized)
	}

	return model.Identity{UserID: userID, Username: claims.Username}, nil
}

// ResolveLegacy resolves an identity from a plain username with no password
// check. This is a compatibility shim for pre-token callers, not a
// security mechanism; it only runs when no Authorization header was sent.
func (s *AuthService) ResolveLegacy(ctx context.Context, username string) (model.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return model.Identity{}, apierror.New("AUTH_HEADER_MISSING", "authorization required", http.StatusUnauthorized)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return model.Identity{}, apierror.New("USER_NOT_FOUND", "user not found", http.StatusUnauthorized)
	}

	return model.Identity{UserID: user.ID, Username: user.Username, Legacy: true}, nil
}

func (s *AuthService) grant(userID int64, username string) (model.TokenGrant, error) {
	token, expiresAt, err := s.codec.Encode(userID, username, s.ttl)
	if err != nil {
		return model.TokenGrant{}, err
	}

	return model.TokenGrant{
		Token:     token,
		ExpiresAt: expiresAt,
		ExpiresIn: int64(s.ttl.Seconds()),
		User:      model.PublicUser{ID: userID, Username: username},
	}, nil
}
