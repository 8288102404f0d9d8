package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/francot77/cashflow-fp/internal/model"
	"github.com/francot77/cashflow-fp/pkg/apierror"
)

type fakeUserStore struct {
	byID   map[int64]model.User
	byName map[string]model.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byID: map[int64]model.User{}, byName: map[string]model.User{}, nextID: 1}
}

func (s *fakeUserStore) add(t *testing.T, username string, password string) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := model.User{ID: s.nextID, Username: username, PasswordHash: string(hash), CreatedAt: time.Now()}
	s.nextID++
	s.byID[user.ID] = user
	s.byName[user.Username] = user
	return user
}

func (s *fakeUserStore) FindByID(_ context.Context, id int64) (model.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	user, ok := s.byName[username]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) Create(_ context.Context, username string, passwordHash string) (model.User, error) {
	if _, exists := s.byName[username]; exists {
		return model.User{}, model.ErrUserAlreadyExists
	}

	user := model.User{ID: s.nextID, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.nextID++
	s.byID[user.ID] = user
	s.byName[user.Username] = user
	return user, nil
}

func newAuthService(t *testing.T, users UserStore) *AuthService {
	t.Helper()

	svc, err := NewAuthService("test-secret", 24*time.Hour, users)
	require.NoError(t, err)
	return svc
}

func TestLoginThenResolveBearer(t *testing.T) {
	users := newFakeUserStore()
	user := users.add(t, "ana", "hunter2")
	svc := newAuthService(t, users)

	grant, err := svc.Login(context.Background(), "ana", "hunter2")
	require.NoError(t, err)
	require.Equal(t, user.ID, grant.User.ID)
	require.Equal(t, int64((24 * time.Hour).Seconds()), grant.ExpiresIn)

	identity, err := svc.ResolveBearer(grant.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, identity.UserID)
	require.Equal(t, "ana", identity.Username)
	require.False(t, identity.Legacy)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	users := newFakeUserStore()
	users.add(t, "ana", "hunter2")
	svc := newAuthService(t, users)

	_, err := svc.Login(context.Background(), "ana", "wrong")
	require.True(t, apierror.HasCode(err, "INVALID_CREDENTIALS"))

	_, err = svc.Login(context.Background(), "nobody", "hunter2")
	require.True(t, apierror.HasCode(err, "INVALID_CREDENTIALS"))
}

func TestRefreshExtendsExpiry(t *testing.T) {
	users := newFakeUserStore()
	user := users.add(t, "ana", "hunter2")
	svc := newAuthService(t, users)

	// A token with almost no lifetime left refreshes into a full 24h one.
	shortToken, shortExpiry, err := svc.codec.Encode(user.ID, user.Username, time.Minute)
	require.NoError(t, err)

	grant, err := svc.Refresh(shortToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, grant.User.ID)
	require.True(t, grant.ExpiresAt.After(shortExpiry))
}

func TestRefreshRejectsExpiredToken(t *testing.T) {
	users := newFakeUserStore()
	user := users.add(t, "ana", "hunter2")
	svc := newAuthService(t, users)

	svc.codec.now = func() time.Time { return time.Now().Add(-48 * time.Hour) }
	expired, _, err := svc.codec.Encode(user.ID, user.Username, time.Hour)
	require.NoError(t, err)
	svc.codec.now = time.Now

	_, err = svc.Refresh(expired)
	require.True(t, apierror.HasCode(err, "TOKEN_EXPIRED"))
}

func TestValidateChecksUserExistence(t *testing.T) {
	users := newFakeUserStore()
	user := users.add(t, "ana", "hunter2")
	svc := newAuthService(t, users)

	grant, err := svc.Login(context.Background(), "ana", "hunter2")
	require.NoError(t, err)

	status, err := svc.Validate(context.Background(), grant.Token)
	require.NoError(t, err)
	require.True(t, status.Valid)
	require.Equal(t, user.ID, status.UserID)
	require.Equal(t, "ana", status.Username)
	require.NotNil(t, status.IssuedAt)
	require.NotNil(t, status.ExpiresAt)

	// The token stays decodable after the user is gone, but validate
	// performs the extra existence check.
	delete(users.byID, user.ID)
	_, err = svc.Validate(context.Background(), grant.Token)
	require.True(t, apierror.HasCode(err, "USER_NOT_FOUND"))

	_, err = svc.ResolveBearer(grant.Token)
	require.NoError(t, err)
}

func TestResolveLegacy(t *testing.T) {
	users := newFakeUserStore()
	user := users.add(t, "ana", "hunter2")
	svc := newAuthService(t, users)

	identity, err := svc.ResolveLegacy(context.Background(), "ana")
	require.NoError(t, err)
	require.Equal(t, user.ID, identity.UserID)
	require.True(t, identity.Legacy)

	_, err = svc.ResolveLegacy(context.Background(), "nobody")
	require.True(t, apierror.HasCode(err, "USER_NOT_FOUND"))

	_, err = svc.ResolveLegacy(context.Background(), "  ")
	require.True(t, apierror.HasCode(err, "AUTH_HEADER_MISSING"))
}

func TestRegister(t *testing.T) {
	users := newFakeUserStore()
	svc := newAuthService(t, users)

	user, err := svc.Register(context.Background(), " ana ", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "ana", user.Username)

	_, err = svc.Register(context.Background(), "ana", "other")
	require.True(t, apierror.HasCode(err, "ALREADY_EXISTS"))

	_, err = svc.Register(context.Background(), "", "pw")
	require.True(t, apierror.HasCode(err, "BAD_REQUEST"))
}
