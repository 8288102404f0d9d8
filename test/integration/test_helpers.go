//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/francot77/cashflow-fp/internal/config"
	"github.com/francot77/cashflow-fp/internal/handler"
	"github.com/francot77/cashflow-fp/internal/middleware"
	"github.com/francot77/cashflow-fp/internal/model"
	"github.com/francot77/cashflow-fp/internal/router"
	"github.com/francot77/cashflow-fp/internal/service"
)

// memStore is an in-memory stand-in for the Postgres repositories,
// implementing the store interfaces the services consume.
type memStore struct {
	mu           sync.Mutex
	users        map[int64]model.User
	categories   map[int64]model.Category
	transactions map[int64]model.Transaction
	nextID       int64
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[int64]model.User{},
		categories:   map[int64]model.Category{},
		transactions: map[int64]model.Transaction{},
		nextID:       1,
	}
}

func (s *memStore) id() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *memStore) FindByID(_ context.Context, id int64) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *memStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memStore) Create(_ context.Context, username string, passwordHash string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			return model.User{}, model.ErrUserAlreadyExists
		}
	}

	user := model.User{ID: s.id(), Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.users[user.ID] = user
	return user, nil
}

func (s *memStore) ListByUser(_ context.Context, userID int64) ([]model.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	categories := make([]model.Category, 0)
	for _, c := range s.categories {
		if c.UserID == userID {
			categories = append(categories, c)
		}
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

// memLedger wraps memStore as a service.TransactionStore; the wrapper exists
// because the user store and the transaction store both name their insert
// method Create.
type memLedger struct {
	*memStore
}

func (l memLedger) Create(_ context.Context, t model.Transaction, categoryName string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t.ID = l.id()
	t.CategoryID = l.getOrCreateCategory(t.UserID, categoryName)
	l.transactions[t.ID] = t
	return t.ID, nil
}

func (s *memStore) ListRecent(_ context.Context, userID int64, limit int) ([]model.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	transactions := make([]model.Transaction, 0)
	for _, t := range s.transactions {
		if t.UserID == userID {
			t.Category = s.categories[t.CategoryID].Name
			transactions = append(transactions, t)
		}
	}
	sort.Slice(transactions, func(i, j int) bool {
		if !transactions[i].Date.Equal(transactions[j].Date) {
			return transactions[i].Date.After(transactions[j].Date)
		}
		return transactions[i].ID > transactions[j].ID
	})
	if limit < len(transactions) {
		transactions = transactions[:limit]
	}
	return transactions, nil
}

func (s *memStore) SumByKind(_ context.Context, userID int64, kind string, start time.Time, end time.Time) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total float64
	for _, t := range s.transactions {
		if t.UserID == userID && t.Kind == kind && inWindow(t.Date, start, end) {
			total += t.Amount
		}
	}
	return total, nil
}

func (s *memStore) SumByCategory(_ context.Context, userID int64, kind string, start time.Time, end time.Time) ([]model.CategoryTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byName := map[string]float64{}
	for _, t := range s.transactions {
		if t.UserID == userID && t.Kind == kind && inWindow(t.Date, start, end) {
			byName[s.categories[t.CategoryID].Name] += t.Amount
		}
	}

	totals := make([]model.CategoryTotal, 0, len(byName))
	for name, total := range byName {
		totals = append(totals, model.CategoryTotal{Category: name, Total: total})
	}
	return totals, nil
}

func inWindow(date time.Time, start time.Time, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

func (s *memStore) getOrCreateCategory(userID int64, name string) int64 {
	for _, c := range s.categories {
		if c.UserID == userID && c.Name == name {
			return c.ID
		}
	}

	category := model.Category{ID: s.id(), UserID: userID, Name: name}
	s.categories[category.ID] = category
	return category.ID
}

func newTestServer(t *testing.T) (*httptest.Server, *memStore) {
	t.Helper()

	store := newMemStore()

	authService, err := service.NewAuthService("test-secret", 24*time.Hour, store)
	require.NoError(t, err)
	ledger := memLedger{store}
	ledgerService := service.NewLedgerService(store, ledger)
	reportService := service.NewReportService(ledger)

	cfg := &config.Config{
		ServerPort:       "8080",
		RequestTimeout:   30 * time.Second,
		JWTSecret:        "test-secret",
		TokenTTL:         24 * time.Hour,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
	}

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:   handler.NewAuthHandler(authService),
		Ledger: handler.NewLedgerHandler(ledgerService),
		Report: handler.NewReportHandler(reportService),
	})

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)
	return server, store
}

func (s *memStore) addUser(t *testing.T, username string, password string) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := s.Create(context.Background(), username, string(hash))
	require.NoError(t, err)
	return user
}

func login(t *testing.T, server *httptest.Server, username string, password string) model.TokenGrant {
	t.Helper()

	body, err := json.Marshal(model.LoginRequest{Username: username, Password: password})
	require.NoError(t, err)

	resp, err := http.Post(server.URL+"/auth/login", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var grant model.TokenGrant
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&grant))
	require.NotEmpty(t, grant.Token)
	return grant
}

func doJSON(t *testing.T, method string, url string, token string, payload any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if payload == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}
