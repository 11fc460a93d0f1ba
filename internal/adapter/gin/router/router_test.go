package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"user-directory-service/internal/adapter/db/memory"
	"user-directory-service/internal/adapter/db/relational"
	"user-directory-service/internal/adapter/gin/handler"
	"user-directory-service/internal/config"
	usecase "user-directory-service/internal/usecase/user"
	"user-directory-service/pkg/security"
)

type backend interface {
	usecase.Repository
	handler.Pinger
}

func newMemory(t testing.TB, log *zap.Logger) backend {
	return memory.NewUserRepo(log)
}

func newSQLite(t testing.TB, log *zap.Logger) backend {
	cfg := config.DatabaseConfig{
		Backend:             config.BackendSQLite,
		SQLitePath:          filepath.Join(t.TempDir(), "users.db"),
		SQLiteBusyTimeoutMS: 30000,
		SQLiteJournalMode:   "wal",
		SQLiteForeignKeys:   true,
	}
	dialector, err := relational.Dialector(cfg)
	require.NoError(t, err)
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, relational.Migrate(db))

	repo := relational.NewUserRepo(db, log)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

var backends = map[string]func(testing.TB, *zap.Logger) backend{
	"memory": newMemory,
	"sqlite": newSQLite,
}

func newRouter(t *testing.T, newBackend func(testing.TB, *zap.Logger) backend) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(t)

	repo := newBackend(t, log)
	store := usecase.New(repo, security.NewBcryptHasher(bcrypt.MinCost), log)

	return SetupRouter(
		handler.NewUserHandler(store, log),
		handler.NewHealthHandler("user-directory-service", repo, log),
		log,
	)
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// No response may ever carry credential material.
	lower := strings.ToLower(w.Body.String())
	assert.NotContains(t, lower, "password")
	assert.NotContains(t, lower, "hash")
	assert.NotContains(t, lower, "$2a$")
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestScenario(t *testing.T) {
	for name, newBackend := range backends {
		t.Run(name, func(t *testing.T) {
			r := newRouter(t, newBackend)

			w := do(t, r, http.MethodPost, "/users", map[string]string{"name": "A", "email": "a@x.com", "password": "p1"})
			require.Equal(t, http.StatusCreated, w.Code)
			created := decode[handler.UserResponse](t, w)
			path := fmt.Sprintf("/users/%d", created.ID)

			w = do(t, r, http.MethodPost, "/users", map[string]string{"name": "B", "email": "a@x.com", "password": "p2"})
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Email already registered", decode[handler.ErrorResponse](t, w).Detail)

			w = do(t, r, http.MethodGet, path, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, created, decode[handler.UserResponse](t, w))
			assert.Equal(t, "A", created.Name)

			w = do(t, r, http.MethodPut, path, map[string]string{"name": "A2", "email": "a2@x.com", "password": "p3"})
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "a2@x.com", decode[handler.UserResponse](t, w).Email)

			// The original email is free again.
			w = do(t, r, http.MethodPut, path, map[string]string{"name": "A2", "email": "a@x.com", "password": "p3"})
			require.Equal(t, http.StatusOK, w.Code)

			w = do(t, r, http.MethodDelete, path, nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"message":"User deleted successfully","id":%d}`, created.ID), w.Body.String())

			w = do(t, r, http.MethodGet, path, nil)
			require.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, "User not found", decode[handler.ErrorResponse](t, w).Detail)
		})
	}
}

func TestUpdateDoesNotTouchOtherRecords(t *testing.T) {
	for name, newBackend := range backends {
		t.Run(name, func(t *testing.T) {
			r := newRouter(t, newBackend)

			a := decode[handler.UserResponse](t, do(t, r, http.MethodPost, "/users", map[string]string{"name": "A", "email": "a@x.com", "password": "p"}))
			b := decode[handler.UserResponse](t, do(t, r, http.MethodPost, "/users", map[string]string{"name": "B", "email": "b@x.com", "password": "p"}))

			w := do(t, r, http.MethodPut, fmt.Sprintf("/users/%d", a.ID), map[string]string{"name": "A2", "email": "a2@x.com", "password": "q"})
			require.Equal(t, http.StatusOK, w.Code)

			// Taking b's email is rejected.
			w = do(t, r, http.MethodPut, fmt.Sprintf("/users/%d", a.ID), map[string]string{"name": "A3", "email": "b@x.com", "password": "q"})
			require.Equal(t, http.StatusBadRequest, w.Code)

			w = do(t, r, http.MethodGet, "/users", nil)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, []handler.UserResponse{
				{ID: a.ID, Name: "A2", Email: "a2@x.com"},
				b,
			}, decode[[]handler.UserResponse](t, w))
		})
	}
}

func TestNotFoundAndBadInput(t *testing.T) {
	r := newRouter(t, newMemory)

	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/users/999", nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPut, "/users/999", map[string]string{"name": "X", "email": "x@x.com", "password": "p"}).Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/users/999", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodGet, "/users/abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, r, http.MethodPost, "/users", map[string]string{"name": "X", "email": "not-an-email", "password": "p"}).Code)
}

func TestHealthEndpoint(t *testing.T) {
	r := newRouter(t, newSQLite)

	w := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("x-request-id"))
}
