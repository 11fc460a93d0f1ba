package router

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"user-directory-service/internal/adapter/gin/handler"
	usecase "user-directory-service/internal/usecase/user"
	"user-directory-service/pkg/security"
)

func benchRouter(b *testing.B, newBackend func(testing.TB, *zap.Logger) backend) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	log := zap.NewNop()

	repo := newBackend(b, log)
	store := usecase.New(repo, security.NewBcryptHasher(bcrypt.MinCost), log)

	return SetupRouter(
		handler.NewUserHandler(store, log),
		handler.NewHealthHandler("user-directory-service", repo, log),
		log,
	)
}

func serve(b *testing.B, r *gin.Engine, method, path string, body []byte, want int) {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != want {
		b.Fatalf("%s %s: got status %d, want %d: %s", method, path, w.Code, want, w.Body.String())
	}
}

func BenchmarkCreateUser(b *testing.B) {
	for name, newBackend := range backends {
		b.Run(name, func(b *testing.B) {
			r := benchRouter(b, newBackend)
			var counter int64

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				id := atomic.AddInt64(&counter, 1)
				body := fmt.Appendf(nil, `{"name":"User %d","email":"user_%d@example.com","password":"pw"}`, id, id)
				serve(b, r, http.MethodPost, "/users", body, http.StatusCreated)
			}
		})
	}
}

func BenchmarkGetUser(b *testing.B) {
	for name, newBackend := range backends {
		b.Run(name, func(b *testing.B) {
			r := benchRouter(b, newBackend)
			serve(b, r, http.MethodPost, "/users",
				[]byte(`{"name":"Bench","email":"bench@example.com","password":"pw"}`), http.StatusCreated)

			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(p *testing.PB) {
				for p.Next() {
					req := httptest.NewRequest(http.MethodGet, "/users/1", nil)
					w := httptest.NewRecorder()
					r.ServeHTTP(w, req)
					if w.Code != http.StatusOK {
						b.Errorf("got status %d", w.Code)
						return
					}
				}
			})
		})
	}
}

func BenchmarkListUsers(b *testing.B) {
	for name, newBackend := range backends {
		b.Run(name, func(b *testing.B) {
			r := benchRouter(b, newBackend)
			for i := 1; i <= 100; i++ {
				body := fmt.Appendf(nil, `{"name":"User %d","email":"user_%d@example.com","password":"pw"}`, i, i)
				serve(b, r, http.MethodPost, "/users", body, http.StatusCreated)
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				serve(b, r, http.MethodGet, "/users", nil, http.StatusOK)
			}
		})
	}
}
