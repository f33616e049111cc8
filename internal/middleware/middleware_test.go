package middleware_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/EmpoweredVote/EV-Dashboard/internal/middleware"
	"github.com/EmpoweredVote/EV-Dashboard/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockVerifier implements middleware.TokenVerifier without signing anything.
type mockVerifier struct {
	claims utils.Claims
	err    error
	got    string
}

func (m *mockVerifier) Verify(token string) (utils.Claims, error) {
	m.got = token
	return m.claims, m.err
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// callWithCookie wraps a 200-OK inner handler in mw, optionally setting one
// cookie on the request, and returns the recorded response.
func callWithCookie(t *testing.T, mw func(http.Handler) http.Handler, cookieName, cookieValue string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if cookieName != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: cookieValue})
	}
	rec := httptest.NewRecorder()
	mw(okHandler).ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	rec := callWithCookie(t, middleware.RequireAuth(&mockVerifier{}), "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "NO_TOKEN")
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	v := &mockVerifier{err: fmt.Errorf("verify: %w", middleware.ErrTokenExpired)}

	rec := callWithCookie(t, middleware.RequireAuth(v), middleware.TokenCookie, "expired")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token expired")
	assert.Contains(t, rec.Body.String(), "TOKEN_EXPIRED")
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	v := &mockVerifier{err: errors.New("signature is invalid")}

	rec := callWithCookie(t, middleware.RequireAuth(v), middleware.TokenCookie, "tampered")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TOKEN")
}

func TestRequireAuth_ValidToken(t *testing.T) {
	want := utils.Claims{ID: "acc-1", Email: "a@x.com", Name: "A", Role: "admin"}
	v := &mockVerifier{claims: want}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := utils.GetClaimsFromContext(r.Context())
		if !ok || got != want {
			http.Error(w, "wrong claims in context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: "good"})
	rec := httptest.NewRecorder()
	middleware.RequireAuth(v)(inner).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "good", v.got)
}

func TestRequireAuth_BearerFallback(t *testing.T) {
	v := &mockVerifier{claims: utils.Claims{ID: "acc-1"}}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	rec := httptest.NewRecorder()
	middleware.RequireAuth(v)(okHandler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "abc.def.ghi", v.got)
}

func TestRequireRole_MissingClaims(t *testing.T) {
	rec := httptest.NewRecorder()
	middleware.RequireRole("admin")(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing user ID")
}

func TestRequireRole(t *testing.T) {
	for role, want := range map[string]int{"admin": http.StatusOK, "student": http.StatusForbidden} {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req = req.WithContext(utils.WithClaims(req.Context(), utils.Claims{ID: "acc-1", Role: role}))
		rec := httptest.NewRecorder()

		middleware.RequireRole("admin")(okHandler).ServeHTTP(rec, req)

		assert.Equal(t, want, rec.Code, role)
	}
}

func TestTimeout(t *testing.T) {
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
			w.WriteHeader(http.StatusOK)
		}
	})

	rec := httptest.NewRecorder()
	middleware.Timeout(20*time.Millisecond)(slow).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "REQUEST_TIMEOUT")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestTimeoutPassesFastRequests(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	middleware.Timeout(time.Second)(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
}

func TestRateLimiter(t *testing.T) {
	rl := middleware.NewRateLimiter(60, 2)
	h := rl.Handler(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, http.StatusTooManyRequests}, codes)

	// another client has its own bucket
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", nil)
	req.RemoteAddr = "10.0.0.2:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSAllowsConfiguredOriginWithCredentials(t *testing.T) {
	h := middleware.CORS([]string{"http://localhost:5173"})(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/api/users", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.False(t, strings.Contains(rec.Header().Get("Vary"), "evil"))
}
