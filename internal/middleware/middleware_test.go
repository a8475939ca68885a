package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/ratelimit"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/session"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminEmail = "admin@maison-slimani.com"

func newSessions(t *testing.T) *session.Manager {
	t.Helper()
	m, err := session.NewManager(strings.Repeat("k", 32))
	require.NoError(t, err)
	return m
}

func sessionCookie(t *testing.T, m *session.Manager) *http.Cookie {
	t.Helper()
	token, err := m.Create(adminEmail)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: token}
}

func newGuardedEcho(m *session.Manager) *echo.Echo {
	e := echo.New()
	g := e.Group("/api/admin", SessionGuard(m))
	g.GET("/me", func(c echo.Context) error {
		email, _ := AdminEmail(c)
		return c.String(http.StatusOK, email)
	})
	return e
}

func TestSessionGuard_NoCookie(t *testing.T) {
	e := newGuardedEcho(newSessions(t))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestSessionGuard_ForgedCookie(t *testing.T) {
	other, err := session.NewManager(strings.Repeat("x", 32))
	require.NoError(t, err)
	e := newGuardedEcho(newSessions(t))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(sessionCookie(t, other))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionGuard_ValidCookie(t *testing.T) {
	m := newSessions(t)
	e := newGuardedEcho(m)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)
	req.AddCookie(sessionCookie(t, m))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, adminEmail, rec.Body.String())
}

func TestPageGate(t *testing.T) {
	m := newSessions(t)
	e := echo.New()
	e.Use(PageGate(m))
	ok := func(c echo.Context) error { return c.String(http.StatusOK, "page") }
	e.GET("/admin", ok)
	e.GET("/admin/*", ok)
	e.GET("/pwa/*", ok)
	e.GET("/administrator", ok)
	e.GET("/produits", ok)

	tests := []struct {
		name     string
		path     string
		loggedIn bool
		code     int
		location string
	}{
		{name: "admin without session", path: "/admin/commandes", code: http.StatusFound, location: "/admin/login"},
		{name: "admin root without session", path: "/admin", code: http.StatusFound, location: "/admin/login"},
		{name: "pwa without session", path: "/pwa/commandes", code: http.StatusFound, location: "/pwa/login"},
		{name: "login page without session", path: "/admin/login", code: http.StatusOK},
		{name: "login page with session", path: "/admin/login", loggedIn: true, code: http.StatusFound, location: "/admin"},
		{name: "pwa login with session", path: "/pwa/login", loggedIn: true, code: http.StatusFound, location: "/pwa"},
		{name: "admin with session", path: "/admin/commandes", loggedIn: true, code: http.StatusOK},
		{name: "similar prefix is public", path: "/administrator", code: http.StatusOK},
		{name: "storefront is public", path: "/produits", code: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.loggedIn {
				req.AddCookie(sessionCookie(t, m))
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}

type failingLimiter struct{}

func (failingLimiter) Check(ctx context.Context, key string, limit int, window time.Duration) (ratelimit.Decision, error) {
	return ratelimit.Decision{}, errors.New("redis down")
}

func newLimitedEcho(l ratelimit.Limiter) *echo.Echo {
	e := echo.New()
	e.POST("/api/comments", func(c echo.Context) error {
		return c.NoContent(http.StatusCreated)
	}, RateLimit(l, ratelimit.CommentPolicy))
	return e
}

func postComment(e *echo.Echo, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/comments", nil)
	req.Header.Set("X-Forwarded-For", ip)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_SixthRequestIsRejected(t *testing.T) {
	e := newLimitedEcho(ratelimit.NewMemoryStore())

	for i := 0; i < 5; i++ {
		rec := postComment(e, "203.0.113.7")
		require.Equal(t, http.StatusCreated, rec.Code, "request %d", i+1)
	}

	rec := postComment(e, "203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "3600", rec.Header().Get("Retry-After"))

	//別クライアントは影響を受けない
	assert.Equal(t, http.StatusCreated, postComment(e, "198.51.100.1").Code)
}

func TestRateLimit_StoreErrorLetsRequestThrough(t *testing.T) {
	e := newLimitedEcho(failingLimiter{})
	assert.Equal(t, http.StatusCreated, postComment(e, "203.0.113.7").Code)
}
