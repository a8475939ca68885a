package middleware

import (
	"net/http"
	"strings"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/session"

	"github.com/labstack/echo/v4"
)

// SessionGuardが入れる管理者のメールアドレス
const CtxAdminEmailKey = "admin_email"

// セッションCookieを検証する約束（session.Manager）
type SessionVerifier interface {
	Verify(token string) (string, bool)
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// /api/admin/* 用。セッションがなければ401（理由は区別しない）
func SessionGuard(sessions SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, ok := verifyCookie(c, sessions)
			if !ok {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxAdminEmailKey, email)
			return next(c)
		}
	}
}

// SessionGuardを通ったリクエストの管理者
func AdminEmail(c echo.Context) (string, bool) {
	email, ok := c.Get(CtxAdminEmailKey).(string)
	if !ok || email == "" {
		return "", false
	}
	return email, true
}

func verifyCookie(c echo.Context, sessions SessionVerifier) (string, bool) {
	cookie, err := c.Cookie(session.CookieName)
	if err != nil {
		return "", false
	}
	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}
	return sessions.Verify(value)
}
