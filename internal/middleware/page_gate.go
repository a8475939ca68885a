package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// 管理画面・PWAのページ。ログインページはゲートの外側
type consoleArea struct {
	prefix string
	login  string
}

var consoleAreas = []consoleArea{
	{prefix: "/admin", login: "/admin/login"},
	{prefix: "/pwa", login: "/pwa/login"},
}

// /admin*, /pwa* のページ用ゲート。
// セッションがなければログインページへ、ログイン済みでログインページに来たらトップへ戻す。
func PageGate(sessions SessionVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			area, ok := matchArea(c.Request().URL.Path)
			if !ok {
				return next(c)
			}

			_, valid := verifyCookie(c, sessions)
			onLogin := isUnder(c.Request().URL.Path, area.login)

			switch {
			case !valid && !onLogin:
				return c.Redirect(http.StatusFound, area.login)
			case valid && onLogin:
				return c.Redirect(http.StatusFound, area.prefix)
			}
			return next(c)
		}
	}
}

func matchArea(path string) (consoleArea, bool) {
	for _, a := range consoleAreas {
		if isUnder(path, a.prefix) {
			return a, true
		}
	}
	return consoleArea{}, false
}

// "/admin" と "/admin/..." は一致、"/administrator" は一致しない
func isUnder(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+"/")
}
