package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/middleware"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/ratelimit"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/session"
	auth "github.com/MaisonSlimani/maison-slimani-app-sub002/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type AuthHandler struct {
	loginUC      *auth.LoginUsecase // ログインusecase
	limiter      ratelimit.Limiter
	cookieSecure bool
}

// DIコンストラクタ
func NewAuthHandler(loginUC *auth.LoginUsecase, limiter ratelimit.Limiter, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		loginUC:      loginUC,
		limiter:      limiter,
		cookieSecure: cookieSecure,
	}
}

// /api/admin/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginとlogoutはセッションなしで呼べる。meだけadminグループ
func (h *AuthHandler) RegisterRoutes(api *echo.Group, admin *echo.Group) {
	api.POST("/admin/login", h.login, middleware.RateLimit(h.limiter, ratelimit.LoginPolicy))
	api.POST("/admin/logout", h.logout)
	admin.GET("/me", h.me)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			//メールとパスワードのどちらが違うかは返さない
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: auth.ErrInvalidCredentials.Error()})
		}
		log.Errorf("login: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}

	h.setSessionCookie(c, out.Token, out.ExpiresAt)
	return c.JSON(http.StatusOK, out)
}

// Cookieを消すだけ（サーバー側に失効リストはない）
func (h *AuthHandler) logout(c echo.Context) error {
	h.setSessionCookie(c, "", time.Unix(0, 0))
	return c.JSON(http.StatusOK, SuccessResponse{Message: "logged out"})
}

func (h *AuthHandler) me(c echo.Context) error {
	email, err := actorEmail(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"email": email})
}

// session cookie をセット。空の値は削除
func (h *AuthHandler) setSessionCookie(c echo.Context, token string, exp time.Time) {
	cookie := &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
		Expires:  exp,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	c.SetCookie(cookie)
}
