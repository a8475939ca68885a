package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/middleware"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/ratelimit"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/usecase"

	"github.com/labstack/echo/v4"
)

const (
	commentCookiePrefix = "comment_token_"
	commentTokenHeader  = "X-Comment-Token"
	commentCookieTTL    = 365 * 24 * time.Hour
)

// 商品レビュー。投稿者はアカウントではなくトークンで識別する
type CommentHandler struct {
	uc           *usecase.CommentUsecase
	limiter      ratelimit.Limiter
	cookieSecure bool
}

func NewCommentHandler(uc *usecase.CommentUsecase, limiter ratelimit.Limiter, cookieSecure bool) *CommentHandler {
	return &CommentHandler{uc: uc, limiter: limiter, cookieSecure: cookieSecure}
}

func (h *CommentHandler) RegisterRoutes(api *echo.Group) {
	api.GET("/products/:id/comments", h.listForProduct)
	api.POST("/comments", h.create, middleware.RateLimit(h.limiter, ratelimit.CommentPolicy))
	api.PATCH("/comments/:id", h.update)
	api.DELETE("/comments/:id", h.delete)
}

func (h *CommentHandler) listForProduct(c echo.Context) error {
	out, err := h.uc.ListForProduct(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CommentHandler) create(c echo.Context) error {
	var req usecase.CreateCommentInput
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	//トークンはbodyとCookieの両方で渡す
	c.SetCookie(h.tokenCookie(out.Comment.ID, out.Token, commentCookieTTL))
	return c.JSON(http.StatusCreated, out)
}

func (h *CommentHandler) update(c echo.Context) error {
	var req usecase.OwnerUpdateCommentInput
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}

	id := c.Param("id")
	out, err := h.uc.UpdateByOwner(c.Request().Context(), id, ownerToken(c, id), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CommentHandler) delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.uc.DeleteByOwner(c.Request().Context(), id, ownerToken(c, id)); err != nil {
		return writeError(c, err)
	}

	c.SetCookie(h.tokenCookie(id, "", -1))
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}

// ヘッダー優先、なければCookie
func ownerToken(c echo.Context, commentID string) string {
	if v := strings.TrimSpace(c.Request().Header.Get(commentTokenHeader)); v != "" {
		return v
	}
	cookie, err := c.Cookie(commentCookiePrefix + commentID)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ttl < 0 で削除
func (h *CommentHandler) tokenCookie(commentID, token string, ttl time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     commentCookiePrefix + commentID,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		cookie.MaxAge = -1
		cookie.Expires = time.Unix(0, 0)
		return cookie
	}
	cookie.MaxAge = int(ttl.Seconds())
	cookie.Expires = time.Now().Add(ttl)
	return cookie
}
