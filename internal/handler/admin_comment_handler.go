package handler

import (
	"net/http"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/usecase"

	"github.com/labstack/echo/v4"
)

// コメントのモデレーション
type AdminCommentHandler struct {
	uc *usecase.CommentUsecase
}

func NewAdminCommentHandler(uc *usecase.CommentUsecase) *AdminCommentHandler {
	return &AdminCommentHandler{uc: uc}
}

func (h *AdminCommentHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/comments", h.list)
	admin.PATCH("/comments/:id", h.update)
	admin.DELETE("/comments/:id", h.delete)
}

func (h *AdminCommentHandler) list(c echo.Context) error {
	flagged, err := queryBool(c, "flagged")
	if err != nil {
		return writeError(c, err)
	}
	approved, err := queryBool(c, "approved")
	if err != nil {
		return writeError(c, err)
	}
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return writeError(c, err)
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.AdminList(c.Request().Context(), repository.CommentListFilter{
		ProduitID: c.QueryParam("produit_id"),
		Flagged:   flagged,
		Approved:  approved,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCommentHandler) update(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return writeError(c, err)
	}

	var req usecase.AdminUpdateCommentInput
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.AdminUpdate(c.Request().Context(), actor, c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminCommentHandler) delete(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.AdminDelete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
