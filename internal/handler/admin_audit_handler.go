package handler

import (
	"net/http"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/domain/model"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminAuditHandler struct {
	uc *usecase.AuditUsecase
}

func NewAdminAuditHandler(uc *usecase.AuditUsecase) *AdminAuditHandler {
	return &AdminAuditHandler{uc: uc}
}

func (h *AdminAuditHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/audit-logs", h.list)
}

func (h *AdminAuditHandler) list(c echo.Context) error {
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return writeError(c, err)
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return writeError(c, err)
	}

	f := repository.AuditLogFilter{Limit: limit, Offset: offset}
	if v := c.QueryParam("actor"); v != "" {
		f.ActorEmail = &v
	}
	if v := c.QueryParam("action"); v != "" {
		a := model.AuditAction(v)
		f.Action = &a
	}
	if v := c.QueryParam("resource_type"); v != "" {
		t := model.AuditResourceType(v)
		f.ResourceType = &t
	}
	if v := c.QueryParam("resource_id"); v != "" {
		f.ResourceID = &v
	}

	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
