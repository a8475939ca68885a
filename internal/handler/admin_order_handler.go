package handler

import (
	"net/http"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/repository"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AdminOrderHandler struct {
	uc     *usecase.AdminOrderUsecase
	orders *usecase.OrderUsecase
}

func NewAdminOrderHandler(uc *usecase.AdminOrderUsecase, orders *usecase.OrderUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{uc: uc, orders: orders}
}

func (h *AdminOrderHandler) RegisterRoutes(admin *echo.Group) {
	admin.GET("/commandes", h.list)
	admin.GET("/commandes/:id", h.detail)
	admin.PATCH("/commandes/:id", h.updateStatus)
	admin.DELETE("/commandes/:id", h.delete)
}

func (h *AdminOrderHandler) list(c echo.Context) error {
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return writeError(c, err)
	}
	limit, err := queryInt(c, "limit", 50)
	if err != nil {
		return writeError(c, err)
	}

	var fromPtr *time.Time
	if v := c.QueryParam("from"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return writeError(c, usecase.NewValidationError(map[string]string{"from": "datetime"}))
		}
		fromPtr = &tm
	}

	var toPtr *time.Time
	if v := c.QueryParam("to"); v != "" {
		tm, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return writeError(c, usecase.NewValidationError(map[string]string{"to": "datetime"}))
		}
		toPtr = &tm
	}

	out, err := h.uc.List(c.Request().Context(), repository.OrderListFilter{
		Page:   page,
		Limit:  limit,
		Statut: c.QueryParam("statut"),
		From:   fromPtr,
		To:     toPtr,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) detail(c echo.Context) error {
	out, err := h.orders.GetOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminOrderHandler) updateStatus(c echo.Context) error {
	// 操作した管理者（監査ログ用）
	actor, err := actorEmail(c)
	if err != nil {
		return writeError(c, err)
	}

	var req usecase.AdminUpdateOrderStatusInput
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}

	order, err := h.uc.UpdateStatus(c.Request().Context(), actor, c.Param("id"), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *AdminOrderHandler) delete(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
