package handler

import (
	"net/http"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/usecase"

	"github.com/labstack/echo/v4"
)

// チェックアウト（ログイン不要）
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) RegisterRoutes(api *echo.Group) {
	api.POST("/commandes", h.create)
	api.GET("/commandes/:id", h.detail)
}

// 通知はジョブに積むだけで待たない
func (h *OrderHandler) create(c echo.Context) error {
	var req usecase.CreateOrderInput
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

// 公開側は連絡先を伏せた表示。全項目は /api/admin/commandes/:id
func (h *OrderHandler) detail(c echo.Context) error {
	out, err := h.uc.GetPublicOrder(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
