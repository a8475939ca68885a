package handler

import (
	"net/http"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 管理画面PWAのプッシュ購読と送信
type PushHandler struct {
	uc *usecase.PushUsecase
}

func NewPushHandler(uc *usecase.PushUsecase) *PushHandler {
	return &PushHandler{uc: uc}
}

func (h *PushHandler) RegisterRoutes(admin *echo.Group) {
	admin.POST("/push/subscriptions", h.subscribe)
	admin.DELETE("/push/subscriptions", h.unsubscribe)
	admin.POST("/push/send", h.send)
}

func (h *PushHandler) subscribe(c echo.Context) error {
	var req usecase.SubscribeInput
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Subscribe(c.Request().Context(), req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, SuccessResponse{Message: "subscribed"})
}

func (h *PushHandler) unsubscribe(c echo.Context) error {
	var req usecase.UnsubscribeInput
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.Unsubscribe(c.Request().Context(), req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "unsubscribed"})
}

// 一部の端末に届かなくても200（failedに入る）
func (h *PushHandler) send(c echo.Context) error {
	var req usecase.SendPushInput
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}

	out, err := h.uc.Send(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
