package handler

import (
	"net/http"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /api/admin/products
type AdminProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewAdminProductHandler(uc *usecase.ProductUsecase) *AdminProductHandler {
	return &AdminProductHandler{uc: uc}
}

// adminはSessionGuard済みのグループ
func (h *AdminProductHandler) RegisterRoutes(admin *echo.Group) {
	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return writeError(c, err)
	}

	var req usecase.AdminProductInput
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}

	p, err := h.uc.AdminCreateProduct(c.Request().Context(), actor, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return writeError(c, err)
	}

	var req usecase.AdminProductInput
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}

	if err := h.uc.AdminUpdateProduct(c.Request().Context(), actor, c.Param("id"), req); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "updated"})
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	actor, err := actorEmail(c)
	if err != nil {
		return writeError(c, err)
	}

	if err := h.uc.AdminDeleteProduct(c.Request().Context(), actor, c.Param("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, SuccessResponse{Message: "deleted"})
}
