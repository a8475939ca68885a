package handler

import (
	"io"
	"net/http"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 商品画像の一括アップロード
type ImageHandler struct {
	uc *usecase.ImageUsecase
}

func NewImageHandler(uc *usecase.ImageUsecase) *ImageHandler {
	return &ImageHandler{uc: uc}
}

func (h *ImageHandler) RegisterRoutes(admin *echo.Group) {
	admin.POST("/images", h.upload)
}

// "file"（1件）と"files"（複数）のどちらで来ても1つのリストにする
func (h *ImageHandler) upload(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return writeError(c, usecase.NewHTTPError(http.StatusBadRequest, "invalid multipart form"))
	}

	var files []usecase.UploadFile
	for _, field := range []string{"file", "files"} {
		for _, fh := range form.File[field] {
			files = append(files, usecase.UploadFile{
				Name:        fh.Filename,
				Size:        fh.Size,
				ContentType: fh.Header.Get(echo.HeaderContentType),
				Open: func() (io.ReadCloser, error) {
					return fh.Open()
				},
			})
		}
	}

	out, err := h.uc.Upload(c.Request().Context(), files)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
