package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	MaxImageSize      = 10 << 20
	MaxImagesPerBatch = 20
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
	"image/avif": true,
}

type ImageStore interface {
	Put(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
}

// アップロード1件。multipartに依存しない形にしておく
type UploadFile struct {
	Name        string
	Size        int64
	ContentType string
	Open        func() (io.ReadCloser, error)
}

type UploadedImage struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type FailedImage struct {
	Name  string `json:"name"`
	Error string `json:"error"`
}

type UploadImagesOutput struct {
	Uploaded []UploadedImage `json:"uploaded"`
	Failed   []FailedImage   `json:"failed"`
}

type ImageUsecase struct {
	store ImageStore
}

func NewImageUsecase(store ImageStore) *ImageUsecase {
	return &ImageUsecase{store: store}
}

// 1件ずつ独立してアップロードする。一部失敗しても残りは続ける。
func (u *ImageUsecase) Upload(ctx context.Context, files []UploadFile) (UploadImagesOutput, error) {
	if len(files) == 0 {
		return UploadImagesOutput{}, NewValidationError(map[string]string{"files": "required"})
	}
	if len(files) > MaxImagesPerBatch {
		return UploadImagesOutput{}, NewValidationError(map[string]string{"files": "max"})
	}
	if u.store == nil {
		return UploadImagesOutput{}, NewHTTPError(http.StatusServiceUnavailable, "image storage not configured")
	}

	out := UploadImagesOutput{Uploaded: []UploadedImage{}, Failed: []FailedImage{}}
	for _, f := range files {
		url, err := u.uploadOne(ctx, f)
		if err != nil {
			out.Failed = append(out.Failed, FailedImage{Name: f.Name, Error: err.Error()})
			continue
		}
		out.Uploaded = append(out.Uploaded, UploadedImage{Name: f.Name, URL: url})
	}
	return out, nil
}

func (u *ImageUsecase) uploadOne(ctx context.Context, f UploadFile) (string, error) {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(f.ContentType, ";", 2)[0]))
	if !allowedImageTypes[ct] {
		return "", fmt.Errorf("unsupported content type %q", f.ContentType)
	}
	if f.Size <= 0 {
		return "", fmt.Errorf("empty file")
	}
	if f.Size > MaxImageSize {
		return "", fmt.Errorf("file too large (max %d MB)", MaxImageSize>>20)
	}

	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	defer rc.Close()

	return u.store.Put(ctx, f.Name, rc, f.Size, ct)
}
