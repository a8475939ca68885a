package usecase

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/validator"
)

// handlerでそのままレスポンスにするエラー
// Detailは本番以外でだけ返す
type HTTPError struct {
	Status  int
	Message string
	Fields  map[string]string
	Detail  string
	err     error
}

func (e *HTTPError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error { return e.err }

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

// 下位のエラーを包む（500など）
func WrapHTTPError(status int, message string, err error) error {
	he := &HTTPError{Status: status, Message: message, err: err}
	if err != nil {
		he.Detail = err.Error()
	}
	return he
}

func NewValidationError(fields map[string]string) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: "validation error",
		Fields:  fields,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func dbError(err error) error {
	return WrapHTTPError(http.StatusInternalServerError, "db error", err)
}

// タグ検証 + 追加のフィールドエラーをまとめて400にする
func validateInput(in any, extra map[string]string) error {
	fields := map[string]string{}
	if err := validator.Struct(in); err != nil {
		fe, ok := validator.AsFieldErrors(err)
		if !ok {
			return WrapHTTPError(http.StatusInternalServerError, "validation failed", err)
		}
		for k, v := range fe {
			fields[k] = v
		}
	}
	for k, v := range extra {
		if _, exists := fields[k]; !exists {
			fields[k] = v
		}
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}
