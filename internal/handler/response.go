package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/middleware"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/usecase"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// エラーレスポンス。detailは開発環境（e.Debug）だけ
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
	Detail string            `json:"detail,omitempty"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		res := ErrorResponse{Error: he.Message, Fields: he.Fields}
		if c.Echo().Debug {
			res.Detail = he.Detail
		}
		if he.Status >= http.StatusInternalServerError {
			log.Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		}
		return c.JSON(he.Status, res)
	}
	if fe, ok := validator.AsFieldErrors(err); ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error", Fields: fe})
	}

	//500
	log.Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	res := ErrorResponse{Error: "internal error"}
	if c.Echo().Debug {
		res.Detail = err.Error()
	}
	return c.JSON(http.StatusInternalServerError, res)
}

// echoが返すエラー（ルートなし、Bind失敗など）も同じ形にする
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(he.Code)
			return
		}
		_ = c.JSON(he.Code, ErrorResponse{Error: msg})
		return
	}
	_ = writeError(c, err)
}

func bindJSON(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return usecase.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	return nil
}

// クエリの整数。空ならdef
func queryInt(c echo.Context, name string, def int) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, usecase.NewValidationError(map[string]string{name: "numeric"})
	}
	return n, nil
}

func queryBool(c echo.Context, name string) (*bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, usecase.NewValidationError(map[string]string{name: "boolean"})
	}
	return &b, nil
}

// SessionGuardが入れた操作者（監査ログ用）
func actorEmail(c echo.Context) (string, error) {
	email, ok := middleware.AdminEmail(c)
	if !ok {
		return "", usecase.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return email, nil
}
