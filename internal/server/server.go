package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/handler"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/middleware"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/validator"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

const shutdownTimeout = 10 * time.Second

// Newに渡す部品
type Options struct {
	Debug      bool // detailをレスポンスに含める（本番以外）
	Sessions   middleware.SessionVerifier
	ConsoleDir string // 空なら管理画面のファイルは配信しない
}

func New(h Handlers, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Debug = opts.Debug
	e.Validator = validator.New()
	e.HTTPErrorHandler = handler.ErrorHandler
	e.Logger.SetLevel(log.INFO)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			if v.Error != nil {
				log.Errorf("%s %s %d %s %v", v.Method, v.URI, v.Status, v.Latency, v.Error)
				return nil
			}
			log.Infof("%s %s %d %s %s", v.Method, v.URI, v.Status, v.Latency, v.RemoteIP)
			return nil
		},
	}))

	RegisterRoutes(e, h, opts)
	return e
}

// ctxが終わったら処理中のリクエストを待って止める
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
