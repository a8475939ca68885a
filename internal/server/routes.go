package server

import (
	"path/filepath"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/handler"
	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

type Handlers struct {
	Product      *handler.ProductHandler
	AdminProduct *handler.AdminProductHandler
	Order        *handler.OrderHandler
	AdminOrder   *handler.AdminOrderHandler
	Comment      *handler.CommentHandler
	AdminComment *handler.AdminCommentHandler
	Auth         *handler.AuthHandler
	Push         *handler.PushHandler
	Image        *handler.ImageHandler
	Audit        *handler.AdminAuditHandler
}

func RegisterRoutes(e *echo.Echo, h Handlers, opts Options) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(200, "ok")
	})

	api := e.Group("/api")
	admin := api.Group("/admin", middleware.SessionGuard(opts.Sessions))

	//公開
	h.Product.RegisterRoutes(api)
	h.Order.RegisterRoutes(api)
	h.Comment.RegisterRoutes(api)

	//login/logoutはapi直下、それ以外はセッション必須
	h.Auth.RegisterRoutes(api, admin)
	h.AdminOrder.RegisterRoutes(admin)
	h.AdminProduct.RegisterRoutes(admin)
	h.AdminComment.RegisterRoutes(admin)
	h.Push.RegisterRoutes(admin)
	h.Image.RegisterRoutes(admin)
	h.Audit.RegisterRoutes(admin)

	if opts.ConsoleDir != "" {
		registerConsole(e, opts)
	}
}

// 管理画面とPWAのビルド済みファイル。未知のパスはindex.htmlを返す
func registerConsole(e *echo.Echo, opts Options) {
	for _, prefix := range []string{"/admin", "/pwa"} {
		e.Group(prefix,
			middleware.PageGate(opts.Sessions),
			echomw.StaticWithConfig(echomw.StaticConfig{
				Root:  filepath.Join(opts.ConsoleDir, prefix),
				HTML5: true,
			}),
		)
	}
}
