package middleware

import (
	"net/http"
	"strconv"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/ratelimit"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// クライアントごとに上限を超えたら429 + Retry-After
func RateLimit(limiter ratelimit.Limiter, policy ratelimit.Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := policy.Key(ratelimit.ClientID(c.Request()))

			d, err := limiter.Check(c.Request().Context(), key, policy.Limit, policy.Window)
			if err != nil {
				//ストアが落ちていてもリクエストは通す
				log.Errorf("ratelimit: %s: %v", key, err)
				return next(c)
			}
			if !d.Allowed {
				c.Response().Header().Set("Retry-After", strconv.Itoa(d.RetryAfterSeconds))
				return c.JSON(http.StatusTooManyRequests, errorJSON("too many requests"))
			}
			return next(c)
		}
	}
}
