package middleware

import (
	"crypto/subtle"

	xhttp "MarketPulse/pkg/http"

	"github.com/labstack/echo/v4"
)

const cronSecretHeader = "x-cron-secret"

// CronSecret guards scheduled-job endpoints. Requests must carry the shared
// secret in the x-cron-secret header; an empty configured secret rejects
// everything so a misconfigured deployment fails closed.
func CronSecret(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return xhttp.ForbiddenResponse(c, "cron endpoints disabled")
			}
			got := c.Request().Header.Get(cronSecretHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
				return xhttp.UnauthorizedResponse(c, "invalid cron secret")
			}
			return next(c)
		}
	}
}
