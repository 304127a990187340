package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/util"
)

const statusNotReady = 521

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// Readiness check
// This endpoint returns 200 when the server is ready to serve traffic (i.e. is wired completely).
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if errs := ProbeReadiness(ctx, s); len(errs) > 0 {
			util.LogFromContext(ctx).Warn().Errs("errors", errs).Msg("Readiness probe failed")
			return c.String(statusNotReady, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
