package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/util"
)

func GetHealthyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/healthy", getHealthyHandler(s))
}

// Health check
// Returns 200 while the RPC node answers. The signer app is not probed, it is
// only reachable through the user's device.
func getHealthyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if errs := ProbeLiveness(ctx, s); len(errs) > 0 {
			util.LogFromContext(ctx).Warn().Errs("errors", errs).Msg("Liveness probe failed")
			return c.String(statusNotReady, "Not healthy.")
		}

		return c.String(http.StatusOK, "Healthy.")
	}
}
