package intents

import (
	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/api/handlers/common"
)

func PostCancelRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Intents.POST("/cancel", postCancelHandler(s))
}

func postCancelHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		snap, err := s.Orchestrator.Cancel(c.Request().Context())
		if err != nil {
			return err
		}

		return common.RenderSnapshot(c, s, snap)
	}
}
