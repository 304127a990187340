package session

import (
	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/api/handlers/common"
)

func GetSessionRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Session.GET("/session", getSessionHandler(s))
}

func getSessionHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return common.RenderSnapshot(c, s, s.Orchestrator.Snapshot())
	}
}
