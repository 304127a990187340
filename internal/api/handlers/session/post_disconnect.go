package session

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/util"
)

func PostDisconnectRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Session.POST("/session/disconnect", postDisconnectHandler(s))
}

func postDisconnectHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		uri, err := s.Orchestrator.Disconnect(c.Request().Context())
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, deepLinkResponse(s, uri))
	}
}
