package session

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/types"
	"github/chapool/intent-wallet/internal/util"
)

func PostConnectRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Session.POST("/session/connect", postConnectHandler(s))
}

// postConnectHandler returns the connect URI to open in the signer app. The
// server never opens it itself.
func postConnectHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		uri, err := s.Orchestrator.Connect(ctx)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to start connect")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, deepLinkResponse(s, uri))
	}
}

func deepLinkResponse(s *api.Server, uri string) *types.DeepLinkResponse {
	snap := s.Orchestrator.Snapshot()

	return &types.DeepLinkResponse{
		URI:     uri,
		State:   swag.String(snap.State.String()),
		Session: swag.String(snap.Session.String()),
	}
}
