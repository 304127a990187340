package intents

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/types"
	"github/chapool/intent-wallet/internal/util"
)

func PostConfirmRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Intents.POST("/confirm", postConfirmHandler(s))
}

// postConfirmHandler builds the pending transaction and returns the sign
// request URI for the signer app.
func postConfirmHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		uri, err := s.Orchestrator.Confirm(ctx)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to confirm intent")
			return err
		}

		snap := s.Orchestrator.Snapshot()

		return util.ValidateAndReturn(c, http.StatusOK, &types.DeepLinkResponse{
			URI:     uri,
			State:   swag.String(snap.State.String()),
			Session: swag.String(snap.Session.String()),
		})
	}
}
