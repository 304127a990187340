package intents

import (
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/api/handlers/common"
	"github/chapool/intent-wallet/internal/types"
	"github/chapool/intent-wallet/internal/util"
)

func PostIntentRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Intents.POST("", postIntentHandler(s))
}

// postIntentHandler interprets a prompt and parks it for confirmation. A
// metered interpreter answers 402 with the amount to pay.
func postIntentHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostIntentPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		snap, err := s.Orchestrator.Submit(ctx, swag.StringValue(body.Prompt))
		if err != nil {
			log.Debug().Err(err).Msg("Failed to submit intent")
			return err
		}

		return common.RenderSnapshot(c, s, snap)
	}
}
