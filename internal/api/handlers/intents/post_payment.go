package intents

import (
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/api/handlers/common"
	"github/chapool/intent-wallet/internal/types"
	"github/chapool/intent-wallet/internal/util"
)

func PostPaymentRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Intents.POST("/payment", postPaymentHandler(s))
}

func postPaymentHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostPaymentPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		snap, err := s.Orchestrator.SupplyPayment(ctx, swag.StringValue(body.Proof))
		if err != nil {
			return err
		}

		return common.RenderSnapshot(c, s, snap)
	}
}
