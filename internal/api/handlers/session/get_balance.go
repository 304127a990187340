package session

import (
	"math"
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/types"
	"github/chapool/intent-wallet/internal/util"
	"github/chapool/intent-wallet/internal/wallet/txbuilder"
)

func GetBalanceRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Session.GET("/balance", getBalanceHandler(s))
}

func getBalanceHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		lamports, err := s.Orchestrator.Balance(ctx)
		if err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Failed to get balance")
			return err
		}

		address, _ := s.App.Session.Address()

		response := &types.BalanceResponse{
			Address:  swag.String(address.String()),
			Lamports: swag.Int64(int64(min(lamports, math.MaxInt64))),
			Sol:      swag.String(txbuilder.LamportsToSOL(lamports).String()),
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}
