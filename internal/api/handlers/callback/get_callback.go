package callback

import (
	"fmt"
	"html"
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	accept "github.com/timewasted/go-accept-headers"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/api/handlers/common"
	"github/chapool/intent-wallet/internal/types"
	"github/chapool/intent-wallet/internal/util"
	"github/chapool/intent-wallet/internal/wallet/orchestrator"
)

const landingPage = `<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>Intent Wallet</title></head>
<body><p>%s</p></body></html>`

func GetCallbackRoute(s *api.Server) *echo.Route {
	return s.Router.Callback.GET("/:flow", getCallbackHandler(s))
}

// getCallbackHandler receives the redirect the signer app opens after a
// request. Browsers get a short landing page, API clients JSON.
func getCallbackHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		result, err := s.Orchestrator.HandleCallback(ctx, c.Request().URL.String())
		if result == orchestrator.CallbackRejected {
			return err
		}

		response := &types.CallbackResponse{
			Result: swag.String(string(result)),
			State:  swag.String(s.Orchestrator.Snapshot().State.String()),
		}
		if err != nil {
			log.Debug().Err(err).Str("result", string(result)).Msg("Callback applied with failure")
			response.Reason = s.I18n.FailureReason(err, common.Language(c, s))
		}

		if wantsHTML(c.Request().Header.Get(echo.HeaderAccept)) {
			message := s.I18n.Translate("callback."+string(result), common.Language(c, s))
			if response.Reason != "" {
				message = response.Reason
			}

			return c.HTML(http.StatusOK, htmlPage(message))
		}

		return util.ValidateAndReturn(c, http.StatusOK, response)
	}
}

func wantsHTML(header string) bool {
	if header == "" {
		return false
	}

	ctype, err := accept.Negotiate(header, echo.MIMEApplicationJSON, echo.MIMETextHTML)
	if err != nil {
		return false
	}

	return ctype == echo.MIMETextHTML
}

func htmlPage(message string) string {
	return fmt.Sprintf(landingPage, html.EscapeString(message))
}
