package handlers

import (
	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/api/handlers/callback"
	"github/chapool/intent-wallet/internal/api/handlers/common"
	"github/chapool/intent-wallet/internal/api/handlers/intents"
	"github/chapool/intent-wallet/internal/api/handlers/session"
	"github/chapool/intent-wallet/internal/api/handlers/wellknown"
)

func AttachAllRoutes(s *api.Server) {
	// attach our routes
	s.Router.Routes = append(s.Router.Routes, []*echo.Route{
		callback.GetCallbackRoute(s),
		common.GetHealthyRoute(s),
		common.GetReadyRoute(s),
		intents.GetCurrentRoute(s),
		intents.PostCancelRoute(s),
		intents.PostConfirmRoute(s),
		intents.PostIntentRoute(s),
		intents.PostPaymentRoute(s),
		intents.PostResubmitRoute(s),
		session.GetBalanceRoute(s),
		session.GetSessionRoute(s),
		session.PostConnectRoute(s),
		session.PostDisconnectRoute(s),
		wellknown.GetAndroidAssetlinksRoute(s),
		wellknown.GetAppleAppSiteAssociationRoute(s),
	}...)
}
