package wellknown

import (
	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/api/httperrors"
)

// The redirect base can be a universal link so the signer app returns to the
// dapp instead of a browser. These files verify the domain for it.

func GetAppleAppSiteAssociationRoute(s *api.Server) *echo.Route {
	return s.Router.WellKnown.GET("/apple-app-site-association", getAppleAppSiteAssociationHandler(s))
}

func getAppleAppSiteAssociationHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return serveWellKnown(c, s.Config.Paths.AppleAppSiteAssociationFile)
	}
}

func GetAndroidAssetlinksRoute(s *api.Server) *echo.Route {
	return s.Router.WellKnown.GET("/assetlinks.json", getAndroidAssetlinksHandler(s))
}

func getAndroidAssetlinksHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return serveWellKnown(c, s.Config.Paths.AndroidAssetlinksFile)
	}
}

func serveWellKnown(c echo.Context, path string) error {
	if path == "" {
		return httperrors.ErrNotFoundWellKnownFile
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=0, must-revalidate")
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	return c.File(path)
}
