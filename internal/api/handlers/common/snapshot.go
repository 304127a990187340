package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/wallet/orchestrator"
	"golang.org/x/text/language"
)

// Language is the best supported language of the request.
func Language(c echo.Context, s *api.Server) language.Tag {
	return s.I18n.ParseAcceptLanguage(c.Request().Header.Get("Accept-Language"))
}

// RenderSnapshot answers with snap, its failure reasons localized.
func RenderSnapshot(c echo.Context, s *api.Server, snap orchestrator.Snapshot) error {
	lang := Language(c, s)

	if snap.Failure != nil {
		snap.Reason = s.I18n.FailureReason(snap.Failure, lang)
	}
	if snap.SessionFailure != nil {
		snap.SessionReason = s.I18n.FailureReason(snap.SessionFailure, lang)
	}

	return c.JSON(http.StatusOK, snap)
}
