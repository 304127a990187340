package router

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/api/httperrors"
	"github/chapool/intent-wallet/internal/util"
)

// HTTPErrorHandler renders every error as a types.PublicHTTPError. Wallet
// failures carry a localized title chosen by Accept-Language.
func HTTPErrorHandler(s *api.Server) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		log := util.LogFromEchoContext(c)

		var he *httperrors.HTTPError
		var ee *echo.HTTPError

		switch {
		case errors.As(err, &he):
		case errors.As(err, &ee):
			if ee.Code == http.StatusInternalServerError && s.Config.Echo.HideInternalServerErrorDetails {
				he = httperrors.ErrInternalServerErrorHidden
			} else {
				he = httperrors.NewFromEcho(ee)
			}
		default:
			lang := s.I18n.ParseAcceptLanguage(c.Request().Header.Get("Accept-Language"))

			var ok bool
			he, ok = httperrors.NewFromFailure(err, s.I18n.FailureReason(err, lang))
			if !ok {
				log.Error().Err(err).Msg("Unhandled error")
				he = httperrors.ErrInternalServerErrorHidden
			}
		}

		code := he.StatusCode()
		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", code).Msg("Request failed")
		} else {
			log.Debug().Err(err).Int("status", code).Msg("Request failed")
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, he)
		}
		if werr != nil {
			log.Error().Err(werr).Msg("Failed to write error response")
		}
	}
}
