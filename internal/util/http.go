package util

import (
	"net/http"

	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/api/httperrors"
)

// BindAndValidateBody binds the JSON request body into v and validates it.
func BindAndValidateBody(c echo.Context, v runtime.Validatable) error {
	binder := &echo.DefaultBinder{}
	if err := binder.BindBody(c, v); err != nil {
		log := LogFromEchoContext(c)
		log.Debug().Err(err).Msg("Failed to bind request body")

		return httperrors.ErrBadRequestInvalidJSON
	}

	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Debug().Err(err).Msg("Request body failed validation")
		return httperrors.NewFromValidation(err)
	}

	return nil
}

// ValidateAndReturn validates a response before sending it. An invalid
// response is a programming error and answered with 500.
func ValidateAndReturn(c echo.Context, code int, v runtime.Validatable) error {
	if err := v.Validate(strfmt.Default); err != nil {
		LogFromEchoContext(c).Error().Err(err).Msg("Response failed validation")
		return echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}

	return c.JSON(code, v)
}
