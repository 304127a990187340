package httperrors

import (
	"net/http"

	"github/chapool/intent-wallet/internal/types"
)

var (
	ErrBadRequestInvalidJSON     = NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidRequest, "Request body is not valid JSON.")
	ErrNotFoundWellKnownFile     = NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeWellKnownFileNotPresent, "The requested well-known file is not configured.")
	ErrInternalServerErrorHidden = NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusInternalServerError))
)
