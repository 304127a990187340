package httperrors

import (
	"fmt"
	"net/http"
	"strings"

	oaerrors "github.com/go-openapi/errors"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github/chapool/intent-wallet/internal/types"
)

type HTTPError struct {
	types.PublicHTTPError
	Internal error `json:"-"`
}

func NewHTTPError(code int, errorType types.PublicHTTPErrorType, title string) *HTTPError {
	return &HTTPError{
		PublicHTTPError: types.PublicHTTPError{
			Code:  swag.Int64(int64(code)),
			Type:  swag.String(string(errorType)),
			Title: swag.String(title),
		},
	}
}

func NewHTTPErrorWithDetail(code int, errorType types.PublicHTTPErrorType, title string, detail string) *HTTPError {
	e := NewHTTPError(code, errorType, title)
	e.Detail = detail

	return e
}

func NewFromEcho(e *echo.HTTPError) *HTTPError {
	return NewHTTPError(e.Code, types.PublicHTTPErrorTypeGeneric, http.StatusText(e.Code))
}

// NewFromValidation converts go-openapi validation errors of a request body.
func NewFromValidation(err error) *HTTPError {
	e := NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidRequest, "Request body is invalid.")
	e.Internal = err

	var details []*types.HTTPValidationErrorDetail
	collectValidation(err, &details)
	e.ValidationErrors = details

	return e
}

func collectValidation(err error, details *[]*types.HTTPValidationErrorDetail) {
	switch v := err.(type) {
	case *oaerrors.CompositeError:
		for _, inner := range v.Errors {
			collectValidation(inner, details)
		}
	case *oaerrors.Validation:
		*details = append(*details, &types.HTTPValidationErrorDetail{
			Key:   swag.String(v.Name),
			In:    swag.String(v.In),
			Error: swag.String(v.Error()),
		})
	}
}

func (e *HTTPError) StatusCode() int {
	return int(swag.Int64Value(e.Code))
}

func (e *HTTPError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "HTTPError %d (%s): %s", swag.Int64Value(e.Code), swag.StringValue(e.Type), swag.StringValue(e.Title))

	if e.Detail != "" {
		fmt.Fprintf(&b, " - %s", e.Detail)
	}
	if e.Internal != nil {
		fmt.Fprintf(&b, ", %v", e.Internal)
	}

	return b.String()
}
