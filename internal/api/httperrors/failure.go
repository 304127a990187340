package httperrors

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github/chapool/intent-wallet/internal/types"
	"github/chapool/intent-wallet/internal/wallet/failure"
)

type mapping struct {
	code      int
	errorType types.PublicHTTPErrorType
}

var kinds = map[failure.Kind]mapping{
	failure.KindNotConnected:                  {http.StatusConflict, types.PublicHTTPErrorTypeNotConnected},
	failure.KindIntentInFlight:                {http.StatusConflict, types.PublicHTTPErrorTypeIntentInFlight},
	failure.KindInvalidState:                  {http.StatusConflict, types.PublicHTTPErrorTypeInvalidState},
	failure.KindSignerRejected:                {http.StatusConflict, types.PublicHTTPErrorTypeSignerRejected},
	failure.KindPaymentRequired:               {http.StatusPaymentRequired, types.PublicHTTPErrorTypePaymentRequired},
	failure.KindInvalidIntent:                 {http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidIntent},
	failure.KindInvalidMetadataFields:         {http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidIntent},
	failure.KindUnrecognizedTransactionFormat: {http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidTransaction},
	failure.KindUnsupportedForVersioned:       {http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidTransaction},
	failure.KindFeePayerMismatch:              {http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidTransaction},
	failure.KindEncoding:                      {http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidRequest},
	failure.KindCallbackParse:                 {http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidRequest},
	failure.KindKeyAgreement:                  {http.StatusBadRequest, types.PublicHTTPErrorTypeSessionFailure},
	failure.KindDecryption:                    {http.StatusBadRequest, types.PublicHTTPErrorTypeSessionFailure},
	failure.KindNetwork:                       {http.StatusBadGateway, types.PublicHTTPErrorTypeNetwork},
}

// NewFromFailure maps a failure kind to its HTTP status. title is the
// localized reason. ok is false for errors outside the taxonomy.
func NewFromFailure(err error, title string) (*HTTPError, bool) {
	f, ok := failure.As(err)
	if !ok {
		return nil, false
	}

	m, ok := kinds[f.Kind]
	if !ok {
		return nil, false
	}

	e := NewHTTPError(m.code, m.errorType, title)
	e.Internal = err

	if f.Kind == failure.KindPaymentRequired {
		e.Amount = swag.Int64(int64(f.Amount))
	}
	if f.Kind == failure.KindSignerRejected {
		e.Detail = f.Code
	}

	return e, true
}
