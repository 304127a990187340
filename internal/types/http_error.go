package types

// PublicHTTPErrorType is the machine readable error type of an HTTP error.
type PublicHTTPErrorType string

const (
	PublicHTTPErrorTypeGeneric                 PublicHTTPErrorType = "generic"
	PublicHTTPErrorTypeInvalidRequest          PublicHTTPErrorType = "invalid_request"
	PublicHTTPErrorTypeNotConnected            PublicHTTPErrorType = "not_connected"
	PublicHTTPErrorTypePaymentRequired         PublicHTTPErrorType = "payment_required"
	PublicHTTPErrorTypeIntentInFlight          PublicHTTPErrorType = "intent_in_flight"
	PublicHTTPErrorTypeInvalidState            PublicHTTPErrorType = "invalid_state"
	PublicHTTPErrorTypeInvalidIntent           PublicHTTPErrorType = "invalid_intent"
	PublicHTTPErrorTypeInvalidTransaction      PublicHTTPErrorType = "invalid_transaction"
	PublicHTTPErrorTypeSignerRejected          PublicHTTPErrorType = "signer_rejected"
	PublicHTTPErrorTypeSessionFailure          PublicHTTPErrorType = "session_failure"
	PublicHTTPErrorTypeNetwork                 PublicHTTPErrorType = "network"
	PublicHTTPErrorTypeWellKnownFileNotPresent PublicHTTPErrorType = "well_known_file_not_present"
)

// PublicHTTPError is the JSON body of every error response.
type PublicHTTPError struct {
	// HTTP status code
	// Required: true
	Code *int64 `json:"status"`

	// More detailed, human-readable, optional explanation of the error
	Detail string `json:"detail,omitempty"`

	// Short, human-readable description of the error
	// Required: true
	Title *string `json:"title"`

	// Type of error returned, should be used for client-side error handling
	// Required: true
	Type *string `json:"type"`

	// Lamports demanded, only set for payment_required
	Amount *int64 `json:"amount,omitempty"`

	// Field level validation errors of a request body
	ValidationErrors []*HTTPValidationErrorDetail `json:"validationErrors,omitempty"`
}

type HTTPValidationErrorDetail struct {
	// Required: true
	Key *string `json:"key"`

	// Required: true
	In *string `json:"in"`

	// Required: true
	Error *string `json:"error"`
}
