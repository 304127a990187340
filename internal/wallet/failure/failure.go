// Package failure holds the error taxonomy shared by the wallet components.
// Every error that can end an intent or a session carries a Kind so the
// orchestrator and the HTTP layer can derive a user-visible reason from it.
package failure

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an error.
type Kind string

const (
	KindUnknown                       Kind = "unknown"
	KindEncoding                      Kind = "encoding"
	KindKeyAgreement                  Kind = "key_agreement"
	KindDecryption                    Kind = "decryption"
	KindCallbackParse                 Kind = "callback_parse"
	KindSignerRejected                Kind = "signer_rejected"
	KindUnrecognizedTransactionFormat Kind = "unrecognized_transaction_format"
	KindUnsupportedForVersioned       Kind = "unsupported_for_versioned"
	KindInvalidMetadataFields         Kind = "invalid_metadata_fields"
	KindNotConnected                  Kind = "not_connected"
	KindNetwork                       Kind = "network"
	KindPaymentRequired               Kind = "payment_required"
	KindIntentInFlight                Kind = "intent_in_flight"
	KindInvalidIntent                 Kind = "invalid_intent"
	KindInvalidState                  Kind = "invalid_state"
	KindFeePayerMismatch              Kind = "fee_payer_mismatch"
)

// Network operation names used in KindNetwork errors.
const (
	OpGetRecentBlockhash = "get_recent_blockhash"
	OpGetBalance         = "get_balance"
	OpGetRentExemption   = "get_minimum_balance_for_rent_exemption"
	OpSubmitRaw          = "submit_raw"
	OpInterpret          = "interpret"
)

// Error is the concrete error type of the taxonomy.
type Error struct {
	Kind    Kind
	Op      string // network operation, only set for KindNetwork
	Code    string // error code reported by the external signer
	Amount  uint64 // lamports demanded by the payment gate
	Message string
	Err     error
}

func (e *Error) Error() string {
	var msg string

	switch e.Kind {
	case KindNetwork:
		msg = fmt.Sprintf("network error during %s", e.Op)
	case KindSignerRejected:
		msg = fmt.Sprintf("signer reported error %s", e.Code)
	case KindPaymentRequired:
		msg = fmt.Sprintf("payment required: %d lamports", e.Amount)
	default:
		msg = string(e.Kind)
	}

	if e.Message != "" {
		msg += ": " + e.Message
	}

	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Cause satisfies the pkg/errors causer interface.
func (e *Error) Cause() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and a message to err.
func Wrap(kind Kind, err error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Network wraps a gateway failure verbatim.
func Network(op string, err error) *Error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

// PaymentRequired signals the metered-access gate.
func PaymentRequired(amount uint64) *Error {
	return &Error{Kind: KindPaymentRequired, Amount: amount}
}

// SignerRejected is the passthrough of an errorCode/errorMessage callback.
func SignerRejected(code string, message string) *Error {
	return &Error{Kind: KindSignerRejected, Code: code, Message: message}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}

	return nil, false
}

// KindOf returns the kind of the first *Error in err's chain, or KindUnknown.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}

	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsRetryable is true only for network failures of idempotent reads.
// Submission is never retried: the transaction may have landed already.
func IsRetryable(err error) bool {
	e, ok := As(err)
	if !ok || e.Kind != KindNetwork {
		return false
	}

	switch e.Op {
	case OpGetRecentBlockhash, OpGetBalance, OpGetRentExemption:
		return true
	default:
		return false
	}
}

// IsSessionFatal reports whether err indicates a desynced key exchange that
// requires the session to be torn down and a fresh key pair generated.
func IsSessionFatal(err error) bool {
	switch KindOf(err) {
	case KindDecryption, KindKeyAgreement:
		return true
	default:
		return false
	}
}
