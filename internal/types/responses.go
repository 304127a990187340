package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

// DeepLinkResponse carries a URI the caller must open in the signer app.
// URI is empty when there is nothing to hand over.
type DeepLinkResponse struct {
	URI string `json:"uri"`

	// Required: true
	State *string `json:"state"`

	// Required: true
	Session *string `json:"session"`
}

func (m *DeepLinkResponse) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("state", "body", m.State); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("session", "body", m.Session); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

// BalanceResponse is the balance of the connected wallet.
type BalanceResponse struct {
	// Required: true
	Address *string `json:"address"`

	// Required: true
	// Minimum: 0
	Lamports *int64 `json:"lamports"`

	// Required: true
	Sol *string `json:"sol"`
}

func (m *BalanceResponse) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("address", "body", m.Address); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("lamports", "body", m.Lamports); err != nil {
		res = append(res, err)
	} else if err := validate.MinimumInt("lamports", "body", *m.Lamports, 0, false); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("sol", "body", m.Sol); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

// CallbackResponse reports how a signer callback was handled.
type CallbackResponse struct {
	// Required: true
	// Enum: [applied discarded unrecognized rejected]
	Result *string `json:"result"`

	// Required: true
	State *string `json:"state"`

	Reason string `json:"reason,omitempty"`
}

var callbackResultEnum = []any{"applied", "discarded", "unrecognized", "rejected"}

func (m *CallbackResponse) Validate(_ strfmt.Registry) error {
	var res []error

	if err := validate.Required("result", "body", m.Result); err != nil {
		res = append(res, err)
	} else if err := validate.EnumCase("result", "body", *m.Result, callbackResultEnum, true); err != nil {
		res = append(res, err)
	}

	if err := validate.Required("state", "body", m.State); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}
