package types

import (
	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/validate"
)

const (
	maxPromptLength = 2000
	maxProofLength  = 256
)

// PostIntentPayload submits a prompt for interpretation.
type PostIntentPayload struct {
	// Required: true
	// Max Length: 2000
	// Min Length: 1
	Prompt *string `json:"prompt"`
}

func (m *PostIntentPayload) Validate(_ strfmt.Registry) error {
	var res []error

	if err := m.validatePrompt(); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

func (m *PostIntentPayload) validatePrompt() error {
	if err := validate.Required("prompt", "body", m.Prompt); err != nil {
		return err
	}

	if err := validate.MinLength("prompt", "body", *m.Prompt, 1); err != nil {
		return err
	}

	if err := validate.MaxLength("prompt", "body", *m.Prompt, maxPromptLength); err != nil {
		return err
	}

	return nil
}

// PostPaymentPayload supplies the proof of a settled payment.
type PostPaymentPayload struct {
	// Required: true
	// Max Length: 256
	// Min Length: 1
	Proof *string `json:"proof"`
}

func (m *PostPaymentPayload) Validate(_ strfmt.Registry) error {
	var res []error

	if err := m.validateProof(); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}

	return nil
}

func (m *PostPaymentPayload) validateProof() error {
	if err := validate.Required("proof", "body", m.Proof); err != nil {
		return err
	}

	if err := validate.MinLength("proof", "body", *m.Proof, 1); err != nil {
		return err
	}

	if err := validate.MaxLength("proof", "body", *m.Proof, maxProofLength); err != nil {
		return err
	}

	return nil
}
