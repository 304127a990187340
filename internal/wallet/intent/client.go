// Package intent talks to the external interpretation service that turns a
// free-text prompt into a structured action, and decodes its loosely typed
// reply into a closed set of interpretations.
package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github/chapool/intent-wallet/internal/wallet/failure"
)

// HeaderPaymentProof carries the proof of payment for the metered endpoint.
const HeaderPaymentProof = "X-Payment-Sig"

const maxErrorBodyBytes = 4 << 10

// Interpreter turns a prompt into an Interpretation. A metered interpreter
// fails with a failure.KindPaymentRequired error until paymentProof is accepted.
type Interpreter interface {
	Interpret(ctx context.Context, req Request, paymentProof string) (Interpretation, error)
}

// Client is the HTTP Interpreter.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     zerolog.Logger
}

var _ Interpreter = (*Client)(nil)

func NewClient(endpoint string, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.With().Str("component", "intent").Logger(),
	}
}

func (c *Client) Interpret(ctx context.Context, req Request, paymentProof string) (Interpretation, error) {
	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(req.Prompt, "prompt"),
		vala.StringNotEmpty(string(req.Network), "network"),
	).Check()
	if err != nil {
		return nil, failure.Wrap(failure.KindInvalidIntent, err, "invalid interpretation request")
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, failure.Wrap(failure.KindEncoding, err, "failed to marshal interpretation request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, failure.Network(failure.OpInterpret, errors.Wrap(err, "failed to create request"))
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if paymentProof != "" {
		httpReq.Header.Set(HeaderPaymentProof, paymentProof)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, failure.Network(failure.OpInterpret, errors.Wrap(err, "failed to send request"))
	}
	defer resp.Body.Close()

	c.logger.Debug().Int("status", resp.StatusCode).Bool("payment_proof", paymentProof != "").Msg("Interpreter replied")

	switch resp.StatusCode {
	case http.StatusOK:
		var body response
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, failure.Wrap(failure.KindInvalidIntent, err, "failed to decode interpretation")
		}

		return decodeResponse(body)

	case http.StatusPaymentRequired:
		var body paymentRequiredBody
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to decode payment required body")
		}

		return nil, failure.PaymentRequired(body.Amount)

	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))

		// the interpreter reports rejections as an ERROR envelope with a non 2xx status
		var body response
		if err := json.Unmarshal(raw, &body); err == nil && body.ActionType == ActionError {
			return ErrorReply{Message: body.Message}, nil
		}

		return nil, failure.Network(failure.OpInterpret, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(raw)))
	}
}
