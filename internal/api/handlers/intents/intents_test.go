package intents_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/go-openapi/swag"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/test"
	"github/chapool/intent-wallet/internal/types"
	"github/chapool/intent-wallet/internal/wallet/failure"
	"github/chapool/intent-wallet/internal/wallet/intent"
	"github/chapool/intent-wallet/internal/wallet/orchestrator"
	"github/chapool/intent-wallet/internal/wallet/txbuilder"
)

var recipient = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")

func transferInterpreter(_ context.Context, _ intent.Request, _ string) (intent.Interpretation, error) {
	return intent.Transfer{
		Message:   "Sending 0.01 SOL",
		Amount:    decimal.RequireFromString("0.01"),
		Recipient: recipient,
		Network:   "devnet",
	}, nil
}

func snapshotOf(t *testing.T, body []byte) map[string]any {
	t.Helper()

	var snap map[string]any
	require.NoError(t, json.Unmarshal(body, &snap))

	return snap
}

func TestSubmitConfirmAndSign(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		test.InterpreterOf(t, s).Set(transferInterpreter)
		signer := test.NewSigner(t)
		test.ConnectSigner(t, s, signer)

		res := test.PerformRequest(t, s, "POST", "/api/v1/intents", map[string]string{"prompt": "send 0.01 SOL"}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		snap := snapshotOf(t, res.Body.Bytes())
		assert.Equal(t, string(orchestrator.StateAwaitingConfirmation), snap["state"])
		current := snap["intent"].(map[string]any)
		assert.Equal(t, "send 0.01 SOL", current["prompt"])
		assert.Equal(t, true, current["deferred"])

		res = test.PerformRequest(t, s, "POST", "/api/v1/intents/confirm", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var confirm types.DeepLinkResponse
		test.ParseResponseAndValidate(t, res, &confirm)
		assert.Equal(t, string(orchestrator.StateSigning), swag.StringValue(confirm.State))

		test.ClockOf(t, s).Advance(12 * time.Second)

		res = test.PerformRequest(t, s, "GET", test.CallbackPath(t, signer.ApproveSign(confirm.URI)), nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var callback types.CallbackResponse
		test.ParseResponseAndValidate(t, res, &callback)
		assert.Equal(t, string(orchestrator.CallbackApplied), swag.StringValue(callback.Result))
		assert.Equal(t, string(orchestrator.StateDone), swag.StringValue(callback.State))

		res = test.PerformRequest(t, s, "GET", "/api/v1/intents/current", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		snap = snapshotOf(t, res.Body.Bytes())
		assert.Equal(t, test.DefaultConfirmation, snap["confirmation_id"])
		assert.Len(t, test.GatewayOf(t, s).Submitted, 1)

		res = test.PerformRequest(t, s, "GET", "/metrics", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Contains(t, res.Body.String(), "intent_wallet_signer_roundtrip_seconds_sum 12")

		// replaying the same callback changes nothing
		res = test.PerformRequest(t, s, "GET", test.CallbackPath(t, signer.ApproveSign(confirm.URI)), nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		test.ParseResponseAndValidate(t, res, &callback)
		assert.Equal(t, string(orchestrator.CallbackDiscarded), swag.StringValue(callback.Result))
	})
}

func TestSubmitInvalidBody(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "POST", "/api/v1/intents", map[string]string{}, nil)
		response := test.RequireHTTPErrorType(t, res, http.StatusBadRequest, string(types.PublicHTTPErrorTypeInvalidRequest))
		require.Len(t, response.ValidationErrors, 1)
		assert.Equal(t, "prompt", swag.StringValue(response.ValidationErrors[0].Key))
	})
}

func TestSubmitWhileInFlight(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		test.InterpreterOf(t, s).Set(transferInterpreter)

		res := test.PerformRequest(t, s, "POST", "/api/v1/intents", map[string]string{"prompt": "send 0.01 SOL"}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "POST", "/api/v1/intents", map[string]string{"prompt": "send 1 SOL"}, nil)
		test.RequireHTTPErrorType(t, res, http.StatusConflict, string(types.PublicHTTPErrorTypeIntentInFlight))

		res = test.PerformRequest(t, s, "POST", "/api/v1/intents/cancel", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Equal(t, string(orchestrator.StateIdle), snapshotOf(t, res.Body.Bytes())["state"])
	})
}

func TestConfirmNotConnected(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		test.InterpreterOf(t, s).Set(transferInterpreter)

		res := test.PerformRequest(t, s, "POST", "/api/v1/intents", map[string]string{"prompt": "send 0.01 SOL"}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "POST", "/api/v1/intents/confirm", nil, http.Header{"Accept-Language": {"de"}})
		response := test.RequireHTTPErrorType(t, res, http.StatusConflict, string(types.PublicHTTPErrorTypeNotConnected))
		assert.NotEqual(t, s.I18n.FailureReason(failure.New(failure.KindNotConnected, "connect a wallet before confirming"), s.Config.I18n.DefaultLanguage), swag.StringValue(response.Title))

		res = test.PerformRequest(t, s, "GET", "/api/v1/intents/current", nil, nil)
		snap := snapshotOf(t, res.Body.Bytes())
		assert.Equal(t, string(orchestrator.StateFailed), snap["state"])
		assert.NotEmpty(t, snap["reason"])
	})
}

func TestPaymentRequired(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		test.InterpreterOf(t, s).Set(func(_ context.Context, _ intent.Request, proof string) (intent.Interpretation, error) {
			if proof != "paid" {
				return nil, failure.PaymentRequired(5000)
			}

			return intent.MintNFT{Message: "Minting", Metadata: txbuilder.Metadata{Name: "AI Gen", Symbol: "AI", URI: "https://example.com/a.json"}}, nil
		})

		res := test.PerformRequest(t, s, "POST", "/api/v1/intents", map[string]string{"prompt": "mint"}, nil)
		response := test.RequireHTTPErrorType(t, res, http.StatusPaymentRequired, string(types.PublicHTTPErrorTypePaymentRequired))
		assert.Equal(t, int64(5000), swag.Int64Value(response.Amount))

		res = test.PerformRequest(t, s, "POST", "/api/v1/intents/payment", map[string]string{"proof": "paid"}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		snap := snapshotOf(t, res.Body.Bytes())
		assert.Equal(t, string(orchestrator.StateAwaitingConfirmation), snap["state"])
		assert.Nil(t, snap["payment_required"])
	})
}

func TestResubmitAfterSubmitFailure(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		test.InterpreterOf(t, s).Set(transferInterpreter)
		signer := test.NewSigner(t)
		test.ConnectSigner(t, s, signer)

		gw := test.GatewayOf(t, s)
		gw.SubmitErr = failure.Network(failure.OpSubmitRaw, errors.New("node unavailable"))

		res := test.PerformRequest(t, s, "POST", "/api/v1/intents/resubmit", nil, nil)
		test.RequireHTTPErrorType(t, res, http.StatusConflict, string(types.PublicHTTPErrorTypeInvalidState))

		res = test.PerformRequest(t, s, "POST", "/api/v1/intents", map[string]string{"prompt": "send 0.01 SOL"}, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "POST", "/api/v1/intents/confirm", nil, nil)
		var confirm types.DeepLinkResponse
		test.ParseResponseAndValidate(t, res, &confirm)

		res = test.PerformRequest(t, s, "GET", test.CallbackPath(t, signer.ApproveSign(confirm.URI)), nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		var callback types.CallbackResponse
		test.ParseResponseAndValidate(t, res, &callback)
		assert.Equal(t, string(orchestrator.StateFailed), swag.StringValue(callback.State))
		assert.NotEmpty(t, callback.Reason)

		gw.SubmitErr = nil
		res = test.PerformRequest(t, s, "POST", "/api/v1/intents/resubmit", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		assert.Equal(t, string(orchestrator.StateAwaitingConfirmation), snapshotOf(t, res.Body.Bytes())["state"])
	})
}
