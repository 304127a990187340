package intent_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/intent-wallet/internal/wallet/failure"
	"github/chapool/intent-wallet/internal/wallet/intent"
)

func newInterpreter(t *testing.T, handler http.HandlerFunc) *intent.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return intent.NewClient(srv.URL+"/agent/execute", 5*time.Second)
}

func reply(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func testRequest() intent.Request {
	return intent.Request{
		Prompt:     "Send 0.01 SOL to someone",
		UserPubkey: solana.NewWallet().PublicKey().String(),
		Network:    intent.NetworkDevnet,
	}
}

func TestInterpretTransferDeferred(t *testing.T) {
	recipient := solana.NewWallet().PublicKey()
	req := testRequest()

	client := newInterpreter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/agent/execute", r.URL.Path)
		assert.Empty(t, r.Header.Get(intent.HeaderPaymentProof))

		var got intent.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, req, got)

		reply(w, http.StatusOK, map[string]any{
			"message":     "Sending SOL...",
			"action_type": "TRANSFER",
			"meta":        map[string]any{"amount": 0.01, "recipient": recipient.String()},
		})
	})

	res, err := client.Interpret(t.Context(), req, "")
	require.NoError(t, err)
	require.IsType(t, intent.Transfer{}, res)

	transfer := res.(intent.Transfer)
	assert.Equal(t, recipient, transfer.Recipient)
	assert.Equal(t, "0.01", transfer.Amount.String())
	assert.Nil(t, transfer.Tx)

	summary := res.Summary()
	assert.Equal(t, intent.ActionTransfer, summary.Action)
	assert.Equal(t, "0.01", summary.Amount)
	assert.Equal(t, recipient.String(), summary.Recipient)
}

func TestInterpretSwapBlob(t *testing.T) {
	blob := []byte{0x80, 1, 2, 3}
	client := newInterpreter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "proof-sig", r.Header.Get(intent.HeaderPaymentProof))
		reply(w, http.StatusOK, map[string]any{
			"message":     "Swapping 1 SOL to USDC",
			"action_type": "SWAP",
			"tx_base64":   base64.StdEncoding.EncodeToString(blob),
			"meta":        map[string]any{"amount": "1", "token_in": "SOL", "token_out": "USDC"},
		})
	})

	res, err := client.Interpret(t.Context(), testRequest(), "proof-sig")
	require.NoError(t, err)
	require.IsType(t, intent.Swap{}, res)

	swap := res.(intent.Swap)
	assert.Equal(t, blob, swap.Tx)
	assert.Equal(t, "SOL", swap.TokenIn)
	assert.Equal(t, "USDC", swap.TokenOut)
}

func TestInterpretMintDefaults(t *testing.T) {
	client := newInterpreter(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, map[string]any{
			"message":     "Minting NFT...",
			"action_type": "MINT_NFT",
			"meta":        map[string]any{"uri": "https://arweave.net/placeholder"},
		})
	})

	res, err := client.Interpret(t.Context(), testRequest(), "")
	require.NoError(t, err)
	require.IsType(t, intent.MintNFT{}, res)

	mint := res.(intent.MintNFT)
	assert.Equal(t, intent.DefaultMintName, mint.Metadata.Name)
	assert.Equal(t, intent.DefaultMintSymbol, mint.Metadata.Symbol)
	assert.Equal(t, "https://arweave.net/placeholder", mint.Metadata.URI)
}

func TestInterpretPaymentRequired(t *testing.T) {
	client := newInterpreter(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusPaymentRequired, map[string]any{
			"error":   "Payment Required",
			"address": "merchant",
			"amount":  5000,
		})
	})

	_, err := client.Interpret(t.Context(), testRequest(), "")
	e, ok := failure.As(err)
	require.True(t, ok)
	assert.Equal(t, failure.KindPaymentRequired, e.Kind)
	assert.Equal(t, uint64(5000), e.Amount)
}

func TestInterpretErrorEnvelope(t *testing.T) {
	client := newInterpreter(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusBadRequest, map[string]any{"action_type": "ERROR", "message": "Unknown Action"})
	})

	res, err := client.Interpret(t.Context(), testRequest(), "")
	require.NoError(t, err)
	assert.Equal(t, intent.ErrorReply{Message: "Unknown Action"}, res)
}

func TestInterpretRejectsUnknownAction(t *testing.T) {
	client := newInterpreter(t, func(w http.ResponseWriter, _ *http.Request) {
		reply(w, http.StatusOK, map[string]any{"action_type": "LP", "message": "Adding liquidity"})
	})

	_, err := client.Interpret(t.Context(), testRequest(), "")
	assert.True(t, failure.Is(err, failure.KindInvalidIntent))
}

func TestInterpretRejectsIncompletePayloads(t *testing.T) {
	for name, body := range map[string]map[string]any{
		"swap without tx":         {"action_type": "SWAP", "message": "swap"},
		"transfer without target": {"action_type": "TRANSFER", "message": "send", "meta": map[string]any{"amount": 1}},
		"transfer bad recipient":  {"action_type": "TRANSFER", "meta": map[string]any{"amount": 1, "recipient": "not-a-key"}},
		"transfer without amount": {"action_type": "TRANSFER", "meta": map[string]any{"recipient": solana.NewWallet().PublicKey().String()}},
	} {
		t.Run(name, func(t *testing.T) {
			client := newInterpreter(t, func(w http.ResponseWriter, _ *http.Request) {
				reply(w, http.StatusOK, body)
			})

			_, err := client.Interpret(t.Context(), testRequest(), "")
			assert.True(t, failure.Is(err, failure.KindInvalidIntent), "%v", err)
		})
	}
}

func TestInterpretServerFailure(t *testing.T) {
	client := newInterpreter(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.Interpret(t.Context(), testRequest(), "")
	e, ok := failure.As(err)
	require.True(t, ok)
	assert.Equal(t, failure.KindNetwork, e.Kind)
	assert.Equal(t, failure.OpInterpret, e.Op)
	assert.Contains(t, err.Error(), "500")
}

func TestInterpretValidatesRequest(t *testing.T) {
	client := newInterpreter(t, func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("request must not be sent")
	})

	req := testRequest()
	req.Prompt = ""
	_, err := client.Interpret(t.Context(), req, "")
	assert.True(t, failure.Is(err, failure.KindInvalidIntent))
}

func TestNetworkForCluster(t *testing.T) {
	assert.Equal(t, intent.NetworkMainnet, intent.NetworkForCluster("mainnet-beta"))
	assert.Equal(t, intent.NetworkDevnet, intent.NetworkForCluster("devnet"))
	assert.Equal(t, intent.NetworkDevnet, intent.NetworkForCluster("localnet"))
}
