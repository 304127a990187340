package gateway_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/intent-wallet/internal/wallet/failure"
	"github/chapool/intent-wallet/internal/wallet/gateway"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

// fakeNode answers JSON-RPC calls with canned results keyed by method.
type fakeNode struct {
	mu       sync.Mutex
	results  map[string]any
	errors   map[string]string
	requests []rpcRequest
}

func newFakeNode(t *testing.T) (*fakeNode, *httptest.Server) {
	t.Helper()

	node := &fakeNode{results: map[string]any{}, errors: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		node.mu.Lock()
		node.requests = append(node.requests, req)
		result, hasResult := node.results[req.Method]
		msg, hasError := node.errors[req.Method]
		node.mu.Unlock()

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		switch {
		case hasError:
			resp["error"] = map[string]any{"code": -32002, "message": msg}
		case hasResult:
			resp["result"] = result
		default:
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	return node, srv
}

func (n *fakeNode) lastRequest(t *testing.T) rpcRequest {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.requests)
	return n.requests[len(n.requests)-1]
}

func withContext(value any) map[string]any {
	return map[string]any{"context": map[string]any{"slot": 1}, "value": value}
}

func TestGetRecentBlockhash(t *testing.T) {
	node, srv := newFakeNode(t)
	hash := solana.HashFromBytes([]byte("0123456789abcdef0123456789abcdef"))
	node.results["getLatestBlockhash"] = withContext(map[string]any{
		"blockhash":            hash.String(),
		"lastValidBlockHeight": 4242,
	})

	clock := time2.NewMockClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	gw := gateway.NewRPCGateway(srv.URL, rpc.CommitmentConfirmed, clock)
	defer gw.Close()

	stamp, err := gw.GetRecentBlockhash(t.Context())
	require.NoError(t, err)
	assert.Equal(t, hash, stamp.Blockhash)
	assert.Equal(t, uint64(4242), stamp.LastValidBlockHeight)
	assert.Equal(t, clock.Now(), stamp.FetchedAt)

	clock.Advance(10 * time.Second)
	assert.Equal(t, 10*time.Second, stamp.Age(clock.Now()))
}

func TestGetBalance(t *testing.T) {
	node, srv := newFakeNode(t)
	node.results["getBalance"] = withContext(5_000_000)

	gw := gateway.NewRPCGateway(srv.URL, "", time2.DefaultClock)
	address := solana.NewWallet().PublicKey()

	balance, err := gw.GetBalance(t.Context(), address)
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000), balance)

	req := node.lastRequest(t)
	assert.Equal(t, "getBalance", req.Method)
	var param string
	require.NoError(t, json.Unmarshal(req.Params[0], &param))
	assert.Equal(t, address.String(), param)
}

func TestGetMinimumBalanceForRentExemption(t *testing.T) {
	node, srv := newFakeNode(t)
	node.results["getMinimumBalanceForRentExemption"] = 1_461_600

	gw := gateway.NewRPCGateway(srv.URL, rpc.CommitmentFinalized, time2.DefaultClock)

	lamports, err := gw.GetMinimumBalanceForRentExemption(t.Context(), 82)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_461_600), lamports)

	var size uint64
	require.NoError(t, json.Unmarshal(node.lastRequest(t).Params[0], &size))
	assert.Equal(t, uint64(82), size)
}

func TestSubmitRaw(t *testing.T) {
	node, srv := newFakeNode(t)
	sig := solana.SignatureFromBytes(make([]byte, 64))
	sig[0] = 1
	node.results["sendTransaction"] = sig.String()

	gw := gateway.NewRPCGateway(srv.URL, "", time2.DefaultClock)
	raw := []byte{1, 2, 3, 4}

	id, err := gw.SubmitRaw(t.Context(), raw)
	require.NoError(t, err)
	assert.Equal(t, sig.String(), id)

	var encoded string
	require.NoError(t, json.Unmarshal(node.lastRequest(t).Params[0], &encoded))
	assert.Equal(t, base64.StdEncoding.EncodeToString(raw), encoded)
}

func TestNetworkErrorsCarryOperation(t *testing.T) {
	node, srv := newFakeNode(t)
	node.errors["sendTransaction"] = "Transaction simulation failed"
	node.errors["getLatestBlockhash"] = "node is behind"
	node.errors["getBalance"] = "node is behind"

	gw := gateway.NewRPCGateway(srv.URL, "", time2.DefaultClock)

	_, err := gw.SubmitRaw(t.Context(), []byte{1})
	e, ok := failure.As(err)
	require.True(t, ok)
	assert.Equal(t, failure.KindNetwork, e.Kind)
	assert.Equal(t, failure.OpSubmitRaw, e.Op)
	assert.Contains(t, err.Error(), "Transaction simulation failed")
	assert.False(t, failure.IsRetryable(err))

	_, err = gw.GetRecentBlockhash(t.Context())
	assert.True(t, failure.IsRetryable(err))

	_, err = gw.GetBalance(t.Context(), solana.NewWallet().PublicKey())
	assert.True(t, failure.IsRetryable(err))
}

func TestUnreachableNode(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gw := gateway.NewRPCGateway(url, "", time2.DefaultClock)
	_, err := gw.GetRecentBlockhash(t.Context())
	assert.True(t, failure.Is(err, failure.KindNetwork))
}

func TestDefaultEndpoint(t *testing.T) {
	endpoint, err := gateway.DefaultEndpoint("devnet")
	require.NoError(t, err)
	assert.Equal(t, rpc.DevNet_RPC, endpoint)

	endpoint, err = gateway.DefaultEndpoint("mainnet-beta")
	require.NoError(t, err)
	assert.Equal(t, rpc.MainNetBeta_RPC, endpoint)

	_, err = gateway.DefaultEndpoint("moonnet")
	assert.Error(t, err)
}
