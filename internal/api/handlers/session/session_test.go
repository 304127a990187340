package session_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/test"
	"github/chapool/intent-wallet/internal/types"
	"github/chapool/intent-wallet/internal/wallet/deeplink"
)

func TestConnectAndBalance(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/api/v1/balance", nil, nil)
		test.RequireHTTPErrorType(t, res, http.StatusConflict, "not_connected")

		res = test.PerformRequest(t, s, "POST", "/api/v1/session/connect", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var connect types.DeepLinkResponse
		test.ParseResponseAndValidate(t, res, &connect)
		assert.Contains(t, connect.URI, deeplink.MethodConnect)
		assert.Equal(t, "connecting", swag.StringValue(connect.Session))

		signer := test.NewSigner(t)
		res = test.PerformRequest(t, s, "GET", test.CallbackPath(t, signer.ApproveConnect(connect.URI)), nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		res = test.PerformRequest(t, s, "GET", "/api/v1/balance", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var balance types.BalanceResponse
		test.ParseResponseAndValidate(t, res, &balance)
		assert.Equal(t, signer.Address().String(), swag.StringValue(balance.Address))
		assert.Equal(t, int64(test.DefaultBalance), swag.Int64Value(balance.Lamports))
		assert.Equal(t, "2.5", swag.StringValue(balance.Sol))

		res = test.PerformRequest(t, s, "GET", "/api/v1/session", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var snap map[string]any
		require.NoError(t, json.Unmarshal(res.Body.Bytes(), &snap))
		assert.Equal(t, "connected", snap["session"])
		assert.Equal(t, signer.Address().String(), snap["address"])
		assert.EqualValues(t, test.DefaultBalance, snap["balance_lamports"])
	})
}

func TestDisconnect(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		signer := test.NewSigner(t)
		test.ConnectSigner(t, s, signer)

		res := test.PerformRequest(t, s, "POST", "/api/v1/session/disconnect", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		var response types.DeepLinkResponse
		test.ParseResponseAndValidate(t, res, &response)
		assert.Contains(t, response.URI, deeplink.MethodDisconnect)
		assert.Equal(t, "disconnected", swag.StringValue(response.Session))

		res = test.PerformRequest(t, s, "POST", "/api/v1/session/disconnect", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		test.ParseResponseAndValidate(t, res, &response)
		assert.Empty(t, response.URI)
	})
}
