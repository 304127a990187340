package common_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/test"
)

func TestGetHealthy(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)
		require.Equal(t, "Healthy.", res.Body.String())
	})
}

func TestGetHealthyNodeDown(t *testing.T) {
	test.WithTestServer(t, func(s *api.Server) {
		test.GatewayOf(t, s).StampFailures = 1

		res := test.PerformRequest(t, s, "GET", "/-/healthy", nil, nil)
		require.Equal(t, 521, res.Result().StatusCode)
		require.Equal(t, "Not healthy.", res.Body.String())
	})
}
