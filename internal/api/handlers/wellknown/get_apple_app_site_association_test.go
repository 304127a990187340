package wellknown_test

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/api/httperrors"
	"github/chapool/intent-wallet/internal/config"
	"github/chapool/intent-wallet/internal/test"
)

func testGetWellKnown(t *testing.T, config config.Server, path string, file string) {
	t.Helper()

	expected, err := os.ReadFile(file)
	require.NoError(t, err)

	test.WithTestServerConfigurable(t, config, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", path, nil, nil)
		require.Equal(t, http.StatusOK, res.Result().StatusCode)

		result, err := io.ReadAll(res.Body)
		require.NoError(t, err)

		require.JSONEq(t, string(expected), string(result))
	})
}

func TestGetAppleWellKnown(t *testing.T) {
	config := test.Config()
	config.Paths.AppleAppSiteAssociationFile = filepath.Join(test.TestdataDir(), "apple-app-site-association.json")

	testGetWellKnown(t, config, "/.well-known/apple-app-site-association", config.Paths.AppleAppSiteAssociationFile)
}

func TestGetAppleWellKnownNotFound(t *testing.T) {
	config := test.Config()
	config.Paths.AppleAppSiteAssociationFile = ""

	test.WithTestServerConfigurable(t, config, func(s *api.Server) {
		res := test.PerformRequest(t, s, "GET", "/.well-known/apple-app-site-association", nil, nil)
		test.RequireHTTPError(t, res, httperrors.ErrNotFoundWellKnownFile)
	})
}
