package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"testing"

	"github.com/dropbox/godropbox/time2"
	"github.com/go-openapi/runtime"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/require"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/api/httperrors"
	"github/chapool/intent-wallet/internal/api/router"
	"github/chapool/intent-wallet/internal/config"
	"github/chapool/intent-wallet/internal/types"
	"github/chapool/intent-wallet/internal/util"
)

// WithTestServer returns a fully configured server with an in-memory RPC node
// and interpreter. Reach them through GatewayOf and InterpreterOf.
func WithTestServer(t *testing.T, closure func(s *api.Server)) {
	t.Helper()

	WithTestServerConfigurable(t, Config(), closure)
}

func WithTestServerConfigurable(t *testing.T, config config.Server, closure func(s *api.Server)) {
	t.Helper()

	clock := api.NewClock(t)
	app, _, _ := NewAppContext(t, config, clock)

	s, err := api.InitNewServerWithApp(config, app)
	require.NoError(t, err, "failed to initialize server")

	require.NoError(t, router.Init(s), "failed to initialize router")

	closure(s)

	// echo is managed and should close automatically after running the test
	ctx, cancel := context.WithTimeout(context.Background(), config.Management.ReadinessTimeout)
	defer cancel()

	if errs := s.Shutdown(ctx); len(errs) > 0 {
		t.Fatalf("failed to shutdown server: %v", errs)
	}
}

func GatewayOf(t *testing.T, s *api.Server) *Gateway {
	t.Helper()

	gw, ok := s.App.Gateway.(*Gateway)
	require.True(t, ok, "server does not use the in-memory gateway")

	return gw
}

func InterpreterOf(t *testing.T, s *api.Server) *Interpreter {
	t.Helper()

	interpreter, ok := s.App.Interpreter.(*Interpreter)
	require.True(t, ok, "server does not use the in-memory interpreter")

	return interpreter
}

func ClockOf(t *testing.T, s *api.Server) *time2.MockClock {
	t.Helper()

	clock, ok := s.Clock.(*time2.MockClock)
	require.True(t, ok, "server does not use a mock clock")

	return clock
}

// PerformRequest sends a request through the echo router without a listener.
func PerformRequest(t *testing.T, s *api.Server, method string, path string, body any, headers http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req = req.WithContext(util.DisableLogger(req.Context(), true))

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header[k] = v
	}

	res := httptest.NewRecorder()
	s.Echo.ServeHTTP(res, req)

	return res
}

// ParseResponseAndValidate decodes the JSON body into v and validates it.
func ParseResponseAndValidate(t *testing.T, res *httptest.ResponseRecorder, v runtime.Validatable) {
	t.Helper()

	require.NoError(t, json.NewDecoder(res.Body).Decode(v), "failed to parse response body")
	require.NoError(t, v.Validate(strfmt.Default), "response body is invalid")
}

// RequireHTTPError asserts that res carries exactly httpErr.
func RequireHTTPError(t *testing.T, res *httptest.ResponseRecorder, httpErr *httperrors.HTTPError) types.PublicHTTPError {
	t.Helper()

	var response types.PublicHTTPError
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response), "failed to parse error body")

	require.Equal(t, httpErr.StatusCode(), res.Result().StatusCode)
	require.Equal(t, swag.Int64Value(httpErr.Code), swag.Int64Value(response.Code))
	require.Equal(t, swag.StringValue(httpErr.Type), swag.StringValue(response.Type))
	require.Equal(t, swag.StringValue(httpErr.Title), swag.StringValue(response.Title))

	return response
}

// RequireHTTPErrorType asserts status and error type, the localized title is not compared.
func RequireHTTPErrorType(t *testing.T, res *httptest.ResponseRecorder, code int, errorType string) types.PublicHTTPError {
	t.Helper()

	var response types.PublicHTTPError
	require.NoError(t, json.NewDecoder(res.Body).Decode(&response), "failed to parse error body")

	require.Equal(t, code, res.Result().StatusCode)
	require.Equal(t, errorType, swag.StringValue(response.Type))
	require.NotEmpty(t, swag.StringValue(response.Title))

	return response
}

// CallbackPath strips scheme and host of a redirect URI so it can be performed
// against the test server.
func CallbackPath(t *testing.T, uri string) string {
	t.Helper()

	u, err := url.Parse(uri)
	require.NoError(t, err)

	return u.RequestURI()
}

// ConnectSigner runs a full connect handshake against s.
func ConnectSigner(t *testing.T, s *api.Server, signer *Signer) {
	t.Helper()

	res := PerformRequest(t, s, "POST", "/api/v1/session/connect", nil, nil)
	require.Equal(t, http.StatusOK, res.Result().StatusCode)

	var connect types.DeepLinkResponse
	ParseResponseAndValidate(t, res, &connect)

	res = PerformRequest(t, s, "GET", CallbackPath(t, signer.ApproveConnect(connect.URI)), nil, nil)
	require.Equal(t, http.StatusOK, res.Result().StatusCode)
	require.True(t, s.App.Session.Connected())
}

// TestdataDir is the directory of static test fixtures.
func TestdataDir() string {
	return filepath.Join(config.ProjectRootDir(), "test", "testdata")
}
