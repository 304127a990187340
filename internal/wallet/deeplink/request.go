// Package deeplink builds request URIs for the external signer app and parses
// the callback URIs it redirects back to. Nothing here opens a URI: handing it
// to the operating system is the caller's job.
package deeplink

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/mr-tron/base58"
	"github/chapool/intent-wallet/internal/wallet/failure"
)

const (
	// DefaultBaseURL is the universal-link prefix of the signer app.
	DefaultBaseURL = "https://phantom.app/ul/v1"

	publicKeySize = 32
	nonceSize     = 24
)

// Transport builds request URIs against one signer base URL.
type Transport struct {
	base *url.URL
}

// NewTransport validates the base URL.
func NewTransport(baseURL string) (*Transport, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, failure.Wrap(failure.KindEncoding, err, "invalid signer base URL")
	}

	if base.Scheme == "" || (base.Host == "" && base.Opaque == "") {
		return nil, failure.Newf(failure.KindEncoding, "signer base URL %q must be absolute", baseURL)
	}

	return &Transport{base: base}, nil
}

// ConnectRequest returns the URI that asks the signer to open a session.
func (t *Transport) ConnectRequest(localPublic []byte, cluster string, appURL string, redirect string) (string, error) {
	if err := checkLen("dapp public key", localPublic, publicKeySize); err != nil {
		return "", err
	}

	if cluster == "" || appURL == "" || redirect == "" {
		return "", failure.New(failure.KindEncoding, "cluster, app url and redirect link are required")
	}

	q := url.Values{}
	q.Set(ParamDappEncryptionPublicKey, base58.Encode(localPublic))
	q.Set(ParamCluster, cluster)
	q.Set(ParamAppURL, appURL)
	q.Set(ParamRedirectLink, redirect)

	return t.uri(MethodConnect, q), nil
}

// SignTransactionRequest returns the URI carrying an encrypted sign payload.
func (t *Transport) SignTransactionRequest(localPublic []byte, nonce []byte, payload []byte, redirect string) (string, error) {
	return t.encryptedRequest(MethodSignTransaction, localPublic, nonce, payload, redirect)
}

// DisconnectRequest returns the URI carrying an encrypted disconnect payload.
func (t *Transport) DisconnectRequest(localPublic []byte, nonce []byte, payload []byte, redirect string) (string, error) {
	return t.encryptedRequest(MethodDisconnect, localPublic, nonce, payload, redirect)
}

func (t *Transport) encryptedRequest(method string, localPublic []byte, nonce []byte, payload []byte, redirect string) (string, error) {
	if err := checkLen("dapp public key", localPublic, publicKeySize); err != nil {
		return "", err
	}

	if err := checkLen("nonce", nonce, nonceSize); err != nil {
		return "", err
	}

	if len(payload) == 0 {
		return "", failure.New(failure.KindEncoding, "encrypted payload is empty")
	}

	if redirect == "" {
		return "", failure.New(failure.KindEncoding, "redirect link is required")
	}

	q := url.Values{}
	q.Set(ParamDappEncryptionPublicKey, base58.Encode(localPublic))
	q.Set(ParamNonce, base58.Encode(nonce))
	q.Set(ParamRedirectLink, redirect)
	q.Set(ParamPayload, base58.Encode(payload))

	return t.uri(method, q), nil
}

func (t *Transport) uri(method string, q url.Values) string {
	u := *t.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + method
	u.RawQuery = q.Encode()

	return u.String()
}

// RedirectLink returns the callback URI for a flow, tagged with the generation
// of the request it answers.
func RedirectLink(base string, flow Flow, generation uint64) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", failure.Wrap(failure.KindEncoding, err, "invalid redirect base")
	}

	if u.Scheme != "http" && u.Scheme != "https" && strings.Trim(u.Path, "/") == "" {
		// custom scheme app links carry the flow as host: myapp://onConnect
		u.Host = string(flow)
		u.Path = ""
	} else {
		u.Path = strings.TrimSuffix(u.Path, "/") + "/" + string(flow)
	}

	q := u.Query()
	q.Set(ParamGeneration, strconv.FormatUint(generation, 10))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func checkLen(name string, b []byte, want int) error {
	if len(b) != want {
		return failure.Newf(failure.KindEncoding, "%s must be %d bytes, got %d", name, want, len(b))
	}

	return nil
}
