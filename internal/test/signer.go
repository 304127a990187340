package test

import (
	"net/url"
	"slices"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"
	"github/chapool/intent-wallet/internal/wallet/deeplink"
	"github/chapool/intent-wallet/internal/wallet/session"
)

const signerSessionToken = "test-session-token"

// Signer plays the external wallet app. It answers request URIs with the
// callback URIs the app would open.
type Signer struct {
	t      *testing.T
	keys   *session.KeyPair
	wallet solana.PrivateKey
	secret *session.SharedSecret

	// Signed holds every transaction the signer returned, in order.
	Signed []*solana.Transaction
}

func NewSigner(t *testing.T) *Signer {
	t.Helper()

	keys, err := session.GenerateKeyPair()
	require.NoError(t, err)

	wallet, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	return &Signer{t: t, keys: keys, wallet: wallet}
}

// Address is the wallet public key handed out on connect.
func (s *Signer) Address() solana.PublicKey {
	return s.wallet.PublicKey()
}

// ApproveConnect accepts a connect request.
func (s *Signer) ApproveConnect(requestURI string) string {
	s.t.Helper()

	q := s.query(requestURI)

	dapp, err := base58.Decode(q.Get(deeplink.ParamDappEncryptionPublicKey))
	require.NoError(s.t, err)

	s.secret, err = session.DeriveSharedSecret(s.keys, dapp)
	require.NoError(s.t, err)

	nonce, data, err := session.Encrypt(session.ConnectData{
		PublicKey: s.Address().String(),
		Session:   signerSessionToken,
	}, s.secret)
	require.NoError(s.t, err)

	public := s.keys.Public()

	return s.callback(q.Get(deeplink.ParamRedirectLink), url.Values{
		deeplink.ParamPhantomEncryptionPublicKey: {base58.Encode(public[:])},
		deeplink.ParamNonce:                      {base58.Encode(nonce)},
		deeplink.ParamData:                       {base58.Encode(data)},
	})
}

// ApproveSign opens a sign request, signs the wallet slot and returns the
// encrypted signed transaction.
func (s *Signer) ApproveSign(requestURI string) string {
	s.t.Helper()

	q := s.query(requestURI)
	tx := s.OpenSignRequest(requestURI)

	msg, err := tx.Message.MarshalBinary()
	require.NoError(s.t, err)

	required := tx.Message.AccountKeys[:tx.Message.Header.NumRequiredSignatures]
	idx := slices.IndexFunc(required, s.Address().Equals)
	require.GreaterOrEqual(s.t, idx, 0, "wallet is not a required signer")

	sig, err := s.wallet.Sign(msg)
	require.NoError(s.t, err)
	tx.Signatures[idx] = sig
	s.Signed = append(s.Signed, tx)

	raw, err := tx.MarshalBinary()
	require.NoError(s.t, err)

	nonce, data, err := session.Encrypt(session.SignTransactionData{Transaction: base58.Encode(raw)}, s.secret)
	require.NoError(s.t, err)

	return s.callback(q.Get(deeplink.ParamRedirectLink), url.Values{
		deeplink.ParamNonce: {base58.Encode(nonce)},
		deeplink.ParamData:  {base58.Encode(data)},
	})
}

// ApproveSignCorrupted answers a sign request with a payload that fails authentication.
func (s *Signer) ApproveSignCorrupted(requestURI string) string {
	s.t.Helper()

	u, err := url.Parse(s.ApproveSign(requestURI))
	require.NoError(s.t, err)

	q := u.Query()
	data, err := base58.Decode(q.Get(deeplink.ParamData))
	require.NoError(s.t, err)
	data[0] ^= 0xff
	q.Set(deeplink.ParamData, base58.Encode(data))
	u.RawQuery = q.Encode()

	return u.String()
}

// OpenSignRequest decrypts the transaction carried by a sign request.
func (s *Signer) OpenSignRequest(requestURI string) *solana.Transaction {
	s.t.Helper()
	require.NotNil(s.t, s.secret, "signer is not connected")

	q := s.query(requestURI)

	nonce, err := base58.Decode(q.Get(deeplink.ParamNonce))
	require.NoError(s.t, err)
	payload, err := base58.Decode(q.Get(deeplink.ParamPayload))
	require.NoError(s.t, err)

	var body session.SignTransactionPayload
	require.NoError(s.t, session.DecryptInto(payload, nonce, s.secret, &body))
	require.Equal(s.t, signerSessionToken, body.Session)

	raw, err := base58.Decode(body.Transaction)
	require.NoError(s.t, err)

	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	require.NoError(s.t, err)

	return tx
}

// Reject answers any request with an errorCode callback.
func (s *Signer) Reject(requestURI string, code string, message string) string {
	s.t.Helper()

	q := s.query(requestURI)

	return s.callback(q.Get(deeplink.ParamRedirectLink), url.Values{
		deeplink.ParamErrorCode:    {code},
		deeplink.ParamErrorMessage: {message},
	})
}

// Disconnect is the app closing the session on its own, answering redirect.
func (s *Signer) Disconnect(redirect string) string {
	s.t.Helper()
	s.secret = nil

	return s.callback(redirect, url.Values{})
}

func (s *Signer) query(requestURI string) url.Values {
	s.t.Helper()

	u, err := url.Parse(requestURI)
	require.NoError(s.t, err)

	return u.Query()
}

func (s *Signer) callback(redirect string, params url.Values) string {
	s.t.Helper()
	require.NotEmpty(s.t, redirect, "request carries no redirect link")

	u, err := url.Parse(redirect)
	require.NoError(s.t, err)

	q := u.Query()
	for k, v := range params {
		q[k] = v
	}
	u.RawQuery = q.Encode()

	return u.String()
}

// WithoutGeneration strips the generation from a callback, as a signer that
// drops unknown redirect parameters would.
func WithoutGeneration(t *testing.T, callback string) string {
	t.Helper()

	u, err := url.Parse(callback)
	require.NoError(t, err)

	q := u.Query()
	q.Del(deeplink.ParamGeneration)
	u.RawQuery = q.Encode()

	return u.String()
}
