package session_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github/chapool/intent-wallet/internal/wallet/failure"
	"github/chapool/intent-wallet/internal/wallet/session"
)

type fakeSigner struct {
	keys    *session.KeyPair
	secret  *session.SharedSecret
	address solana.PublicKey
}

func newFakeSigner(t *testing.T) *fakeSigner {
	t.Helper()

	keys, err := session.GenerateKeyPair()
	require.NoError(t, err)

	return &fakeSigner{keys: keys, address: solana.NewWallet().PublicKey()}
}

func (f *fakeSigner) connect(t *testing.T, dapp session.PublicKey, token string) (peer []byte, nonce []byte, ct []byte) {
	t.Helper()

	secret, err := session.DeriveSharedSecret(f.keys, dapp[:])
	require.NoError(t, err)
	f.secret = secret

	nonce, ct, err = session.Encrypt(session.ConnectData{PublicKey: f.address.String(), Session: token}, secret)
	require.NoError(t, err)

	pub := f.keys.Public()

	return pub[:], nonce, ct
}

func TestSignerSessionLifecycle(t *testing.T) {
	s, err := session.NewSignerSession()
	require.NoError(t, err)
	assert.Equal(t, session.StateDisconnected, s.State())

	_, _, err = s.SealSignTransaction([]byte{1})
	assert.True(t, failure.Is(err, failure.KindNotConnected))

	require.NoError(t, s.BeginConnect())
	assert.Equal(t, session.StateConnecting, s.State())

	signer := newFakeSigner(t)
	peer, nonce, ct := signer.connect(t, s.LocalPublic(), "session-token")

	data, err := s.Establish(peer, nonce, ct)
	require.NoError(t, err)
	assert.Equal(t, "session-token", data.Session)
	assert.True(t, s.Connected())

	addr, ok := s.Address()
	assert.True(t, ok)
	assert.Equal(t, signer.address, addr)

	assert.False(t, s.SetBalance(solana.NewWallet().PublicKey(), 7), "balance of another wallet")
	_, ok = s.Balance()
	assert.False(t, ok)

	assert.True(t, s.SetBalance(signer.address, 42))
	bal, ok := s.Balance()
	assert.True(t, ok)
	assert.EqualValues(t, 42, bal)

	// sign request carries the session token, the fake signer can open it
	nonce, ct, err = s.SealSignTransaction([]byte{9, 9, 9})
	require.NoError(t, err)
	var payload session.SignTransactionPayload
	require.NoError(t, session.DecryptInto(ct, nonce, signer.secret, &payload))
	assert.Equal(t, "session-token", payload.Session)
	assert.Equal(t, base58.Encode([]byte{9, 9, 9}), payload.Transaction)

	// and the signed answer round-trips
	nonce, ct, err = session.Encrypt(session.SignTransactionData{Transaction: base58.Encode([]byte{7, 7})}, signer.secret)
	require.NoError(t, err)
	signed, err := s.OpenSignTransaction(nonce, ct)
	require.NoError(t, err)
	assert.Equal(t, []byte{7, 7}, signed)

	s.Invalidate()
	assert.Equal(t, session.StateDisconnected, s.State())
	_, ok = s.Address()
	assert.False(t, ok)
	_, ok = s.Balance()
	assert.False(t, ok)
	_, err = s.OpenSignTransaction(nonce, ct)
	assert.True(t, failure.Is(err, failure.KindNotConnected))
}

func TestSignerSessionNeverReusesPairedKeys(t *testing.T) {
	s, err := session.NewSignerSession()
	require.NoError(t, err)

	first := s.LocalPublic()
	require.NoError(t, s.BeginConnect())
	assert.Equal(t, first, s.LocalPublic(), "unpaired keys are kept")

	signer := newFakeSigner(t)
	peer, nonce, ct := signer.connect(t, s.LocalPublic(), "t1")
	_, err = s.Establish(peer, nonce, ct)
	require.NoError(t, err)

	s.Invalidate()
	require.NoError(t, s.BeginConnect())
	assert.NotEqual(t, first, s.LocalPublic())
}

func TestSignerSessionEstablishFailureLeavesNothing(t *testing.T) {
	s, err := session.NewSignerSession()
	require.NoError(t, err)

	// not connecting
	_, err = s.Establish(make([]byte, 32), make([]byte, 24), []byte{1})
	assert.True(t, failure.Is(err, failure.KindInvalidState))

	require.NoError(t, s.BeginConnect())

	// encrypted for someone else
	signer := newFakeSigner(t)
	other, err := session.GenerateKeyPair()
	require.NoError(t, err)
	peer, nonce, ct := signer.connect(t, other.Public(), "t")

	_, err = s.Establish(peer, nonce, ct)
	assert.True(t, failure.Is(err, failure.KindDecryption))
	assert.Equal(t, session.StateConnecting, s.State())
	_, ok := s.Address()
	assert.False(t, ok)

	before := s.LocalPublic()
	require.NoError(t, s.Reset())
	assert.Equal(t, session.StateDisconnected, s.State())
	assert.NotEqual(t, before, s.LocalPublic())
}

func TestSignerSessionEstablishRejectsEmptyToken(t *testing.T) {
	s, err := session.NewSignerSession()
	require.NoError(t, err)
	require.NoError(t, s.BeginConnect())

	signer := newFakeSigner(t)
	used := s.LocalPublic()
	peer, nonce, ct := signer.connect(t, used, "")

	_, err = s.Establish(peer, nonce, ct)
	assert.True(t, failure.Is(err, failure.KindCallbackParse))
	assert.False(t, s.Connected())

	// the keys already met a peer key, the next attempt must not reuse them
	s.AbortConnect()
	require.NoError(t, s.BeginConnect())
	assert.NotEqual(t, used, s.LocalPublic())
}

func TestSignerSessionKeepsKeysAfterMalformedPeerKey(t *testing.T) {
	s, err := session.NewSignerSession()
	require.NoError(t, err)
	require.NoError(t, s.BeginConnect())

	before := s.LocalPublic()
	_, err = s.Establish([]byte{1, 2, 3}, make([]byte, session.NonceSize), []byte{1})
	assert.True(t, failure.Is(err, failure.KindKeyAgreement))

	s.AbortConnect()
	require.NoError(t, s.BeginConnect())
	assert.Equal(t, before, s.LocalPublic())
}
