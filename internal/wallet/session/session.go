// Package session owns the cryptographic relationship with the external signer:
// the ephemeral key pair, the derived shared secret and the session token the
// signer issues at connect time.
package session

import (
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github/chapool/intent-wallet/internal/wallet/failure"
)

// SignerSession is one authenticated relationship with the external signer.
// The shared secret exists iff a peer key was accepted; secret, token, address
// and cached balance are always dropped together.
type SignerSession struct {
	mu sync.RWMutex

	keys    *KeyPair
	paired  bool // keys were used with some peer key
	peer    *PublicKey
	secret  *SharedSecret
	token   string
	address solana.PublicKey
	balance *uint64
	state   State
}

// NewSignerSession creates an empty session. Only the local key pair is generated eagerly.
func NewSignerSession() (*SignerSession, error) {
	keys, err := GenerateKeyPair()
	if err != nil {
		return nil, err
	}

	return &SignerSession{
		keys:  keys,
		state: StateDisconnected,
	}, nil
}

// LocalPublic returns the public key sent as dapp_encryption_public_key.
func (s *SignerSession) LocalPublic() PublicKey {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.keys.Public()
}

// State returns the current lifecycle state.
func (s *SignerSession) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

// Connected reports whether sign requests can be issued.
func (s *SignerSession) Connected() bool {
	return s.State() == StateConnected
}

// BeginConnect moves the session to connecting. A key pair that was already
// paired with a peer is replaced first, it is never reused with a new peer key.
func (s *SignerSession) BeginConnect() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.paired || s.keys == nil {
		s.invalidateLocked()
		if err := s.rotateLocked(); err != nil {
			return err
		}
	}

	s.state = StateConnecting

	return nil
}

// AbortConnect returns a connecting session to disconnected.
func (s *SignerSession) AbortConnect() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateConnecting {
		s.state = StateDisconnected
	}
}

// Establish derives the shared secret from the peer key, opens the connect
// payload and populates the session atomically. On error the session is not
// populated, but a key pair that derived a secret with a peer counts as used.
func (s *SignerSession) Establish(peer []byte, nonce []byte, ciphertext []byte) (ConnectData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var data ConnectData

	if s.state != StateConnecting {
		return data, failure.Newf(failure.KindInvalidState, "session is %s, not connecting", s.state)
	}

	peerKey, err := PublicKeyFromBytes(peer)
	if err != nil {
		return data, err
	}

	secret, err := DeriveSharedSecret(s.keys, peer)
	if err != nil {
		return data, err
	}
	s.paired = true

	if err := DecryptInto(ciphertext, nonce, secret, &data); err != nil {
		secret.Zero()
		return data, err
	}

	if data.Session == "" {
		secret.Zero()
		return data, failure.New(failure.KindCallbackParse, "connect payload has no session token")
	}

	address, err := solana.PublicKeyFromBase58(data.PublicKey)
	if err != nil {
		secret.Zero()
		return data, failure.Wrap(failure.KindCallbackParse, err, "connect payload has an invalid wallet address")
	}

	s.peer = &peerKey
	s.secret = secret
	s.token = data.Session
	s.address = address
	s.balance = nil
	s.state = StateConnected

	return data, nil
}

// Invalidate tears the session down as a unit.
func (s *SignerSession) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidateLocked()
}

// Reset invalidates the session and replaces the local key pair. Used when a
// callback could not be decrypted and the key exchange is presumed desynced.
func (s *SignerSession) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.invalidateLocked()

	return s.rotateLocked()
}

func (s *SignerSession) invalidateLocked() {
	s.secret.Zero()
	s.secret = nil
	s.peer = nil
	s.token = ""
	s.address = solana.PublicKey{}
	s.balance = nil
	s.state = StateDisconnected
}

func (s *SignerSession) rotateLocked() error {
	keys, err := GenerateKeyPair()
	if err != nil {
		return err
	}

	s.keys.Zero()
	s.keys = keys
	s.paired = false

	return nil
}

// Address returns the connected wallet address.
func (s *SignerSession) Address() (solana.PublicKey, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.address, s.state == StateConnected
}

// SetBalance caches lamports as the balance of address. It reports false and
// caches nothing when address is no longer the connected wallet.
func (s *SignerSession) SetBalance(address solana.PublicKey, lamports uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateConnected || !s.address.Equals(address) {
		return false
	}
	s.balance = &lamports

	return true
}

// Balance returns the cached balance, if any.
func (s *SignerSession) Balance() (uint64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.balance == nil {
		return 0, false
	}

	return *s.balance, true
}

// SealSignTransaction encrypts a sign request for the given unsigned wire bytes.
// The session token is echoed inside the encrypted payload.
func (s *SignerSession) SealSignTransaction(tx []byte) (nonce []byte, ciphertext []byte, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateConnected {
		return nil, nil, failure.New(failure.KindNotConnected, "no wallet connected")
	}

	return Encrypt(SignTransactionPayload{
		Transaction: base58.Encode(tx),
		Session:     s.token,
	}, s.secret)
}

// SealDisconnect encrypts a disconnect request.
func (s *SignerSession) SealDisconnect() (nonce []byte, ciphertext []byte, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateConnected {
		return nil, nil, failure.New(failure.KindNotConnected, "no wallet connected")
	}

	return Encrypt(DisconnectPayload{Session: s.token}, s.secret)
}

// OpenSignTransaction decrypts a sign callback and returns the signed wire bytes.
func (s *SignerSession) OpenSignTransaction(nonce []byte, ciphertext []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateConnected {
		return nil, failure.New(failure.KindNotConnected, "no wallet connected")
	}

	var data SignTransactionData
	if err := DecryptInto(ciphertext, nonce, s.secret, &data); err != nil {
		return nil, err
	}

	if data.Transaction == "" {
		return nil, failure.New(failure.KindCallbackParse, "sign payload has no transaction")
	}

	tx, err := base58.Decode(data.Transaction)
	if err != nil {
		return nil, failure.Wrap(failure.KindCallbackParse, err, "sign payload transaction is not base58")
	}

	return tx, nil
}
