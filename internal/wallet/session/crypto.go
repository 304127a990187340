package session

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/json"

	"github.com/mr-tron/base58"
	"github/chapool/intent-wallet/internal/wallet/failure"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"
)

const (
	// KeySize is the size of X25519 public and private keys.
	KeySize = 32
	// NonceSize is the XSalsa20 nonce size, a fresh nonce is drawn for every message.
	NonceSize = 24
)

// PublicKey is an X25519 public key exchanged with the external signer.
type PublicKey [KeySize]byte

// String returns the base58 form used on deep links.
func (p PublicKey) String() string {
	return base58.Encode(p[:])
}

// PublicKeyFromBytes validates the length of a peer key.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	var pk PublicKey
	if len(b) != KeySize {
		return pk, failure.Newf(failure.KindKeyAgreement, "peer public key must be %d bytes, got %d", KeySize, len(b))
	}

	copy(pk[:], b)

	return pk, nil
}

// KeyPair is the ephemeral local key pair. The private half never leaves this package:
// it is not exported, not printed and not serialized.
type KeyPair struct {
	public  PublicKey
	private *[KeySize]byte
}

// GenerateKeyPair draws a new key pair from crypto/rand.
func GenerateKeyPair() (*KeyPair, error) {
	pub, priv, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, failure.Wrap(failure.KindKeyAgreement, err, "failed to generate key pair")
	}

	return &KeyPair{public: *pub, private: priv}, nil
}

// Public returns the public half.
func (k *KeyPair) Public() PublicKey {
	return k.public
}

func (k *KeyPair) String() string {
	return "KeyPair(" + k.public.String() + ")"
}

// MarshalJSON only ever exposes the public key.
func (k *KeyPair) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PublicKey string `json:"public_key"`
	}{PublicKey: k.public.String()})
}

// Zero wipes the private key.
func (k *KeyPair) Zero() {
	if k == nil || k.private == nil {
		return
	}

	for i := range k.private {
		k.private[i] = 0
	}
	k.private = nil
}

// SharedSecret is the precomputed box key of one session.
type SharedSecret struct {
	key *[KeySize]byte
}

func (s *SharedSecret) String() string {
	return "SharedSecret(redacted)"
}

// MarshalJSON refuses to leak the key.
func (s *SharedSecret) MarshalJSON() ([]byte, error) {
	return []byte(`"redacted"`), nil
}

// Equal compares two secrets in constant time.
func (s *SharedSecret) Equal(other *SharedSecret) bool {
	if s == nil || other == nil || s.key == nil || other.key == nil {
		return false
	}

	return subtle.ConstantTimeCompare(s.key[:], other.key[:]) == 1
}

// Zero wipes the secret.
func (s *SharedSecret) Zero() {
	if s == nil || s.key == nil {
		return
	}

	for i := range s.key {
		s.key[i] = 0
	}
	s.key = nil
}

// DeriveSharedSecret runs X25519 against the peer key and precomputes the box key.
// Malformed keys and low-order points are rejected.
func DeriveSharedSecret(local *KeyPair, peer []byte) (*SharedSecret, error) {
	if local == nil || local.private == nil {
		return nil, failure.New(failure.KindKeyAgreement, "local key pair is not initialized")
	}

	peerKey, err := PublicKeyFromBytes(peer)
	if err != nil {
		return nil, err
	}

	// X25519 returns an error for an all-zero output, which is what low-order points produce.
	if _, err := curve25519.X25519(local.private[:], peerKey[:]); err != nil {
		return nil, failure.Wrap(failure.KindKeyAgreement, err, "invalid peer public key")
	}

	shared := new([KeySize]byte)
	peerArr := [KeySize]byte(peerKey)
	box.Precompute(shared, &peerArr, local.private)

	return &SharedSecret{key: shared}, nil
}

// Encrypt marshals payload to JSON and seals it under a fresh random nonce.
func Encrypt(payload any, secret *SharedSecret) (nonce []byte, ciphertext []byte, err error) {
	if secret == nil || secret.key == nil {
		return nil, nil, failure.New(failure.KindNotConnected, "no shared secret")
	}

	plaintext, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, failure.Wrap(failure.KindEncoding, err, "failed to marshal payload")
	}

	var n [NonceSize]byte
	if _, err := rand.Read(n[:]); err != nil {
		return nil, nil, failure.Wrap(failure.KindEncoding, err, "failed to generate nonce")
	}

	ciphertext = box.SealAfterPrecomputation(nil, plaintext, &n, secret.key)

	return n[:], ciphertext, nil
}

// Decrypt authenticates and opens ciphertext. Any failure, including a plaintext
// that is not JSON, is a hard DecryptionError.
func Decrypt(ciphertext []byte, nonce []byte, secret *SharedSecret) (json.RawMessage, error) {
	if secret == nil || secret.key == nil {
		return nil, failure.New(failure.KindDecryption, "unable to decrypt: no shared secret")
	}

	if len(nonce) != NonceSize {
		return nil, failure.Newf(failure.KindDecryption, "unable to decrypt: nonce must be %d bytes, got %d", NonceSize, len(nonce))
	}

	var n [NonceSize]byte
	copy(n[:], nonce)

	plaintext, ok := box.OpenAfterPrecomputation(nil, ciphertext, &n, secret.key)
	if !ok {
		return nil, failure.New(failure.KindDecryption, "unable to decrypt")
	}

	if !json.Valid(plaintext) {
		return nil, failure.New(failure.KindDecryption, "unable to decrypt: payload is not valid JSON")
	}

	return json.RawMessage(plaintext), nil
}

// DecryptInto opens ciphertext and unmarshals it into v.
func DecryptInto(ciphertext []byte, nonce []byte, secret *SharedSecret, v any) error {
	raw, err := Decrypt(ciphertext, nonce, secret)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return failure.Wrap(failure.KindDecryption, err, "unable to decrypt: unexpected payload shape")
	}

	return nil
}
