package txbuilder

import (
	"time"

	"github.com/gagliardetto/solana-go"
)

// Format is the wire format of a transaction.
type Format string

const (
	FormatLegacy    Format = "legacy"
	FormatVersioned Format = "versioned"
)

func (f Format) String() string {
	return string(f)
}

// FreshnessStamp is a recent blockhash and when it was fetched.
type FreshnessStamp struct {
	Blockhash            solana.Hash
	LastValidBlockHeight uint64
	FetchedAt            time.Time
}

// IsZero reports whether no blockhash is set.
func (s FreshnessStamp) IsZero() bool {
	return s.Blockhash.IsZero()
}

// Age is the time elapsed since the stamp was fetched.
func (s FreshnessStamp) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}

// UnsignedTransaction is either *Legacy or *Versioned.
type UnsignedTransaction interface {
	Format() Format
	unsigned()
}

// Legacy is an ordered instruction list, or an externally built legacy
// transaction, that supports partial signing by local key pairs.
type Legacy struct {
	instructions []solana.Instruction
	raw          []byte
	signers      []solana.PrivateKey
}

func (*Legacy) Format() Format { return FormatLegacy }
func (*Legacy) unsigned()      {}

// Instructions returns the locally assembled instructions, nil for external blobs.
func (l *Legacy) Instructions() []solana.Instruction {
	return l.instructions
}

// External reports whether the transaction came from outside as bytes.
func (l *Legacy) External() bool {
	return l.raw != nil
}

// LocalSigners returns the public keys of the key pairs that will partially sign at finalize.
func (l *Legacy) LocalSigners() []solana.PublicKey {
	out := make([]solana.PublicKey, 0, len(l.signers))
	for _, k := range l.signers {
		out = append(out, k.PublicKey())
	}

	return out
}

// Versioned is an opaque v0 message built elsewhere, typically by a swap router.
type Versioned struct {
	raw  []byte
	bare bool // raw is a message without the signature section
}

func (*Versioned) Format() Format { return FormatVersioned }
func (*Versioned) unsigned()      {}

// Metadata describes the token minted by the mint flow.
type Metadata struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	URI    string `json:"uri"`
}

// Summary is a read-only description of an unsigned transaction.
type Summary struct {
	Format                Format
	Instructions          int
	RequiredSignatures    int
	FeePayer              solana.PublicKey
	RecentBlockhash       solana.Hash
	AddressTableLookups   int
	LocalPartialSigners   int
	ExternallyConstructed bool
}
