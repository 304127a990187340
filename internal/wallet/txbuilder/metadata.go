package txbuilder

import (
	"unicode/utf8"

	"github.com/gagliardetto/solana-go"
	"github.com/kat-co/vala"
	"github/chapool/intent-wallet/internal/wallet/codec"
	"github/chapool/intent-wallet/internal/wallet/failure"
)

// TokenMetadataProgramID is the Metaplex token metadata program.
var TokenMetadataProgramID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")

const (
	createMetadataAccountV3 uint8 = 33

	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200
)

// Validate checks the fields against the limits enforced by the metadata program.
func (m Metadata) Validate() error {
	err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(m.Name, "name"),
		vala.StringNotEmpty(m.Symbol, "symbol"),
		vala.StringNotEmpty(m.URI, "uri"),
		maxRunes(m.Name, MaxNameLength, "name"),
		maxRunes(m.Symbol, MaxSymbolLength, "symbol"),
		maxRunes(m.URI, MaxURILength, "uri"),
	).Check()
	if err != nil {
		return failure.Wrap(failure.KindInvalidMetadataFields, err, "invalid token metadata")
	}

	return nil
}

func maxRunes(s string, limit int, name string) vala.Checker {
	return func() (bool, string) {
		if utf8.RuneCountInString(s) > limit {
			return false, name + " exceeds maximum length"
		}

		return true, ""
	}
}

// FindMetadataAddress derives the metadata account of a mint.
func FindMetadataAddress(mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), TokenMetadataProgramID[:], mint[:]},
		TokenMetadataProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, failure.Wrap(failure.KindEncoding, err, "failed to derive metadata address")
	}

	return addr, nil
}

// EncodeCreateMetadataData returns the instruction data of CreateMetadataAccountV3
// with no creators, collection or uses, zero seller fee and a mutable account.
func EncodeCreateMetadataData(m Metadata) ([]byte, error) {
	return codec.NewEncoder().
		U8(createMetadataAccountV3).
		String(m.Name).
		String(m.Symbol).
		String(m.URI).
		U16(0). // seller fee basis points
		None(). // creators
		None(). // collection
		None(). // uses
		Bool(true).
		None(). // collection details
		Bytes()
}

// NewCreateMetadataInstruction builds the metadata instruction for mint.
func NewCreateMetadataInstruction(
	metadata solana.PublicKey,
	mint solana.PublicKey,
	mintAuthority solana.PublicKey,
	payer solana.PublicKey,
	updateAuthority solana.PublicKey,
	m Metadata,
) (solana.Instruction, error) {
	data, err := EncodeCreateMetadataData(m)
	if err != nil {
		return nil, err
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(metadata, true, false),
		solana.NewAccountMeta(mint, false, false),
		solana.NewAccountMeta(mintAuthority, false, true),
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(updateAuthority, false, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
	}

	return solana.NewInstruction(TokenMetadataProgramID, accounts, data), nil
}
