// Package txbuilder assembles unsigned Solana transactions, classifies
// externally built ones and finalizes both into wire bytes for the signer.
package txbuilder

import (
	"context"
	"crypto/ed25519"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/pkg/errors"
	"github/chapool/intent-wallet/internal/util"
	"github/chapool/intent-wallet/internal/wallet/failure"
)

// MintAccountSize is the size in bytes of an SPL token mint account.
const MintAccountSize uint64 = 82

const (
	mintDecimals     uint8  = 0
	mintSupplyAmount uint64 = 1
)

// RentOracle returns the minimum balance for a rent exempt account of size bytes.
type RentOracle interface {
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
}

// Builder assembles transactions that need chain state such as rent.
type Builder struct {
	rent RentOracle
}

func NewBuilder(rent RentOracle) *Builder {
	return &Builder{rent: rent}
}

// BuildTransfer builds a single system transfer of lamports from from to to.
func BuildTransfer(from solana.PublicKey, to solana.PublicKey, lamports uint64) (*Legacy, error) {
	if from.IsZero() {
		return nil, failure.New(failure.KindNotConnected, "no sender address")
	}
	if to.IsZero() {
		return nil, failure.New(failure.KindInvalidIntent, "recipient address is empty")
	}
	if lamports == 0 {
		return nil, failure.New(failure.KindInvalidIntent, "transfer amount must be positive")
	}

	ix := system.NewTransferInstruction(lamports, from, to).Build()

	return &Legacy{instructions: []solana.Instruction{ix}}, nil
}

// MintKeyFromSeed returns the mint key pair for a 32 byte seed, or a fresh random
// key pair when seed is empty.
func MintKeyFromSeed(seed []byte) (solana.PrivateKey, error) {
	switch len(seed) {
	case 0:
		key, err := solana.NewRandomPrivateKey()
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate mint key")
		}

		return key, nil
	case ed25519.SeedSize:
		return solana.PrivateKey(ed25519.NewKeyFromSeed(seed)), nil
	default:
		return nil, failure.Newf(failure.KindInvalidIntent, "mint seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
}

// BuildTokenMintFlow builds the five instruction flow that creates a fresh mint,
// mints one unit to owner's associated token account and attaches metadata.
// owner pays for everything and holds every authority. The mint key pair is
// kept on the result and partially signs at finalize.
func (b *Builder) BuildTokenMintFlow(ctx context.Context, owner solana.PublicKey, mintSeed []byte, meta Metadata) (*Legacy, error) {
	if owner.IsZero() {
		return nil, failure.New(failure.KindNotConnected, "no owner address")
	}

	if err := meta.Validate(); err != nil {
		return nil, err
	}

	mintKey, err := MintKeyFromSeed(mintSeed)
	if err != nil {
		return nil, err
	}
	mint := mintKey.PublicKey()

	rent, err := b.rent.GetMinimumBalanceForRentExemption(ctx, MintAccountSize)
	if err != nil {
		return nil, err
	}

	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, failure.Wrap(failure.KindEncoding, err, "failed to derive associated token address")
	}

	metadataAddr, err := FindMetadataAddress(mint)
	if err != nil {
		return nil, err
	}

	metadataIx, err := NewCreateMetadataInstruction(metadataAddr, mint, owner, owner, owner, meta)
	if err != nil {
		return nil, err
	}

	instructions := []solana.Instruction{
		system.NewCreateAccountInstruction(rent, MintAccountSize, solana.TokenProgramID, owner, mint).Build(),
		token.NewInitializeMintInstruction(mintDecimals, owner, owner, mint, solana.SysVarRentPubkey).Build(),
		associatedtokenaccount.NewCreateInstruction(owner, owner, mint).Build(),
		token.NewMintToInstruction(mintSupplyAmount, mint, ata, owner, nil).Build(),
		metadataIx,
	}

	util.LogFromContext(ctx).Debug().
		Str("mint", mint.String()).
		Str("owner", owner.String()).
		Str("associated_token_account", ata.String()).
		Uint64("rent_lamports", rent).
		Msg("Built token mint flow")

	return &Legacy{
		instructions: instructions,
		signers:      []solana.PrivateKey{mintKey},
	}, nil
}
