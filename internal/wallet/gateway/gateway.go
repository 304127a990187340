// Package gateway is the thin network boundary: recent blockhash, balance,
// rent exemption and raw submission. Nothing here retries; failures come back
// as failure.KindNetwork errors tagged with the operation.
package gateway

import (
	"context"

	"github.com/dropbox/godropbox/time2"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github/chapool/intent-wallet/internal/wallet/failure"
	"github/chapool/intent-wallet/internal/wallet/txbuilder"
)

// Gateway is the network surface the orchestrator depends on.
type Gateway interface {
	GetRecentBlockhash(ctx context.Context) (txbuilder.FreshnessStamp, error)
	GetBalance(ctx context.Context, address solana.PublicKey) (uint64, error)
	SubmitRaw(ctx context.Context, raw []byte) (string, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error)
}

// RPCGateway implements Gateway on a single JSON-RPC endpoint.
type RPCGateway struct {
	endpoint   string
	commitment rpc.CommitmentType
	client     *rpc.Client
	clock      time2.Clock
	logger     zerolog.Logger
}

var _ Gateway = (*RPCGateway)(nil)

// NewRPCGateway creates a gateway for endpoint. The endpoint is fixed for the
// gateway's lifetime.
func NewRPCGateway(endpoint string, commitment rpc.CommitmentType, clock time2.Clock) *RPCGateway {
	if commitment == "" {
		commitment = rpc.CommitmentConfirmed
	}

	return &RPCGateway{
		endpoint:   endpoint,
		commitment: commitment,
		client:     rpc.New(endpoint),
		clock:      clock,
		logger:     log.With().Str("component", "gateway").Str("endpoint", endpoint).Logger(),
	}
}

func (g *RPCGateway) Endpoint() string {
	return g.endpoint
}

// Close releases idle connections of the underlying client.
func (g *RPCGateway) Close() error {
	return g.client.Close()
}

// GetRecentBlockhash fetches the latest blockhash and stamps it with the current time.
func (g *RPCGateway) GetRecentBlockhash(ctx context.Context) (txbuilder.FreshnessStamp, error) {
	out, err := g.client.GetLatestBlockhash(ctx, g.commitment)
	if err != nil {
		return txbuilder.FreshnessStamp{}, failure.Network(failure.OpGetRecentBlockhash, err)
	}
	if out == nil || out.Value == nil {
		return txbuilder.FreshnessStamp{}, failure.Network(failure.OpGetRecentBlockhash, errEmptyResult)
	}

	stamp := txbuilder.FreshnessStamp{
		Blockhash:            out.Value.Blockhash,
		LastValidBlockHeight: out.Value.LastValidBlockHeight,
		FetchedAt:            g.clock.Now(),
	}

	g.logger.Debug().
		Str("blockhash", stamp.Blockhash.String()).
		Uint64("last_valid_block_height", stamp.LastValidBlockHeight).
		Msg("Fetched recent blockhash")

	return stamp, nil
}

// GetBalance returns the balance of address in lamports.
func (g *RPCGateway) GetBalance(ctx context.Context, address solana.PublicKey) (uint64, error) {
	out, err := g.client.GetBalance(ctx, address, g.commitment)
	if err != nil {
		return 0, failure.Network(failure.OpGetBalance, err)
	}
	if out == nil {
		return 0, failure.Network(failure.OpGetBalance, errEmptyResult)
	}

	return out.Value, nil
}

// GetMinimumBalanceForRentExemption returns the rent exempt minimum for an account of size bytes.
func (g *RPCGateway) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	lamports, err := g.client.GetMinimumBalanceForRentExemption(ctx, size, g.commitment)
	if err != nil {
		return 0, failure.Network(failure.OpGetRentExemption, err)
	}

	return lamports, nil
}

// SubmitRaw sends signed wire bytes as they are and returns the transaction signature.
func (g *RPCGateway) SubmitRaw(ctx context.Context, raw []byte) (string, error) {
	sig, err := g.client.SendRawTransactionWithOpts(ctx, raw, rpc.TransactionOpts{
		PreflightCommitment: g.commitment,
	})
	if err != nil {
		return "", failure.Network(failure.OpSubmitRaw, err)
	}

	g.logger.Info().Str("signature", sig.String()).Msg("Submitted transaction")

	return sig.String(), nil
}
