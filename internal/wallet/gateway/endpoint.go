package gateway

import (
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
)

var errEmptyResult = errors.New("empty result")

// DefaultEndpoint returns the public RPC endpoint of cluster.
func DefaultEndpoint(cluster string) (string, error) {
	switch cluster {
	case "devnet":
		return rpc.DevNet_RPC, nil
	case "testnet":
		return rpc.TestNet_RPC, nil
	case "mainnet", "mainnet-beta":
		return rpc.MainNetBeta_RPC, nil
	case "localnet":
		return rpc.LocalNet_RPC, nil
	default:
		return "", errors.Errorf("unknown cluster %q", cluster)
	}
}
