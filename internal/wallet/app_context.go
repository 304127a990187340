package wallet

import (
	"io"

	"github.com/dropbox/godropbox/time2"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github/chapool/intent-wallet/internal/config"
	"github/chapool/intent-wallet/internal/wallet/deeplink"
	"github/chapool/intent-wallet/internal/wallet/gateway"
	"github/chapool/intent-wallet/internal/wallet/intent"
	"github/chapool/intent-wallet/internal/wallet/session"
)

// AppContext carries everything a round trip needs. It is built once from the
// config; switching cluster or endpoint means building a new AppContext.
type AppContext struct {
	Wallet      config.Wallet
	Signer      config.Signer
	Network     intent.Network
	Gateway     gateway.Gateway
	Interpreter intent.Interpreter
	Transport   *deeplink.Transport
	Session     *session.SignerSession
	Clock       time2.Clock
}

// NewAppContext wires the production collaborators for cfg.
func NewAppContext(cfg config.Server, clock time2.Clock) (*AppContext, error) {
	endpoint := cfg.Wallet.RPCEndpoint
	if endpoint == "" {
		var err error
		endpoint, err = gateway.DefaultEndpoint(cfg.Wallet.Cluster)
		if err != nil {
			return nil, errors.Wrap(err, "failed to resolve RPC endpoint")
		}
	}

	transport, err := deeplink.NewTransport(cfg.Signer.DeepLinkBase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create deep link transport")
	}

	signerSession, err := session.NewSignerSession()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create signer session")
	}

	return &AppContext{
		Wallet:      cfg.Wallet,
		Signer:      cfg.Signer,
		Network:     intent.NetworkForCluster(cfg.Wallet.Cluster),
		Gateway:     gateway.NewRPCGateway(endpoint, rpc.CommitmentType(cfg.Wallet.Commitment), clock),
		Interpreter: intent.NewClient(cfg.Interpreter.Endpoint, cfg.Interpreter.Timeout),
		Transport:   transport,
		Session:     signerSession,
		Clock:       clock,
	}, nil
}

// Close releases the network resources held by the context.
func (a *AppContext) Close() error {
	a.Session.Invalidate()

	if c, ok := a.Gateway.(io.Closer); ok {
		return c.Close()
	}

	return nil
}
