package test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github/chapool/intent-wallet/internal/config"
	"github/chapool/intent-wallet/internal/wallet"
	"github/chapool/intent-wallet/internal/wallet/deeplink"
	"github/chapool/intent-wallet/internal/wallet/failure"
	"github/chapool/intent-wallet/internal/wallet/intent"
	"github/chapool/intent-wallet/internal/wallet/session"
	"github/chapool/intent-wallet/internal/wallet/txbuilder"
)

const (
	DefaultBalance      uint64 = 2_500_000_000
	DefaultRentExempt   uint64 = 1_461_600
	DefaultConfirmation        = "5sigConfirmation"
)

// Gateway is an in-memory RPC node. Blockhashes are {0xbb, n} for the n-th
// successful fetch.
type Gateway struct {
	Clock time2.Clock

	mu            sync.Mutex
	StampFailures int
	StampCalls    int
	StaleStamps   int
	SubmitErr     error
	Submitted     [][]byte
	fetched       byte

	// OnBalance runs inside GetBalance before it answers.
	OnBalance func(address solana.PublicKey)
}

func NewGateway(clock time2.Clock) *Gateway {
	return &Gateway{Clock: clock}
}

func (g *Gateway) GetRecentBlockhash(_ context.Context) (txbuilder.FreshnessStamp, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.StampCalls++
	if g.StampFailures > 0 {
		g.StampFailures--
		return txbuilder.FreshnessStamp{}, failure.Network(failure.OpGetRecentBlockhash, errors.New("connection reset"))
	}

	g.fetched++
	fetchedAt := g.Clock.Now()
	if g.StaleStamps > 0 {
		g.StaleStamps--
		fetchedAt = fetchedAt.Add(-time.Hour)
	}

	return txbuilder.FreshnessStamp{
		Blockhash:            solana.Hash{0xbb, g.fetched},
		LastValidBlockHeight: 1000,
		FetchedAt:            fetchedAt,
	}, nil
}

func (g *Gateway) GetBalance(_ context.Context, address solana.PublicKey) (uint64, error) {
	g.mu.Lock()
	hook := g.OnBalance
	g.mu.Unlock()

	if hook != nil {
		hook(address)
	}

	return DefaultBalance, nil
}

func (g *Gateway) SubmitRaw(_ context.Context, raw []byte) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.SubmitErr != nil {
		return "", g.SubmitErr
	}

	g.Submitted = append(g.Submitted, raw)

	return DefaultConfirmation, nil
}

func (g *Gateway) GetMinimumBalanceForRentExemption(_ context.Context, _ uint64) (uint64, error) {
	return DefaultRentExempt, nil
}

// Interpreter answers interpretation requests with Func. It is replaceable
// while a server is running.
type Interpreter struct {
	mu   sync.Mutex
	Func func(ctx context.Context, req intent.Request, proof string) (intent.Interpretation, error)
}

func (i *Interpreter) Set(f func(ctx context.Context, req intent.Request, proof string) (intent.Interpretation, error)) {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.Func = f
}

func (i *Interpreter) Interpret(ctx context.Context, req intent.Request, proof string) (intent.Interpretation, error) {
	i.mu.Lock()
	f := i.Func
	i.mu.Unlock()

	if f == nil {
		return intent.ErrorReply{Message: "no interpretation configured"}, nil
	}

	return f(ctx, req, proof)
}

// NewAppContext builds an AppContext from cfg with an in-memory gateway and
// interpreter.
func NewAppContext(t *testing.T, cfg config.Server, clock time2.Clock) (*wallet.AppContext, *Gateway, *Interpreter) {
	t.Helper()

	transport, err := deeplink.NewTransport(cfg.Signer.DeepLinkBase)
	require.NoError(t, err)

	signerSession, err := session.NewSignerSession()
	require.NoError(t, err)

	gw := NewGateway(clock)
	interpreter := &Interpreter{}

	return &wallet.AppContext{
		Wallet:      cfg.Wallet,
		Signer:      cfg.Signer,
		Network:     intent.NetworkForCluster(cfg.Wallet.Cluster),
		Gateway:     gw,
		Interpreter: interpreter,
		Transport:   transport,
		Session:     signerSession,
		Clock:       clock,
	}, gw, interpreter
}

// Config returns the default config with fast read retries.
func Config() config.Server {
	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Wallet.ReadRetryInitialInterval = time.Millisecond
	cfg.Wallet.ReadRetries = 2

	return cfg
}
