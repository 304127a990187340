// Package orchestrator drives one intent at a time through interpretation,
// confirmation, the signer round trip and submission, and owns the signer
// session lifecycle. Every request handed to the signer is tagged with a
// generation; callbacks of superseded generations are discarded.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/gagliardetto/solana-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github/chapool/intent-wallet/internal/metrics"
	"github/chapool/intent-wallet/internal/util"
	"github/chapool/intent-wallet/internal/wallet"
	"github/chapool/intent-wallet/internal/wallet/failure"
	"github/chapool/intent-wallet/internal/wallet/txbuilder"
)

const (
	defaultRetryInitialInterval = 250 * time.Millisecond
	defaultMaxStampAge          = 30 * time.Second
	maxStampRefreshes           = 3

	outcomeDone            = "done"
	outcomeFailed          = "failed"
	outcomeCancelled       = "cancelled"
	outcomePaymentRequired = "payment_required"
)

var errSuperseded = failure.New(failure.KindInvalidState, "intent was cancelled or replaced")

type sentTransaction struct {
	feePayer  solana.PublicKey
	blockhash solana.Hash
}

// Orchestrator is safe for concurrent use. Its lock is never held across a
// network call; state is rechecked against the generation afterwards.
type Orchestrator struct {
	app     *wallet.AppContext
	builder *txbuilder.Builder
	metrics *metrics.Service
	logger  zerolog.Logger

	mu              sync.Mutex
	generation      uint64
	connectAttempt  uint64
	state           State
	pending         *PendingIntent
	view            *IntentView
	lastPrompt      string
	failure         error
	resubmittable   bool
	confirmationID  string
	paymentProof    string
	gate            *PaymentGate
	sessionErr      error
	sent            *sentTransaction
	signRequestedAt time.Time
}

func New(app *wallet.AppContext, m *metrics.Service) *Orchestrator {
	o := &Orchestrator{
		app:     app,
		metrics: m,
		state:   StateIdle,
		logger:  log.With().Str("component", "orchestrator").Logger(),
	}
	o.builder = txbuilder.NewBuilder(retryingRentOracle{o: o})

	return o
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	s := Snapshot{
		Generation:     o.generation,
		State:          o.state,
		Session:        o.app.Session.State(),
		Intent:         o.view,
		Failure:        o.failure,
		SessionFailure: o.sessionErr,
		ConfirmationID: o.confirmationID,
		Resubmittable:  o.resubmittable,
	}

	if address, ok := o.app.Session.Address(); ok {
		s.Address = address.String()
	}
	if balance, ok := o.app.Session.Balance(); ok {
		s.Balance = &balance
	}
	if o.gate != nil {
		gate := *o.gate
		s.Payment = &gate
	}
	if o.failure != nil {
		s.Reason = o.failure.Error()
	}
	if o.sessionErr != nil {
		s.SessionReason = o.sessionErr.Error()
	}

	return s
}

// Balance fetches and caches the balance of the connected wallet.
func (o *Orchestrator) Balance(ctx context.Context) (uint64, error) {
	address, ok := o.app.Session.Address()
	if !ok {
		return 0, failure.New(failure.KindNotConnected, "no wallet connected")
	}

	lamports, err := retryRead(ctx, o, func() (uint64, error) {
		return o.app.Gateway.GetBalance(ctx, address)
	})
	if err != nil {
		return 0, err
	}

	if !o.app.Session.SetBalance(address, lamports) {
		util.LogFromContext(ctx).Debug().Str("address", address.String()).Msg("Wallet changed during balance query, not caching")
	}

	return lamports, nil
}

func (o *Orchestrator) transitionLocked(to State) {
	from := o.state
	if from == to {
		return
	}

	o.state = to
	o.metrics.StateTransition(from.String(), to.String())
	o.logger.Debug().
		Uint64("generation", o.generation).
		Str("from", from.String()).
		Str("state", to.String()).
		Msg("State transition")
}

// failLocked ends the current intent with a user visible reason.
func (o *Orchestrator) failLocked(err error) {
	o.failure = err
	o.pending = nil
	o.sent = nil
	o.transitionLocked(StateFailed)
	o.metrics.IntentFinished(outcomeFailed)

	o.logger.Warn().
		Err(err).
		Uint64("generation", o.generation).
		Str("kind", string(failure.KindOf(err))).
		Msg("Intent failed")
}

// sessionFailureLocked tears the session down after a desynced key exchange
// so the next connect uses a fresh key pair.
func (o *Orchestrator) sessionFailureLocked(err error) {
	if !failure.IsSessionFatal(err) {
		return
	}

	o.sessionErr = err
	if rerr := o.app.Session.Reset(); rerr != nil {
		o.logger.Error().Err(rerr).Msg("Failed to rotate session keys")
	}

	o.logger.Warn().Err(err).Msg("Session invalidated")
}

func (o *Orchestrator) maxStampAge() time.Duration {
	if o.app.Wallet.MaxStampAge > 0 {
		return o.app.Wallet.MaxStampAge
	}

	return defaultMaxStampAge
}

func (o *Orchestrator) fetchStamp(ctx context.Context) (txbuilder.FreshnessStamp, error) {
	return retryRead(ctx, o, func() (txbuilder.FreshnessStamp, error) {
		return o.app.Gateway.GetRecentBlockhash(ctx)
	})
}

// retryRead retries idempotent reads with exponential backoff. Anything that
// is not a retryable network failure is returned at once.
func retryRead[T any](ctx context.Context, o *Orchestrator, op func() (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = o.app.Wallet.ReadRetryInitialInterval
	if b.InitialInterval <= 0 {
		b.InitialInterval = defaultRetryInitialInterval
	}

	return backoff.Retry(ctx, func() (T, error) {
		v, err := op()
		if err != nil && !failure.IsRetryable(err) {
			return v, backoff.Permanent(err)
		}

		return v, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(o.app.Wallet.ReadRetries+1),
		backoff.WithNotify(func(err error, next time.Duration) {
			util.LogFromContext(ctx).Debug().Err(err).Dur("next", next).Msg("Retrying read")
		}),
	)
}

type retryingRentOracle struct {
	o *Orchestrator
}

func (r retryingRentOracle) GetMinimumBalanceForRentExemption(ctx context.Context, size uint64) (uint64, error) {
	return retryRead(ctx, r.o, func() (uint64, error) {
		return r.o.app.Gateway.GetMinimumBalanceForRentExemption(ctx, size)
	})
}
