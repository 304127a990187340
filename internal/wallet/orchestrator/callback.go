package orchestrator

import (
	"context"

	"github/chapool/intent-wallet/internal/util"
	"github/chapool/intent-wallet/internal/wallet/deeplink"
	"github/chapool/intent-wallet/internal/wallet/failure"
	"github/chapool/intent-wallet/internal/wallet/session"
	"github/chapool/intent-wallet/internal/wallet/txbuilder"
)

const (
	eventConnected    = "connected"
	eventSigned       = "signed"
	eventDisconnected = "disconnected"
	eventError        = "error"
	eventUnrecognized = "unrecognized"
	eventInvalid      = "invalid"
)

// HandleCallback applies a signer callback URI. Callbacks that answer a
// superseded request or arrive in an unexpected state are discarded without
// changing anything. The returned error is the failure the callback caused,
// if it was applied.
func (o *Orchestrator) HandleCallback(ctx context.Context, raw string) (CallbackResult, error) {
	log := util.LogFromContext(ctx)

	ev, err := deeplink.ParseCallback(raw)
	if err != nil {
		log.Warn().Err(err).Msg("Rejected malformed callback")
		o.metrics.CallbackHandled(eventInvalid, string(CallbackRejected))

		return CallbackRejected, err
	}

	var (
		name   string
		result CallbackResult
	)

	switch e := ev.(type) {
	case deeplink.ErrorReported:
		name = eventError
		result, err = o.handleErrorReported(ctx, e)
	case deeplink.Connected:
		name = eventConnected
		result, err = o.handleConnected(ctx, e)
	case deeplink.Signed:
		name = eventSigned
		result, err = o.handleSigned(ctx, e)
	case deeplink.Disconnected:
		name = eventDisconnected
		result = o.handleDisconnected(ctx, e)
	default:
		name = eventUnrecognized
		result = CallbackUnrecognized
		log.Warn().Str("flow", ev.CallbackMeta().Flow.String()).Msg("Ignoring callback on unknown path")
	}

	o.metrics.CallbackHandled(name, string(result))

	return result, err
}

// connectCurrentLocked reports whether m answers the latest connect attempt.
// Links without a generation are taken as current.
func (o *Orchestrator) connectCurrentLocked(m deeplink.Meta) bool {
	return !m.HasGeneration || m.Generation == o.connectAttempt
}

func (o *Orchestrator) intentCurrentLocked(m deeplink.Meta) bool {
	return !m.HasGeneration || m.Generation == o.generation
}

func (o *Orchestrator) handleConnected(ctx context.Context, e deeplink.Connected) (CallbackResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	log := util.LogFromContext(ctx)

	if !o.connectCurrentLocked(e.Meta) || o.app.Session.State() != session.StateConnecting {
		log.Info().Uint64("callback_generation", e.Generation).Msg("Discarding stale connect callback")
		return CallbackDiscarded, nil
	}

	data, err := o.app.Session.Establish(e.PeerPublic, e.Nonce, e.Ciphertext)
	if err != nil {
		if failure.IsSessionFatal(err) {
			o.sessionFailureLocked(err)
		} else {
			o.sessionErr = err
			o.app.Session.AbortConnect()
		}

		return CallbackApplied, err
	}

	o.sessionErr = nil
	log.Info().Str("address", data.PublicKey).Msg("Wallet connected")

	return CallbackApplied, nil
}

func (o *Orchestrator) handleSigned(ctx context.Context, e deeplink.Signed) (CallbackResult, error) {
	o.mu.Lock()

	log := util.LogFromContext(ctx)

	if !o.intentCurrentLocked(e.Meta) || o.state != StateSigning {
		o.mu.Unlock()
		log.Info().Uint64("callback_generation", e.Generation).Msg("Discarding stale sign callback")

		return CallbackDiscarded, nil
	}

	signed, err := o.app.Session.OpenSignTransaction(e.Nonce, e.Ciphertext)
	if err == nil {
		var foreign bool
		foreign, err = o.checkSignedLocked(signed)

		// without a generation, a mismatching answer most likely belongs to a
		// superseded request and must not fail the current one
		if foreign && !e.HasGeneration {
			o.mu.Unlock()
			log.Info().Err(err).Msg("Discarding sign callback that answers another request")

			return CallbackDiscarded, nil
		}
	}
	if err != nil {
		o.failLocked(err)
		o.sessionFailureLocked(err)
		o.mu.Unlock()

		return CallbackApplied, err
	}

	o.metrics.ObserveRoundTrip(o.app.Clock.Now().Sub(o.signRequestedAt))
	o.transitionLocked(StateSubmitting)
	gen := o.generation
	o.mu.Unlock()

	ctx = util.WithGeneration(ctx, gen)
	signature, err := o.app.Gateway.SubmitRaw(ctx, signed)

	o.mu.Lock()
	defer o.mu.Unlock()

	if err != nil {
		o.failLocked(err)
		o.resubmittable = true

		return CallbackApplied, err
	}

	o.sent = nil
	o.confirmationID = signature
	o.transitionLocked(StateDone)
	o.metrics.IntentFinished(outcomeDone)
	util.LogFromContext(ctx).Info().Str("signature", signature).Msg("Transaction submitted")

	return CallbackApplied, nil
}

// checkSignedLocked makes sure the signer returned the transaction it was
// asked to sign. Instructions may have been added, the payer and blockhash
// must be unchanged. foreign is set when the bytes are a valid transaction
// that was not the one sent.
func (o *Orchestrator) checkSignedLocked(signed []byte) (foreign bool, err error) {
	summary, err := txbuilder.Inspect(signed)
	if err != nil {
		return false, err
	}

	if o.sent == nil {
		return false, failure.New(failure.KindInvalidState, "no signature was requested")
	}
	if !summary.FeePayer.Equals(o.sent.feePayer) {
		return true, failure.Newf(failure.KindFeePayerMismatch, "signed transaction is paid by %s", summary.FeePayer)
	}
	if summary.RecentBlockhash != o.sent.blockhash {
		return true, failure.New(failure.KindInvalidState, "signed transaction carries a different blockhash")
	}

	return false, nil
}

func (o *Orchestrator) handleErrorReported(ctx context.Context, e deeplink.ErrorReported) (CallbackResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	log := util.LogFromContext(ctx)
	rejected := failure.SignerRejected(e.Code, e.Message)

	switch e.Flow {
	case deeplink.FlowConnect:
		if !o.connectCurrentLocked(e.Meta) || o.app.Session.State() != session.StateConnecting {
			return CallbackDiscarded, nil
		}
		o.sessionErr = rejected
		o.app.Session.AbortConnect()

	case deeplink.FlowSignTransaction:
		if !o.intentCurrentLocked(e.Meta) || o.state != StateSigning {
			return CallbackDiscarded, nil
		}
		o.failLocked(rejected)

	case deeplink.FlowDisconnect:
		// the session is already gone locally
		return CallbackDiscarded, nil

	default:
		// the error still answers whatever is outstanding, connect is refused while signing
		switch {
		case o.state == StateSigning && o.intentCurrentLocked(e.Meta):
			o.failLocked(rejected)
		case o.app.Session.State() == session.StateConnecting && o.connectCurrentLocked(e.Meta):
			o.sessionErr = rejected
			o.app.Session.AbortConnect()
		default:
			log.Warn().Str("code", e.Code).Msg("Signer error on unknown path")
			return CallbackUnrecognized, rejected
		}
	}

	log.Info().Str("code", e.Code).Str("flow", e.Flow.String()).Msg("Signer reported an error")

	return CallbackApplied, rejected
}

func (o *Orchestrator) handleDisconnected(ctx context.Context, e deeplink.Disconnected) CallbackResult {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.connectCurrentLocked(e.Meta) {
		return CallbackDiscarded
	}

	if o.state == StateConfirming || o.state == StateSigning {
		o.generation++
		o.failLocked(failure.New(failure.KindNotConnected, "wallet disconnected during the signing round trip"))
	}

	o.app.Session.Invalidate()
	util.LogFromContext(ctx).Info().Msg("Signer closed the session")

	return CallbackApplied
}
