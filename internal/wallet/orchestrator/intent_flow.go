package orchestrator

import (
	"context"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github/chapool/intent-wallet/internal/util"
	"github/chapool/intent-wallet/internal/wallet/deeplink"
	"github/chapool/intent-wallet/internal/wallet/failure"
	"github/chapool/intent-wallet/internal/wallet/intent"
	"github/chapool/intent-wallet/internal/wallet/txbuilder"
)

// Submit interprets prompt and parks the result for confirmation. Only one
// intent may be in flight. A payment gate parks the prompt and returns the
// machine to idle with a PaymentRequired error.
func (o *Orchestrator) Submit(ctx context.Context, prompt string) (Snapshot, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return o.Snapshot(), failure.New(failure.KindInvalidIntent, "prompt is empty")
	}

	o.mu.Lock()
	if !o.state.Terminal() {
		defer o.mu.Unlock()
		return o.snapshotLocked(), failure.Newf(failure.KindIntentInFlight, "an intent is %s", o.state)
	}

	o.generation++
	gen := o.generation
	o.pending = nil
	o.view = nil
	o.failure = nil
	o.resubmittable = false
	o.confirmationID = ""
	o.sent = nil
	o.lastPrompt = prompt
	o.transitionLocked(StateParsing)

	proof := o.paymentProof
	req := intent.Request{Prompt: prompt, Network: o.app.Network}
	if address, ok := o.app.Session.Address(); ok {
		req.UserPubkey = address.String()
	}
	o.mu.Unlock()

	ctx = util.WithGeneration(ctx, gen)
	log := util.LogFromContext(ctx)
	log.Info().Bool("payment_proof", proof != "").Msg("Interpreting prompt")

	interpretation, err := o.app.Interpreter.Interpret(ctx, req, proof)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.generation != gen || o.state != StateParsing {
		log.Info().Msg("Discarding interpretation of a superseded intent")
		return o.snapshotLocked(), errSuperseded
	}

	if err != nil {
		if e, ok := failure.As(err); ok && e.Kind == failure.KindPaymentRequired {
			o.paymentProof = ""
			o.gate = &PaymentGate{Prompt: prompt, Amount: e.Amount}
			o.transitionLocked(StateIdle)
			o.metrics.IntentFinished(outcomePaymentRequired)
			log.Info().Uint64("amount", e.Amount).Msg("Payment required")

			return o.snapshotLocked(), err
		}

		o.failLocked(err)

		return o.snapshotLocked(), err
	}

	pending, err := o.newPendingIntent(prompt, proof, interpretation)
	if err != nil {
		o.failLocked(err)
		return o.snapshotLocked(), err
	}

	o.gate = nil
	o.pending = pending
	o.view = pending.view()
	o.transitionLocked(StateAwaitingConfirmation)

	log.Info().
		Str("intent_id", pending.ID.String()).
		Str("action", string(pending.Kind)).
		Msg("Intent awaiting confirmation")

	return o.snapshotLocked(), nil
}

func (o *Orchestrator) newPendingIntent(prompt string, proof string, in intent.Interpretation) (*PendingIntent, error) {
	p := &PendingIntent{
		ID:           uuid.New(),
		Prompt:       prompt,
		Kind:         in.Action(),
		Summary:      in.Summary(),
		PaymentProof: proof,
	}

	switch v := in.(type) {
	case intent.Transfer:
		if v.Tx != nil {
			tx, err := txbuilder.AcceptExternal(v.Tx)
			if err != nil {
				return nil, err
			}
			p.blob = tx

			break
		}

		lamports, err := txbuilder.SOLToLamports(v.Amount)
		if err != nil {
			return nil, err
		}
		recipient := v.Recipient
		p.deferred = func(_ context.Context, owner solana.PublicKey) (txbuilder.UnsignedTransaction, error) {
			tx, err := txbuilder.BuildTransfer(owner, recipient, lamports)
			if err != nil {
				return nil, err
			}

			return tx, nil
		}

	case intent.Swap:
		tx, err := txbuilder.AcceptExternal(v.Tx)
		if err != nil {
			return nil, err
		}
		p.blob = tx

	case intent.MintNFT:
		meta := v.Metadata
		if err := meta.Validate(); err != nil {
			return nil, err
		}
		p.deferred = func(ctx context.Context, owner solana.PublicKey) (txbuilder.UnsignedTransaction, error) {
			tx, err := o.builder.BuildTokenMintFlow(ctx, owner, nil, meta)
			if err != nil {
				return nil, err
			}

			return tx, nil
		}

	case intent.ErrorReply:
		return nil, failure.New(failure.KindInvalidIntent, v.Message)

	default:
		return nil, failure.Newf(failure.KindInvalidIntent, "unsupported interpretation %T", in)
	}

	return p, p.validate()
}

// SupplyPayment caches proof for every following interpretation request and
// resumes a prompt parked by the payment gate.
func (o *Orchestrator) SupplyPayment(ctx context.Context, proof string) (Snapshot, error) {
	proof = strings.TrimSpace(proof)
	if proof == "" {
		return o.Snapshot(), failure.New(failure.KindInvalidIntent, "payment proof is empty")
	}

	o.mu.Lock()
	o.paymentProof = proof
	gate := o.gate
	resume := gate != nil && o.state == StateIdle
	o.mu.Unlock()

	if !resume {
		return o.Snapshot(), nil
	}

	util.LogFromContext(ctx).Info().Msg("Payment supplied, resuming prompt")

	return o.Submit(ctx, gate.Prompt)
}

// Confirm builds and finalizes the pending intent and returns the sign request
// URI. A wallet must be connected.
func (o *Orchestrator) Confirm(ctx context.Context) (string, error) {
	o.mu.Lock()
	if o.state != StateAwaitingConfirmation {
		defer o.mu.Unlock()
		return "", failure.Newf(failure.KindInvalidState, "nothing to confirm while %s", o.state)
	}

	pending := o.pending
	if err := pending.validate(); err != nil {
		o.failLocked(err)
		o.mu.Unlock()
		return "", err
	}

	o.transitionLocked(StateConfirming)

	owner, connected := o.app.Session.Address()
	if !connected {
		err := failure.New(failure.KindNotConnected, "connect a wallet before confirming")
		o.failLocked(err)
		o.mu.Unlock()
		return "", err
	}

	gen := o.generation
	o.mu.Unlock()

	ctx = util.WithGeneration(ctx, gen)

	tx, err := pending.build(ctx, owner)
	if err != nil {
		return "", o.abortConfirm(gen, err)
	}

	for range maxStampRefreshes {
		stamp, err := o.fetchStamp(ctx)
		if err != nil {
			return "", o.abortConfirm(gen, err)
		}

		o.mu.Lock()
		if o.generation != gen || o.state != StateConfirming {
			o.mu.Unlock()
			return "", errSuperseded
		}

		// the stamp must be fresh at the moment it is serialized for the signer
		if age := stamp.Age(o.app.Clock.Now()); age > o.maxStampAge() {
			o.mu.Unlock()
			util.LogFromContext(ctx).Debug().Dur("age", age).Msg("Blockhash went stale, refetching")
			continue
		}

		uri, err := o.requestSignatureLocked(tx, stamp, owner)
		if err != nil {
			o.failLocked(err)
			o.mu.Unlock()
			return "", err
		}
		o.mu.Unlock()

		util.LogFromContext(ctx).Info().Str("intent_id", pending.ID.String()).Msg("Signature requested")

		return uri, nil
	}

	return "", o.abortConfirm(gen, failure.New(failure.KindInvalidState, "could not obtain a fresh blockhash"))
}

func (o *Orchestrator) abortConfirm(gen uint64, err error) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.generation != gen || o.state != StateConfirming {
		return errSuperseded
	}

	o.failLocked(err)

	return err
}

func (o *Orchestrator) requestSignatureLocked(tx txbuilder.UnsignedTransaction, stamp txbuilder.FreshnessStamp, owner solana.PublicKey) (string, error) {
	raw, err := txbuilder.Finalize(tx, stamp, owner)
	if err != nil {
		return "", err
	}

	nonce, ciphertext, err := o.app.Session.SealSignTransaction(raw)
	if err != nil {
		return "", err
	}

	redirect, err := deeplink.RedirectLink(o.app.Signer.RedirectBase, deeplink.FlowSignTransaction, o.generation)
	if err != nil {
		return "", err
	}

	local := o.app.Session.LocalPublic()
	uri, err := o.app.Transport.SignTransactionRequest(local[:], nonce, ciphertext, redirect)
	if err != nil {
		return "", err
	}

	o.pending = nil
	o.sent = &sentTransaction{feePayer: owner, blockhash: stamp.Blockhash}
	o.signRequestedAt = o.app.Clock.Now()
	o.transitionLocked(StateSigning)

	return uri, nil
}

// Cancel abandons the intent in flight. After the request went to the signer
// its prompt cannot be recalled; the generation advances so its answer is
// ignored. A finished intent is dismissed and a parked prompt dropped.
func (o *Orchestrator) Cancel(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateParsing, StateAwaitingConfirmation, StateConfirming, StateSigning:
		o.generation++
		o.pending = nil
		o.view = nil
		o.sent = nil
		o.transitionLocked(StateIdle)
		o.metrics.IntentFinished(outcomeCancelled)
		util.LogFromContext(ctx).Info().Uint64("generation", o.generation).Msg("Intent cancelled")

	case StateDone, StateFailed:
		o.view = nil
		o.failure = nil
		o.resubmittable = false
		o.confirmationID = ""
		o.transitionLocked(StateIdle)

	case StateIdle:
		o.gate = nil

	case StateSubmitting:
		return o.snapshotLocked(), failure.New(failure.KindInvalidState, "a submitted transaction cannot be cancelled")
	}

	return o.snapshotLocked(), nil
}

// Resubmit starts the failed prompt over with a fresh interpretation and a
// fresh blockhash. The signed bytes of the failed attempt are never replayed.
func (o *Orchestrator) Resubmit(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	if o.state != StateFailed || !o.resubmittable {
		defer o.mu.Unlock()
		return o.snapshotLocked(), failure.New(failure.KindInvalidState, "only a failed submission can be resubmitted")
	}

	prompt := o.lastPrompt
	o.resubmittable = false
	o.mu.Unlock()

	return o.Submit(ctx, prompt)
}
