package orchestrator

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github/chapool/intent-wallet/internal/wallet/failure"
	"github/chapool/intent-wallet/internal/wallet/intent"
	"github/chapool/intent-wallet/internal/wallet/session"
	"github/chapool/intent-wallet/internal/wallet/txbuilder"
)

// State is the lifecycle of the intent in flight.
type State string

const (
	StateIdle                 State = "idle"
	StateParsing              State = "parsing"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateConfirming           State = "confirming"
	StateSigning              State = "signing"
	StateSubmitting           State = "submitting"
	StateDone                 State = "done"
	StateFailed               State = "failed"
)

func (s State) String() string {
	return string(s)
}

// Terminal reports whether a new intent may start from s.
func (s State) Terminal() bool {
	return s == StateIdle || s == StateDone || s == StateFailed
}

// DeferredBuilder builds a transaction that cannot be prepared ahead of time,
// typically because it needs a freshly generated account.
type DeferredBuilder func(ctx context.Context, owner solana.PublicKey) (txbuilder.UnsignedTransaction, error)

// PendingIntent is the one request in flight. Exactly one of blob and deferred is set.
type PendingIntent struct {
	ID           uuid.UUID
	Prompt       string
	Kind         intent.ActionType
	Summary      intent.Summary
	PaymentProof string

	blob     txbuilder.UnsignedTransaction
	deferred DeferredBuilder
}

func (p *PendingIntent) validate() error {
	if p == nil {
		return failure.New(failure.KindInvalidState, "no intent pending")
	}
	if (p.blob == nil) == (p.deferred == nil) {
		return failure.New(failure.KindInvalidState, "intent must carry exactly one of a transaction or a builder")
	}

	return nil
}

func (p *PendingIntent) build(ctx context.Context, owner solana.PublicKey) (txbuilder.UnsignedTransaction, error) {
	if p.blob != nil {
		return p.blob, nil
	}

	return p.deferred(ctx, owner)
}

func (p *PendingIntent) view() *IntentView {
	v := &IntentView{
		ID:       p.ID,
		Prompt:   p.Prompt,
		Summary:  p.Summary,
		Deferred: p.deferred != nil,
	}
	if p.blob != nil {
		v.Format = p.blob.Format()
	}

	return v
}

// IntentView is the display part of a PendingIntent.
type IntentView struct {
	ID       uuid.UUID        `json:"id"`
	Prompt   string           `json:"prompt"`
	Summary  intent.Summary   `json:"summary"`
	Format   txbuilder.Format `json:"format,omitempty"`
	Deferred bool             `json:"deferred"`
}

// PaymentGate is a prompt parked until a payment proof is supplied.
type PaymentGate struct {
	Prompt string `json:"prompt"`
	Amount uint64 `json:"amount"`
}

// Snapshot is a read only copy of the orchestrator state.
type Snapshot struct {
	Generation     uint64        `json:"generation"`
	State          State         `json:"state"`
	Session        session.State `json:"session"`
	Address        string        `json:"address,omitempty"`
	Balance        *uint64       `json:"balance_lamports,omitempty"`
	Intent         *IntentView   `json:"intent,omitempty"`
	Payment        *PaymentGate  `json:"payment_required,omitempty"`
	Reason         string        `json:"reason,omitempty"`
	SessionReason  string        `json:"session_reason,omitempty"`
	ConfirmationID string        `json:"confirmation_id,omitempty"`
	Resubmittable  bool          `json:"resubmittable"`

	Failure        error `json:"-"`
	SessionFailure error `json:"-"`
}

// CallbackResult is how HandleCallback dealt with a callback.
type CallbackResult string

const (
	CallbackApplied      CallbackResult = "applied"
	CallbackDiscarded    CallbackResult = "discarded"
	CallbackUnrecognized CallbackResult = "unrecognized"
	CallbackRejected     CallbackResult = "rejected"
)
