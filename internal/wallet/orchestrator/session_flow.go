package orchestrator

import (
	"context"

	"github/chapool/intent-wallet/internal/util"
	"github/chapool/intent-wallet/internal/wallet/deeplink"
	"github/chapool/intent-wallet/internal/wallet/failure"
)

// Connect starts a connect handshake and returns the URI to hand to the signer.
// A key pair already used with a peer is replaced first.
func (o *Orchestrator) Connect(ctx context.Context) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateConfirming, StateSigning, StateSubmitting:
		return "", failure.Newf(failure.KindInvalidState, "cannot reconnect while intent is %s", o.state)
	}

	if err := o.app.Session.BeginConnect(); err != nil {
		return "", err
	}

	o.connectAttempt++
	o.sessionErr = nil

	redirect, err := deeplink.RedirectLink(o.app.Signer.RedirectBase, deeplink.FlowConnect, o.connectAttempt)
	if err != nil {
		o.app.Session.AbortConnect()
		return "", err
	}

	local := o.app.Session.LocalPublic()
	uri, err := o.app.Transport.ConnectRequest(local[:], o.app.Wallet.Cluster, o.app.Signer.AppURL, redirect)
	if err != nil {
		o.app.Session.AbortConnect()
		return "", err
	}

	util.LogFromContext(ctx).Info().Uint64("attempt", o.connectAttempt).Msg("Connect requested")

	return uri, nil
}

// Disconnect drops the session as a unit and returns the URI that tells the
// signer, or an empty string if there was no connected session. An intent
// waiting for a signature fails with NotConnected.
func (o *Orchestrator) Disconnect(ctx context.Context) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	log := util.LogFromContext(ctx)

	if o.state == StateConfirming || o.state == StateSigning {
		o.generation++
		o.failLocked(failure.New(failure.KindNotConnected, "wallet disconnected during the signing round trip"))
	}

	var uri string
	if o.app.Session.Connected() {
		var err error
		uri, err = o.disconnectRequestLocked()
		if err != nil {
			log.Warn().Err(err).Msg("Failed to build disconnect request, dropping session locally")
		}
	}

	o.app.Session.Invalidate()
	log.Info().Msg("Session disconnected")

	return uri, nil
}

func (o *Orchestrator) disconnectRequestLocked() (string, error) {
	nonce, ciphertext, err := o.app.Session.SealDisconnect()
	if err != nil {
		return "", err
	}

	redirect, err := deeplink.RedirectLink(o.app.Signer.RedirectBase, deeplink.FlowDisconnect, o.connectAttempt)
	if err != nil {
		return "", err
	}

	local := o.app.Session.LocalPublic()

	return o.app.Transport.DisconnectRequest(local[:], nonce, ciphertext, redirect)
}
