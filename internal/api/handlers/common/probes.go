package common

import (
	"context"
	"errors"

	"github/chapool/intent-wallet/internal/api"
)

var errNotInitialized = errors.New("server is not fully initialized")

// ProbeReadiness reports whether every component of s is wired.
func ProbeReadiness(_ context.Context, s *api.Server) []error {
	if !s.Ready() {
		return []error{errNotInitialized}
	}

	return nil
}

// ProbeLiveness checks that the RPC node answers a blockhash query within
// the configured liveness timeout.
func ProbeLiveness(ctx context.Context, s *api.Server) []error {
	if errs := ProbeReadiness(ctx, s); len(errs) > 0 {
		return errs
	}

	ctx, cancel := context.WithTimeout(ctx, s.Config.Management.LivenessTimeout)
	defer cancel()

	if _, err := s.App.Gateway.GetRecentBlockhash(ctx); err != nil {
		return []error{err}
	}

	return nil
}
