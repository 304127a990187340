package api

import (
	"testing"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github/chapool/intent-wallet/internal/config"
	"github/chapool/intent-wallet/internal/i18n"
	"github/chapool/intent-wallet/internal/metrics"
	"github/chapool/intent-wallet/internal/wallet"
	"github/chapool/intent-wallet/internal/wallet/orchestrator"
)

// PROVIDERS - define here only providers that for various reasons (e.g. cyclic dependency) can't live in their corresponding packages
// or for wrapping providers that only accept sub-configs to prevent the requirement for defining providers for sub-configs.
// https://github.com/google/wire/blob/main/docs/guide.md#defining-providers

// NewI18N is used by wire to initialize the i18n service for the server.
func NewI18N(cfg config.Server) (*i18n.Service, error) {
	return i18n.New(cfg)
}

// NewAppContext wires the production wallet collaborators.
func NewAppContext(cfg config.Server, clock time2.Clock) (*wallet.AppContext, error) {
	return wallet.NewAppContext(cfg, clock)
}

// AppClock reuses the clock of an injected AppContext so freshness stamps and
// server time agree.
func AppClock(app *wallet.AppContext) time2.Clock {
	return app.Clock
}

func NewOrchestrator(app *wallet.AppContext, m *metrics.Service) *orchestrator.Orchestrator {
	return orchestrator.New(app, m)
}

// NewClock returns the real clock, or a mock clock pinned to a fixed date if a test is passed.
func NewClock(t ...*testing.T) time2.Clock {
	var clock time2.Clock

	useMock := len(t) > 0 && t[0] != nil

	if !useMock {
		clock = time2.DefaultClock
	} else {
		clock = time2.NewMockClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	}

	return clock
}

// NoTest is used by wire to provide an empty test list outside of tests.
func NoTest() []*testing.T {
	return nil
}
