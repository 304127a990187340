//go:build wireinject

package api

import (
	"github.com/google/wire"
	"github/chapool/intent-wallet/internal/config"
	"github/chapool/intent-wallet/internal/metrics"
	"github/chapool/intent-wallet/internal/wallet"
)

// INJECTORS - https://github.com/google/wire/blob/main/docs/guide.md#injectors

// serviceSet groups the default set of providers that are required for initing a server
var serviceSet = wire.NewSet(
	newServerWithComponents,
	NewI18N,
	metrics.New,
	NewOrchestrator,
)

// InitNewServer returns a new Server instance talking to the configured RPC
// node, interpreter and signer.
func InitNewServer(
	_ config.Server,
) (*Server, error) {
	wire.Build(serviceSet, NewAppContext, NewClock, NoTest)
	return new(Server), nil
}

// InitNewServerWithApp returns a new Server instance with the given AppContext.
// All the other components are initialized via go wire according to the configuration.
func InitNewServerWithApp(
	_ config.Server,
	_ *wallet.AppContext,
) (*Server, error) {
	wire.Build(serviceSet, AppClock)
	return new(Server), nil
}
