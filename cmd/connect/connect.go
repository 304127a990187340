package connect

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/config"
	"github/chapool/intent-wallet/internal/util/command"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "connect",
		Short: "Prints a connect deep link",
		Long: `Builds a connect request with a fresh session key pair and prints the
deep link URI. The key pair lives only as long as this process, so the
signer's answer cannot be applied here. Use it to check the configured
signer base URL, cluster and redirect scheme. Use the server command for
real round trips.`,
		Run: func(_ *cobra.Command, _ []string) {
			if err := runConnect(); err != nil {
				log.Fatal().Err(err).Msg("Failed to build connect request")
			}
		},
	}
}

func runConnect() error {
	cfg := config.DefaultServiceConfigFromEnv()

	return command.WithServer(context.Background(), cfg, func(ctx context.Context, s *api.Server) error {
		uri, err := s.Orchestrator.Connect(ctx)
		if err != nil {
			return err
		}

		fmt.Println(uri)

		return nil
	})
}
