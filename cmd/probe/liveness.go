package probe

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/api/handlers/common"
	"github/chapool/intent-wallet/internal/config"
	"github/chapool/intent-wallet/internal/util/command"
)

func newLiveness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "liveness",
		Short: "Runs liveness probes",
		Long:  `Checks that the configured RPC node answers. Exits non-zero on failure.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to parse args")
			}

			runProbe(common.ProbeLiveness, verbose)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}

func runProbe(probe func(ctx context.Context, s *api.Server) []error, verbose bool) {
	cfg := config.DefaultServiceConfigFromEnv()

	err := command.WithServer(context.Background(), cfg, func(ctx context.Context, s *api.Server) error {
		errs := probe(ctx, s)
		if len(errs) > 0 {
			if verbose {
				log.Error().Errs("errors", errs).Msg("Probe failed")
			}
			os.Exit(1)
		}

		if verbose {
			log.Info().Msg("Probe succeeded")
		}

		return nil
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to run probe")
	}
}
