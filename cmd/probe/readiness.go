package probe

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/intent-wallet/internal/api/handlers/common"
)

func newReadiness() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "readiness",
		Short: "Runs readiness probes",
		Long:  `Checks that every server component can be wired. Exits non-zero on failure.`,
		Run: func(cmd *cobra.Command, _ []string) {
			verbose, err := cmd.Flags().GetBool(verboseFlag)
			if err != nil {
				log.Fatal().Err(err).Msg("Failed to parse args")
			}

			runProbe(common.ProbeReadiness, verbose)
		},
	}

	cmd.Flags().BoolP(verboseFlag, "v", false, "Show verbose output.")

	return cmd
}
