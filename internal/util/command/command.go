package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github/chapool/intent-wallet/internal/api"
	"github/chapool/intent-wallet/internal/config"
	"golang.org/x/term"
)

const shutdownTimeout = 10 * time.Second

// SetupLogger configures the global zerolog logger. Pretty printing only
// applies when stdout is a terminal.
func SetupLogger(cfg config.Server) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(cfg.Logger.Level)

	logger := log.Logger
	if cfg.Logger.PrettyPrintConsole && term.IsTerminal(int(os.Stdout.Fd())) {
		logger = log.Output(zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
			w.TimeFormat = "15:04:05"
		}))
	}

	if cfg.Logger.LogCaller {
		logger = logger.With().Caller().Logger()
	}

	log.Logger = logger
}

// WithServer initializes a fully wired server, hands it to f and shuts it
// down afterwards. The echo router is not started.
func WithServer(ctx context.Context, cfg config.Server, f func(ctx context.Context, s *api.Server) error) error {
	SetupLogger(cfg)

	s, err := api.InitNewServer(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to initialize server")
	}

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if errs := s.Shutdown(shutdownCtx); len(errs) > 0 {
			log.Error().Errs("errors", errs).Msg("Failed to gracefully shut down server")
		}
	}()

	return f(ctx, s)
}

func NewSubcommandGroup(name string, subCommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s <subcommand>", name),
		Short: fmt.Sprintf("%s related subcommands", name),
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Error().Err(err).Msg("Failed to print help")
			}
		},
	}

	cmd.AddCommand(subCommands...)

	return cmd
}
