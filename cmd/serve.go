package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	httpapix "github.com/tanpawarit/student-assistant/assistant/httpapi"
	configx "github.com/tanpawarit/student-assistant/pkg/config"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := configx.New[httpapix.Config]("")
			if err != nil {
				return err
			}
			d, err := newDispatcher(ctx)
			if err != nil {
				return err
			}

			log.Info().
				Int("port", cfg.Port).
				Strs("cors_origins", cfg.CORSOrigins).
				Int("rate_limit_requests", cfg.RateLimitRequests).
				Msg("starting student-assistant api")

			return httpapix.NewServer(*cfg, httpapix.NewRouter(*cfg, d)).Run(ctx)
		},
	}
}
