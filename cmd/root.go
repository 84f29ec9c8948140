// Package cmd implements the student-assistant command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configx "github.com/tanpawarit/student-assistant/pkg/config"
	logx "github.com/tanpawarit/student-assistant/pkg/logger"
)

var (
	envFile string
	debug   bool
	local   bool
	noColor bool
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "student-assistant",
		Short:         "Study helper: quiz analysis, video recommendations, summaries and chat",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			configx.SetEnvFile(envFile)

			logCfg, err := configx.New[logx.Config]("LOG")
			if err != nil {
				return err
			}
			logCfg.Debug = logCfg.Debug || debug
			logx.InitWriter(os.Stderr, *logCfg)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env", "", "dotenv file to load (default ./.env when present)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newAnalyzeCmd(),
		newRecommendCmd(),
		newSummarizeCmd(),
	)
	return root
}

// clientFlags are shared by the commands that drive a view.
func clientFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&local, "local", false, "run providers in this process instead of calling API_BASE_URL")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
}

func Execute() error {
	return newRootCmd().ExecuteContext(context.Background())
}

// Main runs the CLI and exits non-zero on error.
func Main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
