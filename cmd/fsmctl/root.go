package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "fsmctl",
		Short: "Validate and run YAML state machines",
		Long:  `fsmctl loads a machine document, checks it and feeds events through the asynchronous runtime.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := cfg.level()
			return err
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().IntVar(&cfg.Workers, "workers", cfg.Workers, "size of the executor pool, 0 for unbounded")

	root.AddCommand(newValidateCmd(), newRunCmd(&cfg))

	return root
}

func newLogger(w io.Writer, cfg Config) zerolog.Logger {
	lvl, err := cfg.level()
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
