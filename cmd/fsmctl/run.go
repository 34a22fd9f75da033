package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/enetx/fsm/v2"
	"github.com/enetx/fsm/v2/internal/loader"
)

func newRunCmd(cfg *Config) *cobra.Command {
	var async bool

	cmd := &cobra.Command{
		Use:   "run <file> <event>...",
		Short: "Feed events through a machine and print the resulting states",
		Long: `run builds the machine described by file and fires every event in order.
By default each event is awaited before the next is fired. With --async all
events are submitted at once and their futures are awaited afterwards.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loader.Load(args[0])
			if err != nil {
				return err
			}

			logger := newLogger(cmd.ErrOrStderr(), *cfg)

			opts := []fsm.Option{fsm.WithLogger(logger)}
			if cfg.Workers > 0 {
				opts = append(opts, fsm.WithExecutor(fsm.NewPoolExecutor(cfg.Workers)))
			}

			m := doc.Builder(logger).Build(doc.Initial, opts...)
			events := args[1:]
			out := cmd.OutOrStdout()

			var failed error

			report := func(event, state string, err error) {
				if err != nil {
					fmt.Fprintf(out, "%s -> %s (error: %v)\n", event, state, err)
					if failed == nil {
						failed = err
					}

					return
				}

				fmt.Fprintf(out, "%s -> %s\n", event, state)
			}

			if async {
				futures := make([]*fsm.Future[string], len(events))
				for i, event := range events {
					futures[i] = m.FireEventContext(cmd.Context(), event)
				}

				for i, f := range futures {
					state, err := f.Wait()
					report(events[i], state, err)
				}
			} else {
				for _, event := range events {
					state, err := m.FireEventBlockingContext(cmd.Context(), event)
					report(event, state, err)
				}
			}

			fmt.Fprintf(out, "final: %s\n", m.Current())

			return failed
		},
	}

	cmd.Flags().BoolVar(&async, "async", false, "submit all events before awaiting any")

	return cmd
}
