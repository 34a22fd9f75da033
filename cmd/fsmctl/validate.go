package main

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/enetx/fsm/v2/internal/loader"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a machine document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loader.Load(args[0])
			if err != nil {
				return err
			}

			def := doc.Builder(zerolog.Nop()).Definition()

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d states, %d transitions, %d action bindings\n",
				args[0], len(doc.States()), def.Transitions(), def.Bindings())

			return nil
		},
	}
}
