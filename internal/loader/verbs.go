package loader

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/enetx/fsm/v2"
)

const (
	verbFire     = "fire"
	verbShelve   = "shelve"
	verbUnshelve = "unshelve"
	verbLog      = "log"
)

func splitVerb(v string) (string, string) {
	name, arg, _ := strings.Cut(strings.TrimSpace(v), ":")
	return strings.TrimSpace(name), strings.TrimSpace(arg)
}

func checkVerbs(do []string, kind string, i int) []error {
	var errs []error

	for _, v := range do {
		name, arg := splitVerb(v)

		switch name {
		case verbFire:
			if arg == "" {
				errs = append(errs, fmt.Errorf("%w: %s %d: fire needs an event", ErrInvalidDocument, kind, i))
			}
		case verbShelve, verbUnshelve, verbLog:
		default:
			errs = append(errs, fmt.Errorf("%w: %s %d: unknown verb %q", ErrInvalidDocument, kind, i, v))
		}
	}

	return errs
}

// verbs compiles a verb list into one action running them in order.
func verbs(do []string, logger zerolog.Logger) fsm.Action[string, string] {
	steps := make([]fsm.Action[string, string], 0, len(do))

	for _, v := range do {
		name, arg := splitVerb(v)

		switch name {
		case verbFire:
			steps = append(steps, func(ctx *fsm.ActionContext[string, string]) error {
				ctx.FireEvent(arg)
				return nil
			})
		case verbShelve:
			steps = append(steps, func(ctx *fsm.ActionContext[string, string]) error {
				ctx.ShelveEvent(ctx.Event())
				return nil
			})
		case verbUnshelve:
			steps = append(steps, func(ctx *fsm.ActionContext[string, string]) error {
				ctx.ProcessShelvedEvents()
				return nil
			})
		case verbLog:
			steps = append(steps, func(ctx *fsm.ActionContext[string, string]) error {
				logger.Info().
					Uint64("instance", ctx.InstanceID()).
					Str("from", ctx.From()).
					Str("event", ctx.Event()).
					Str("to", ctx.To()).
					Msg("transition")
				return nil
			})
		}
	}

	return func(ctx *fsm.ActionContext[string, string]) error {
		for _, step := range steps {
			if err := step(ctx); err != nil {
				return err
			}
		}

		return nil
	}
}
