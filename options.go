package fsm

import "github.com/rs/zerolog"

type options struct {
	executor Executor
	logger   zerolog.Logger
	observer Observer
}

// Option configures a Machine.
type Option func(*options)

// WithExecutor sets the executor the machine's worker runs on. Defaults to GoExecutor.
func WithExecutor(executor Executor) Option {
	return func(o *options) {
		if executor != nil {
			o.executor = executor
		}
	}
}

// WithLogger sets the logger receiving one record per evaluation. Defaults to zerolog.Nop().
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithObserver installs an observer, e.g. a metrics collector.
func WithObserver(observer Observer) Option {
	return func(o *options) { o.observer = observer }
}

func buildOptions(opts []Option) options {
	o := options{
		executor: GoExecutor,
		logger:   zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
