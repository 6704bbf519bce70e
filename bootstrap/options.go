package bootstrap

import (
	"io"
	"time"

	"github.com/kbukum/inject/di"
	"github.com/kbukum/inject/logger"
	"github.com/kbukum/inject/observability"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	providers       *observability.Providers
	registryOpts    []di.RegistryOption
	gracefulTimeout *time.Duration
	summaryOut      io.Writer
	summaryOff      bool
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is built from the config's Logging section and
// installed as the global logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithTelemetry supplies already configured providers instead of building
// them from the config's Telemetry section. The App still shuts them down.
func WithTelemetry(p *observability.Providers) Option {
	return func(o *appOptions) {
		o.providers = p
	}
}

// WithRegistryOptions passes extra options to di.New. They are applied
// after the App's own logger and telemetry options.
func WithRegistryOptions(opts ...di.RegistryOption) Option {
	return func(o *appOptions) {
		o.registryOpts = append(o.registryOpts, opts...)
	}
}

// WithGracefulTimeout sets the maximum duration for shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithSummaryOutput sets where the startup summary is printed.
// A nil writer disables the summary.
func WithSummaryOutput(w io.Writer) Option {
	return func(o *appOptions) {
		o.summaryOut = w
		o.summaryOff = w == nil
	}
}
