package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbukum/inject/di"
	"github.com/kbukum/inject/logger"
	"github.com/kbukum/inject/observability"
)

// App owns a Registry together with the logger and telemetry it reports
// to. The type parameter C is the config type.
//
// Example:
//
//	app, err := bootstrap.NewApp(&myConfig, wiring.Catalog())
//	app.OnReady(func(ctx context.Context, r *di.Registry) error {
//	    return nil
//	})
//	app.Run(context.Background())
type App[C Config] struct {
	Name      string
	Version   string
	Namespace string
	Cfg       C
	Registry  *di.Registry
	Logger    *logger.Logger
	Telemetry *observability.Providers
	Summary   *Summary

	gracefulTimeout time.Duration
	summaryOut      io.Writer

	onStart []Hook
	onReady []Hook
	onStop  []Hook
}

// NewApp creates a new application from a typed config and the scanner
// that supplies its injectables. It applies defaults, validates the
// config, and initializes the logger and telemetry. The Registry is
// created but not initialized; call Start, Run or RunTask.
func NewApp[C Config](cfg C, scanner di.Scanner, opts ...Option) (*App[C], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	base := cfg.GetConfig()
	o := resolveOptions(opts)

	app := &App[C]{
		Name:            base.Name,
		Version:         base.Version,
		Namespace:       base.Namespace,
		Cfg:             cfg,
		gracefulTimeout: 15 * time.Second,
		summaryOut:      os.Stdout,
	}
	if o.gracefulTimeout != nil {
		app.gracefulTimeout = *o.gracefulTimeout
	}
	if o.summaryOut != nil || o.summaryOff {
		app.summaryOut = o.summaryOut
	}

	if o.logger != nil {
		app.Logger = o.logger
	} else {
		app.Logger = logger.New(&base.Logging, base.Name)
		logger.SetGlobalLogger(app.Logger)
	}

	if o.providers != nil {
		app.Telemetry = o.providers
	} else {
		providers, err := observability.Setup(context.Background(), base.Telemetry)
		if err != nil {
			return nil, fmt.Errorf("telemetry setup: %w", err)
		}
		app.Telemetry = providers
	}

	regOpts := []di.RegistryOption{di.WithLogger(app.Logger)}
	if app.Telemetry.Tracer != nil {
		regOpts = append(regOpts, di.WithTracerProvider(app.Telemetry.Tracer))
	}
	if app.Telemetry.Meter != nil {
		regOpts = append(regOpts, di.WithMeterProvider(app.Telemetry.Meter))
	}
	app.Registry = di.New(scanner, append(regOpts, o.registryOpts...)...)

	app.Summary = NewSummary(base.Name, base.Version)
	return app, nil
}

// Start runs OnStart hooks, initializes the Registry under the configured
// namespace and runs OnReady hooks. A failed Start leaves the Registry
// unusable; the caller should Shutdown and exit.
func (a *App[C]) Start(ctx context.Context) error {
	start := time.Now()

	a.Logger.Info("Starting application", logger.Fields(
		"name", a.Name,
		"version", a.Version,
		logger.FieldRoot, a.Namespace,
	))

	if err := runHooks(ctx, a.Registry, a.onStart); err != nil {
		return fmt.Errorf("onStart hook failed: %w", err)
	}

	if err := a.Registry.Init(ctx, a.Namespace); err != nil {
		return fmt.Errorf("container initialization: %w", err)
	}

	if err := runHooks(ctx, a.Registry, a.onReady); err != nil {
		return fmt.Errorf("onReady hook failed: %w", err)
	}

	a.Summary.SetStartupDuration(time.Since(start))
	a.Summary.SetRegistry(a.Namespace, a.Registry)
	if a.summaryOut != nil {
		a.Summary.Display(a.summaryOut)
	}
	return nil
}

// Run starts the application, blocks until a shutdown signal or context
// cancellation, then shuts down.
func (a *App[C]) Run(ctx context.Context) error {
	if err := a.Start(ctx); err != nil {
		a.shutdownAfterFailure()
		return err
	}

	a.Logger.Info("Application ready, waiting for shutdown signal")
	a.WaitForSignal(ctx)

	return a.stop()
}

// RunTask starts the application, runs task with the initialized Registry
// and shuts down when the task returns. SIGINT and SIGTERM cancel the
// task's context.
//
// Example:
//
//	app.RunTask(ctx, func(ctx context.Context, r *di.Registry) error {
//	    return di.MustGet[*Importer](r).Import(ctx)
//	})
func (a *App[C]) RunTask(ctx context.Context, task func(ctx context.Context, r *di.Registry) error) error {
	if err := a.Start(ctx); err != nil {
		a.shutdownAfterFailure()
		return err
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	go func() {
		select {
		case sig := <-sigCh:
			a.Logger.Info("Received signal, canceling task", logger.Fields("signal", sig.String()))
			cancel()
		case <-taskCtx.Done():
		}
	}()

	taskErr := task(taskCtx, a.Registry)

	if stopErr := a.stop(); stopErr != nil {
		if taskErr != nil {
			return taskErr
		}
		return stopErr
	}
	return taskErr
}

// WaitForSignal blocks until an OS interrupt/term signal or context cancellation.
func (a *App[C]) WaitForSignal(ctx context.Context) os.Signal {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		a.Logger.Info("Received shutdown signal", logger.Fields("signal", sig.String()))
		return sig
	case <-ctx.Done():
		a.Logger.Info("Context canceled, shutting down")
		return nil
	}
}

// Shutdown runs OnStop hooks and flushes telemetry. Use when managing your
// own lifecycle around Start.
func (a *App[C]) Shutdown(ctx context.Context) error {
	return a.stop()
}

func (a *App[C]) shutdownAfterFailure() {
	if err := a.stop(); err != nil {
		a.Logger.Error("Shutdown after failed start", logger.ErrorFields("shutdown", err))
	}
}

// stop runs OnStop hooks and shuts telemetry down within the graceful timeout.
func (a *App[C]) stop() error {
	a.Logger.Info("Shutting down application", logger.Fields(
		"timeout", a.gracefulTimeout.String(),
	))

	ctx, cancel := context.WithTimeout(context.Background(), a.gracefulTimeout)
	defer cancel()

	var shutdownErr error

	if err := runHooks(ctx, a.Registry, a.onStop); err != nil {
		a.Logger.Error("OnStop hook error", logger.ErrorFields("stop", err))
		shutdownErr = err
	}

	if err := a.Telemetry.Shutdown(ctx); err != nil {
		a.Logger.Error("Telemetry shutdown error", logger.ErrorFields("telemetry", err))
		if shutdownErr == nil {
			shutdownErr = err
		}
	}

	a.Logger.Info("Application shutdown complete")
	return shutdownErr
}
