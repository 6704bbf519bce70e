package bootstrap

import (
	"context"
	"fmt"

	"github.com/kbukum/inject/di"
)

// Hook is a lifecycle callback. It receives the application's Registry;
// the Registry is populated for OnReady and OnStop hooks and empty for
// OnStart hooks.
type Hook func(ctx context.Context, r *di.Registry) error

// OnStart registers a hook that runs before the Registry is initialized.
func (a *App[C]) OnStart(hooks ...Hook) {
	a.onStart = append(a.onStart, hooks...)
}

// OnReady registers a hook that runs after the Registry is initialized.
func (a *App[C]) OnReady(hooks ...Hook) {
	a.onReady = append(a.onReady, hooks...)
}

// OnStop registers a hook that runs during shutdown, before telemetry is
// flushed.
func (a *App[C]) OnStop(hooks ...Hook) {
	a.onStop = append(a.onStop, hooks...)
}

// runHooks executes hooks sequentially, returning the first error.
func runHooks(ctx context.Context, r *di.Registry, hooks []Hook) error {
	for i, h := range hooks {
		if err := h(ctx, r); err != nil {
			return fmt.Errorf("hook %d failed: %w", i, err)
		}
	}
	return nil
}
