// Package bootstrap is the composition root for processes that own an
// inject container.
//
// NewApp applies config defaults, validates, sets up the logger and
// telemetry and creates the Registry. Start initializes the Registry under
// the configured namespace and runs OnReady hooks; Shutdown runs OnStop
// hooks and flushes telemetry.
//
//	app, err := bootstrap.NewApp(&cfg, wiring.Catalog())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	app.OnReady(func(ctx context.Context, r *di.Registry) error {
//	    svc := di.MustGet[*orders.Service](r)
//	    return svc.Warmup(ctx)
//	})
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package bootstrap
