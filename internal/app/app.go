package app

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/beamshare/relay/internal/config"
	"github.com/beamshare/relay/internal/core"
	transporthttp "github.com/beamshare/relay/internal/transport/http"
)

// App wires together the relay core and the HTTP transport.
type App struct {
	server          *stdhttp.Server
	relay           *core.Relay
	sweepPeriod     time.Duration
	shutdownTimeout time.Duration
	log             *zerolog.Logger
}

// New constructs the application with the provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) *App {
	registry := core.NewRegistry()
	relay := core.NewRelay(registry, cfg.MaxFileSize, logger)
	server := transporthttp.NewServer(relay, registry, cfg, logger)

	return &App{
		server:          server,
		relay:           relay,
		sweepPeriod:     cfg.SweepPeriod,
		shutdownTimeout: cfg.ShutdownTimeout,
		log:             logger,
	}
}

// Run starts the HTTP server and the liveness sweep, blocking until the
// context is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.relay.RunSweep(ctx, a.sweepPeriod)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	a.log.Info().Str("addr", a.server.Addr).Msg("relay listening")

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-serverErr
	}
}
