// Package daemon bootstraps and runs the HTTP server lifecycle,
// grounded on the teacher's internal/daemon bootstrap.go Start/Shutdown
// pattern, trimmed of xg2g's TLS/telemetry/EPG concerns the spec has no
// analogue for.
package daemon

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/focuslog/corehub/internal/log"
)

// Config holds the HTTP server's lifecycle parameters.
type Config struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns conservative production timeouts.
func DefaultConfig(listenAddr string) Config {
	return Config{
		ListenAddr:      listenAddr,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     2 * time.Minute,
		ShutdownTimeout: 15 * time.Second,
	}
}

// Daemon wraps an *http.Server with the signal-driven start/stop
// lifecycle corehub's CLI uses.
type Daemon struct {
	config Config
	server *http.Server
}

// New builds a Daemon ready to serve handler.
func New(cfg Config, handler http.Handler) *Daemon {
	return &Daemon{
		config: cfg,
		server: &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

// Run serves until ctx is canceled (a signal, typically), then performs
// a bounded graceful shutdown. Returns any server error other than the
// expected http.ErrServerClosed. The serve/shutdown goroutine pair is
// coordinated with golang.org/x/sync/errgroup (grounded on the teacher's
// internal/daemon/app.go use of errgroup for its own listener/shutdown
// pair), rather than a hand-rolled channel+select.
func (d *Daemon) Run(ctx context.Context) error {
	logger := log.WithComponent("daemon")
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().Str("addr", d.config.ListenAddr).Msg("http server listening")
		if err := d.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return d.shutdown()
	})

	return g.Wait()
}

func (d *Daemon) shutdown() error {
	logger := log.WithComponent("daemon")
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), d.config.ShutdownTimeout)
	defer cancel()
	if err := d.server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown error")
		return err
	}
	logger.Info().Msg("stopped")
	return nil
}
