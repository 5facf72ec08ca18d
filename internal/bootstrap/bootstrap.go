// Package bootstrap runs a long-lived process until it is interrupted.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const defaultShutdownTimeout = 10 * time.Second

// App closes its registered resources once the process is asked to stop.
type App struct {
	mu              sync.Mutex
	closers         []func(ctx context.Context) error
	shutdownTimeout time.Duration
	signals         []os.Signal
}

func New() *App {
	return &App{
		shutdownTimeout: defaultShutdownTimeout,
		signals:         []os.Signal{os.Interrupt, syscall.SIGTERM},
	}
}

// OnShutdown registers fn. Closers run last-registered first, so a server
// registered after its store stops before the store is closed.
func (a *App) OnShutdown(fn func(ctx context.Context) error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closers = append(a.closers, fn)
}

// Run calls serve and blocks until it returns or ctx is done or a stop
// signal arrives. In the last two cases the closers are run.
func (a *App) Run(ctx context.Context, serve func(ctx context.Context) error) error {
	ctx, stop := signal.NotifyContext(ctx, a.signals...)
	defer stop()

	served := make(chan error, 1)
	go func() {
		served <- serve(ctx)
	}()

	select {
	case err := <-served:
		if err != nil {
			return err
		}
		return a.close()
	case <-ctx.Done():
		slog.Info("shutting down", "reason", context.Cause(ctx))
		return a.close()
	}
}

func (a *App) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	a.mu.Lock()
	closers := a.closers
	a.closers = nil
	a.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
