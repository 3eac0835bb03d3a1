// Package loader drives a plugin.Lifecycle the way the host loader does:
// migrations first, then the long-running main task, then unload and
// uninstall. It is used by the developer CLI to exercise a plugin outside
// the device.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/elee1766/decky-plugin/src/plugin"
)

// ErrInvalidState is returned when a hook is requested out of order
var ErrInvalidState = errors.New("invalid lifecycle state")

// State of a plugin under a Runner
type State string

const (
	StateIdle        State = "idle"
	StateMigrating   State = "migrating"
	StateRunning     State = "running"
	StateStopped     State = "stopped"
	StateUninstalled State = "uninstalled"
)

// Runner serialises lifecycle hooks of one plugin
type Runner struct {
	plugin plugin.Lifecycle
	logger *slog.Logger

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	done    chan struct{}
	mainErr error
}

// NewRunner creates a runner for p
func NewRunner(p plugin.Lifecycle, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{
		plugin: p,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the current state
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Done is closed when Main returns. It is nil before the first Start.
func (r *Runner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Start runs Migrate and, if it succeeds, starts Main in the background.
// A failed migration leaves the runner in its previous state and Main is
// not started. Main outlives ctx; use Stop to end it.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateIdle && r.state != StateStopped {
		return fmt.Errorf("%w: cannot start from %s", ErrInvalidState, r.state)
	}

	previous := r.state
	r.state = StateMigrating
	r.logger.Info("running migrations")
	if err := r.plugin.Migrate(ctx); err != nil {
		r.state = previous
		return fmt.Errorf("migration failed: %w", err)
	}

	mainCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	r.cancel = cancel
	r.done = done
	r.mainErr = nil

	go func() {
		defer close(done)
		err := r.plugin.Main(mainCtx)
		if err != nil {
			r.logger.Error("plugin main exited with error", "error", err)
		}
		// read only after done is closed
		r.mainErr = err
	}()

	r.state = StateRunning
	r.logger.Info("plugin running")
	return nil
}

// Stop cancels Main, waits for it to return and calls Unload
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateRunning {
		return fmt.Errorf("%w: cannot stop from %s", ErrInvalidState, r.state)
	}
	return r.stopLocked(ctx)
}

func (r *Runner) stopLocked(ctx context.Context) error {
	r.cancel()
	select {
	case <-r.done:
	case <-ctx.Done():
		return fmt.Errorf("waiting for plugin main: %w", ctx.Err())
	}

	r.logger.Info("unloading plugin")
	unloadErr := r.plugin.Unload(ctx)
	r.state = StateStopped

	if unloadErr != nil {
		unloadErr = fmt.Errorf("unload failed: %w", unloadErr)
	}
	return errors.Join(r.mainErr, unloadErr)
}

// Uninstall stops the plugin if needed, making sure Unload has run, and
// then calls Uninstall
func (r *Runner) Uninstall(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var stopErr error
	switch r.state {
	case StateRunning:
		stopErr = r.stopLocked(ctx)
		if r.state != StateStopped {
			return stopErr
		}
	case StateIdle:
		if err := r.plugin.Unload(ctx); err != nil {
			return fmt.Errorf("unload failed: %w", err)
		}
	case StateStopped:
	default:
		return fmt.Errorf("%w: cannot uninstall from %s", ErrInvalidState, r.state)
	}

	r.logger.Info("uninstalling plugin")
	if err := r.plugin.Uninstall(ctx); err != nil {
		return errors.Join(stopErr, fmt.Errorf("uninstall failed: %w", err))
	}
	r.state = StateUninstalled
	return stopErr
}
