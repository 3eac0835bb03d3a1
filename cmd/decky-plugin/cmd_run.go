package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/elee1766/decky-plugin/src/loader"
)

// RunCmd drives the plugin through its lifecycle the way the loader does
type RunCmd struct {
	DryRun      bool          `help:"Run migrations in dry-run mode"`
	Uninstall   bool          `help:"Call the uninstall hook after unloading"`
	StopTimeout time.Duration `default:"10s" help:"How long to wait for the plugin to stop"`
}

// Run executes the run command
func (c *RunCmd) Run(kctx *kong.Context, cli *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cli, appOptions{DryRun: c.DryRun})
	if err != nil {
		return err
	}
	defer a.Close()

	runner := loader.NewRunner(a.Plugin, a.Logger)
	if err := runner.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		a.Logger.Info("received shutdown signal")
	case <-runner.Done():
		a.Logger.Info("plugin main returned")
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), c.StopTimeout)
	defer cancel()

	if c.Uninstall {
		return runner.Uninstall(stopCtx)
	}
	return runner.Stop(stopCtx)
}
