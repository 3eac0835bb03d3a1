package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/elee1766/decky-plugin/src/app"
	"github.com/elee1766/decky-plugin/src/config"
)

// appOptions adjusts how a command builds the application
type appOptions struct {
	DryRun    bool
	NoJournal bool
}

// newApp loads the configuration, resolves the host environment and builds
// the application with a logger chosen by the global flags
func newApp(ctx context.Context, cli *CLI, opts appOptions) (*app.App, error) {
	cfg, env, err := loadSettings(cli)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cli, cfg, env)

	return app.New(ctx, app.AppConfig{
		Settings:   cfg,
		Env:        &env,
		DryRun:     opts.DryRun,
		NoJournal:  opts.NoJournal,
		Logger:     logger,
	})
}

// newLogger picks the file logger when requested, otherwise the stderr logger
func newLogger(cli *CLI, cfg *config.Config, env config.Environment) *slog.Logger {
	level := cli.LogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	if cli.LogFile {
		return createFileLogger(config.LogFilePath(env, time.Now()), level, cfg.Logging.Format)
	}
	return createCLILogger(level)
}

// printJSON writes v as indented JSON to stdout
func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}

// loadSettings loads the configuration and host environment for commands
// that do not need the full application
func loadSettings(cli *CLI) (*config.Config, config.Environment, error) {
	return app.LoadSettings(cli.ConfigPath, nil)
}
