package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/elee1766/decky-plugin/src/config"
	"github.com/elee1766/decky-plugin/src/fs"
	"github.com/elee1766/decky-plugin/src/migrate"
	"github.com/elee1766/decky-plugin/src/plugin"
	"github.com/elee1766/decky-plugin/src/storage"
	"github.com/spf13/afero"
)

// App wires the host environment, the migrator, the journal and the
// template plugin together
type App struct {
	Env      config.Environment
	Config   *config.Config
	Fs       *fs.ContextualFs
	Migrator *migrate.Migrator
	Journal  *storage.DB
	Plugin   *plugin.Template
	Logger   *slog.Logger
}

// AppConfig holds configuration for creating a new App instance
type AppConfig struct {
	// ConfigPath overrides the user configuration file
	ConfigPath string

	// Settings and Env skip loading when both are already resolved
	Settings *config.Config
	Env      *config.Environment

	// Environment overrides the process environment, mainly for tests
	Environment *config.ConfigEnvironment

	// BaseFs overrides the operating system filesystem, mainly for tests
	BaseFs afero.Fs

	DryRun    bool
	NoJournal bool
	Logger    *slog.Logger
}

// New creates a new App instance with all services initialized
func New(ctx context.Context, cfg AppConfig) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	settings, env := cfg.Settings, config.Environment{}
	if settings != nil && cfg.Env != nil {
		env = *cfg.Env
	} else {
		var err error
		settings, env, err = LoadSettings(cfg.ConfigPath, cfg.Environment)
		if err != nil {
			return nil, err
		}
	}

	base := cfg.BaseFs
	if base == nil {
		base = afero.NewOsFs()
	}
	cfs := fs.NewContextualFs(base, env.UserHome)

	migrator := migrate.New(cfs, migrate.Roots{
		LogDir:      env.LogDir,
		SettingsDir: env.SettingsDir,
		RuntimeDir:  env.RuntimeDir,
	}, migrate.WithLogger(logger), migrate.WithDryRun(cfg.DryRun))

	// a dry run leaves the filesystem untouched, journal included
	var journal *storage.DB
	if path := config.JournalPath(settings, env); path != "" && !cfg.NoJournal && !cfg.DryRun {
		var err error
		journal, err = storage.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open migration journal: %w", err)
		}
	}

	legacy := plugin.DefaultLegacyLayout(env, settings.Plugin.Name).WithExtra(settings.Legacy, cfs.Resolve)

	return &App{
		Env:      env,
		Config:   settings,
		Fs:       cfs,
		Migrator: migrator,
		Journal:  journal,
		Plugin: plugin.NewTemplate(plugin.TemplateOptions{
			Name:     settings.Plugin.Name,
			Migrator: migrator,
			Legacy:   legacy,
			Journal:  journal,
			Logger:   logger,
		}),
		Logger: logger,
	}, nil
}

// LoadSettings loads the configuration file and resolves the host environment
func LoadSettings(configPath string, envSource *config.ConfigEnvironment) (*config.Config, config.Environment, error) {
	if envSource == nil {
		envSource = config.NewConfigEnvironment()
	}

	settings, err := config.NewLoader(configPath, envSource).Load()
	if err != nil {
		return nil, config.Environment{}, fmt.Errorf("configuration error: %w", err)
	}

	env, err := config.LoadEnvironment(envSource, settings.Plugin.Name)
	if err != nil {
		return nil, config.Environment{}, fmt.Errorf("configuration error: %w", err)
	}

	return settings, env, nil
}

// Close releases the journal
func (a *App) Close() error {
	if a.Journal != nil {
		return a.Journal.Close()
	}
	return nil
}
