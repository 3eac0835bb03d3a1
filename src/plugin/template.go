package plugin

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/elee1766/decky-plugin/src/migrate"
	"github.com/elee1766/decky-plugin/src/storage"
)

// TemplateOptions configures a Template
type TemplateOptions struct {
	Name     string
	Migrator *migrate.Migrator
	Legacy   LegacyLayout

	// Journal records migration runs when set
	Journal *storage.DB

	Logger *slog.Logger
}

// Template is the boilerplate plugin: an example method, empty lifecycle
// hooks and the legacy data migration.
type Template struct {
	name     string
	migrator *migrate.Migrator
	legacy   LegacyLayout
	journal  *storage.DB
	logger   *slog.Logger
}

var _ Lifecycle = (*Template)(nil)

// NewTemplate creates the template plugin
func NewTemplate(opts TemplateOptions) *Template {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Template{
		name:     opts.Name,
		migrator: opts.Migrator,
		legacy:   opts.Legacy,
		journal:  opts.Journal,
		logger:   logger.With("plugin", opts.Name),
	}
}

func (t *Template) Add(ctx context.Context, left, right int) (int, error) {
	return left + right, nil
}

// Main blocks until the loader cancels ctx
func (t *Template) Main(ctx context.Context) error {
	t.logger.Info("plugin main started")
	<-ctx.Done()
	t.logger.Info("plugin main stopped")
	return nil
}

func (t *Template) Unload(ctx context.Context) error {
	t.logger.Info("plugin unloaded")
	return nil
}

func (t *Template) Uninstall(ctx context.Context) error {
	t.logger.Info("plugin uninstalled")
	return nil
}

func (t *Template) Migrate(ctx context.Context) error {
	_, err := t.RunMigrations(ctx)
	return err
}

// RunMigrations migrates logs, then settings, then runtime data, stopping
// at the first failure. Reports of the categories that ran are returned
// even on error.
func (t *Template) RunMigrations(ctx context.Context) ([]*migrate.Report, error) {
	if t.migrator == nil {
		return nil, fmt.Errorf("plugin %s has no migrator", t.name)
	}

	steps := []struct {
		category migrate.Category
		run      func(context.Context, ...string) (*migrate.Report, error)
		sources  []string
	}{
		{migrate.CategoryLogs, t.migrator.MigrateLogs, t.legacy.Logs},
		{migrate.CategorySettings, t.migrator.MigrateSettings, t.legacy.Settings},
		{migrate.CategoryRuntime, t.migrator.MigrateRuntime, t.legacy.Runtime},
	}

	run := t.beginRun(ctx)

	var reports []*migrate.Report
	var runErr error
	for _, step := range steps {
		report, err := step.run(ctx, step.sources...)
		if report != nil {
			reports = append(reports, report)
			t.recordReport(ctx, run, report)
		}
		if err != nil {
			runErr = fmt.Errorf("migrate %s: %w", step.category, err)
			break
		}
	}

	t.finishRun(ctx, run, runErr)

	if runErr != nil {
		t.logger.Error("migration failed", "error", runErr)
	}
	return reports, runErr
}
