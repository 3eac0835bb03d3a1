// Package migrate moves a plugin's legacy logs, settings and runtime data
// into the canonical directories exported by the loader.
//
// Every call is safe to repeat. A legacy path that no longer exists is a
// no-op, and an existing canonical path is never overwritten: the legacy
// entry is left where it is instead. Directory sources are merged entry by
// entry, so an interrupted run resumes where it stopped.
package migrate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/spf13/afero"
)

// Roots are the canonical directories for each category
type Roots struct {
	LogDir      string
	SettingsDir string
	RuntimeDir  string
}

// Migrator performs migrations against an afero filesystem
type Migrator struct {
	fs        afero.Fs
	roots     Roots
	logger    *slog.Logger
	dryRun    bool
	freeSpace func(path string) (uint64, error)
}

// Option configures a Migrator
type Option func(*Migrator)

// WithLogger sets the logger used for per-entry messages
func WithLogger(l *slog.Logger) Option {
	return func(m *Migrator) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithDryRun reports what would happen without touching the filesystem
func WithDryRun(dryRun bool) Option {
	return func(m *Migrator) {
		m.dryRun = dryRun
	}
}

// WithFreeSpace overrides how free space is measured before a cross-device copy
func WithFreeSpace(fn func(path string) (uint64, error)) Option {
	return func(m *Migrator) {
		m.freeSpace = fn
	}
}

// New creates a Migrator
func New(fsys afero.Fs, roots Roots, opts ...Option) *Migrator {
	m := &Migrator{
		fs:        fsys,
		roots:     roots,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		freeSpace: diskFree,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Roots returns the canonical roots
func (m *Migrator) Roots() Roots {
	return m.roots
}

// DryRun reports whether the migrator leaves the filesystem untouched
func (m *Migrator) DryRun() bool {
	return m.dryRun
}

// MigrateLogs moves legacy log files into the log directory, keeping their
// file names. A directory source has its contents merged into the log directory.
func (m *Migrator) MigrateLogs(ctx context.Context, sources ...string) (*Report, error) {
	return m.migrateAny(ctx, CategoryLogs, m.roots.LogDir, sources...)
}

// MigrateSettings moves a legacy settings file and/or the contents of legacy
// settings directories into the settings directory.
func (m *Migrator) MigrateSettings(ctx context.Context, sources ...string) (*Report, error) {
	return m.migrateAny(ctx, CategorySettings, m.roots.SettingsDir, sources...)
}

// MigrateRuntime merges legacy runtime directories into the runtime
// directory. Sources are processed in order, so on conflict the earliest
// source wins and later conflicting entries stay in place.
func (m *Migrator) MigrateRuntime(ctx context.Context, sources ...string) (*Report, error) {
	return m.migrateAny(ctx, CategoryRuntime, m.roots.RuntimeDir, sources...)
}

func (m *Migrator) migrateAny(ctx context.Context, category Category, target string, sources ...string) (*Report, error) {
	report := newReport(category, m.dryRun)

	if target == "" {
		return report, &Error{Op: "migrate " + string(category), Err: ErrNoRoot}
	}
	target = filepath.Clean(target)

	for _, source := range sources {
		if source == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}

		source = filepath.Clean(source)
		info, err := m.lstat(source)
		if errors.Is(err, os.ErrNotExist) {
			m.logger.Debug("legacy path absent", "category", category, "source", source)
			report.Mapping[source] = ""
			report.add(Entry{Source: source, Outcome: OutcomeAbsent})
			continue
		}
		if err != nil {
			return report, &Error{Op: "stat", Source: source, Err: err}
		}

		destination := target
		if !info.IsDir() {
			destination = filepath.Join(target, filepath.Base(source))
		}
		report.Mapping[source] = destination

		if source == destination {
			continue
		}
		if isWithin(destination, source) {
			return report, &Error{Op: "migrate", Source: source, Destination: destination, Err: ErrNestedPath}
		}

		m.logger.Info("migrating legacy path", "category", category, "source", source, "destination", destination)
		if err := m.mergePath(ctx, report, source, destination); err != nil {
			return report, err
		}
	}

	m.logger.Info("migration finished", "category", category,
		"moved", report.Count(OutcomeMoved),
		"copied", report.Count(OutcomeCopied),
		"skipped", report.Count(OutcomeSkipped),
		"dry_run", m.dryRun)

	return report, nil
}

func (m *Migrator) lstat(name string) (os.FileInfo, error) {
	if l, ok := m.fs.(afero.Lstater); ok {
		info, _, err := l.LstatIfPossible(name)
		return info, err
	}
	return m.fs.Stat(name)
}

// isWithin reports whether path is strictly inside dir
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func diskFree(path string) (uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, err
	}
	return usage.Free, nil
}
