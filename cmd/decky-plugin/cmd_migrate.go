package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/elee1766/decky-plugin/src/config"
	"github.com/elee1766/decky-plugin/src/migrate"
	"github.com/elee1766/decky-plugin/src/storage"
	"github.com/elee1766/decky-plugin/src/theme"
)

// MigrateCmd moves legacy plugin data into the canonical directories
type MigrateCmd struct {
	Apply   MigrateApplyCmd   `cmd:"" default:"withargs" help:"Run the legacy data migration"`
	History MigrateHistoryCmd `cmd:"" help:"Show recorded migration runs"`
}

// MigrateApplyCmd runs the plugin's migration hook
type MigrateApplyCmd struct {
	DryRun    bool `help:"Report what would change without touching the filesystem"`
	NoJournal bool `help:"Do not record this run in the migration journal"`
}

// Run executes the migrate command
func (c *MigrateApplyCmd) Run(kctx *kong.Context, cli *CLI) error {
	ctx := context.Background()

	a, err := newApp(ctx, cli, appOptions{DryRun: c.DryRun, NoJournal: c.NoJournal})
	if err != nil {
		return err
	}
	defer a.Close()

	reports, err := a.Plugin.RunMigrations(ctx)
	printReports(os.Stdout, reports)
	return err
}

func printReports(w io.Writer, reports []*migrate.Report) {
	for _, report := range reports {
		title := report.String()
		if report.DryRun {
			title += " " + theme.Muted("[dry run]")
		}
		fmt.Fprintln(w, theme.Header(title))
		for _, e := range report.Entries {
			dest := e.Destination
			if dest == "" {
				dest = "-"
			}
			fmt.Fprintf(w, "  %s %s -> %s\n", theme.Outcome(string(e.Outcome)), e.Source, dest)
		}
	}
}

// MigrateHistoryCmd lists journal entries
type MigrateHistoryCmd struct {
	Limit int    `default:"10" help:"Number of runs to show"`
	RunID string `arg:"" optional:"" help:"Show the entries of a single run"`
}

// Run executes the migrate history command
func (c *MigrateHistoryCmd) Run(kctx *kong.Context, cli *CLI) error {
	ctx := context.Background()

	cfg, env, err := loadSettings(cli)
	if err != nil {
		return err
	}

	path := config.JournalPath(cfg, env)
	if path == "" {
		return fmt.Errorf("migration journal is disabled")
	}

	db, err := storage.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open migration journal: %w", err)
	}
	defer db.Close()

	var runs []storage.MigrationRun
	if c.RunID != "" {
		run, err := storage.GetRunByID(ctx, db.DB(), c.RunID)
		if err != nil {
			return fmt.Errorf("failed to load run: %w", err)
		}
		if run == nil {
			return fmt.Errorf("run %s not found", c.RunID)
		}
		runs = append(runs, *run)
	} else {
		runs, err = storage.ListRuns(ctx, db.DB(), c.Limit)
		if err != nil {
			return fmt.Errorf("failed to list runs: %w", err)
		}
	}

	if len(runs) == 0 {
		fmt.Println(theme.Muted("No migration runs recorded"))
		return nil
	}

	for _, run := range runs {
		entries, err := storage.GetEntriesByRunID(ctx, db.DB(), run.ID)
		if err != nil {
			return fmt.Errorf("failed to load entries for run %s: %w", run.ID, err)
		}
		printRun(os.Stdout, run, entries)
	}
	return nil
}

func printRun(w io.Writer, run storage.MigrationRun, entries []storage.MigrationEntry) {
	status := "ok"
	switch {
	case run.Error != "":
		status = theme.Failure("failed: " + run.Error)
	case run.FinishedAt == nil:
		status = theme.Muted("unfinished")
	}

	var flags []string
	if run.DryRun {
		flags = append(flags, "dry run")
	}

	var total int64
	for _, e := range entries {
		if e.Outcome == string(migrate.OutcomeMoved) || e.Outcome == string(migrate.OutcomeCopied) {
			total += e.Size
		}
	}

	header := fmt.Sprintf("%s  %s  %s  %s", run.ID, run.Plugin, humanize.Time(run.StartedAt), status)
	if len(flags) > 0 {
		header += " " + theme.Muted("["+strings.Join(flags, ", ")+"]")
	}
	fmt.Fprintln(w, theme.Header(header))
	fmt.Fprintf(w, "  %d entries, %s migrated\n", len(entries), humanize.Bytes(uint64(total)))
	for _, e := range entries {
		fmt.Fprintf(w, "  %-8s %s %s -> %s\n", e.Category, theme.Outcome(e.Outcome), e.Source, e.Destination)
	}
}
