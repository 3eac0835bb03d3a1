package plugin

import (
	"context"

	"github.com/elee1766/decky-plugin/src/migrate"
	"github.com/elee1766/decky-plugin/src/storage"
)

// Journal writes are best effort: a failing journal never fails a
// migration, and writes outlive a cancelled hook context.

func (t *Template) beginRun(ctx context.Context) *storage.MigrationRun {
	if t.journal == nil {
		return nil
	}

	run := &storage.MigrationRun{Plugin: t.name, DryRun: t.migrator.DryRun()}
	if err := storage.CreateRun(context.WithoutCancel(ctx), t.journal.DB(), run); err != nil {
		t.logger.Warn("failed to record migration run", "error", err)
		return nil
	}
	return run
}

func (t *Template) recordReport(ctx context.Context, run *storage.MigrationRun, report *migrate.Report) {
	if run == nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	for _, e := range report.Entries {
		entry := &storage.MigrationEntry{
			RunID:       run.ID,
			Category:    string(report.Category),
			Source:      e.Source,
			Destination: e.Destination,
			Outcome:     string(e.Outcome),
			IsDir:       e.IsDir,
			Size:        e.Size,
		}
		if err := storage.CreateEntry(ctx, t.journal.DB(), entry); err != nil {
			t.logger.Warn("failed to record migration entry", "source", e.Source, "error", err)
			return
		}
	}
}

func (t *Template) finishRun(ctx context.Context, run *storage.MigrationRun, runErr error) {
	if run == nil {
		return
	}
	if err := storage.FinishRun(context.WithoutCancel(ctx), t.journal.DB(), run, runErr); err != nil {
		t.logger.Warn("failed to finish migration run", "error", err)
	}
}
