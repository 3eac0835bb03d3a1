package storage

import "time"

// MigrationRun is one invocation of the plugin's migration hook
type MigrationRun struct {
	ID         string     `json:"id" db:"id"`
	Plugin     string     `json:"plugin" db:"plugin"`
	DryRun     bool       `json:"dry_run" db:"dry_run"`
	Error      string     `json:"error,omitempty" db:"error"`
	StartedAt  time.Time  `json:"started_at" db:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" db:"finished_at"`
}

// MigrationEntry is one path handled during a run
type MigrationEntry struct {
	ID          string    `json:"id" db:"id"`
	RunID       string    `json:"run_id" db:"run_id"`
	Category    string    `json:"category" db:"category"`
	Source      string    `json:"source" db:"source"`
	Destination string    `json:"destination" db:"destination"`
	Outcome     string    `json:"outcome" db:"outcome"`
	IsDir       bool      `json:"is_dir" db:"is_dir"`
	Size        int64     `json:"size" db:"size"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
