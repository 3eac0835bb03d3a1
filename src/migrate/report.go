package migrate

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Category names a canonical root
type Category string

const (
	CategoryLogs     Category = "logs"
	CategorySettings Category = "settings"
	CategoryRuntime  Category = "runtime"
)

// Outcome of a single migrated entry
type Outcome string

const (
	// OutcomeMoved means the entry was renamed into place
	OutcomeMoved Outcome = "moved"
	// OutcomeCopied means the entry was copied across devices and the source removed
	OutcomeCopied Outcome = "copied"
	// OutcomeSkipped means the destination already existed and was left untouched
	OutcomeSkipped Outcome = "skipped"
	// OutcomeAbsent means the legacy source did not exist
	OutcomeAbsent Outcome = "absent"
)

// Entry records what happened to one path
type Entry struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	Outcome     Outcome `json:"outcome"`
	IsDir       bool    `json:"is_dir,omitempty"`
	Size        int64   `json:"size,omitempty"`
}

// Report is the result of one migration call. Mapping follows the loader
// helper's convention: each requested source maps to its destination, or
// to "" when the source did not exist.
type Report struct {
	Category Category          `json:"category"`
	DryRun   bool              `json:"dry_run,omitempty"`
	Mapping  map[string]string `json:"mapping"`
	Entries  []Entry           `json:"entries"`
}

func newReport(category Category, dryRun bool) *Report {
	return &Report{
		Category: category,
		DryRun:   dryRun,
		Mapping:  make(map[string]string),
	}
}

func (r *Report) add(e Entry) {
	r.Entries = append(r.Entries, e)
}

// Count returns the number of entries with the given outcome
func (r *Report) Count(outcome Outcome) int {
	n := 0
	for _, e := range r.Entries {
		if e.Outcome == outcome {
			n++
		}
	}
	return n
}

// Changed reports whether anything was moved or copied
func (r *Report) Changed() bool {
	return r.Count(OutcomeMoved)+r.Count(OutcomeCopied) > 0
}

// Bytes returns the total size of files moved or copied individually.
// Directories renamed as a whole are not walked and count as zero.
func (r *Report) Bytes() uint64 {
	var total uint64
	for _, e := range r.Entries {
		if e.Outcome == OutcomeMoved || e.Outcome == OutcomeCopied {
			total += uint64(e.Size)
		}
	}
	return total
}

func (r *Report) String() string {
	return fmt.Sprintf("%s: %d moved, %d copied, %d skipped, %d absent (%s)",
		r.Category,
		r.Count(OutcomeMoved),
		r.Count(OutcomeCopied),
		r.Count(OutcomeSkipped),
		r.Count(OutcomeAbsent),
		humanize.Bytes(r.Bytes()),
	)
}
