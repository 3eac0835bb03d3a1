// Package plugin defines the hooks a loader drives and the template plugin
// that implements them.
package plugin

import "context"

// Lifecycle is the surface the loader holds a reference to. The loader
// calls Migrate before Main, never runs two hooks at once, and calls
// Unload before Uninstall.
type Lifecycle interface {
	// Add is the template's example frontend-callable method
	Add(ctx context.Context, left, right int) (int, error)

	// Main is the plugin's long-running task. It returns when ctx is done.
	Main(ctx context.Context) error

	// Unload is called when the plugin is stopped but not removed
	Unload(ctx context.Context) error

	// Uninstall is called after Unload when the plugin is removed
	Uninstall(ctx context.Context) error

	// Migrate moves legacy data into the canonical directories
	Migrate(ctx context.Context) error
}
