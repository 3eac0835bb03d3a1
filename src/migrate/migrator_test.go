package migrate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRoots = Roots{
	LogDir:      "/homebrew/logs/clip",
	SettingsDir: "/homebrew/settings/clip",
	RuntimeDir:  "/homebrew/data/clip",
}

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
}

// snapshot returns every file under root with its content; directories map to "/"
func snapshot(t *testing.T, fs afero.Fs, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			out[path] = "/"
			return nil
		}
		data, err := afero.ReadFile(fs, path)
		if err != nil {
			return err
		}
		out[path] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

func assertContent(t *testing.T, fs afero.Fs, path, want string) {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err, path)
	assert.Equal(t, want, string(data), path)
}

func assertMissing(t *testing.T, fs afero.Fs, path string) {
	t.Helper()
	exists, err := afero.Exists(fs, path)
	require.NoError(t, err)
	assert.False(t, exists, "%s should not exist", path)
}

func TestMigrateLogs(t *testing.T) {
	tests := []struct {
		name    string
		setupFS map[string]string
		sources []string
		checkFS func(t *testing.T, fs afero.Fs)
		check   func(t *testing.T, r *Report)
	}{
		{
			name:    "moves log keeping file name",
			setupFS: map[string]string{"/home/.config/clip/clip.log": "old log"},
			sources: []string{"/home/.config/clip/clip.log"},
			checkFS: func(t *testing.T, fs afero.Fs) {
				assertContent(t, fs, "/homebrew/logs/clip/clip.log", "old log")
				assertMissing(t, fs, "/home/.config/clip/clip.log")
			},
			check: func(t *testing.T, r *Report) {
				assert.Equal(t, "/homebrew/logs/clip/clip.log", r.Mapping["/home/.config/clip/clip.log"])
				assert.Equal(t, 1, r.Count(OutcomeMoved))
				assert.Equal(t, uint64(len("old log")), r.Bytes())
			},
		},
		{
			name:    "absent legacy log is a no-op",
			sources: []string{"/home/.config/clip/clip.log"},
			checkFS: func(t *testing.T, fs afero.Fs) {
				assertMissing(t, fs, "/homebrew/logs/clip")
			},
			check: func(t *testing.T, r *Report) {
				assert.Equal(t, "", r.Mapping["/home/.config/clip/clip.log"])
				assert.Equal(t, 1, r.Count(OutcomeAbsent))
				assert.False(t, r.Changed())
			},
		},
		{
			name: "existing canonical log is not overwritten",
			setupFS: map[string]string{
				"/home/.config/clip/clip.log":  "legacy",
				"/homebrew/logs/clip/clip.log": "current",
			},
			sources: []string{"/home/.config/clip/clip.log"},
			checkFS: func(t *testing.T, fs afero.Fs) {
				assertContent(t, fs, "/homebrew/logs/clip/clip.log", "current")
				assertContent(t, fs, "/home/.config/clip/clip.log", "legacy")
			},
			check: func(t *testing.T, r *Report) {
				assert.Equal(t, 1, r.Count(OutcomeSkipped))
			},
		},
		{
			name:    "empty source entries are ignored",
			sources: []string{""},
			check: func(t *testing.T, r *Report) {
				assert.Empty(t, r.Entries)
				assert.Empty(t, r.Mapping)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFiles(t, fs, tt.setupFS)

			m := New(fs, testRoots)
			report, err := m.MigrateLogs(context.Background(), tt.sources...)
			require.NoError(t, err)
			assert.Equal(t, CategoryLogs, report.Category)

			if tt.checkFS != nil {
				tt.checkFS(t, fs)
			}
			if tt.check != nil {
				tt.check(t, report)
			}
		})
	}
}

func TestMigrateSettings(t *testing.T) {
	t.Run("file and directory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, map[string]string{
			"/homebrew/settings/clip.json":  `{"a":1}`,
			"/home/.config/clip/a/b.txt":    "b",
			"/home/.config/clip/c.txt":      "c",
			"/home/.config/clip/a/d/e.json": "e",
		})

		m := New(fs, testRoots)
		report, err := m.MigrateSettings(context.Background(), "/homebrew/settings/clip.json", "/home/.config/clip")
		require.NoError(t, err)

		assertContent(t, fs, "/homebrew/settings/clip/clip.json", `{"a":1}`)
		assertContent(t, fs, "/homebrew/settings/clip/a/b.txt", "b")
		assertContent(t, fs, "/homebrew/settings/clip/c.txt", "c")
		assertContent(t, fs, "/homebrew/settings/clip/a/d/e.json", "e")
		assertMissing(t, fs, "/homebrew/settings/clip.json")
		assertMissing(t, fs, "/home/.config/clip")

		assert.Equal(t, "/homebrew/settings/clip", report.Mapping["/home/.config/clip"])
		assert.Equal(t, "/homebrew/settings/clip/clip.json", report.Mapping["/homebrew/settings/clip.json"])
	})

	t.Run("merge skips existing destination entries", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, map[string]string{
			"/home/.config/clip/keep.txt":      "legacy keep",
			"/home/.config/clip/new.txt":       "new",
			"/home/.config/clip/sub/x.txt":     "legacy x",
			"/home/.config/clip/sub/y.txt":     "y",
			"/homebrew/settings/clip/keep.txt": "current keep",
			"/homebrew/settings/clip/sub/x.txt": "current x",
		})

		m := New(fs, testRoots)
		report, err := m.MigrateSettings(context.Background(), "/home/.config/clip")
		require.NoError(t, err)

		assertContent(t, fs, "/homebrew/settings/clip/keep.txt", "current keep")
		assertContent(t, fs, "/homebrew/settings/clip/sub/x.txt", "current x")
		assertContent(t, fs, "/homebrew/settings/clip/new.txt", "new")
		assertContent(t, fs, "/homebrew/settings/clip/sub/y.txt", "y")

		// conflicting legacy entries stay in place
		assertContent(t, fs, "/home/.config/clip/keep.txt", "legacy keep")
		assertContent(t, fs, "/home/.config/clip/sub/x.txt", "legacy x")
		assertMissing(t, fs, "/home/.config/clip/new.txt")

		assert.Equal(t, 2, report.Count(OutcomeSkipped))
		assert.Equal(t, 2, report.Count(OutcomeMoved))
	})

	t.Run("resumes partial prior migration", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		// first run moved a.txt and was interrupted before b.txt
		writeFiles(t, fs, map[string]string{
			"/homebrew/settings/clip/a.txt": "a",
			"/home/.config/clip/b.txt":      "b",
		})

		m := New(fs, testRoots)
		_, err := m.MigrateSettings(context.Background(), "/homebrew/settings/clip.json", "/home/.config/clip")
		require.NoError(t, err)

		assertContent(t, fs, "/homebrew/settings/clip/a.txt", "a")
		assertContent(t, fs, "/homebrew/settings/clip/b.txt", "b")
		assertMissing(t, fs, "/home/.config/clip")
	})
}

func TestMigrateRuntime(t *testing.T) {
	t.Run("merges two sources", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, map[string]string{
			"/homebrew/clip/x":                 "x",
			"/home/.local/share/clip/y":        "y",
			"/home/.local/share/clip/nested/z": "z",
		})

		m := New(fs, testRoots)
		_, err := m.MigrateRuntime(context.Background(), "/homebrew/clip", "/home/.local/share/clip")
		require.NoError(t, err)

		assertContent(t, fs, "/homebrew/data/clip/x", "x")
		assertContent(t, fs, "/homebrew/data/clip/y", "y")
		assertContent(t, fs, "/homebrew/data/clip/nested/z", "z")
		assertMissing(t, fs, "/homebrew/clip")
		assertMissing(t, fs, "/home/.local/share/clip")
	})

	t.Run("primary source wins conflicts", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, map[string]string{
			"/homebrew/clip/x":          "A",
			"/home/.local/share/clip/x": "B",
		})

		m := New(fs, testRoots)
		report, err := m.MigrateRuntime(context.Background(), "/homebrew/clip", "/home/.local/share/clip")
		require.NoError(t, err)

		assertContent(t, fs, "/homebrew/data/clip/x", "A")
		assertContent(t, fs, "/home/.local/share/clip/x", "B")
		assert.Equal(t, 1, report.Count(OutcomeSkipped))
	})

	t.Run("file where directory expected is skipped", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, map[string]string{
			"/homebrew/clip/cache/item": "item",
			"/homebrew/data/clip/cache": "a file",
		})

		m := New(fs, testRoots)
		report, err := m.MigrateRuntime(context.Background(), "/homebrew/clip")
		require.NoError(t, err)

		assertContent(t, fs, "/homebrew/data/clip/cache", "a file")
		assertContent(t, fs, "/homebrew/clip/cache/item", "item")
		require.Len(t, report.Entries, 1)
		assert.True(t, report.Entries[0].IsDir)
		assert.Equal(t, OutcomeSkipped, report.Entries[0].Outcome)
	})
}

func TestMigrateIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/home/.config/clip/clip.log":  "log",
		"/homebrew/settings/clip.json": "{}",
		"/home/.config/clip/s.txt":     "s",
		"/homebrew/clip/x":             "A",
		"/home/.local/share/clip/x":    "B",
		"/home/.local/share/clip/y":    "y",
	})

	m := New(fs, testRoots)
	run := func() {
		ctx := context.Background()
		_, err := m.MigrateLogs(ctx, "/home/.config/clip/clip.log")
		require.NoError(t, err)
		_, err = m.MigrateSettings(ctx, "/homebrew/settings/clip.json", "/home/.config/clip")
		require.NoError(t, err)
		_, err = m.MigrateRuntime(ctx, "/homebrew/clip", "/home/.local/share/clip")
		require.NoError(t, err)
	}

	run()
	first := snapshot(t, fs, "/")
	run()
	second := snapshot(t, fs, "/")

	assert.Equal(t, first, second)
}

func TestMigrateDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/homebrew/clip/x":          "x",
		"/homebrew/data/clip/keep":  "keep",
		"/homebrew/clip/keep":       "legacy keep",
		"/homebrew/clip/dir/nested": "nested",
	})
	before := snapshot(t, fs, "/")

	m := New(fs, testRoots, WithDryRun(true))
	report, err := m.MigrateRuntime(context.Background(), "/homebrew/clip")
	require.NoError(t, err)

	assert.Equal(t, before, snapshot(t, fs, "/"))
	assert.True(t, report.DryRun)
	assert.Equal(t, 2, report.Count(OutcomeMoved))
	assert.Equal(t, 1, report.Count(OutcomeSkipped))
}

func TestMigrateErrors(t *testing.T) {
	t.Run("permission error propagates", func(t *testing.T) {
		base := afero.NewMemMapFs()
		writeFiles(t, base, map[string]string{"/home/.config/clip/clip.log": "log"})

		m := New(afero.NewReadOnlyFs(base), testRoots)
		_, err := m.MigrateLogs(context.Background(), "/home/.config/clip/clip.log")
		require.Error(t, err)

		var merr *Error
		require.True(t, errors.As(err, &merr))
		assert.True(t, errors.Is(err, os.ErrPermission))
		assertContent(t, base, "/home/.config/clip/clip.log", "log")
	})

	t.Run("missing root", func(t *testing.T) {
		m := New(afero.NewMemMapFs(), Roots{})
		_, err := m.MigrateRuntime(context.Background(), "/homebrew/clip")
		assert.ErrorIs(t, err, ErrNoRoot)
	})

	t.Run("destination inside source", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, map[string]string{"/homebrew/x": "x"})

		m := New(fs, testRoots)
		_, err := m.MigrateRuntime(context.Background(), "/homebrew")
		assert.ErrorIs(t, err, ErrNestedPath)
		assertContent(t, fs, "/homebrew/x", "x")
	})

	t.Run("source equal to destination", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, map[string]string{"/homebrew/data/clip/x": "x"})

		m := New(fs, testRoots)
		report, err := m.MigrateRuntime(context.Background(), "/homebrew/data/clip")
		require.NoError(t, err)
		assert.Empty(t, report.Entries)
		assertContent(t, fs, "/homebrew/data/clip/x", "x")
	})
}

func TestMigrateCancelledIsResumable(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/homebrew/clip/a": "a",
		"/homebrew/clip/b": "b",
	})
	require.NoError(t, fs.MkdirAll("/homebrew/data/clip", 0755))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := New(fs, testRoots)
	_, err := m.MigrateRuntime(ctx, "/homebrew/clip")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = m.MigrateRuntime(context.Background(), "/homebrew/clip")
	require.NoError(t, err)
	assertContent(t, fs, "/homebrew/data/clip/a", "a")
	assertContent(t, fs, "/homebrew/data/clip/b", "b")
	assertMissing(t, fs, "/homebrew/clip")
}

// exdevFs makes every rename of a legacy path fail as if it crossed devices
type exdevFs struct {
	afero.Fs
}

func (e exdevFs) Rename(oldname, newname string) error {
	if filepath.Ext(oldname) == ".partial" {
		return e.Fs.Rename(oldname, newname)
	}
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: syscall.EXDEV}
}

func TestMigrateAcrossDevices(t *testing.T) {
	t.Run("copies and removes source", func(t *testing.T) {
		base := afero.NewMemMapFs()
		writeFiles(t, base, map[string]string{
			"/homebrew/clip/a":     "aaa",
			"/homebrew/clip/sub/b": "bb",
		})

		m := New(exdevFs{base}, testRoots, WithFreeSpace(func(string) (uint64, error) {
			return 1 << 20, nil
		}))
		report, err := m.MigrateRuntime(context.Background(), "/homebrew/clip")
		require.NoError(t, err)

		assertContent(t, base, "/homebrew/data/clip/a", "aaa")
		assertContent(t, base, "/homebrew/data/clip/sub/b", "bb")
		assertMissing(t, base, "/homebrew/clip")
		assertMissing(t, base, "/homebrew/data/clip/.a.partial")
		assert.Equal(t, 2, report.Count(OutcomeCopied))
		assert.Equal(t, uint64(5), report.Bytes())
	})

	t.Run("insufficient space", func(t *testing.T) {
		base := afero.NewMemMapFs()
		writeFiles(t, base, map[string]string{"/home/.config/clip/clip.log": "0123456789"})

		m := New(exdevFs{base}, testRoots, WithFreeSpace(func(string) (uint64, error) {
			return 4, nil
		}))
		_, err := m.MigrateLogs(context.Background(), "/home/.config/clip/clip.log")
		assert.ErrorIs(t, err, ErrInsufficientSpace)

		assertContent(t, base, "/home/.config/clip/clip.log", "0123456789")
		assertMissing(t, base, "/homebrew/logs/clip/clip.log")
	})
}
