package migrate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"syscall"

	"github.com/spf13/afero"
)

const dirPerm = 0755

// mergePath moves src to dst. When dst is absent src is renamed in one
// step; when both are directories their entries are merged recursively;
// any other existing dst is left untouched and src stays in place.
func (m *Migrator) mergePath(ctx context.Context, r *Report, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	srcInfo, err := m.lstat(src)
	if errors.Is(err, os.ErrNotExist) {
		r.add(Entry{Source: src, Destination: dst, Outcome: OutcomeAbsent})
		return nil
	}
	if err != nil {
		return &Error{Op: "stat", Source: src, Err: err}
	}

	dstInfo, err := m.lstat(dst)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return m.move(ctx, r, src, dst, srcInfo)
	case err != nil:
		return &Error{Op: "stat", Source: dst, Err: err}
	case srcInfo.IsDir() && dstInfo.IsDir():
		return m.mergeDir(ctx, r, src, dst)
	default:
		m.logger.Warn("destination exists, keeping legacy copy", "source", src, "destination", dst)
		r.add(Entry{Source: src, Destination: dst, Outcome: OutcomeSkipped, IsDir: srcInfo.IsDir(), Size: fileSize(srcInfo)})
		return nil
	}
}

// mergeDir merges the entries of src into the existing directory dst, in
// lexical order, and removes src once it is empty.
func (m *Migrator) mergeDir(ctx context.Context, r *Report, src, dst string) error {
	entries, err := afero.ReadDir(m.fs, src)
	if err != nil {
		return &Error{Op: "readdir", Source: src, Err: err}
	}

	for _, entry := range entries {
		name := entry.Name()
		if err := m.mergePath(ctx, r, filepath.Join(src, name), filepath.Join(dst, name)); err != nil {
			return err
		}
	}

	if m.dryRun {
		return nil
	}
	return m.removeIfEmpty(src)
}

func (m *Migrator) move(ctx context.Context, r *Report, src, dst string, info os.FileInfo) error {
	entry := Entry{Source: src, Destination: dst, Outcome: OutcomeMoved, IsDir: info.IsDir(), Size: fileSize(info)}

	if m.dryRun {
		r.add(entry)
		return nil
	}

	if err := m.fs.MkdirAll(filepath.Dir(dst), dirPerm); err != nil {
		return &Error{Op: "mkdir", Source: filepath.Dir(dst), Err: err}
	}

	err := m.fs.Rename(src, dst)
	if err == nil {
		m.logger.Debug("moved", "source", src, "destination", dst)
		r.add(entry)
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return &Error{Op: "rename", Source: src, Destination: dst, Err: err}
	}

	m.logger.Debug("rename crosses devices, copying", "source", src, "destination", dst)
	return m.moveAcrossDevices(ctx, r, src, dst, info)
}

func (m *Migrator) moveAcrossDevices(ctx context.Context, r *Report, src, dst string, info os.FileInfo) error {
	switch {
	case info.IsDir():
		if err := m.fs.MkdirAll(dst, info.Mode().Perm()); err != nil {
			return &Error{Op: "mkdir", Source: dst, Err: err}
		}
		return m.mergeDir(ctx, r, src, dst)
	case info.Mode()&os.ModeSymlink != 0:
		if err := m.copySymlink(src, dst); err != nil {
			return err
		}
	default:
		if err := m.copyFile(ctx, src, dst, info); err != nil {
			return err
		}
	}

	if err := m.fs.Remove(src); err != nil {
		return &Error{Op: "remove", Source: src, Err: err}
	}

	m.logger.Debug("copied", "source", src, "destination", dst)
	r.add(Entry{Source: src, Destination: dst, Outcome: OutcomeCopied, Size: fileSize(info)})
	return nil
}

func (m *Migrator) removeIfEmpty(dir string) error {
	entries, err := afero.ReadDir(m.fs, dir)
	if err != nil {
		return &Error{Op: "readdir", Source: dir, Err: err}
	}
	if len(entries) > 0 {
		return nil
	}
	if err := m.fs.Remove(dir); err != nil {
		return &Error{Op: "remove", Source: dir, Err: err}
	}
	return nil
}

func fileSize(info os.FileInfo) int64 {
	if info.Mode().IsRegular() {
		return info.Size()
	}
	return 0
}
