package migrate

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/afero"
)

// copyFile copies src to a temporary sibling of dst and renames it into
// place, so an interrupted copy never leaves a partial canonical file.
func (m *Migrator) copyFile(ctx context.Context, src, dst string, info os.FileInfo) error {
	size := uint64(info.Size())
	if free, err := m.freeSpace(filepath.Dir(dst)); err != nil {
		m.logger.Debug("could not measure free space", "path", filepath.Dir(dst), "error", err)
	} else if free < size {
		return &Error{Op: "copy", Source: src, Destination: dst,
			Err: fmt.Errorf("%w: need %s, %s free", ErrInsufficientSpace, humanize.Bytes(size), humanize.Bytes(free))}
	}

	in, err := m.fs.Open(src)
	if err != nil {
		return &Error{Op: "open", Source: src, Err: err}
	}
	defer in.Close()

	tmp := partialName(dst)
	out, err := m.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return &Error{Op: "create", Source: tmp, Err: err}
	}

	n, err := io.Copy(out, contextReader{ctx: ctx, r: in})
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil && n != info.Size() {
		err = fmt.Errorf("%w: %d of %d bytes", ErrShortCopy, n, info.Size())
	}
	if err != nil {
		m.fs.Remove(tmp)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return &Error{Op: "copy", Source: src, Destination: dst, Err: err}
	}

	if err := m.fs.Chtimes(tmp, info.ModTime(), info.ModTime()); err != nil {
		m.logger.Debug("could not preserve modification time", "path", dst, "error", err)
	}

	if err := m.fs.Rename(tmp, dst); err != nil {
		m.fs.Remove(tmp)
		return &Error{Op: "rename", Source: tmp, Destination: dst, Err: err}
	}
	return nil
}

func (m *Migrator) copySymlink(src, dst string) error {
	reader, ok := m.fs.(afero.LinkReader)
	if !ok {
		return &Error{Op: "readlink", Source: src, Err: afero.ErrNoReadlink}
	}
	linker, ok := m.fs.(afero.Linker)
	if !ok {
		return &Error{Op: "symlink", Source: dst, Err: afero.ErrNoSymlink}
	}

	target, err := reader.ReadlinkIfPossible(src)
	if err != nil {
		return &Error{Op: "readlink", Source: src, Err: err}
	}
	if err := linker.SymlinkIfPossible(target, dst); err != nil {
		return &Error{Op: "symlink", Source: target, Destination: dst, Err: err}
	}
	return nil
}

func partialName(dst string) string {
	return filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".partial")
}

// contextReader stops a copy between reads once ctx is done
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
