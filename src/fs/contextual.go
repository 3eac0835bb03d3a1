package fs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// ContextualFs creates an afero.Fs that resolves relative paths against a
// base directory, usually the user's home directory
type ContextualFs struct {
	afero.Fs
	workingDir string
}

var (
	_ afero.Lstater    = (*ContextualFs)(nil)
	_ afero.LinkReader = (*ContextualFs)(nil)
	_ afero.Linker     = (*ContextualFs)(nil)
)

// NewContextualFs creates a new ContextualFs with the given working directory
func NewContextualFs(baseFs afero.Fs, workingDir string) *ContextualFs {
	return &ContextualFs{
		Fs:         baseFs,
		workingDir: workingDir,
	}
}

// NewOsFs returns a ContextualFs over the operating system filesystem
func NewOsFs(workingDir string) *ContextualFs {
	return NewContextualFs(afero.NewOsFs(), workingDir)
}

// Resolve returns the path the filesystem will operate on
func (c *ContextualFs) Resolve(path string) string {
	return c.resolvePath(path)
}

// resolvePath resolves a path relative to the working directory if it's not absolute
func (c *ContextualFs) resolvePath(path string) string {
	// Handle empty path as current directory
	if path == "" {
		if c.workingDir == "" {
			return "."
		}
		return c.workingDir
	}

	if filepath.IsAbs(path) || c.workingDir == "" {
		return path
	}
	return filepath.Join(c.workingDir, path)
}

// Override methods to resolve paths relative to working directory

func (c *ContextualFs) Open(name string) (afero.File, error) {
	return c.Fs.Open(c.resolvePath(name))
}

func (c *ContextualFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	return c.Fs.OpenFile(c.resolvePath(name), flag, perm)
}

func (c *ContextualFs) Remove(name string) error {
	return c.Fs.Remove(c.resolvePath(name))
}

func (c *ContextualFs) RemoveAll(path string) error {
	return c.Fs.RemoveAll(c.resolvePath(path))
}

func (c *ContextualFs) Rename(oldname, newname string) error {
	return c.Fs.Rename(c.resolvePath(oldname), c.resolvePath(newname))
}

func (c *ContextualFs) Stat(name string) (os.FileInfo, error) {
	return c.Fs.Stat(c.resolvePath(name))
}

func (c *ContextualFs) Create(name string) (afero.File, error) {
	return c.Fs.Create(c.resolvePath(name))
}

func (c *ContextualFs) Mkdir(name string, perm os.FileMode) error {
	return c.Fs.Mkdir(c.resolvePath(name), perm)
}

func (c *ContextualFs) MkdirAll(path string, perm os.FileMode) error {
	return c.Fs.MkdirAll(c.resolvePath(path), perm)
}

func (c *ContextualFs) Chmod(name string, mode os.FileMode) error {
	return c.Fs.Chmod(c.resolvePath(name), mode)
}

func (c *ContextualFs) Chown(name string, uid, gid int) error {
	return c.Fs.Chown(c.resolvePath(name), uid, gid)
}

func (c *ContextualFs) Chtimes(name string, atime, mtime time.Time) error {
	return c.Fs.Chtimes(c.resolvePath(name), atime, mtime)
}

// LstatIfPossible does not follow symlinks when the base filesystem supports it
func (c *ContextualFs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	if l, ok := c.Fs.(afero.Lstater); ok {
		return l.LstatIfPossible(c.resolvePath(name))
	}
	info, err := c.Fs.Stat(c.resolvePath(name))
	return info, false, err
}

func (c *ContextualFs) ReadlinkIfPossible(name string) (string, error) {
	if r, ok := c.Fs.(afero.LinkReader); ok {
		return r.ReadlinkIfPossible(c.resolvePath(name))
	}
	return "", &os.PathError{Op: "readlink", Path: name, Err: afero.ErrNoReadlink}
}

func (c *ContextualFs) SymlinkIfPossible(oldname, newname string) error {
	if l, ok := c.Fs.(afero.Linker); ok {
		// the link target is stored verbatim
		return l.SymlinkIfPossible(oldname, c.resolvePath(newname))
	}
	return &os.LinkError{Op: "symlink", Old: oldname, New: newname, Err: afero.ErrNoSymlink}
}

// GetWorkingDir returns the current working directory
func (c *ContextualFs) GetWorkingDir() string {
	return c.workingDir
}

func (c *ContextualFs) Name() string {
	return "ContextualFs"
}
