// Package atomicfile persists vitrine's small state files, the balance
// cache and the config, without torn writes. A crash mid-save leaves the
// previous file intact.
package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// dirPermissions applies to state directories created on first save.
const dirPermissions = 0o750

// ErrEmptyPath indicates an empty target path.
var ErrEmptyPath = errors.New("atomicfile: empty path")

// Write replaces path with data. The bytes land in a hidden temp file next
// to the target, get flushed to disk, then a rename swaps them in, so a
// concurrent reader sees either the old file or the new one, never a
// partial write. The parent directory is created when missing.
func Write(path string, data []byte, perm os.FileMode) error {
	if path == "" {
		return ErrEmptyPath
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return fmt.Errorf("atomicfile: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("atomicfile: stage %s: %w", path, err)
	}
	name := tmp.Name()

	err = stage(tmp, data, perm)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(name, path)
	}
	if err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("atomicfile: write %s: %w", path, err)
	}

	// Best effort: sync the directory so the rename survives a crash.
	if d, derr := os.Open(dir); derr == nil { // #nosec G304 -- derived from the target path
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// stage fills the temp file and flushes it before the rename.
func stage(f *os.File, data []byte, perm os.FileMode) error {
	if _, err := f.Write(data); err != nil {
		return err
	}
	if err := f.Chmod(perm); err != nil {
		return err
	}
	return f.Sync()
}
