// Package atomicfile replaces whole files so a concurrent reader in another
// process sees either the old or the new contents, never a torn write.
package atomicfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPerm is used when WriteFile is called with perm 0. Slot files are
// read by a second process running as the same user.
const DefaultPerm os.FileMode = 0o644

// WriteFile writes data to a temp file beside path and renames it over path.
// The parent directory must already exist.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("atomicfile: empty path")
	}
	if perm == 0 {
		perm = DefaultPerm
	}
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("atomicfile: create temp for %s: %w", base, err)
	}
	name := tmp.Name()
	done := false
	defer func() {
		if !done {
			_ = os.Remove(name)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("atomicfile: write %s: %w", base, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("atomicfile: chmod %s: %w", base, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("atomicfile: close %s: %w", base, err)
	}
	if err := replace(name, path); err != nil {
		return fmt.Errorf("atomicfile: replace %s: %w", base, err)
	}
	done = true
	return nil
}

// replace renames src over dst. Windows refuses to rename onto a file that
// another process holds open, so a failed rename is retried once after
// removing dst.
func replace(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if rmErr := os.Remove(dst); rmErr != nil && !os.IsNotExist(rmErr) {
		return err
	}
	return os.Rename(src, dst)
}

// Remove deletes path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("atomicfile: remove %s: %w", filepath.Base(path), err)
	}
	return nil
}
