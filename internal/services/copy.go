package services

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// copyFile copies one regular file, keeping its permission bits and modification time.
// An existing destination file is overwritten.
func copyFile(src, dst string, mode fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return &fs.PathError{Op: "write", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		return err
	}

	if info, err := in.Stat(); err == nil {
		_ = os.Chtimes(dst, time.Now(), info.ModTime())
	}
	return nil
}

// copyTree copies a directory recursively into dst, creating it if needed and
// merging into it if it exists. Symbolic links are recreated, not followed.
// The first failure aborts the walk; anything already copied stays in place.
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dst, info.Mode().Perm()|0o700); err != nil {
		return err
	}

	d, err := os.Open(src)
	if err != nil {
		return err
	}
	entries, err := d.ReadDir(-1)
	d.Close()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		s := filepath.Join(src, entry.Name())
		t := filepath.Join(dst, entry.Name())

		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			if err := copySymlink(s, t); err != nil {
				return err
			}
		case entry.IsDir():
			if err := copyTree(s, t); err != nil {
				return err
			}
		default:
			fi, err := entry.Info()
			if err != nil {
				return err
			}
			if !fi.Mode().IsRegular() {
				return &fs.PathError{Op: "copy", Path: s, Err: ErrIrregularFile}
			}
			if err := copyFile(s, t, fi.Mode()); err != nil {
				return err
			}
		}
	}

	_ = os.Chtimes(dst, time.Now(), info.ModTime())
	return nil
}

func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return err
	}
	if err := os.Symlink(target, dst); err != nil {
		return fmt.Errorf("recreate link %s: %w", dst, err)
	}
	return nil
}
