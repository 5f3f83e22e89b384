// Package atomicfile publishes files through a temp-then-rename step so
// a failed emission never leaves a truncated artifact at the target
// path.
package atomicfile

import (
	"io"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
)

// File is a pending write to a target path. Data goes to a temporary
// file in the same directory; Commit renames it over the target,
// Abort discards it.
type File struct {
	tmp    *os.File
	target string
	done   bool
}

// Create opens a pending write for target.
func Create(target string) (*File, error) {
	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, filepath.Base(target)+".tmp")
	if err != nil {
		return nil, errors.Wrapf(err, "create temp file for %s", target)
	}
	return &File{tmp: tmp, target: target}, nil
}

func (f *File) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Commit flushes the temporary file and renames it over the target.
func (f *File) Commit() error {
	if f.done {
		return errors.New("atomicfile: already finished")
	}
	f.done = true

	if err := f.tmp.Sync(); err != nil {
		f.tmp.Close()
		os.Remove(f.tmp.Name())
		return errors.Wrapf(err, "sync %s", f.tmp.Name())
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(f.tmp.Name())
		return errors.Wrapf(err, "close %s", f.tmp.Name())
	}
	if err := os.Rename(f.tmp.Name(), f.target); err != nil {
		os.Remove(f.tmp.Name())
		return errors.Wrapf(err, "publish %s", f.target)
	}
	return nil
}

// Abort discards the pending write. Calling it after Commit is a no-op,
// so it is safe to defer.
func (f *File) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.tmp.Close()
	os.Remove(f.tmp.Name())
}

// WriteFile runs write against a pending file and publishes the result
// only if write succeeds.
func WriteFile(target string, write func(io.Writer) error) error {
	f, err := Create(target)
	if err != nil {
		return err
	}
	defer f.Abort()

	if err := write(f); err != nil {
		return err
	}
	return f.Commit()
}
