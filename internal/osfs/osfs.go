// Package osfs implements the log repository's filesystem capability on the
// local disk.
package osfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// FS is the local-disk filesystem. The zero value is ready to use.
type FS struct{}

// New returns a local-disk filesystem.
func New() FS {
	return FS{}
}

// Exists reports whether path exists. Permission and other stat errors are
// returned rather than treated as absence.
func (FS) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// EnsureDir creates dir and its parents. MkdirAll treats an existing
// directory as success, which also covers concurrent first writers.
func (FS) EnsureDir(_ context.Context, dir string) error {
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// AppendLine opens path in append mode, writes line and "\n" with a single
// write, and closes the file again.
func (FS) AppendLine(_ context.Context, path, line string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePerm)
	if err != nil {
		return err
	}

	data := make([]byte, 0, len(line)+1)
	data = append(data, line...)
	data = append(data, '\n')

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ListFiles returns the regular files directly inside dir, sorted by name.
// Subdirectories are skipped.
func (FS) ListFiles(_ context.Context, dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// ReadFile returns the content of path.
func (FS) ReadFile(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
