package logstore

import "context"

// FileSystem is the storage capability the repository writes through.
//
// Paths are slash- or OS-separated absolute paths produced by Addressing.
// Implementations report missing files and directories with errors that
// satisfy errors.Is(err, fs.ErrNotExist).
type FileSystem interface {
	// Exists reports whether a file or directory exists at path.
	Exists(ctx context.Context, path string) (bool, error)

	// EnsureDir creates dir and any missing parents. An existing directory
	// is success.
	EnsureDir(ctx context.Context, dir string) error

	// AppendLine appends line and a trailing "\n" to the file at path,
	// creating the file if needed. The parent directory must exist.
	AppendLine(ctx context.Context, path, line string) error

	// ListFiles returns the names of the regular files directly inside dir,
	// ordered by name.
	ListFiles(ctx context.Context, dir string) ([]string, error)

	// ReadFile returns the whole content of the file at path.
	ReadFile(ctx context.Context, path string) (string, error)
}
