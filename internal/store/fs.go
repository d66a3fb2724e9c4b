package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

var errNotDir = errors.New("not a directory")

// Exists reports whether a file or directory row exists for path.
func (s *Store) Exists(ctx context.Context, path string) (bool, error) {
	path = filepath.Clean(path)

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM files WHERE path = ?)
		    OR EXISTS(SELECT 1 FROM directories WHERE path = ?)
	`, path, path).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", path, err)
	}
	return exists, nil
}

// EnsureDir records dir and all of its ancestors. Existing rows are left
// untouched, so concurrent callers all succeed.
func (s *Store) EnsureDir(ctx context.Context, dir string) error {
	dir = filepath.Clean(dir)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ensure dir: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for d := dir; ; d = filepath.Dir(d) {
		isFile, err := hasRow(ctx, tx, `SELECT 1 FROM files WHERE path = ?`, d)
		if err != nil {
			return fmt.Errorf("ensure dir: %w", err)
		}
		if isFile {
			return &fs.PathError{Op: "mkdir", Path: d, Err: errNotDir}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO directories (path) VALUES (?)
			ON CONFLICT(path) DO NOTHING
		`, d); err != nil {
			return fmt.Errorf("ensure dir: insert %s: %w", d, err)
		}

		if filepath.Dir(d) == d {
			break
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ensure dir: commit: %w", err)
	}
	return nil
}

// AppendLine creates the file row on first use and inserts one line row.
// The parent directory must have been created with EnsureDir.
func (s *Store) AppendLine(ctx context.Context, path, line string) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append line: begin tx: %w", err)
	}
	defer tx.Rollback()

	dirExists, err := hasRow(ctx, tx, `SELECT 1 FROM directories WHERE path = ?`, dir)
	if err != nil {
		return fmt.Errorf("append line: %w", err)
	}
	if !dirExists {
		return &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}

	isDir, err := hasRow(ctx, tx, `SELECT 1 FROM directories WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("append line: %w", err)
	}
	if isDir {
		return &fs.PathError{Op: "open", Path: path, Err: errors.New("is a directory")}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO files (path, dir, name) VALUES (?, ?, ?)
		ON CONFLICT(path) DO NOTHING
	`, path, dir, filepath.Base(path)); err != nil {
		return fmt.Errorf("append line: insert file: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO lines (path, line) VALUES (?, ?)
	`, path, line); err != nil {
		return fmt.Errorf("append line: insert line: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append line: commit: %w", err)
	}
	return nil
}

// ListFiles returns the names of the files directly inside dir, ordered by
// name. Returns an empty slice (not nil) for an empty directory.
func (s *Store) ListFiles(ctx context.Context, dir string) ([]string, error) {
	dir = filepath.Clean(dir)

	exists, err := hasRow(ctx, s.db, `SELECT 1 FROM directories WHERE path = ?`, dir)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	if !exists {
		return nil, &fs.PathError{Op: "readdir", Path: dir, Err: fs.ErrNotExist}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM files
		WHERE dir = ?
		ORDER BY name COLLATE BINARY ASC
	`, dir)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list files: scan: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list files: iterate: %w", err)
	}
	return names, nil
}

// ReadFile returns every line of the file, each followed by "\n", in append
// order.
func (s *Store) ReadFile(ctx context.Context, path string) (string, error) {
	path = filepath.Clean(path)

	exists, err := hasRow(ctx, s.db, `SELECT 1 FROM files WHERE path = ?`, path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	if !exists {
		return "", &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT line FROM lines
		WHERE path = ?
		ORDER BY seq ASC
	`, path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	defer rows.Close()

	var sb strings.Builder
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return "", fmt.Errorf("read file: scan: %w", err)
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("read file: iterate: %w", err)
	}
	return sb.String(), nil
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// hasRow reports whether query returns at least one row.
func hasRow(ctx context.Context, q querier, query string, args ...any) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
