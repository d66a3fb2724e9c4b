package logstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/process-engine/logrepo/internal/logentry"
)

// ReadLogForProcessModel returns the entries of a process model in append
// order. SchemeFlat ignores correlationID. A process model that never logged
// yields an empty slice and no error.
func (r *Repository) ReadLogForProcessModel(ctx context.Context, correlationID, processModelID string) ([]logentry.LogEntry, error) {
	path, err := r.addr.ProcessModelPath(correlationID, processModelID)
	if err != nil {
		return nil, fmt.Errorf("read process model log: %w", err)
	}

	exists, err := r.fs.Exists(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("read process model log: %w", err)
	}
	if !exists {
		r.logger.Debug("no log file", "path", path)
		return []logentry.LogEntry{}, nil
	}

	entries, err := r.ReadFile(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		// Removed between the existence check and the read.
		return []logentry.LogEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read process model log: %w", err)
	}
	return entries, nil
}

// ReadLogForCorrelation returns the entries of every file of a correlation,
// concatenated in directory-listing order (or by timestamp with
// WithTimestampOrdering). Requires SchemeNested. A missing correlation
// directory is an error.
func (r *Repository) ReadLogForCorrelation(ctx context.Context, correlationID string) ([]logentry.LogEntry, error) {
	dir, err := r.addr.CorrelationDir(correlationID)
	if err != nil {
		return nil, fmt.Errorf("read correlation log: %w", err)
	}

	names, err := r.fs.ListFiles(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("read correlation log: %w", err)
	}

	entries := []logentry.LogEntry{}
	for _, name := range names {
		fileEntries, err := r.ReadFile(ctx, filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read correlation log: %w", err)
		}
		entries = append(entries, fileEntries...)
	}

	if r.sortByTimestamp {
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Timestamp.Before(entries[j].Timestamp)
		})
	}

	r.logger.Debug("correlation log read", "dir", dir, "files", len(names), "entries", len(entries))
	return entries, nil
}

// ReadFile decodes every non-empty line of the file at path in file order.
// The first undecodable line aborts the read with a *LineError.
func (r *Repository) ReadFile(ctx context.Context, path string) ([]logentry.LogEntry, error) {
	content, err := r.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	entries := []logentry.LogEntry{}
	for i, line := range strings.Split(content, "\n") {
		if strings.TrimSuffix(line, "\r") == "" {
			continue
		}
		entry, err := r.codec.Decode(line)
		if err != nil {
			return nil, &LineError{Path: path, Line: i + 1, Err: err}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
