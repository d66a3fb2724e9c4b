package logstore

import (
	"log/slog"

	"github.com/process-engine/logrepo/internal/logentry"
)

// Repository reads and writes process engine log files.
// It holds no file handles between calls and is safe for concurrent use.
type Repository struct {
	fs     FileSystem
	codec  *logentry.Codec
	addr   Addressing
	logger *slog.Logger

	// sortByTimestamp orders correlation reads chronologically.
	sortByTimestamp bool
}

// Option configures a Repository.
type Option func(*Repository)

// WithLogger sets the logger used for diagnostics. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(r *Repository) { r.logger = l }
}

// WithTimestampOrdering stably sorts the result of ReadLogForCorrelation by
// timestamp instead of returning directory-listing order.
func WithTimestampOrdering() Option {
	return func(r *Repository) { r.sortByTimestamp = true }
}

// New creates a repository writing through fs with the given codec and
// addressing scheme.
func New(fs FileSystem, codec *logentry.Codec, addr Addressing, opts ...Option) *Repository {
	r := &Repository{
		fs:     fs,
		codec:  codec,
		addr:   addr,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Addressing returns the active addressing scheme and root.
func (r *Repository) Addressing() Addressing {
	return r.addr
}
