package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/process-engine/logrepo/internal/config"
	"github.com/process-engine/logrepo/internal/logentry"
	"github.com/process-engine/logrepo/internal/logstore"
	"github.com/process-engine/logrepo/internal/osfs"
	"github.com/process-engine/logrepo/internal/store"
)

// loadConfig loads, validates and resolves the effective configuration.
func loadConfig(opts *RootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.LoadFrom(opts.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	cfg.Resolve(cwd)
	return cfg, nil
}

// openRepository builds the repository described by cfg. The returned
// close function releases the backend.
func openRepository(cfg *config.Config, logger *slog.Logger) (*logstore.Repository, func() error, error) {
	codec, err := logentry.NewCodec(cfg.Format)
	if err != nil {
		return nil, nil, err
	}

	var (
		fs      logstore.FileSystem
		closeFn = func() error { return nil }
	)
	switch cfg.Backend {
	case config.BackendSQLite:
		logger.Debug("opening database", "path", cfg.SQLitePath)
		st, err := store.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		fs, closeFn = st, st.Close
	default:
		fs = osfs.New()
	}

	repoOpts := []logstore.Option{logstore.WithLogger(logger)}
	if cfg.SortByTimestamp {
		repoOpts = append(repoOpts, logstore.WithTimestampOrdering())
	}

	addr := logstore.Addressing{Scheme: cfg.Addressing, Root: cfg.Root()}
	return logstore.New(fs, codec, addr, repoOpts...), closeFn, nil
}
