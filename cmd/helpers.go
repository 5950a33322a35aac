package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/docviewer/internal/catalog"
	"github.com/ziadkadry99/docviewer/internal/config"
	"github.com/ziadkadry99/docviewer/internal/db"
	"github.com/ziadkadry99/docviewer/internal/logging"
	"github.com/ziadkadry99/docviewer/internal/progress"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `docviewer init` to create a config file", err)
	}
	return cfg, nil
}

// newLogger builds the process logger from the config and --verbose.
func newLogger(cfg *config.Config, service string) zerolog.Logger {
	return logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Format:  string(cfg.LogFormat),
		Service: service,
		Verbose: verbose,
	})
}

// openCatalog opens the catalog database and, when dir is non-empty,
// imports the documents found there. The caller closes the returned DB.
func openCatalog(ctx context.Context, cfg *config.Config, dir string, logger zerolog.Logger) (*db.DB, *catalog.Store, error) {
	database, err := db.Open(cfg.Catalog.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening catalog database: %w", err)
	}
	store := catalog.NewStore(database)

	if dir != "" {
		if _, err := importCatalog(ctx, cfg, store, dir, progress.Nop{}, logger); err != nil {
			database.Close()
			return nil, nil, err
		}
	}
	return database, store, nil
}

// importCatalog imports dir into store and, if configured, the portal's own
// API document.
func importCatalog(ctx context.Context, cfg *config.Config, store *catalog.Store, dir string, reporter progress.Reporter, logger zerolog.Logger) (*catalog.ImportResult, error) {
	im := &catalog.Importer{
		Store:       store,
		Include:     cfg.Catalog.Include,
		Exclude:     cfg.Catalog.Exclude,
		AdminGroups: cfg.Catalog.AdminGroups,
		Reporter:    reporter,
		Logger:      logger,
	}

	result, err := im.ImportDir(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("importing %s: %w", dir, err)
	}
	if cfg.Catalog.IncludeSelf {
		if _, err := im.ImportSelf(ctx, Version); err != nil {
			return nil, fmt.Errorf("importing portal api document: %w", err)
		}
	}
	return result, nil
}
