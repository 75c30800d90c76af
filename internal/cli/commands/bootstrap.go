package commands

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/conduit-lang/alchemy/internal/api/execution"
	"github.com/conduit-lang/alchemy/internal/api/operations"
	"github.com/conduit-lang/alchemy/internal/cli/config"
	"github.com/conduit-lang/alchemy/internal/metadata"
	"github.com/conduit-lang/alchemy/internal/metrics"
)

// newLogger builds the process logger from the log section
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.Development {
		zapConfig = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapConfig.Level = level
	}

	return zapConfig.Build()
}

// loadConfig loads the config and applies the metadata path override
func loadConfig(opts *globalOptions, metadataPath string) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if metadataPath != "" {
		cfg.Metadata.Path = metadataPath
	}
	return cfg, nil
}

// loadRegistry loads and validates the metadata map and registers the
// operations of every entity
func loadRegistry(ctx context.Context, path string, store execution.Store, logger *zap.Logger, m *metrics.Metrics) (*metadata.Map, *operations.Registry, error) {
	metadataMap, err := metadata.NewFileSource(path).Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	registry, err := operations.Build(metadataMap, execution.New(store, logger, m))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	return metadataMap, registry, nil
}
