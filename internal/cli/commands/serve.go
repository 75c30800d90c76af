package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/alchemy/internal/api"
	"github.com/conduit-lang/alchemy/internal/cli/config"
	"github.com/conduit-lang/alchemy/internal/metrics"
	"github.com/conduit-lang/alchemy/internal/store/arango"
	"github.com/conduit-lang/alchemy/internal/web/router"
	"github.com/conduit-lang/alchemy/internal/web/server"
)

type serveOptions struct {
	port     int
	host     string
	metadata string
}

// NewServeCommand creates the serve command
func NewServeCommand(global *globalOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the GraphQL API",
		Long: `Load the metadata map, connect to ArangoDB and serve the generated
GraphQL API until interrupted.

Examples:
  alchemy serve
  alchemy serve --port 9090
  alchemy serve --metadata schema/library.yaml --config prod.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global, opts.metadata)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = opts.port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = opts.host
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := newLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, cfg, logger)
		},
	}

	cmd.Flags().IntVarP(&opts.port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().StringVar(&opts.host, "host", "", "Host to bind")
	cmd.Flags().StringVarP(&opts.metadata, "metadata", "m", "", "Metadata map (overrides metadata.path)")

	return cmd
}

// serve boots the API and blocks until ctx is done
func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	var (
		m              *metrics.Metrics
		metricsHandler http.Handler
	)
	if cfg.Server.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		var err error
		if m, err = metrics.New(reg); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		metricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}

	store, err := arango.Open(ctx, arango.Config{
		Endpoints: cfg.Database.Endpoints,
		Database:  cfg.Database.Name,
		Username:  cfg.Database.Username,
		Password:  cfg.Database.Password,
	}, logger)
	if err != nil {
		return err
	}

	_, registry, err := loadRegistry(ctx, cfg.Metadata.Path, store, logger, m)
	if err != nil {
		return err
	}

	schema, err := api.NewSchema(registry)
	if err != nil {
		return err
	}

	var playground http.Handler
	if cfg.Server.Playground {
		playground = api.NewPlayground(cfg.Server.APIPrefix+"/graphql", logger)
	}

	routes := router.New(router.Config{
		APIPrefix:  cfg.Server.APIPrefix,
		GraphQL:    api.NewHandler(schema, logger),
		Playground: playground,
		Metrics:    metricsHandler,
		Logger:     logger,
	})

	serverConfig := server.DefaultConfig(routes)
	serverConfig.Address = cfg.Server.Address()
	serverConfig.ReadTimeout = cfg.Server.ReadTimeout
	serverConfig.WriteTimeout = cfg.Server.WriteTimeout

	srv, err := server.New(serverConfig)
	if err != nil {
		return err
	}

	logger.Info("operations registered",
		zap.Int("operations", registry.Len()),
		zap.String("metadata", cfg.Metadata.Path),
	)

	shutdown := server.NewGracefulShutdown(srv, cfg.Server.ShutdownTimeout, logger)
	shutdown.RegisterHook(func(ctx context.Context) error {
		logger.Info("server stopped")
		return nil
	})

	return shutdown.Run(ctx)
}
