// Draftd turns a short requirement brief into a scored, readiness-rated
// template draft. The daemon exposes an HTTP API with SSE progress
// streaming; the generate subcommand runs one brief from the command line.
//
// Usage:
//
//	# Start the daemon with defaults
//	draftd serve
//
//	# Configure via file and environment
//	draftd serve --config /etc/draftd/config.yaml
//	SERVER_PORT=9090 draftd serve
//
//	# One-shot generation without the daemon
//	draftd generate "a minimal portfolio for a photographer"
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/draftd/internal/catalog"
	"github.com/fyrsmithlabs/draftd/internal/config"
	"github.com/fyrsmithlabs/draftd/internal/customize"
	"github.com/fyrsmithlabs/draftd/internal/design"
	"github.com/fyrsmithlabs/draftd/internal/logging"
	"github.com/fyrsmithlabs/draftd/internal/orchestrator"
	"github.com/fyrsmithlabs/draftd/internal/pipeline"
	"github.com/fyrsmithlabs/draftd/internal/server"
	"github.com/fyrsmithlabs/draftd/internal/telemetry"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "draftd",
	Short: "Template draft generation daemon",
	Long: `draftd ranks a template catalog against a derived requirement profile,
adapts the winner, and assembles a reviewed draft under a wall-clock budget.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", version, gitCommit, buildDate),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (YAML)")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the draftd HTTP server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runServe(cmd.Context())
	},
}

var generateFlags struct {
	industry string
	audience string
	quality  string
	budget   time.Duration
}

var generateCmd = &cobra.Command{
	Use:   "generate <brief>",
	Short: "Generate one draft from a brief and print the result as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context(), args[0])
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateFlags.industry, "industry", "", "industry hint for classification")
	generateCmd.Flags().StringVar(&generateFlags.audience, "audience", "", "target audience hint")
	generateCmd.Flags().StringVar(&generateFlags.quality, "quality-level", "", "draft, standard, or premium")
	generateCmd.Flags().DurationVar(&generateFlags.budget, "budget", 0, "overall time budget (default 30m)")
}

// bootstrap loads config and builds the shared dependencies.
func bootstrap(ctx context.Context) (*config.Config, *logging.Logger, *telemetry.Telemetry, *pipeline.Service, *nats.Conn, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	tel, err := telemetry.New(ctx, telemetryConfig(cfg))
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to init telemetry: %w", err)
	}

	logCfg, err := loggingConfig(cfg)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	logger, err := logging.NewLogger(logCfg, tel.LoggerProvider())
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to init logger: %w", err)
	}

	var natsConn *nats.Conn
	if cfg.NATS.Enabled {
		natsConn, err = nats.Connect(cfg.NATS.URL,
			nats.Name("draftd"),
			nats.MaxReconnects(-1),
			nats.ReconnectWait(time.Second),
		)
		if err != nil {
			logger.Warn(ctx, "nats unavailable, progress streaming disabled",
				zap.String("url", cfg.NATS.URL),
				zap.Error(err),
			)
			natsConn = nil
		}
	}

	cat, err := catalog.Load(cfg.Pipeline.CatalogPath)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	var custOpts []customize.Option
	if cfg.Enrichment.Enabled {
		enricher, err := customize.NewHTTPEnricher(cfg.Enrichment.BaseURL, cfg.Enrichment.Timeout.Duration())
		if err != nil {
			return nil, nil, nil, nil, nil, fmt.Errorf("failed to init enricher: %w", err)
		}
		custOpts = append(custOpts, customize.WithEnricher(enricher, cfg.Enrichment.Timeout.Duration()))
	}
	customizer := customize.New(logger, custOpts...)

	orchCfg := orchestrator.Config{
		OverallBudget: cfg.Pipeline.OverallBudget.Duration(),
		TickInterval:  cfg.Pipeline.TickInterval.Duration(),
		StrictQuality: cfg.Pipeline.StrictQuality,
	}

	svc, err := pipeline.NewService(logger, cat, customizer, orchCfg, orchestrator.NewMetrics(nil), natsConn)
	if err != nil {
		return nil, nil, nil, nil, nil, fmt.Errorf("failed to init pipeline: %w", err)
	}

	return cfg, logger, tel, svc, natsConn, nil
}

func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, tel, svc, natsConn, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if natsConn != nil {
			natsConn.Close()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tel.Shutdown(shutdownCtx)
		_ = logger.Sync()
	}()

	srv, err := server.NewServer(logger, svc, natsConn, server.Config{
		Host:            cfg.Server.Host,
		Port:            cfg.Server.Port,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration(),
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info(context.Background(), "shutting down")
		return srv.Shutdown(context.Background())
	}
}

func runGenerate(ctx context.Context, brief string) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_, logger, tel, svc, natsConn, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if natsConn != nil {
			natsConn.Close()
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tel.Shutdown(shutdownCtx)
		_ = logger.Sync()
	}()

	result, err := svc.Generate(ctx, pipeline.Request{
		Brief: design.Brief{
			Text:         brief,
			Industry:     generateFlags.industry,
			Audience:     generateFlags.audience,
			QualityLevel: generateFlags.quality,
		},
		Options: pipeline.Options{TimeBudget: generateFlags.budget},
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if !result.Success {
		return fmt.Errorf("generation finished with status %s", result.Status)
	}
	return nil
}

// loggingConfig translates the root config's logging section.
func loggingConfig(cfg *config.Config) (*logging.Config, error) {
	level, err := logging.LevelFromString(cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid logging.level: %w", err)
	}
	out := logging.NewDefaultConfig()
	out.Level = level
	out.Format = cfg.Logging.Format
	out.Output.Stdout = cfg.Logging.Stdout
	out.Output.OTEL = cfg.Logging.OTEL
	return out, nil
}

// telemetryConfig translates the root config's observability section.
func telemetryConfig(cfg *config.Config) *telemetry.Config {
	out := telemetry.NewDefaultConfig()
	out.Enabled = cfg.Observability.Enabled
	out.Endpoint = cfg.Observability.Endpoint
	if cfg.Observability.Protocol != "" {
		out.Protocol = cfg.Observability.Protocol
	}
	out.ServiceName = cfg.Observability.ServiceName
	out.ServiceVersion = cfg.Observability.ServiceVersion
	out.Insecure = cfg.Observability.Insecure
	out.SampleRate = cfg.Observability.SampleRate
	out.ExportInterval = cfg.Observability.ExportInterval
	return out
}
