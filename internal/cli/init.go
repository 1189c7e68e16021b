// Package cli provides the initialization shared by gastos commands: env file,
// logger, configuration, database and the optional change feed.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"gastos/assets"
	"gastos/internal/amqp"
	"gastos/internal/config"
	"gastos/internal/log"
	"gastos/internal/storage"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the process logger at the given level, writing to out,
// and installs it as the slog default.
func SetupLogger(level string, out io.Writer) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := log.DefaultConfig()
	cfg.Level = lvl
	cfg.Component = log.ComponentCLI
	if out != nil {
		cfg.Output = out
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger, nil
}

// LoadAndValidateConfig loads configuration from the environment and validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// InitDatabase bootstraps the database configured by cfg, installing the
// embedded seed in production.
func InitDatabase(ctx context.Context, cfg *config.Config) (*storage.DB, error) {
	db, err := storage.InitDatabase(ctx, storage.Options{
		Environment: cfg.Environment,
		Path:        cfg.DBPath(),
		Seed:        assets.SeedFS,
		SeedPath:    assets.SeedPath,
	})
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	return db, nil
}

// NewAMQPClient connects to the configured broker. It returns nil, nil when
// the change feed is disabled.
func NewAMQPClient(cfg *config.Config) (*amqp.Client, error) {
	if !cfg.AMQPEnabled() {
		return nil, nil
	}
	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		return nil, fmt.Errorf("connect AMQP: %w", err)
	}
	return client, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM. Calling the
// returned stop function releases the signal handler without logging a shutdown.
func SignalContext(ctx context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go waitForSignal(ctx, cancel, logger, sigCh)

	return ctx, func() {
		signal.Stop(sigCh)
		cancel()
	}
}

// waitForSignal cancels ctx when a signal arrives. It returns quietly when ctx
// ends for any other reason.
func waitForSignal(ctx context.Context, cancel context.CancelFunc, logger *log.Logger, sigCh <-chan os.Signal) {
	select {
	case sig := <-sigCh:
		logger.Info("Shutdown signal received",
			log.FieldOperation, log.OpShutdown,
			"signal", sig.String())
		cancel()
	case <-ctx.Done():
	}
}
