package main

import (
	"context"
	"fmt"

	"github.com/cuongbtq/settlement-pipeline/internal/artifact"
	"github.com/cuongbtq/settlement-pipeline/internal/config"
	"github.com/cuongbtq/settlement-pipeline/internal/store"
	"github.com/cuongbtq/settlement-pipeline/shared/logger"
	"github.com/cuongbtq/settlement-pipeline/shared/postgresql"
	"github.com/cuongbtq/settlement-pipeline/shared/rabbitmq"
)

// env holds the clients a command opened; close releases them in reverse order
type env struct {
	cfg     *config.Config
	logger  *logger.Logger
	db      *postgresql.Client
	records *store.RecordStore
	rabbit  *rabbitmq.Client
	closers []func() error
}

func openEnv(withQueue bool) (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ValidateCLIConfig(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// keep stdout for command output
	logCfg := cfg.Logging.LoggerConfig()
	if logCfg.Output == "" || logCfg.Output == "stdout" {
		logCfg.Output = "stderr"
	}
	appLogger, err := logger.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	e := &env{cfg: cfg, logger: appLogger}
	e.closers = append(e.closers, appLogger.Close)

	e.db, err = postgresql.NewClient(cfg.Database.ClientConfig(), appLogger.Logger)
	if err != nil {
		e.close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	e.closers = append(e.closers, e.db.Close)
	e.records = store.NewRecordStore(e.db.GetDB(), appLogger.Logger)

	if withQueue {
		e.rabbit, err = rabbitmq.NewClient(cfg.RabbitMQ.ClientConfig(), appLogger.Logger)
		if err != nil {
			e.close()
			return nil, fmt.Errorf("failed to initialize RabbitMQ: %w", err)
		}
		e.closers = append(e.closers, e.rabbit.Close)
	}

	return e, nil
}

func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		_ = e.closers[i]()
	}
}

// artifacts opens the configured backend, or a local directory when dir is set
func (e *env) artifacts(ctx context.Context, dir string) (artifact.Store, error) {
	if dir != "" {
		return artifact.NewFileStore(dir), nil
	}
	if e.cfg.Artifacts.Backend != config.BackendS3 {
		return artifact.NewFileStore(e.cfg.Artifacts.OutputDir), nil
	}

	s3, err := artifact.NewMinioStore(e.cfg.Artifacts.S3.MinioConfig())
	if err != nil {
		return nil, err
	}
	if err := s3.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3, nil
}
