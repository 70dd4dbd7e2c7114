package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/fareflow/fareflow/internal/artifact"
	"github.com/fareflow/fareflow/internal/common"
	"github.com/fareflow/fareflow/internal/config"
	"github.com/fareflow/fareflow/internal/dataset"
	"github.com/fareflow/fareflow/internal/engine"
	"github.com/fareflow/fareflow/internal/service"
	"github.com/fareflow/fareflow/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	// Get database path from config
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/fareflow/fareflow.db"
	}

	// Expand tilde and environment variables
	dbPath = config.ExpandPath(dbPath)

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	// Run migrations
	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// initArtifactStore builds the file-backed artifact store from config.
func initArtifactStore() (*artifact.FileStore, error) {
	path := viper.GetString("artifact.path")
	if path == "" {
		path = "$HOME/.local/share/fareflow/model.artifact"
	}
	return artifact.NewFileStore(config.ExpandPath(path))
}

// creditProvider builds the configured credit score provider.
func creditProvider() (service.CreditScoreProvider, error) {
	mode := viper.GetString("training.credit.mode")
	switch mode {
	case "", "fixed":
		score := viper.GetFloat64("training.credit.fixed_score")
		if score == 0 {
			score = dataset.DefaultCreditScore
		}
		return dataset.NewFixedCreditProvider(score), nil
	case "seeded":
		return dataset.NewSeededCreditProvider(viper.GetInt64("training.credit.seed")), nil
	default:
		return nil, fmt.Errorf("%w: unknown credit provider mode %q", common.ErrInvalidConfig, mode)
	}
}

// engineConfig reads the training engine configuration from viper.
func engineConfig(showProgress bool) engine.Config {
	cfg := engine.DefaultConfig()
	if timeout := viper.GetDuration("training.timeout"); timeout > 0 {
		cfg.StepTimeout = timeout
	}
	cfg.IncludeZeroDuration = viper.GetBool("training.include_zero_duration")
	cfg.ShowProgress = showProgress
	return cfg
}

// retrainInterval reads the serve-mode retraining interval; zero disables it.
func retrainInterval() time.Duration {
	return viper.GetDuration("server.retrain_interval")
}
