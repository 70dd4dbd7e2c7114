package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fareflow/fareflow/internal/common"
	"github.com/fareflow/fareflow/internal/engine"
	"github.com/fareflow/fareflow/internal/estimator"
	"github.com/fareflow/fareflow/internal/server"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve price estimates over HTTP",
		Long: `Load the published model artifact and serve /predict-price along
with the read-only car type and location catalogs.

With --retrain-interval set, the server periodically reruns training
and hot-swaps the served artifact; in-flight requests always see a
fully consistent model.`,
		RunE: runServe,
	}

	cmd.Flags().String("address", ":8080", "Listen address")
	cmd.Flags().Duration("retrain-interval", 0, "Retrain and hot-swap the model at this interval (0 disables)")
	_ = viper.BindPFlag("server.address", cmd.Flags().Lookup("address"))
	_ = viper.BindPFlag("server.retrain_interval", cmd.Flags().Lookup("retrain-interval"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	artifacts, err := initArtifactStore()
	if err != nil {
		return fmt.Errorf("failed to initialize artifact store: %w", err)
	}

	est := estimator.New()
	interval := retrainInterval()

	art, err := artifacts.Load(ctx, "")
	switch {
	case err == nil:
		if err := est.LoadArtifact(art); err != nil {
			return fmt.Errorf("failed to load artifact: %w", err)
		}
		slog.Info("Serving artifact", "artifact_id", art.ID, "trained_at", art.TrainedAt)
	case errors.Is(err, common.ErrNotFound) && interval > 0:
		// No artifact yet; the first scheduled retrain will publish one.
		slog.Warn("No artifact published yet, predictions unavailable until first retrain")
	default:
		return common.NewUserError("no trained model available, run `fareflow train` first", err)
	}

	if interval > 0 {
		credit, err := creditProvider()
		if err != nil {
			return err
		}
		trainer := engine.NewWithConfig(store, artifacts, credit, engineConfig(false))
		retrainer := engine.NewRetrainer(trainer, est, interval)
		go retrainer.Start(ctx)
	}

	addr := viper.GetString("server.address")
	srv := server.New(addr, est, store)

	return srv.Start(ctx)
}
