package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fareflow/fareflow/internal/cli"
	"github.com/fareflow/fareflow/internal/engine"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the pricing model and publish an artifact",
		Long: `Run one batch training job: join the raw reservation tables,
derive the feature columns, fit the one-hot + linear-regression
pipeline, and publish the fitted model as a versioned artifact.

Each run replaces the artifact slot wholesale; the previous artifact
stays intact if the run fails.`,
		RunE: runTrain,
	}

	cmd.Flags().Bool("include-zero-duration", false, "Keep zero-day rentals in the training frame")
	cmd.Flags().Bool("no-progress", false, "Disable the feature derivation progress bar")
	_ = viper.BindPFlag("training.include_zero_duration", cmd.Flags().Lookup("include-zero-duration"))

	return cmd
}

func runTrain(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	artifacts, err := initArtifactStore()
	if err != nil {
		return fmt.Errorf("failed to initialize artifact store: %w", err)
	}

	credit, err := creditProvider()
	if err != nil {
		return err
	}

	trainer := engine.NewWithConfig(store, artifacts, credit, engineConfig(!noProgress))

	summary, err := trainer.Train(ctx)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	fmt.Println(cli.TitleStyle.Render("Training complete"))
	fmt.Printf("  %s %s\n", cli.SubtleStyle.Render("artifact:"), cli.ValueStyle.Render(summary.ArtifactID))
	fmt.Printf("  %s %s\n", cli.SubtleStyle.Render("published:"), summary.Token)
	fmt.Printf("  %s %d fetched, %d joined, %d trained\n",
		cli.SubtleStyle.Render("rows:"), summary.RentalsFetched, summary.RowsJoined, summary.RowsTrained)
	fmt.Printf("  %s %s\n", cli.SubtleStyle.Render("elapsed:"), summary.Elapsed.Round(time.Millisecond))

	return nil
}
