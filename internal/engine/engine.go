// Package engine implements the batch training run for the pricing model.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/fareflow/fareflow/internal/dataset"
	"github.com/fareflow/fareflow/internal/model"
	"github.com/fareflow/fareflow/internal/pipeline"
	"github.com/fareflow/fareflow/internal/service"
)

// Config holds configuration options for the training engine.
type Config struct {
	// StepTimeout bounds the whole fetch/join/derive/fit/save run. On
	// timeout the run fails as a unit; individual joins are never retried.
	StepTimeout time.Duration

	// IncludeZeroDuration keeps zero-day rentals in the training frame.
	IncludeZeroDuration bool

	// ShowProgress renders a progress bar while deriving features.
	ShowProgress bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		StepTimeout:         2 * time.Minute,
		IncludeZeroDuration: false,
		ShowProgress:        false,
	}
}

// TrainingEngine orchestrates one batch training run: fetch raw snapshots,
// join, derive features, fit the pipeline, and publish the artifact.
type TrainingEngine struct {
	storage   service.Storage
	artifacts service.ArtifactStore
	credit    service.CreditScoreProvider
	config    Config
}

// Summary reports what a completed training run produced.
type Summary struct {
	TrainedAt      time.Time
	ArtifactID     string
	Token          string
	RentalsFetched int
	RowsJoined     int
	RowsTrained    int
	Elapsed        time.Duration
}

// New creates a training engine with the default configuration.
func New(storage service.Storage, artifacts service.ArtifactStore, credit service.CreditScoreProvider) *TrainingEngine {
	return NewWithConfig(storage, artifacts, credit, DefaultConfig())
}

// NewWithConfig creates a training engine with custom configuration.
func NewWithConfig(storage service.Storage, artifacts service.ArtifactStore, credit service.CreditScoreProvider, config Config) *TrainingEngine {
	return &TrainingEngine{
		storage:   storage,
		artifacts: artifacts,
		credit:    credit,
		config:    config,
	}
}

// Train runs one batch training job to completion and returns its summary.
// The produced artifact replaces the store's slot wholesale; it is never
// mutated in place.
func (e *TrainingEngine) Train(ctx context.Context) (*Summary, error) {
	start := time.Now()

	if e.config.StepTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.StepTimeout)
		defer cancel()
	}

	slog.Info("Starting training run", "include_zero_duration", e.config.IncludeZeroDuration)

	inputs, err := e.fetchSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	joined := dataset.Join(*inputs)
	slog.Info("Joined rental records", "fetched", len(inputs.Rentals), "joined", len(joined))

	deriver := &dataset.Deriver{
		Credit:              e.credit,
		IncludeZeroDuration: e.config.IncludeZeroDuration,
	}
	if e.config.ShowProgress && len(joined) > 0 {
		bar := progressbar.Default(int64(len(joined)), "deriving features")
		deriver.Progress = func() { _ = bar.Add(1) }
	}

	rows, err := deriver.Derive(joined)
	if err != nil {
		return nil, fmt.Errorf("feature derivation failed: %w", err)
	}
	slog.Info("Derived training frame", "rows", len(rows))

	pl := pipeline.New()
	if err := pl.Fit(rows); err != nil {
		return nil, fmt.Errorf("pipeline fit failed: %w", err)
	}

	trainedAt := time.Now().UTC()
	art := pl.Artifact(uuid.NewString(), trainedAt, len(rows))

	token, err := e.artifacts.Save(ctx, art)
	if err != nil {
		return nil, fmt.Errorf("failed to save artifact: %w", err)
	}

	summary := &Summary{
		ArtifactID:     art.ID,
		Token:          token,
		TrainedAt:      trainedAt,
		RentalsFetched: len(inputs.Rentals),
		RowsJoined:     len(joined),
		RowsTrained:    len(rows),
		Elapsed:        time.Since(start),
	}

	slog.Info("Training run complete",
		"artifact_id", summary.ArtifactID,
		"rows_trained", summary.RowsTrained,
		"elapsed", summary.Elapsed)

	return summary, nil
}

// fetchSnapshots reads all raw table snapshots from the external store.
func (e *TrainingEngine) fetchSnapshots(ctx context.Context) (*dataset.JoinInputs, error) {
	rentals, err := e.storage.FetchRentalRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rentals: %w", err)
	}

	types, err := e.storage.FetchVehicleTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vehicle types: %w", err)
	}

	locations, err := e.storage.FetchLocations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch locations: %w", err)
	}

	accounts, err := e.storage.FetchAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	customers, err := e.storage.FetchCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch customers: %w", err)
	}

	return &dataset.JoinInputs{
		Rentals:      rentals,
		VehicleTypes: types,
		Locations:    locations,
		Accounts:     accounts,
		Customers:    customers,
	}, nil
}

// TrainedArtifact is a convenience that runs Train and loads the published
// artifact back, for callers that immediately serve from it.
func (e *TrainingEngine) TrainedArtifact(ctx context.Context) (*model.ModelArtifact, *Summary, error) {
	summary, err := e.Train(ctx)
	if err != nil {
		return nil, nil, err
	}
	art, err := e.artifacts.Load(ctx, summary.Token)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to reload artifact: %w", err)
	}
	return art, summary, nil
}
