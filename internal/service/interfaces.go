// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/fareflow/fareflow/internal/model"
)

// Storage defines the contract for our persistence layer. The estimation
// core only ever reads snapshots of the raw tables; writes exist for
// migrations and seeding.
type Storage interface {
	// Raw record snapshots consumed by the training pipeline.
	FetchRentalRecords(ctx context.Context) ([]model.RentalRecord, error)
	FetchVehicleTypes(ctx context.Context) ([]model.VehicleType, error)
	FetchLocations(ctx context.Context) ([]model.Location, error)
	FetchAccounts(ctx context.Context) ([]model.AccountRecord, error)
	FetchCustomers(ctx context.Context) ([]model.CustomerRecord, error)

	// Catalog lookups for the read-only HTTP endpoints.
	GetVehicleType(ctx context.Context, typeID int64) (*model.VehicleType, error)
	GetLocation(ctx context.Context, locationID int64) (*model.Location, error)

	// Seeding support.
	SaveVehicleTypes(ctx context.Context, types []model.VehicleType) error
	SaveLocations(ctx context.Context, locations []model.Location) error
	SaveAccounts(ctx context.Context, accounts []model.AccountRecord) error
	SaveCustomers(ctx context.Context, customers []model.CustomerRecord) error
	SaveRentalRecords(ctx context.Context, rentals []model.RentalRecord) error

	Migrate(ctx context.Context) error
	Close() error
}

// ArtifactStore persists fitted model artifacts. Save publishes atomically:
// a reader never observes a partially written artifact. Load fails with a
// schema mismatch error when the stored artifact was trained under a
// different feature schema than this build expects.
type ArtifactStore interface {
	Save(ctx context.Context, artifact *model.ModelArtifact) (string, error)
	Load(ctx context.Context, token string) (*model.ModelArtifact, error)
}

// CreditScoreProvider supplies the credit signal for a joined rental record.
// The source data carries no true credit field, so the provider is an
// explicit injected capability; implementations must be deterministic per
// training run so results are reproducible.
type CreditScoreProvider interface {
	Score(record model.JoinedRecord) float64
}

// PricePredictor answers point-prediction queries against a loaded artifact.
type PricePredictor interface {
	Predict(features model.FeatureVector) (model.PredictionResult, error)
}
