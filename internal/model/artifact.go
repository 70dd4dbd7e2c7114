package model

import (
	"slices"
	"time"
)

// SchemaVersion is the current feature schema version. Bump it whenever the
// feature set below changes; artifacts written under a different version are
// rejected on load.
const SchemaVersion = 1

// Feature column names, in the order the encoder emits them.
var (
	CategoricalFeatures = []string{"brand", "model", "pickup_city"}
	NumericFeatures     = []string{"seats", "pickup_dow", "pickup_month", "dropoff_dow", "dropoff_month", "credit_score"}
)

// FeatureSchema is the fixed, ordered feature contract an artifact was
// trained under.
type FeatureSchema struct {
	Categorical []string `json:"categorical"`
	Numeric     []string `json:"numeric"`
	Version     int      `json:"version"`
}

// CurrentSchema returns the schema this build of the pipeline produces.
func CurrentSchema() FeatureSchema {
	return FeatureSchema{
		Version:     SchemaVersion,
		Categorical: slices.Clone(CategoricalFeatures),
		Numeric:     slices.Clone(NumericFeatures),
	}
}

// Equal reports whether two schemas describe the same feature contract.
func (s FeatureSchema) Equal(other FeatureSchema) bool {
	return s.Version == other.Version &&
		slices.Equal(s.Categorical, other.Categorical) &&
		slices.Equal(s.Numeric, other.Numeric)
}

// ModelArtifact is the immutable serialized form of a fitted pipeline:
// the schema it was trained under, the categorical levels the encoder
// learned, and the regressor weights. Replaced wholesale on retraining,
// never mutated.
type ModelArtifact struct {
	TrainedAt         time.Time           `json:"trained_at"`
	ID                string              `json:"id"`
	CategoricalLevels map[string][]string `json:"categorical_levels"`
	Coefficients      []float64           `json:"coefficients"`
	Schema            FeatureSchema       `json:"schema"`
	Intercept         float64             `json:"intercept"`
	TrainingRows      int                 `json:"training_rows"`
}

// PredictionResult is the outcome of a single estimation query.
type PredictionResult struct {
	EstimatedPrice float64 `json:"estimated_price"`
	SchemaVersion  int     `json:"schema_version"`
}
