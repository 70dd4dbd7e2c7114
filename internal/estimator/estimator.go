// Package estimator serves point price estimates from a loaded model artifact.
package estimator

import (
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"github.com/fareflow/fareflow/internal/common"
	"github.com/fareflow/fareflow/internal/model"
	"github.com/fareflow/fareflow/internal/pipeline"
)

// Estimator owns the single swappable reference to the fitted pipeline.
// Predict is lock-free: callers read whatever artifact the pointer holds,
// and a retrain swaps the pointer atomically, so an in-flight prediction
// always sees one consistent encoder/regressor pair.
type Estimator struct {
	pipeline atomic.Pointer[pipeline.PricingPipeline]
}

// New returns an estimator with no artifact loaded. Predict fails until
// LoadArtifact succeeds.
func New() *Estimator {
	return &Estimator{}
}

// NewFromArtifact returns an estimator serving the given artifact.
func NewFromArtifact(artifact *model.ModelArtifact) (*Estimator, error) {
	e := New()
	if err := e.LoadArtifact(artifact); err != nil {
		return nil, err
	}
	return e, nil
}

// LoadArtifact validates the artifact and swaps it in. Safe to call while
// concurrent Predict calls are in flight.
func (e *Estimator) LoadArtifact(artifact *model.ModelArtifact) error {
	pl, err := pipeline.FromArtifact(artifact)
	if err != nil {
		return err
	}
	e.pipeline.Store(pl)
	return nil
}

// Loaded reports whether an artifact is currently being served.
func (e *Estimator) Loaded() bool {
	return e.pipeline.Load() != nil
}

// SchemaVersion returns the loaded artifact's schema version, or zero when
// nothing is loaded.
func (e *Estimator) SchemaVersion() int {
	pl := e.pipeline.Load()
	if pl == nil {
		return 0
	}
	return pl.Schema.Version
}

// Predict estimates the rental price for one feature vector, rounded to two
// decimal places. It is a pure function of the loaded artifact and the
// input: no side effects, safe for arbitrarily many concurrent callers.
//
// Out-of-range numeric inputs are extrapolated silently, consistent with a
// linear model. Categorical values not seen during training fail with an
// unknown-category error rather than being coerced to a zero encoding.
func (e *Estimator) Predict(features model.FeatureVector) (model.PredictionResult, error) {
	pl := e.pipeline.Load()
	if pl == nil {
		return model.PredictionResult{}, fmt.Errorf("%w: no artifact loaded", common.ErrEstimatorNotLoaded)
	}

	if err := validateFeatures(&features); err != nil {
		return model.PredictionResult{}, err
	}

	price, err := pl.Predict(features)
	if err != nil {
		return model.PredictionResult{}, err
	}

	return model.PredictionResult{
		EstimatedPrice: math.Round(price*100) / 100,
		SchemaVersion:  pl.Schema.Version,
	}, nil
}

func validateFeatures(fv *model.FeatureVector) error {
	if strings.TrimSpace(fv.Brand) == "" {
		return fmt.Errorf("%w: brand is required", common.ErrInvalidInput)
	}
	if strings.TrimSpace(fv.Model) == "" {
		return fmt.Errorf("%w: model is required", common.ErrInvalidInput)
	}
	if strings.TrimSpace(fv.PickupCity) == "" {
		return fmt.Errorf("%w: pickup city is required", common.ErrInvalidInput)
	}
	return nil
}
