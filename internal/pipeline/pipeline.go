// Package pipeline composes the preprocessing and regression stages into a
// single fit/predict unit with a fixed feature schema.
package pipeline

import (
	"fmt"
	"math"
	"time"

	"github.com/fareflow/fareflow/internal/common"
	"github.com/fareflow/fareflow/internal/model"
	"github.com/fareflow/fareflow/internal/regression"
)

// PricingPipeline is the trained mapping from feature vector to price:
// a one-hot encoder for the categorical columns, pass-through numerics, and
// a linear regressor over the concatenated vector. Once fitted it is
// immutable and safe for concurrent Predict calls.
type PricingPipeline struct {
	Encoder   *regression.OneHotEncoder
	Regressor *regression.LinearModel
	Schema    model.FeatureSchema
}

// New returns an unfitted pipeline over the current feature schema.
func New() *PricingPipeline {
	return &PricingPipeline{
		Schema:    model.CurrentSchema(),
		Encoder:   regression.NewOneHotEncoder(model.CategoricalFeatures),
		Regressor: &regression.LinearModel{},
	}
}

// Fit learns categorical levels and regression weights from the training
// frame. An empty frame, or one whose numeric columns contain non-finite
// values after imputation, is a training-data error.
func (p *PricingPipeline) Fit(rows []model.TrainingRow) error {
	if len(rows) == 0 {
		return fmt.Errorf("%w: training frame is empty", common.ErrTrainingData)
	}

	catRows := make([][]string, len(rows))
	for i := range rows {
		catRows[i] = categoricalValues(&rows[i].FeatureVector)
	}
	if err := p.Encoder.Fit(catRows); err != nil {
		return err
	}

	x := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i := range rows {
		encoded, err := p.Encoder.Transform(catRows[i])
		if err != nil {
			return err
		}
		numeric := numericValues(&rows[i].FeatureVector)
		for j, v := range numeric {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: non-finite value in numeric column %q", common.ErrTrainingData, p.Schema.Numeric[j])
			}
		}
		if math.IsNaN(rows[i].Price) || math.IsInf(rows[i].Price, 0) {
			return fmt.Errorf("%w: non-finite price label at row %d", common.ErrTrainingData, i)
		}
		x[i] = append(encoded, numeric...)
		y[i] = rows[i].Price
	}

	return p.Regressor.Fit(x, y)
}

// Predict returns the raw (unrounded) price estimate for one feature vector.
func (p *PricingPipeline) Predict(fv model.FeatureVector) (float64, error) {
	for _, v := range numericValues(&fv) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: numeric features must be finite", common.ErrInvalidInput)
		}
	}

	encoded, err := p.Encoder.Transform(categoricalValues(&fv))
	if err != nil {
		return 0, err
	}

	return p.Regressor.Predict(append(encoded, numericValues(&fv)...))
}

// Artifact snapshots the fitted pipeline into its serializable form.
func (p *PricingPipeline) Artifact(id string, trainedAt time.Time, trainingRows int) *model.ModelArtifact {
	return &model.ModelArtifact{
		ID:                id,
		TrainedAt:         trainedAt,
		Schema:            p.Schema,
		CategoricalLevels: p.Encoder.Levels,
		Coefficients:      p.Regressor.Coefficients,
		Intercept:         p.Regressor.Intercept,
		TrainingRows:      trainingRows,
	}
}

// FromArtifact reconstructs a fitted pipeline from its serialized form. The
// artifact's schema must match this build's schema exactly.
func FromArtifact(artifact *model.ModelArtifact) (*PricingPipeline, error) {
	if artifact == nil {
		return nil, fmt.Errorf("%w: artifact is nil", common.ErrSchemaMismatch)
	}
	if !artifact.Schema.Equal(model.CurrentSchema()) {
		return nil, fmt.Errorf("%w: artifact schema version %d, expected %d",
			common.ErrSchemaMismatch, artifact.Schema.Version, model.SchemaVersion)
	}

	encoder, err := regression.NewOneHotEncoderFromLevels(artifact.Schema.Categorical, artifact.CategoricalLevels)
	if err != nil {
		return nil, err
	}
	if len(artifact.Coefficients) != encoder.Width()+len(artifact.Schema.Numeric) {
		return nil, fmt.Errorf("%w: %d coefficients for %d features",
			common.ErrSchemaMismatch, len(artifact.Coefficients), encoder.Width()+len(artifact.Schema.Numeric))
	}

	return &PricingPipeline{
		Schema:  artifact.Schema,
		Encoder: encoder,
		Regressor: &regression.LinearModel{
			Coefficients: artifact.Coefficients,
			Intercept:    artifact.Intercept,
		},
	}, nil
}

func categoricalValues(fv *model.FeatureVector) []string {
	return []string{fv.Brand, fv.Model, fv.PickupCity}
}

func numericValues(fv *model.FeatureVector) []float64 {
	return []float64{fv.Seats, fv.PickupDow, fv.PickupMonth, fv.DropoffDow, fv.DropoffMonth, fv.CreditScore}
}
