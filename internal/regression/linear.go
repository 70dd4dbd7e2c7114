package regression

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/fareflow/fareflow/internal/common"
)

// rcond is the cutoff below which singular values are treated as zero when
// estimating the rank of the design matrix.
const rcond = 1e-12

// LinearModel is an ordinary-least-squares linear regressor. Fit solves the
// minimum-norm least-squares problem via SVD, so rank-deficient design
// matrices (routine with one-hot encoded features) still fit.
type LinearModel struct {
	Coefficients []float64
	Intercept    float64
}

// Fit estimates coefficients and intercept from the design matrix X and
// labels y. X rows must all have the same width and be index-aligned with y.
func (m *LinearModel) Fit(x [][]float64, y []float64) error {
	if len(x) == 0 || len(x) != len(y) {
		return fmt.Errorf("%w: %d feature rows, %d labels", common.ErrTrainingData, len(x), len(y))
	}

	cols := len(x[0])
	// Design matrix with a leading column of ones for the intercept.
	a := mat.NewDense(len(x), cols+1, nil)
	for i, row := range x {
		if len(row) != cols {
			return fmt.Errorf("%w: ragged feature row at index %d", common.ErrTrainingData, i)
		}
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	b := mat.NewVecDense(len(y), y)

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return fmt.Errorf("%w: svd factorization failed", common.ErrTrainingData)
	}

	rank := svd.Rank(rcond)
	if rank == 0 {
		return fmt.Errorf("%w: design matrix has rank zero", common.ErrTrainingData)
	}

	var beta mat.VecDense
	svd.SolveVecTo(&beta, b, rank)

	m.Intercept = beta.AtVec(0)
	m.Coefficients = make([]float64, cols)
	for j := 0; j < cols; j++ {
		m.Coefficients[j] = beta.AtVec(j + 1)
	}

	return nil
}

// Predict returns the model's point estimate for one encoded feature vector.
func (m *LinearModel) Predict(x []float64) (float64, error) {
	if m.Coefficients == nil {
		return 0, fmt.Errorf("%w: model has not been fitted", common.ErrEstimatorNotLoaded)
	}
	if len(x) != len(m.Coefficients) {
		return 0, fmt.Errorf("%w: got %d features, want %d", common.ErrInvalidInput, len(x), len(m.Coefficients))
	}

	sum := m.Intercept
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("%w: feature %d is not finite", common.ErrInvalidInput, i)
		}
		sum += m.Coefficients[i] * v
	}
	return sum, nil
}
