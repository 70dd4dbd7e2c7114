// Package regression implements the preprocessing and model primitives for
// the pricing pipeline: one-hot categorical encoding and a least-squares
// linear regressor.
package regression

import (
	"fmt"
	"sort"

	"github.com/fareflow/fareflow/internal/common"
)

// OneHotEncoder maps categorical string columns onto indicator columns.
// Levels are learned from training data; encoding an unseen level is an
// error, never a silent zero vector.
type OneHotEncoder struct {
	index   map[string]map[string]int
	Levels  map[string][]string
	Columns []string
}

// NewOneHotEncoder creates an unfitted encoder over the given columns.
func NewOneHotEncoder(columns []string) *OneHotEncoder {
	return &OneHotEncoder{Columns: columns}
}

// NewOneHotEncoderFromLevels reconstructs a fitted encoder from persisted
// levels, e.g. when loading a model artifact.
func NewOneHotEncoderFromLevels(columns []string, levels map[string][]string) (*OneHotEncoder, error) {
	enc := &OneHotEncoder{Columns: columns, Levels: levels}
	for _, col := range columns {
		if len(levels[col]) == 0 {
			return nil, fmt.Errorf("%w: column %q has no levels", common.ErrSchemaMismatch, col)
		}
	}
	enc.buildIndex()
	return enc, nil
}

// Fit learns the level set of each column from the training rows. Each row
// must be aligned with the encoder's column order.
func (e *OneHotEncoder) Fit(rows [][]string) error {
	seen := make(map[string]map[string]struct{}, len(e.Columns))
	for _, col := range e.Columns {
		seen[col] = make(map[string]struct{})
	}

	for _, row := range rows {
		if len(row) != len(e.Columns) {
			return fmt.Errorf("%w: row has %d values, want %d", common.ErrInvalidInput, len(row), len(e.Columns))
		}
		for i, col := range e.Columns {
			seen[col][row[i]] = struct{}{}
		}
	}

	e.Levels = make(map[string][]string, len(e.Columns))
	for _, col := range e.Columns {
		if len(seen[col]) == 0 {
			return fmt.Errorf("%w: categorical column %q has no observed levels", common.ErrTrainingData, col)
		}
		levels := make([]string, 0, len(seen[col]))
		for level := range seen[col] {
			levels = append(levels, level)
		}
		sort.Strings(levels)
		e.Levels[col] = levels
	}

	e.buildIndex()
	return nil
}

func (e *OneHotEncoder) buildIndex() {
	e.index = make(map[string]map[string]int, len(e.Columns))
	for _, col := range e.Columns {
		byLevel := make(map[string]int, len(e.Levels[col]))
		for i, level := range e.Levels[col] {
			byLevel[level] = i
		}
		e.index[col] = byLevel
	}
}

// Width returns the total number of indicator columns the encoder emits.
func (e *OneHotEncoder) Width() int {
	width := 0
	for _, col := range e.Columns {
		width += len(e.Levels[col])
	}
	return width
}

// Transform encodes one row of categorical values into indicator columns,
// in column order. Values not seen during Fit fail with an unknown-category
// error identifying the offending column and value.
func (e *OneHotEncoder) Transform(values []string) ([]float64, error) {
	if e.index == nil {
		return nil, fmt.Errorf("%w: encoder has not been fitted", common.ErrEstimatorNotLoaded)
	}
	if len(values) != len(e.Columns) {
		return nil, fmt.Errorf("%w: got %d values, want %d", common.ErrInvalidInput, len(values), len(e.Columns))
	}

	encoded := make([]float64, e.Width())
	offset := 0
	for i, col := range e.Columns {
		pos, ok := e.index[col][values[i]]
		if !ok {
			return nil, fmt.Errorf("%w: %s=%q", common.ErrUnknownCategory, col, values[i])
		}
		encoded[offset+pos] = 1
		offset += len(e.Levels[col])
	}

	return encoded, nil
}
