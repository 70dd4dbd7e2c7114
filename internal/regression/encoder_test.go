package regression

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fareflow/fareflow/internal/common"
)

func TestOneHotEncoder_FitAndTransform(t *testing.T) {
	enc := NewOneHotEncoder([]string{"brand", "city"})

	err := enc.Fit([][]string{
		{"Toyota", "New York"},
		{"Honda", "Los Angeles"},
		{"Toyota", "Los Angeles"},
	})
	require.NoError(t, err)

	// Levels are sorted for deterministic encoding.
	assert.Equal(t, []string{"Honda", "Toyota"}, enc.Levels["brand"])
	assert.Equal(t, []string{"Los Angeles", "New York"}, enc.Levels["city"])
	assert.Equal(t, 4, enc.Width())

	encoded, err := enc.Transform([]string{"Toyota", "New York"})
	require.NoError(t, err)
	assert.Equal(t, []float64{0, 1, 0, 1}, encoded)

	encoded, err = enc.Transform([]string{"Honda", "Los Angeles"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 1, 0}, encoded)
}

func TestOneHotEncoder_UnknownCategory(t *testing.T) {
	enc := NewOneHotEncoder([]string{"brand"})
	require.NoError(t, enc.Fit([][]string{{"Toyota"}, {"Honda"}}))

	_, err := enc.Transform([]string{"BMW"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnknownCategory))
	assert.Contains(t, err.Error(), "BMW")
}

func TestOneHotEncoder_TransformBeforeFit(t *testing.T) {
	enc := NewOneHotEncoder([]string{"brand"})

	_, err := enc.Transform([]string{"Toyota"})
	require.Error(t, err)
}

func TestOneHotEncoder_FitEmptyRows(t *testing.T) {
	enc := NewOneHotEncoder([]string{"brand"})

	err := enc.Fit(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrTrainingData))
}

func TestOneHotEncoder_FromLevels(t *testing.T) {
	levels := map[string][]string{
		"brand": {"Honda", "Toyota"},
		"city":  {"Los Angeles", "New York"},
	}

	enc, err := NewOneHotEncoderFromLevels([]string{"brand", "city"}, levels)
	require.NoError(t, err)

	encoded, err := enc.Transform([]string{"Honda", "New York"})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 0, 0, 1}, encoded)
}

func TestOneHotEncoder_FromLevelsMissingColumn(t *testing.T) {
	_, err := NewOneHotEncoderFromLevels([]string{"brand"}, map[string][]string{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrSchemaMismatch))
}
