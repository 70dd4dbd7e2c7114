package dataset

import (
	"math/rand"

	"github.com/fareflow/fareflow/internal/model"
)

// Credit score bounds used by the synthetic provider.
const (
	MinCreditScore     = 300
	MaxCreditScore     = 850
	DefaultCreditScore = 700
)

// FixedCreditProvider returns the same score for every record. It is the
// default provider: training stays fully reproducible and the feature
// contributes nothing until a real credit source is wired in.
type FixedCreditProvider struct {
	Value float64
}

// NewFixedCreditProvider returns a provider pinned to the given score.
func NewFixedCreditProvider(value float64) *FixedCreditProvider {
	return &FixedCreditProvider{Value: value}
}

// Score implements service.CreditScoreProvider.
func (p *FixedCreditProvider) Score(_ model.JoinedRecord) float64 {
	return p.Value
}

// SeededCreditProvider synthesizes a uniform score in [300, 850] from a
// caller-supplied seed. Unlike ambient randomness, the same seed always
// produces the same training frame.
type SeededCreditProvider struct {
	rng *rand.Rand
}

// NewSeededCreditProvider returns a deterministic synthetic provider.
func NewSeededCreditProvider(seed int64) *SeededCreditProvider {
	return &SeededCreditProvider{rng: rand.New(rand.NewSource(seed))}
}

// Score implements service.CreditScoreProvider.
func (p *SeededCreditProvider) Score(_ model.JoinedRecord) float64 {
	return float64(MinCreditScore + p.rng.Intn(MaxCreditScore-MinCreditScore+1))
}
