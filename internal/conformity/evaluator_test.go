package conformity

import (
	"math"
	"testing"

	"compliance-service/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestErf_KnownValues(t *testing.T) {
	// Abramowitz & Stegun 7.1.26 is accurate to ~1.5e-7
	assert.InDelta(t, 0.0, Erf(0), 1e-8, "erf(0) should be 0")
	assert.InDelta(t, 0.8427007929, Erf(1), 1e-6, "erf(1)")
	assert.InDelta(t, 0.9953222650, Erf(2), 1e-6, "erf(2)")
	assert.InDelta(t, 0.5204998778, Erf(0.5), 1e-6, "erf(0.5)")
}

func TestErf_OddSymmetry(t *testing.T) {
	for _, x := range []float64{0.1, 0.5, 1, 2, 3.7} {
		assert.InDelta(t, -Erf(x), Erf(-x), 1e-12, "erf must be odd")
	}
}

func TestErf_Saturation(t *testing.T) {
	assert.InDelta(t, 1.0, Erf(10), 1e-9)
	assert.InDelta(t, -1.0, Erf(-10), 1e-9)
	assert.Equal(t, 1.0, Erf(math.Inf(1)))
	assert.Equal(t, -1.0, Erf(math.Inf(-1)))
}

func TestEvaluate_ConcentrationHalfOfLimit(t *testing.T) {
	// 18-sample scenario: concentration at half the limit with u=1, k=2
	// must be clearly conforming.
	result := Evaluate(37.5, 75, 1, 2)

	assert.Equal(t, models.DecisionConforming, result.Decision)
	assert.Greater(t, result.ProbabilityOfConformity, 95.0)
	assert.InDelta(t, 100-result.ProbabilityOfConformity, result.ProbabilityOfFalseAcceptance, 1e-12)
	assert.Equal(t, 37.5, result.MeanConcentration)
}

func TestEvaluate_ConcentrationAtLimit(t *testing.T) {
	// z ~ 0 puts the probability at ~50%, well below the 95% threshold.
	result := Evaluate(75, 75, 0.001, 2)

	assert.InDelta(t, 50.0, result.ProbabilityOfConformity, 0.001)
	assert.Equal(t, models.DecisionNonConforming, result.Decision)
	assert.Equal(t, result.ProbabilityOfConformity, result.ProbabilityOfFalseAcceptance)
}

func TestEvaluate_ZeroUncertainty(t *testing.T) {
	// u = 0 drives the z-score to +/-Inf; the probability degenerates to
	// exactly 100 or 0 depending on which side of the limit we are on.
	below := Evaluate(50, 75, 0, 2)
	assert.Equal(t, 100.0, below.ProbabilityOfConformity)
	assert.Equal(t, models.DecisionConforming, below.Decision)
	assert.Equal(t, 0.0, below.ProbabilityOfFalseAcceptance)

	above := Evaluate(100, 75, 0, 2)
	assert.Equal(t, 0.0, above.ProbabilityOfConformity)
	assert.Equal(t, models.DecisionNonConforming, above.Decision)
	assert.Equal(t, 0.0, above.ProbabilityOfFalseAcceptance)
}

func TestEvaluate_DecisionThresholdInvariant(t *testing.T) {
	concentrations := []float64{0, 10, 40, 60, 70, 72, 74, 75, 76, 80, 120}
	for _, concentration := range concentrations {
		result := Evaluate(concentration, 75, 1.5, 2)

		if result.ProbabilityOfConformity >= ConformityThreshold {
			assert.Equal(t, models.DecisionConforming, result.Decision,
				"concentration %f", concentration)
			assert.InDelta(t, 100-result.ProbabilityOfConformity,
				result.ProbabilityOfFalseAcceptance, 1e-12)
		} else {
			assert.Equal(t, models.DecisionNonConforming, result.Decision,
				"concentration %f", concentration)
			assert.Equal(t, result.ProbabilityOfConformity, result.ProbabilityOfFalseAcceptance)
		}

		assert.GreaterOrEqual(t, result.ProbabilityOfConformity, 0.0)
		assert.LessOrEqual(t, result.ProbabilityOfConformity, 100.0)
	}
}
