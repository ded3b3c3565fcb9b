package conformity

import (
	"math"

	"compliance-service/internal/models"
)

// ConformityThreshold is the minimum probability (percent) for a Conforming
// decision, corresponding to the 95% confidence level of the coverage factor.
const ConformityThreshold = 95.0

// Abramowitz & Stegun 7.1.26 rational approximation coefficients. This exact
// approximation is load-bearing: declarations already stored were computed
// with it, so a higher-precision erf would break numeric parity.
const (
	a1 = 0.254829592
	a2 = -0.284496736
	a3 = 1.421413741
	a4 = -1.453152027
	a5 = 1.061405429
	p  = 0.3275911
)

// Erf approximates the Gauss error function with the A&S 5-term polynomial.
func Erf(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
		x = -x
	}

	t := 1.0 / (1.0 + p*x)
	y := 1.0 - (((((a5*t+a4)*t+a3)*t+a2)*t+a1)*t)*math.Exp(-x*x)

	return sign * y
}

// Result is the statistical verdict for a single sample.
type Result struct {
	MeanConcentration            float64
	ProbabilityOfConformity      float64
	ProbabilityOfFalseAcceptance float64
	Decision                     models.DecisionRule
}

// Evaluate computes the one-sided normal probability that the true
// concentration lies below the regulatory limit.
//
// The z-score multiplies the uncertainty by the coverage factor,
// z = (limit - concentration) / (u * k), matching the formula the stored
// declarations were produced with. With u = 0 the z-score is infinite and the
// probability degenerates to exactly 0 or 100 depending on the sign of
// (limit - concentration); that is accepted, not treated as an error.
func Evaluate(concentration, limitValue, uncertainty, coverageFactor float64) Result {
	z := (limitValue - concentration) / (uncertainty * coverageFactor)
	phi := 0.5 * (1.0 + Erf(z/math.Sqrt2))
	probability := phi * 100.0

	decision := models.DecisionNonConforming
	falseAcceptance := probability
	if probability >= ConformityThreshold {
		decision = models.DecisionConforming
		falseAcceptance = 100.0 - probability
	}

	return Result{
		MeanConcentration:            concentration,
		ProbabilityOfConformity:      probability,
		ProbabilityOfFalseAcceptance: falseAcceptance,
		Decision:                     decision,
	}
}
