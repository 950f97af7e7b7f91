package ml

import "github.com/yourusername/athlete-guard/internal/models"

// OverridePolicy relabels a prediction as Low when the averaged Low
// probability exceeds a tuned threshold, even if Low was not the argmax.
type OverridePolicy struct {
	Threshold float64
	lowIndex  int
}

// NewOverridePolicy creates a policy for the Low class at lowIndex.
func NewOverridePolicy(threshold float64, lowIndex int) *OverridePolicy {
	return &OverridePolicy{Threshold: threshold, lowIndex: lowIndex}
}

// Apply returns the final label and whether the override fired. avg must be
// the uncalibrated averaged probabilities.
func (p *OverridePolicy) Apply(label string, avg []float64) (string, bool) {
	if p.lowIndex < 0 || p.lowIndex >= len(avg) {
		return label, false
	}
	if avg[p.lowIndex] > p.Threshold && label != models.RiskLow {
		return models.RiskLow, true
	}
	return label, false
}

// LowProbability returns the averaged Low probability.
func (p *OverridePolicy) LowProbability(avg []float64) float64 {
	if p.lowIndex < 0 || p.lowIndex >= len(avg) {
		return 0
	}
	return avg[p.lowIndex]
}
