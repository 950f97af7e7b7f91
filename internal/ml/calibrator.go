package ml

import (
	"fmt"
	"math"
)

// LogisticCalibrator maps averaged class probabilities to an injury
// likelihood with a binary logistic regression.
type LogisticCalibrator struct {
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

func (c *LogisticCalibrator) validate(numClasses int) error {
	if len(c.Coef) != numClasses {
		return fmt.Errorf("expected %d coefficients, got %d", numClasses, len(c.Coef))
	}
	return nil
}

// Likelihood returns P(positive class) * 100 for the averaged probabilities.
func (c *LogisticCalibrator) Likelihood(avg []float64) (float64, error) {
	if len(avg) != len(c.Coef) {
		return 0, NewInferenceError("calibrator", fmt.Errorf("expected %d probabilities, got %d", len(c.Coef), len(avg)))
	}

	z := c.Intercept
	for i, p := range avg {
		z += c.Coef[i] * p
	}
	return sigmoid(z) * 100, nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}
