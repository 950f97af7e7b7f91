package ml

import (
	"fmt"

	"github.com/yourusername/athlete-guard/internal/features"
)

// Classifier is a trained multi-class model.
type Classifier interface {
	Name() string
	NumClasses() int
	PredictProba(x []float64) ([]float64, error)
}

// EnsembleResult holds per-model and averaged class probabilities, in
// encoder class order.
type EnsembleResult struct {
	RFProbabilities  []float64
	XGBProbabilities []float64
	Probabilities    []float64
	Index            int
	Label            string
	Confidence       float64
}

// Ensemble averages the probabilities of two classifiers.
type Ensemble struct {
	rf      Classifier
	xgb     Classifier
	encoder *LabelEncoder
}

// NewEnsemble creates an ensemble over rf and xgb.
func NewEnsemble(rf, xgb Classifier, encoder *LabelEncoder) *Ensemble {
	return &Ensemble{rf: rf, xgb: xgb, encoder: encoder}
}

// NewEnsembleFromArtifacts creates the ensemble of the loaded models.
func NewEnsembleFromArtifacts(a *Artifacts) *Ensemble {
	return NewEnsemble(a.RandomForest, a.XGBoost, a.Encoder)
}

// Predict runs both classifiers and picks the most likely class. Ties go to
// the lowest index.
func (e *Ensemble) Predict(v features.Vector) (*EnsembleResult, error) {
	x := v.Slice()
	n := len(e.encoder.Classes)

	rf, err := e.run(e.rf, x, n)
	if err != nil {
		return nil, err
	}
	xgb, err := e.run(e.xgb, x, n)
	if err != nil {
		return nil, err
	}

	avg := make([]float64, n)
	best := 0
	for i := range avg {
		avg[i] = (rf[i] + xgb[i]) / 2
		if avg[i] > avg[best] {
			best = i
		}
	}

	label, err := e.encoder.Label(best)
	if err != nil {
		return nil, NewInferenceError("ensemble", err)
	}

	return &EnsembleResult{
		RFProbabilities:  rf,
		XGBProbabilities: xgb,
		Probabilities:    avg,
		Index:            best,
		Label:            label,
		Confidence:       avg[best],
	}, nil
}

func (e *Ensemble) run(c Classifier, x []float64, n int) ([]float64, error) {
	timer := newInferenceTimer(c.Name())
	defer timer.observe()

	probs, err := c.PredictProba(x)
	if err != nil {
		InferenceErrorsTotal.WithLabelValues(c.Name()).Inc()
		return nil, NewInferenceError(c.Name(), err)
	}
	if len(probs) != n {
		InferenceErrorsTotal.WithLabelValues(c.Name()).Inc()
		return nil, NewInferenceError(c.Name(), fmt.Errorf("expected %d probabilities, got %d", n, len(probs)))
	}
	return probs, nil
}
