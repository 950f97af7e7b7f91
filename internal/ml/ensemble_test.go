package ml

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/athlete-guard/internal/features"
)

type stubClassifier struct {
	name  string
	probs []float64
	err   error
}

func (s *stubClassifier) Name() string    { return s.name }
func (s *stubClassifier) NumClasses() int { return len(s.probs) }
func (s *stubClassifier) PredictProba(x []float64) ([]float64, error) {
	return s.probs, s.err
}

var testEncoder = &LabelEncoder{Classes: []string{"High", "Low", "Medium"}}

func softmax3(a, b, c float64) []float64 {
	ea, eb, ec := math.Exp(a), math.Exp(b), math.Exp(c)
	sum := ea + eb + ec
	return []float64{ea / sum, eb / sum, ec / sum}
}

func fixtureVector(fatigue, intensityRatio float64) features.Vector {
	var v features.Vector
	v[features.FatigueLevel] = fatigue
	v[features.IntensityRatio] = intensityRatio
	return v
}

func TestEnsembleAveragesStubs(t *testing.T) {
	e := NewEnsemble(
		&stubClassifier{name: "rf", probs: []float64{0.2, 0.5, 0.3}},
		&stubClassifier{name: "xgb", probs: []float64{0.4, 0.1, 0.5}},
		testEncoder,
	)

	res, err := e.Predict(features.Vector{})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{0.3, 0.3, 0.4}, res.Probabilities, 1e-12)
	assert.Equal(t, 2, res.Index)
	assert.Equal(t, "Medium", res.Label)
	assert.InDelta(t, 0.4, res.Confidence, 1e-12)
}

func TestEnsembleTieGoesToLowestIndex(t *testing.T) {
	e := NewEnsemble(
		&stubClassifier{name: "rf", probs: []float64{0.4, 0.4, 0.2}},
		&stubClassifier{name: "xgb", probs: []float64{0.4, 0.4, 0.2}},
		testEncoder,
	)

	res, err := e.Predict(features.Vector{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Index)
	assert.Equal(t, "High", res.Label)
}

func TestEnsembleClassifierFailure(t *testing.T) {
	tests := []struct {
		name string
		rf   Classifier
		xgb  Classifier
		want string
	}{
		{
			name: "rf error",
			rf:   &stubClassifier{name: "rf", err: errors.New("boom")},
			xgb:  &stubClassifier{name: "xgb", probs: []float64{0.3, 0.3, 0.4}},
			want: "rf",
		},
		{
			name: "xgb wrong length",
			rf:   &stubClassifier{name: "rf", probs: []float64{0.3, 0.3, 0.4}},
			xgb:  &stubClassifier{name: "xgb", probs: []float64{0.5, 0.5}},
			want: "xgb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEnsemble(tt.rf, tt.xgb, testEncoder).Predict(features.Vector{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInference))

			var inferenceErr *InferenceError
			require.True(t, errors.As(err, &inferenceErr))
			assert.Equal(t, tt.want, inferenceErr.Model)
		})
	}
}

func TestEnsembleFixtureModels(t *testing.T) {
	a, err := LoadArtifacts(fixtureDir)
	require.NoError(t, err)
	e := NewEnsembleFromArtifacts(a)

	tests := []struct {
		name   string
		vector  features.Vector
		rf      []float64
		xgb     []float64
		label   string
	}{
		{
			name:   "low fatigue low intensity",
			vector: fixtureVector(4, 0.4),
			rf:     []float64{0.05, 0.75, 0.2},
			xgb:    softmax3(0, 1.1, 0.5),
			label:  "Low",
		},
		{
			name:   "high fatigue high intensity",
			vector: fixtureVector(9, 0.8),
			rf:     []float64{0.55, 0.15, 0.3},
			xgb:    softmax3(1.3, 0.1, 0.5),
			label:  "High",
		},
		{
			name:   "split boundary goes left in forest and no in booster",
			vector: fixtureVector(6.5, 0.5),
			rf:     []float64{0.05, 0.75, 0.2},
			xgb:    softmax3(1.3, 0.1, 0.5),
			label:  "Low",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := e.Predict(tt.vector)
			require.NoError(t, err)

			assert.InDeltaSlice(t, tt.rf, res.RFProbabilities, 1e-9)
			assert.InDeltaSlice(t, tt.xgb, res.XGBProbabilities, 1e-9)

			var sum float64
			for i, p := range res.Probabilities {
				assert.InDelta(t, (tt.rf[i]+tt.xgb[i])/2, p, 1e-9)
				sum += p
			}
			assert.InDelta(t, 1.0, sum, 1e-6)
			assert.Equal(t, tt.label, res.Label)
		})
	}
}

func TestBoosterMissingValue(t *testing.T) {
	a, err := LoadArtifacts(fixtureDir)
	require.NoError(t, err)

	x := make([]float64, features.Count)
	x[features.FatigueLevel] = math.NaN()

	probs, err := a.XGBoost.PredictProba(x)
	require.NoError(t, err)
	assert.InDeltaSlice(t, softmax3(0, 1.1, 0.5), probs, 1e-9)
}

func TestForestRejectsWrongWidth(t *testing.T) {
	a, err := LoadArtifacts(fixtureDir)
	require.NoError(t, err)

	_, err = a.RandomForest.PredictProba([]float64{1, 2, 3})
	assert.Error(t, err)
}
