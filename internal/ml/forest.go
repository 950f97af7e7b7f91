package ml

import (
	"fmt"
)

// leafNode marks a leaf in the sklearn children arrays.
const leafNode = -1

// forestTree is one sklearn decision tree exported as parallel node arrays.
type forestTree struct {
	ChildrenLeft  []int       `json:"children_left"`
	ChildrenRight []int       `json:"children_right"`
	Feature       []int       `json:"feature"`
	Threshold     []float64   `json:"threshold"`
	Value         [][]float64 `json:"value"`
}

// RandomForest evaluates an exported sklearn RandomForestClassifier.
type RandomForest struct {
	NClasses     int          `json:"n_classes"`
	NFeatures    int          `json:"n_features"`
	FeatureNames []string     `json:"feature_names,omitempty"`
	Trees        []forestTree `json:"trees"`
}

// Name identifies the model in logs, metrics and errors.
func (f *RandomForest) Name() string { return "random_forest" }

// NumClasses returns the length of every probability vector.
func (f *RandomForest) NumClasses() int { return f.NClasses }

// NumFeatures returns the expected input width.
func (f *RandomForest) NumFeatures() int { return f.NFeatures }

// Features returns the training feature names, if exported.
func (f *RandomForest) Features() []string { return f.FeatureNames }

func (f *RandomForest) validate() error {
	if f.NClasses < 2 {
		return fmt.Errorf("n_classes must be at least 2, got %d", f.NClasses)
	}
	if len(f.Trees) == 0 {
		return fmt.Errorf("forest has no trees")
	}
	for i, t := range f.Trees {
		n := len(t.ChildrenLeft)
		if n == 0 || len(t.ChildrenRight) != n || len(t.Feature) != n || len(t.Threshold) != n || len(t.Value) != n {
			return fmt.Errorf("tree %d: node arrays have inconsistent lengths", i)
		}
		for node := 0; node < n; node++ {
			left, right := t.ChildrenLeft[node], t.ChildrenRight[node]
			if left == leafNode {
				if len(t.Value[node]) != f.NClasses {
					return fmt.Errorf("tree %d node %d: expected %d class values, got %d", i, node, f.NClasses, len(t.Value[node]))
				}
				continue
			}
			if left <= node || left >= n || right <= node || right >= n {
				return fmt.Errorf("tree %d node %d: child index out of range", i, node)
			}
			if t.Feature[node] < 0 || t.Feature[node] >= f.NFeatures {
				return fmt.Errorf("tree %d node %d: feature %d out of range", i, node, t.Feature[node])
			}
		}
	}
	return nil
}

// PredictProba averages the normalized leaf class distributions of all trees.
func (f *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != f.NFeatures {
		return nil, fmt.Errorf("expected %d features, got %d", f.NFeatures, len(x))
	}

	probs := make([]float64, f.NClasses)
	for i := range f.Trees {
		t := &f.Trees[i]
		node := 0
		for t.ChildrenLeft[node] != leafNode {
			if x[t.Feature[node]] <= t.Threshold[node] {
				node = t.ChildrenLeft[node]
			} else {
				node = t.ChildrenRight[node]
			}
		}

		leaf := t.Value[node]
		var total float64
		for _, v := range leaf {
			total += v
		}
		if total <= 0 {
			return nil, fmt.Errorf("tree %d: empty leaf %d", i, node)
		}
		for c, v := range leaf {
			probs[c] += v / total
		}
	}

	n := float64(len(f.Trees))
	for c := range probs {
		probs[c] /= n
	}
	return probs, nil
}
