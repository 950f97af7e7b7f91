package ml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// boosterNode is a node of an XGBoost tree in dump_model JSON form.
type boosterNode struct {
	NodeID         int            `json:"nodeid"`
	Split          string         `json:"split,omitempty"`
	SplitCondition float64        `json:"split_condition,omitempty"`
	Yes            int            `json:"yes,omitempty"`
	No             int            `json:"no,omitempty"`
	Missing        int            `json:"missing,omitempty"`
	Leaf           *float64       `json:"leaf,omitempty"`
	Children       []*boosterNode `json:"children,omitempty"`

	feature int
}

// boosterTree indexes the nodes of one tree by node id.
type boosterTree struct {
	nodes map[int]*boosterNode
}

// Booster evaluates an XGBoost multi:softprob model. Tree i contributes to
// class i % NumClass and the per-class margins are softmaxed.
type Booster struct {
	NumClass     int            `json:"num_class"`
	NFeatures    int            `json:"n_features"`
	BaseScore    float64        `json:"base_score"`
	FeatureNames []string       `json:"feature_names,omitempty"`
	Trees        []*boosterNode `json:"trees"`

	compiled []boosterTree
}

// Name identifies the model in logs, metrics and errors.
func (b *Booster) Name() string { return "xgboost" }

// NumClasses returns the length of every probability vector.
func (b *Booster) NumClasses() int { return b.NumClass }

// NumFeatures returns the expected input width.
func (b *Booster) NumFeatures() int { return b.NFeatures }

// Features returns the training feature names, if exported.
func (b *Booster) Features() []string { return b.FeatureNames }

// compile resolves split feature references and indexes every tree. Splits are
// either "f<index>" or one of the names in featureNames.
func (b *Booster) compile(featureNames []string) error {
	if b.NumClass < 2 {
		return fmt.Errorf("num_class must be at least 2, got %d", b.NumClass)
	}
	if len(b.Trees) == 0 {
		return fmt.Errorf("booster has no trees")
	}
	if len(b.Trees)%b.NumClass != 0 {
		return fmt.Errorf("%d trees is not a multiple of num_class %d", len(b.Trees), b.NumClass)
	}

	names := b.FeatureNames
	if len(names) == 0 {
		names = featureNames
	}
	index := make(map[string]int, len(names))
	for i, name := range names {
		index[name] = i
	}

	b.compiled = make([]boosterTree, len(b.Trees))
	for i, root := range b.Trees {
		if root == nil {
			return fmt.Errorf("tree %d is empty", i)
		}
		tree := boosterTree{nodes: make(map[int]*boosterNode)}
		var walk func(n *boosterNode) error
		walk = func(n *boosterNode) error {
			if _, dup := tree.nodes[n.NodeID]; dup {
				return fmt.Errorf("tree %d: duplicate node id %d", i, n.NodeID)
			}
			tree.nodes[n.NodeID] = n
			if n.Leaf != nil {
				return nil
			}
			feature, err := resolveSplit(n.Split, index)
			if err != nil {
				return fmt.Errorf("tree %d node %d: %w", i, n.NodeID, err)
			}
			if feature >= b.NFeatures {
				return fmt.Errorf("tree %d node %d: feature %d out of range", i, n.NodeID, feature)
			}
			n.feature = feature
			for _, child := range n.Children {
				if child == nil {
					return fmt.Errorf("tree %d node %d: nil child", i, n.NodeID)
				}
				if err := walk(child); err != nil {
					return err
				}
			}
			return nil
		}
		if err := walk(root); err != nil {
			return err
		}
		// Branches may only point at a node's own children, so every walk
		// moves strictly down the nesting and ends at a leaf.
		for id, n := range tree.nodes {
			if n.Leaf != nil {
				continue
			}
			children := make(map[int]bool, len(n.Children))
			for _, child := range n.Children {
				children[child.NodeID] = true
			}
			for _, next := range []int{n.Yes, n.No, n.Missing} {
				if !children[next] {
					return fmt.Errorf("tree %d node %d: branch %d is not a child", i, id, next)
				}
			}
		}
		if _, ok := tree.nodes[root.NodeID]; !ok {
			return fmt.Errorf("tree %d: missing root", i)
		}
		b.compiled[i] = tree
	}
	return nil
}

func resolveSplit(split string, index map[string]int) (int, error) {
	if i, ok := index[split]; ok {
		return i, nil
	}
	if strings.HasPrefix(split, "f") {
		if i, err := strconv.Atoi(split[1:]); err == nil && i >= 0 {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown split feature %q", split)
}

// PredictProba returns softmax(base_score + sum of leaves) per class.
func (b *Booster) PredictProba(x []float64) ([]float64, error) {
	if b.compiled == nil {
		return nil, fmt.Errorf("booster not compiled")
	}
	if len(x) != b.NFeatures {
		return nil, fmt.Errorf("expected %d features, got %d", b.NFeatures, len(x))
	}

	margins := make([]float64, b.NumClass)
	for c := range margins {
		margins[c] = b.BaseScore
	}

	for i, tree := range b.compiled {
		n := b.Trees[i]
		for n.Leaf == nil {
			v := x[n.feature]
			var next int
			switch {
			case math.IsNaN(v):
				next = n.Missing
			case v < n.SplitCondition:
				next = n.Yes
			default:
				next = n.No
			}
			n = tree.nodes[next]
		}
		margins[i%b.NumClass] += *n.Leaf
	}

	return softmax(margins), nil
}

func softmax(margins []float64) []float64 {
	maxMargin := math.Inf(-1)
	for _, m := range margins {
		if m > maxMargin {
			maxMargin = m
		}
	}

	out := make([]float64, len(margins))
	var sum float64
	for i, m := range margins {
		out[i] = math.Exp(m - maxMargin)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
