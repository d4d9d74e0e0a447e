package models

import "fmt"

type DTNode struct {
	Feature   int
	Threshold float64
	Left      *DTNode
	Right     *DTNode
	IsLeaf    bool
	Value     float64
}

func Leaf(v float64) *DTNode { return &DTNode{IsLeaf: true, Value: v} }

// Split goes left when x[feature] <= threshold.
func Split(feature int, threshold float64, left, right *DTNode) *DTNode {
	return &DTNode{Feature: feature, Threshold: threshold, Left: left, Right: right}
}

type DecisionTree struct {
	Root *DTNode
}

func (dt *DecisionTree) Name() string { return "DecisionTree" }

func (dt *DecisionTree) Predict(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i := range X {
		v, err := dt.predictOne(X[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (dt *DecisionTree) predictOne(x []float64) (float64, error) {
	n := dt.Root
	if n == nil {
		return 0, fmt.Errorf("empty tree")
	}
	for !n.IsLeaf {
		if n.Feature < 0 || n.Feature >= len(x) {
			return 0, fmt.Errorf("split on feature %d, row has %d", n.Feature, len(x))
		}
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
		if n == nil {
			return 0, fmt.Errorf("dangling split")
		}
	}
	return n.Value, nil
}

// Depth is the number of splits on the longest root-to-leaf path.
func (dt *DecisionTree) Depth() int { return depth(dt.Root) }

func depth(n *DTNode) int {
	if n == nil || n.IsLeaf {
		return 0
	}
	return 1 + max(depth(n.Left), depth(n.Right))
}
