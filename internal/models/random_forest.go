package models

import "fmt"

// RandomForest averages the leaf values of its trees. Bagging artifacts decode
// into the same type since inference is identical.
type RandomForest struct {
	Trees []*DecisionTree
}

func (rf *RandomForest) Name() string { return "RandomForest" }

func (rf *RandomForest) Predict(X [][]float64) ([]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, fmt.Errorf("forest has no trees")
	}
	n := len(X)
	out := make([]float64, n)
	for k, dt := range rf.Trees {
		p, err := dt.Predict(X)
		if err != nil {
			return nil, fmt.Errorf("tree %d: %w", k, err)
		}
		for i := 0; i < n; i++ {
			out[i] += p[i]
		}
	}
	m := float64(len(rf.Trees))
	for i := 0; i < n; i++ {
		out[i] /= m
	}
	return out, nil
}
