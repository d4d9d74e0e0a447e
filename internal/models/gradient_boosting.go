package models

import (
	"fmt"
	"math"
)

type gbTree struct {
	Feature   int
	Threshold float64
	LeftVal   float64
	RightVal  float64
}

// GradientBoosting is an additive ensemble of stumps. Bias is the initial
// score (log-odds for binomial models, mean target for regression).
type GradientBoosting struct {
	LearningRate float64
	Bias         float64
	Binomial     bool
	Trees        []gbTree
}

func (gb *GradientBoosting) Name() string { return "GradientBoosting" }

// AddStump appends a stump that adds LeftVal when x[feature] <= threshold.
func (gb *GradientBoosting) AddStump(feature int, threshold, leftVal, rightVal float64) {
	gb.Trees = append(gb.Trees, gbTree{Feature: feature, Threshold: threshold, LeftVal: leftVal, RightVal: rightVal})
}

func sigmoid(z float64) float64 { return 1.0 / (1.0 + math.Exp(-z)) }

func (gb *GradientBoosting) Predict(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i := range X {
		f := gb.Bias
		for k, t := range gb.Trees {
			if t.Feature < 0 || t.Feature >= len(X[i]) {
				return nil, fmt.Errorf("stump %d splits on feature %d, row has %d", k, t.Feature, len(X[i]))
			}
			inc := t.LeftVal
			if X[i][t.Feature] > t.Threshold {
				inc = t.RightVal
			}
			f += gb.LearningRate * inc
		}
		if gb.Binomial {
			f = sigmoid(f)
		}
		out[i] = f
	}
	return out, nil
}
