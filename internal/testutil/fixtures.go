package testutil

import (
	"path/filepath"
	"testing"

	"winescore/internal/data"
	"winescore/internal/features"
	"winescore/internal/models"
)

// WineSample is the reference row; WineForest scores it as exactly WineExpected.
var WineSample = []float64{7, 0.27, 0.36, 20.7, 0.045, 45, 170, 1.001, 3, 0.45, 8.8}

const WineExpected = 5.75

const (
	fixedAcidity = iota
	volatileAcidity
	citricAcid
	residualSugar
	chlorides
	freeSulfurDioxide
	totalSulfurDioxide
	density
	pH
	sulphates
	alcohol
)

// WineForest is a three-tree regression forest over features.WineColumns.
// For WineSample the trees yield 6.0, 5.5 and 5.75.
func WineForest() *models.RandomForest {
	return &models.RandomForest{
		Trees: []*models.DecisionTree{
			{Root: models.Split(alcohol, 10.5,
				models.Split(volatileAcidity, 0.3, models.Leaf(6.0), models.Leaf(5.2)),
				models.Leaf(6.6),
			)},
			{Root: models.Split(density, 0.995,
				models.Leaf(6.4),
				models.Split(freeSulfurDioxide, 30, models.Leaf(5.0), models.Leaf(5.5)),
			)},
			{Root: models.Split(residualSugar, 10, models.Leaf(6.1), models.Leaf(5.75))},
		},
	}
}

// WriteWineModel saves WineForest as a DRF artifact under t.TempDir().
func WriteWineModel(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "DRF_wine.gob")
	err := models.Save(path, &models.Artifact{
		Kind:     models.KindRandomForest,
		Name:     "DRF_wine",
		Task:     data.TaskRegression,
		Features: append([]string(nil), features.WineColumns...),
		Forest:   WineForest(),
	})
	if err != nil {
		t.Fatalf("save wine model: %v", err)
	}
	return path
}

// WriteWineClassifier saves a binomial GBM ("good wine" when alcohol > 10).
func WriteWineClassifier(t testing.TB) string {
	t.Helper()
	gb := &models.GradientBoosting{LearningRate: 1, Binomial: true}
	gb.AddStump(alcohol, 10, -2, 2)
	path := filepath.Join(t.TempDir(), "GBM_wine.gob")
	err := models.Save(path, &models.Artifact{
		Kind:     models.KindGBM,
		Name:     "GBM_wine",
		Task:     data.TaskBinomial,
		Features: append([]string(nil), features.WineColumns...),
		Boost:    gb,
	})
	if err != nil {
		t.Fatalf("save wine classifier: %v", err)
	}
	return path
}

// WriteUnlabeledTree saves a decision tree that declares no feature names, so
// nothing but the row builder guards the row width.
func WriteUnlabeledTree(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "DT_unlabeled.gob")
	err := models.Save(path, &models.Artifact{
		Kind: models.KindDecisionTree,
		Name: "DT_unlabeled",
		Task: data.TaskRegression,
		Tree: &models.DecisionTree{Root: models.Split(fixedAcidity, 5, models.Leaf(1), models.Leaf(2))},
	})
	if err != nil {
		t.Fatalf("save unlabeled tree: %v", err)
	}
	return path
}
