package models

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"winescore/internal/data"
)

const ArtifactFormat = 1

const (
	KindDecisionTree = "dt"
	KindRandomForest = "drf"
	KindBagging      = "bagging"
	KindGBM          = "gbm"
	KindLightGBM     = "lightgbm"
)

var ErrUnsupportedKind = errors.New("unsupported model kind")

// Artifact is the on-disk envelope for a trained model. Exactly one payload
// field is set, selected by Kind.
type Artifact struct {
	Format    int
	Kind      string
	Name      string
	Task      string
	Features  []string
	Threshold float64

	Tree   *DecisionTree
	Forest *RandomForest
	Boost  *GradientBoosting
}

// Model returns the payload selected by Kind.
func (a *Artifact) Model() (Model, error) {
	switch a.Kind {
	case KindDecisionTree:
		if a.Tree == nil || a.Tree.Root == nil {
			return nil, fmt.Errorf("%s artifact has no tree", a.Kind)
		}
		return a.Tree, nil
	case KindRandomForest, KindBagging:
		if a.Forest == nil || len(a.Forest.Trees) == 0 {
			return nil, fmt.Errorf("%s artifact has no trees", a.Kind)
		}
		return a.Forest, nil
	case KindGBM:
		if a.Boost == nil {
			return nil, fmt.Errorf("%s artifact has no ensemble", a.Kind)
		}
		return a.Boost, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, a.Kind)
	}
}

func (a *Artifact) validate() error {
	if a.Format != ArtifactFormat {
		return fmt.Errorf("artifact format %d, want %d", a.Format, ArtifactFormat)
	}
	switch a.Task {
	case data.TaskRegression, data.TaskBinomial:
	default:
		return fmt.Errorf("unknown task %q", a.Task)
	}
	if a.Task == data.TaskBinomial && (a.Threshold < 0 || a.Threshold > 1) {
		return fmt.Errorf("threshold %v outside [0,1]", a.Threshold)
	}
	_, err := a.Model()
	return err
}

func Encode(w io.Writer, a *Artifact) error {
	if a.Format == 0 {
		a.Format = ArtifactFormat
	}
	if err := a.validate(); err != nil {
		return err
	}
	return gob.NewEncoder(w).Encode(a)
}

func Decode(r io.Reader) (*Artifact, error) {
	var a Artifact
	if err := gob.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return &a, nil
}

func Save(path string, a *Artifact) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, a); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Open reads an artifact from disk. A .txt path is taken to be a LightGBM
// text model; its feature names are unknown and it is scored as regression.
func Open(path string) (*Artifact, Model, error) {
	if strings.EqualFold(filepath.Ext(path), ".txt") {
		if _, err := os.Stat(path); err != nil {
			return nil, nil, err
		}
		a := &Artifact{
			Format: ArtifactFormat,
			Kind:   KindLightGBM,
			Name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
			Task:   data.TaskRegression,
		}
		return a, NewLightGBMCLI(path), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	a, err := Decode(f)
	if err != nil {
		return nil, nil, err
	}
	m, err := a.Model()
	if err != nil {
		return nil, nil, err
	}
	if a.Name == "" {
		a.Name = m.Name()
	}
	return a, m, nil
}
