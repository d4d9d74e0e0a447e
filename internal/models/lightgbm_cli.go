package models

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// LightGBMCLI scores rows with a LightGBM text model by shelling out to the
// lightgbm binary. Scratch files go under WorkDir.
type LightGBMCLI struct {
	ExecPath  string
	ModelPath string
	WorkDir   string
	ctx       context.Context
}

func NewLightGBMCLI(modelPath string) *LightGBMCLI {
	return &LightGBMCLI{
		ExecPath:  "lightgbm",
		ModelPath: modelPath,
		WorkDir:   os.TempDir(),
	}
}

func (l *LightGBMCLI) Name() string { return "LightGBM" }

// WithContext returns a copy whose CLI runs are bound to ctx.
func (l *LightGBMCLI) WithContext(ctx context.Context) *LightGBMCLI {
	c := *l
	c.ctx = ctx
	return &c
}

func (l *LightGBMCLI) Predict(X [][]float64) ([]float64, error) {
	if len(X) == 0 {
		return []float64{}, nil
	}
	dir, err := os.MkdirTemp(l.WorkDir, "lgbm-")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(dir)

	predCSV := filepath.Join(dir, "pred.csv")
	if err := writeCSVLabelFirst(predCSV, X); err != nil {
		return nil, fmt.Errorf("write input: %w", err)
	}

	conf := filepath.Join(dir, "predict.conf")
	outPath := filepath.Join(dir, "preds.txt")
	cfg := fmt.Sprintf("task=predict\ninput_model=%s\ndata=%s\nheader=false\nlabel_column=0\noutput_result=%s\n",
		l.ModelPath, predCSV, outPath,
	)
	if err := os.WriteFile(conf, []byte(cfg), 0o644); err != nil {
		return nil, fmt.Errorf("write config: %w", err)
	}

	ctx := l.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	cmd := exec.CommandContext(ctx, l.ExecPath, fmt.Sprintf("config=%s", conf))
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("run %s: %w: %s", l.ExecPath, err, out)
	}

	f, err := os.Open(outPath)
	if err != nil {
		return nil, fmt.Errorf("read predictions: %w", err)
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	ps := make([]float64, 0, len(X))
	for sc.Scan() {
		var v float64
		if _, err := fmt.Sscan(sc.Text(), &v); err == nil {
			ps = append(ps, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read predictions: %w", err)
	}
	if len(ps) != len(X) {
		return nil, fmt.Errorf("lightgbm returned %d predictions for %d rows", len(ps), len(X))
	}
	return ps, nil
}

// The label column is required by the CLI even for prediction; it is zeroed.
func writeCSVLabelFirst(path string, X [][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for i := range X {
		fmt.Fprint(w, "0")
		for j := range X[i] {
			fmt.Fprintf(w, ",%g", X[i][j])
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}
