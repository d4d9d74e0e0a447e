package data

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
)

const (
	TaskRegression = "regression"
	TaskBinomial   = "binomial"
)

// Row is a single labeled record. Columns and Values pair up positionally.
type Row struct {
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

func (r Row) Get(column string) (float64, bool) {
	for i, c := range r.Columns {
		if c == column && i < len(r.Values) {
			return r.Values[i], true
		}
	}
	return 0, false
}

// Prediction is the frame a predictor returns for one row.
type Prediction struct {
	Model   string    `json:"model"`
	Task    string    `json:"task"`
	Columns []string  `json:"columns"`
	Values  []float64 `json:"values"`
}

// Value returns the "predict" column.
func (p *Prediction) Value() float64 {
	if p == nil || len(p.Values) == 0 {
		return 0
	}
	return p.Values[0]
}

func (p *Prediction) String() string {
	if p == nil {
		return "<nil>"
	}
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, strings.Join(p.Columns, "\t")+"\t")
	cells := make([]string, len(p.Values))
	for i, v := range p.Values {
		cells[i] = strconv.FormatFloat(v, 'g', 6, 64)
	}
	fmt.Fprintln(w, strings.Join(cells, "\t")+"\t")
	w.Flush()
	noun := "columns"
	if len(p.Columns) == 1 {
		noun = "column"
	}
	fmt.Fprintf(&sb, "\n[1 row x %d %s]", len(p.Columns), noun)
	return sb.String()
}
