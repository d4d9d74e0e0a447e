package features

import (
	"fmt"

	"winescore/internal/data"
)

// WineColumns is the column order the wine models were trained on.
var WineColumns = []string{
	"fixed acidity",
	"volatile acidity",
	"citric acid",
	"residual sugar",
	"chlorides",
	"free sulfur dioxide",
	"total sulfur dioxide",
	"density",
	"pH",
	"sulphates",
	"alcohol",
}

func BuildRow(values []float64) (data.Row, error) {
	return BuildRowWithColumns(values, WineColumns)
}

// BuildRowWithColumns pairs values with names positionally. It never pads or
// truncates, and it does not look at any model's schema.
func BuildRowWithColumns(values []float64, columns []string) (data.Row, error) {
	if len(values) != len(columns) {
		return data.Row{}, &data.SchemaMismatchError{
			Reason: fmt.Sprintf("%d values for %d columns", len(values), len(columns)),
		}
	}
	row := data.Row{
		Columns: make([]string, len(columns)),
		Values:  make([]float64, len(values)),
	}
	copy(row.Columns, columns)
	copy(row.Values, values)
	return row, nil
}

// Vectorize turns rows into the matrix the tree models evaluate.
func Vectorize(rows ...data.Row) [][]float64 {
	X := make([][]float64, len(rows))
	for i := range rows {
		X[i] = rows[i].Values
	}
	return X
}

// SameColumns reports whether got matches want name for name, in order.
func SameColumns(want, got []string) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] != got[i] {
			return false
		}
	}
	return true
}
