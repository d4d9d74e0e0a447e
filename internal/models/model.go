package models

// Model evaluates a batch of feature rows. For regression models the output is
// the predicted value; for binomial models it is the positive-class probability.
type Model interface {
	Predict(X [][]float64) ([]float64, error)
	Name() string
}
