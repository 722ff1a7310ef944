// Package models holds the regressors and numeric feature transforms the
// model-selection harness evaluates.
package models

import (
	"errors"
	"fmt"
)

// Regressor is a model predicting a continuous target from row-major features.
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) ([]float64, error)
	// Clone returns an unfitted copy with the same parameters.
	Clone() Regressor
	String() string
}

// ErrNotFitted is returned by Predict before a successful Fit.
var ErrNotFitted = errors.New("model is not fitted")

func checkXY(X [][]float64, y []float64) (int, error) {
	if len(X) == 0 {
		return 0, errors.New("fit: no rows")
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("fit: %d rows but %d targets", len(X), len(y))
	}
	p := len(X[0])
	for i, row := range X {
		if len(row) != p {
			return 0, fmt.Errorf("fit: row %d has %d features, want %d", i, len(row), p)
		}
	}
	return p, nil
}

func checkWidth(X [][]float64, p int) error {
	for i, row := range X {
		if len(row) != p {
			return fmt.Errorf("predict: row %d has %d features, want %d", i, len(row), p)
		}
	}
	return nil
}

// New builds a regressor by name with default parameters.
func New(name string, seed int64) (Regressor, error) {
	switch name {
	case "linear", "ols":
		return NewLinearRegression(), nil
	case "tree":
		t := NewDecisionTree()
		t.Seed = seed
		return t, nil
	case "forest", "rf":
		f := NewRandomForest()
		f.Seed = seed
		return f, nil
	case "bagging":
		b := NewBagging()
		b.Seed = seed
		return b, nil
	}
	return nil, fmt.Errorf("unknown regressor %q (use linear|tree|forest|bagging)", name)
}
