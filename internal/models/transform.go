package models

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FitTransformer is a numeric feature transform fitted on training rows.
type FitTransformer interface {
	FitTransform(X [][]float64) ([][]float64, error)
	Transform(X [][]float64) ([][]float64, error)
	String() string
}

// Interactions appends the product of every pair of distinct features,
// keeping the original features first.
type Interactions struct {
	width int
}

func (it *Interactions) String() string { return "Interactions(degree=2)" }

func (it *Interactions) FitTransform(X [][]float64) ([][]float64, error) {
	if len(X) == 0 {
		return nil, errors.New("interactions: no rows")
	}
	it.width = len(X[0])
	return it.Transform(X)
}

func (it *Interactions) Transform(X [][]float64) ([][]float64, error) {
	if it.width == 0 {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, it.width); err != nil {
		return nil, err
	}
	p := it.width
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, 0, p+p*(p-1)/2)
		r = append(r, row...)
		for a := 0; a < p; a++ {
			for b := a + 1; b < p; b++ {
				r = append(r, row[a]*row[b])
			}
		}
		out[i] = r
	}
	return out, nil
}

// StandardScaler centers each feature on its mean and divides by its
// population standard deviation. Constant features are only centered.
type StandardScaler struct {
	Mean  []float64
	Scale []float64
}

func (s *StandardScaler) String() string { return "StandardScaler()" }

func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	cols, err := columns(X)
	if err != nil {
		return nil, fmt.Errorf("standard scaler: %w", err)
	}
	s.Mean = make([]float64, len(cols))
	s.Scale = make([]float64, len(cols))
	for j, c := range cols {
		m, sd := stat.PopMeanStdDev(c, nil)
		if sd == 0 {
			sd = 1
		}
		s.Mean[j], s.Scale[j] = m, sd
	}
	return s.Transform(X)
}

func (s *StandardScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.Mean == nil {
		return nil, ErrNotFitted
	}
	return apply(X, len(s.Mean), func(j int, v float64) float64 { return (v - s.Mean[j]) / s.Scale[j] })
}

// MinMaxScaler maps each feature linearly onto [0, 1] over its training range.
type MinMaxScaler struct {
	Min   []float64
	Range []float64
}

func (s *MinMaxScaler) String() string { return "MinMaxScaler()" }

func (s *MinMaxScaler) FitTransform(X [][]float64) ([][]float64, error) {
	cols, err := columns(X)
	if err != nil {
		return nil, fmt.Errorf("min-max scaler: %w", err)
	}
	s.Min = make([]float64, len(cols))
	s.Range = make([]float64, len(cols))
	for j, c := range cols {
		lo, hi := floats.Min(c), floats.Max(c)
		s.Min[j] = lo
		s.Range[j] = hi - lo
		if s.Range[j] == 0 {
			s.Range[j] = 1
		}
	}
	return s.Transform(X)
}

func (s *MinMaxScaler) Transform(X [][]float64) ([][]float64, error) {
	if s.Min == nil {
		return nil, ErrNotFitted
	}
	return apply(X, len(s.Min), func(j int, v float64) float64 { return (v - s.Min[j]) / s.Range[j] })
}

// NewTransform builds a transform by name; "" and "none" yield nil.
func NewTransform(name string) (FitTransformer, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "interactions":
		return &Interactions{}, nil
	case "standard":
		return &StandardScaler{}, nil
	case "minmax":
		return &MinMaxScaler{}, nil
	}
	return nil, fmt.Errorf("unknown transform %q (use none|interactions|standard|minmax)", name)
}

func columns(X [][]float64) ([][]float64, error) {
	if len(X) == 0 {
		return nil, errors.New("no rows")
	}
	p := len(X[0])
	if err := checkWidth(X, p); err != nil {
		return nil, err
	}
	cols := make([][]float64, p)
	for j := range cols {
		cols[j] = make([]float64, len(X))
		for i := range X {
			cols[j][i] = X[i][j]
		}
	}
	return cols, nil
}

func apply(X [][]float64, p int, f func(j int, v float64) float64) ([][]float64, error) {
	if err := checkWidth(X, p); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, row := range X {
		r := make([]float64, p)
		for j, v := range row {
			r[j] = f(j, v)
		}
		out[i] = r
	}
	return out, nil
}
