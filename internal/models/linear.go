package models

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// LinearRegression is ordinary least squares with an intercept. Rank
// deficient designs (e.g. collinear dummy columns) get the minimum-norm
// solution.
type LinearRegression struct {
	Intercept float64
	Coef      []float64
	fitted    bool
}

func NewLinearRegression() *LinearRegression { return &LinearRegression{} }

func (lr *LinearRegression) String() string { return "LinearRegression()" }

func (lr *LinearRegression) Clone() Regressor { return NewLinearRegression() }

func (lr *LinearRegression) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	n := len(X)
	a := mat.NewDense(n, p+1, nil)
	for i, row := range X {
		a.Set(i, 0, 1)
		for j, v := range row {
			a.Set(i, j+1, v)
		}
	}
	var svd mat.SVD
	if !svd.Factorize(a, mat.SVDThin) {
		return fmt.Errorf("linear regression: SVD did not converge")
	}
	rank := svd.Rank(1e-12)
	if rank == 0 {
		return fmt.Errorf("linear regression: design matrix has rank 0")
	}
	var beta mat.VecDense
	svd.SolveVecTo(&beta, mat.NewVecDense(n, append([]float64(nil), y...)), rank)
	lr.Intercept = beta.AtVec(0)
	lr.Coef = make([]float64, p)
	for j := range lr.Coef {
		lr.Coef[j] = beta.AtVec(j + 1)
	}
	lr.fitted = true
	return nil
}

func (lr *LinearRegression) Predict(X [][]float64) ([]float64, error) {
	if !lr.fitted {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, len(lr.Coef)); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i, row := range X {
		s := lr.Intercept
		for j, v := range row {
			s += lr.Coef[j] * v
		}
		out[i] = s
	}
	return out, nil
}
