package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func linearData() ([][]float64, []float64) {
	X := [][]float64{{0, 1}, {1, 0}, {2, 3}, {3, 1}, {4, 4}, {5, 2}}
	y := make([]float64, len(X))
	for i, r := range X {
		y[i] = 3 + 2*r[0] - r[1]
	}
	return X, y
}

func TestLinearRegressionRecoversCoefficients(t *testing.T) {
	X, y := linearData()
	lr := NewLinearRegression()
	_, err := lr.Predict(X)
	require.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, lr.Fit(X, y))
	require.InDelta(t, 3.0, lr.Intercept, 1e-9)
	require.InDelta(t, 2.0, lr.Coef[0], 1e-9)
	require.InDelta(t, -1.0, lr.Coef[1], 1e-9)

	p, err := lr.Predict([][]float64{{10, 10}})
	require.NoError(t, err)
	require.InDelta(t, 13.0, p[0], 1e-9)

	_, err = lr.Predict([][]float64{{1}})
	require.Error(t, err)
	require.Equal(t, "LinearRegression()", lr.Clone().String())
}

func TestLinearRegressionCollinearColumns(t *testing.T) {
	X := [][]float64{{1, 2}, {2, 4}, {3, 6}, {4, 8}}
	y := []float64{2, 4, 6, 8}
	lr := NewLinearRegression()
	require.NoError(t, lr.Fit(X, y))
	p, err := lr.Predict([][]float64{{5, 10}})
	require.NoError(t, err)
	require.InDelta(t, 10.0, p[0], 1e-6)
}

func TestDecisionTreeFitsStepFunction(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {10}, {11}, {12}}
	y := []float64{5, 5, 5, 50, 50, 50}
	dt := NewDecisionTree()
	require.NoError(t, dt.Fit(X, y))
	p, err := dt.Predict([][]float64{{0}, {2.5}, {100}})
	require.NoError(t, err)
	require.Equal(t, []float64{5, 5, 50}, p)

	c := dt.Clone()
	_, err = c.Predict(X)
	require.ErrorIs(t, err, ErrNotFitted)
}

func TestEnsemblesAreDeterministicPerSeed(t *testing.T) {
	X := [][]float64{{1, 0}, {2, 1}, {3, 0}, {10, 1}, {11, 0}, {12, 1}, {13, 0}, {4, 1}}
	y := []float64{5, 6, 5, 50, 51, 50, 52, 6}
	for _, name := range []string{"forest", "bagging"} {
		a, err := New(name, 7)
		require.NoError(t, err)
		b, err := New(name, 7)
		require.NoError(t, err)
		require.NoError(t, a.Fit(X, y))
		require.NoError(t, b.Fit(X, y))
		pa, err := a.Predict(X)
		require.NoError(t, err)
		pb, _ := b.Predict(X)
		require.Equal(t, pa, pb, name)
		require.Less(t, pa[0], 30.0)
		require.Greater(t, pa[4], 30.0)
	}
	_, err := New("svm", 0)
	require.Error(t, err)
}

func TestInteractions(t *testing.T) {
	it := &Interactions{}
	out, err := it.FitTransform([][]float64{{1, 2, 3}, {2, 0, 1}})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 2, 3, 6}, out[0])
	require.Equal(t, []float64{2, 0, 1, 0, 2, 0}, out[1])
	_, err = it.Transform([][]float64{{1}})
	require.Error(t, err)
}

func TestScalers(t *testing.T) {
	X := [][]float64{{1, 7}, {2, 7}, {3, 7}}
	ss := &StandardScaler{}
	out, err := ss.FitTransform(X)
	require.NoError(t, err)
	require.InDelta(t, -math.Sqrt(1.5), out[0][0], 1e-12)
	require.Equal(t, 0.0, out[1][0])
	require.Equal(t, 0.0, out[2][1])

	mm := &MinMaxScaler{}
	out, err = mm.FitTransform(X)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, out[0])
	require.Equal(t, []float64{1, 0}, out[2])

	tr, err := NewTransform("none")
	require.NoError(t, err)
	require.Nil(t, tr)
	_, err = NewTransform("log")
	require.Error(t, err)
	_, err = (&StandardScaler{}).Transform(X)
	require.ErrorIs(t, err, ErrNotFitted)
}
