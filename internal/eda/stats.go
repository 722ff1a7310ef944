package eda

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/encodekit/internal/frame"
)

// IQRFactor scales the interquartile range to get the outlier fences.
const IQRFactor = 1.5

// Fences are the bounds of the interquartile rule for one column.
type Fences struct {
	Q1, Q3       float64
	Lower, Upper float64
}

// IQRFences computes quartiles with linear interpolation and the fences
// Q1-1.5*IQR and Q3+1.5*IQR. NaN values are ignored.
func IQRFences(values []float64) (Fences, error) {
	s := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			s = append(s, v)
		}
	}
	if len(s) == 0 {
		return Fences{}, fmt.Errorf("no values")
	}
	sort.Float64s(s)
	q1, q3 := quantile(s, 0.25), quantile(s, 0.75)
	iqr := q3 - q1
	return Fences{Q1: q1, Q3: q3, Lower: q1 - IQRFactor*iqr, Upper: q3 + IQRFactor*iqr}, nil
}

// InterquartileRule returns the rows of ds whose feature lies strictly
// outside the IQR fences, with the number above and below them.
func InterquartileRule(feature string, ds *frame.Dataset) (outliers *frame.Dataset, upper, lower int, err error) {
	v, err := ds.Floats(feature)
	if err != nil {
		return nil, 0, 0, err
	}
	f, err := IQRFences(v)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("interquartile rule on %s: %w", feature, err)
	}
	var idx []int
	for i, x := range v {
		switch {
		case x > f.Upper:
			upper++
			idx = append(idx, i)
		case x < f.Lower:
			lower++
			idx = append(idx, i)
		}
	}
	return ds.Rows(idx), upper, lower, nil
}

// quantile expects sorted input.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
