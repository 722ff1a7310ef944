package encoding

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metric reduces the target values of one category group to a score.
type Metric struct {
	name string
	fn   func([]float64) float64
}

// Built-in reductions.
var (
	Mean   = Metric{name: "mean", fn: func(v []float64) float64 { return stat.Mean(v, nil) }}
	Median = Metric{name: "median", fn: median}
	Min    = Metric{name: "min", fn: floats.Min}
	Max    = Metric{name: "max", fn: floats.Max}
	Sum    = Metric{name: "sum", fn: floats.Sum}
	// Std is the sample standard deviation (n-1 denominator).
	Std = Metric{name: "std", fn: func(v []float64) float64 { return stat.StdDev(v, nil) }}
)

var builtins = []Metric{Mean, Median, Min, Max, Sum, Std}

// CustomMetric wraps an arbitrary reduction under a display name.
func CustomMetric(name string, fn func([]float64) float64) Metric {
	return Metric{name: name, fn: fn}
}

// ParseMetric resolves a built-in metric by name.
func ParseMetric(name string) (Metric, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, m := range builtins {
		if m.name == n {
			return m, nil
		}
	}
	names := make([]string, len(builtins))
	for i, m := range builtins {
		names[i] = m.name
	}
	return Metric{}, fmt.Errorf("unknown metric %q (use %s)", name, strings.Join(names, "|"))
}

// Name returns the display name used in descriptors and errors.
func (m Metric) Name() string { return m.name }

// Valid reports whether the metric has a reduction function.
func (m Metric) Valid() bool { return m.fn != nil }

// Apply reduces values to a single score. NaN values are skipped; a group
// with none left scores NaN.
func (m Metric) Apply(values []float64) float64 {
	present := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			present = append(present, v)
		}
	}
	if len(present) == 0 {
		return math.NaN()
	}
	return m.fn(present)
}

func median(v []float64) float64 {
	s := append([]float64(nil), v...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
