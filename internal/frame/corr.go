package frame

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Corr computes pairwise Pearson correlations of every numeric column.
// Pairs involving a constant column are NaN.
func (d *Dataset) Corr() *CorrMatrix {
	names := d.NumericNames()
	n := len(names)
	vals := make([][]float64, n)
	for i := range vals {
		vals[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		x, _ := d.Floats(names[a])
		for b := 0; b <= a; b++ {
			y, _ := d.Floats(names[b])
			r := pearson(x, y)
			vals[a][b] = r
			vals[b][a] = r
		}
	}
	return &CorrMatrix{Columns: names, Values: vals}
}

func pearson(x, y []float64) float64 {
	if len(x) < 2 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	if math.IsInf(r, 0) {
		return math.NaN()
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// Reorder permutes rows and columns so that position i holds the original
// column perm[i]. perm must be a permutation of 0..n-1.
func (m *CorrMatrix) Reorder(perm []int) (*CorrMatrix, error) {
	n := len(m.Columns)
	if len(perm) != n {
		return nil, fmt.Errorf("reorder: permutation has %d positions, matrix has %d columns", len(perm), n)
	}
	seen := make([]bool, n)
	for _, p := range perm {
		if p < 0 || p >= n {
			return nil, fmt.Errorf("reorder: position %d out of range [0,%d)", p, n)
		}
		if seen[p] {
			return nil, fmt.Errorf("reorder: position %d repeated", p)
		}
		seen[p] = true
	}
	out := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i, pi := range perm {
		out.Columns[i] = m.Columns[pi]
		row := make([]float64, n)
		for j, pj := range perm {
			row[j] = m.Values[pi][pj]
		}
		out.Values[i] = row
	}
	return out, nil
}

// At returns the correlation between two named columns.
func (m *CorrMatrix) At(a, b string) (float64, bool) {
	ia, ib := -1, -1
	for i, c := range m.Columns {
		if c == a {
			ia = i
		}
		if c == b {
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return 0, false
	}
	return m.Values[ia][ib], true
}

// Markdown renders the matrix as a table with dp decimal places.
func (m *CorrMatrix) Markdown(dp int) string {
	if dp < 0 {
		dp = 2
	}
	var b strings.Builder
	b.WriteString("| |")
	for _, c := range m.Columns {
		b.WriteString(" ")
		b.WriteString(c)
		b.WriteString(" |")
	}
	b.WriteString("\n|---|")
	for range m.Columns {
		b.WriteString("---|")
	}
	b.WriteString("\n")
	for i, c := range m.Columns {
		b.WriteString("| ")
		b.WriteString(c)
		b.WriteString(" |")
		for j := range m.Columns {
			v := m.Values[i][j]
			if math.IsNaN(v) {
				b.WriteString(" NaN |")
				continue
			}
			b.WriteString(fmt.Sprintf(" %.*f |", dp, v))
		}
		b.WriteString("\n")
	}
	return b.String()
}
