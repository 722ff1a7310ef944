package eda

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/encodekit/internal/frame"
)

// Report is a markdown-friendly summary of a dataset and its target.
type Report struct {
	Name   string
	Rows   int
	Target string
	Cols   []ColumnSummary
	Corr   *frame.CorrMatrix
}

// ColumnSummary captures kind and statistics of one column.
type ColumnSummary struct {
	Name    string
	Kind    frame.Kind
	NonNull int
	Missing int
	Unique  int

	Min, Max, Mean, Std float64
	// Outlier counts by the interquartile rule.
	UpperOutliers, LowerOutliers int

	TopValues []CategoryCount
	// TargetMedians orders categories by ascending median target.
	TargetMedians []CategoryMedian
}

type CategoryCount struct {
	Value string
	Count int
}

type CategoryMedian struct {
	Value  string
	Median float64
}

const topValues = 5

// Summarize profiles every column of ds. When target names a numeric
// column, categorical columns also get per-category target medians.
func Summarize(name string, ds *frame.Dataset, target string) *Report {
	rep := &Report{Name: name, Rows: ds.Len(), Target: target}
	hasTarget := false
	if c, err := ds.Column(target); err == nil && c.Kind == frame.Numeric {
		hasTarget = true
	}
	for _, c := range ds.Columns() {
		cs := ColumnSummary{Name: c.Name, Kind: c.Kind}
		if c.Kind == frame.Numeric {
			summarizeNumeric(&cs, c.Floats)
		} else {
			summarizeCategorical(&cs, c.Labels)
			if hasTarget {
				groups, _ := ds.GroupValues(c.Name, target)
				for _, g := range groups {
					s := finiteSorted(g.Values)
					if len(s) == 0 {
						continue
					}
					cs.TargetMedians = append(cs.TargetMedians, CategoryMedian{Value: g.Key, Median: quantile(s, 0.5)})
				}
				sort.SliceStable(cs.TargetMedians, func(i, j int) bool {
					return cs.TargetMedians[i].Median < cs.TargetMedians[j].Median
				})
			}
		}
		rep.Cols = append(rep.Cols, cs)
	}
	if len(ds.NumericNames()) >= 2 {
		rep.Corr = ds.Corr()
	}
	return rep
}

func summarizeNumeric(cs *ColumnSummary, v []float64) {
	s := finiteSorted(v)
	cs.NonNull = len(s)
	cs.Missing = len(v) - len(s)
	if len(s) == 0 {
		return
	}
	uniq := 1
	for i := 1; i < len(s); i++ {
		if s[i] != s[i-1] {
			uniq++
		}
	}
	cs.Unique = uniq
	cs.Min, cs.Max = s[0], s[len(s)-1]
	cs.Mean, cs.Std = stat.MeanStdDev(s, nil)
	if f, err := IQRFences(s); err == nil {
		for _, x := range s {
			if x > f.Upper {
				cs.UpperOutliers++
			} else if x < f.Lower {
				cs.LowerOutliers++
			}
		}
	}
}

func summarizeCategorical(cs *ColumnSummary, labels []string) {
	counts := map[string]int{}
	for _, l := range labels {
		if l == "" {
			cs.Missing++
			continue
		}
		cs.NonNull++
		counts[l]++
	}
	cs.Unique = len(counts)
	for k, n := range counts {
		cs.TopValues = append(cs.TopValues, CategoryCount{Value: k, Count: n})
	}
	sort.Slice(cs.TopValues, func(i, j int) bool {
		if cs.TopValues[i].Count == cs.TopValues[j].Count {
			return cs.TopValues[i].Value < cs.TopValues[j].Value
		}
		return cs.TopValues[i].Count > cs.TopValues[j].Count
	})
	if len(cs.TopValues) > topValues {
		cs.TopValues = cs.TopValues[:topValues]
	}
}

func finiteSorted(v []float64) []float64 {
	out := make([]float64, 0, len(v))
	for _, x := range v {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			out = append(out, x)
		}
	}
	sort.Float64s(out)
	return out
}

// Markdown renders the report in bracketed sections.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", r.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", len(r.Cols)))
	if r.Target != "" {
		b.WriteString(fmt.Sprintf("Target: %s\n", r.Target))
	}
	b.WriteString("\n[SCHEMA]\n")
	for _, c := range r.Cols {
		total := c.NonNull + c.Missing
		missPct := 0.0
		if total > 0 {
			missPct = float64(c.Missing) * 100.0 / float64(total)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %.1f%%)", safeName(c.Name), c.Kind, c.NonNull, missPct))
		if c.Kind == frame.Numeric {
			b.WriteString(fmt.Sprintf(": min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			if c.UpperOutliers+c.LowerOutliers > 0 {
				b.WriteString(fmt.Sprintf("; IQR outliers: %d above, %d below", c.UpperOutliers, c.LowerOutliers))
			}
		} else if len(c.TopValues) > 0 {
			b.WriteString(": top ")
			for i, kv := range c.TopValues {
				if i > 0 {
					b.WriteString(", ")
				}
				b.WriteString(fmt.Sprintf("%s(%d)", safeVal(kv.Value), kv.Count))
			}
			if c.Unique > len(c.TopValues) {
				b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
			}
		}
		b.WriteString("\n")
	}

	var withMedians []ColumnSummary
	for _, c := range r.Cols {
		if len(c.TargetMedians) > 0 {
			withMedians = append(withMedians, c)
		}
	}
	if len(withMedians) > 0 {
		b.WriteString(fmt.Sprintf("\n[MEDIAN %s BY CATEGORY]\n", strings.ToUpper(r.Target)))
		for _, c := range withMedians {
			b.WriteString(fmt.Sprintf("- %s:", safeName(c.Name)))
			lim := len(c.TargetMedians)
			if lim > 12 {
				lim = 12
			}
			for i := 0; i < lim; i++ {
				m := c.TargetMedians[i]
				b.WriteString(fmt.Sprintf(" %s=%.4g", safeVal(m.Value), m.Median))
			}
			if lim < len(c.TargetMedians) {
				b.WriteString(" ...")
			}
			b.WriteString("\n")
		}
	}

	if r.Corr != nil && len(r.Corr.Columns) >= 2 {
		b.WriteString("\n[CORRELATIONS]\n")
		type pair struct {
			A, B string
			R    float64
		}
		var pairs []pair
		n := len(r.Corr.Columns)
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if math.IsNaN(r.Corr.Values[i][j]) {
					continue
				}
				pairs = append(pairs, pair{A: r.Corr.Columns[i], B: r.Corr.Columns[j], R: r.Corr.Values[i][j]})
			}
		}
		sort.Slice(pairs, func(i, j int) bool {
			ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
			if ai == aj {
				return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
			}
			return ai > aj
		})
		if len(pairs) > 10 {
			pairs = pairs[:10]
		}
		for _, p := range pairs {
			b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", p.A, p.B, p.R))
		}
	}
	return b.String()
}

func safeName(s string) string {
	if strings.TrimSpace(s) == "" {
		return "(unnamed)"
	}
	return safeVal(s)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
