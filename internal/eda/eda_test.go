package eda

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/encodekit/internal/frame"
)

func salaries() *frame.Dataset {
	return frame.MustNew(
		frame.NewCategorical("jobType", []string{"JANITOR", "CEO", "CFO", "CEO", "JANITOR", "CFO", "CTO"}),
		frame.NewNumeric("yearsExperience", []float64{1, 20, 9, 15, 2, 8, 12}),
		frame.NewNumeric("salary", []float64{-50, 10, 11, 12, 13, 14, 100}),
	)
}

func TestInterquartileRule(t *testing.T) {
	out, upper, lower, err := InterquartileRule("salary", salaries())
	require.NoError(t, err)
	require.Equal(t, 1, upper)
	require.Equal(t, 1, lower)
	require.Equal(t, 2, out.Len())
	jobs, _ := out.Column("jobType")
	require.Equal(t, []string{"JANITOR", "CTO"}, jobs.Labels)

	f, err := IQRFences([]float64{-50, 10, 11, 12, 13, 14, 100})
	require.NoError(t, err)
	require.InDelta(t, 10.5, f.Q1, 1e-12)
	require.InDelta(t, 13.5, f.Q3, 1e-12)
	require.InDelta(t, 18.0, f.Upper, 1e-12)
	require.InDelta(t, 6.0, f.Lower, 1e-12)

	_, _, _, err = InterquartileRule("jobType", salaries())
	var kind *frame.KindError
	require.ErrorAs(t, err, &kind)
}

func TestSummarizeMarkdown(t *testing.T) {
	rep := Summarize("train.csv", salaries(), "salary")
	require.Equal(t, 7, rep.Rows)
	require.Len(t, rep.Cols, 3)

	job := rep.Cols[0]
	require.Equal(t, 4, job.Unique)
	require.Equal(t, "CEO", job.TopValues[0].Value)
	require.Equal(t, "JANITOR", job.TargetMedians[0].Value)
	require.Equal(t, "CTO", job.TargetMedians[len(job.TargetMedians)-1].Value)

	sal := rep.Cols[2]
	require.Equal(t, 1, sal.UpperOutliers)
	require.Equal(t, -50.0, sal.Min)

	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: train.csv",
		"Target: salary",
		"- jobType: categorical (non-null 7, missing 0.0%)",
		"[MEDIAN SALARY BY CATEGORY]",
		"[CORRELATIONS]",
		"yearsExperience ~ salary",
	} {
		require.True(t, strings.Contains(md, want), "missing %q in:\n%s", want, md)
	}
}
