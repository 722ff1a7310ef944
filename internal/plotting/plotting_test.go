package plotting

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/encodekit/internal/frame"
)

func sample() *frame.Dataset {
	return frame.MustNew(
		frame.NewCategorical("jobType", []string{"CEO", "JANITOR", "CFO", "CEO", "JANITOR", "CFO", "CEO", "JANITOR"}),
		frame.NewNumeric("yearsExperience", []float64{10, 1, 7, 12, 2, 6, 15, 1}),
		frame.NewNumeric("milesFromMetropolis", []float64{5, 80, 20, 10, 60, 30, 3, 95}),
		frame.NewNumeric("salary", []float64{180, 40, 140, 190, 45, 130, 210, 38}),
	)
}

func TestLowerTriangleMasksDiagonalAndAbove(t *testing.T) {
	m := sample().Corr()
	g := lowerTriangle{m: m}
	c, r := g.Dims()
	require.Equal(t, 3, c)
	require.Equal(t, 3, r)
	// top row of the grid is the last matrix row
	require.InDelta(t, m.Values[2][0], g.Z(0, 0), 1e-12)
	require.True(t, math.IsNaN(g.Z(2, 0)))
	// bottom row is the first matrix row, entirely masked
	for col := 0; col < 3; col++ {
		require.True(t, math.IsNaN(g.Z(col, 2)))
	}
}

func TestFileSinkWritesHeatmap(t *testing.T) {
	dir := t.TempDir()
	sink := &FileSink{Dir: filepath.Join(dir, "plots")}
	style := DefaultHeatmapStyle()
	style.Size = 4
	style.Title = "Target encoding"
	require.NoError(t, sink.Heatmap(sample().Corr(), style))
	require.Len(t, sink.Written, 1)
	require.Contains(t, filepath.Base(sink.Written[0]), "target-encoding-")
	info, err := os.Stat(sink.Written[0])
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestHeatmapRejectsBadInput(t *testing.T) {
	_, err := HeatmapPlot(frame.MustNew(frame.NewNumeric("x", []float64{1, 2})).Corr(), DefaultHeatmapStyle())
	require.Error(t, err)

	style := DefaultHeatmapStyle()
	style.CMap = "no-such-map"
	_, err = HeatmapPlot(sample().Corr(), style)
	require.Error(t, err)

	for _, name := range []string{"coolwarm", "heat", "RdBu"} {
		style.CMap = name
		_, err = HeatmapPlot(sample().Corr(), style)
		require.NoError(t, err, name)
	}
}

func TestEDAFigures(t *testing.T) {
	dir := t.TempDir()
	ds := sample()

	f, err := TargetFigure(ds, "salary", 5, "")
	require.NoError(t, err)
	require.NoError(t, f.Save(filepath.Join(dir, "target.png")))

	f, err = CategoricalFigure(ds, "jobType", "salary")
	require.NoError(t, err)
	require.Len(t, f.Plots[0], 2)
	require.NoError(t, f.Save(filepath.Join(dir, "jobType.png")))

	f, err = NumericalFigure(ds, "yearsExperience", "salary", "k$")
	require.NoError(t, err)
	require.NoError(t, f.Save(filepath.Join(dir, "years.png")))

	count := func(d *frame.Dataset) float64 { return float64(d.Len()) }
	f, err = CategoricalCorrelationFigure(ds, "jobType", "salary", count, "rows", "")
	require.NoError(t, err)
	require.NoError(t, f.Save(filepath.Join(dir, "corr.png")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	_, err = TargetFigure(ds, "jobType", 5, "")
	require.Error(t, err)
}
