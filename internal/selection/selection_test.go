package selection

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/KaramelBytes/encodekit/internal/encoding"
	"github.com/KaramelBytes/encodekit/internal/frame"
	"github.com/KaramelBytes/encodekit/internal/models"
)

func entry(enc string) Entry {
	return Entry{
		SampleSize: 100, Encoder: enc, Interactions: "None", Scaling: "None",
		Regressor: "LinearRegression()", Scores: []float64{-1, -2, -3, -4, -5.5}, Seconds: 0.25,
	}
}

func readRecords(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return recs
}

func TestKFoldBounds(t *testing.T) {
	b, err := KFold{}.Bounds(12)
	require.NoError(t, err)
	require.Equal(t, [][2]int{{0, 3}, {3, 6}, {6, 8}, {8, 10}, {10, 12}}, b)
	_, err = KFold{Folds: 5}.Bounds(4)
	require.Error(t, err)

	for _, folds := range []int{1, -3} {
		_, err = KFold{Folds: folds}.Bounds(12)
		require.ErrorContains(t, err, "at least 2 folds")
	}
	_, err = KFold{Folds: 1}.Score(context.Background(), models.NewLinearRegression(), [][]float64{{1}, {2}}, []float64{1, 2})
	require.Error(t, err)
}

func TestKFoldScoresPerfectModel(t *testing.T) {
	X := make([][]float64, 20)
	y := make([]float64, 20)
	for i := range X {
		X[i] = []float64{float64(i)}
		y[i] = 4*float64(i) + 1
	}
	scores, err := KFold{Workers: 2}.Score(context.Background(), models.NewLinearRegression(), X, y)
	require.NoError(t, err)
	require.Len(t, scores, 5)
	for _, s := range scores {
		require.InDelta(t, 0, s, 1e-9)
	}
}

func TestLogHeaderOnFreshPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "model_log.csv")
	l, err := NewLog(path)
	require.NoError(t, err)
	require.Equal(t, 0, l.Len())
	require.NoError(t, l.Add(entry("OrdinalEncoder(metric=mean, target=salary, features=ALL)")))
	require.NoError(t, l.UpdateLogfile(path))

	recs := readRecords(t, path)
	require.Len(t, recs, 2)
	require.Equal(t, []string{"", "Training sample size", "Encoder", "Interactions", "Scaling", "Regressor",
		"CVS_1", "CVS_2", "CVS_3", "CVS_4", "CVS_5", "Time /s"}, recs[0])
	require.Equal(t, "0", recs[1][0])
	require.Equal(t, "-5.5", recs[1][10])
}

func TestUpdateLogfileTwiceDoesNotDuplicate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model_log.csv")
	l, err := NewLog("")
	require.NoError(t, err)
	require.NoError(t, l.Add(entry("NONE")))
	require.NoError(t, l.Add(entry("DummyEncoder(features=ALL, exclude=NONE)")))
	require.NoError(t, l.UpdateLogfile(path))
	require.NoError(t, l.UpdateLogfile(path))
	require.Len(t, readRecords(t, path), 3)

	other, err := NewLog(path)
	require.NoError(t, err)
	require.Equal(t, 2, other.Len())
	require.NoError(t, other.Add(entry("NONE")))
	require.NoError(t, other.Add(entry("TargetEncoder(metric=mean, target=salary, features=ALL)")))
	require.NoError(t, other.UpdateLogfile(path))

	recs := readRecords(t, path)
	require.Len(t, recs, 4)
	for i, r := range recs[1:] {
		require.Equal(t, strings.TrimSpace(r[0]), []string{"0", "1", "2"}[i])
	}
	require.Equal(t, 3, other.Len())
}

func TestLogRejectsWrongArityAndForeignFiles(t *testing.T) {
	l, _ := NewLog("")
	e := entry("NONE")
	e.Scores = e.Scores[:4]
	require.Error(t, l.Add(e))

	path := filepath.Join(t.TempDir(), "other.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n1,2\n"), 0o644))
	_, err := NewLog(path)
	require.Error(t, err)
}

func TestCombinationRun(t *testing.T) {
	n := 30
	city := make([]string, n)
	miles := make([]float64, n)
	salary := make([]float64, n)
	base := map[string]float64{"A": 10, "B": 40, "C": 25}
	for i := 0; i < n; i++ {
		city[i] = []string{"A", "B", "C"}[i%3]
		miles[i] = float64(i % 7)
		salary[i] = base[city[i]] - 2*miles[i]
	}
	ds := frame.MustNew(
		frame.NewCategorical("city", city),
		frame.NewNumeric("miles", miles),
		frame.NewNumeric("salary", salary),
	)
	var out bytes.Buffer
	c := &Combination{
		Encoder:   encoding.New(encoding.NewDummy()),
		Scale:     &models.StandardScaler{},
		Regressor: models.NewLinearRegression(),
		Logger:    zaptest.NewLogger(t),
		Out:       &out,
	}
	l, _ := NewLog("")
	require.NoError(t, c.Run(context.Background(), ds, "salary", l))
	require.True(t, c.Ran())
	require.NotEmpty(t, c.RunID)
	require.InDelta(t, 0, c.MeanMSE(), 1e-9)
	require.Contains(t, out.String(), "Mean MSE for LinearRegression() with DummyEncoder(features=ALL, exclude=NONE): ")

	got := l.Entries()
	require.Len(t, got, 1)
	require.Equal(t, 30, got[0].SampleSize)
	require.Equal(t, "None", got[0].Interactions)
	require.Equal(t, "StandardScaler()", got[0].Scaling)

	noEnc := &Combination{Regressor: models.NewLinearRegression(), Out: &out}
	require.Error(t, noEnc.Run(context.Background(), ds, "salary", l))
	require.Equal(t, 1, l.Len())
}
