package report

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KaramelBytes/encodekit/internal/encoding"
	"github.com/KaramelBytes/encodekit/internal/frame"
	"github.com/KaramelBytes/encodekit/internal/plotting"
)

type recordingSink struct{ got []*frame.CorrMatrix }

func (r *recordingSink) Heatmap(m *frame.CorrMatrix, _ plotting.HeatmapStyle) error {
	r.got = append(r.got, m)
	return nil
}

func data() *frame.Dataset {
	return frame.MustNew(
		frame.NewCategorical("city", []string{"A", "B", "C", "A"}),
		frame.NewNumeric("miles", []float64{4, 1, 2, 3}),
		frame.NewNumeric("salary", []float64{10, 30, 20, 12}),
	)
}

func TestCorrMatrixWithPermutation(t *testing.T) {
	m, err := CorrMatrix(data(), EncoderFunc(encoding.NewOrdinal(encoding.Mean, "salary")), []int{2, 0, 1}, nil)
	require.NoError(t, err)
	require.Equal(t, []string{"salary", "city", "miles"}, m.Columns)

	sink := &recordingSink{}
	require.NoError(t, HeatMap(m, sink, plotting.DefaultHeatmapStyle()))
	require.Len(t, sink.got, 1)

	_, err = CorrMatrix(data(), nil, []int{0, 1, 1}, nil)
	require.Error(t, err)
}

func TestCorrMatrixSkipsTiedEncoding(t *testing.T) {
	tied := frame.MustNew(
		frame.NewCategorical("city", []string{"A", "B"}),
		frame.NewNumeric("salary", []float64{5, 5}),
	)
	core, logs := observer.New(zap.WarnLevel)
	m, err := CorrMatrix(tied, EncoderFunc(encoding.NewTarget(encoding.Mean, "salary")), nil, zap.New(core))
	require.NoError(t, err)
	require.Nil(t, m)
	require.Equal(t, 1, logs.Len())
	require.Equal(t, "city", logs.All()[0].ContextMap()["feature"])

	sink := &recordingSink{}
	require.NoError(t, HeatMap(m, sink, plotting.DefaultHeatmapStyle()))
	require.Empty(t, sink.got)
}

func TestCorrMatrixPropagatesOtherErrors(t *testing.T) {
	_, err := CorrMatrix(data(), EncoderFunc(encoding.NewOrdinal(encoding.Mean, "absent")), nil, nil)
	var missing *frame.MissingColumnError
	require.ErrorAs(t, err, &missing)
}
