package preprocess

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/encodekit/internal/encoding"
	"github.com/KaramelBytes/encodekit/internal/frame"
)

func train() *frame.Dataset {
	return frame.MustNew(
		frame.NewCategorical("degree", []string{"NONE", "PHD", "MASTERS", "PHD"}),
		frame.NewNumeric("miles", []float64{40, 5, 10, 20}),
		frame.NewNumeric("salary", []float64{50, 150, 110, 170}),
	)
}

func TestXYSplit(t *testing.T) {
	x, y, err := XYSplit(train(), "")
	require.NoError(t, err)
	require.Equal(t, []string{"degree", "miles"}, x.Names())
	require.Equal(t, []float64{50, 150, 110, 170}, y)

	x, y, err = XYSplit(train(), "miles")
	require.NoError(t, err)
	require.Equal(t, []string{"degree", "salary"}, x.Names())
	require.Equal(t, 40.0, y[0])

	_, _, err = XYSplit(train(), "degree")
	require.Error(t, err)
}

func TestEncodeAndSplit(t *testing.T) {
	test := frame.MustNew(
		frame.NewCategorical("degree", []string{"PHD", "NONE"}),
		frame.NewNumeric("miles", []float64{1, 2}),
	)
	enc := encoding.New(encoding.NewOrdinal(encoding.Mean, "salary"))
	s, err := EncodeAndSplit(train(), "salary", enc, test)
	require.NoError(t, err)
	require.Equal(t, []string{"degree", "miles"}, s.X.Names())
	d, _ := s.X.Floats("degree")
	require.Equal(t, []float64{0, 2, 1, 2}, d)
	td, _ := s.Test.Floats("degree")
	require.Equal(t, []float64{2, 0}, td)

	s, err = EncodeAndSplit(train(), "salary", nil, nil)
	require.NoError(t, err)
	require.Nil(t, s.Test)
	c, _ := s.X.Column("degree")
	require.Equal(t, frame.Categorical, c.Kind)
}
