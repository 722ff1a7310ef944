// Package report builds correlation matrices of encoded data and hands
// them to a heatmap sink.
package report

import (
	"errors"

	"go.uber.org/zap"

	"github.com/KaramelBytes/encodekit/internal/encoding"
	"github.com/KaramelBytes/encodekit/internal/frame"
	"github.com/KaramelBytes/encodekit/internal/plotting"
)

// EncodeFunc transforms a dataset before correlation.
type EncodeFunc func(*frame.Dataset) (*frame.Dataset, error)

// EncoderFunc adapts a configuration into an EncodeFunc that fits and
// transforms in one step.
func EncoderFunc(cfg encoding.Config) EncodeFunc {
	return func(ds *frame.Dataset) (*frame.Dataset, error) {
		return encoding.New(cfg).FitTransform(ds)
	}
}

// CorrMatrix encodes ds, correlates the numeric columns of the result and
// applies perm when non-nil. When the encoding cannot be fitted because of
// tied group scores the problem is logged and both results are nil.
func CorrMatrix(ds *frame.Dataset, encode EncodeFunc, perm []int, logger *zap.Logger) (*frame.CorrMatrix, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	enc := ds
	if encode != nil {
		var err error
		if enc, err = encode(ds); err != nil {
			var nu *encoding.NotUniqueError
			if errors.As(err, &nu) {
				logger.Warn("skipping correlation matrix", zap.Error(err),
					zap.String("feature", nu.Feature), zap.String("metric", nu.Metric))
				return nil, nil
			}
			return nil, err
		}
	}
	m := enc.Corr()
	if perm == nil {
		return m, nil
	}
	return m.Reorder(perm)
}

// HeatMap renders m through sink. A nil matrix is a no-op so it can take
// the result of a skipped CorrMatrix directly.
func HeatMap(m *frame.CorrMatrix, sink plotting.HeatmapSink, style plotting.HeatmapStyle) error {
	if m == nil {
		return nil
	}
	return sink.Heatmap(m, style)
}
