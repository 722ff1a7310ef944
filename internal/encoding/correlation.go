package encoding

import (
	"fmt"

	"github.com/KaramelBytes/encodekit/internal/frame"
	"github.com/KaramelBytes/encodekit/internal/plotting"
)

// CorrelationMatrix encodes ds with the current fit and returns the Pearson
// correlation of every numeric column of the result.
func (e *Encoder) CorrelationMatrix(ds *frame.Dataset) (*frame.CorrMatrix, error) {
	enc, err := e.Transform(ds)
	if err != nil {
		return nil, err
	}
	return enc.Corr(), nil
}

// ReorderedCorrelationMatrix is CorrelationMatrix with rows and columns
// permuted by perm.
func (e *Encoder) ReorderedCorrelationMatrix(ds *frame.Dataset, perm []int) (*frame.CorrMatrix, error) {
	m, err := e.CorrelationMatrix(ds)
	if err != nil {
		return nil, err
	}
	return m.Reorder(perm)
}

// CorrelationMap renders the (optionally reordered) correlation matrix of
// the encoded dataset through sink. A nil perm keeps column order.
func (e *Encoder) CorrelationMap(ds *frame.Dataset, sink plotting.HeatmapSink, style plotting.HeatmapStyle, perm []int) error {
	var (
		m   *frame.CorrMatrix
		err error
	)
	if perm == nil {
		m, err = e.CorrelationMatrix(ds)
	} else {
		m, err = e.ReorderedCorrelationMatrix(ds, perm)
	}
	if err != nil {
		return err
	}
	if style.Title == "" {
		style.Title = e.String()
	}
	if err := sink.Heatmap(m, style); err != nil {
		return fmt.Errorf("correlation map: %w", err)
	}
	return nil
}
