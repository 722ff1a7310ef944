// Package preprocess splits datasets into features and target and applies
// encoders to train and test data.
package preprocess

import (
	"errors"
	"fmt"

	"github.com/KaramelBytes/encodekit/internal/encoding"
	"github.com/KaramelBytes/encodekit/internal/frame"
)

// XYSplit separates the target column from the features. An empty target
// selects the last column.
func XYSplit(ds *frame.Dataset, target string) (*frame.Dataset, []float64, error) {
	if target == "" {
		names := ds.Names()
		if len(names) == 0 {
			return nil, nil, errors.New("split: dataset has no columns")
		}
		target = names[len(names)-1]
	}
	y, err := ds.Floats(target)
	if err != nil {
		return nil, nil, fmt.Errorf("split: %w", err)
	}
	return ds.Drop(target), append([]float64(nil), y...), nil
}

// Encode fits enc on train and transforms train and, when non-nil, test.
func Encode(enc *encoding.Encoder, train, test *frame.Dataset) (*frame.Dataset, *frame.Dataset, error) {
	newTrain, err := enc.FitTransform(train)
	if err != nil {
		return nil, nil, err
	}
	if test == nil {
		return newTrain, nil, nil
	}
	newTest, err := enc.Transform(test)
	if err != nil {
		return nil, nil, fmt.Errorf("encode test: %w", err)
	}
	return newTrain, newTest, nil
}

// Split is the result of EncodeAndSplit.
type Split struct {
	X    *frame.Dataset
	Y    []float64
	Test *frame.Dataset
}

// EncodeAndSplit optionally encodes train (and test) with enc, then splits
// the encoded train set on target. A nil enc skips encoding.
func EncodeAndSplit(train *frame.Dataset, target string, enc *encoding.Encoder, test *frame.Dataset) (*Split, error) {
	if enc != nil {
		var err error
		if train, test, err = Encode(enc, train, test); err != nil {
			return nil, err
		}
	}
	x, y, err := XYSplit(train, target)
	if err != nil {
		return nil, err
	}
	return &Split{X: x, Y: y, Test: test}, nil
}
