// Package selection evaluates encoder, transform and regressor
// combinations by cross-validation and records the results in a CSV log.
package selection

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/encodekit/internal/models"
)

// DefaultFolds is the number of folds the log format records.
const DefaultFolds = 5

// KFold splits rows into contiguous folds without shuffling. The first
// n%Folds folds hold one extra row.
type KFold struct {
	// Folds of 0 means DefaultFolds; otherwise it must be at least 2.
	Folds int
	// Workers bounds concurrent folds; 0 uses GOMAXPROCS.
	Workers int
}

// Bounds returns the [start, end) row range of every fold.
func (k KFold) Bounds(n int) ([][2]int, error) {
	folds, err := k.folds()
	if err != nil {
		return nil, err
	}
	if n < folds {
		return nil, fmt.Errorf("cannot split %d rows into %d folds", n, folds)
	}
	out := make([][2]int, folds)
	start := 0
	for f := 0; f < folds; f++ {
		size := n / folds
		if f < n%folds {
			size++
		}
		out[f] = [2]int{start, start + size}
		start += size
	}
	return out, nil
}

func (k KFold) folds() (int, error) {
	switch {
	case k.Folds == 0:
		return DefaultFolds, nil
	case k.Folds < 2:
		return 0, fmt.Errorf("k-fold needs at least 2 folds, got %d", k.Folds)
	}
	return k.Folds, nil
}

// Score fits a clone of reg on all but one fold and scores the held-out
// fold by negative mean squared error, once per fold. Folds run in parallel.
func (k KFold) Score(ctx context.Context, reg models.Regressor, X [][]float64, y []float64) ([]float64, error) {
	if len(X) != len(y) {
		return nil, fmt.Errorf("cross-validate: %d rows but %d targets", len(X), len(y))
	}
	bounds, err := k.Bounds(len(X))
	if err != nil {
		return nil, err
	}
	workers := k.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	scores := make([]float64, len(bounds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for f, b := range bounds {
		f, b := f, b
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			trainX := make([][]float64, 0, len(X)-(b[1]-b[0]))
			trainY := make([]float64, 0, cap(trainX))
			trainX = append(append(trainX, X[:b[0]]...), X[b[1]:]...)
			trainY = append(append(trainY, y[:b[0]]...), y[b[1]:]...)
			m := reg.Clone()
			if err := m.Fit(trainX, trainY); err != nil {
				return fmt.Errorf("fold %d: %w", f+1, err)
			}
			pred, err := m.Predict(X[b[0]:b[1]])
			if err != nil {
				return fmt.Errorf("fold %d: %w", f+1, err)
			}
			scores[f] = -meanSquaredError(y[b[0]:b[1]], pred)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return scores, nil
}

func meanSquaredError(y, pred []float64) float64 {
	var s float64
	for i := range y {
		d := y[i] - pred[i]
		s += d * d
	}
	return s / float64(len(y))
}
