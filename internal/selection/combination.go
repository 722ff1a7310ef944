package selection

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/KaramelBytes/encodekit/internal/encoding"
	"github.com/KaramelBytes/encodekit/internal/frame"
	"github.com/KaramelBytes/encodekit/internal/models"
	"github.com/KaramelBytes/encodekit/internal/preprocess"
)

// Combination is one candidate pipeline: optional encoder, optional
// interaction expansion, optional scaling, and a regressor.
type Combination struct {
	Encoder      *encoding.Encoder
	Interactions models.FitTransformer
	Scale        models.FitTransformer
	Regressor    models.Regressor
	CV           KFold

	Logger *zap.Logger
	// Out receives the one-line summary; nil means stdout.
	Out io.Writer

	// Filled by Run.
	RunID      string
	SampleSize int
	Scores     []float64
	Elapsed    time.Duration
	ran        bool
}

// EncoderName is the encoder descriptor, or NONE without an encoder.
func (c *Combination) EncoderName() string {
	if c.Encoder == nil {
		return "NONE"
	}
	return c.Encoder.String()
}

func describe(t models.FitTransformer) string {
	if t == nil {
		return "None"
	}
	return t.String()
}

// Ran reports whether Run has completed.
func (c *Combination) Ran() bool { return c.ran }

// MeanMSE is the mean squared error averaged over folds.
func (c *Combination) MeanMSE() float64 {
	if len(c.Scores) == 0 {
		return 0
	}
	var s float64
	for _, v := range c.Scores {
		s -= v
	}
	return s / float64(len(c.Scores))
}

// Run encodes and splits train on target, applies the optional transforms,
// cross-validates the regressor, stages the result in log and prints a
// summary. Transforms are fitted on the whole training set before folding.
func (c *Combination) Run(ctx context.Context, train *frame.Dataset, target string, log *Log) error {
	if c.Regressor == nil {
		return errors.New("combination has no regressor")
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c.RunID = uuid.NewString()
	logger = logger.With(zap.String("run_id", c.RunID), zap.String("encoder", c.EncoderName()), zap.String("regressor", c.Regressor.String()))

	c.SampleSize = train.Len()
	split, err := preprocess.EncodeAndSplit(train, target, c.Encoder, nil)
	if err != nil {
		return fmt.Errorf("prepare training data: %w", err)
	}
	X, err := split.X.Matrix()
	if err != nil {
		return fmt.Errorf("feature matrix: %w", err)
	}
	if len(X) == 0 {
		return errors.New("training data has no rows")
	}
	for _, t := range []models.FitTransformer{c.Interactions, c.Scale} {
		if t == nil {
			continue
		}
		if X, err = t.FitTransform(X); err != nil {
			return fmt.Errorf("%s: %w", t, err)
		}
	}
	logger.Debug("cross-validating", zap.Int("rows", len(X)), zap.Int("features", len(X[0])))

	start := time.Now()
	scores, err := c.CV.Score(ctx, c.Regressor, X, split.Y)
	if err != nil {
		return fmt.Errorf("cross-validate: %w", err)
	}
	c.Elapsed = time.Since(start)
	c.Scores = scores
	c.ran = true

	if log != nil {
		if err := log.Add(Entry{
			SampleSize:   c.SampleSize,
			Encoder:      c.EncoderName(),
			Interactions: describe(c.Interactions),
			Scaling:      describe(c.Scale),
			Regressor:    c.Regressor.String(),
			Scores:       scores,
			Seconds:      c.Elapsed.Seconds(),
		}); err != nil {
			return err
		}
		logger.Info("results staged for logging")
	}
	logger.Info("cross-validation finished", zap.Float64("mean_mse", c.MeanMSE()), zap.Duration("elapsed", c.Elapsed))
	out := c.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "Mean MSE for %s with %s: %g\n", c.Regressor, c.EncoderName(), c.MeanMSE())
	return nil
}
