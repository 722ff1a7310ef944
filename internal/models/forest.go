package models

import (
	"fmt"
	"math"
	"math/rand"
)

// RandomForest averages decision trees fitted on bootstrap samples, each
// split trying a random subset of features.
type RandomForest struct {
	NEstimators        int
	MaxDepth           int
	MinSamples         int
	MaxThresholdsPerFe int
	// MaxFeatures of 0 means sqrt(number of features).
	MaxFeatures int
	Seed        int64

	trees []*DecisionTree
}

func NewRandomForest() *RandomForest {
	return &RandomForest{NEstimators: 30, MaxDepth: 8, MinSamples: 2, MaxThresholdsPerFe: 32}
}

func (rf *RandomForest) String() string {
	return fmt.Sprintf("RandomForestRegressor(n_estimators=%d, max_depth=%d)", rf.NEstimators, rf.MaxDepth)
}

func (rf *RandomForest) Clone() Regressor {
	c := *rf
	c.trees = nil
	return &c
}

func (rf *RandomForest) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	maxFeatures := rf.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Max(1, math.Sqrt(float64(p))))
	}
	trees, err := bootstrapTrees(X, y, rf.NEstimators, rf.Seed, func() *DecisionTree {
		return &DecisionTree{MaxDepth: rf.MaxDepth, MinSamplesSplit: rf.MinSamples, MaxThresholdsPerFe: rf.MaxThresholdsPerFe, MaxFeatures: maxFeatures}
	})
	if err != nil {
		return err
	}
	rf.trees = trees
	return nil
}

func (rf *RandomForest) Predict(X [][]float64) ([]float64, error) {
	return averageTrees(rf.trees, X)
}

// Bagging averages full-feature decision trees fitted on bootstrap samples.
type Bagging struct {
	NEstimators        int
	MaxDepth           int
	MinSamples         int
	MaxThresholdsPerFe int
	Seed               int64

	trees []*DecisionTree
}

func NewBagging() *Bagging {
	return &Bagging{NEstimators: 30, MaxDepth: 8, MinSamples: 2, MaxThresholdsPerFe: 32}
}

func (bg *Bagging) String() string {
	return fmt.Sprintf("BaggingRegressor(n_estimators=%d, max_depth=%d)", bg.NEstimators, bg.MaxDepth)
}

func (bg *Bagging) Clone() Regressor {
	c := *bg
	c.trees = nil
	return &c
}

func (bg *Bagging) Fit(X [][]float64, y []float64) error {
	if _, err := checkXY(X, y); err != nil {
		return err
	}
	trees, err := bootstrapTrees(X, y, bg.NEstimators, bg.Seed, func() *DecisionTree {
		return &DecisionTree{MaxDepth: bg.MaxDepth, MinSamplesSplit: bg.MinSamples, MaxThresholdsPerFe: bg.MaxThresholdsPerFe}
	})
	if err != nil {
		return err
	}
	bg.trees = trees
	return nil
}

func (bg *Bagging) Predict(X [][]float64) ([]float64, error) {
	return averageTrees(bg.trees, X)
}

func bootstrapTrees(X [][]float64, y []float64, k int, seed int64, newTree func() *DecisionTree) ([]*DecisionTree, error) {
	if k <= 0 {
		k = 30
	}
	rng := rand.New(rand.NewSource(seed))
	n := len(X)
	trees := make([]*DecisionTree, 0, k)
	for t := 0; t < k; t++ {
		Xb := make([][]float64, n)
		yb := make([]float64, n)
		for i := 0; i < n; i++ {
			j := rng.Intn(n)
			Xb[i], yb[i] = X[j], y[j]
		}
		dt := newTree()
		dt.rng = rand.New(rand.NewSource(rng.Int63()))
		if err := dt.Fit(Xb, yb); err != nil {
			return nil, err
		}
		trees = append(trees, dt)
	}
	return trees, nil
}

func averageTrees(trees []*DecisionTree, X [][]float64) ([]float64, error) {
	if len(trees) == 0 {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(X))
	for _, dt := range trees {
		p, err := dt.Predict(X)
		if err != nil {
			return nil, err
		}
		for i := range out {
			out[i] += p[i]
		}
	}
	m := float64(len(trees))
	for i := range out {
		out[i] /= m
	}
	return out, nil
}
