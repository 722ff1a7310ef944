package models

import (
	"fmt"
	"math"
	"math/rand"
)

type treeNode struct {
	Feature   int
	Threshold float64
	Left      *treeNode
	Right     *treeNode
	IsLeaf    bool
	Value     float64
}

// DecisionTree is a CART regressor splitting on the largest reduction of
// within-node variance.
type DecisionTree struct {
	MaxDepth           int
	MinSamplesSplit    int
	MaxThresholdsPerFe int
	// MaxFeatures limits the features tried per split; 0 tries all.
	MaxFeatures int
	Seed        int64

	root  *treeNode
	width int
	rng   *rand.Rand
}

func NewDecisionTree() *DecisionTree {
	return &DecisionTree{MaxDepth: 6, MinSamplesSplit: 2, MaxThresholdsPerFe: 64}
}

func (dt *DecisionTree) String() string {
	return fmt.Sprintf("DecisionTreeRegressor(max_depth=%d)", dt.MaxDepth)
}

func (dt *DecisionTree) Clone() Regressor {
	c := *dt
	c.root, c.width, c.rng = nil, 0, nil
	return &c
}

func (dt *DecisionTree) Fit(X [][]float64, y []float64) error {
	p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	if dt.rng == nil {
		dt.rng = rand.New(rand.NewSource(dt.Seed))
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	dt.width = p
	dt.root = dt.build(X, y, idx, 0)
	return nil
}

func (dt *DecisionTree) Predict(X [][]float64) ([]float64, error) {
	if dt.root == nil {
		return nil, ErrNotFitted
	}
	if err := checkWidth(X, dt.width); err != nil {
		return nil, err
	}
	out := make([]float64, len(X))
	for i := range X {
		out[i] = dt.predictOne(X[i])
	}
	return out, nil
}

func (dt *DecisionTree) predictOne(x []float64) float64 {
	n := dt.root
	for !n.IsLeaf {
		if x[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Value
}

func (dt *DecisionTree) build(X [][]float64, y []float64, idx []int, depth int) *treeNode {
	mean, sse := meanSSE(y, idx)
	node := &treeNode{IsLeaf: true, Value: mean}
	if len(idx) < dt.MinSamplesSplit || depth >= dt.MaxDepth || sse == 0 {
		return node
	}
	bestFeature := -1
	bestThr := 0.0
	bestSSE := sse
	var leftBest, rightBest []int
	search := func(feats []int) {
		for _, f := range feats {
			for _, thr := range candidateThresholds(dt.rng, X, idx, f, dt.MaxThresholdsPerFe) {
				l, r := splitIdx(X, idx, f, thr)
				if len(l) == 0 || len(r) == 0 {
					continue
				}
				_, ls := meanSSE(y, l)
				_, rs := meanSSE(y, r)
				if ls+rs < bestSSE {
					bestSSE = ls + rs
					bestFeature, bestThr = f, thr
					leftBest, rightBest = l, r
				}
			}
		}
	}
	feats := pickFeatures(dt.rng, dt.width, dt.MaxFeatures)
	search(feats)
	if bestFeature == -1 && len(feats) < dt.width {
		// the sampled features could not split; fall back to all of them
		search(pickFeatures(dt.rng, dt.width, 0))
	}
	if bestFeature == -1 {
		return node
	}
	node.IsLeaf = false
	node.Feature = bestFeature
	node.Threshold = bestThr
	node.Left = dt.build(X, y, leftBest, depth+1)
	node.Right = dt.build(X, y, rightBest, depth+1)
	return node
}

// meanSSE returns the mean of y over idx and the sum of squared deviations.
func meanSSE(y []float64, idx []int) (float64, float64) {
	if len(idx) == 0 {
		return 0, 0
	}
	var s float64
	for _, i := range idx {
		s += y[i]
	}
	m := s / float64(len(idx))
	var sse float64
	for _, i := range idx {
		d := y[i] - m
		sse += d * d
	}
	return m, sse
}

func splitIdx(X [][]float64, idx []int, f int, thr float64) ([]int, []int) {
	l := make([]int, 0, len(idx))
	r := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][f] <= thr {
			l = append(l, i)
		} else {
			r = append(r, i)
		}
	}
	return l, r
}

// candidateThresholds samples up to maxC distinct feature values as split points.
func candidateThresholds(rng *rand.Rand, X [][]float64, idx []int, f int, maxC int) []float64 {
	seen := make(map[float64]bool, len(idx))
	values := make([]float64, 0, len(idx))
	for _, i := range idx {
		v := X[i][f]
		if !seen[v] && !math.IsNaN(v) {
			seen[v] = true
			values = append(values, v)
		}
	}
	if maxC <= 0 || maxC >= len(values) {
		return values
	}
	rng.Shuffle(len(values), func(i, j int) { values[i], values[j] = values[j], values[i] })
	return values[:maxC]
}

func pickFeatures(rng *rand.Rand, nFeats int, maxFeats int) []int {
	idx := make([]int, nFeats)
	for i := range idx {
		idx[i] = i
	}
	if maxFeats <= 0 || maxFeats >= nFeats {
		return idx
	}
	rng.Shuffle(nFeats, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
	return idx[:maxFeats]
}
