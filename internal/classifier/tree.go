// Package classifier implements a small CART decision tree over dense
// float64 feature vectors with integer class labels.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// DefaultMaxDepth bounds the tree depth when Config.MaxDepth is unset.
const DefaultMaxDepth = 6

var (
	// ErrEmptyTrainingSet is returned when Fit receives no rows.
	ErrEmptyTrainingSet = errors.New("empty training set")

	// ErrNotFitted is returned by Predict on a tree without a root.
	ErrNotFitted = errors.New("tree is not fitted")
)

// Config controls tree growth.
type Config struct {
	MaxDepth        int
	MinSamplesSplit int
}

// Node is a decision or leaf node. Rows with x[Feature] <= Threshold go
// left.
type Node struct {
	Leaf      bool    `json:"leaf"`
	Class     int     `json:"class"`
	Samples   int     `json:"samples"`
	Feature   int     `json:"feature,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Left      *Node   `json:"left,omitempty"`
	Right     *Node   `json:"right,omitempty"`
}

// Tree is a fitted classifier.
type Tree struct {
	Root     *Node `json:"root"`
	Features int   `json:"features"`
	Classes  int   `json:"classes"`
	MaxDepth int   `json:"max_depth"`
}

// Fit grows a tree on x (rows of equal width) and labels y in [0, k).
func Fit(x [][]float64, y []int, cfg Config) (*Tree, error) {
	if len(x) == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("row count %d does not match label count %d", len(x), len(y))
	}
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = DefaultMaxDepth
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}

	width := len(x[0])
	if width == 0 {
		return nil, errors.New("rows have no features")
	}
	classes := 0
	for i, row := range x {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("row %d feature %d is not finite", i, j)
			}
		}
		if y[i] < 0 {
			return nil, fmt.Errorf("row %d has negative label %d", i, y[i])
		}
		classes = max(classes, y[i]+1)
	}

	b := &builder{x: x, y: y, cfg: cfg, width: width, classes: classes}
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}

	return &Tree{
		Root:     b.grow(idx, 0),
		Features: width,
		Classes:  classes,
		MaxDepth: cfg.MaxDepth,
	}, nil
}

// Predict returns the class for a single feature vector.
func (t *Tree) Predict(row []float64) (int, error) {
	if t == nil || t.Root == nil {
		return 0, ErrNotFitted
	}
	if len(row) != t.Features {
		return 0, fmt.Errorf("got %d features, want %d", len(row), t.Features)
	}
	n := t.Root
	for !n.Leaf {
		if n.Left == nil || n.Right == nil {
			return 0, fmt.Errorf("malformed node at feature %d", n.Feature)
		}
		if row[n.Feature] <= n.Threshold {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Class, nil
}

// Depth returns the depth of the deepest leaf; a single leaf has depth 0.
func (t *Tree) Depth() int {
	if t == nil {
		return 0
	}
	return depth(t.Root)
}

func depth(n *Node) int {
	if n == nil || n.Leaf {
		return 0
	}
	return 1 + max(depth(n.Left), depth(n.Right))
}

// Accuracy returns the fraction of rows predicted as their label.
func Accuracy(t *Tree, x [][]float64, y []int) float64 {
	if len(x) == 0 {
		return 0
	}
	hits := 0
	for i, row := range x {
		if c, err := t.Predict(row); err == nil && c == y[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(x))
}

type builder struct {
	x       [][]float64
	y       []int
	cfg     Config
	width   int
	classes int
}

func (b *builder) grow(idx []int, level int) *Node {
	counts := b.count(idx)
	node := &Node{Leaf: true, Class: majority(counts), Samples: len(idx)}

	if level >= b.cfg.MaxDepth || len(idx) < b.cfg.MinSamplesSplit || pure(counts) {
		return node
	}

	feature, threshold, ok := b.bestSplit(idx)
	if !ok {
		return node
	}

	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	node.Leaf = false
	node.Feature = feature
	node.Threshold = threshold
	node.Left = b.grow(left, level+1)
	node.Right = b.grow(right, level+1)
	return node
}

// bestSplit scans every feature for the threshold with the lowest weighted
// Gini impurity. Ties keep the earliest feature and smallest threshold.
func (b *builder) bestSplit(idx []int) (int, float64, bool) {
	n := len(idx)
	bestScore := math.Inf(1)
	bestFeature, bestThreshold := -1, 0.0

	sorted := make([]int, n)
	left := make([]int, b.classes)
	right := make([]int, b.classes)

	for f := range b.width {
		copy(sorted, idx)
		slices.SortStableFunc(sorted, func(a, c int) int {
			switch va, vc := b.x[a][f], b.x[c][f]; {
			case va < vc:
				return -1
			case va > vc:
				return 1
			}
			return 0
		})

		clear(left)
		copy(right, b.count(sorted))

		for k := 0; k < n-1; k++ {
			label := b.y[sorted[k]]
			left[label]++
			right[label]--

			cur, next := b.x[sorted[k]][f], b.x[sorted[k+1]][f]
			if cur == next {
				continue
			}
			nl, nr := k+1, n-k-1
			score := (float64(nl)*gini(left, nl) + float64(nr)*gini(right, nr)) / float64(n)
			if score < bestScore-1e-12 {
				bestScore = score
				bestFeature = f
				bestThreshold = cur + (next-cur)/2
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func (b *builder) count(idx []int) []int {
	counts := make([]int, b.classes)
	for _, i := range idx {
		counts[b.y[i]]++
	}
	return counts
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		sum += p * p
	}
	return 1 - sum
}

func majority(counts []int) int {
	best := 0
	for c := 1; c < len(counts); c++ {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

func pure(counts []int) bool {
	nonzero := 0
	for _, c := range counts {
		if c > 0 {
			nonzero++
		}
	}
	return nonzero <= 1
}
