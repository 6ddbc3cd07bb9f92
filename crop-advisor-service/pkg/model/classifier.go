/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package model

import (
	"fmt"
	"math"

	cropErrors "cropadvisor/common/errors"
	"golang.org/x/exp/slices"
)

// Classifier maps each row of a batch to one class label. Labels are float64
// because that is how the fitted class arrays are serialized.
type Classifier interface {
	Name() string
	NFeatures() int
	Classes() []float64
	Predict(x Matrix) ([]float64, cropErrors.CropError)
}

const (
	WeightsUniform  = "uniform"
	WeightsDistance = "distance"
	leafNode        = -1
)

func validateClasses(classes []float64) error {
	if len(classes) == 0 {
		return fmt.Errorf("classifier has no classes")
	}
	if err := checkFiniteParams("classes", classes); err != nil {
		return err
	}
	if !slices.IsSorted(classes) {
		return fmt.Errorf("classifier classes must be sorted ascending")
	}
	return nil
}

// TreeNodes is the flattened node layout of a fitted decision tree. Node 0 is
// the root; a node whose left child is -1 is a leaf.
type TreeNodes struct {
	ChildrenLeft  []int       `json:"children_left" yaml:"children_left"`
	ChildrenRight []int       `json:"children_right" yaml:"children_right"`
	Feature       []int       `json:"feature" yaml:"feature"`
	Threshold     []float64   `json:"threshold" yaml:"threshold"`
	Value         [][]float64 `json:"value" yaml:"value"`
}

type DecisionTree struct {
	nodes     TreeNodes
	classes   []float64
	nFeatures int
}

func NewDecisionTree(nodes TreeNodes, classes []float64, nFeatures int) (*DecisionTree, error) {
	if err := validateClasses(classes); err != nil {
		return nil, err
	}
	n := len(nodes.ChildrenLeft)
	if n == 0 {
		return nil, fmt.Errorf("decision tree has no nodes")
	}
	if len(nodes.ChildrenRight) != n || len(nodes.Feature) != n || len(nodes.Threshold) != n || len(nodes.Value) != n {
		return nil, fmt.Errorf("decision tree node arrays have inconsistent lengths")
	}
	for i := 0; i < n; i++ {
		left, right := nodes.ChildrenLeft[i], nodes.ChildrenRight[i]
		if len(nodes.Value[i]) != len(classes) {
			return nil, fmt.Errorf("decision tree node %d has %d class weights, expected %d", i, len(nodes.Value[i]), len(classes))
		}
		if err := checkFiniteParams(fmt.Sprintf("decision tree node %d value", i), nodes.Value[i]); err != nil {
			return nil, err
		}
		for _, w := range nodes.Value[i] {
			if w < 0 {
				return nil, fmt.Errorf("decision tree node %d has negative class weight %v", i, w)
			}
		}
		if left == leafNode && right == leafNode {
			continue
		}
		// children always come after their parent, which also rules out cycles
		if left <= i || right <= i || left >= n || right >= n {
			return nil, fmt.Errorf("decision tree node %d has invalid children %d/%d", i, left, right)
		}
		if nodes.Feature[i] < 0 || nodes.Feature[i] >= nFeatures {
			return nil, fmt.Errorf("decision tree node %d splits on feature %d, expected < %d", i, nodes.Feature[i], nFeatures)
		}
		if math.IsNaN(nodes.Threshold[i]) || math.IsInf(nodes.Threshold[i], 0) {
			return nil, fmt.Errorf("decision tree node %d has non-finite threshold %v", i, nodes.Threshold[i])
		}
	}
	return &DecisionTree{nodes: nodes, classes: copyOf(classes), nFeatures: nFeatures}, nil
}

func (t *DecisionTree) Name() string {
	return "DecisionTreeClassifier"
}

func (t *DecisionTree) NFeatures() int {
	return t.nFeatures
}

func (t *DecisionTree) Classes() []float64 {
	return copyOf(t.classes)
}

// leafDistribution walks the tree for one row and returns the normalised class
// weights of the reached leaf.
func (t *DecisionTree) leafDistribution(row []float64) []float64 {
	node := 0
	for t.nodes.ChildrenLeft[node] != leafNode {
		if row[t.nodes.Feature[node]] <= t.nodes.Threshold[node] {
			node = t.nodes.ChildrenLeft[node]
		} else {
			node = t.nodes.ChildrenRight[node]
		}
	}
	weights := t.nodes.Value[node]
	total := 0.0
	for _, w := range weights {
		total += w
	}
	proba := make([]float64, len(weights))
	for i, w := range weights {
		if total > 0 {
			proba[i] = w / total
		}
	}
	return proba
}

func (t *DecisionTree) Predict(x Matrix) ([]float64, cropErrors.CropError) {
	if err := x.checkShape(t.nFeatures, t.Name()); err != nil {
		return nil, err
	}
	if err := x.checkFinite(t.Name()); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, row := range x {
		class, err := pickClass(t.classes, t.leafDistribution(row), t.Name())
		if err != nil {
			return nil, err
		}
		out[i] = class
	}
	return out, nil
}

// RandomForest averages the leaf distributions of its trees (soft voting).
type RandomForest struct {
	trees     []*DecisionTree
	classes   []float64
	nFeatures int
}

func NewRandomForest(trees []TreeNodes, classes []float64, nFeatures int) (*RandomForest, error) {
	if len(trees) == 0 {
		return nil, fmt.Errorf("random forest has no trees")
	}
	forest := &RandomForest{classes: copyOf(classes), nFeatures: nFeatures}
	for i, nodes := range trees {
		tree, err := NewDecisionTree(nodes, classes, nFeatures)
		if err != nil {
			return nil, fmt.Errorf("random forest tree %d: %v", i, err)
		}
		forest.trees = append(forest.trees, tree)
	}
	return forest, nil
}

func (f *RandomForest) Name() string {
	return "RandomForestClassifier"
}

func (f *RandomForest) NFeatures() int {
	return f.nFeatures
}

func (f *RandomForest) Classes() []float64 {
	return copyOf(f.classes)
}

func (f *RandomForest) Predict(x Matrix) ([]float64, cropErrors.CropError) {
	if err := x.checkShape(f.nFeatures, f.Name()); err != nil {
		return nil, err
	}
	if err := x.checkFinite(f.Name()); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, row := range x {
		proba := make([]float64, len(f.classes))
		for _, tree := range f.trees {
			for c, p := range tree.leafDistribution(row) {
				proba[c] += p
			}
		}
		class, err := pickClass(f.classes, proba, f.Name())
		if err != nil {
			return nil, err
		}
		out[i] = class
	}
	return out, nil
}

// GaussianNB scores each class by its joint log-likelihood under independent
// per-feature normal distributions.
type GaussianNB struct {
	classes    []float64
	theta      [][]float64
	variance   [][]float64
	classPrior []float64
	nFeatures  int
}

func NewGaussianNB(classes []float64, theta, variance [][]float64, classPrior []float64, nFeatures int) (*GaussianNB, error) {
	if err := validateClasses(classes); err != nil {
		return nil, err
	}
	nClasses := len(classes)
	if len(theta) != nClasses || len(variance) != nClasses || len(classPrior) != nClasses {
		return nil, fmt.Errorf("gaussian nb parameters do not match %d classes", nClasses)
	}
	for c := 0; c < nClasses; c++ {
		if len(theta[c]) != nFeatures || len(variance[c]) != nFeatures {
			return nil, fmt.Errorf("gaussian nb class %d parameters do not match %d features", c, nFeatures)
		}
		if err := checkFiniteParams(fmt.Sprintf("gaussian nb theta[%d]", c), theta[c]); err != nil {
			return nil, err
		}
		if err := checkFiniteParams(fmt.Sprintf("gaussian nb var[%d]", c), variance[c]); err != nil {
			return nil, err
		}
		for j, v := range variance[c] {
			if v <= 0 {
				return nil, fmt.Errorf("gaussian nb class %d feature %d has non-positive variance %v", c, j, v)
			}
		}
	}
	if err := checkFiniteParams("gaussian nb class_prior", classPrior); err != nil {
		return nil, err
	}
	for c, prior := range classPrior {
		if prior < 0 {
			return nil, fmt.Errorf("gaussian nb class %d has negative prior %v", c, prior)
		}
	}
	return &GaussianNB{
		classes:    copyOf(classes),
		theta:      theta,
		variance:   variance,
		classPrior: copyOf(classPrior),
		nFeatures:  nFeatures,
	}, nil
}

func (g *GaussianNB) Name() string {
	return "GaussianNB"
}

func (g *GaussianNB) NFeatures() int {
	return g.nFeatures
}

func (g *GaussianNB) Classes() []float64 {
	return copyOf(g.classes)
}

func (g *GaussianNB) jointLogLikelihood(row []float64) []float64 {
	jll := make([]float64, len(g.classes))
	for c := range g.classes {
		logPrior := math.Log(g.classPrior[c])
		norm, sq := 0.0, 0.0
		for j, x := range row {
			v := g.variance[c][j]
			d := x - g.theta[c][j]
			norm += math.Log(2 * math.Pi * v)
			sq += d * d / v
		}
		jll[c] = logPrior - 0.5*norm - 0.5*sq
	}
	return jll
}

func (g *GaussianNB) Predict(x Matrix) ([]float64, cropErrors.CropError) {
	if err := x.checkShape(g.nFeatures, g.Name()); err != nil {
		return nil, err
	}
	if err := x.checkFinite(g.Name()); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, row := range x {
		class, err := pickClass(g.classes, g.jointLogLikelihood(row), g.Name())
		if err != nil {
			return nil, err
		}
		out[i] = class
	}
	return out, nil
}

// KNearestNeighbors votes among the k closest stored samples by euclidean distance.
type KNearestNeighbors struct {
	classes   []float64
	fitX      [][]float64
	fitY      []int
	k         int
	weights   string
	nFeatures int
}

func NewKNearestNeighbors(classes []float64, fitX [][]float64, fitY []float64, k int, weights string, nFeatures int) (*KNearestNeighbors, error) {
	if err := validateClasses(classes); err != nil {
		return nil, err
	}
	if weights == "" {
		weights = WeightsUniform
	}
	if weights != WeightsUniform && weights != WeightsDistance {
		return nil, fmt.Errorf("knn weights %q is not supported", weights)
	}
	if len(fitX) == 0 || len(fitX) != len(fitY) {
		return nil, fmt.Errorf("knn has %d samples and %d labels", len(fitX), len(fitY))
	}
	if k < 1 || k > len(fitX) {
		return nil, fmt.Errorf("knn n_neighbors %d must be between 1 and %d", k, len(fitX))
	}
	labelIdx := make([]int, len(fitY))
	for i, label := range fitY {
		if len(fitX[i]) != nFeatures {
			return nil, fmt.Errorf("knn sample %d has %d features, expected %d", i, len(fitX[i]), nFeatures)
		}
		if err := checkFiniteParams(fmt.Sprintf("knn sample %d", i), fitX[i]); err != nil {
			return nil, err
		}
		idx := slices.Index(classes, label)
		if idx < 0 {
			return nil, fmt.Errorf("knn sample %d has label %v outside of classes", i, label)
		}
		labelIdx[i] = idx
	}
	return &KNearestNeighbors{
		classes:   copyOf(classes),
		fitX:      fitX,
		fitY:      labelIdx,
		k:         k,
		weights:   weights,
		nFeatures: nFeatures,
	}, nil
}

func (n *KNearestNeighbors) Name() string {
	return "KNeighborsClassifier"
}

func (n *KNearestNeighbors) NFeatures() int {
	return n.nFeatures
}

func (n *KNearestNeighbors) Classes() []float64 {
	return copyOf(n.classes)
}

func (n *KNearestNeighbors) vote(row []float64) []float64 {
	distances := make([]float64, len(n.fitX))
	order := make([]int, len(n.fitX))
	for i, sample := range n.fitX {
		sum := 0.0
		for j, v := range sample {
			d := row[j] - v
			sum += d * d
		}
		distances[i] = math.Sqrt(sum)
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case distances[a] < distances[b]:
			return -1
		case distances[a] > distances[b]:
			return 1
		default:
			return 0
		}
	})
	neighbours := order[:n.k]

	votes := make([]float64, len(n.classes))
	if n.weights == WeightsDistance {
		// exact matches take all the weight
		exact := false
		for _, idx := range neighbours {
			if distances[idx] == 0 {
				votes[n.fitY[idx]]++
				exact = true
			}
		}
		if exact {
			return votes
		}
		for _, idx := range neighbours {
			votes[n.fitY[idx]] += 1 / distances[idx]
		}
		return votes
	}
	for _, idx := range neighbours {
		votes[n.fitY[idx]]++
	}
	return votes
}

func (n *KNearestNeighbors) Predict(x Matrix) ([]float64, cropErrors.CropError) {
	if err := x.checkShape(n.nFeatures, n.Name()); err != nil {
		return nil, err
	}
	if err := x.checkFinite(n.Name()); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	for i, row := range x {
		class, err := pickClass(n.classes, n.vote(row), n.Name())
		if err != nil {
			return nil, err
		}
		out[i] = class
	}
	return out, nil
}
