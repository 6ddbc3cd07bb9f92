package model

import (
	"math"
	"testing"

	cropErrors "cropadvisor/common/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stump splits on feature 0 at 0.5: left leaf favours class 1, right leaf class 2.
func stump(leftWeights, rightWeights []float64) TreeNodes {
	return TreeNodes{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{0, -2, -2},
		Threshold:     []float64{0.5, -2, -2},
		Value:         [][]float64{{5, 5}, leftWeights, rightWeights},
	}
}

func TestDecisionTree_Predict(t *testing.T) {
	tree, err := NewDecisionTree(stump([]float64{4, 0}, []float64{1, 3}), []float64{1, 2}, 2)
	require.NoError(t, err)

	got, cErr := tree.Predict(Matrix{{0.1, 9}, {0.5, 9}, {0.9, -9}})
	require.Nil(t, cErr)
	assert.Equal(t, []float64{1, 1, 2}, got)
	assert.Equal(t, []float64{1, 2}, tree.Classes())
	assert.Equal(t, 2, tree.NFeatures())
}

func TestNewDecisionTree_Invalid(t *testing.T) {
	classes := []float64{1, 2}

	_, err := NewDecisionTree(TreeNodes{}, classes, 2)
	assert.Error(t, err)

	cyclic := stump([]float64{1, 0}, []float64{0, 1})
	cyclic.ChildrenLeft[0] = 0
	_, err = NewDecisionTree(cyclic, classes, 2)
	assert.Error(t, err)

	badFeature := stump([]float64{1, 0}, []float64{0, 1})
	badFeature.Feature[0] = 5
	_, err = NewDecisionTree(badFeature, classes, 2)
	assert.Error(t, err)

	badWeights := stump([]float64{1}, []float64{0, 1})
	_, err = NewDecisionTree(badWeights, classes, 2)
	assert.Error(t, err)

	_, err = NewDecisionTree(stump([]float64{1, 0}, []float64{0, 1}), []float64{2, 1}, 2)
	assert.Error(t, err)
}

func TestRandomForest_SoftVote(t *testing.T) {
	trees := []TreeNodes{
		stump([]float64{10, 0}, []float64{0, 10}),
		stump([]float64{6, 4}, []float64{0, 10}),
		stump([]float64{0, 10}, []float64{10, 0}),
	}
	forest, err := NewRandomForest(trees, []float64{1, 2}, 1)
	require.NoError(t, err)

	// left: (1+0.6+0)=1.6 vs (0+0.4+1)=1.4 -> class 1; right: 1 vs 2 -> class 2
	got, cErr := forest.Predict(Matrix{{0}, {1}})
	require.Nil(t, cErr)
	assert.Equal(t, []float64{1, 2}, got)
}

func TestNewRandomForest_Invalid(t *testing.T) {
	_, err := NewRandomForest(nil, []float64{1}, 1)
	assert.Error(t, err)

	bad := stump([]float64{1, 0}, []float64{0, 1})
	bad.Threshold = bad.Threshold[:1]
	_, err = NewRandomForest([]TreeNodes{bad}, []float64{1, 2}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tree 0")
}

func TestGaussianNB_Predict(t *testing.T) {
	gnb, err := NewGaussianNB(
		[]float64{1, 2, 3},
		[][]float64{{0, 0}, {5, 5}, {-5, 5}},
		[][]float64{{1, 1}, {1, 1}, {1, 1}},
		[]float64{1.0 / 3, 1.0 / 3, 1.0 / 3},
		2,
	)
	require.NoError(t, err)

	got, cErr := gnb.Predict(Matrix{{0.2, -0.1}, {4, 6}, {-6, 4}})
	require.Nil(t, cErr)
	assert.Equal(t, []float64{1, 2, 3}, got)
}

func TestGaussianNB_PriorBreaksTie(t *testing.T) {
	gnb, err := NewGaussianNB(
		[]float64{1, 2},
		[][]float64{{-1}, {1}},
		[][]float64{{1}, {1}},
		[]float64{0.1, 0.9},
		1,
	)
	require.NoError(t, err)

	got, cErr := gnb.Predict(Matrix{{0}})
	require.Nil(t, cErr)
	assert.Equal(t, []float64{2}, got)
}

func TestNewGaussianNB_Invalid(t *testing.T) {
	_, err := NewGaussianNB([]float64{1}, [][]float64{{0}}, [][]float64{{0}}, []float64{1}, 1)
	assert.Error(t, err)
	_, err = NewGaussianNB([]float64{1, 2}, [][]float64{{0}}, [][]float64{{1}}, []float64{1}, 1)
	assert.Error(t, err)
	_, err = NewGaussianNB([]float64{1}, [][]float64{{0, 1}}, [][]float64{{1}}, []float64{1}, 1)
	assert.Error(t, err)
	_, err = NewGaussianNB([]float64{1}, [][]float64{{0}}, [][]float64{{1}}, []float64{-1}, 1)
	assert.Error(t, err)
}

func TestNewGaussianNB_RejectsNonFinite(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)
	tests := []struct {
		name    string
		classes []float64
		theta   [][]float64
		vars    [][]float64
		prior   []float64
		wantErr string
	}{
		{"nan theta", []float64{1, 2}, [][]float64{{nan, 0}, {5, 5}}, [][]float64{{1, 1}, {1, 1}}, []float64{.5, .5}, "theta[0][0]"},
		{"inf theta", []float64{1, 2}, [][]float64{{0, 0}, {5, -inf}}, [][]float64{{1, 1}, {1, 1}}, []float64{.5, .5}, "theta[1][1]"},
		{"inf variance", []float64{1, 2}, [][]float64{{0, 0}, {5, 5}}, [][]float64{{1, inf}, {1, 1}}, []float64{.5, .5}, "var[0][1]"},
		{"nan variance", []float64{1, 2}, [][]float64{{0, 0}, {5, 5}}, [][]float64{{1, 1}, {nan, 1}}, []float64{.5, .5}, "var[1][0]"},
		{"nan prior", []float64{1, 2}, [][]float64{{0, 0}, {5, 5}}, [][]float64{{1, 1}, {1, 1}}, []float64{nan, .5}, "class_prior[0]"},
		{"nan class", []float64{1, nan}, [][]float64{{0, 0}, {5, 5}}, [][]float64{{1, 1}, {1, 1}}, []float64{.5, .5}, "classes[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnb, err := NewGaussianNB(tt.classes, tt.theta, tt.vars, tt.prior, 2)
			require.Error(t, err)
			assert.Nil(t, gnb)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Contains(t, err.Error(), "not finite")
		})
	}
}

func TestNewDecisionTree_RejectsNonFinite(t *testing.T) {
	classes := []float64{1, 2}

	nanThreshold := stump([]float64{1, 0}, []float64{0, 1})
	nanThreshold.Threshold[0] = math.NaN()
	_, err := NewDecisionTree(nanThreshold, classes, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-finite threshold")

	infWeight := stump([]float64{math.Inf(1), 0}, []float64{0, 1})
	_, err = NewDecisionTree(infWeight, classes, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not finite")

	negativeWeight := stump([]float64{-1, 2}, []float64{0, 1})
	_, err = NewDecisionTree(negativeWeight, classes, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative class weight")

	_, err = NewRandomForest([]TreeNodes{stump([]float64{1, 0}, []float64{0, 1}), nanThreshold}, classes, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tree 1")
}

func TestNewKNearestNeighbors_RejectsNonFinite(t *testing.T) {
	_, err := NewKNearestNeighbors([]float64{1, 2}, [][]float64{{0}, {math.Inf(-1)}}, []float64{1, 2}, 1, WeightsUniform, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "knn sample 1[0] is not finite")
}

func TestArgmax_SkipsNaN(t *testing.T) {
	nan := math.NaN()
	assert.Equal(t, 2, argmax([]float64{nan, 1, 3, 2}))
	assert.Equal(t, 1, argmax([]float64{nan, math.Inf(-1)}))
	assert.Equal(t, 0, argmax([]float64{4, nan, 4}))
	assert.Equal(t, -1, argmax([]float64{nan, nan}))
	assert.Equal(t, -1, argmax(nil))

	_, cErr := pickClass([]float64{1, 2}, []float64{nan, nan}, "GaussianNB")
	require.NotNil(t, cErr)
	assert.True(t, cErr.IsErrorType(cropErrors.ErrorTypeNumeric))
	assert.Equal(t, "GaussianNB produced no finite class score", cErr.Message())

	class, cErr := pickClass([]float64{1, 2}, []float64{nan, -3}, "GaussianNB")
	require.Nil(t, cErr)
	assert.Equal(t, 2.0, class)
}

func TestKNearestNeighbors_Uniform(t *testing.T) {
	knn, err := NewKNearestNeighbors(
		[]float64{1, 2},
		[][]float64{{0, 0}, {0, 1}, {1, 0}, {10, 10}, {10, 11}},
		[]float64{1, 1, 1, 2, 2},
		3, WeightsUniform, 2,
	)
	require.NoError(t, err)

	got, cErr := knn.Predict(Matrix{{0.5, 0.5}, {9, 9}})
	require.Nil(t, cErr)
	assert.Equal(t, []float64{1, 2}, got)
}

func TestKNearestNeighbors_Distance(t *testing.T) {
	knn, err := NewKNearestNeighbors(
		[]float64{1, 2},
		[][]float64{{0}, {3}, {3.5}},
		[]float64{1, 2, 2},
		3, WeightsDistance, 1,
	)
	require.NoError(t, err)

	// uniform would pick 2 (two votes), distance weighting favours the close sample
	got, cErr := knn.Predict(Matrix{{0.5}, {3}})
	require.Nil(t, cErr)
	assert.Equal(t, []float64{1, 2}, got)
}

func TestNewKNearestNeighbors_Invalid(t *testing.T) {
	classes := []float64{1, 2}
	x := [][]float64{{0}, {1}}
	y := []float64{1, 2}

	_, err := NewKNearestNeighbors(classes, x, y, 3, WeightsUniform, 1)
	assert.Error(t, err)
	_, err = NewKNearestNeighbors(classes, x, y, 1, "cosine", 1)
	assert.Error(t, err)
	_, err = NewKNearestNeighbors(classes, x, []float64{1, 7}, 1, WeightsUniform, 1)
	assert.Error(t, err)
	_, err = NewKNearestNeighbors(classes, x, y, 1, WeightsUniform, 2)
	assert.Error(t, err)
	_, err = NewKNearestNeighbors(classes, x, y[:1], 1, WeightsUniform, 1)
	assert.Error(t, err)
}

func TestClassifiers_RejectNonFiniteAndWrongShape(t *testing.T) {
	tree, err := NewDecisionTree(stump([]float64{1, 0}, []float64{0, 1}), []float64{1, 2}, 1)
	require.NoError(t, err)
	gnb, err := NewGaussianNB([]float64{1}, [][]float64{{0}}, [][]float64{{1}}, []float64{1}, 1)
	require.NoError(t, err)
	knn, err := NewKNearestNeighbors([]float64{1}, [][]float64{{0}}, []float64{1}, 1, "", 1)
	require.NoError(t, err)
	forest, err := NewRandomForest([]TreeNodes{stump([]float64{1, 0}, []float64{0, 1})}, []float64{1, 2}, 1)
	require.NoError(t, err)

	for _, c := range []Classifier{tree, gnb, knn, forest} {
		t.Run(c.Name(), func(t *testing.T) {
			_, cErr := c.Predict(Matrix{{math.NaN()}})
			require.NotNil(t, cErr)
			assert.True(t, cErr.IsErrorType(cropErrors.ErrorTypeNumeric))

			_, cErr = c.Predict(Matrix{{math.Inf(1)}})
			require.NotNil(t, cErr)
			assert.True(t, cErr.IsErrorType(cropErrors.ErrorTypeNumeric))

			_, cErr = c.Predict(Matrix{{1, 2}})
			require.NotNil(t, cErr)
			assert.True(t, cErr.IsErrorType(cropErrors.ErrorTypeDimensionMismatch))
		})
	}
}
