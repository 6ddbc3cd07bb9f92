package model

import (
	"math"
	"testing"

	cropErrors "cropadvisor/common/errors"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestMinMaxScaler_Transform(t *testing.T) {
	// fitted on columns with ranges [0,10] and [-5,5]
	scaler, err := NewMinMaxScaler([]float64{0.1, 0.1}, []float64{0, 0.5})
	require.NoError(t, err)

	got, cErr := scaler.Transform(Matrix{{0, -5}, {10, 5}, {2.5, 0}})
	require.Nil(t, cErr)

	want := Matrix{{0, 0}, {1, 1}, {0.25, 0.5}}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("Transform() mismatch (-want +got):\n%s", diff)
	}
}

func TestMinMaxScaler_DoesNotMutateInput(t *testing.T) {
	scaler, err := NewMinMaxScaler([]float64{2}, []float64{1})
	require.NoError(t, err)

	in := Matrix{{3}}
	_, cErr := scaler.Transform(in)
	require.Nil(t, cErr)
	assert.Equal(t, Matrix{{3}}, in)
}

func TestMinMaxScaler_DimensionMismatch(t *testing.T) {
	scaler, err := NewMinMaxScaler(make([]float64, 7), make([]float64, 7))
	require.NoError(t, err)

	_, cErr := scaler.Transform(Matrix{make([]float64, 6)})
	require.NotNil(t, cErr)
	assert.True(t, cErr.IsErrorType(cropErrors.ErrorTypeDimensionMismatch))
	assert.Equal(t, "X has 6 features, but MinMaxScaler is expecting 7 features as input", cErr.Message())

	_, cErr = scaler.Transform(Matrix{})
	require.NotNil(t, cErr)
	assert.True(t, cErr.IsErrorType(cropErrors.ErrorTypeDimensionMismatch))
}

func TestNewMinMaxScaler_Invalid(t *testing.T) {
	_, err := NewMinMaxScaler(nil, nil)
	assert.Error(t, err)
	_, err = NewMinMaxScaler([]float64{1, 2}, []float64{1})
	assert.Error(t, err)
}

func TestScalers_RejectNonFiniteParameters(t *testing.T) {
	nan, inf := math.NaN(), math.Inf(1)

	_, err := NewMinMaxScaler([]float64{1, nan}, []float64{0, 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min-max scaler scale[1] is not finite")

	_, err = NewMinMaxScaler([]float64{1, 1}, []float64{-inf, 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min-max scaler min[0] is not finite")

	_, err = NewStandardScaler([]float64{0, inf}, []float64{1, 1}, true, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "standard scaler mean[1] is not finite")

	_, err = NewStandardScaler([]float64{0, 0}, []float64{nan, 1}, true, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "standard scaler scale[0] is not finite")
}

func TestStandardScaler_Transform(t *testing.T) {
	tests := []struct {
		name     string
		withMean bool
		withStd  bool
		want     Matrix
	}{
		{"mean and std", true, true, Matrix{{1, -1}}},
		{"mean only", true, false, Matrix{{2, -4}}},
		{"std only", false, true, Matrix{{1.5, 0.25}}},
		{"passthrough", false, false, Matrix{{3, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scaler, err := NewStandardScaler([]float64{1, 5}, []float64{2, 4}, tt.withMean, tt.withStd)
			require.NoError(t, err)

			got, cErr := scaler.Transform(Matrix{{3, 1}})
			require.Nil(t, cErr)
			if diff := cmp.Diff(tt.want, got, approx); diff != "" {
				t.Errorf("Transform() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewStandardScaler_Invalid(t *testing.T) {
	_, err := NewStandardScaler(nil, nil, true, true)
	assert.Error(t, err)
	_, err = NewStandardScaler([]float64{0, 0}, []float64{1}, true, true)
	assert.Error(t, err)
	_, err = NewStandardScaler([]float64{0, 0}, []float64{1, 0}, true, true)
	assert.Error(t, err)
	_, err = NewStandardScaler([]float64{0}, []float64{1, 1}, true, true)
	assert.Error(t, err)
}

func TestStandardScaler_DimensionMismatch(t *testing.T) {
	scaler, err := NewStandardScaler([]float64{0, 0, 0}, []float64{1, 1, 1}, true, true)
	require.NoError(t, err)

	_, cErr := scaler.Transform(Matrix{{1, 2}})
	require.NotNil(t, cErr)
	assert.Equal(t, "X has 2 features, but StandardScaler is expecting 3 features as input", cErr.Message())
}

func TestNewRowMatrix(t *testing.T) {
	row := []float64{1, 2, 3}
	m := NewRowMatrix(row)
	row[0] = 99

	assert.Equal(t, 1, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 1.0, m[0][0])
	assert.Equal(t, 0, Matrix{}.Cols())
}
