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
)

// Matrix is a row-major batch of samples.
type Matrix [][]float64

// NewRowMatrix reshapes a single feature vector into a 1xN batch.
func NewRowMatrix(row []float64) Matrix {
	cp := make([]float64, len(row))
	copy(cp, row)
	return Matrix{cp}
}

func (m Matrix) Rows() int {
	return len(m)
}

// Cols returns the width of the first row, 0 for an empty matrix.
func (m Matrix) Cols() int {
	if len(m) == 0 {
		return 0
	}
	return len(m[0])
}

func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for i, row := range m {
		out[i] = make([]float64, len(row))
		copy(out[i], row)
	}
	return out
}

// checkShape verifies every row has exactly nFeatures columns.
func (m Matrix) checkShape(nFeatures int, estimator string) cropErrors.CropError {
	if len(m) == 0 {
		return cropErrors.NewCommonCropErrorf(cropErrors.ErrorTypeDimensionMismatch,
			"Found array with 0 sample(s) while a minimum of 1 is required by %s", estimator)
	}
	for _, row := range m {
		if len(row) != nFeatures {
			return cropErrors.NewCommonCropErrorf(cropErrors.ErrorTypeDimensionMismatch,
				"X has %d features, but %s is expecting %d features as input", len(row), estimator, nFeatures)
		}
	}
	return nil
}

func (m Matrix) checkFinite(estimator string) cropErrors.CropError {
	for _, row := range m {
		for _, v := range row {
			if math.IsNaN(v) {
				return cropErrors.NewCommonCropErrorf(cropErrors.ErrorTypeNumeric,
					"Input X contains NaN, %s does not accept missing values", estimator)
			}
			if math.IsInf(v, 0) {
				return cropErrors.NewCommonCropErrorf(cropErrors.ErrorTypeNumeric,
					"Input X contains infinity or a value too large for %s", estimator)
			}
		}
	}
	return nil
}

// checkFiniteParams rejects fitted parameters holding NaN or Inf.
func checkFiniteParams(name string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s[%d] is not finite: %v", name, i, v)
		}
	}
	return nil
}

// argmax returns the index of the largest value, skipping NaN, or -1 when
// every value is NaN.
func argmax(values []float64) int {
	best := -1
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if best < 0 || v > values[best] {
			best = i
		}
	}
	return best
}

// pickClass maps the best score to its class label.
func pickClass(classes, scores []float64, estimator string) (float64, cropErrors.CropError) {
	best := argmax(scores)
	if best < 0 {
		return 0, cropErrors.NewCommonCropErrorf(cropErrors.ErrorTypeNumeric,
			"%s produced no finite class score", estimator)
	}
	return classes[best], nil
}
