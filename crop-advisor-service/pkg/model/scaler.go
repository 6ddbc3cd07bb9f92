/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package model

import (
	"fmt"

	cropErrors "cropadvisor/common/errors"
)

// Transformer is a pre-fit feature transformation. Implementations are
// immutable once built and safe to share between goroutines.
type Transformer interface {
	Name() string
	NFeatures() int
	Transform(x Matrix) (Matrix, cropErrors.CropError)
}

// MinMaxScaler applies x*Scale + Min per column, the form a fitted min-max
// scaler is stored in.
type MinMaxScaler struct {
	scale []float64
	min   []float64
}

func NewMinMaxScaler(scale, offset []float64) (*MinMaxScaler, error) {
	if len(scale) == 0 {
		return nil, fmt.Errorf("min-max scaler has no fitted features")
	}
	if len(scale) != len(offset) {
		return nil, fmt.Errorf("min-max scaler scale has %d values but min has %d", len(scale), len(offset))
	}
	if err := checkFiniteParams("min-max scaler scale", scale); err != nil {
		return nil, err
	}
	if err := checkFiniteParams("min-max scaler min", offset); err != nil {
		return nil, err
	}
	return &MinMaxScaler{scale: copyOf(scale), min: copyOf(offset)}, nil
}

func (s *MinMaxScaler) Name() string {
	return "MinMaxScaler"
}

func (s *MinMaxScaler) NFeatures() int {
	return len(s.scale)
}

func (s *MinMaxScaler) Transform(x Matrix) (Matrix, cropErrors.CropError) {
	if err := x.checkShape(len(s.scale), s.Name()); err != nil {
		return nil, err
	}
	out := x.Clone()
	for _, row := range out {
		for j := range row {
			row[j] = row[j]*s.scale[j] + s.min[j]
		}
	}
	return out, nil
}

// StandardScaler centers on Mean and divides by Scale. Either step can be
// switched off the same way it was at fit time.
type StandardScaler struct {
	mean     []float64
	scale    []float64
	withMean bool
	withStd  bool
}

func NewStandardScaler(mean, scale []float64, withMean, withStd bool) (*StandardScaler, error) {
	nFeatures := len(mean)
	if nFeatures == 0 {
		nFeatures = len(scale)
	}
	if nFeatures == 0 {
		return nil, fmt.Errorf("standard scaler has no fitted features")
	}
	if withMean && len(mean) != nFeatures {
		return nil, fmt.Errorf("standard scaler mean has %d values, expected %d", len(mean), nFeatures)
	}
	if withStd {
		if len(scale) != nFeatures {
			return nil, fmt.Errorf("standard scaler scale has %d values, expected %d", len(scale), nFeatures)
		}
		for i, v := range scale {
			if v == 0 {
				return nil, fmt.Errorf("standard scaler scale[%d] is zero", i)
			}
		}
	}
	if err := checkFiniteParams("standard scaler mean", mean); err != nil {
		return nil, err
	}
	if err := checkFiniteParams("standard scaler scale", scale); err != nil {
		return nil, err
	}
	return &StandardScaler{
		mean:     copyOf(mean),
		scale:    copyOf(scale),
		withMean: withMean,
		withStd:  withStd,
	}, nil
}

func (s *StandardScaler) Name() string {
	return "StandardScaler"
}

func (s *StandardScaler) NFeatures() int {
	if len(s.mean) > 0 {
		return len(s.mean)
	}
	return len(s.scale)
}

func (s *StandardScaler) Transform(x Matrix) (Matrix, cropErrors.CropError) {
	if err := x.checkShape(s.NFeatures(), s.Name()); err != nil {
		return nil, err
	}
	out := x.Clone()
	for _, row := range out {
		for j := range row {
			if s.withMean {
				row[j] -= s.mean[j]
			}
			if s.withStd {
				row[j] /= s.scale[j]
			}
		}
	}
	return out, nil
}

func copyOf(values []float64) []float64 {
	if values == nil {
		return nil
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out
}
