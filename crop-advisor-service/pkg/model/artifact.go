/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package model

import (
	"fmt"
)

type Kind string

const (
	KindMinMax       Kind = "minmax"
	KindStandard     Kind = "standard"
	KindDecisionTree Kind = "decision_tree"
	KindRandomForest Kind = "random_forest"
	KindGaussianNB   Kind = "gaussian_nb"
	KindKNN          Kind = "knn"
)

// ArtifactEnvelope is the serialized form of every pre-fit artifact. Only the
// parameters of the declared Kind are read.
type ArtifactEnvelope struct {
	Kind         Kind     `json:"kind" yaml:"kind"`
	NFeaturesIn  int      `json:"n_features_in" yaml:"n_features_in"`
	FeatureNames []string `json:"feature_names,omitempty" yaml:"feature_names,omitempty"`

	// minmax
	Min []float64 `json:"min,omitempty" yaml:"min,omitempty"`
	// minmax and standard
	Scale []float64 `json:"scale,omitempty" yaml:"scale,omitempty"`
	// standard
	Mean     []float64 `json:"mean,omitempty" yaml:"mean,omitempty"`
	WithMean *bool     `json:"with_mean,omitempty" yaml:"with_mean,omitempty"`
	WithStd  *bool     `json:"with_std,omitempty" yaml:"with_std,omitempty"`

	// classifiers
	Classes    []float64   `json:"classes,omitempty" yaml:"classes,omitempty"`
	Tree       *TreeNodes  `json:"tree,omitempty" yaml:"tree,omitempty"`
	Trees      []TreeNodes `json:"trees,omitempty" yaml:"trees,omitempty"`
	Theta      [][]float64 `json:"theta,omitempty" yaml:"theta,omitempty"`
	Var        [][]float64 `json:"var,omitempty" yaml:"var,omitempty"`
	ClassPrior []float64   `json:"class_prior,omitempty" yaml:"class_prior,omitempty"`
	NNeighbors int         `json:"n_neighbors,omitempty" yaml:"n_neighbors,omitempty"`
	Weights    string      `json:"weights,omitempty" yaml:"weights,omitempty"`
	FitX       [][]float64 `json:"fit_x,omitempty" yaml:"fit_x,omitempty"`
	FitY       []float64   `json:"fit_y,omitempty" yaml:"fit_y,omitempty"`
}

func (a *ArtifactEnvelope) IsTransformer() bool {
	return a.Kind == KindMinMax || a.Kind == KindStandard
}

func (a *ArtifactEnvelope) IsClassifier() bool {
	switch a.Kind {
	case KindDecisionTree, KindRandomForest, KindGaussianNB, KindKNN:
		return true
	default:
		return false
	}
}

func (a *ArtifactEnvelope) checkFeatureCount(nFeatures int) error {
	if a.NFeaturesIn != 0 && a.NFeaturesIn != nFeatures {
		return fmt.Errorf("%s artifact declares %d features but its parameters describe %d", a.Kind, a.NFeaturesIn, nFeatures)
	}
	if len(a.FeatureNames) != 0 && len(a.FeatureNames) != nFeatures {
		return fmt.Errorf("%s artifact lists %d feature names for %d features", a.Kind, len(a.FeatureNames), nFeatures)
	}
	return nil
}

// BuildTransformer turns a scaler envelope into its Transformer.
func (a *ArtifactEnvelope) BuildTransformer() (Transformer, error) {
	switch a.Kind {
	case KindMinMax:
		scaler, err := NewMinMaxScaler(a.Scale, a.Min)
		if err != nil {
			return nil, err
		}
		if err := a.checkFeatureCount(scaler.NFeatures()); err != nil {
			return nil, err
		}
		return scaler, nil
	case KindStandard:
		withMean, withStd := boolOr(a.WithMean, true), boolOr(a.WithStd, true)
		scaler, err := NewStandardScaler(a.Mean, a.Scale, withMean, withStd)
		if err != nil {
			return nil, err
		}
		if err := a.checkFeatureCount(scaler.NFeatures()); err != nil {
			return nil, err
		}
		return scaler, nil
	default:
		return nil, fmt.Errorf("artifact kind %q is not a scaler", a.Kind)
	}
}

// BuildClassifier turns a classifier envelope into its Classifier.
func (a *ArtifactEnvelope) BuildClassifier() (Classifier, error) {
	if !a.IsClassifier() {
		return nil, fmt.Errorf("artifact kind %q is not a classifier", a.Kind)
	}
	if a.NFeaturesIn <= 0 {
		return nil, fmt.Errorf("%s artifact must declare n_features_in", a.Kind)
	}
	if err := a.checkFeatureCount(a.NFeaturesIn); err != nil {
		return nil, err
	}
	switch a.Kind {
	case KindDecisionTree:
		if a.Tree == nil {
			return nil, fmt.Errorf("decision_tree artifact has no tree")
		}
		return NewDecisionTree(*a.Tree, a.Classes, a.NFeaturesIn)
	case KindRandomForest:
		return NewRandomForest(a.Trees, a.Classes, a.NFeaturesIn)
	case KindGaussianNB:
		return NewGaussianNB(a.Classes, a.Theta, a.Var, a.ClassPrior, a.NFeaturesIn)
	default:
		return NewKNearestNeighbors(a.Classes, a.FitX, a.FitY, a.NNeighbors, a.Weights, a.NFeaturesIn)
	}
}

func boolOr(value *bool, fallback bool) bool {
	if value == nil {
		return fallback
	}
	return *value
}
