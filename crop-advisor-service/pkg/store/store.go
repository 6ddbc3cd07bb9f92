/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package store

import (
	"cropadvisor/common/config"
	"cropadvisor/crop-advisor-service/pkg/dto"
	"cropadvisor/crop-advisor-service/pkg/model"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

type Slot string

const (
	SlotMinMaxScaler   Slot = "minmax_scaler"
	SlotStandardScaler Slot = "standard_scaler"
	SlotClassifier     Slot = "classifier"
)

// ArtifactInfo describes one loaded artifact for the model info endpoint.
type ArtifactInfo struct {
	Slot      Slot       `json:"slot"`
	Kind      model.Kind `json:"kind,omitempty"`
	Estimator string     `json:"estimator"`
	NFeatures int        `json:"n_features"`
	NClasses  int        `json:"n_classes,omitempty"`
	Path      string     `json:"path,omitempty"`
}

// Artifacts holds the three pre-fit stages of the pipeline. It is never
// mutated after construction, so one value is shared by all requests.
type Artifacts struct {
	minMax     model.Transformer
	standard   model.Transformer
	classifier model.Classifier
	info       []ArtifactInfo
}

// NewArtifacts assembles already built stages, typically test doubles.
func NewArtifacts(minMax, standard model.Transformer, classifier model.Classifier) (*Artifacts, error) {
	if minMax == nil || standard == nil || classifier == nil {
		return nil, errors.New("min-max scaler, standard scaler and classifier are all required")
	}
	return &Artifacts{
		minMax:     minMax,
		standard:   standard,
		classifier: classifier,
		info: []ArtifactInfo{
			{Slot: SlotMinMaxScaler, Estimator: minMax.Name(), NFeatures: minMax.NFeatures()},
			{Slot: SlotStandardScaler, Estimator: standard.Name(), NFeatures: standard.NFeatures()},
			{Slot: SlotClassifier, Estimator: classifier.Name(), NFeatures: classifier.NFeatures(), NClasses: len(classifier.Classes())},
		},
	}, nil
}

func (a *Artifacts) MinMaxScaler() model.Transformer {
	return a.minMax
}

func (a *Artifacts) StandardScaler() model.Transformer {
	return a.standard
}

func (a *Artifacts) Classifier() model.Classifier {
	return a.classifier
}

// Describe returns a copy of the per-slot summary.
func (a *Artifacts) Describe() []ArtifactInfo {
	out := make([]ArtifactInfo, len(a.info))
	copy(out, a.info)
	return out
}

func loadTransformer(path string, slot Slot, want model.Kind) (model.Transformer, *ArtifactInfo, error) {
	envelope, err := ReadEnvelope(path)
	if err != nil {
		return nil, nil, err
	}
	if envelope.Kind != want {
		return nil, nil, errors.Errorf("%s artifact %s has kind %q, expected %q", slot, path, envelope.Kind, want)
	}
	transformer, err := envelope.BuildTransformer()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "invalid %s artifact %s", slot, path)
	}
	return transformer, &ArtifactInfo{
		Slot:      slot,
		Kind:      envelope.Kind,
		Estimator: transformer.Name(),
		NFeatures: transformer.NFeatures(),
		Path:      path,
	}, nil
}

func loadClassifier(path string) (model.Classifier, *ArtifactInfo, error) {
	envelope, err := ReadEnvelope(path)
	if err != nil {
		return nil, nil, err
	}
	if !envelope.IsClassifier() {
		return nil, nil, errors.Errorf("%s artifact %s has kind %q, expected a classifier", SlotClassifier, path, envelope.Kind)
	}
	classifier, err := envelope.BuildClassifier()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "invalid %s artifact %s", SlotClassifier, path)
	}
	return classifier, &ArtifactInfo{
		Slot:      SlotClassifier,
		Kind:      envelope.Kind,
		Estimator: classifier.Name(),
		NFeatures: classifier.NFeatures(),
		NClasses:  len(classifier.Classes()),
		Path:      path,
	}, nil
}

// Load reads all three artifacts named by cfg. Every slot is attempted so
// the returned error lists all broken files; errors.Cause yields the
// *multierror.Error. Any error means the service must not start.
func Load(cfg config.ArtifactConfig, lc logger.LoggingClient) (*Artifacts, error) {
	var result *multierror.Error
	artifacts := &Artifacts{}

	minMax, minMaxInfo, err := loadTransformer(cfg.MinMaxScalerPath, SlotMinMaxScaler, model.KindMinMax)
	if err != nil {
		result = multierror.Append(result, err)
	}
	standard, standardInfo, err := loadTransformer(cfg.StandardScalerPath, SlotStandardScaler, model.KindStandard)
	if err != nil {
		result = multierror.Append(result, err)
	}
	classifier, classifierInfo, err := loadClassifier(cfg.ClassifierPath)
	if err != nil {
		result = multierror.Append(result, err)
	}

	if result == nil {
		for _, info := range []*ArtifactInfo{minMaxInfo, standardInfo, classifierInfo} {
			if info.NFeatures != dto.FeatureCount {
				result = multierror.Append(result, errors.Errorf("%s artifact %s expects %d features, the service provides %d",
					info.Slot, info.Path, info.NFeatures, dto.FeatureCount))
			}
		}
	}

	if result != nil {
		for _, e := range result.Errors {
			lc.Errorf("Artifact load failed: %v", e)
		}
		return nil, errors.Wrap(result, "model artifacts could not be loaded")
	}

	artifacts.minMax, artifacts.standard, artifacts.classifier = minMax, standard, classifier
	artifacts.info = []ArtifactInfo{*minMaxInfo, *standardInfo, *classifierInfo}
	for _, info := range artifacts.info {
		lc.Infof("Loaded %s artifact from %s: %s with %d features", info.Slot, info.Path, info.Estimator, info.NFeatures)
	}
	return artifacts, nil
}
