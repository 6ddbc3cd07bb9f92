/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package inference

import (
	"math"
	"strconv"
	"strings"
	"time"

	cropErrors "cropadvisor/common/errors"
	"cropadvisor/common/telemetry"
	"cropadvisor/crop-advisor-service/pkg/crops"
	"cropadvisor/crop-advisor-service/pkg/dto"
	"cropadvisor/crop-advisor-service/pkg/model"
	"cropadvisor/crop-advisor-service/pkg/store"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
)

const predictionErrorPrefix = "Prediction error: "

// Predictor runs form input through min-max scaling, standard scaling and
// classification. It holds no per-request state and may be shared freely.
type Predictor struct {
	artifacts *store.Artifacts
	labels    *crops.LabelTable
	lc        logger.LoggingClient
	telemetry *telemetry.Telemetry
}

// NewPredictor builds a Predictor. telemetry may be nil.
func NewPredictor(artifacts *store.Artifacts, labels *crops.LabelTable, lc logger.LoggingClient, telemetry *telemetry.Telemetry) *Predictor {
	return &Predictor{
		artifacts: artifacts,
		labels:    labels,
		lc:        lc,
		telemetry: telemetry,
	}
}

// ParseFeatures validates the seven required fields in feature order and
// stops at the first bad one.
func ParseFeatures(formFields map[string]string) ([]float64, cropErrors.CropError) {
	features := make([]float64, 0, dto.FeatureCount)
	for _, key := range dto.FeatureFields() {
		raw, ok := formFields[key]
		value := strings.TrimSpace(raw)
		if !ok || value == "" {
			return nil, cropErrors.NewCommonCropErrorf(cropErrors.ErrorTypeMissingField, "Missing or invalid value for %s", key)
		}
		number, err := parseDecimal(value)
		if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
			return nil, cropErrors.NewCommonCropErrorf(cropErrors.ErrorTypeMalformedNumber, "Invalid number format for %s", key)
		}
		features = append(features, number)
	}
	return features, nil
}

// parseDecimal accepts decimal and exponent notation only. strconv also reads
// hex floats such as 0x1p4, which are not measurements.
func parseDecimal(value string) (float64, error) {
	unsigned := strings.TrimLeft(value, "+-")
	if len(unsigned) > 1 && unsigned[0] == '0' && (unsigned[1] == 'x' || unsigned[1] == 'X') {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseFloat(value, 64)
}

// Predict never fails outright: every outcome, including a panic inside an
// artifact, comes back as a PredictionResult.
func (p *Predictor) Predict(formFields map[string]string) (result dto.PredictionResult) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result = p.failure(cropErrors.NewCommonCropErrorf(cropErrors.ErrorTypePrediction, "%v", r))
		}
		p.telemetry.RecordPrediction(result.Err, time.Since(start))
	}()

	features, err := ParseFeatures(formFields)
	if err != nil {
		p.lc.Debugf("Rejected prediction input: %s", err.Message())
		return dto.NewErrorResult(err, err.Message())
	}

	classID, err := p.classify(features)
	if err != nil {
		return p.failure(err)
	}
	crop := p.labels.Lookup(classID)
	p.lc.Debugf("Predicted class %d (%s) for %v", classID, crop, features)
	return dto.NewSuccessResult(classID, crop)
}

func (p *Predictor) classify(features []float64) (int, cropErrors.CropError) {
	x := model.NewRowMatrix(features)

	scaled, err := p.artifacts.MinMaxScaler().Transform(x)
	if err != nil {
		return 0, err
	}
	standardized, err := p.artifacts.StandardScaler().Transform(scaled)
	if err != nil {
		return 0, err
	}
	predictions, err := p.artifacts.Classifier().Predict(standardized)
	if err != nil {
		return 0, err
	}
	if len(predictions) != 1 {
		return 0, cropErrors.NewCommonCropErrorf(cropErrors.ErrorTypePrediction,
			"classifier returned %d predictions for 1 sample", len(predictions))
	}
	return toClassID(predictions[0])
}

// toClassID truncates toward zero. Values outside the int32 range cannot be
// table ids and map to 0, which the label table reports as unknown.
func toClassID(prediction float64) (int, cropErrors.CropError) {
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		return 0, cropErrors.NewCommonCropErrorf(cropErrors.ErrorTypeNumeric,
			"classifier returned non-finite prediction %v", prediction)
	}
	truncated := math.Trunc(prediction)
	if truncated > math.MaxInt32 || truncated < math.MinInt32 {
		return 0, nil
	}
	return int(truncated), nil
}

func (p *Predictor) failure(err cropErrors.CropError) dto.PredictionResult {
	p.lc.Errorf("Prediction failed: %s", err.Message())
	return dto.NewErrorResult(err, predictionErrorPrefix+err.Message())
}
