/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package telemetry

import (
	"fmt"
	"time"

	cropErrors "cropadvisor/common/errors"
	"github.com/hashicorp/go-multierror"
	gometrics "github.com/rcrowley/go-metrics"
)

// Telemetry holds the prediction counters of a service instance. All metric
// types used here are safe for concurrent use.
type Telemetry struct {
	Registry            gometrics.Registry
	SuccessCount        gometrics.Counter
	MissingFieldCount   gometrics.Counter
	MalformedInputCount gometrics.Counter
	FailedCount         gometrics.Counter
	UnclassifiedCount   gometrics.Counter
	Latency             gometrics.Histogram
	tags                map[string]string
}

// NewTelemetry registers the prediction metrics in registry, or in a fresh
// registry when nil. A registry that already holds one of the names is
// rejected so that two instances never report each other's counts.
func NewTelemetry(serviceName string, registry gometrics.Registry) (*Telemetry, error) {
	if registry == nil {
		registry = gometrics.NewRegistry()
	}
	telemetry := Telemetry{Registry: registry}
	telemetry.SuccessCount = gometrics.NewCounter()
	telemetry.MissingFieldCount = gometrics.NewCounter()
	telemetry.MalformedInputCount = gometrics.NewCounter()
	telemetry.FailedCount = gometrics.NewCounter()
	telemetry.UnclassifiedCount = gometrics.NewCounter()
	telemetry.Latency = gometrics.NewHistogram(gometrics.NewUniformSample(LatencySampleSize))

	telemetry.tags = map[string]string{"service": serviceName}

	var result *multierror.Error
	register := func(name string, metric interface{}) {
		if err := registry.Register(name, metric); err != nil {
			result = multierror.Append(result, fmt.Errorf("failed to register metric %s: %v", name, err))
		}
	}
	register(PredictionSuccessCount, telemetry.SuccessCount)
	register(PredictionMissingFieldCount, telemetry.MissingFieldCount)
	register(PredictionMalformedInputCount, telemetry.MalformedInputCount)
	register(PredictionFailedCount, telemetry.FailedCount)
	register(PredictionUnclassifiedCount, telemetry.UnclassifiedCount)
	register(PredictionLatencyMicros, telemetry.Latency)
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return &telemetry, nil
}

// RecordPrediction classifies the outcome of one prediction call.
func (t *Telemetry) RecordPrediction(err cropErrors.CropError, elapsed time.Duration) {
	if t == nil {
		return
	}
	t.Latency.Update(elapsed.Microseconds())
	switch {
	case err == nil:
		t.SuccessCount.Inc(1)
	case cropErrors.IsPredictionFailure(err):
		t.FailedCount.Inc(1)
	case err.IsErrorType(cropErrors.ErrorTypeMissingField):
		t.MissingFieldCount.Inc(1)
	case err.IsErrorType(cropErrors.ErrorTypeMalformedNumber):
		t.MalformedInputCount.Inc(1)
	default:
		t.UnclassifiedCount.Inc(1)
	}
}

func (t *Telemetry) Tags() map[string]string {
	return t.tags
}

// Snapshot returns the registry content in the shape go-metrics uses for JSON.
func (t *Telemetry) Snapshot() map[string]map[string]interface{} {
	return t.Registry.GetAll()
}
