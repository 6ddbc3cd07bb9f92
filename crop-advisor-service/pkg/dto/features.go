/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package dto

import (
	"fmt"

	"github.com/spf13/cast"
)

// Form keys, in the order the scalers were fitted. Phosporus keeps the
// spelling existing clients post.
const (
	FieldNitrogen    = "Nitrogen"
	FieldPhosphorus  = "Phosporus"
	FieldPotassium   = "Potassium"
	FieldTemperature = "Temperature"
	FieldHumidity    = "Humidity"
	FieldPh          = "Ph"
	FieldRainfall    = "Rainfall"
)

const FeatureCount = 7

// FeatureFields returns the required keys in feature order.
func FeatureFields() []string {
	return []string{
		FieldNitrogen,
		FieldPhosphorus,
		FieldPotassium,
		FieldTemperature,
		FieldHumidity,
		FieldPh,
		FieldRainfall,
	}
}

// FormFieldsFromJSON converts a decoded JSON object into the string form the
// predictor validates. Numbers and numeric strings both work; null becomes
// empty and so reads as missing.
func FormFieldsFromJSON(body map[string]interface{}) map[string]string {
	fields := make(map[string]string, len(body))
	for key, value := range body {
		s, err := cast.ToStringE(value)
		if err != nil {
			s = fmt.Sprintf("%v", value)
		}
		fields[key] = s
	}
	return fields
}
