/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package dto

import (
	"fmt"
	"net/http"

	cropErrors "cropadvisor/common/errors"
)

// PredictionResult is either a recommended crop or a tagged failure. Message
// always holds the text shown to the user.
type PredictionResult struct {
	ClassID int
	Crop    string
	Message string
	Err     cropErrors.CropError
}

type PredictionResponse struct {
	Result    string `json:"result"`
	Crop      string `json:"crop,omitempty"`
	ClassID   int    `json:"class_id,omitempty"`
	ErrorType string `json:"error_type,omitempty"`
}

func NewSuccessResult(classID int, crop string) PredictionResult {
	return PredictionResult{
		ClassID: classID,
		Crop:    crop,
		Message: fmt.Sprintf("%s is the best crop to be cultivated right there", crop),
	}
}

// NewErrorResult keeps err for classification and shows message to the user.
func NewErrorResult(err cropErrors.CropError, message string) PredictionResult {
	return PredictionResult{Err: err, Message: message}
}

func (r PredictionResult) IsSuccess() bool {
	return r.Err == nil
}

func (r PredictionResult) Text() string {
	return r.Message
}

func (r PredictionResult) HTTPStatus() int {
	if r.Err == nil {
		return http.StatusOK
	}
	return r.Err.ConvertToHTTPError().Code
}

func (r PredictionResult) Response() PredictionResponse {
	resp := PredictionResponse{Result: r.Message}
	if r.Err != nil {
		resp.ErrorType = string(r.Err.ErrorType())
		return resp
	}
	resp.Crop = r.Crop
	resp.ClassID = r.ClassID
	return resp
}
