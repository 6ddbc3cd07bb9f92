/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"encoding/json"
	"net/http"

	cropErrors "cropadvisor/common/errors"
	"cropadvisor/crop-advisor-service/internal/view"
	"cropadvisor/crop-advisor-service/pkg/dto"

	"github.com/labstack/echo/v4"
)

type pingResponse struct {
	ApiVersion  string `json:"apiVersion"`
	ServiceName string `json:"serviceName"`
	Timestamp   string `json:"timestamp"`
}

// @Summary		Crop Recommendation Form
// @Tags	Crop Advisor - Pages
// @Produce		html
// @Success			200			{string} 	string	"index page"
// @Router		/ [get]
func (r Router) addRouteIndex() {
	r.e.GET("/", func(c echo.Context) error {
		return renderIndex(c, r, nil, nil)
	})
}

// @Summary		Recommend A Crop From Form Input
// @Tags	Crop Advisor - Pages
// @Accept		x-www-form-urlencoded
// @Produce		html
// @Param   	Nitrogen     formData     number     true  "nitrogen ratio"
// @Param   	Phosporus    formData     number     true  "phosphorus ratio"
// @Param   	Potassium    formData     number     true  "potassium ratio"
// @Param   	Temperature  formData     number     true  "temperature in celsius"
// @Param   	Humidity     formData     number     true  "relative humidity"
// @Param   	Ph           formData     number     true  "soil ph"
// @Param   	Rainfall     formData     number     true  "rainfall in mm"
// @Success			200			{string} 	string	"index page with the result"
// @Router		/predict [post]
func (r Router) addRoutePredictForm() {
	r.e.POST("/predict", func(c echo.Context) error {
		return restPredictForm(c, r)
	})
}

// @Summary		Recommend A Crop
// @Tags	Crop Advisor - Predictions
// @Accept		json
// @Produce		json
// @Param 		q 	body 	  map[string]interface{} true "the seven features, as numbers or numeric strings"
// @Success			200			{object} 	dto.PredictionResponse
// @Failure			400			{object}	dto.PredictionResponse
// @Failure			500			{object}	dto.PredictionResponse
// @Router		/api/v3/crop_advisor/predict [post]
func (r Router) addRouteRestPredict() {
	r.e.POST(cropAdvisorAPI+"/predict", func(c echo.Context) error {
		return restPredict(c, r)
	})
}

// @Summary		List Supported Crops
// @Tags	Crop Advisor - Info
// @Produce		json
// @Success			200			{array} 	crops.Crop
// @Router		/api/v3/crop_advisor/crops [get]
func (r Router) addRouteRestCrops() {
	r.e.GET(cropAdvisorAPI+"/crops", func(c echo.Context) error {
		return c.JSON(http.StatusOK, r.labels.List())
	})
}

// @Summary		Describe The Loaded Model Artifacts
// @Tags	Crop Advisor - Info
// @Produce		json
// @Success			200			{array} 	store.ArtifactInfo
// @Router		/api/v3/crop_advisor/model [get]
func (r Router) addRouteRestModel() {
	r.e.GET(cropAdvisorAPI+"/model", func(c echo.Context) error {
		return c.JSON(http.StatusOK, r.artifacts.Describe())
	})
}

// @Summary		Prediction Metrics
// @Tags	Crop Advisor - Info
// @Produce		json
// @Success			200			{object} 	map[string]interface{}
// @Failure			404			{object}	error	"{"message":"Error message"}"
// @Router		/api/v3/crop_advisor/metrics [get]
func (r Router) addRouteRestMetrics() {
	r.e.GET(cropAdvisorAPI+"/metrics", func(c echo.Context) error {
		if r.telemetry == nil {
			return cropErrors.NewCommonCropError(cropErrors.ErrorTypeNotFound, "telemetry is disabled").ConvertToHTTPError()
		}
		return c.JSON(http.StatusOK, r.telemetry.Snapshot())
	})
}

// @Summary		Liveness Check
// @Tags	Crop Advisor - Info
// @Produce		json
// @Success			200			{object} 	pingResponse
// @Router		/api/v3/ping [get]
func (r Router) addRoutePing() {
	r.e.GET(apiBase+"/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, pingResponse{
			ApiVersion:  "v3",
			ServiceName: ServiceName,
			Timestamp:   timeNow().UTC().Format(timestampLayout),
		})
	})
}

func renderIndex(c echo.Context, r Router, form map[string]string, result *dto.PredictionResult) error {
	return c.Render(http.StatusOK, view.IndexTemplate, view.NewPage(form, result, r.labels.Names()))
}

// restPredictForm always answers 200: failures are part of the rendered page.
func restPredictForm(c echo.Context, r Router) error {
	form := make(map[string]string, dto.FeatureCount)
	// FormParams parses the body; PostForm then excludes query parameters
	if _, err := c.FormParams(); err != nil {
		r.lc.Warnf("Failed to parse prediction form: %v", err)
	}
	values := c.Request().PostForm
	for key := range values {
		form[key] = values.Get(key)
	}
	result := r.predictor.Predict(form)
	return renderIndex(c, r, form, &result)
}

func restPredict(c echo.Context, r Router) error {
	var body map[string]interface{}
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		hErr := cropErrors.NewCommonCropErrorf(cropErrors.ErrorTypeBadRequest, "Invalid JSON body: %v", err)
		return c.JSON(http.StatusBadRequest, dto.PredictionResponse{Result: hErr.Message(), ErrorType: string(hErr.ErrorType())})
	}
	result := r.predictor.Predict(dto.FormFieldsFromJSON(body))
	return c.JSON(result.HTTPStatus(), result.Response())
}
