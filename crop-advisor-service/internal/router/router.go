/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"cropadvisor/common/telemetry"
	"cropadvisor/crop-advisor-service/internal/inference"
	"cropadvisor/crop-advisor-service/pkg/crops"
	"cropadvisor/crop-advisor-service/pkg/store"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/labstack/echo/v4"
)

const (
	apiBase        = "/api/v3"
	cropAdvisorAPI = apiBase + "/crop_advisor"
)

type Router struct {
	e         *echo.Echo
	lc        logger.LoggingClient
	predictor *inference.Predictor
	artifacts *store.Artifacts
	labels    *crops.LabelTable
	telemetry *telemetry.Telemetry
}

func NewRouter(e *echo.Echo, lc logger.LoggingClient, artifacts *store.Artifacts, labels *crops.LabelTable, telemetry *telemetry.Telemetry) *Router {
	router := new(Router)
	router.e = e
	router.lc = lc
	router.artifacts = artifacts
	router.labels = labels
	router.telemetry = telemetry
	router.predictor = inference.NewPredictor(artifacts, labels, lc, telemetry)
	return router
}

func (r Router) LoadRestRoutes() {
	r.e.Use(RecoverMiddleware(r.lc))
	r.e.Use(CorrelationIDMiddleware())
	r.e.Use(RequestLoggerMiddleware(r.lc))

	r.addPageRoutes()
	r.addPredictionRoutes()
	r.addInfoRoutes()
}

func (r Router) addPageRoutes() {
	r.addRouteIndex()
	r.addRoutePredictForm()
}

func (r Router) addPredictionRoutes() {
	r.addRouteRestPredict()
}

func (r Router) addInfoRoutes() {
	r.addRouteRestCrops()
	r.addRouteRestModel()
	r.addRouteRestMetrics()
	r.addRoutePing()
}
