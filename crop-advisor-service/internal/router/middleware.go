/*******************************************************************************
* Contributors: BMC Helix, Inc.
*
* (c) Copyright 2020-2025 BMC Helix, Inc.
 
* SPDX-License-Identifier: Apache-2.0
*******************************************************************************/

package router

import (
	"fmt"
	"net/http"
	"time"

	cropErrors "cropadvisor/common/errors"

	"github.com/edgexfoundry/go-mod-core-contracts/v3/clients/logger"
	"github.com/edgexfoundry/go-mod-core-contracts/v3/common"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	ServiceName     = "crop-advisor"
	timestampLayout = time.RFC3339
)

var timeNow = time.Now

// CorrelationIDMiddleware propagates the caller's correlation id or assigns a new one.
func CorrelationIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(common.CorrelationHeader)
			if id == "" {
				id = uuid.NewString()
				c.Request().Header.Set(common.CorrelationHeader, id)
			}
			c.Response().Header().Set(common.CorrelationHeader, id)
			return next(c)
		}
	}
}

func RequestLoggerMiddleware(lc logger.LoggingClient) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := timeNow()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			lc.Debugf("%s %s %d %s %s=%s", req.Method, req.URL.Path, c.Response().Status,
				time.Since(start).String(), common.CorrelationHeader, req.Header.Get(common.CorrelationHeader))
			return nil
		}
	}
}

// RecoverMiddleware turns a handler panic into a 500 so the process keeps serving.
func RecoverMiddleware(lc logger.LoggingClient) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					lc.Errorf("Recovered from panic in %s %s: %v", c.Request().Method, c.Request().URL.Path, r)
					err = cropErrors.NewCommonCropError(cropErrors.ErrorTypeServerError,
						fmt.Sprintf("%s: internal error", http.StatusText(http.StatusInternalServerError))).ConvertToHTTPError()
				}
			}()
			return next(c)
		}
	}
}
