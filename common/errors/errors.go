package errors

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ErrorType string

const (
	ErrorTypeNotFound          ErrorType = "NotFound"
	ErrorTypeServerError       ErrorType = "ServerError"
	ErrorTypeBadRequest        ErrorType = "BadRequest"
	ErrorTypeUnknown           ErrorType = "Unknown"
	ErrorTypeConfig            ErrorType = "ConfigurationError"
	ErrorTypeMissingField      ErrorType = "MissingField"
	ErrorTypeMalformedNumber   ErrorType = "MalformedNumber"
	ErrorTypeArtifactLoad      ErrorType = "ArtifactLoad"
	ErrorTypeDimensionMismatch ErrorType = "DimensionMismatch"
	ErrorTypeNumeric           ErrorType = "NumericError"
	ErrorTypePrediction        ErrorType = "Prediction"
)

type CommonCropError struct {
	errorType ErrorType
	message   string
}

type CropError interface {
	ErrorType() ErrorType
	Message() string
	IsErrorType(errorType ErrorType) bool
	Error() string
	ConvertToHTTPError() *echo.HTTPError
}

func (e CommonCropError) ErrorType() ErrorType {
	return e.errorType
}

func (e CommonCropError) Message() string {
	return e.message
}

func (e CommonCropError) Error() string {
	return e.message
}

func (e CommonCropError) IsErrorType(errorType ErrorType) bool {
	return errorType == e.errorType
}

func (e CommonCropError) ConvertToHTTPError() *echo.HTTPError {
	return echo.NewHTTPError(errorTypeToCode(e.ErrorType()), e.Message())
}

func NewCommonCropError(errorType ErrorType, message string) CommonCropError {
	return CommonCropError{errorType, message}
}

func NewCommonCropErrorf(errorType ErrorType, format string, args ...interface{}) CommonCropError {
	return CommonCropError{errorType, fmt.Sprintf(format, args...)}
}

// IsPredictionFailure reports whether the error came out of the scale/classify
// stages rather than input validation.
func IsPredictionFailure(err CropError) bool {
	if err == nil {
		return false
	}
	switch err.ErrorType() {
	case ErrorTypeDimensionMismatch, ErrorTypeNumeric, ErrorTypePrediction:
		return true
	default:
		return false
	}
}

func errorTypeToCode(status ErrorType) int {
	switch status {
	case ErrorTypeNotFound:
		return http.StatusNotFound
	case ErrorTypeBadRequest, ErrorTypeMissingField, ErrorTypeMalformedNumber:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
