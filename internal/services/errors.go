// Package services provides the business logic layer between handlers and
// the analytics core. Services resolve request defaults, enforce dashboard
// parameter bounds, cache results and shape responses.
package services

import (
	"context"
	"errors"

	"github.com/soltixdb/roomsense/internal/analytics"
)

// Error codes returned to API clients
const (
	CodeUnknownSensor    = "UNKNOWN_SENSOR"
	CodeEmptyInput       = "EMPTY_INPUT"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeRequestCancelled = "REQUEST_CANCELLED"
	CodeAnalysisFailed   = "ANALYSIS_FAILED"
)

// ServiceError represents a service layer error
type ServiceError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *ServiceError) Error() string {
	return e.Message
}

// NewServiceError creates a new ServiceError
func NewServiceError(code, message string) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
	}
}

// NewServiceErrorWithDetails creates a new ServiceError with details
func NewServiceErrorWithDetails(code, message string, details map[string]interface{}) *ServiceError {
	return &ServiceError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// FromError classifies an analytics or context error. ServiceErrors pass
// through unchanged.
func FromError(err error) *ServiceError {
	if err == nil {
		return nil
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}

	switch {
	case errors.Is(err, analytics.ErrUnknownSensor):
		return NewServiceError(CodeUnknownSensor, err.Error())
	case errors.Is(err, analytics.ErrEmptyInput):
		return NewServiceError(CodeEmptyInput, err.Error())
	case errors.Is(err, analytics.ErrInvalidParameter):
		return NewServiceError(CodeInvalidParameter, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NewServiceError(CodeRequestCancelled, err.Error())
	default:
		return NewServiceErrorWithDetails(CodeAnalysisFailed, "Analysis failed",
			map[string]interface{}{"error": err.Error()})
	}
}
