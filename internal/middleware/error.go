package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/roomsense/internal/logging"
	"github.com/soltixdb/roomsense/internal/models"
	"github.com/soltixdb/roomsense/internal/services"
)

// StatusForCode maps a service error code to its HTTP status
func StatusForCode(code string) int {
	switch code {
	case services.CodeUnknownSensor, services.CodeInvalidParameter:
		return fiber.StatusBadRequest
	case services.CodeEmptyInput:
		return fiber.StatusUnprocessableEntity
	case services.CodeRequestCancelled:
		return fiber.StatusRequestTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// ErrorHandler returns a custom error handler middleware. Service errors keep
// their code; fiber errors keep their status.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		detail := models.ErrorDetail{
			Code:    "INTERNAL_ERROR",
			Message: "Internal Server Error",
		}

		var svcErr *services.ServiceError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &svcErr):
			status = StatusForCode(svcErr.Code)
			detail.Code = svcErr.Code
			detail.Message = svcErr.Message
			detail.Details = svcErr.Details
		case errors.As(err, &fiberErr):
			status = fiberErr.Code
			detail.Code = codeForStatus(status)
			detail.Message = fiberErr.Message
		}

		reqLogger := logger.WithContext(c.UserContext())
		fields := []interface{}{
			"path", c.Path(),
			"method", c.Method(),
			"status", status,
			"code", detail.Code,
			"error", err,
		}
		if status >= fiber.StatusInternalServerError {
			reqLogger.Error("Request error", fields...)
		} else {
			reqLogger.Warn("Request rejected", fields...)
		}

		return c.Status(status).JSON(models.ErrorResponse{Error: detail})
	}
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest:
		return services.CodeInvalidParameter
	case fiber.StatusUnauthorized:
		return "UNAUTHORIZED"
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestTimeout:
		return services.CodeRequestCancelled
	default:
		if status >= fiber.StatusInternalServerError {
			return "INTERNAL_ERROR"
		}
		return "ERROR"
	}
}
