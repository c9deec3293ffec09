// Package handlers implements the HTTP endpoints of the room-sensor API.
package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/roomsense/internal/logging"
	"github.com/soltixdb/roomsense/internal/services"
	"github.com/soltixdb/roomsense/internal/utils"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger          *logging.Logger
	analysisService *services.AnalysisService
}

// New creates a new handler instance
func New(logger *logging.Logger, analysisService *services.AnalysisService) *Handler {
	return &Handler{
		logger:          logger,
		analysisService: analysisService,
	}
}

// requestContext bounds a service call by DefaultRequestTimeout
func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), utils.DefaultRequestTimeout)
}
