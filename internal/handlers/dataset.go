package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Dataset describes the dataset currently served
// GET /v1/dataset
func (h *Handler) Dataset(c *fiber.Ctx) error {
	return c.JSON(h.analysisService.Dataset())
}

// Sensors lists the known sensors
// GET /v1/sensors
func (h *Handler) Sensors(c *fiber.Ctx) error {
	return c.JSON(h.analysisService.Sensors())
}

// Observations returns a page of raw readings
// GET /v1/observations?days=&offset=&limit=
func (h *Handler) Observations(c *fiber.Ctx) error {
	return serve(c, h.analysisService.Observations)
}

// Series returns a downsampled sensor series for charting
// GET /v1/series?sensor=&days=&downsample=&points=
func (h *Handler) Series(c *fiber.Ctx) error {
	return serve(c, h.analysisService.Series)
}
