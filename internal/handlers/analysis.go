package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/roomsense/internal/models"
	"github.com/soltixdb/roomsense/internal/services"
)

// serve parses the shared query parameters, runs fn and writes its result.
// Errors go to the app's ErrorHandler.
func serve[T any](c *fiber.Ctx, fn func(context.Context, *models.AnalysisRequest) (*T, error)) error {
	req, err := parseAnalysisRequest(c)
	if err != nil {
		return err
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := fn(ctx, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// Aggregate handles per-bucket means
// GET /v1/aggregate?sensor=&days=&bucket=
func (h *Handler) Aggregate(c *fiber.Ctx) error {
	return serve(c, h.analysisService.Aggregate)
}

// Anomalies handles z-score anomaly detection
// GET /v1/anomalies?sensor=&days=&threshold=&include_rows=
func (h *Handler) Anomalies(c *fiber.Ctx) error {
	return serve(c, h.analysisService.Anomalies)
}

// Trend handles rolling-mean trend classification
// GET /v1/trend?sensor=&days=&window=&include_rows=
func (h *Handler) Trend(c *fiber.Ctx) error {
	return serve(c, h.analysisService.Trend)
}

// Compare handles normalized multi-sensor comparison
// GET /v1/compare?sensors=a,b&days=&bucket=
func (h *Handler) Compare(c *fiber.Ctx) error {
	return serve(c, h.analysisService.Compare)
}

// Distribution handles value-range histograms
// GET /v1/distribution?sensor=&days=
func (h *Handler) Distribution(c *fiber.Ctx) error {
	return serve(c, h.analysisService.Distribution)
}

// Analyze runs anomaly detection and trend classification in one call,
// on the dataset or on inline values
// POST /v1/analyze
func (h *Handler) Analyze(c *fiber.Ctx) error {
	var body models.AnalyzeRequest
	if err := c.BodyParser(&body); err != nil {
		return services.NewServiceErrorWithDetails(services.CodeInvalidParameter,
			"Failed to parse JSON body", map[string]interface{}{"error": err.Error()})
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.analysisService.Analyze(ctx, &body)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
