package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/soltixdb/roomsense/internal/config"
	"github.com/soltixdb/roomsense/internal/handlers"
	"github.com/soltixdb/roomsense/internal/logging"
	"github.com/soltixdb/roomsense/internal/middleware"
	"github.com/soltixdb/roomsense/internal/services"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, analysisService *services.AnalysisService, cfg *config.Config) *handlers.Handler {
	h := handlers.New(logger, analysisService)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))

	logCfg := logging.DefaultMiddlewareConfig()
	logCfg.AdditionalFields = analysisFields
	app.Use(logging.FiberMiddlewareWithConfig(logger, logCfg))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API v1 routes (protected by API key)
	v1 := app.Group("/v1", middleware.APIKeyAuth(logger, cfg.Auth))

	v1.Get("/dataset", h.Dataset)
	v1.Get("/sensors", h.Sensors)
	v1.Get("/observations", h.Observations)
	v1.Get("/series", h.Series)

	// Analysis routes
	v1.Get("/aggregate", h.Aggregate)
	v1.Get("/anomalies", h.Anomalies)
	v1.Get("/trend", h.Trend)
	v1.Get("/compare", h.Compare)
	v1.Get("/distribution", h.Distribution)
	v1.Post("/analyze", h.Analyze)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, analysisService *services.AnalysisService, cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Roomsense Dashboard",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, analysisService, cfg)

	return app
}

// analysisFields adds the selected sensors to request logs
func analysisFields(c *fiber.Ctx) []interface{} {
	var fields []interface{}
	if sensor := c.Query("sensor"); sensor != "" {
		fields = append(fields, "sensor", sensor)
	}
	if sensors := c.Query("sensors"); sensors != "" {
		fields = append(fields, "sensors", sensors)
	}
	return fields
}
