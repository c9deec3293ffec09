package handlers

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/soltixdb/roomsense/internal/models"
	"github.com/soltixdb/roomsense/internal/services"
)

// parseAnalysisRequest reads the query parameters shared by the analysis
// endpoints. Absent parameters stay empty so the service applies defaults.
func parseAnalysisRequest(c *fiber.Ctx) (*models.AnalysisRequest, error) {
	req := models.NewAnalysisRequest(c.Query("sensor"), c.Query("sensors"), c.Query("days"), c.Query("bucket"))

	if s := c.Query("threshold"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, invalidParam("threshold", s)
		}
		req.Threshold = &v
	}

	if s := c.Query("window"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, invalidParam("window", s)
		}
		req.Window = &v
	}

	var err error
	if req.Offset, err = queryInt(c, "offset"); err != nil {
		return nil, err
	}
	if req.Limit, err = queryInt(c, "limit"); err != nil {
		return nil, err
	}

	req.Downsample = c.Query("downsample")
	if req.Points, err = queryInt(c, "points"); err != nil {
		return nil, err
	}

	if s := c.Query("include_rows"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, invalidParam("include_rows", s)
		}
		req.IncludeRows = v
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return req, nil
}

func queryInt(c *fiber.Ctx, name string) (int, error) {
	s := c.Query(name)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalidParam(name, s)
	}
	return v, nil
}

func invalidParam(name, value string) *services.ServiceError {
	return services.NewServiceErrorWithDetails(services.CodeInvalidParameter,
		fmt.Sprintf("invalid value for %s", name),
		map[string]interface{}{"param": name, "value": value})
}
