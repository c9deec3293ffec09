package models

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// MaxPageSize bounds a page of observations
const MaxPageSize = 10080

// AnalysisRequest is the parsed input shared by the analysis endpoints.
// Empty fields fall back to the configured defaults in the service layer.
type AnalysisRequest struct {
	Sensor    string
	Sensors   []string
	Days      []string
	Bucket    string
	Threshold *float64
	Window    *int
	Offset    int
	Limit     int

	// Downsample and Points shape chart series
	Downsample string
	Points     int
	// IncludeRows adds per-row output to anomaly and trend responses
	IncludeRows bool
}

// NewAnalysisRequest creates an AnalysisRequest from comma-separated list parameters
func NewAnalysisRequest(sensor, sensors, days, bucket string) *AnalysisRequest {
	return &AnalysisRequest{
		Sensor:      strings.TrimSpace(sensor),
		Sensors:     SplitList(sensors),
		Days:        SplitList(days),
		Bucket:      strings.TrimSpace(bucket),
		IncludeRows: true,
	}
}

// Validate checks request shape. Domain checks (sensor names, parameter
// bounds) belong to the service layer.
func (r *AnalysisRequest) Validate() error {
	if r.Offset < 0 {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "offset must not be negative",
		}
	}

	if r.Limit < 0 || r.Limit > MaxPageSize {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "limit must be between 0 and 10080",
		}
	}

	if r.Points < 0 || r.Points > MaxPageSize {
		return &fiber.Error{
			Code:    fiber.StatusBadRequest,
			Message: "points must be between 0 and 10080",
		}
	}

	return nil
}

// AnalyzeRequest is the JSON body of the combined analysis endpoint.
// When Values is set it is analyzed instead of the dataset, one reading per
// minute from Monday 00:00; null entries are missing readings.
type AnalyzeRequest struct {
	Sensor      string        `json:"sensor"`
	Days        []string      `json:"days,omitempty"`
	Threshold   *float64      `json:"threshold,omitempty"`
	Window      *int          `json:"window,omitempty"`
	Values      []interface{} `json:"values,omitempty"`
	IncludeRows bool          `json:"include_rows"`
}

// SplitList splits a comma-separated parameter, dropping empty items
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
