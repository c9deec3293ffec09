package models

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitList(t *testing.T) {
	assert.Nil(t, SplitList(""))
	assert.Nil(t, SplitList("  "))
	assert.Equal(t, []string{"Temperature", "CO2"}, SplitList("Temperature, CO2"))
	assert.Equal(t, []string{"Monday"}, SplitList(",Monday,,"))
}

func TestNewAnalysisRequest(t *testing.T) {
	req := NewAnalysisRequest(" CO2 ", "Light,Motion", "Monday,Tuesday", "hour")

	assert.Equal(t, "CO2", req.Sensor)
	assert.Equal(t, []string{"Light", "Motion"}, req.Sensors)
	assert.Equal(t, []string{"Monday", "Tuesday"}, req.Days)
	assert.Equal(t, "hour", req.Bucket)
	assert.True(t, req.IncludeRows)
	assert.NoError(t, req.Validate())
}

func TestAnalysisRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		limit  int
		points int
		valid  bool
	}{
		{"zero", 0, 0, 0, true},
		{"page", 1440, 100, 0, true},
		{"chart points", 0, 0, 500, true},
		{"negative offset", -1, 10, 0, false},
		{"negative limit", 0, -5, 0, false},
		{"limit too large", 0, MaxPageSize + 1, 0, false},
		{"negative points", 0, 0, -1, false},
		{"too many points", 0, 0, MaxPageSize + 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &AnalysisRequest{Offset: tt.offset, Limit: tt.limit, Points: tt.points}
			err := req.Validate()
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			fiberErr, ok := err.(*fiber.Error)
			require.True(t, ok)
			assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
		})
	}
}
