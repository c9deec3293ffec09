package simulator

import (
	"testing"

	"github.com/soltixdb/roomsense/internal/analytics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_FullWeek(t *testing.T) {
	table, err := Generate(DefaultConfig())
	require.NoError(t, err)

	assert.True(t, table.IsCompleteWeek())
	assert.Equal(t, 7*1440, table.Len())
	assert.Equal(t, analytics.AllDays, table.Days())

	i, ok := table.Lookup(analytics.Sunday, "23:59")
	require.True(t, ok)
	assert.Equal(t, table.Len()-1, i)
}

func TestGenerate_Ranges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Days = []analytics.Day{analytics.Monday}
	table, err := Generate(cfg)
	require.NoError(t, err)

	checks := map[analytics.Sensor][2]float64{
		analytics.SensorTemperature: {20, 30},
		analytics.SensorCO2:         {0, 1000},
		analytics.SensorHumidity:    {30, 90},
	}
	for sensor, bounds := range checks {
		col, err := table.Column(sensor)
		require.NoError(t, err)
		for _, v := range col {
			assert.GreaterOrEqual(t, v, bounds[0], sensor)
			assert.Less(t, v, bounds[1], sensor)
		}
	}

	for _, sensor := range []analytics.Sensor{analytics.SensorLight, analytics.SensorMotion} {
		col, err := table.Column(sensor)
		require.NoError(t, err)
		for _, v := range col {
			assert.True(t, v == 0 || v == 1, "%s reading %v is not binary", sensor, v)
		}
	}
}

func TestGenerate_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 99
	cfg.Days = []analytics.Day{analytics.Friday}

	a, err := Generate(cfg)
	require.NoError(t, err)
	b, err := Generate(cfg)
	require.NoError(t, err)

	colA, _ := a.Column(analytics.SensorCO2)
	colB, _ := b.Column(analytics.SensorCO2)
	assert.Equal(t, colA, colB)

	// Each generated table has its own identity
	assert.NotEqual(t, a.ID(), b.ID())
}
