package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsatony/pumpguard/internal/models"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, models.StatusLow, Classify(models.FlowRate, 149.9))
	assert.Equal(t, models.StatusNormal, Classify(models.FlowRate, 150))
	assert.Equal(t, models.StatusNormal, Classify(models.Temperature, 75))
	assert.Equal(t, models.StatusHigh, Classify(models.Temperature, 80.5))
	assert.Equal(t, models.StatusHigh, Classify(models.VibrationZ, 3.5))
}

func TestDefaultInputsAreNormal(t *testing.T) {
	for _, in := range TagInputs(DefaultInputs().SensorValues) {
		assert.Equal(t, models.StatusNormal, in.Status, "field %s", in.Field)
	}
}

func TestHeatmapHints(t *testing.T) {
	values := DefaultInputs().SensorValues
	values.VibrationZmms = 3.4
	values.FlowRateLPM = 120
	values.PressureBar = 7

	cells := Heatmap([]models.Reading{{SensorValues: values}})
	require.Len(t, cells, len(models.SensorFields))

	byField := map[models.SensorField]models.SensorHealth{}
	for _, c := range cells {
		byField[c.Field] = c
	}
	assert.Equal(t, "Possible Bearing Fault", byField[models.VibrationZ].Hint)
	assert.Equal(t, "Possible cavitation or blockage", byField[models.FlowRate].Hint)
	assert.Equal(t, models.StatusHigh, byField[models.Pressure].Status)
	assert.Equal(t, "Outside reference range", byField[models.Pressure].Hint)
	assert.Empty(t, byField[models.Torque].Hint)
}

func TestHeatmapEmpty(t *testing.T) {
	cells := Heatmap(nil)
	assert.NotNil(t, cells)
	assert.Empty(t, cells)
}
