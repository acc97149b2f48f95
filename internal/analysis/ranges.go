package analysis

import "github.com/itsatony/pumpguard/internal/models"

// Reference ranges follow the normal operating point the classifier was trained on.
var referenceRanges = map[models.SensorField]models.ReferenceRange{
	models.RotationalSpeed: {Field: models.RotationalSpeed, Unit: "RPM", Min: 1350, Max: 1650},
	models.Torque:          {Field: models.Torque, Unit: "Nm", Min: 30, Max: 50},
	models.VibrationX:      {Field: models.VibrationX, Unit: "mm/s", Min: 1.0, Max: 3.0},
	models.VibrationY:      {Field: models.VibrationY, Unit: "mm/s", Min: 1.0, Max: 3.0},
	models.VibrationZ:      {Field: models.VibrationZ, Unit: "mm/s", Min: 1.0, Max: 3.0},
	models.Temperature:     {Field: models.Temperature, Unit: "°C", Min: 55, Max: 75},
	models.Pressure:        {Field: models.Pressure, Unit: "bar", Min: 4, Max: 6},
	models.FlowRate:        {Field: models.FlowRate, Unit: "LPM", Min: 150, Max: 250},
}

type hintKey struct {
	field  models.SensorField
	status models.HealthStatus
}

var healthHints = map[hintKey]string{
	{models.VibrationZ, models.StatusHigh}:  "Possible Bearing Fault",
	{models.Torque, models.StatusHigh}:      "Check load balancing",
	{models.Temperature, models.StatusHigh}: "Running hot",
	{models.FlowRate, models.StatusLow}:     "Possible cavitation or blockage",
	{models.Pressure, models.StatusLow}:     "Check suction side",
}

const defaultHint = "Outside reference range"

// DefaultInputs is the normal operating point used to seed the simulator.
func DefaultInputs() models.SimulationInputs {
	return models.SimulationInputs{SensorValues: models.SensorValues{
		RotationalSpeedRPM: 1500,
		TorqueNm:           40,
		VibrationXmms:      2,
		VibrationYmms:      2,
		VibrationZmms:      2,
		TemperatureC:       70,
		PressureBar:        5,
		FlowRateLPM:        200,
	}}
}

// RangeFor returns the reference range of a sensor.
func RangeFor(f models.SensorField) models.ReferenceRange {
	return referenceRanges[f]
}

// Classify tags a value against the sensor's reference range. Bounds are inclusive.
func Classify(f models.SensorField, value float64) models.HealthStatus {
	r, ok := referenceRanges[f]
	if !ok {
		return models.StatusNormal
	}
	switch {
	case value < r.Min:
		return models.StatusLow
	case value > r.Max:
		return models.StatusHigh
	}
	return models.StatusNormal
}

// TagInputs classifies every field of v in column order.
func TagInputs(v models.SensorValues) []models.TaggedInput {
	tagged := make([]models.TaggedInput, 0, len(models.SensorFields))
	for _, f := range models.SensorFields {
		value := v.Get(f)
		tagged = append(tagged, models.TaggedInput{Field: f, Value: value, Status: Classify(f, value)})
	}
	return tagged
}

// Heatmap averages each sensor over the readings and tags the result.
// No readings yields an empty slice.
func Heatmap(readings []models.Reading) []models.SensorHealth {
	cells := make([]models.SensorHealth, 0, len(models.SensorFields))
	if len(readings) == 0 {
		return cells
	}
	for _, f := range models.SensorFields {
		sum := 0.0
		for _, r := range readings {
			sum += r.Get(f)
		}
		avg := sum / float64(len(readings))
		status := Classify(f, avg)
		cell := models.SensorHealth{Field: f, Value: avg, Status: status, Range: RangeFor(f)}
		if status != models.StatusNormal {
			cell.Hint = healthHints[hintKey{f, status}]
			if cell.Hint == "" {
				cell.Hint = defaultHint
			}
		}
		cells = append(cells, cell)
	}
	return cells
}
