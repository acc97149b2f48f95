// FilePath: internal/models/models.simulation.go
package models

import "time"

// SimulationInputs is the what-if record, one value per monitored sensor.
type SimulationInputs struct {
	SensorValues
}

// TaggedInput is a simulation input with its range classification.
type TaggedInput struct {
	Field  SensorField  `json:"field"`
	Value  float64      `json:"value"`
	Status HealthStatus `json:"status"`
}

// SimulationRun is one classified what-if scenario.
type SimulationRun struct {
	ID         string        `json:"id"`
	Inputs     []TaggedInput `json:"inputs"`
	Prediction FaultLabel    `json:"prediction"`
	Suggestion string        `json:"suggestion"`
	RanAt      time.Time     `json:"ran_at"`
}

// SimulatorState is the simulator view payload.
type SimulatorState struct {
	Inputs  []TaggedInput   `json:"inputs"`
	Latest  *SimulationRun  `json:"latest,omitempty"`
	History []SimulationRun `json:"history"`
}
