// FilePath: internal/models/models.reading.go
package models

import "time"

// SensorField names one monitored pump sensor. The value doubles as the CSV column name.
type SensorField string

const (
	RotationalSpeed SensorField = "Rotational_Speed_RPM"
	Torque          SensorField = "Torque_Nm"
	VibrationX      SensorField = "Vibration_X_mm_s"
	VibrationY      SensorField = "Vibration_Y_mm_s"
	VibrationZ      SensorField = "Vibration_Z_mm_s"
	Temperature     SensorField = "Temperature_C"
	Pressure        SensorField = "Pressure_bar"
	FlowRate        SensorField = "Flow_Rate_LPM"
)

// SensorFields lists the monitored sensors in CSV column order.
var SensorFields = []SensorField{
	RotationalSpeed, Torque, VibrationX, VibrationY, VibrationZ, Temperature, Pressure, FlowRate,
}

// ParseSensorField resolves a column name.
func ParseSensorField(name string) (SensorField, bool) {
	for _, f := range SensorFields {
		if string(f) == name {
			return f, true
		}
	}
	return "", false
}

// SensorValues holds one value per monitored sensor.
type SensorValues struct {
	RotationalSpeedRPM float64 `json:"Rotational_Speed_RPM" db:"rotational_speed_rpm"`
	TorqueNm           float64 `json:"Torque_Nm" db:"torque_nm"`
	VibrationXmms      float64 `json:"Vibration_X_mm_s" db:"vibration_x_mm_s"`
	VibrationYmms      float64 `json:"Vibration_Y_mm_s" db:"vibration_y_mm_s"`
	VibrationZmms      float64 `json:"Vibration_Z_mm_s" db:"vibration_z_mm_s"`
	TemperatureC       float64 `json:"Temperature_C" db:"temperature_c"`
	PressureBar        float64 `json:"Pressure_bar" db:"pressure_bar"`
	FlowRateLPM        float64 `json:"Flow_Rate_LPM" db:"flow_rate_lpm"`
}

// Get returns the value of a single field.
func (v SensorValues) Get(f SensorField) float64 {
	switch f {
	case RotationalSpeed:
		return v.RotationalSpeedRPM
	case Torque:
		return v.TorqueNm
	case VibrationX:
		return v.VibrationXmms
	case VibrationY:
		return v.VibrationYmms
	case VibrationZ:
		return v.VibrationZmms
	case Temperature:
		return v.TemperatureC
	case Pressure:
		return v.PressureBar
	case FlowRate:
		return v.FlowRateLPM
	}
	return 0
}

// Set assigns a single field and returns the updated copy.
func (v SensorValues) Set(f SensorField, value float64) SensorValues {
	switch f {
	case RotationalSpeed:
		v.RotationalSpeedRPM = value
	case Torque:
		v.TorqueNm = value
	case VibrationX:
		v.VibrationXmms = value
	case VibrationY:
		v.VibrationYmms = value
	case VibrationZ:
		v.VibrationZmms = value
	case Temperature:
		v.TemperatureC = value
	case Pressure:
		v.PressureBar = value
	case FlowRate:
		v.FlowRateLPM = value
	}
	return v
}

// Reading is one classified sensor sample. Readings are only built by the
// classifier boundary and are never mutated afterwards.
type Reading struct {
	ID        string     `json:"id" db:"id"`
	UploadID  string     `json:"upload_id" db:"upload_id"`
	Timestamp time.Time  `json:"timestamp" db:"ts"`
	Fault     FaultLabel `json:"fault_type" db:"fault_type"`
	SensorValues
}
