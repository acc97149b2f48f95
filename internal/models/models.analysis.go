// FilePath: internal/models/models.analysis.go
package models

import "time"

// Granularity is the bucket width used for time-series aggregation.
type Granularity string

const (
	Hourly Granularity = "hourly"
	Daily  Granularity = "daily"
	Weekly Granularity = "weekly"
)

// ParseGranularity accepts the lower-case names; empty defaults to Daily.
func ParseGranularity(raw string) (Granularity, bool) {
	switch Granularity(raw) {
	case Hourly, Daily, Weekly:
		return Granularity(raw), true
	case "":
		return Daily, true
	}
	return "", false
}

// TrendMode selects what a bucket holds.
type TrendMode string

const (
	TrendByFault  TrendMode = "fault"
	TrendBySensor TrendMode = "sensor"
)

// FaultBucket holds per-label counts for one time window.
type FaultBucket struct {
	Key    string      `json:"key"`
	Start  time.Time   `json:"start"`
	Total  int         `json:"total"`
	Counts FaultCounts `json:"counts"`
}

// SensorBucket holds averaged sensor values and the dominant label for one time window.
type SensorBucket struct {
	Key      string       `json:"key"`
	Start    time.Time    `json:"start"`
	Count    int          `json:"count"`
	Averages SensorValues `json:"averages"`
	Fault    FaultLabel   `json:"fault_type"`
}

// Priority of a planned maintenance task.
type Priority string

const (
	PriorityUrgent   Priority = "Urgent"
	PriorityMedium   Priority = "Medium"
	PriorityNextWeek Priority = "Next Week"
	PriorityLow      Priority = "Low"
)

// PlannedTask is one derived maintenance action.
type PlannedTask struct {
	Fault    FaultLabel `json:"fault_type"`
	Task     string     `json:"task"`
	Priority Priority   `json:"priority"`
	DueDate  string     `json:"due_date"`
	Count    int        `json:"count"`
}

// SummaryLine is one row of the fault listing.
type SummaryLine struct {
	Fault FaultLabel `json:"fault_type"`
	Count int        `json:"count"`
	Text  string     `json:"text"`
}

// Suggestion pairs a detected label with its canned maintenance advice.
type Suggestion struct {
	Fault      FaultLabel `json:"fault_type"`
	Count      int        `json:"count"`
	Suggestion string     `json:"suggestion"`
}

// SummaryReport is the Summary Reducer output.
type SummaryReport struct {
	TotalRecords int           `json:"total_records"`
	Lines        []SummaryLine `json:"lines"`
	Suggestions  []Suggestion  `json:"suggestions"`
	AllNormal    bool          `json:"all_normal"`
	NormalNotice string        `json:"normal_notice,omitempty"`
}

// HealthStatus tags a sensor value against its reference range.
type HealthStatus string

const (
	StatusLow    HealthStatus = "Low"
	StatusNormal HealthStatus = "Normal"
	StatusHigh   HealthStatus = "High"
)

// ReferenceRange is the normal operating band of a sensor.
type ReferenceRange struct {
	Field SensorField `json:"field"`
	Unit  string      `json:"unit"`
	Min   float64     `json:"min"`
	Max   float64     `json:"max"`
}

// SensorHealth is one heatmap cell.
type SensorHealth struct {
	Field  SensorField    `json:"field"`
	Value  float64        `json:"value"`
	Status HealthStatus   `json:"status"`
	Range  ReferenceRange `json:"range"`
	Hint   string         `json:"hint,omitempty"`
}
