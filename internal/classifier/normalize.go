package classifier

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/itsatony/pumpguard/internal/models"
)

// RawRow is one row as returned by the classifier, keyed by column name.
type RawRow map[string]any

var labelColumns = []string{"Prediction", "Fault_Type", "fault_type", "prediction"}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006/01/02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts the layouts the classifier and uploaded CSVs use.
// Zone-less values are read as UTC; offsets are converted to UTC.
func ParseTimestamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Normalize converts raw rows into strict readings. Rows without a parseable
// timestamp are dropped and counted; unrecognised labels become Unknown and
// missing sensor values read as zero.
func Normalize(rows []RawRow) (readings []models.Reading, dropped int) {
	readings = make([]models.Reading, 0, len(rows))
	for _, row := range rows {
		r, ok := normalizeRow(row, true)
		if !ok {
			dropped++
			continue
		}
		readings = append(readings, r)
	}
	return readings, dropped
}

func normalizeRow(row RawRow, requireTimestamp bool) (models.Reading, bool) {
	var r models.Reading

	ts, ok := ParseTimestamp(stringValue(row["Timestamp"]))
	if !ok && requireTimestamp {
		return r, false
	}
	r.Timestamp = ts

	r.Fault = models.Unknown
	for _, col := range labelColumns {
		if v, ok := row[col]; ok {
			r.Fault = models.ParseFaultLabel(stringValue(v))
			break
		}
	}

	for _, f := range models.SensorFields {
		if v, ok := floatValue(row[string(f)]); ok {
			r.SensorValues = r.SensorValues.Set(f, v)
		}
	}
	return r, true
}

// CountLabels tallies readings per label.
func CountLabels(readings []models.Reading) models.FaultCounts {
	counts := models.FaultCounts{}
	for _, r := range readings {
		counts[r.Fault]++
	}
	return counts
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case nil:
		return ""
	}
	return ""
}

func floatValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return f, err == nil
	}
	return 0, false
}
