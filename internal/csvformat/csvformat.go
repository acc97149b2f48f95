// Package csvformat owns the CSV layouts the service exchanges: the sample
// upload file, the prediction report and the one-row simulation payload.
package csvformat

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/itsatony/pumpguard/internal/models"
)

// TimestampLayout is how timestamps are written to every CSV produced here.
const TimestampLayout = "2006-01-02 15:04:05"

// TimestampColumn is the first column of every layout.
const TimestampColumn = "Timestamp"

// PredictionColumn is appended to the report layout.
const PredictionColumn = "Prediction"

// Columns is the fixed nine-column upload schema.
var Columns = func() []string {
	cols := []string{TimestampColumn}
	for _, f := range models.SensorFields {
		cols = append(cols, string(f))
	}
	return cols
}()

// precision per column, keeps sample and synthetic rows stable
var precision = map[models.SensorField]int{
	models.RotationalSpeed: 0,
	models.Torque:          1,
	models.VibrationX:      2,
	models.VibrationY:      2,
	models.VibrationZ:      2,
	models.Temperature:     1,
	models.Pressure:        2,
	models.FlowRate:        1,
}

var sampleRows = []struct {
	ts     time.Time
	values models.SensorValues
}{
	{
		ts: time.Date(2024, time.January, 4, 2, 0, 0, 0, time.UTC),
		values: models.SensorValues{
			RotationalSpeedRPM: 1500, TorqueNm: 40, VibrationXmms: 2.1, VibrationYmms: 1.9,
			VibrationZmms: 2.05, TemperatureC: 70.2, PressureBar: 5.1, FlowRateLPM: 201.5,
		},
	},
	{
		ts: time.Date(2024, time.January, 4, 3, 0, 0, 0, time.UTC),
		values: models.SensorValues{
			RotationalSpeedRPM: 2980, TorqueNm: 51.7, VibrationXmms: 2.8, VibrationYmms: 2.6,
			VibrationZmms: 3.1, TemperatureC: 75.4, PressureBar: 4.6, FlowRateLPM: 180,
		},
	},
}

// SampleCSV returns the downloadable sample file. The output is byte-for-byte stable.
func SampleCSV() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(Columns)
	for _, row := range sampleRows {
		w.Write(valueRecord(row.ts, row.values))
	}
	w.Flush()
	return buf.Bytes()
}

// SyntheticRow renders one what-if input as a complete upload file.
func SyntheticRow(ts time.Time, values models.SensorValues) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(Columns)
	w.Write(valueRecord(ts, values))
	w.Flush()
	return buf.Bytes()
}

// WriteReport writes classified readings with a trailing Prediction column.
func WriteReport(out io.Writer, readings []models.Reading) error {
	w := csv.NewWriter(out)
	if err := w.Write(append(append([]string{}, Columns...), PredictionColumn)); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, r := range readings {
		record := append(valueRecord(r.Timestamp, r.SensorValues), string(r.Fault))
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write report row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}

func valueRecord(ts time.Time, values models.SensorValues) []string {
	record := make([]string, 0, len(Columns))
	record = append(record, ts.UTC().Format(TimestampLayout))
	for _, f := range models.SensorFields {
		record = append(record, strconv.FormatFloat(values.Get(f), 'f', precision[f], 64))
	}
	return record
}
