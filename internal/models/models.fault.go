// FilePath: internal/models/models.fault.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// FaultLabel is the classification outcome for a single reading.
type FaultLabel string

const (
	BearingFault FaultLabel = "Bearing Fault"
	Misalignment FaultLabel = "Misalignment"
	Imbalance    FaultLabel = "Imbalance"
	Cavitation   FaultLabel = "Cavitation"
	Normal       FaultLabel = "Normal"
	Unknown      FaultLabel = "Unknown"
)

// FaultLabels is the closed label set in display order. Unknown is not part of it.
var FaultLabels = []FaultLabel{BearingFault, Misalignment, Imbalance, Cavitation, Normal}

// ParseFaultLabel maps a raw classifier label onto the closed set.
// Anything unrecognised becomes Unknown.
func ParseFaultLabel(raw string) FaultLabel {
	norm := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	norm = strings.ReplaceAll(norm, "_", " ")
	for _, l := range FaultLabels {
		if strings.ToLower(string(l)) == norm {
			return l
		}
	}
	if norm == "normal operation" {
		return Normal
	}
	return Unknown
}

// Rank returns the display position of the label; Unknown sorts last.
func (l FaultLabel) Rank() int {
	for i, known := range FaultLabels {
		if known == l {
			return i
		}
	}
	return len(FaultLabels)
}

// IsFault reports whether the label describes an abnormal condition.
func (l FaultLabel) IsFault() bool {
	return l != Normal
}

// FaultCounts maps a label to the number of readings classified with it.
// Absent keys count as zero.
type FaultCounts map[FaultLabel]int

// Get returns the count for a label, zero when absent.
func (c FaultCounts) Get(l FaultLabel) int {
	if c == nil {
		return 0
	}
	return c[l]
}

// Total sums all counts.
func (c FaultCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Labels returns the labels present in c in display order, Unknown last.
func (c FaultCounts) Labels() []FaultLabel {
	labels := make([]FaultLabel, 0, len(c))
	for _, l := range FaultLabels {
		if _, ok := c[l]; ok {
			labels = append(labels, l)
		}
	}
	if _, ok := c[Unknown]; ok {
		labels = append(labels, Unknown)
	}
	return labels
}

// NormalizeCounts folds raw label keys onto the closed set and drops negative counts.
func NormalizeCounts(raw map[string]int) FaultCounts {
	counts := make(FaultCounts, len(raw))
	for k, n := range raw {
		if n <= 0 {
			continue
		}
		counts[ParseFaultLabel(k)] += n
	}
	return counts
}

// Value implements the driver.Valuer interface
func (c FaultCounts) Value() (driver.Value, error) {
	if c == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(c)
}

// Scan implements the sql.Scanner interface
func (c *FaultCounts) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*c = FaultCounts{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported fault counts type %T", value)
	}
	counts := FaultCounts{}
	if err := json.Unmarshal(raw, &counts); err != nil {
		return err
	}
	*c = counts
	return nil
}
