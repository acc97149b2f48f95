// Package analysis holds the pure computations behind the dashboard views:
// time bucketing, fault prioritisation, summary reduction and sensor health.
package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/itsatony/pumpguard/internal/models"
)

const (
	hourKeyLayout = "2006-01-02 15:00"
	dayKeyLayout  = "2006-01-02"
)

// BucketStart truncates t to the start of its bucket. Weekly buckets start on
// Sunday (weekday 0) at or before t's date.
func BucketStart(t time.Time, g models.Granularity) time.Time {
	y, m, d := t.Date()
	switch g {
	case models.Hourly:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, t.Location())
	case models.Weekly:
		day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
		return day.AddDate(0, 0, -int(day.Weekday()))
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
}

// BucketKey is the sortable string identifying t's bucket.
func BucketKey(t time.Time, g models.Granularity) string {
	start := BucketStart(t, g)
	if g == models.Hourly {
		return start.Format(hourKeyLayout)
	}
	return start.Format(dayKeyLayout)
}

// AggregateFaults tallies readings per bucket and label. Every label of the
// label set is present in every bucket.
func AggregateFaults(readings []models.Reading, g models.Granularity, within models.DateRange) ([]models.FaultBucket, error) {
	if err := checkGranularity(g); err != nil {
		return nil, err
	}
	ordered := prepare(readings, within)

	labels := append([]models.FaultLabel{}, models.FaultLabels...)
	for _, r := range ordered {
		if r.Fault == models.Unknown {
			labels = append(labels, models.Unknown)
			break
		}
	}

	buckets := make([]models.FaultBucket, 0)
	index := make(map[string]int)
	for _, r := range ordered {
		key := BucketKey(r.Timestamp, g)
		i, ok := index[key]
		if !ok {
			counts := make(models.FaultCounts, len(labels))
			for _, l := range labels {
				counts[l] = 0
			}
			buckets = append(buckets, models.FaultBucket{
				Key:    key,
				Start:  BucketStart(r.Timestamp, g),
				Counts: counts,
			})
			i = len(buckets) - 1
			index[key] = i
		}
		buckets[i].Counts[r.Fault]++
		buckets[i].Total++
	}

	sort.Slice(buckets, func(a, b int) bool { return buckets[a].Key < buckets[b].Key })
	return buckets, nil
}

// AggregateSensors averages sensor values per bucket and picks the most
// frequent label; ties go to the label seen first in chronological order.
func AggregateSensors(readings []models.Reading, g models.Granularity, within models.DateRange) ([]models.SensorBucket, error) {
	if err := checkGranularity(g); err != nil {
		return nil, err
	}
	ordered := prepare(readings, within)

	type acc struct {
		bucket models.SensorBucket
		sums   [8]float64
		tally  map[models.FaultLabel]int
		seen   []models.FaultLabel
	}
	accs := make([]*acc, 0)
	index := make(map[string]*acc)
	for _, r := range ordered {
		key := BucketKey(r.Timestamp, g)
		a, ok := index[key]
		if !ok {
			a = &acc{
				bucket: models.SensorBucket{Key: key, Start: BucketStart(r.Timestamp, g)},
				tally:  make(map[models.FaultLabel]int),
			}
			index[key] = a
			accs = append(accs, a)
		}
		for i, f := range models.SensorFields {
			a.sums[i] += r.Get(f)
		}
		if _, ok := a.tally[r.Fault]; !ok {
			a.seen = append(a.seen, r.Fault)
		}
		a.tally[r.Fault]++
		a.bucket.Count++
	}

	buckets := make([]models.SensorBucket, 0, len(accs))
	for _, a := range accs {
		n := float64(a.bucket.Count)
		for i, f := range models.SensorFields {
			a.bucket.Averages = a.bucket.Averages.Set(f, a.sums[i]/n)
		}
		a.bucket.Fault = mostFrequent(a.seen, a.tally)
		buckets = append(buckets, a.bucket)
	}

	sort.Slice(buckets, func(a, b int) bool { return buckets[a].Key < buckets[b].Key })
	return buckets, nil
}

// mostFrequent walks labels in first-seen order so a strict > keeps the earliest on ties.
func mostFrequent(seen []models.FaultLabel, tally map[models.FaultLabel]int) models.FaultLabel {
	best := models.Unknown
	bestCount := 0
	for _, l := range seen {
		if tally[l] > bestCount {
			best, bestCount = l, tally[l]
		}
	}
	return best
}

// prepare filters by date and puts readings into a total order so that the
// result never depends on the order readings arrived in.
func prepare(readings []models.Reading, within models.DateRange) []models.Reading {
	out := make([]models.Reading, 0, len(readings))
	for _, r := range readings {
		if r.Timestamp.IsZero() || !within.Contains(r.Timestamp) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return readingLess(out[i], out[j]) })
	return out
}

func readingLess(a, b models.Reading) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.Before(b.Timestamp)
	}
	if a.Fault.Rank() != b.Fault.Rank() {
		return a.Fault.Rank() < b.Fault.Rank()
	}
	for _, f := range models.SensorFields {
		if av, bv := a.Get(f), b.Get(f); av != bv {
			return av < bv
		}
	}
	return false
}

func checkGranularity(g models.Granularity) error {
	switch g {
	case models.Hourly, models.Daily, models.Weekly:
		return nil
	}
	return fmt.Errorf("unsupported granularity %q", g)
}
