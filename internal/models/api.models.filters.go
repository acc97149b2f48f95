package models

import "time"

// TrendQuery is decoded from the /trends query string.
type TrendQuery struct {
	Start       string `schema:"start"`
	End         string `schema:"end"`
	Granularity string `schema:"granularity"`
	Mode        string `schema:"mode"`
}

// HeatmapQuery is decoded from the /heatmap query string.
type HeatmapQuery struct {
	Start string `schema:"start"`
	End   string `schema:"end"`
}

// PageQuery is decoded from list endpoints.
type PageQuery struct {
	Offset int `schema:"offset"`
	Limit  int `schema:"limit"`
}

// DateRange is an inclusive calendar-date filter. A zero bound is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date of t falls within the range.
func (r DateRange) Contains(t time.Time) bool {
	day := dateOf(t)
	if !r.Start.IsZero() && day.Before(dateOf(r.Start)) {
		return false
	}
	if !r.End.IsZero() && day.After(dateOf(r.End)) {
		return false
	}
	return true
}

// Bounds returns the half-open instant interval [start 00:00, end+1 00:00) for storage queries.
func (r DateRange) Bounds() (time.Time, time.Time) {
	var from, to time.Time
	if !r.Start.IsZero() {
		from = dateOf(r.Start)
	}
	if !r.End.IsZero() {
		to = dateOf(r.End).AddDate(0, 0, 1)
	}
	return from, to
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
