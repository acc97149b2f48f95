package pumpservice

import (
	"context"
	"time"

	"github.com/itsatony/pumpguard/internal/analysis"
	"github.com/itsatony/pumpguard/internal/config"
	"github.com/itsatony/pumpguard/internal/csvformat"
	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/models"
	"github.com/itsatony/pumpguard/internal/viewrouter"
	nuts "github.com/vaudience/go-nuts"
)

const (
	SampleFileName  = "sample_pump_data.csv"
	SampleURL       = "/v1/sample.csv"
	recentUploadsN  = 10
	dateQueryLayout = "2006-01-02"
)

// SummaryView is the summary screen payload.
type SummaryView struct {
	HasData bool                  `json:"has_data"`
	Summary *models.Summary       `json:"summary,omitempty"`
	Report  *models.SummaryReport `json:"report,omitempty"`
}

// ScheduleView is the maintenance scheduler payload.
type ScheduleView struct {
	HasData bool                 `json:"has_data"`
	Today   string               `json:"today"`
	Tasks   []models.PlannedTask `json:"tasks"`
}

// TrendRequest selects the trend window and shape.
type TrendRequest struct {
	Range       models.DateRange
	Granularity models.Granularity
	Mode        models.TrendMode
}

// TrendView is the trend chart payload. Exactly one of the bucket slices is set.
type TrendView struct {
	Granularity   models.Granularity    `json:"granularity"`
	Mode          models.TrendMode      `json:"mode"`
	Source        string                `json:"source"`
	Labels        []models.FaultLabel   `json:"labels,omitempty"`
	FaultBuckets  []models.FaultBucket  `json:"fault_buckets,omitempty"`
	SensorBuckets []models.SensorBucket `json:"sensor_buckets,omitempty"`
	Empty         bool                  `json:"empty"`
}

// HeatmapView is the sensor health payload.
type HeatmapView struct {
	Readings int                   `json:"readings"`
	Cells    []models.SensorHealth `json:"cells"`
	Empty    bool                  `json:"empty"`
}

// SampleFormat describes the expected upload layout.
type SampleFormat struct {
	FileName    string   `json:"file_name"`
	DownloadURL string   `json:"download_url"`
	Columns     []string `json:"columns"`
	Example     string   `json:"example"`
	MaxFileSize int64    `json:"max_file_size,omitempty"`
}

// UploadView is the upload screen payload.
type UploadView struct {
	Recent []*models.Upload `json:"recent"`
	Sample SampleFormat     `json:"sample"`
}

// ViewPayload is the routed view with its data.
type ViewPayload struct {
	View viewrouter.View `json:"view"`
	Data interface{}     `json:"data"`
}

// Sample describes the upload format
func (s *PumpService) Sample() SampleFormat {
	return SampleFormat{
		FileName:    SampleFileName,
		DownloadURL: SampleURL,
		Columns:     csvformat.Columns,
		Example:     string(csvformat.SampleCSV()),
		MaxFileSize: s.opts.MaxFileSize,
	}
}

// Summary reduces the latest published upload summary.
func (s *PumpService) Summary(ctx context.Context) (*SummaryView, error) {
	summary, ok, err := s.latestSummary(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &SummaryView{HasData: false}, nil
	}
	report := analysis.Summarize(summary.FaultCounts, summary.TotalRecords)
	return &SummaryView{HasData: true, Summary: summary, Report: &report}, nil
}

// Schedule plans maintenance from the latest published upload summary.
func (s *PumpService) Schedule(ctx context.Context) (*ScheduleView, error) {
	today := s.now()
	view := &ScheduleView{Today: today.Format(dateQueryLayout), Tasks: []models.PlannedTask{}}

	summary, ok, err := s.latestSummary(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return view, nil
	}
	view.HasData = true
	view.Tasks = analysis.PlanMaintenance(summary.FaultCounts, today)
	return view, nil
}

// Trends buckets readings from the configured trend source.
func (s *PumpService) Trends(ctx context.Context, req TrendRequest) (*TrendView, error) {
	if req.Granularity == "" {
		req.Granularity = models.Daily
	}
	if req.Mode == "" {
		req.Mode = models.TrendByFault
	}

	if req.Mode != models.TrendByFault && req.Mode != models.TrendBySensor {
		return nil, errors.NewValidationError("unknown trend mode", nil).
			WithDetails(map[string]string{"mode": string(req.Mode)})
	}

	readings, err := s.trendReadings(ctx, req.Range)
	if err != nil {
		return nil, err
	}

	view := &TrendView{Granularity: req.Granularity, Mode: req.Mode, Source: s.opts.TrendSource}
	switch req.Mode {
	case models.TrendByFault:
		buckets, err := analysis.AggregateFaults(readings, req.Granularity, req.Range)
		if err != nil {
			return nil, errors.NewValidationError(err.Error(), err)
		}
		view.FaultBuckets = buckets
		view.Empty = len(buckets) == 0
		if len(buckets) > 0 {
			view.Labels = buckets[0].Counts.Labels()
		}
	case models.TrendBySensor:
		buckets, err := analysis.AggregateSensors(readings, req.Granularity, req.Range)
		if err != nil {
			return nil, errors.NewValidationError(err.Error(), err)
		}
		view.SensorBuckets = buckets
		view.Empty = len(buckets) == 0
	}
	return view, nil
}

// Heatmap tags the average of each sensor over the range.
func (s *PumpService) Heatmap(ctx context.Context, within models.DateRange) (*HeatmapView, error) {
	readings, err := s.trendReadings(ctx, within)
	if err != nil {
		return nil, err
	}
	inRange := readings[:0:0]
	for _, r := range readings {
		if within.Contains(r.Timestamp) {
			inRange = append(inRange, r)
		}
	}
	cells := analysis.Heatmap(inRange)
	return &HeatmapView{Readings: len(inRange), Cells: cells, Empty: len(cells) == 0}, nil
}

// View renders the payload of the view selected by a navigation token.
func (s *PumpService) View(ctx context.Context, token string) (*ViewPayload, error) {
	view := viewrouter.Resolve(token)
	var (
		data interface{}
		err  error
	)
	switch view {
	case viewrouter.ViewUpload:
		data, err = s.uploadView(ctx)
	case viewrouter.ViewSummary:
		data, err = s.Summary(ctx)
	case viewrouter.ViewTrend:
		data, err = s.Trends(ctx, TrendRequest{})
	case viewrouter.ViewScheduler:
		data, err = s.Schedule(ctx)
	case viewrouter.ViewHeatmap:
		data, err = s.Heatmap(ctx, models.DateRange{})
	case viewrouter.ViewSimulator:
		data = s.SimulatorState(ctx)
	default:
		data = s.Sample()
	}
	if err != nil {
		return nil, err
	}
	return &ViewPayload{View: view, Data: data}, nil
}

func (s *PumpService) uploadView(ctx context.Context) (*UploadView, error) {
	recent, err := s.ListUploads(ctx, 0, recentUploadsN)
	if err != nil {
		return nil, err
	}
	return &UploadView{Recent: recent, Sample: s.Sample()}, nil
}

func (s *PumpService) latestSummary(ctx context.Context) (*models.Summary, bool, error) {
	summary, ok, err := s.State.LatestSummary(ctx)
	if err != nil {
		return nil, false, errors.NewInternalError("failed to load application state", err)
	}
	return summary, ok, nil
}

func (s *PumpService) trendReadings(ctx context.Context, within models.DateRange) ([]models.Reading, error) {
	if s.opts.TrendSource == config.TrendSourceClassifier {
		start := time.Now()
		readings, err := s.Classifier.FetchTrend(ctx)
		s.Metrics.ObserveClassifier("trend", err, time.Since(start))
		if err != nil {
			nuts.L.Warnf("[PumpService] Trend fetch failed: %v", err)
			return nil, errors.Wrap(err, "trend fetch failed")
		}
		return readings, nil
	}
	from, to := within.Bounds()
	return s.Readings.GetReadings(ctx, from, to)
}

// ParseDateRange reads optional YYYY-MM-DD bounds. End before start is rejected.
func ParseDateRange(start, end string) (models.DateRange, error) {
	var r models.DateRange
	var err error
	if start != "" {
		if r.Start, err = time.Parse(dateQueryLayout, start); err != nil {
			return r, errors.NewValidationError("invalid start date, expected YYYY-MM-DD", err)
		}
	}
	if end != "" {
		if r.End, err = time.Parse(dateQueryLayout, end); err != nil {
			return r, errors.NewValidationError("invalid end date, expected YYYY-MM-DD", err)
		}
	}
	if !r.Start.IsZero() && !r.End.IsZero() && r.End.Before(r.Start) {
		return r, errors.NewValidationError("end date is before start date", nil)
	}
	return r, nil
}
