package pumpservice

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsatony/pumpguard/internal/appstate"
	"github.com/itsatony/pumpguard/internal/classifier"
	"github.com/itsatony/pumpguard/internal/config"
	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/models"
	"github.com/itsatony/pumpguard/internal/repository/repotest"
	"github.com/itsatony/pumpguard/internal/viewrouter"
)

var today = time.Date(2024, time.July, 18, 9, 30, 0, 0, time.UTC)

type fakeClassifier struct {
	mu         sync.Mutex
	prediction *classifier.Prediction
	trend      []models.Reading
	label      models.FaultLabel
	err        error
	gotFile    string
	gotRows    [][]byte
	block      chan struct{}
}

func (f *fakeClassifier) Predict(ctx context.Context, fileName string, data io.Reader) (*classifier.Prediction, error) {
	if f.block != nil {
		<-f.block
	}
	body, _ := io.ReadAll(data)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotFile = fileName + ":" + string(body)
	if f.err != nil {
		return nil, f.err
	}
	return f.prediction, nil
}

func (f *fakeClassifier) FetchTrend(ctx context.Context) ([]models.Reading, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.trend, nil
}

func (f *fakeClassifier) Simulate(ctx context.Context, row []byte) (models.FaultLabel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotRows = append(f.gotRows, row)
	if f.err != nil {
		return "", f.err
	}
	return f.label, nil
}

type fixture struct {
	svc      *PumpService
	cls      *fakeClassifier
	readings *repotest.Readings
	uploads  *repotest.Uploads
	files    *repotest.Files
}

func newFixture(t *testing.T, trendSource string) *fixture {
	t.Helper()
	f := &fixture{
		cls:      &fakeClassifier{},
		readings: &repotest.Readings{},
		uploads:  &repotest.Uploads{},
		files:    &repotest.Files{},
	}
	f.svc = New(f.readings, f.uploads, f.files, f.cls, appstate.New(appstate.NewMemoryStore()), nil, Options{
		TrendSource: trendSource,
		MaxFileSize: 1024,
		Now:         func() time.Time { return today },
	})
	require.NoError(t, f.svc.Validate())
	return f
}

func reading(ts string, fault models.FaultLabel) models.Reading {
	t, _ := time.Parse("2006-01-02 15:04", ts)
	return models.Reading{Timestamp: t, Fault: fault, SensorValues: models.SensorValues{TemperatureC: 70}}
}

func samplePrediction() *classifier.Prediction {
	return &classifier.Prediction{
		Message:      "ok",
		TotalRecords: 4,
		FaultCounts:  models.FaultCounts{models.Normal: 2, models.BearingFault: 1, models.Cavitation: 1},
		Readings: []models.Reading{
			reading("2024-07-14 10:05", models.Normal),
			reading("2024-07-14 10:47", models.BearingFault),
			reading("2024-07-15 11:02", models.Normal),
			reading("2024-07-16 08:00", models.Cavitation),
		},
	}
}

func TestProcessUpload(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	f.cls.prediction = samplePrediction()
	ctx := context.Background()

	res, err := f.svc.ProcessUpload(ctx, "pump.csv", strings.NewReader("Timestamp\n"))
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Message)
	assert.Equal(t, 4, res.TotalRecords)
	assert.Equal(t, 4, res.StoredReadings)
	assert.Equal(t, ReportURL(res.Upload.ID), res.DownloadURL)
	assert.Equal(t, "pump.csv:Timestamp\n", f.cls.gotFile)
	assert.Equal(t, 4, f.readings.Len())

	stored, err := f.uploads.Get(ctx, res.Upload.ID)
	require.NoError(t, err)
	assert.Equal(t, today, stored.CreatedAt)

	name, rc, err := f.svc.OpenReport(ctx, res.Upload.ID)
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "prediction_pump.csv", name)
	assert.Contains(t, string(body), "Bearing Fault")

	summary, err := f.svc.Summary(ctx)
	require.NoError(t, err)
	require.True(t, summary.HasData)
	assert.Equal(t, res.Upload.ID, summary.Summary.UploadID)
	assert.Len(t, summary.Report.Lines, 5)
	assert.False(t, summary.Report.AllNormal)
}

func TestProcessUploadRejectsBadNames(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	for _, name := range []string{"", "  ", "pump.txt", "pump"} {
		_, err := f.svc.ProcessUpload(context.Background(), name, strings.NewReader("x"))
		assert.True(t, errors.IsValidation(err), name)
	}
	assert.Zero(t, f.files.Count())
}

func TestClassifierFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	ctx := context.Background()

	f.cls.prediction = samplePrediction()
	first, err := f.svc.ProcessUpload(ctx, "first.csv", strings.NewReader("x"))
	require.NoError(t, err)

	f.cls.err = errors.NewUpstreamError("classifier predict failed: 500", nil)
	_, err = f.svc.ProcessUpload(ctx, "second.csv", strings.NewReader("y"))
	require.Error(t, err)
	assert.True(t, errors.IsUpstream(err))

	summary, err := f.svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Upload.ID, summary.Summary.UploadID)
	assert.Equal(t, 4, f.readings.Len())
	assert.Equal(t, 2, f.files.Count())

	uploads, err := f.svc.ListUploads(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, uploads, 1)
}

func TestStorageFailureDiscardsFiles(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	f.cls.prediction = samplePrediction()
	f.readings.InsertFn = func([]models.Reading) error { return errors.NewDatabaseError("down", nil) }

	_, err := f.svc.ProcessUpload(context.Background(), "pump.csv", strings.NewReader("x"))
	require.Error(t, err)
	assert.Zero(t, f.files.Count())

	summary, err := f.svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, summary.HasData)
}

type brokenStore struct{ appstate.Store }

func (brokenStore) Put(context.Context, string, []byte) error {
	return fmt.Errorf("connection reset")
}

func TestStateFailureDiscardsUpload(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	f.svc.State = appstate.New(brokenStore{appstate.NewMemoryStore()})
	f.cls.prediction = samplePrediction()
	ctx := context.Background()

	_, err := f.svc.ProcessUpload(ctx, "pump.csv", strings.NewReader("x"))
	require.Error(t, err)
	apiErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, 500, apiErr.Code)

	assert.Zero(t, f.readings.Len())
	assert.Zero(t, f.files.Count())
	uploads, err := f.svc.ListUploads(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, uploads)
	assert.False(t, f.svc.uploading.Load())
}

func TestListUploadsCapsPageSize(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	ctx := context.Background()
	for i := 0; i < maxPageSize+10; i++ {
		require.NoError(t, f.uploads.Create(ctx, &models.Upload{
			ID:        fmt.Sprintf("upl_%03d", i),
			CreatedAt: today.Add(-time.Duration(i) * time.Minute),
		}))
	}

	page, err := f.svc.ListUploads(ctx, 0, maxPageSize+50)
	require.NoError(t, err)
	assert.Len(t, page, maxPageSize)

	page, err = f.svc.ListUploads(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page, defaultPageSize)
}

func TestConcurrentUploadIsRejected(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	f.cls.prediction = samplePrediction()
	f.cls.block = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.ProcessUpload(context.Background(), "slow.csv", strings.NewReader("x"))
		done <- err
	}()

	require.Eventually(t, func() bool { return f.svc.uploading.Load() }, time.Second, time.Millisecond)
	_, err := f.svc.ProcessUpload(context.Background(), "fast.csv", strings.NewReader("x"))
	require.Error(t, err)
	apiErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, 409, apiErr.Code)

	close(f.cls.block)
	require.NoError(t, <-done)
}

func TestDeleteUpload(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	f.cls.prediction = samplePrediction()
	ctx := context.Background()

	res, err := f.svc.ProcessUpload(ctx, "pump.csv", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteUpload(ctx, res.Upload.ID))
	assert.Zero(t, f.readings.Len())
	assert.Zero(t, f.files.Count())

	_, err = f.svc.GetUpload(ctx, res.Upload.ID)
	assert.True(t, errors.IsNotFound(err))
	_, _, err = f.svc.OpenReport(ctx, res.Upload.ID)
	assert.True(t, errors.IsNotFound(err))
}

func TestSummaryAndScheduleWithoutData(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	ctx := context.Background()

	summary, err := f.svc.Summary(ctx)
	require.NoError(t, err)
	assert.False(t, summary.HasData)
	assert.Nil(t, summary.Report)

	schedule, err := f.svc.Schedule(ctx)
	require.NoError(t, err)
	assert.False(t, schedule.HasData)
	assert.Equal(t, "2024-07-18", schedule.Today)
	assert.Empty(t, schedule.Tasks)
}

func TestSchedule(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	f.cls.prediction = samplePrediction()
	ctx := context.Background()
	_, err := f.svc.ProcessUpload(ctx, "pump.csv", strings.NewReader("x"))
	require.NoError(t, err)

	schedule, err := f.svc.Schedule(ctx)
	require.NoError(t, err)
	require.True(t, schedule.HasData)
	require.Len(t, schedule.Tasks, 2)
	assert.Equal(t, models.BearingFault, schedule.Tasks[0].Fault)
	assert.Equal(t, "2024-07-20", schedule.Tasks[0].DueDate)
	assert.Equal(t, models.Cavitation, schedule.Tasks[1].Fault)
	assert.Equal(t, models.PriorityLow, schedule.Tasks[1].Priority)
}

func TestTrendsFromStore(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	f.cls.prediction = samplePrediction()
	ctx := context.Background()
	_, err := f.svc.ProcessUpload(ctx, "pump.csv", strings.NewReader("x"))
	require.NoError(t, err)

	rng, err := ParseDateRange("2024-07-14", "2024-07-15")
	require.NoError(t, err)

	view, err := f.svc.Trends(ctx, TrendRequest{Range: rng, Granularity: models.Hourly})
	require.NoError(t, err)
	assert.Equal(t, models.TrendByFault, view.Mode)
	require.Len(t, view.FaultBuckets, 2)
	assert.Equal(t, "2024-07-14 10:00", view.FaultBuckets[0].Key)
	assert.Equal(t, 1, view.FaultBuckets[0].Counts[models.BearingFault])
	assert.Equal(t, 0, view.FaultBuckets[1].Counts[models.BearingFault])
	assert.Equal(t, models.FaultLabels, view.Labels)

	weekly, err := f.svc.Trends(ctx, TrendRequest{Granularity: models.Weekly, Mode: models.TrendBySensor})
	require.NoError(t, err)
	require.Len(t, weekly.SensorBuckets, 1)
	assert.Equal(t, "2024-07-14", weekly.SensorBuckets[0].Key)
	assert.Equal(t, models.Normal, weekly.SensorBuckets[0].Fault)
}

func TestTrendsFromClassifier(t *testing.T) {
	f := newFixture(t, config.TrendSourceClassifier)
	f.cls.trend = []models.Reading{reading("2024-07-14 10:05", models.Unknown)}

	view, err := f.svc.Trends(context.Background(), TrendRequest{})
	require.NoError(t, err)
	assert.Equal(t, config.TrendSourceClassifier, view.Source)
	require.Len(t, view.FaultBuckets, 1)
	assert.Contains(t, view.Labels, models.Unknown)

	f.cls.err = errors.NewUpstreamError("trend failed", nil)
	_, err = f.svc.Trends(context.Background(), TrendRequest{})
	assert.True(t, errors.IsUpstream(err))
}

func TestTrendsEmptyAndInvalidMode(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	view, err := f.svc.Trends(context.Background(), TrendRequest{})
	require.NoError(t, err)
	assert.True(t, view.Empty)

	_, err = f.svc.Trends(context.Background(), TrendRequest{Mode: "pie"})
	assert.True(t, errors.IsValidation(err))
}

func TestInvalidModeSkipsTrendSource(t *testing.T) {
	f := newFixture(t, config.TrendSourceClassifier)
	f.cls.err = errors.NewUpstreamError("trend failed", nil)

	_, err := f.svc.Trends(context.Background(), TrendRequest{Mode: "pie"})
	assert.True(t, errors.IsValidation(err))
	assert.False(t, errors.IsUpstream(err))
}

func TestHeatmap(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	f.cls.prediction = samplePrediction()
	ctx := context.Background()
	_, err := f.svc.ProcessUpload(ctx, "pump.csv", strings.NewReader("x"))
	require.NoError(t, err)

	view, err := f.svc.Heatmap(ctx, models.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, 4, view.Readings)
	require.Len(t, view.Cells, len(models.SensorFields))

	empty, err := f.svc.Heatmap(ctx, models.DateRange{Start: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.True(t, empty.Empty)
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("", "")
	require.NoError(t, err)
	assert.True(t, r.Start.IsZero())

	_, err = ParseDateRange("2024-13-01", "")
	assert.True(t, errors.IsValidation(err))

	_, err = ParseDateRange("2024-07-18", "2024-07-01")
	assert.True(t, errors.IsValidation(err))
}

func TestView(t *testing.T) {
	f := newFixture(t, config.TrendSourceStore)
	ctx := context.Background()

	cases := map[string]viewrouter.View{
		"":           viewrouter.ViewUpload,
		"#summary":   viewrouter.ViewSummary,
		"trend":      viewrouter.ViewTrend,
		"#scheduler": viewrouter.ViewScheduler,
		"#heatmap":   viewrouter.ViewHeatmap,
		"#simulator": viewrouter.ViewSimulator,
		"#elsewhere": viewrouter.ViewNone,
	}
	for token, want := range cases {
		payload, err := f.svc.View(ctx, token)
		require.NoError(t, err, token)
		assert.Equal(t, want, payload.View, token)
		assert.NotNil(t, payload.Data, token)
	}

	none, err := f.svc.View(ctx, "#elsewhere")
	require.NoError(t, err)
	sample, ok := none.Data.(SampleFormat)
	require.True(t, ok)
	assert.Equal(t, SampleURL, sample.DownloadURL)
	assert.True(t, strings.HasPrefix(sample.Example, "Timestamp,"))
}
