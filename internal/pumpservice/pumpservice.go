package pumpservice

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/itsatony/pumpguard/internal/appstate"
	"github.com/itsatony/pumpguard/internal/classifier"
	"github.com/itsatony/pumpguard/internal/cleanup"
	"github.com/itsatony/pumpguard/internal/config"
	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/models"
	"github.com/itsatony/pumpguard/internal/repository"
)

// Classifier is the remote fault-classification service
type Classifier interface {
	Predict(ctx context.Context, fileName string, data io.Reader) (*classifier.Prediction, error)
	FetchTrend(ctx context.Context) ([]models.Reading, error)
	Simulate(ctx context.Context, row []byte) (models.FaultLabel, error)
}

// Metrics receives service-level observations
type Metrics interface {
	ObserveClassifier(op string, err error, took time.Duration)
	RecordUpload(stored int, counts models.FaultCounts)
	RecordEvent(eventName string, labels map[string]string)
}

// Options tune the service
type Options struct {
	TrendSource string
	MaxFileSize int64
	Now         func() time.Time
}

// PumpService contains all repositories and service-wide dependencies
type PumpService struct {
	Readings   repository.ReadingRepository
	Uploads    repository.UploadRepository
	Files      repository.FileRepository
	Classifier Classifier
	State      *appstate.AppState
	Cleanup    *cleanup.CleanupService
	Metrics    Metrics

	opts      Options
	uploading atomic.Bool
	sim       *simulator
}

// New creates a new PumpService instance
func New(
	readings repository.ReadingRepository,
	uploads repository.UploadRepository,
	files repository.FileRepository,
	cls Classifier,
	state *appstate.AppState,
	metrics Metrics,
	opts Options,
) *PumpService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.TrendSource == "" {
		opts.TrendSource = config.TrendSourceStore
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &PumpService{
		Readings:   readings,
		Uploads:    uploads,
		Files:      files,
		Classifier: cls,
		State:      state,
		Cleanup:    cleanup.New(uploads, readings, files),
		Metrics:    metrics,
		opts:       opts,
		sim:        newSimulator(),
	}
}

// Validate checks if all required dependencies are initialized
func (s *PumpService) Validate() error {
	if s.Readings == nil {
		return ErrMissingRepository("readings")
	}
	if s.Uploads == nil {
		return ErrMissingRepository("uploads")
	}
	if s.Files == nil {
		return ErrMissingRepository("files")
	}
	if s.Classifier == nil {
		return errors.NewInternalError("missing classifier client", nil)
	}
	if s.State == nil {
		return errors.NewInternalError("missing application state", nil)
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}

func (s *PumpService) now() time.Time {
	return s.opts.Now().UTC()
}

type noopMetrics struct{}

func (noopMetrics) ObserveClassifier(string, error, time.Duration) {}
func (noopMetrics) RecordUpload(int, models.FaultCounts)           {}
func (noopMetrics) RecordEvent(string, map[string]string)          {}
