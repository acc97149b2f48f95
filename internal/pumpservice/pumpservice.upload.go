package pumpservice

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/itsatony/pumpguard/internal/classifier"
	"github.com/itsatony/pumpguard/internal/csvformat"
	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	defaultUploadMessage = "File processed successfully"
)

// ReportURL is where the report of an upload can be downloaded.
func ReportURL(uploadID string) string {
	return "/v1/uploads/" + uploadID + "/report"
}

// ValidateFileName accepts non-empty names with a .csv extension.
func ValidateFileName(name string) (string, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", errors.NewValidationError("no file selected", nil)
	}
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return "", errors.NewValidationError("only .csv files are accepted", nil).
			WithDetails(map[string]string{"file_name": name})
	}
	return name, nil
}

// ProcessUpload stores, classifies and persists one CSV file, then publishes
// its summary. Nothing is published when any step fails.
func (s *PumpService) ProcessUpload(ctx context.Context, fileName string, data io.Reader) (*models.UploadResult, error) {
	name, err := ValidateFileName(fileName)
	if err != nil {
		return nil, err
	}
	if !s.uploading.CompareAndSwap(false, true) {
		return nil, errors.NewConflictError("an upload is already being processed", nil)
	}
	defer s.uploading.Store(false)

	uploadID := nuts.NID("upl", 12)
	nuts.L.Infof("[PumpService] Processing upload %s (%s)", uploadID, name)

	sourcePath, err := s.Files.StoreSource(ctx, uploadID, name, data)
	if err != nil {
		return nil, err
	}

	pred, err := s.classify(ctx, uploadID, name, sourcePath)
	if err != nil {
		s.discard(ctx, uploadID, false)
		return nil, err
	}

	stored, err := s.Readings.InsertReadings(ctx, uploadID, pred.Readings)
	if err != nil {
		s.discard(ctx, uploadID, false)
		return nil, err
	}

	reportPath, err := s.Files.StoreReport(ctx, uploadID, name, func(w io.Writer) error {
		return csvformat.WriteReport(w, pred.Readings)
	})
	if err != nil {
		s.discard(ctx, uploadID, true)
		return nil, err
	}

	upload := &models.Upload{
		ID:           uploadID,
		FileName:     name,
		SourcePath:   sourcePath,
		ReportPath:   reportPath,
		TotalRecords: pred.TotalRecords,
		FaultCounts:  pred.FaultCounts,
		CreatedAt:    s.now(),
	}
	if err := s.Uploads.Create(ctx, upload); err != nil {
		s.discard(ctx, uploadID, true)
		return nil, err
	}

	summary := models.Summary{
		UploadID:     uploadID,
		FileName:     name,
		TotalRecords: pred.TotalRecords,
		FaultCounts:  pred.FaultCounts,
		DownloadURL:  ReportURL(uploadID),
		CompletedAt:  upload.CreatedAt,
	}
	if err := s.State.SaveSummary(ctx, summary); err != nil {
		cctx := context.WithoutCancel(ctx)
		s.discard(cctx, uploadID, true)
		if derr := s.Uploads.Delete(cctx, uploadID); derr != nil {
			nuts.L.Errorf("[PumpService] Failed to discard record of upload %s: %v", uploadID, derr)
		}
		return nil, errors.NewInternalError("failed to publish upload summary", err)
	}

	s.Metrics.RecordUpload(stored, pred.FaultCounts)
	s.Metrics.RecordEvent("upload.completed", map[string]string{"upload_id": uploadID})
	nuts.L.Infof("[PumpService] Upload %s classified: %d records, %d stored, %d dropped",
		uploadID, pred.TotalRecords, stored, pred.DroppedRows)

	message := pred.Message
	if message == "" {
		message = defaultUploadMessage
	}
	return &models.UploadResult{
		Message:        message,
		Upload:         upload,
		DownloadURL:    summary.DownloadURL,
		TotalRecords:   pred.TotalRecords,
		FaultCounts:    pred.FaultCounts,
		StoredReadings: stored,
		DroppedRows:    pred.DroppedRows,
	}, nil
}

func (s *PumpService) classify(ctx context.Context, uploadID, name, sourcePath string) (*classifier.Prediction, error) {
	src, err := s.Files.Open(ctx, sourcePath)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	start := time.Now()
	p, err := s.Classifier.Predict(ctx, name, src)
	s.Metrics.ObserveClassifier("predict", err, time.Since(start))
	if err != nil {
		nuts.L.Warnf("[PumpService] Classification of upload %s failed: %v", uploadID, err)
		return nil, errors.Wrap(err, "classification failed")
	}
	return p, nil
}

// discard removes whatever a failed upload left behind.
func (s *PumpService) discard(ctx context.Context, uploadID string, withReadings bool) {
	ctx = context.WithoutCancel(ctx)
	if withReadings {
		if _, err := s.Readings.DeleteByUpload(ctx, uploadID); err != nil {
			nuts.L.Errorf("[PumpService] Failed to discard readings of upload %s: %v", uploadID, err)
		}
	}
	if err := s.Files.DeleteByUpload(ctx, uploadID); err != nil {
		nuts.L.Errorf("[PumpService] Failed to discard files of upload %s: %v", uploadID, err)
	}
}

// ListUploads returns recent uploads, newest first
func (s *PumpService) ListUploads(ctx context.Context, offset, limit int) ([]*models.Upload, error) {
	switch {
	case limit <= 0:
		limit = defaultPageSize
	case limit > maxPageSize:
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return s.Uploads.List(ctx, offset, limit)
}

// GetUpload returns one upload record
func (s *PumpService) GetUpload(ctx context.Context, id string) (*models.Upload, error) {
	return s.Uploads.Get(ctx, id)
}

// OpenReport returns the report file of an upload and its download name
func (s *PumpService) OpenReport(ctx context.Context, id string) (string, io.ReadCloser, error) {
	upload, err := s.Uploads.Get(ctx, id)
	if err != nil {
		return "", nil, err
	}
	if upload.ReportPath == "" {
		return "", nil, errors.NewNotFoundError("report not found", nil)
	}
	rc, err := s.Files.Open(ctx, upload.ReportPath)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("prediction_%s", upload.FileName), rc, nil
}

// DeleteUpload removes an upload with its readings and files
func (s *PumpService) DeleteUpload(ctx context.Context, id string) error {
	return s.Cleanup.DeleteUpload(ctx, id)
}
