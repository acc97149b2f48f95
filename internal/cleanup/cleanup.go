package cleanup

import (
	"context"
	"fmt"
	"time"

	"github.com/itsatony/pumpguard/internal/repository"
	nuts "github.com/vaudience/go-nuts"
)

const (
	EventUploadDeleted   = "upload.deleted"
	EventReadingsDeleted = "readings.deleted"
	EventFilesDeleted    = "files.deleted"
	EventRetentionPurged = "retention.purged"
)

// PurgeResult reports what a retention pass removed
type PurgeResult struct {
	Uploads  int   `json:"uploads"`
	Readings int64 `json:"readings"`
	Files    int   `json:"files"`
}

// CleanupService coordinates deletion of an upload and everything derived from it
type CleanupService struct {
	uploads  repository.UploadRepository
	readings repository.ReadingRepository
	files    repository.FileRepository
	events   *nuts.EventEmitter
}

// New creates a new CleanupService
func New(
	uploads repository.UploadRepository,
	readings repository.ReadingRepository,
	files repository.FileRepository,
) *CleanupService {
	return &CleanupService{
		uploads:  uploads,
		readings: readings,
		files:    files,
		events:   nuts.NewEventEmitter(),
	}
}

// DeleteUpload deletes an upload with its readings and files
func (s *CleanupService) DeleteUpload(ctx context.Context, uploadID string) error {
	if _, err := s.uploads.Get(ctx, uploadID); err != nil {
		return err
	}
	n, err := s.deleteUpload(ctx, uploadID)
	if err != nil {
		return err
	}
	nuts.L.Infof("[Cleanup] Deleted upload %s with %d readings", uploadID, n)
	return nil
}

func (s *CleanupService) deleteUpload(ctx context.Context, uploadID string) (int64, error) {
	n, err := s.readings.DeleteByUpload(ctx, uploadID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete readings: %w", err)
	}
	s.events.Emit(EventReadingsDeleted, uploadID)

	if err := s.files.DeleteByUpload(ctx, uploadID); err != nil {
		return n, fmt.Errorf("failed to delete files: %w", err)
	}
	s.events.Emit(EventFilesDeleted, uploadID)

	// Finally, delete the record
	if err := s.uploads.Delete(ctx, uploadID); err != nil {
		return n, fmt.Errorf("failed to delete upload: %w", err)
	}

	s.events.Emit(EventUploadDeleted, uploadID)
	return n, nil
}

// Purge removes every upload created before the cutoff, then sweeps stray files.
func (s *CleanupService) Purge(ctx context.Context, before time.Time) (PurgeResult, error) {
	var res PurgeResult

	expired, err := s.uploads.ListCreatedBefore(ctx, before)
	if err != nil {
		return res, fmt.Errorf("failed to list expired uploads: %w", err)
	}
	for _, upload := range expired {
		n, err := s.deleteUpload(ctx, upload.ID)
		res.Readings += n
		if err != nil {
			return res, err
		}
		res.Uploads++
	}

	files, err := s.files.DeleteOldFiles(ctx, before)
	if err != nil {
		return res, fmt.Errorf("failed to delete old files: %w", err)
	}
	res.Files = files

	nuts.L.Infof("[Cleanup] Retention purge before %s removed %d uploads, %d readings, %d stray files",
		before.Format(time.RFC3339), res.Uploads, res.Readings, res.Files)
	s.events.Emit(EventRetentionPurged, before.Format(time.RFC3339))
	return res, nil
}

// RunRetention purges on every tick until ctx is done.
func (s *CleanupService) RunRetention(ctx context.Context, interval, maxAge time.Duration, now func() time.Time) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Purge(ctx, now().Add(-maxAge)); err != nil {
				nuts.L.Errorf("[Cleanup] Retention purge failed: %v", err)
			}
		}
	}
}

// OnCleanup registers a callback for cleanup events
func (s *CleanupService) OnCleanup(event string, handler func(id string)) {
	s.events.On(event, nuts.NID("cleanup", 8), func(args ...interface{}) {
		if len(args) > 0 {
			if id, ok := args[0].(string); ok {
				handler(id)
			}
		}
	})
}
