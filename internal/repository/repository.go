// FilePath: internal/repository/repository.go
package repository

import (
	"context"
	"io"
	"time"

	"github.com/itsatony/pumpguard/internal/database"
	"github.com/itsatony/pumpguard/internal/models"
)

// ReadingRepository stores classified readings in the time-series database
type ReadingRepository interface {
	database.Repository
	InsertReadings(ctx context.Context, uploadID string, readings []models.Reading) (int, error)
	// GetReadings returns readings in [from, to) ordered by timestamp. A zero bound is open.
	GetReadings(ctx context.Context, from, to time.Time) ([]models.Reading, error)
	DeleteByUpload(ctx context.Context, uploadID string) (int64, error)
}

// UploadRepository stores upload records
type UploadRepository interface {
	database.Repository
	Create(ctx context.Context, upload *models.Upload) error
	Get(ctx context.Context, id string) (*models.Upload, error)
	List(ctx context.Context, offset, limit int) ([]*models.Upload, error)
	ListCreatedBefore(ctx context.Context, before time.Time) ([]*models.Upload, error)
	Delete(ctx context.Context, id string) error
}

// FileRepository stores raw uploads and generated reports on disk
type FileRepository interface {
	StoreSource(ctx context.Context, uploadID, fileName string, src io.Reader) (string, error)
	StoreReport(ctx context.Context, uploadID, fileName string, write func(io.Writer) error) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	StreamFile(ctx context.Context, path string, w io.Writer) error
	DeleteByUpload(ctx context.Context, uploadID string) error
	DeleteOldFiles(ctx context.Context, before time.Time) (int, error)
}
