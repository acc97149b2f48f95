// FilePath: internal/repository/postgres/postgres.upload.go
package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/itsatony/pumpguard/internal/database"
	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/models"
)

const uploadColumns = `id, file_name, source_path, report_path, total_records, fault_counts, created_at`

type UploadRepo struct {
	PostgresBaseRepo
}

// NewUploadRepository creates the uploads repository and its table
func NewUploadRepository(db database.DB) (*UploadRepo, error) {
	repo := &UploadRepo{PostgresBaseRepo{db: db}}
	if err := repo.initializeSchema(); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *UploadRepo) initializeSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS uploads (
			id TEXT PRIMARY KEY,
			file_name TEXT NOT NULL,
			source_path TEXT NOT NULL DEFAULT '',
			report_path TEXT NOT NULL DEFAULT '',
			total_records INTEGER NOT NULL DEFAULT 0,
			fault_counts JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at DESC)`,
	}
	for _, query := range queries {
		if _, err := r.db.GetDB().Exec(query); err != nil {
			return errors.NewDatabaseError("failed to initialize schema", err)
		}
	}
	return nil
}

func (r *UploadRepo) Create(ctx context.Context, upload *models.Upload) error {
	query := `
		INSERT INTO uploads (` + uploadColumns + `)
		VALUES (:id, :file_name, :source_path, :report_path, :total_records, :fault_counts, :created_at)`

	if _, err := r.db.GetDB().NamedExecContext(ctx, query, upload); err != nil {
		return errors.NewDatabaseError("failed to create upload", err)
	}
	return nil
}

func (r *UploadRepo) Get(ctx context.Context, id string) (*models.Upload, error) {
	upload := &models.Upload{}
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE id = $1`

	err := r.db.GetDB().GetContext(ctx, upload, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewNotFoundError("upload not found", err)
		}
		return nil, errors.NewDatabaseError("failed to get upload", err)
	}
	return upload, nil
}

func (r *UploadRepo) List(ctx context.Context, offset, limit int) ([]*models.Upload, error) {
	uploads := []*models.Upload{}
	query := `SELECT ` + uploadColumns + ` FROM uploads ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	if err := r.db.GetDB().SelectContext(ctx, &uploads, query, limit, offset); err != nil {
		return nil, errors.NewDatabaseError("failed to list uploads", err)
	}
	return uploads, nil
}

func (r *UploadRepo) ListCreatedBefore(ctx context.Context, before time.Time) ([]*models.Upload, error) {
	uploads := []*models.Upload{}
	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE created_at < $1 ORDER BY created_at ASC`

	if err := r.db.GetDB().SelectContext(ctx, &uploads, query, before); err != nil {
		return nil, errors.NewDatabaseError("failed to list expired uploads", err)
	}
	return uploads, nil
}

func (r *UploadRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.GetDB().ExecContext(ctx, `DELETE FROM uploads WHERE id = $1`, id)
	if err != nil {
		return errors.NewDatabaseError("failed to delete upload", err)
	}
	return affectedOne(result, "upload")
}
