// FilePath: internal/models/models.upload.go
package models

import "time"

// Upload is the persisted record of one classified CSV file.
type Upload struct {
	ID           string      `json:"id" db:"id"`
	FileName     string      `json:"file_name" db:"file_name"`
	SourcePath   string      `json:"-" db:"source_path"`
	ReportPath   string      `json:"-" db:"report_path"`
	TotalRecords int         `json:"total_records" db:"total_records"`
	FaultCounts  FaultCounts `json:"fault_counts" db:"fault_counts"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
}

// Summary is the cross-view handoff record written after each successful upload.
type Summary struct {
	UploadID     string      `json:"upload_id"`
	FileName     string      `json:"file_name"`
	TotalRecords int         `json:"total_records"`
	FaultCounts  FaultCounts `json:"fault_counts"`
	DownloadURL  string      `json:"download_url"`
	CompletedAt  time.Time   `json:"completed_at"`
}

// UploadResult is returned to the client after an upload completes.
type UploadResult struct {
	Message        string      `json:"message"`
	Upload         *Upload     `json:"upload"`
	DownloadURL    string      `json:"download_url"`
	TotalRecords   int         `json:"total_records"`
	FaultCounts    FaultCounts `json:"fault_counts"`
	StoredReadings int         `json:"stored_readings"`
	DroppedRows    int         `json:"dropped_rows"`
}
