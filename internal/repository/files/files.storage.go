// FilePath: internal/repository/files/files.storage.go
package files

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/itsatony/pumpguard/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

const (
	defaultPermissions = 0755
	reportPrefix       = "prediction_"
)

// FileConfig holds configuration for the file storage
type FileConfig struct {
	BasePath string
}

// FileRepo keeps one directory per upload holding the raw CSV and its report
type FileRepo struct {
	config FileConfig
}

// NewFileRepository creates a new file storage repository
func NewFileRepository(config FileConfig) (*FileRepo, error) {
	if err := createDirectoryIfNotExists(config.BasePath); err != nil {
		return nil, err
	}
	return &FileRepo{config: config}, nil
}

// StoreSource copies the uploaded file into the upload's directory and returns its relative path.
func (r *FileRepo) StoreSource(ctx context.Context, uploadID, fileName string, src io.Reader) (string, error) {
	relPath, err := r.generateFilePath(uploadID, fileName)
	if err != nil {
		return "", err
	}
	if err := r.write(relPath, func(w io.Writer) error {
		_, err := io.Copy(w, src)
		return err
	}); err != nil {
		return "", err
	}

	nuts.L.Infof("[FileRepo] Stored file: %s", relPath)
	return relPath, nil
}

// StoreReport writes the prediction report next to the source file.
func (r *FileRepo) StoreReport(ctx context.Context, uploadID, fileName string, write func(io.Writer) error) (string, error) {
	relPath, err := r.generateFilePath(uploadID, reportPrefix+fileName)
	if err != nil {
		return "", err
	}
	if err := r.write(relPath, write); err != nil {
		return "", err
	}

	nuts.L.Infof("[FileRepo] Stored report: %s", relPath)
	return relPath, nil
}

// Open returns a reader for a stored file.
func (r *FileRepo) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := r.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("file not found", err)
		}
		return nil, errors.NewStorageError("failed to open file", err)
	}
	return f, nil
}

// StreamFile implements the streaming of a file to an io.Writer
func (r *FileRepo) StreamFile(ctx context.Context, path string, w io.Writer) error {
	f, err := r.Open(ctx, path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return errors.NewStorageError("failed to stream file", err)
	}
	return nil
}

// DeleteByUpload removes the upload's directory. Missing directories are not an error.
func (r *FileRepo) DeleteByUpload(ctx context.Context, uploadID string) error {
	dir, err := r.resolve(uploadID)
	if err != nil {
		return err
	}
	if err := os.RemoveAll(dir); err != nil {
		return errors.NewStorageError("failed to delete upload files", err)
	}
	return nil
}

func (r *FileRepo) DeleteOldFiles(ctx context.Context, before time.Time) (int, error) {
	var deletedCount int
	err := filepath.Walk(r.config.BasePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if info.ModTime().Before(before) {
			if err := os.Remove(path); err != nil {
				nuts.L.Errorf("[FileRepo] Failed to delete old file %s: %v", path, err)
				return nil
			}
			deletedCount++
		}
		return nil
	})

	if err != nil {
		return deletedCount, errors.NewStorageError("failed to delete old files", err)
	}

	r.removeEmptyDirs()
	nuts.L.Infof("[FileRepo] Deleted %d files older than %v", deletedCount, before)
	return deletedCount, nil
}

func (r *FileRepo) write(relPath string, fill func(io.Writer) error) error {
	full := filepath.Join(r.config.BasePath, relPath)
	if err := createDirectoryIfNotExists(filepath.Dir(full)); err != nil {
		return err
	}

	dst, err := os.Create(full)
	if err != nil {
		return errors.NewStorageError("failed to create destination file", err)
	}
	if err := fill(dst); err != nil {
		dst.Close()
		os.Remove(full)
		return errors.NewStorageError("failed to write file", err)
	}
	if err := dst.Close(); err != nil {
		return errors.NewStorageError("failed to close file", err)
	}
	return nil
}

func (r *FileRepo) generateFilePath(uploadID, fileName string) (string, error) {
	name := filepath.Base(strings.TrimSpace(fileName))
	if uploadID == "" || name == "." || name == string(filepath.Separator) || name == "" {
		return "", errors.NewValidationError("invalid file name", nil)
	}
	if strings.ContainsAny(uploadID, `/\`) || uploadID == ".." {
		return "", errors.NewValidationError("invalid upload id", nil)
	}
	return filepath.Join(uploadID, name), nil
}

// resolve maps a stored relative path into the base directory, refusing escapes.
func (r *FileRepo) resolve(relPath string) (string, error) {
	base := filepath.Clean(r.config.BasePath)
	full := filepath.Join(base, relPath)
	if full == base || !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", errors.NewValidationError("invalid file path", nil)
	}
	return full, nil
}

func (r *FileRepo) removeEmptyDirs() {
	entries, err := os.ReadDir(r.config.BasePath)
	if err != nil {
		return
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(r.config.BasePath, e.Name())
		if children, err := os.ReadDir(dir); err == nil && len(children) == 0 {
			os.Remove(dir)
		}
	}
}

func createDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		err := os.MkdirAll(path, defaultPermissions)
		if err != nil {
			return errors.NewStorageError("failed to create directory", err)
		}
	}
	return nil
}
