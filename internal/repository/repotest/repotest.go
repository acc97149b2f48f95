// Package repotest provides in-memory repositories for tests.
package repotest

import (
	"bytes"
	"context"
	"io"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/itsatony/pumpguard/internal/database"
	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/models"
	"github.com/itsatony/pumpguard/internal/repository"
)

var (
	_ repository.ReadingRepository = (*Readings)(nil)
	_ repository.UploadRepository  = (*Uploads)(nil)
	_ repository.FileRepository    = (*Files)(nil)
)

// Readings is an in-memory ReadingRepository.
type Readings struct {
	mu       sync.Mutex
	rows     []models.Reading
	InsertFn func([]models.Reading) error
}

func (r *Readings) BeginTx(context.Context) (database.Transaction, error) {
	return nil, errors.NewInternalError("transactions not supported", nil)
}

func (r *Readings) InsertReadings(_ context.Context, uploadID string, readings []models.Reading) (int, error) {
	if r.InsertFn != nil {
		if err := r.InsertFn(readings); err != nil {
			return 0, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reading := range readings {
		reading.UploadID = uploadID
		r.rows = append(r.rows, reading)
	}
	return len(readings), nil
}

func (r *Readings) GetReadings(_ context.Context, from, to time.Time) ([]models.Reading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Reading{}
	for _, reading := range r.rows {
		if !from.IsZero() && reading.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && !reading.Timestamp.Before(to) {
			continue
		}
		out = append(out, reading)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

func (r *Readings) DeleteByUpload(_ context.Context, uploadID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.rows[:0]
	var n int64
	for _, reading := range r.rows {
		if reading.UploadID == uploadID {
			n++
			continue
		}
		kept = append(kept, reading)
	}
	r.rows = kept
	return n, nil
}

// Len returns the number of stored readings.
func (r *Readings) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// Uploads is an in-memory UploadRepository.
type Uploads struct {
	mu      sync.Mutex
	records map[string]models.Upload
}

func (u *Uploads) BeginTx(context.Context) (database.Transaction, error) {
	return nil, errors.NewInternalError("transactions not supported", nil)
}

func (u *Uploads) Create(_ context.Context, upload *models.Upload) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.records == nil {
		u.records = map[string]models.Upload{}
	}
	u.records[upload.ID] = *upload
	return nil
}

func (u *Uploads) Get(_ context.Context, id string) (*models.Upload, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	rec, ok := u.records[id]
	if !ok {
		return nil, errors.NewNotFoundError("upload not found", nil)
	}
	return &rec, nil
}

func (u *Uploads) List(_ context.Context, offset, limit int) ([]*models.Upload, error) {
	all := u.sorted(func(models.Upload) bool { return true })
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if offset >= len(all) {
		return []*models.Upload{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (u *Uploads) ListCreatedBefore(_ context.Context, before time.Time) ([]*models.Upload, error) {
	return u.sorted(func(rec models.Upload) bool { return rec.CreatedAt.Before(before) }), nil
}

func (u *Uploads) Delete(_ context.Context, id string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.records[id]; !ok {
		return errors.NewNotFoundError("upload not found", nil)
	}
	delete(u.records, id)
	return nil
}

func (u *Uploads) sorted(keep func(models.Upload) bool) []*models.Upload {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := []*models.Upload{}
	for _, rec := range u.records {
		if keep(rec) {
			rec := rec
			out = append(out, &rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Files is an in-memory FileRepository.
type Files struct {
	mu    sync.Mutex
	blobs map[string][]byte
	Swept int
}

func (f *Files) StoreSource(_ context.Context, uploadID, fileName string, src io.Reader) (string, error) {
	data, err := io.ReadAll(src)
	if err != nil {
		return "", errors.NewStorageError("failed to read source", err)
	}
	return f.put(path.Join(uploadID, path.Base(fileName)), data), nil
}

func (f *Files) StoreReport(_ context.Context, uploadID, fileName string, write func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return "", errors.NewStorageError("failed to write report", err)
	}
	return f.put(path.Join(uploadID, "prediction_"+path.Base(fileName)), buf.Bytes()), nil
}

func (f *Files) Open(_ context.Context, p string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.blobs[p]
	if !ok {
		return nil, errors.NewNotFoundError("file not found", nil)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *Files) StreamFile(ctx context.Context, p string, w io.Writer) error {
	rc, err := f.Open(ctx, p)
	if err != nil {
		return err
	}
	defer rc.Close()
	_, err = io.Copy(w, rc)
	return err
}

func (f *Files) DeleteByUpload(_ context.Context, uploadID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for p := range f.blobs {
		if strings.HasPrefix(p, uploadID+"/") {
			delete(f.blobs, p)
		}
	}
	return nil
}

func (f *Files) DeleteOldFiles(context.Context, time.Time) (int, error) {
	return f.Swept, nil
}

// Has reports whether a file is stored at p.
func (f *Files) Has(p string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.blobs[p]
	return ok
}

// Count returns the number of stored files.
func (f *Files) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.blobs)
}

func (f *Files) put(p string, data []byte) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.blobs == nil {
		f.blobs = map[string][]byte{}
	}
	f.blobs[p] = data
	return p
}
