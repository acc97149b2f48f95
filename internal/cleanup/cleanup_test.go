package cleanup

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/models"
	"github.com/itsatony/pumpguard/internal/repository/repotest"
)

type fixture struct {
	uploads  *repotest.Uploads
	readings *repotest.Readings
	files    *repotest.Files
	svc      *CleanupService
}

func newFixture() *fixture {
	f := &fixture{uploads: &repotest.Uploads{}, readings: &repotest.Readings{}, files: &repotest.Files{}}
	f.svc = New(f.uploads, f.readings, f.files)
	return f
}

func (f *fixture) seed(t *testing.T, id string, created time.Time) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, f.uploads.Create(ctx, &models.Upload{ID: id, FileName: "pump.csv", CreatedAt: created}))
	_, err := f.readings.InsertReadings(ctx, id, []models.Reading{{Timestamp: created, Fault: models.Normal}, {Timestamp: created, Fault: models.Imbalance}})
	require.NoError(t, err)
	_, err = f.files.StoreSource(ctx, id, "pump.csv", strings.NewReader("x"))
	require.NoError(t, err)
}

func waitFor(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case id := <-ch:
		return id
	case <-time.After(time.Second):
		t.Fatal("event not emitted")
		return ""
	}
}

func TestDeleteUpload(t *testing.T) {
	f := newFixture()
	now := time.Date(2024, 7, 18, 9, 0, 0, 0, time.UTC)
	f.seed(t, "upl_1", now)
	f.seed(t, "upl_2", now)

	deleted := make(chan string, 1)
	f.svc.OnCleanup(EventUploadDeleted, func(id string) { deleted <- id })

	require.NoError(t, f.svc.DeleteUpload(context.Background(), "upl_1"))
	assert.Equal(t, "upl_1", waitFor(t, deleted))

	_, err := f.uploads.Get(context.Background(), "upl_1")
	assert.True(t, errors.IsNotFound(err))
	assert.Equal(t, 2, f.readings.Len())
	assert.False(t, f.files.Has("upl_1/pump.csv"))
	assert.True(t, f.files.Has("upl_2/pump.csv"))
}

func TestDeleteUnknownUpload(t *testing.T) {
	f := newFixture()
	err := f.svc.DeleteUpload(context.Background(), "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestPurge(t *testing.T) {
	f := newFixture()
	now := time.Date(2024, 7, 18, 9, 0, 0, 0, time.UTC)
	f.seed(t, "upl_old", now.AddDate(0, 0, -40))
	f.seed(t, "upl_new", now.AddDate(0, 0, -1))
	f.files.Swept = 3

	purged := make(chan string, 1)
	f.svc.OnCleanup(EventRetentionPurged, func(id string) { purged <- id })

	cutoff := now.AddDate(0, 0, -30)
	res, err := f.svc.Purge(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, PurgeResult{Uploads: 1, Readings: 2, Files: 3}, res)
	assert.Equal(t, cutoff.Format(time.RFC3339), waitFor(t, purged))

	_, err = f.uploads.Get(context.Background(), "upl_new")
	assert.NoError(t, err)
	assert.Equal(t, 2, f.readings.Len())
}

func TestRunRetentionStopsOnCancel(t *testing.T) {
	f := newFixture()
	f.seed(t, "upl_old", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	purged := make(chan string, 1)
	f.svc.OnCleanup(EventRetentionPurged, func(id string) {
		select {
		case purged <- id:
		default:
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		f.svc.RunRetention(ctx, 5*time.Millisecond, 24*time.Hour, time.Now)
		close(done)
	}()

	waitFor(t, purged)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("retention loop did not stop")
	}
	assert.Zero(t, f.readings.Len())
}
