package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsatony/pumpguard/internal/appstate"
	"github.com/itsatony/pumpguard/internal/cleanup"
	"github.com/itsatony/pumpguard/internal/config"
	"github.com/itsatony/pumpguard/internal/models"
	"github.com/itsatony/pumpguard/internal/monitoring"
	"github.com/itsatony/pumpguard/internal/pumpservice"
	"github.com/itsatony/pumpguard/internal/repository/repotest"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return fmt.Errorf("connection refused") })

	cases := []struct {
		name   string
		deps   []dependency
		code   int
		status string
	}{
		{"no dependencies", nil, http.StatusOK, "ok"},
		{"all healthy", []dependency{{"timescaledb", ok}, {"appstate", ok}}, http.StatusOK, "ok"},
		{"one down", []dependency{{"timescaledb", ok}, {"appstate", down}}, http.StatusServiceUnavailable, "degraded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			healthHandler(tc.deps)(rec, httptest.NewRequest(http.MethodGet, "/v1/health", nil))

			assert.Equal(t, tc.code, rec.Code)
			var report healthReport
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
			assert.Equal(t, tc.status, report.Status)
			assert.Len(t, report.Dependencies, len(tc.deps))
		})
	}
}

func TestInitAppStateWithoutRedis(t *testing.T) {
	state, err := initAppState(config.RedisConfig{})
	require.NoError(t, err)
	require.NoError(t, state.Ping(context.Background()))

	_, ok, err := state.LatestSummary(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInitAppStateUnreachableRedis(t *testing.T) {
	_, err := initAppState(config.RedisConfig{Host: "127.0.0.1", Port: 1})
	assert.Error(t, err)
}

func TestCloseRunsInReverseOrder(t *testing.T) {
	s := New(&config.Config{})
	var order []string
	s.track("first", appstate.New(appstate.NewMemoryStore()), func() error { order = append(order, "first"); return nil })
	s.track("second", appstate.New(appstate.NewMemoryStore()), func() error { order = append(order, "second"); return nil })

	s.close()
	assert.Equal(t, []string{"second", "first"}, order)
	assert.Len(t, s.deps, 2)
}

func TestCleanupEventsAreRecorded(t *testing.T) {
	uploads := &repotest.Uploads{}
	ctx := context.Background()
	require.NoError(t, uploads.Create(ctx, &models.Upload{ID: "upl_1", CreatedAt: time.Now()}))

	s := New(&config.Config{})
	s.monitoring = monitoring.NewService()
	s.pumpservice = pumpservice.New(&repotest.Readings{}, uploads, &repotest.Files{}, nil,
		appstate.New(appstate.NewMemoryStore()), s.monitoring, pumpservice.Options{})
	s.setupCleanupHandlers()

	require.NoError(t, s.pumpservice.DeleteUpload(ctx, "upl_1"))

	expected := `
# HELP pumpguard_events_total Domain events by name
# TYPE pumpguard_events_total counter
pumpguard_events_total{event="` + cleanup.EventUploadDeleted + `"} 1
`
	require.Eventually(t, func() bool {
		return testutil.GatherAndCompare(s.monitoring.Registry(), strings.NewReader(expected), "pumpguard_events_total") == nil
	}, time.Second, 10*time.Millisecond)
}
