// Package appstate holds the records handed from one dashboard view to the
// next: the latest upload summary and the latest simulation run.
package appstate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/itsatony/pumpguard/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

const (
	KeyLatestSummary    = "summary:latest"
	KeyLatestSimulation = "simulation:latest"
)

// Store is a keyed blob store without expiry. Later writes replace earlier ones.
type Store interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// AppState reads and writes typed records on top of a Store.
type AppState struct {
	store Store
}

// New creates the application state over the given store
func New(store Store) *AppState {
	return &AppState{store: store}
}

// SaveSummary replaces the latest upload summary.
func (a *AppState) SaveSummary(ctx context.Context, s models.Summary) error {
	return a.put(ctx, KeyLatestSummary, s)
}

// LatestSummary returns the last saved summary. Missing or unreadable
// records report ok=false and no error.
func (a *AppState) LatestSummary(ctx context.Context) (*models.Summary, bool, error) {
	var s models.Summary
	ok, err := a.get(ctx, KeyLatestSummary, &s)
	if !ok || err != nil {
		return nil, false, err
	}
	if s.FaultCounts == nil {
		s.FaultCounts = models.FaultCounts{}
	}
	return &s, true, nil
}

// SaveSimulation replaces the latest simulation run.
func (a *AppState) SaveSimulation(ctx context.Context, run models.SimulationRun) error {
	return a.put(ctx, KeyLatestSimulation, run)
}

// LatestSimulation returns the last saved simulation run.
func (a *AppState) LatestSimulation(ctx context.Context) (*models.SimulationRun, bool, error) {
	var run models.SimulationRun
	ok, err := a.get(ctx, KeyLatestSimulation, &run)
	if !ok || err != nil {
		return nil, false, err
	}
	return &run, true, nil
}

// Ping checks the backing store
func (a *AppState) Ping(ctx context.Context) error {
	return a.store.Ping(ctx)
}

// Close releases the backing store
func (a *AppState) Close() error {
	return a.store.Close()
}

func (a *AppState) put(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	if err := a.store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

func (a *AppState) get(ctx context.Context, key string, v interface{}) (bool, error) {
	data, ok, err := a.store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		nuts.L.Warnf("[AppState] Ignoring malformed %s: %v", key, err)
		return false, nil
	}
	return true, nil
}
