package pumpservice

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/itsatony/pumpguard/internal/analysis"
	"github.com/itsatony/pumpguard/internal/csvformat"
	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

// HistorySize bounds the simulation history.
const HistorySize = 5

type simulator struct {
	mu      sync.Mutex
	inputs  models.SensorValues
	history []models.SimulationRun
	running atomic.Bool
}

func newSimulator() *simulator {
	return &simulator{inputs: analysis.DefaultInputs().SensorValues}
}

func (sim *simulator) state() models.SimulatorState {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	st := models.SimulatorState{
		Inputs:  analysis.TagInputs(sim.inputs),
		History: append([]models.SimulationRun{}, sim.history...),
	}
	if len(sim.history) > 0 {
		latest := sim.history[0]
		st.Latest = &latest
	}
	return st
}

func (sim *simulator) record(run models.SimulationRun) {
	sim.mu.Lock()
	defer sim.mu.Unlock()
	sim.history = append([]models.SimulationRun{run}, sim.history...)
	if len(sim.history) > HistorySize {
		sim.history = sim.history[:HistorySize]
	}
}

// SimulatorState returns the current inputs with their range tags and the run history.
func (s *PumpService) SimulatorState(ctx context.Context) models.SimulatorState {
	return s.sim.state()
}

// UpdateInputs applies a partial update keyed by CSV column name. The update
// is rejected as a whole when any key or value is invalid.
func (s *PumpService) UpdateInputs(ctx context.Context, patch map[string]float64) (models.SimulatorState, error) {
	fields := make(map[models.SensorField]float64, len(patch))
	var unknown []string
	for name, value := range patch {
		f, ok := models.ParseSensorField(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return models.SimulatorState{}, errors.NewValidationError("sensor values must be finite", nil).
				WithDetails(map[string]string{"field": name})
		}
		fields[f] = value
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return models.SimulatorState{}, errors.NewValidationError("unknown sensor fields", nil).
			WithDetails(map[string][]string{"fields": unknown})
	}

	s.sim.mu.Lock()
	for f, v := range fields {
		s.sim.inputs = s.sim.inputs.Set(f, v)
	}
	s.sim.mu.Unlock()

	return s.sim.state(), nil
}

// ResetInputs restores the default operating point.
func (s *PumpService) ResetInputs(ctx context.Context) models.SimulatorState {
	s.sim.mu.Lock()
	s.sim.inputs = analysis.DefaultInputs().SensorValues
	s.sim.mu.Unlock()
	return s.sim.state()
}

// Simulate classifies the current inputs as a one-row CSV and records the
// result. A failed call leaves the history untouched.
func (s *PumpService) Simulate(ctx context.Context) (*models.SimulationRun, error) {
	if !s.sim.running.CompareAndSwap(false, true) {
		return nil, errors.NewConflictError("a simulation is already running", nil)
	}
	defer s.sim.running.Store(false)

	s.sim.mu.Lock()
	inputs := s.sim.inputs
	s.sim.mu.Unlock()

	now := s.now()
	row := csvformat.SyntheticRow(now, inputs)

	start := time.Now()
	label, err := s.Classifier.Simulate(ctx, row)
	s.Metrics.ObserveClassifier("simulate", err, time.Since(start))
	if err != nil {
		nuts.L.Warnf("[PumpService] Simulation failed: %v", err)
		return nil, errors.Wrap(err, "simulation failed")
	}

	run := models.SimulationRun{
		ID:         nuts.NID("sim", 12),
		Inputs:     analysis.TagInputs(inputs),
		Prediction: label,
		Suggestion: analysis.SuggestionFor(label),
		RanAt:      now,
	}
	s.sim.record(run)

	if err := s.State.SaveSimulation(ctx, run); err != nil {
		nuts.L.Warnf("[PumpService] Failed to publish simulation %s: %v", run.ID, err)
	}
	s.Metrics.RecordEvent("simulation.completed", map[string]string{"prediction": string(label)})
	return &run, nil
}
