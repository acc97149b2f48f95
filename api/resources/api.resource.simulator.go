package resources

import (
	"encoding/json"
	"net/http"

	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/pumpservice"
	nuts "github.com/vaudience/go-nuts"
)

const maxInputsBody = 64 << 10

// SimulatorHandlers serves the what-if simulator
type SimulatorHandlers struct {
	pumpservice *pumpservice.PumpService
}

// @Summary Simulator state
// @Tags simulator
// @Produce json
// @Success 200 {object} models.SimulatorState
// @Router /simulator [get]
func (h *SimulatorHandlers) GetState(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.pumpservice.SimulatorState(r.Context()))
}

// @Summary Update simulator inputs
// @Description Partial update keyed by CSV column name, e.g. {"Temperature_C": 82}
// @Tags simulator
// @Accept json
// @Produce json
// @Param inputs body map[string]number true "Sensor values"
// @Success 200 {object} models.SimulatorState
// @Failure 400 {object} errors.APIError
// @Router /simulator/inputs [patch]
// @Security BearerAuth
func (h *SimulatorHandlers) UpdateInputs(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	var patch map[string]float64
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInputsBody)).Decode(&patch); err != nil {
		respondWithError(w, errors.NewValidationError("invalid request body", err).WithRequestID(requestID))
		return
	}

	state, err := h.pumpservice.UpdateInputs(r.Context(), patch)
	if err != nil {
		respondWithError(w, errors.Wrap(err, "failed to update inputs").WithRequestID(requestID))
		return
	}
	respondWithJSON(w, http.StatusOK, state)
}

// @Summary Reset simulator inputs
// @Tags simulator
// @Produce json
// @Success 200 {object} models.SimulatorState
// @Router /simulator/reset [post]
// @Security BearerAuth
func (h *SimulatorHandlers) ResetInputs(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.pumpservice.ResetInputs(r.Context()))
}

// @Summary Run a simulation
// @Description Classifies the current inputs as a single synthetic reading
// @Tags simulator
// @Produce json
// @Success 200 {object} models.SimulationRun
// @Failure 409 {object} errors.APIError
// @Failure 502 {object} errors.APIError
// @Router /simulator/run [post]
// @Security BearerAuth
func (h *SimulatorHandlers) Run(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	run, err := h.pumpservice.Simulate(r.Context())
	if err != nil {
		respondWithError(w, errors.Wrap(err, "simulation failed").WithRequestID(requestID))
		return
	}
	respondWithJSON(w, http.StatusOK, run)
}
