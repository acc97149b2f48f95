package resources

import (
	"net/http"

	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/models"
	"github.com/itsatony/pumpguard/internal/pumpservice"
	nuts "github.com/vaudience/go-nuts"
)

// AnalysisHandlers serves the summary, scheduler, trend and heatmap views
type AnalysisHandlers struct {
	pumpservice *pumpservice.PumpService
}

// @Summary Fault summary of the latest upload
// @Tags analysis
// @Produce json
// @Success 200 {object} pumpservice.SummaryView
// @Router /summary [get]
func (h *AnalysisHandlers) Summary(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	view, err := h.pumpservice.Summary(r.Context())
	if err != nil {
		respondWithError(w, errors.Wrap(err, "failed to build summary").WithRequestID(requestID))
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// @Summary Maintenance schedule of the latest upload
// @Tags analysis
// @Produce json
// @Success 200 {object} pumpservice.ScheduleView
// @Router /schedule [get]
func (h *AnalysisHandlers) Schedule(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	view, err := h.pumpservice.Schedule(r.Context())
	if err != nil {
		respondWithError(w, errors.Wrap(err, "failed to build schedule").WithRequestID(requestID))
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// @Summary Fault or sensor trends
// @Tags analysis
// @Produce json
// @Param start query string false "First day, YYYY-MM-DD"
// @Param end query string false "Last day, YYYY-MM-DD"
// @Param granularity query string false "hourly, daily or weekly"
// @Param mode query string false "fault or sensor"
// @Success 200 {object} pumpservice.TrendView
// @Failure 400 {object} errors.APIError
// @Failure 502 {object} errors.APIError
// @Router /trends [get]
func (h *AnalysisHandlers) Trends(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	var q models.TrendQuery
	if apiErr := decodeQuery(&q, r); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	rng, err := pumpservice.ParseDateRange(q.Start, q.End)
	if err != nil {
		respondWithError(w, errors.Wrap(err, "invalid date range").WithRequestID(requestID))
		return
	}
	g, ok := models.ParseGranularity(q.Granularity)
	if !ok {
		respondWithError(w, errors.NewValidationError("granularity must be hourly, daily or weekly", nil).
			WithRequestID(requestID))
		return
	}

	view, err := h.pumpservice.Trends(r.Context(), pumpservice.TrendRequest{
		Range:       rng,
		Granularity: g,
		Mode:        models.TrendMode(q.Mode),
	})
	if err != nil {
		respondWithError(w, errors.Wrap(err, "failed to build trends").WithRequestID(requestID))
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}

// @Summary Sensor health heatmap
// @Tags analysis
// @Produce json
// @Param start query string false "First day, YYYY-MM-DD"
// @Param end query string false "Last day, YYYY-MM-DD"
// @Success 200 {object} pumpservice.HeatmapView
// @Failure 400 {object} errors.APIError
// @Router /heatmap [get]
func (h *AnalysisHandlers) Heatmap(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	var q models.HeatmapQuery
	if apiErr := decodeQuery(&q, r); apiErr != nil {
		respondWithError(w, apiErr.WithRequestID(requestID))
		return
	}

	rng, err := pumpservice.ParseDateRange(q.Start, q.End)
	if err != nil {
		respondWithError(w, errors.Wrap(err, "invalid date range").WithRequestID(requestID))
		return
	}

	view, err := h.pumpservice.Heatmap(r.Context(), rng)
	if err != nil {
		respondWithError(w, errors.Wrap(err, "failed to build heatmap").WithRequestID(requestID))
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}
