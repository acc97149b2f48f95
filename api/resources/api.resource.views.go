package resources

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/itsatony/pumpguard/docs"
	"github.com/itsatony/pumpguard/internal/csvformat"
	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/pumpservice"
	"github.com/swaggo/swag"
	nuts "github.com/vaudience/go-nuts"
)

// ViewHandlers serves navigation and the upload format helpers
type ViewHandlers struct {
	pumpservice *pumpservice.PumpService
}

// @Summary Render a dashboard view
// @Description Resolves a navigation token such as "summary" to its view and payload
// @Tags views
// @Produce json
// @Param token path string true "View token"
// @Success 200 {object} pumpservice.ViewPayload
// @Router /views/{token} [get]
func (h *ViewHandlers) GetView(w http.ResponseWriter, r *http.Request) {
	requestID := nuts.NID("req", 12)
	payload, err := h.pumpservice.View(r.Context(), mux.Vars(r)["token"])
	if err != nil {
		respondWithError(w, errors.Wrap(err, "failed to render view").WithRequestID(requestID))
		return
	}
	respondWithJSON(w, http.StatusOK, payload)
}

// @Summary Describe the upload format
// @Tags views
// @Produce json
// @Success 200 {object} pumpservice.SampleFormat
// @Router /sample [get]
func (h *ViewHandlers) Sample(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.pumpservice.Sample())
}

// @Summary Download the sample CSV
// @Tags views
// @Produce text/csv
// @Success 200 {file} file
// @Router /sample.csv [get]
func (h *ViewHandlers) SampleCSV(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pumpservice.SampleFileName))
	w.Write(csvformat.SampleCSV())
}

// handleHealth is the default liveness handler
func handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": nuts.GetVersion()})
}

func handleSwagger(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		respondWithError(w, errors.NewInternalError("failed to render api docs", err))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
