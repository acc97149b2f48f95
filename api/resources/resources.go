// FilePath: api/resources/resources.go
package resources

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/schema"
	"github.com/itsatony/pumpguard/internal/errors"
	"github.com/itsatony/pumpguard/internal/pumpservice"
	nuts "github.com/vaudience/go-nuts"
)

// Resources holds all HTTP resource handlers
type Resources struct {
	Uploads     *UploadHandlers
	Analysis    *AnalysisHandlers
	Simulator   *SimulatorHandlers
	Views       *ViewHandlers
	HealthCheck func(w http.ResponseWriter, r *http.Request)
	Swagger     func(w http.ResponseWriter, r *http.Request)
}

// NewResources creates a new Resources instance. maxUploadSize caps the
// uploaded file; the multipart envelope gets a little headroom on top.
func NewResources(svc *pumpservice.PumpService, maxUploadSize int64) *Resources {
	return &Resources{
		Uploads:     &UploadHandlers{pumpservice: svc, maxFileSize: maxUploadSize},
		Analysis:    &AnalysisHandlers{pumpservice: svc},
		Simulator:   &SimulatorHandlers{pumpservice: svc},
		Views:       &ViewHandlers{pumpservice: svc},
		HealthCheck: handleHealth,
		Swagger:     handleSwagger,
	}
}

// SetHealthCheck sets the health check handler
func (r *Resources) SetHealthCheck(h func(w http.ResponseWriter, r *http.Request)) {
	r.HealthCheck = h
}

var queryDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}()

func decodeQuery(dst interface{}, r *http.Request) *errors.APIError {
	if err := queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		return errors.NewValidationError("invalid query parameters", err)
	}
	return nil
}

func respondWithError(w http.ResponseWriter, err *errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
	if err.Code >= http.StatusInternalServerError {
		nuts.L.Errorf("[API] %s", err.Error())
		return
	}
	nuts.L.Debugf("[API] %s", err.Error())
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}
