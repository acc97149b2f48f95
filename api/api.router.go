package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/itsatony/pumpguard/api/middleware"
	"github.com/itsatony/pumpguard/api/resources"
	"github.com/itsatony/pumpguard/internal/pumpservice"
	nuts "github.com/vaudience/go-nuts"
)

// Options wires the ambient pieces around the resource handlers.
type Options struct {
	Auth           *middleware.KeycloakMiddleware
	Metrics        http.Handler
	Observer       middleware.RequestObserver
	HealthCheck    http.HandlerFunc
	AllowedOrigins []string
	MaxUploadSize  int64
	// AccessLog receives Apache-style request lines; nil disables them.
	AccessLog io.Writer
}

type Router struct {
	router    *mux.Router
	auth      *middleware.KeycloakMiddleware
	resources *resources.Resources
	handler   http.Handler
}

func NewRouter(svc *pumpservice.PumpService, opts Options) *Router {
	r := &Router{
		router:    mux.NewRouter(),
		auth:      opts.Auth,
		resources: resources.NewResources(svc, opts.MaxUploadSize),
	}
	if opts.HealthCheck != nil {
		r.resources.SetHealthCheck(opts.HealthCheck)
	}

	r.setupRoutes(opts)
	r.handler = wrap(r.router, opts)
	return r
}

func (r *Router) setupRoutes(opts Options) {
	if opts.Metrics != nil {
		r.router.Handle("/metrics", opts.Metrics).Methods(http.MethodGet)
	}

	// API version prefix
	api := r.router.PathPrefix("/v1").Subrouter()
	api.Use(middleware.Metrics(opts.Observer))

	// Public routes
	api.HandleFunc("/health", r.resources.HealthCheck).Methods(http.MethodGet)
	api.HandleFunc("/swagger.json", r.resources.Swagger).Methods(http.MethodGet)
	api.HandleFunc("/sample", r.resources.Views.Sample).Methods(http.MethodGet)
	api.HandleFunc("/sample.csv", r.resources.Views.SampleCSV).Methods(http.MethodGet)
	api.HandleFunc("/views/{token}", r.resources.Views.GetView).Methods(http.MethodGet)

	api.HandleFunc("/uploads", r.resources.Uploads.ListUploads).Methods(http.MethodGet)
	api.HandleFunc("/uploads/{id}", r.resources.Uploads.GetUpload).Methods(http.MethodGet)
	api.HandleFunc("/uploads/{id}/report", r.resources.Uploads.DownloadReport).Methods(http.MethodGet)

	api.HandleFunc("/summary", r.resources.Analysis.Summary).Methods(http.MethodGet)
	api.HandleFunc("/schedule", r.resources.Analysis.Schedule).Methods(http.MethodGet)
	api.HandleFunc("/trends", r.resources.Analysis.Trends).Methods(http.MethodGet)
	api.HandleFunc("/heatmap", r.resources.Analysis.Heatmap).Methods(http.MethodGet)

	api.HandleFunc("/simulator", r.resources.Simulator.GetState).Methods(http.MethodGet)

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.auth.Authenticate)

	protected.HandleFunc("/uploads", r.resources.Uploads.UploadFile).Methods(http.MethodPost)
	protected.HandleFunc("/uploads/{id}", r.resources.Uploads.DeleteUpload).Methods(http.MethodDelete)
	protected.HandleFunc("/simulator/inputs", r.resources.Simulator.UpdateInputs).Methods(http.MethodPatch)
	protected.HandleFunc("/simulator/reset", r.resources.Simulator.ResetInputs).Methods(http.MethodPost)
	protected.HandleFunc("/simulator/run", r.resources.Simulator.Run).Methods(http.MethodPost)
}

// wrap applies CORS, panic recovery and access logging, outermost last.
func wrap(h http.Handler, opts Options) http.Handler {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	h = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.ExposedHeaders([]string{"Content-Disposition"}),
	)(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(h)
	if opts.AccessLog != nil {
		h = handlers.LoggingHandler(opts.AccessLog, h)
	}
	return h
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	nuts.L.Errorf("[API] Recovered from panic: %s", fmt.Sprint(v...))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.handler.ServeHTTP(w, req)
}
