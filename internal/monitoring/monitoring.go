package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/itsatony/pumpguard/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	nuts "github.com/vaudience/go-nuts"
)

const namespace = "pumpguard"

// Service provides monitoring functionality
type Service struct {
	registry *prometheus.Registry

	events             *prometheus.CounterVec
	requests           *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	classifierDuration *prometheus.HistogramVec
	readingsStored     prometheus.Counter
	faultsDetected     *prometheus.CounterVec
}

// NewService creates a new monitoring service with its own registry
func NewService() *Service {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Service{
		registry: reg,
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Domain events by name",
		}, []string{"event"}),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		classifierDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "classifier_duration_seconds",
			Help:      "Classifier call latency in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"op", "outcome"}),
		readingsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_stored_total",
			Help:      "Classified readings persisted",
		}),
		faultsDetected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "faults_detected_total",
			Help:      "Classified readings by fault label",
		}, []string{"fault"}),
	}
}

// RecordEvent records a monitored event with labels
func (s *Service) RecordEvent(eventName string, labels map[string]string) {
	s.events.WithLabelValues(eventName).Inc()
	nuts.L.Debugf("[Monitoring] Event %s recorded with labels: %v", eventName, labels)
}

// ObserveRequest records one served HTTP request.
func (s *Service) ObserveRequest(method, route string, status int, took time.Duration) {
	s.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	s.requestDuration.WithLabelValues(method, route).Observe(took.Seconds())
}

// ObserveClassifier records one classifier call.
func (s *Service) ObserveClassifier(op string, err error, took time.Duration) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	s.classifierDuration.WithLabelValues(op, outcome).Observe(took.Seconds())
}

// RecordUpload counts the readings and labels of a completed upload.
func (s *Service) RecordUpload(stored int, counts models.FaultCounts) {
	s.readingsStored.Add(float64(stored))
	for label, n := range counts {
		if n > 0 {
			s.faultsDetected.WithLabelValues(string(label)).Add(float64(n))
		}
	}
}

// Registry exposes the underlying registry
func (s *Service) Registry() *prometheus.Registry {
	return s.registry
}

// Handler serves the registry in the Prometheus exposition format
func (s *Service) Handler() http.Handler {
	return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{Registry: s.registry})
}
