// Package api exposes the entity store over HTTP as JSON request/response
// pairs. Every response is a success/failure envelope; handlers map store
// and validation failures directly to status codes with no retries.
package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/backdesk/backdesk/internal/schema"
	"github.com/backdesk/backdesk/internal/store"
)

// IDGenerator produces request correlation ids for logging and tracing.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator is the production IDGenerator.
type UUIDGenerator struct{}

// NewID returns a random RFC 4122 UUID string.
func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Server holds the handler dependencies: a logger, the storage session,
// and the payload validator. Construct with New and mount Handler.
type Server struct {
	l         *slog.Logger
	session   *store.Session
	validator *schema.Validator
	ids       IDGenerator
	registry  *prometheus.Registry
	metrics   *metrics
}

// New creates a Server.
func New(l *slog.Logger, session *store.Session, validator *schema.Validator) *Server {
	registry := prometheus.NewRegistry()
	return &Server{
		l:         l,
		session:   session,
		validator: validator,
		ids:       UUIDGenerator{},
		registry:  registry,
		metrics:   newMetrics(registry),
	}
}

// SetIDGenerator replaces the request-id source. Tests use a sequential
// generator for stable traces.
func (s *Server) SetIDGenerator(g IDGenerator) {
	s.ids = g
}

// Handler returns the routed HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/users", s.handleUsers)
	mux.HandleFunc("/api/users/{id}", s.handleUserByID)
	mux.HandleFunc("/api/customers", s.handleCustomers)
	mux.HandleFunc("/api/customers/{id}", s.handleCustomerByID)
	mux.HandleFunc("/api/tasks", s.handleTasks)
	mux.HandleFunc("/api/tasks/{id}", s.handleTaskByID)

	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.Handle("/debug/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return s.withRequestID(s.withRecovery(s.withLogging(s.withMetrics(mux))))
}

// handleHealthz reports liveness. It does not touch the store.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, r)
		return
	}
	writeData(w, http.StatusOK, map[string]string{"status": "ok"})
}
