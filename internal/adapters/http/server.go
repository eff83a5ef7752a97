package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/shapeguard"
	"github.com/aretw0/shapeguard/pkg/ports"
	"github.com/aretw0/shapeguard/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MaxBodyBytes bounds request bodies read by the server and the gate.
const MaxBodyBytes = 1 << 20

// Server implements ServerInterface on top of a Guard.
type Server struct {
	Guard  *shapeguard.Guard
	Logger *slog.Logger
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the handler built by NewHandler.
type Option func(*handlerConfig)

type handlerConfig struct {
	gatherer prometheus.Gatherer
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(c *handlerConfig) {
		c.gatherer = g
	}
}

// NewHandler creates the HTTP handler for the guard.
func NewHandler(guard *shapeguard.Guard, opts ...Option) http.Handler {
	cfg := &handlerConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	server := &Server{Guard: guard, Logger: guard.Logger()}
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(openapiSpec)
	})
	if cfg.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.gatherer, promhttp.HandlerOpts{}))
	}

	return HandlerFromMux(server, r)
}

// SchemaList is the body of GET /schemas.
type SchemaList struct {
	Schemas []string `json:"schemas"`
}

// NamedSchema pairs a schema with its registered name.
type NamedSchema struct {
	Name   string          `json:"name"`
	Schema schema.Document `json:"schema"`
}

// Verdict is the body of POST /validate/{name}.
type Verdict struct {
	Invalid bool `json:"invalid"`
}

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(shapeguard.Version),
	})
}

// ListSchemas handles GET /schemas.
func (s *Server) ListSchemas(w http.ResponseWriter, r *http.Request) {
	names, err := s.Guard.Registry().Names(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, SchemaList{Schemas: names})
}

// GetSchema handles GET /schemas/{name}.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request, name string) {
	sch, err := s.Guard.Registry().Lookup(r.Context(), name)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, NamedSchema{Name: name, Schema: schema.Document{Schema: sch}})
}

// PutSchema handles PUT /schemas/{name}.
func (s *Server) PutSchema(w http.ResponseWriter, r *http.Request, name string) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	sch, err := schema.ParseJSON(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.Guard.Registry().Register(r.Context(), name, sch); err != nil {
		s.fail(w, err)
		return
	}
	s.Logger.Info("Schema registered", "schema", name, "kind", sch.Kind())
	writeJSON(w, http.StatusOK, NamedSchema{Name: name, Schema: schema.Document{Schema: sch}})
}

// DeleteSchema handles DELETE /schemas/{name}.
func (s *Server) DeleteSchema(w http.ResponseWriter, r *http.Request, name string) {
	if err := s.Guard.Registry().Remove(r.Context(), name); err != nil {
		s.fail(w, err)
		return
	}
	s.Logger.Info("Schema removed", "schema", name)
	w.WriteHeader(http.StatusNoContent)
}

// Validate handles POST /validate/{name}.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request, name string) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	invalid, err := s.Guard.CheckJSON(r.Context(), name, data)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, Verdict{Invalid: invalid})
}

// fail maps store and parse errors to status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ports.ErrSchemaNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ports.ErrInvalidName), errors.Is(err, schema.ErrMalformedSchema):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.Logger.Error("Request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Debug("Response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
