package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"github.com/aretw0/cascade"
	"github.com/aretw0/cascade/internal/presentation/graph"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes one engine over HTTP.
// The engine is not safe for concurrent use, so every handler holds mu.
type Server struct {
	mu       sync.Mutex
	engine   *cascade.Engine
	logger   *slog.Logger
	gatherer prometheus.Gatherer

	// Guarded by mu. Entities transitioned by the SetState call in flight.
	recording bool
	touched   []*domain.Entity
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics mounts GET /metrics for the given gatherer.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// SetStateRequest is the body of PUT /entities/{name}/state.
type SetStateRequest struct {
	State string `json:"state"`
}

// SetStateResponse reports the outcome of one cascade.
// Changed lists every entity that went through a transition, in the order it first
// did, with its state after the cascade. Same-state transitions are included.
type SetStateResponse struct {
	Changed  []domain.EntityState `json:"changed"`
	Entities domain.Snapshot      `json:"entities"`
	Error    string               `json:"error,omitempty"`
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine *cascade.Engine, opts ...Option) http.Handler {
	s := &Server{
		engine: engine,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.watch()

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/entities", s.ListEntities)
	r.Get("/entities/{name}", s.GetEntity)
	r.Put("/entities/{name}/state", s.SetState)
	r.Get("/rules", s.ListRules)
	r.Get("/graph", s.GetGraph)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "cascade-http",
		"version": cascade.Version,
	})
}

// ListEntities handles the GET /entities request.
func (s *Server) ListEntities(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	snap := s.engine.Snapshot()
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, snap)
}

// GetEntity handles the GET /entities/{name} request.
func (s *Server) GetEntity(w http.ResponseWriter, r *http.Request) {
	name := entityName(r)

	s.mu.Lock()
	e, ok := s.engine.Entity(name)
	var es domain.EntityState
	if ok {
		es = domain.EntityState{Name: e.Name(), Role: e.Role(), State: e.State()}
	}
	s.mu.Unlock()

	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown entity: "+name)
		return
	}
	s.writeJSON(w, http.StatusOK, es)
}

// SetState handles the PUT /entities/{name}/state request.
// It applies the change, runs the cascade, and returns every entity whose state moved.
func (s *Server) SetState(w http.ResponseWriter, r *http.Request) {
	name := entityName(r)

	var body SetStateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		s.logger.Warn("SetState: invalid request body", "err", err)
		return
	}
	status, err := domain.ParseStatus(body.State)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.mu.Lock()
	s.recording, s.touched = true, nil
	applyErr := s.engine.ApplyByName(name, status)
	s.recording = false
	resp := SetStateResponse{Changed: transitioned(s.touched), Entities: s.engine.Snapshot()}
	s.touched = nil
	s.mu.Unlock()

	if errors.Is(applyErr, domain.ErrUnknownEntity) {
		s.writeError(w, http.StatusNotFound, applyErr.Error())
		return
	}

	code := http.StatusOK
	if applyErr != nil {
		// The cap aborts mid-cascade; the changes already made are kept and reported.
		resp.Error = applyErr.Error()
		code = http.StatusConflict
		s.logger.Error("SetState: cascade failed", "entity", name, "err", applyErr)
	} else {
		s.logger.Info("SetState: cascade applied", "entity", name, "state", string(status), "changed", len(resp.Changed))
	}
	s.writeJSON(w, code, resp)
}

// ListRules handles the GET /rules request.
func (s *Server) ListRules(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	rules := s.engine.Rules()
	s.mu.Unlock()

	out := make([]map[string]string, len(rules))
	for i, rule := range rules {
		out[i] = map[string]string{
			"kind": string(rule.Kind()),
			"rule": rule.String(),
		}
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetGraph handles the GET /graph request. The Mermaid source carries the live states.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	src := graph.GenerateMermaid(s.engine.Entities(), s.engine.Rules(), &graph.GraphOverlay{States: s.engine.Snapshot()})
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := io.WriteString(w, src); err != nil {
		s.logger.Error("GetGraph: write failed", "err", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, map[string]string{"error": msg})
}

func entityName(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if name, err := url.PathUnescape(raw); err == nil {
		return name
	}
	return raw
}

// watch observes every entity the engine can reach, including rule targets
// that were never registered.
func (s *Server) watch() {
	seen := make(map[*domain.Entity]bool)
	add := func(e *domain.Entity) {
		if e == nil || seen[e] {
			return
		}
		seen[e] = true
		e.Observe(s.record)
	}
	for _, e := range s.engine.Entities() {
		add(e)
	}
	for _, r := range s.engine.Rules() {
		for _, src := range r.Sources() {
			add(src)
		}
		add(r.Target())
	}
}

// record runs inside ApplyByName, so mu is already held.
func (s *Server) record(c domain.Change) {
	if s.recording {
		s.touched = append(s.touched, c.Entity)
	}
}

func transitioned(entities []*domain.Entity) []domain.EntityState {
	out := []domain.EntityState{}
	seen := make(map[*domain.Entity]bool, len(entities))
	for _, e := range entities {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, domain.EntityState{Name: e.Name(), Role: e.Role(), State: e.State()})
	}
	return out
}
