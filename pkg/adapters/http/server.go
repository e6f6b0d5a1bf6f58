package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/dyeflow"
	"github.com/aretw0/dyeflow/internal/logging"
	"github.com/aretw0/dyeflow/pkg/document"
	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/schema"
	"github.com/aretw0/dyeflow/pkg/seed"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodySize bounds request bodies, snapshots included.
const maxBodySize = 8 << 20

// Server exposes an Editor over HTTP. The Editor is single-writer, so every
// request holds the server mutex for the duration of its editor calls.
type Server struct {
	mu       sync.Mutex
	editor   *dyeflow.Editor
	streams  *StreamManager
	gatherer prometheus.Gatherer
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithStreams attaches the stream manager served on GET /events. Its Hooks
// must be installed on the editor for events to flow.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) { s.streams = sm }
}

// WithGatherer serves the gatherer's metrics on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for editor.
func NewHandler(editor *dyeflow.Editor, opts ...Option) http.Handler {
	s := &Server{
		editor: editor,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.streams == nil {
		s.streams = NewStreamManager()
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/graph", s.GetGraph)
	r.Get("/templates/{level}", s.GetTemplates)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/stack", func(r chi.Router) {
		r.Get("/", s.GetStack)
		r.Post("/drill/{nodeID}", s.DrillInto)
		r.Post("/navigate/{index}", s.NavigateTo)
	})

	r.Route("/nodes", func(r chi.Router) {
		r.Post("/", s.AddNode)
		r.Post("/changes", s.ApplyNodeChanges)
		r.Get("/{nodeID}", s.GetNode)
		r.Patch("/{nodeID}", s.UpdateNode)
		r.Delete("/{nodeID}", s.DeleteNode)
		r.Post("/{nodeID}/toggle-active", s.ToggleActive)
		r.Post("/{nodeID}/toggle-required", s.ToggleRequired)
	})

	r.Route("/edges", func(r chi.Router) {
		r.Post("/", s.Connect)
		r.Post("/changes", s.ApplyEdgeChanges)
		r.Delete("/{edgeID}", s.DeleteEdge)
	})

	r.Get("/export", s.Export)
	r.Post("/import", s.Import)

	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", s.ListSnapshots)
		r.Post("/{name}", s.SaveSnapshot)
		r.Put("/{name}", s.LoadSnapshot)
		r.Delete("/{name}", s.DeleteSnapshot)
	})

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":            "dyeflow-http",
		"version":        strings.TrimSpace(dyeflow.Version),
		"format_version": domain.CurrentVersion,
	})
}

// GetGraph handles the GET /graph request: the nodes and edges of the
// current scope.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	view := s.view()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, view)
}

// GetTemplates handles the GET /templates/{level} request.
func (s *Server) GetTemplates(w http.ResponseWriter, r *http.Request) {
	level, err := domain.ParseLevel(chi.URLParam(r, "level"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, seed.Templates(level))
}

type stackResponse struct {
	Scopes      []domain.Scope `json:"scopes"`
	Breadcrumbs []string       `json:"breadcrumbs"`
	Depth       int            `json:"depth"`
}

// GetStack handles the GET /stack request.
func (s *Server) GetStack(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := s.stack()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

// DrillInto handles the POST /stack/drill/{nodeID} request. Drilling into a
// leaf or an unknown node leaves the stack as it is.
func (s *Server) DrillInto(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.editor.DrillInto(chi.URLParam(r, "nodeID"))
	resp := s.stack()
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, resp)
}

// NavigateTo handles the POST /stack/navigate/{index} request.
func (s *Server) NavigateTo(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid scope index: %w", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.NavigateTo(index); err != nil {
		s.fail(w, "NavigateTo", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.stack())
}

type addNodeRequest struct {
	Level    string          `json:"level"`
	Position domain.Position `json:"position"`
	Label    string          `json:"label"`
}

// AddNode handles the POST /nodes request, the drag-creation handoff.
func (s *Server) AddNode(w http.ResponseWriter, r *http.Request) {
	var body addNodeRequest
	if !s.decode(w, r, &body) {
		return
	}
	level, err := domain.ParseLevel(body.Level)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, err := s.editor.AddNode(level, body.Position, body.Label)
	if err != nil {
		s.fail(w, "AddNode", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, schema.NewViewNode(n))
}

// GetNode handles the GET /nodes/{nodeID} request.
func (s *Server) GetNode(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writeNode(w, chi.URLParam(r, "nodeID"))
}

// UpdateNode handles the PATCH /nodes/{nodeID} request. The body is a
// partial map of data fields.
func (s *Server) UpdateNode(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if !s.decode(w, r, &fields) {
		return
	}
	patch, err := domain.PatchFromMap(fields)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	id := chi.URLParam(r, "nodeID")
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.UpdateNodeData(id, patch); err != nil {
		s.fail(w, "UpdateNode", err)
		return
	}
	s.writeNode(w, id)
}

// DeleteNode handles the DELETE /nodes/{nodeID} request.
func (s *Server) DeleteNode(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.DeleteNode(chi.URLParam(r, "nodeID")); err != nil {
		s.fail(w, "DeleteNode", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleActive handles the POST /nodes/{nodeID}/toggle-active request.
func (s *Server) ToggleActive(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, "ToggleActive", s.editor.ToggleActive)
}

// ToggleRequired handles the POST /nodes/{nodeID}/toggle-required request.
func (s *Server) ToggleRequired(w http.ResponseWriter, r *http.Request) {
	s.toggle(w, r, "ToggleRequired", s.editor.ToggleRequired)
}

func (s *Server) toggle(w http.ResponseWriter, r *http.Request, op string, fn func(string) error) {
	id := chi.URLParam(r, "nodeID")
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(id); err != nil {
		s.fail(w, op, err)
		return
	}
	s.writeNode(w, id)
}

// ApplyNodeChanges handles the POST /nodes/changes request.
func (s *Server) ApplyNodeChanges(w http.ResponseWriter, r *http.Request) {
	var changes []document.NodeChange
	if !s.decode(w, r, &changes) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.ApplyNodeChanges(changes); err != nil {
		s.fail(w, "ApplyNodeChanges", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.view())
}

type connectRequest struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Connect handles the POST /edges request. Connecting an already connected
// pair returns the existing edge.
func (s *Server) Connect(w http.ResponseWriter, r *http.Request) {
	var body connectRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.Source == "" || body.Target == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("source and target are required"))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.editor.Document()
	e, err := s.editor.Connect(body.Source, body.Target)
	if err != nil {
		s.fail(w, "Connect", err)
		return
	}
	status := http.StatusCreated
	if s.editor.Document() == before {
		status = http.StatusOK
	}
	s.writeJSON(w, status, schema.NewViewEdge(e))
}

// DeleteEdge handles the DELETE /edges/{edgeID} request.
func (s *Server) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.DeleteEdge(chi.URLParam(r, "edgeID")); err != nil {
		s.fail(w, "DeleteEdge", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ApplyEdgeChanges handles the POST /edges/changes request.
func (s *Server) ApplyEdgeChanges(w http.ResponseWriter, r *http.Request) {
	var changes []document.EdgeChange
	if !s.decode(w, r, &changes) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.ApplyEdgeChanges(changes); err != nil {
		s.fail(w, "ApplyEdgeChanges", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.view())
}

// Export handles the GET /export request with the exchange form of the
// whole document.
func (s *Server) Export(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, err := s.editor.Export()
	s.mu.Unlock()
	if err != nil {
		s.fail(w, "Export", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="dyeflow.json"`)
	_, _ = w.Write(data)
}

// Import handles the POST /import request. A rejected document leaves the
// editor untouched.
func (s *Server) Import(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("read body: %w", err))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.Import(data); err != nil {
		s.fail(w, "Import", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.view())
}

// ListSnapshots handles the GET /snapshots request.
func (s *Server) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	names, err := s.editor.Snapshots().List(r.Context())
	if err != nil {
		s.fail(w, "ListSnapshots", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"names": names})
}

// SaveSnapshot handles the POST /snapshots/{name} request.
func (s *Server) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.Save(r.Context(), name); err != nil {
		s.fail(w, "SaveSnapshot", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"name": name})
}

// LoadSnapshot handles the PUT /snapshots/{name} request, replacing the
// document with the stored one.
func (s *Server) LoadSnapshot(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editor.Load(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.fail(w, "LoadSnapshot", err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.view())
}

// DeleteSnapshot handles the DELETE /snapshots/{name} request.
func (s *Server) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.editor.Snapshots().Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.fail(w, "DeleteSnapshot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -- Helpers --

// view and stack must be called with s.mu held.
func (s *Server) view() schema.View {
	g := s.editor.CurrentGraph()
	return schema.NewView(g.Scope, g.Nodes, g.Edges)
}

func (s *Server) stack() stackResponse {
	st := s.editor.Stack()
	return stackResponse{
		Scopes:      st.Scopes(),
		Breadcrumbs: s.editor.Breadcrumbs(),
		Depth:       st.Len() - 1,
	}
}

func (s *Server) writeNode(w http.ResponseWriter, id string) {
	n, ok := s.editor.FindNode(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("node %q: %w", id, domain.ErrNotFound))
		return
	}
	s.writeJSON(w, http.StatusOK, schema.NewViewNode(n))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(v); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "error", err)
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// fail maps editor errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	var perr *domain.ParseError
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSnapshotNotFound):
		status = http.StatusNotFound
	case errors.As(err, &perr):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrLevelMismatch):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrScopeIndex):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "error", err)
	} else {
		s.logger.Debug(op+" rejected", "error", err, "status", status)
	}
	s.writeError(w, status, err)
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	resp := errorResponse{Error: err.Error()}
	for _, v := range schema.ValidationErrors(err) {
		resp.Details = append(resp.Details, v.Error())
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}
