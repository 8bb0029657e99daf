package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/robobunny"
	"github.com/aretw0/robobunny/internal/compiler"
	"github.com/aretw0/robobunny/internal/logging"
	"github.com/aretw0/robobunny/pkg/domain"
	"github.com/aretw0/robobunny/pkg/registry"
	"github.com/aretw0/robobunny/pkg/schema"
	"github.com/aretw0/robobunny/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodyBytes bounds uploaded documents.
const maxBodyBytes = 1 << 20

// Server exposes a session.Manager over HTTP.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager
	Levels   *registry.Registry

	metrics http.Handler
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithMetrics mounts h at GET /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStreams shares a StreamManager whose Hooks were wired into the
// session factory.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithLevels enables GET /maps and POST /sessions?map=name.
func WithLevels(levels *registry.Registry) Option {
	return func(s *Server) {
		s.Levels = levels
	}
}

// NewServer creates a Server for the given sessions.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{Sessions: sessions, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}
	if s.Levels == nil {
		s.Levels = registry.NewRegistry()
	}
	return s
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/flatten", s.Flatten)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Put("/program", s.PutSessionProgram)
			r.Post("/save", s.SaveSessionProgram)
			r.Post("/run", s.Run)
			r.Post("/step", s.Step)
			r.Post("/reset", s.Reset)
			r.Get("/state", s.GetSession)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	r.Get("/maps", s.ListMaps)
	r.Get("/maps/{name}", s.GetMap)

	r.Route("/programs", func(r chi.Router) {
		r.Get("/", s.ListPrograms)
		r.Put("/{name}", s.PutProgram)
		r.Get("/{name}", s.GetProgram)
		r.Delete("/{name}", s.DeleteProgram)
	})
	return r
}

// NewHandler is shorthand for NewServer(...).Handler().
func NewHandler(sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(sessions, opts...).Handler()
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "robobunny-http",
		"version": strings.TrimSpace(robobunny.Version),
	})
}

// FlattenResponse is the body of POST /flatten.
type FlattenResponse struct {
	Program domain.Program `json:"program"`
	Blocks  int            `json:"blocks"`
	Text    string         `json:"text"`
}

// Flatten handles POST /flatten: compile a workspace without a session.
func (s *Server) Flatten(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.readWorkspace(w, r)
	if !ok {
		return
	}
	root := schema.Graph(ws)
	program := compiler.New(compiler.WithLogger(s.logger)).Flatten(root)
	s.writeJSON(w, http.StatusOK, FlattenResponse{
		Program: program,
		Blocks:  compiler.CountBlocks(root),
		Text:    compiler.Describe(program),
	})
}

// CreateSession handles POST /sessions. The body is a map document, or
// ?map= names a registered level.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var (
		def domain.MapDefinition
		err error
	)
	if name := r.URL.Query().Get("map"); name != "" {
		def, err = s.Levels.Get(name)
	} else {
		data, ok := s.readBody(w, r)
		if !ok {
			return
		}
		def, err = schema.ParseMap(data)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sess, err := s.Sessions.Create(def)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+sess.ID)
	s.writeJSON(w, http.StatusCreated, sess.View())
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": s.Sessions.List()})
}

// GetSession handles GET /sessions/{id} and GET /sessions/{id}/state.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.View())
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PutSessionProgram handles PUT /sessions/{id}/program. With ?name= the
// program is loaded from the store; otherwise the body is a workspace.
func (s *Server) PutSessionProgram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if name := r.URL.Query().Get("name"); name != "" {
		if err := s.Sessions.LoadProgram(r.Context(), id, name); err != nil {
			s.writeError(w, r, err)
			return
		}
	} else {
		sess, ok := s.session(w, r)
		if !ok {
			return
		}
		ws, ok := s.readWorkspace(w, r)
		if !ok {
			return
		}
		sess.SetProgram(ws)
	}

	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, sess.View())
}

// SaveSessionProgram handles POST /sessions/{id}/save?name=, storing the
// session's program in the program store.
func (s *Server) SaveSessionProgram(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "missing name"})
		return
	}
	if err := s.Sessions.SaveProgram(r.Context(), chi.URLParam(r, "id"), name); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Run handles POST /sessions/{id}/run. The run continues in the background;
// progress is visible through /state and /events.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.RunAsync(id, nil); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "started", "session_id": id})
}

// Step handles POST /sessions/{id}/step.
func (s *Server) Step(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	res, err := sess.Step(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// Reset handles POST /sessions/{id}/reset.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	sess.Editor.Reset()
	s.writeJSON(w, http.StatusOK, sess.View())
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sess.ID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: client subscribed", "session_id", sess.ID)

	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "session_id", sess.ID)
			return
		case <-ticker.C:
			fmt.Fprint(w, ": keep-alive\n\n")
			flusher.Flush()
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// ListMaps handles GET /maps.
func (s *Server) ListMaps(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"maps": s.Levels.Names()})
}

// MapView is the body of GET /maps/{name}.
type MapView struct {
	Name       string            `json:"name"`
	GridSize   int               `json:"grid_size"`
	BlockLimit int               `json:"block_limit,omitempty"`
	Bunny      domain.Placement  `json:"bunny"`
	Bunny2     *domain.Placement `json:"bunny2,omitempty"`
	Cells      [][]domain.Cell   `json:"cells,omitempty"`
}

// GetMap handles GET /maps/{name}.
func (s *Server) GetMap(w http.ResponseWriter, r *http.Request) {
	def, err := s.Levels.Get(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, MapView{
		Name:       def.Name,
		GridSize:   def.GridSize,
		BlockLimit: def.BlockLimit,
		Bunny:      def.Bunny,
		Bunny2:     def.Bunny2,
		Cells:      def.Cells,
	})
}

// ListPrograms handles GET /programs.
func (s *Server) ListPrograms(w http.ResponseWriter, r *http.Request) {
	names, err := s.Sessions.Store().List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"programs": names})
}

// PutProgram handles PUT /programs/{name}.
func (s *Server) PutProgram(w http.ResponseWriter, r *http.Request) {
	ws, ok := s.readWorkspace(w, r)
	if !ok {
		return
	}
	name := chi.URLParam(r, "name")
	if ws.Name == "" {
		ws.Name = name
	}
	if err := s.Sessions.Store().Save(r.Context(), name, ws); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProgram handles GET /programs/{name}.
func (s *Server) GetProgram(w http.ResponseWriter, r *http.Request) {
	ws, err := s.Sessions.Store().Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ws)
}

// DeleteProgram handles DELETE /programs/{name}.
func (s *Server) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Store().Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// -- Helpers --

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		return nil, false
	}
	return data, true
}

func (s *Server) readWorkspace(w http.ResponseWriter, r *http.Request) (*domain.Workspace, bool) {
	data, ok := s.readBody(w, r)
	if !ok {
		return nil, false
	}
	ws, err := schema.ParseWorkspace(data)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return ws, true
}

// errorResponse is the body of every non-2xx JSON reply.
type errorResponse struct {
	Error string `json:"error"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrProgramNotFound),
		errors.Is(err, domain.ErrMapNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidDocument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrEmptyProgram):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrMapNotLoaded), errors.Is(err, domain.ErrGameOver):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "status", code, "err", err)
	}
	s.writeJSON(w, code, errorResponse{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
