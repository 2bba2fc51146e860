// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/okian/aube/internal/adapters/animation"
	service "github.com/okian/aube/internal/app"
	"github.com/okian/aube/internal/domain/aggregate"
	"github.com/okian/aube/internal/domain/assistant"
	"github.com/okian/aube/internal/domain/particles"
	"github.com/okian/aube/internal/domain/tension"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	DashboardDependencies
	ChatDependencies
	SceneDependencies
}

// DashboardDependencies serves the read-only dashboard views.
type DashboardDependencies interface {
	Dashboard(ctx context.Context, n int) (service.Dashboard, error)
	Predictions(ctx context.Context, q aggregate.Query) ([]tension.Record, error)
	Zones(ctx context.Context) ([]aggregate.ZoneAggregate, error)
	Models(ctx context.Context) (service.ModelReport, error)
}

// ChatDependencies serves the assistant.
type ChatDependencies interface {
	Greeting(ctx context.Context) (assistant.Message, error)
	Ask(ctx context.Context, req assistant.Request) (assistant.Reply, error)
}

// SceneDependencies drives the particle scenes.
type SceneDependencies interface {
	Scenes(ctx context.Context) ([]animation.State, error)
	FramePNG(ctx context.Context, name string) ([]byte, error)
	Pointer(ctx context.Context, name string, x, y float64) (bool, error)
	Resize(ctx context.Context, name string, width, height int) (bool, error)
	Viewport(ctx context.Context, name string, element, viewport particles.Rect) (bool, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	dashboardHandler *DashboardHandler
	chatHandler      *ChatHandler
	sceneHandler     *SceneHandler
	corsOrigins      []string
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithCORSOrigins sets the origins allowed to call the API.
func WithCORSOrigins(origins []string) ServerOption {
	return func(s *Server) {
		if len(origins) > 0 {
			s.corsOrigins = origins
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		dashboardHandler: NewDashboardHandler(deps),
		chatHandler:      NewChatHandler(deps),
		sceneHandler:     NewSceneHandler(deps),
		corsOrigins:      []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("/api/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/api/predictions", MetricsMiddleware(s.dashboardHandler.HandlePredictions, "predictions"))
	mux.HandleFunc("/api/zones", MetricsMiddleware(s.dashboardHandler.HandleZones, "zones"))
	mux.HandleFunc("/api/models", MetricsMiddleware(s.dashboardHandler.HandleModels, "models"))
	mux.HandleFunc("/api/chat", MetricsMiddleware(s.chatHandler.HandleChat, "chat"))

	mux.HandleFunc("GET /api/scenes", MetricsMiddleware(s.sceneHandler.HandleList, "scenes"))
	mux.HandleFunc("GET /api/scenes/{name}/frame.png", MetricsMiddleware(s.sceneHandler.HandleFrame, "scene_frame"))
	mux.HandleFunc("POST /api/scenes/{name}/pointer", MetricsMiddleware(s.sceneHandler.HandlePointer, "scene_pointer"))
	mux.HandleFunc("POST /api/scenes/{name}/resize", MetricsMiddleware(s.sceneHandler.HandleResize, "scene_resize"))
	mux.HandleFunc("POST /api/scenes/{name}/viewport", MetricsMiddleware(s.sceneHandler.HandleViewport, "scene_viewport"))
}

// Handler wraps next with the CORS policy of the front-end.
func (s *Server) Handler(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	})(next)
}

// validate checks request bodies against their struct tags.
var validate = validator.New() //nolint:gochecknoglobals // validator caches struct metadata

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeJSON reads a bounded JSON body into v and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	return validate.Struct(v)
}

// writeServiceError maps service errors to HTTP statuses.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrUnknownScene):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, animation.ErrStopped):
		writeError(w, http.StatusServiceUnavailable, "unavailable", wrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
