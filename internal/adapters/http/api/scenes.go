package api

import (
	"net/http"
	"strconv"

	"github.com/okian/aube/internal/domain/particles"
)

// SceneHandler drives the particle scenes.
type SceneHandler struct {
	deps SceneDependencies
}

// NewSceneHandler creates a new scene handler.
func NewSceneHandler(deps SceneDependencies) *SceneHandler {
	return &SceneHandler{deps: deps}
}

type pointerRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type resizeRequest struct {
	Width  int `json:"width" validate:"gte=0,lte=8192"`
	Height int `json:"height" validate:"gte=0,lte=8192"`
}

type viewportRequest struct {
	Element  particles.Rect `json:"element"`
	Viewport particles.Rect `json:"viewport"`
}

type inputResponse struct {
	Status  string `json:"status"`
	Visible *bool  `json:"visible,omitempty"`
}

// HandleList handles GET /api/scenes requests.
func (h *SceneHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	states, err := h.deps.Scenes(r.Context())
	if err != nil {
		writeServiceError(w, "api.list_scenes", err)
		return
	}
	writeJSON(w, http.StatusOK, states)
}

// HandleFrame handles GET /api/scenes/{name}/frame.png requests.
func (h *SceneHandler) HandleFrame(w http.ResponseWriter, r *http.Request) {
	png, err := h.deps.FramePNG(r.Context(), r.PathValue("name"))
	if err != nil {
		writeServiceError(w, "api.scene_frame", err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// HandlePointer handles POST /api/scenes/{name}/pointer requests.
func (h *SceneHandler) HandlePointer(w http.ResponseWriter, r *http.Request) {
	const op = "api.scene_pointer"
	var req pointerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	ok, err := h.deps.Pointer(r.Context(), r.PathValue("name"), req.X, req.Y)
	h.writeInput(w, op, ok, err)
}

// HandleResize handles POST /api/scenes/{name}/resize requests.
func (h *SceneHandler) HandleResize(w http.ResponseWriter, r *http.Request) {
	const op = "api.scene_resize"
	var req resizeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	ok, err := h.deps.Resize(r.Context(), r.PathValue("name"), req.Width, req.Height)
	h.writeInput(w, op, ok, err)
}

// HandleViewport handles POST /api/scenes/{name}/viewport requests.
func (h *SceneHandler) HandleViewport(w http.ResponseWriter, r *http.Request) {
	const op = "api.scene_viewport"
	var req viewportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	visible, err := h.deps.Viewport(r.Context(), r.PathValue("name"), req.Element, req.Viewport)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, inputResponse{Status: "observed", Visible: &visible})
}

func (h *SceneHandler) writeInput(w http.ResponseWriter, op string, accepted bool, err error) {
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if !accepted {
		writeError(w, http.StatusTooManyRequests, "backpressure", wrapKind(op, ErrBackpressure, nil))
		return
	}
	writeJSON(w, http.StatusAccepted, inputResponse{Status: "accepted"})
}
