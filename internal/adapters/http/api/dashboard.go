package api

import (
	"net/http"
	"strconv"

	"github.com/okian/aube/internal/domain/aggregate"
	"github.com/okian/aube/internal/domain/tension"
)

// DashboardHandler serves the dashboard, predictions table, zones and models.
type DashboardHandler struct {
	deps DashboardDependencies
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(deps DashboardDependencies) *DashboardHandler {
	return &DashboardHandler{deps: deps}
}

// predictionRow is a table row with its display labels.
type predictionRow struct {
	tension.Record
	Level      tension.Level `json:"level"`
	TrendLabel string        `json:"trend_label"`
	Critical   bool          `json:"critical"`
}

type predictionsResponse struct {
	Rows  []predictionRow     `json:"rows"`
	Total int                 `json:"total"`
	Sort  aggregate.SortState `json:"sort"`
	Term  string              `json:"term,omitempty"`
}

// HandleDashboard handles GET /api/dashboard?top=N requests.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_dashboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n := 0
	if top := r.URL.Query().Get("top"); top != "" {
		v, err := strconv.Atoi(top)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, nil))
			return
		}
		n = v
	}
	d, err := h.deps.Dashboard(r.Context(), n)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// HandlePredictions handles GET /api/predictions?q=&sort=&dir= requests.
func (h *DashboardHandler) HandlePredictions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_predictions"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()
	state := aggregate.DefaultSort()
	if s := q.Get("sort"); s != "" {
		key, err := aggregate.ParseSortKey(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
			return
		}
		state.Key = key
	}
	dir, err := aggregate.ParseDirection(q.Get("dir"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", wrapKind(op, ErrBadRequest, err))
		return
	}
	state.Direction = dir

	records, err := h.deps.Predictions(r.Context(), aggregate.Query{Term: q.Get("q"), Sort: state})
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	rows := make([]predictionRow, len(records))
	for i, rec := range records {
		rows[i] = predictionRow{
			Record:     rec,
			Level:      tension.LevelOf(rec.PredictedTension),
			TrendLabel: rec.Trend.Label(),
			Critical:   rec.Critical(),
		}
	}
	writeJSON(w, http.StatusOK, predictionsResponse{Rows: rows, Total: len(rows), Sort: state, Term: q.Get("q")})
}

// HandleZones handles GET /api/zones requests.
func (h *DashboardHandler) HandleZones(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	zones, err := h.deps.Zones(r.Context())
	if err != nil {
		writeServiceError(w, "api.get_zones", err)
		return
	}
	writeJSON(w, http.StatusOK, zones)
}

// HandleModels handles GET /api/models requests.
func (h *DashboardHandler) HandleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	m, err := h.deps.Models(r.Context())
	if err != nil {
		writeServiceError(w, "api.get_models", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}
