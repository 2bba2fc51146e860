// Package api declares HTTP contracts and route registration helpers.
package api

import "net/http"

// StatsProvider reports the running state of the engine: dataset counts,
// scene states and uptime.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the engine summary on /stats.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler returns a handler backed by p.
func NewStatsHandler(p StatsProvider) *StatsHandler {
	return &StatsHandler{provider: p}
}

// HandleStats writes the provider's summary as JSON. Only GET is served.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.provider.GetStats())
}
