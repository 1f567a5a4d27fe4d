package api

import (
	"net/http"
	"runtime"
	"time"
)

// StatsProvider reports service counters and settings.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves /stats.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

type statsResponse struct {
	Service    map[string]interface{} `json:"service"`
	Goroutines int                    `json:"goroutines"`
	GoVersion  string                 `json:"go_version"`
	Time       time.Time              `json:"time"`
}

// HandleStats handles GET /stats. Service counters are nested under
// "service" next to a few runtime facts.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if !allowGet(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Service:    h.provider.GetStats(),
		Goroutines: runtime.NumGoroutine(),
		GoVersion:  runtime.Version(),
		Time:       time.Now().UTC(),
	})
}
