package arena

import (
	"encoding/json"
	"net/http"
)

// HandleMetrics serves a JSON snapshot of every worker's counters.
// GET /metrics
func (p *Pool) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(p.MetricsSnapshot())
}

// HandleHealthz is a bare liveness probe.
func (p *Pool) HandleHealthz(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

// adminConfig is the subset of runtime knobs exposed for inspection and
// patching, mirroring the source's read/patch admin endpoint.
type adminConfig struct {
	Workers      int `json:"workers"`
	Width        int `json:"width"`
	Height       int `json:"height"`
	CellSize     int `json:"cellSize"`
	PlayerTickMS int `json:"playerTickMs"`
	ObjectTickMS int `json:"objectTickMs"`
}

// HandleAdminConfig reports the pool's configuration. Worker count and
// grid dimensions are fixed once workers and the grid are allocated
// (resizing the grid or changing worker count at runtime would violate
// I1/I5), so POST only accepts the two tick periods. POST stores them in
// the pool's config, which later GETs report; running workers keep the
// tick periods they were started with, and the stored values are not
// persisted across a process restart.
//
// GET /admin/config
// POST /admin/config {playerTickMs, objectTickMs}
func (p *Pool) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(adminConfig{
			Workers:      p.cfg.Workers,
			Width:        p.cfg.Width,
			Height:       p.cfg.Height,
			CellSize:     p.cfg.CellSize,
			PlayerTickMS: p.cfg.PlayerTickMS,
			ObjectTickMS: p.cfg.ObjectTickMS,
		})
	case http.MethodPost:
		var body struct {
			PlayerTickMS *int `json:"playerTickMs,omitempty"`
			ObjectTickMS *int `json:"objectTickMs,omitempty"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if body.PlayerTickMS != nil {
			p.cfg.PlayerTickMS = *body.PlayerTickMS
		}
		if body.ObjectTickMS != nil {
			p.cfg.ObjectTickMS = *body.ObjectTickMS
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "note": "stored in config; running workers keep their tick periods"})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
