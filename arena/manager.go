package arena

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config collects the startup-time knobs the CLI surface exposes. All of
// them default to the constants pinned by the wire contract.
type Config struct {
	Addr       string
	Workers    int
	Width      int
	Height     int
	CellSize   int
	PlayerTickMS int
	ObjectTickMS int
}

// DefaultConfig returns the spec's pinned defaults.
func DefaultConfig() Config {
	return Config{
		Addr:         ":12345",
		Workers:      DefaultWorkers,
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		CellSize:     DefaultCell,
		PlayerTickMS: PlayerTickInterval,
		ObjectTickMS: ObjectTickInterval,
	}
}

// Pool is the process's shared state: one Grid and N workers fanned out
// round-robin over accepted connections. There is no cross-worker queue;
// work fans in via accept/upgrade and fans out only to each worker's own
// clients.
type Pool struct {
	cfg     Config
	grid    *Grid
	workers []*Worker
	next    atomic.Uint64

	upgrader websocket.Upgrader
}

// NewPool allocates the shared grid and the worker set, but does not
// start the workers' event loops — call Run for that.
func NewPool(cfg Config, log *zap.SugaredLogger) *Pool {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	grid := NewGrid(cfg.Height, cfg.Width, cfg.CellSize)
	workers := make([]*Worker, cfg.Workers)
	for i := range workers {
		workers[i] = NewWorker(i, grid,
			log,
			durationMS(cfg.PlayerTickMS),
			durationMS(cfg.ObjectTickMS),
		)
	}
	return &Pool{
		cfg:     cfg,
		grid:    grid,
		workers: workers,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Run starts every worker's event loop and blocks until ctx is canceled.
func (p *Pool) Run(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	<-ctx.Done()
}

// HandleWS upgrades the connection and hands it to the next worker in
// round-robin order. This accept/upgrade step is the external
// collaborator the core only consumes open/message/close callbacks from;
// round-robin assignment is what stands in for the source's per-thread
// SO_REUSEPORT listeners without needing one OS listener per worker.
func (p *Pool) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	conn := NewClientConn(ws)
	idx := p.next.Add(1) % uint64(len(p.workers))
	p.workers[idx].Open(conn)
}

// MetricsSnapshot aggregates every worker's counters for /metrics.
func (p *Pool) MetricsSnapshot() map[string]any {
	perWorker := make([]map[string]int64, len(p.workers))
	for i, w := range p.workers {
		perWorker[i] = w.metrics.Snapshot()
	}
	return map[string]any{
		"workers": perWorker,
	}
}

func durationMS(ms int) time.Duration { return time.Duration(ms) * time.Millisecond }
