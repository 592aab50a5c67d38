package arena

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"
)

type cmdKind uint8

const (
	cmdOpen cmdKind = iota
	cmdMessage
	cmdClose
)

// cmd is one event routed onto a worker's single event-loop goroutine:
// a socket open, an inbound frame, or a socket close. Routing every
// callback through one channel is what lets the worker treat its client
// set and snowball map as lock-free thread-local state, the way the
// source's per-thread reactor does.
type cmd struct {
	kind    cmdKind
	conn    *ClientConn
	payload []byte
}

// Worker is one I/O reactor: it owns a client set, a snowball map, and
// two periodic tickers, and serializes every open/message/close callback
// plus both tick phases onto a single goroutine. The Grid is the only
// state it shares with any other worker.
type Worker struct {
	id   int
	grid *Grid
	log  *zap.SugaredLogger

	cmds chan cmd

	clients map[*ClientConn]struct{}
	objects map[string]*Object

	playerTick time.Duration
	objectTick time.Duration

	metrics *WorkerMetrics
}

// NewWorker allocates a worker bound to the shared grid. playerTick and
// objectTick default to PlayerTickInterval/ObjectTickInterval ms when
// zero.
func NewWorker(id int, grid *Grid, log *zap.SugaredLogger, playerTick, objectTick time.Duration) *Worker {
	if playerTick <= 0 {
		playerTick = PlayerTickInterval * time.Millisecond
	}
	if objectTick <= 0 {
		objectTick = ObjectTickInterval * time.Millisecond
	}
	return &Worker{
		id:         id,
		grid:       grid,
		log:        log,
		cmds:       make(chan cmd, 256),
		clients:    make(map[*ClientConn]struct{}),
		objects:    make(map[string]*Object),
		playerTick: playerTick,
		objectTick: objectTick,
		metrics:    &WorkerMetrics{},
	}
}

// Open registers a freshly upgraded connection with this worker and
// starts its read/write pumps. Called from the HTTP accept path, which
// plays the external-collaborator role the core only consumes callbacks
// from.
func (w *Worker) Open(conn *ClientConn) {
	select {
	case w.cmds <- cmd{kind: cmdOpen, conn: conn}:
	default:
		w.log.Warnw("worker command queue full, dropping open", "worker", w.id)
		conn.Close()
		return
	}
	go conn.writePump()
	go conn.readPump(w)
}

func (w *Worker) enqueueMessage(conn *ClientConn, payload []byte) {
	select {
	case w.cmds <- cmd{kind: cmdMessage, conn: conn, payload: payload}:
	default:
		// Tick latency takes priority over a slow consumer; drop the frame.
	}
}

func (w *Worker) enqueueClose(conn *ClientConn) {
	// Unlike inbound frames, a close is never dropped: it is the only path
	// that removes the connection's player from the grid and the client
	// set, so the read pump waits for room in the queue.
	w.cmds <- cmd{kind: cmdClose, conn: conn}
}

// Run is the worker's event loop: every inbound command and both tick
// phases are handled on this one goroutine, so they never interleave.
func (w *Worker) Run(ctx context.Context) {
	playerTicker := time.NewTicker(w.playerTick)
	objectTicker := time.NewTicker(w.objectTick)
	defer playerTicker.Stop()
	defer objectTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.shutdown()
			return
		case c := <-w.cmds:
			w.handleCmd(c)
		case <-playerTicker.C:
			w.viewTick(nowMS())
		case <-objectTicker.C:
			w.objectTickOnce(nowMS())
		}
	}
}

func (w *Worker) shutdown() {
	for conn := range w.clients {
		w.grid.Remove(conn.player)
		conn.Close()
	}
	for _, obj := range w.objects {
		w.grid.Remove(obj)
	}
}

func (w *Worker) handleCmd(c cmd) {
	switch c.kind {
	case cmdOpen:
		w.clients[c.conn] = struct{}{}
		w.metrics.IncOpened()
	case cmdMessage:
		w.handleMessage(c.conn, c.payload)
	case cmdClose:
		w.handleClose(c.conn)
	}
}

func (w *Worker) handleClose(conn *ClientConn) {
	if _, ok := w.clients[conn]; !ok {
		return
	}
	w.grid.Remove(conn.player)
	delete(w.clients, conn)
	w.metrics.IncClosed()
}

// pingOnly is the minimal decode target for the ping fast path: a frame
// containing the literal token "ping" is overwhelmingly likely to be a
// ping, so the handler tries the cheap partial decode first and only
// falls back to the full envelope when that guess turns out wrong.
// Correctness never depends on the fast path being taken.
type pingOnly struct {
	Type       string `json:"type"`
	ClientTime int64  `json:"clientTime"`
}

func (w *Worker) handleMessage(conn *ClientConn, raw []byte) {
	if strings.Contains(string(raw), `"ping"`) {
		var p pingOnly
		if err := json.Unmarshal(raw, &p); err == nil && p.Type == "ping" {
			conn.Send(encodePongJSON(nowMS(), p.ClientTime))
			return
		}
	}

	var env inEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		w.metrics.IncMalformed()
		return
	}

	switch env.Type {
	case "ping":
		w.handlePing(conn, env)
	case "join":
		w.handleJoin(conn, env)
	case "movement":
		w.handleMovement(conn, env)
	default:
		w.metrics.IncMalformed()
	}
}

func nowMS() int64 {
	return time.Now().UnixMilli()
}

func clampTime(serverNow, clientTime int64) int64 {
	if clientTime > serverNow {
		return serverNow
	}
	return clientTime
}
