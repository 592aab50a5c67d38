package arena

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 5 * time.Second
	readWait       = 60 * time.Second
	sendBufferSize = 64
)

// ClientConn wraps one accepted WebSocket connection: a read pump that
// feeds decoded frames to the owning worker, and a write pump draining a
// bounded send queue. The queue is non-blocking on push so a slow client
// can never stall a view tick; messages are dropped instead.
type ClientConn struct {
	id     string
	ws     *websocket.Conn
	send   chan []byte
	player *Object
}

// NewClientConn wraps ws and allocates the fresh Player it will own, as
// the source does on socket open.
func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		id:     uuid.NewString(),
		ws:     ws,
		send:   make(chan []byte, sendBufferSize),
		player: NewPlayer(""),
	}
}

// Send enqueues a text frame. Non-blocking: if the queue is full the
// message is dropped to protect tick latency.
func (c *ClientConn) Send(b []byte) {
	if b == nil {
		return
	}
	select {
	case c.send <- textFrame{b}.encode():
	default:
	}
}

// SendBinary enqueues a binary frame (used for batch_update).
func (c *ClientConn) SendBinary(b []byte) {
	if b == nil {
		return
	}
	select {
	case c.send <- binaryFrame{b}.encode():
	default:
	}
}

// Close tears down the send queue and the underlying socket.
func (c *ClientConn) Close() {
	if c.send != nil {
		close(c.send)
		c.send = nil
	}
	_ = c.ws.Close()
}

// frame is a tiny internal tag so one channel can carry both text and
// binary payloads without a second channel or a mutex-guarded field.
type textFrame struct{ body []byte }
type binaryFrame struct{ body []byte }

func (f textFrame) encode() []byte   { return append([]byte{0}, f.body...) }
func (f binaryFrame) encode() []byte { return append([]byte{1}, f.body...) }

// writePump drains the send queue to the socket, decoding the frame tag
// written by Send/SendBinary.
func (c *ClientConn) writePump() {
	defer c.ws.Close()
	for msg := range c.send {
		if len(msg) == 0 {
			continue
		}
		c.ws.SetWriteDeadline(time.Now().Add(writeWait))
		opCode := websocket.TextMessage
		if msg[0] == 1 {
			opCode = websocket.BinaryMessage
		}
		if err := c.ws.WriteMessage(opCode, msg[1:]); err != nil {
			return
		}
	}
}

// readPump reads raw frames off the socket and forwards them to the
// worker's command queue, so all processing stays serialized on the
// worker's single event loop goroutine.
func (c *ClientConn) readPump(w *Worker) {
	defer c.ws.Close()
	defer w.enqueueClose(c)

	c.ws.SetReadLimit(1 << 20)
	c.ws.SetReadDeadline(time.Now().Add(readWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(readWait))
		return nil
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		w.enqueueMessage(c, payload)
	}
}
