package replication

import (
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
)

// viewer is one websocket connection fed by a relay.
type viewer struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (v *viewer) write(msgType int, data []byte) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	_ = v.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return v.conn.WriteMessage(msgType, data)
}

// Relay fans frames out to remote viewers over websocket. Viewers only
// receive; anything they send is discarded.
type Relay struct {
	hello    func() Frame
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	viewers map[*viewer]struct{}
	closed  bool
}

// NewRelay creates a relay. hello builds the frame sent to each new viewer
// before any state frame.
func NewRelay(hello func() Frame, logger *log.Logger) *Relay {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Relay{
		hello:  hello,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		viewers: make(map[*viewer]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the viewer.
func (r *Relay) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		r.logger.Warn("Upgrade failed", "remote", req.RemoteAddr, "error", err)
		return
	}

	data, err := EncodeFrame(r.hello())
	if err != nil {
		r.logger.Error("Hello frame", "error", err)
		conn.Close()
		return
	}

	// Hold the viewer until the hello is out so no state frame overtakes it.
	v := &viewer{conn: conn}
	v.mu.Lock()
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		v.mu.Unlock()
		conn.Close()
		return
	}
	r.viewers[v] = struct{}{}
	r.mu.Unlock()

	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	err = conn.WriteMessage(websocket.BinaryMessage, data)
	v.mu.Unlock()
	if err != nil {
		r.logger.Warn("Hello failed", "remote", req.RemoteAddr, "error", err)
		r.drop(v)
		return
	}
	r.logger.Info("Viewer connected", "remote", req.RemoteAddr)

	go r.pump(v, req.RemoteAddr)
}

// pump keeps the connection alive and removes the viewer once it closes.
func (r *Relay) pump(v *viewer, remote string) {
	defer r.drop(v)

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := v.write(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	v.conn.SetReadLimit(1 << 16)
	_ = v.conn.SetReadDeadline(time.Now().Add(pongWait))
	v.conn.SetPongHandler(func(string) error {
		return v.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			r.logger.Info("Viewer disconnected", "remote", remote)
			return
		}
	}
}

func (r *Relay) drop(v *viewer) {
	r.mu.Lock()
	delete(r.viewers, v)
	r.mu.Unlock()
	v.conn.Close()
}

// Broadcast sends a frame to every viewer. Viewers that fail to receive it
// are disconnected.
func (r *Relay) Broadcast(f Frame) error {
	data, err := EncodeFrame(f)
	if err != nil {
		return err
	}

	r.mu.Lock()
	viewers := make([]*viewer, 0, len(r.viewers))
	for v := range r.viewers {
		viewers = append(viewers, v)
	}
	r.mu.Unlock()

	for _, v := range viewers {
		if err := v.write(websocket.BinaryMessage, data); err != nil {
			r.logger.Warn("Dropping viewer", "remote", v.conn.RemoteAddr(), "error", err)
			r.drop(v)
		}
	}
	return nil
}

// Viewers returns the number of connected viewers.
func (r *Relay) Viewers() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.viewers)
}

// Close disconnects every viewer and refuses new ones.
func (r *Relay) Close() {
	r.mu.Lock()
	r.closed = true
	viewers := r.viewers
	r.viewers = make(map[*viewer]struct{})
	r.mu.Unlock()

	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "race over")
	for v := range viewers {
		_ = v.write(websocket.CloseMessage, msg)
		v.conn.Close()
	}
}
