package replication

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
)

// Mirror is the viewer side of a relay: it applies received state frames
// to a local channel.
type Mirror struct {
	conn  *websocket.Conn
	hello Frame
}

// Dial connects to a relay and waits for its hello frame.
func Dial(ctx context.Context, url string) (*Mirror, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("replication: dial %s: %w", url, err)
	}

	f, err := readFrame(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if f.Kind != KindHello {
		conn.Close()
		return nil, fmt.Errorf("replication: expected hello, got %s", f.Kind)
	}
	return &Mirror{conn: conn, hello: f}, nil
}

// Hello returns the frame the relay greeted us with.
func (m *Mirror) Hello() Frame {
	return m.hello
}

// Run applies state frames to ch until ctx is done or the relay closes
// the connection. onFrame, if set, sees every state frame after it has
// been applied. A normal close returns nil.
func (m *Mirror) Run(ctx context.Context, ch *Channel, onFrame func(Frame)) error {
	stop := context.AfterFunc(ctx, func() { m.conn.Close() })
	defer stop()

	for {
		f, err := readFrame(m.conn)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var closeErr *websocket.CloseError
			if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseGoingAway {
				return nil
			}
			return err
		}
		if f.Kind != KindState {
			continue
		}
		for id, env := range f.States {
			ch.Apply(id, env)
		}
		if onFrame != nil {
			onFrame(f)
		}
	}
}

// Close closes the connection.
func (m *Mirror) Close() error {
	return m.conn.Close()
}

func readFrame(conn *websocket.Conn) (Frame, error) {
	msgType, data, err := conn.ReadMessage()
	if err != nil {
		return Frame{}, err
	}
	if msgType != websocket.BinaryMessage {
		return Frame{}, fmt.Errorf("replication: unexpected message type %d", msgType)
	}
	return DecodeFrame(data)
}
