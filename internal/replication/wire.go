package replication

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/rune-race/internal/course"
	"github.com/vovakirdan/rune-race/internal/race"
)

// FrameKind identifies a relay frame.
type FrameKind string

const (
	// KindHello is the first frame on a connection. It carries the course.
	KindHello FrameKind = "hello"
	// KindState carries the roster and every envelope for one tick.
	KindState FrameKind = "state"
)

// Member is a participant as seen by remote viewers.
type Member struct {
	ID    race.ParticipantID `msgpack:"id"`
	Name  string             `msgpack:"name"`
	Color int                `msgpack:"color"`
	Host  bool               `msgpack:"host,omitempty"`
}

// Frame is one message from a relay to its viewers.
type Frame struct {
	Kind    FrameKind                       `msgpack:"kind"`
	Session string                          `msgpack:"session"`
	Tick    uint64                          `msgpack:"tick"`
	Course  *course.Snapshot                `msgpack:"course,omitempty"`
	Roster  []Member                        `msgpack:"roster"`
	States  map[race.ParticipantID]Envelope `msgpack:"states,omitempty"`
	// Started is the race start in Unix nanoseconds, zero before anyone joined.
	Started int64 `msgpack:"started,omitempty"`
}

// EncodeFrame serializes a frame with msgpack.
func EncodeFrame(f Frame) ([]byte, error) {
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("replication: encode %s frame: %w", f.Kind, err)
	}
	return data, nil
}

// DecodeFrame parses a msgpack frame.
func DecodeFrame(data []byte) (Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("replication: decode frame: %w", err)
	}
	switch f.Kind {
	case KindHello:
		if f.Course == nil {
			return Frame{}, fmt.Errorf("replication: hello frame without course")
		}
	case KindState:
	default:
		return Frame{}, fmt.Errorf("replication: unknown frame kind %q", f.Kind)
	}
	return f, nil
}

// StateFrame builds a state frame from the channel's current contents.
func StateFrame(session string, tick uint64, roster []Member, ch *Channel) Frame {
	return Frame{
		Kind:    KindState,
		Session: session,
		Tick:    tick,
		Roster:  roster,
		States:  ch.Snapshot(),
	}
}
