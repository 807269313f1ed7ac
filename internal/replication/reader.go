package replication

import (
	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/race"
)

// Freshness classifies a read.
type Freshness int

const (
	// Absent means nothing has been published for the slot.
	Absent Freshness = iota
	// Stale means the value was already returned by an earlier read.
	Stale
	// Fresh means the value is newer than anything read before.
	Fresh
)

// String returns a human-readable name for the freshness.
func (f Freshness) String() string {
	switch f {
	case Absent:
		return "absent"
	case Stale:
		return "stale"
	case Fresh:
		return "fresh"
	default:
		return "unknown"
	}
}

type slotKey struct {
	id       race.ParticipantID
	progress bool
}

// Reader reads a channel and remembers the last sequence number it saw for
// every slot. A Reader belongs to one loop and is not safe for concurrent
// use.
type Reader struct {
	ch   *Channel
	seen map[slotKey]uint64
}

// NewReader creates a reader over ch.
func NewReader(ch *Channel) *Reader {
	return &Reader{ch: ch, seen: make(map[slotKey]uint64)}
}

// Position reads id's position slot.
func (r *Reader) Position(id race.ParticipantID) (core.Vec, Freshness) {
	pos, seq, ok := r.ch.ReadPosition(id)
	return pos, r.mark(slotKey{id: id}, seq, ok)
}

// Progress reads id's progress slot.
func (r *Reader) Progress(id race.ParticipantID) (race.Progress, Freshness) {
	p, seq, ok := r.ch.ReadProgress(id)
	return p, r.mark(slotKey{id: id, progress: true}, seq, ok)
}

// Forget drops what the reader remembers about id.
func (r *Reader) Forget(id race.ParticipantID) {
	delete(r.seen, slotKey{id: id})
	delete(r.seen, slotKey{id: id, progress: true})
}

func (r *Reader) mark(k slotKey, seq uint64, ok bool) Freshness {
	if !ok {
		return Absent
	}
	if seq <= r.seen[k] {
		return Stale
	}
	r.seen[k] = seq
	return Fresh
}
