// Package replication carries host-published race state to every
// participant.
//
// Each participant owns two slots, position and progress. Only the current
// writer (the host) may publish; anyone may read. Writes overwrite the slot
// and bump its sequence number, so readers can tell a fresh value from one
// they have already seen. A slot that was never written is absent, which
// readers treat as "no data yet".
package replication

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/race"
)

// ErrNotWriter is returned when a participant other than the current
// writer tries to publish.
var ErrNotWriter = errors.New("replication: not the writer")

// Authority names the single participant allowed to publish.
type Authority interface {
	// Host returns the current writer, or false when there is none.
	Host() (race.ParticipantID, bool)
}

// FixedWriter is an Authority that always names the same participant.
type FixedWriter race.ParticipantID

// Host implements Authority.
func (w FixedWriter) Host() (race.ParticipantID, bool) {
	return race.ParticipantID(w), w != ""
}

// Envelope is everything published for one participant.
// Nil fields have not been published yet.
type Envelope struct {
	Position    *core.Vec      `msgpack:"pos,omitempty"`
	Progress    *race.Progress `msgpack:"progress,omitempty"`
	PositionSeq uint64         `msgpack:"pseq"`
	ProgressSeq uint64         `msgpack:"rseq"`
}

// Seq returns the newest sequence number in the envelope.
func (e Envelope) Seq() uint64 {
	return max(e.PositionSeq, e.ProgressSeq)
}

// Channel holds the latest envelope of every participant.
// It is safe for concurrent use: each SSH session runs its own loop
// against the same channel.
type Channel struct {
	auth Authority

	mu    sync.RWMutex
	seq   uint64
	slots map[race.ParticipantID]Envelope
}

// NewChannel creates an empty channel. auth decides who may publish; a nil
// auth rejects every publish, which suits a read-only replica.
func NewChannel(auth Authority) *Channel {
	return &Channel{
		auth:  auth,
		slots: make(map[race.ParticipantID]Envelope),
	}
}

func (c *Channel) checkWriter(writer race.ParticipantID) error {
	if c.auth == nil {
		return fmt.Errorf("%w: %s (read-only channel)", ErrNotWriter, writer)
	}
	host, ok := c.auth.Host()
	if !ok || host != writer {
		return fmt.Errorf("%w: %s", ErrNotWriter, writer)
	}
	return nil
}

// PublishPosition overwrites id's position slot.
func (c *Channel) PublishPosition(writer, id race.ParticipantID, pos core.Vec) error {
	if err := c.checkWriter(writer); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	env := c.slots[id]
	env.Position = &pos
	env.PositionSeq = c.seq
	c.slots[id] = env
	return nil
}

// PublishProgress overwrites id's progress slot.
func (c *Channel) PublishProgress(writer, id race.ParticipantID, p race.Progress) error {
	if err := c.checkWriter(writer); err != nil {
		return err
	}
	p.IDs = append([]int(nil), p.IDs...)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	env := c.slots[id]
	env.Progress = &p
	env.ProgressSeq = c.seq
	c.slots[id] = env
	return nil
}

// ReadPosition returns id's latest position and its sequence number.
// ok is false when nothing has been published.
func (c *Channel) ReadPosition(id race.ParticipantID) (pos core.Vec, seq uint64, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	env := c.slots[id]
	if env.Position == nil {
		return core.Vec{}, 0, false
	}
	return *env.Position, env.PositionSeq, true
}

// ReadProgress returns id's latest progress and its sequence number.
// ok is false when nothing has been published.
func (c *Channel) ReadProgress(id race.ParticipantID) (p race.Progress, seq uint64, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	env := c.slots[id]
	if env.Progress == nil {
		return race.Progress{}, 0, false
	}
	p = *env.Progress
	p.IDs = append([]int(nil), p.IDs...)
	return p, env.ProgressSeq, true
}

// Forget drops every slot of a departed participant.
func (c *Channel) Forget(id race.ParticipantID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slots, id)
}

// Snapshot returns a copy of every envelope.
func (c *Channel) Snapshot() map[race.ParticipantID]Envelope {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[race.ParticipantID]Envelope, len(c.slots))
	for id, env := range c.slots {
		out[id] = env
	}
	return out
}

// IDs returns the participants with at least one published slot, sorted.
func (c *Channel) IDs() []race.ParticipantID {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([]race.ParticipantID, 0, len(c.slots))
	for id := range c.slots {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Apply merges an envelope received from a remote host. Each slot is taken
// only when its sequence number is newer than what the channel holds, so
// out-of-order frames never roll state back.
func (c *Channel) Apply(id race.ParticipantID, in Envelope) {
	c.mu.Lock()
	defer c.mu.Unlock()

	env := c.slots[id]
	if in.Position != nil && in.PositionSeq > env.PositionSeq {
		pos := *in.Position
		env.Position = &pos
		env.PositionSeq = in.PositionSeq
	}
	if in.Progress != nil && in.ProgressSeq > env.ProgressSeq {
		p := *in.Progress
		p.IDs = append([]int(nil), p.IDs...)
		env.Progress = &p
		env.ProgressSeq = in.ProgressSeq
	}
	c.seq = max(c.seq, env.Seq())
	c.slots[id] = env
}
