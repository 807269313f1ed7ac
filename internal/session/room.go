// Package session drives a race: who is in it, who is host, and what each
// participant's loop does every tick.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/ksuid"

	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/race"
)

// Profile is how a participant presents to others.
type Profile struct {
	Name  string
	Color core.Color
}

// Input supplies the intent an avatar consumes each step.
type Input interface {
	Intent() core.Intent
}

// Participant is one member of a room.
type Participant struct {
	ID      race.ParticipantID
	Profile Profile
	Input   Input
	Seq     int // position in join order

	room *Room

	mu       sync.Mutex
	left     bool
	handlers []leaveHandler
	nextSub  int
}

type leaveHandler struct {
	id int
	fn func()
}

// OnLeave registers a handler run once when the participant leaves.
// Registering after the participant left runs the handler immediately.
// The returned function unregisters it.
func (p *Participant) OnLeave(fn func()) (cancel func()) {
	p.mu.Lock()
	if p.left {
		p.mu.Unlock()
		fn()
		return func() {}
	}
	id := p.nextSub
	p.nextSub++
	p.handlers = append(p.handlers, leaveHandler{id: id, fn: fn})
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		kept := make([]leaveHandler, 0, len(p.handlers))
		for _, h := range p.handlers {
			if h.id != id {
				kept = append(kept, h)
			}
		}
		p.handlers = kept
	}
}

// Leave removes the participant from its room and runs its leave
// handlers. Safe to call multiple times.
func (p *Participant) Leave() {
	p.mu.Lock()
	if p.left {
		p.mu.Unlock()
		return
	}
	p.left = true
	handlers := p.handlers
	p.handlers = nil
	p.mu.Unlock()

	p.room.remove(p.ID)
	for _, h := range handlers {
		h.fn()
	}
}

// Left reports whether the participant has left.
func (p *Participant) Left() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.left
}

// Room is the membership of one race. The first participant to join is
// the host for the rest of the race; when the host leaves nobody takes
// over.
type Room struct {
	id    string
	clock func() time.Time

	mu       sync.RWMutex
	started  time.Time
	members  []*Participant // join order
	host     race.ParticipantID
	hostGone bool
	joined   int
	watchers map[int]func(*Participant)
	nextSub  int
}

// NewRoom creates an empty room. The race clock starts when the first
// participant joins; clock defaults to time.Now.
func NewRoom(clock func() time.Time) *Room {
	if clock == nil {
		clock = time.Now
	}
	return &Room{
		id:       ksuid.New().String(),
		clock:    clock,
		watchers: make(map[int]func(*Participant)),
	}
}

// ID returns the room identifier.
func (r *Room) ID() string {
	return r.id
}

// Started returns when the first participant joined, or the zero time
// for a room nobody has joined yet.
func (r *Room) Started() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.started
}

// StartAt fixes the race start, as when mirroring a race that began
// before this room existed. A zero t is ignored.
func (r *Room) StartAt(t time.Time) {
	if t.IsZero() {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.started = t
}

// mirrorHost makes id the host, or records the host as gone when ok is
// false. Only a room mirroring a remote roster uses it.
func (r *Room) mirrorHost(id race.ParticipantID, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !ok {
		r.host, r.hostGone = "", true
		return
	}
	r.host = id
}

// Join adds a participant with a fresh identifier.
func (r *Room) Join(profile Profile, input Input) *Participant {
	return r.JoinAs(race.ParticipantID(uuid.NewString()), profile, input)
}

// JoinAs adds a participant with a known identifier, as when mirroring a
// remote room. Joining an identifier already present returns the existing
// participant.
func (r *Room) JoinAs(id race.ParticipantID, profile Profile, input Input) *Participant {
	r.mu.Lock()
	for _, p := range r.members {
		if p.ID == id {
			r.mu.Unlock()
			return p
		}
	}

	if profile.Color == core.ColorDefault {
		profile.Color = core.ProfileColor(r.joined)
	}
	p := &Participant{ID: id, Profile: profile, Input: input, Seq: r.joined, room: r}
	if r.started.IsZero() {
		r.started = r.clock()
	}
	r.joined++
	r.members = append(r.members, p)
	if r.host == "" && !r.hostGone {
		r.host = id
	}

	watchers := make([]func(*Participant), 0, len(r.watchers))
	for _, fn := range r.watchers {
		watchers = append(watchers, fn)
	}
	r.mu.Unlock()

	for _, fn := range watchers {
		fn(p)
	}
	return p
}

func (r *Room) remove(id race.ParticipantID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := make([]*Participant, 0, len(r.members))
	for _, p := range r.members {
		if p.ID != id {
			members = append(members, p)
		}
	}
	r.members = members
	if id == r.host {
		r.host = ""
		r.hostGone = true
	}
}

// OnJoin registers fn for every participant that joins from now on, and
// calls it at once for everyone already present, in join order. The
// returned function unregisters it.
func (r *Room) OnJoin(fn func(*Participant)) (cancel func()) {
	r.mu.Lock()
	id := r.nextSub
	r.nextSub++
	r.watchers[id] = fn
	present := append([]*Participant(nil), r.members...)
	r.mu.Unlock()

	for _, p := range present {
		fn(p)
	}
	return func() {
		r.mu.Lock()
		delete(r.watchers, id)
		r.mu.Unlock()
	}
}

// Host implements replication.Authority.
func (r *Room) Host() (race.ParticipantID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.host, r.host != ""
}

// IsHost reports whether id is the current host.
func (r *Room) IsHost(id race.ParticipantID) bool {
	host, ok := r.Host()
	return ok && host == id
}

// Participant looks up a present participant.
func (r *Room) Participant(id race.ParticipantID) (*Participant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.members {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Participants returns the present participants in join order.
func (r *Room) Participants() []*Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Participant(nil), r.members...)
}

// Count returns the number of present participants.
func (r *Room) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}
