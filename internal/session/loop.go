package session

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rune-race/internal/agent"
	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/course"
	"github.com/vovakirdan/rune-race/internal/race"
	"github.com/vovakirdan/rune-race/internal/replication"
)

// UnknownName stands in for a participant whose profile is gone.
const UnknownName = "Someone"

// Role is what a loop does on a tick.
type Role int

const (
	// RoleGuest reads replicated state and mirrors it locally.
	RoleGuest Role = iota
	// RoleHost simulates every avatar, runs the race and publishes.
	RoleHost
)

// String returns a human-readable name for the role.
func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "Guest"
	case RoleHost:
		return "Host"
	default:
		return "Unknown"
	}
}

// Options configures a loop.
type Options struct {
	TickRate int     // ticks per second; sets the simulation step
	Margin   float64 // added to rune radii when checking captures
	Physics  agent.Physics
	Logger   *log.Logger
}

// DefaultOptions returns the stock loop options.
func DefaultOptions() Options {
	return Options{
		TickRate: 30,
		Margin:   race.DefaultMargin,
		Physics:  agent.DefaultPhysics(),
	}
}

// event is a membership change waiting for the next tick.
type event interface {
	roomEvent()
}

type joinedEvent struct{ p *Participant }

func (joinedEvent) roomEvent() {}

type leftEvent struct{ id race.ParticipantID }

func (leftEvent) roomEvent() {}

// attacher is an input that needs the body it drives, such as a bot.
type attacher interface {
	Attach(body *agent.Body)
}

// steerer is an input that heads for a point, such as a bot chasing the
// next rune.
type steerer interface {
	Steer(goal core.Vec)
}

// member is a participant as this loop sees it.
type member struct {
	p     *Participant
	entry *race.Entry
	body  *agent.Body

	unleave func()
}

// Loop is one participant's per-frame driver. Each participant runs its
// own loop against the shared room and channel; the loop of the host
// participant is the only one that writes.
//
// Tick, HUD and Avatars must be called from one goroutine. Membership
// changes may arrive from any goroutine and are applied at the start of
// the next Tick.
type Loop struct {
	self   race.ParticipantID
	room   *Room
	course *course.Course
	ch     *replication.Channel
	reader *replication.Reader
	opts   Options
	logger *log.Logger
	dt     float64

	pendingMu sync.Mutex
	pending   []event
	unwatch   func()

	machine  *race.Machine
	members  []*member // join order
	entries  []*race.Entry
	role     Role
	roleSet  bool
	outcome  race.Outcome
	progress map[race.ParticipantID]race.Progress
	tick     uint64
}

// NewLoop creates the loop of participant self. self does not have to be
// in the room: a spectator's loop is always a guest.
func NewLoop(self race.ParticipantID, room *Room, c *course.Course, ch *replication.Channel, opts Options) *Loop {
	if opts.TickRate <= 0 {
		opts.TickRate = DefaultOptions().TickRate
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	l := &Loop{
		self:     self,
		room:     room,
		course:   c,
		ch:       ch,
		reader:   replication.NewReader(ch),
		opts:     opts,
		logger:   logger,
		dt:       1 / float64(opts.TickRate),
		progress: make(map[race.ParticipantID]race.Progress),
	}
	l.unwatch = room.OnJoin(func(p *Participant) {
		l.enqueue(joinedEvent{p: p})
	})
	return l
}

func (l *Loop) enqueue(e event) {
	l.pendingMu.Lock()
	l.pending = append(l.pending, e)
	l.pendingMu.Unlock()
}

// Close stops watching the room and its participants and disposes every
// avatar.
func (l *Loop) Close() {
	if l.unwatch != nil {
		l.unwatch()
		l.unwatch = nil
	}
	for _, m := range l.members {
		m.unleave()
		m.body.Dispose()
	}
	l.members = nil
	l.entries = nil
}

// Self returns the participant this loop runs for.
func (l *Loop) Self() race.ParticipantID {
	return l.self
}

// Course returns the course being raced.
func (l *Loop) Course() *course.Course {
	return l.course
}

// Role returns the role used by the last tick.
func (l *Loop) Role() Role {
	return l.role
}

// TickCount returns how many ticks have run.
func (l *Loop) TickCount() uint64 {
	return l.tick
}

// Outcome returns the race outcome as this loop knows it.
func (l *Loop) Outcome() race.Outcome {
	return l.outcome
}

// Tick runs one frame.
func (l *Loop) Tick(now time.Time) {
	l.applyPending()
	l.tick++

	role := RoleGuest
	if l.room.IsHost(l.self) {
		role = RoleHost
	}
	if !l.roleSet || role != l.role {
		l.logger.Info("Role", "participant", l.self, "role", role)
		l.role, l.roleSet = role, true
	}

	switch role {
	case RoleHost:
		l.hostTick(now)
	default:
		l.guestTick()
	}
}

// applyPending applies queued joins and leaves. Handlers may queue more
// events while this runs; those are applied too.
func (l *Loop) applyPending() {
	for {
		l.pendingMu.Lock()
		events := l.pending
		l.pending = nil
		l.pendingMu.Unlock()
		if len(events) == 0 {
			return
		}

		for _, e := range events {
			switch e := e.(type) {
			case joinedEvent:
				l.join(e.p)
			case leftEvent:
				l.leave(e.id)
			}
		}
	}
}

func (l *Loop) join(p *Participant) {
	for _, m := range l.members {
		if m.p.ID == p.ID {
			return
		}
	}

	body := agent.NewBody(l.course, l.course.Spawn, l.opts.Physics)
	if l.outcome.Decided() {
		body.Freeze(true)
	}
	m := &member{p: p, entry: race.NewEntry(p.ID, body), body: body, unleave: func() {}}

	// Keep join order even when events arrive out of order.
	members := make([]*member, 0, len(l.members)+1)
	inserted := false
	for _, other := range l.members {
		if !inserted && p.Seq < other.p.Seq {
			members = append(members, m)
			inserted = true
		}
		members = append(members, other)
	}
	if !inserted {
		members = append(members, m)
	}
	l.setMembers(members)

	id := p.ID
	m.unleave = p.OnLeave(func() { l.enqueue(leftEvent{id: id}) })
	l.logger.Info("Joined", "participant", id, "name", p.Profile.Name, "count", len(l.members))
}

// leave replaces the member list with one that lacks id.
func (l *Loop) leave(id race.ParticipantID) {
	members := make([]*member, 0, len(l.members))
	for _, m := range l.members {
		if m.p.ID == id {
			m.unleave()
			m.body.Dispose()
			continue
		}
		members = append(members, m)
	}
	if len(members) == len(l.members) {
		return
	}
	l.setMembers(members)

	l.ch.Forget(id)
	l.reader.Forget(id)
	delete(l.progress, id)
	l.logger.Info("Left", "participant", id, "count", len(l.members))
}

func (l *Loop) setMembers(members []*member) {
	entries := make([]*race.Entry, len(members))
	for i, m := range members {
		entries[i] = m.entry
	}
	l.members = members
	l.entries = entries
}

func (l *Loop) raceMachine() *race.Machine {
	if l.machine == nil {
		start := l.room.Started()
		if start.IsZero() {
			start = time.Now()
		}
		l.machine = race.NewMachine(l.course.Runes(), l.course.Finish, start, l.opts.Margin)
	}
	return l.machine
}

func (l *Loop) hostTick(now time.Time) {
	members, entries := l.members, l.entries

	for _, m := range members {
		if m.body.Frozen() {
			continue
		}
		in := core.Intent{}
		if m.p.Input != nil {
			if a, ok := m.p.Input.(attacher); ok {
				a.Attach(m.body)
			}
			if s, ok := m.p.Input.(steerer); ok {
				s.Steer(l.goalOf(m))
			}
			in = m.p.Input.Intent()
		}
		m.body.Step(l.dt, in)
	}

	machine := l.raceMachine()
	decided := machine.Outcome().Decided()
	progress := machine.Tick(now, entries)
	l.outcome = machine.Outcome()
	if !decided && l.outcome.Decided() {
		l.logger.Info("Winner", "participant", *l.outcome.Winner, "name", l.nameOf(*l.outcome.Winner), "elapsed", *l.outcome.Elapsed)
	}

	for _, m := range members {
		id := m.p.ID
		if err := l.publish(id, m.body.Center(), progress[id]); err != nil {
			l.logger.Warn("Publish failed", "participant", id, "error", err)
			return
		}
		l.progress[id] = progress[id]
	}
}

// goalOf returns the nearest rune m has not captured, or the finish once
// it holds them all.
func (l *Loop) goalOf(m *member) core.Vec {
	pos := m.body.Center()
	goal, best := l.course.Finish.Center, -1.0
	for _, r := range l.course.Runes() {
		if m.entry.Captured[r.ID] {
			continue
		}
		if d := pos.Dist(r.Pos); best < 0 || d < best {
			goal, best = r.Pos, d
		}
	}
	return goal
}

func (l *Loop) publish(id race.ParticipantID, pos core.Vec, p race.Progress) error {
	if err := l.ch.PublishPosition(l.self, id, pos); err != nil {
		return fmt.Errorf("position: %w", err)
	}
	if err := l.ch.PublishProgress(l.self, id, p); err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	return nil
}

func (l *Loop) guestTick() {
	for _, m := range l.members {
		if pos, f := l.reader.Position(m.p.ID); f != replication.Absent {
			m.body.SetPos(pos)
		}
	}

	for _, m := range l.members {
		id := m.p.ID
		p, f := l.reader.Progress(id)
		if f == replication.Absent {
			continue
		}
		l.progress[id] = p

		// Propagate a finish the host decided; never recompute it.
		if p.Winner != nil && !l.outcome.Decided() {
			l.outcome = p.Outcome()
			for _, other := range l.members {
				other.body.Freeze(true)
			}
			l.logger.Info("Winner", "participant", *p.Winner, "name", l.nameOf(*p.Winner))
		}
	}
}

func (l *Loop) nameOf(id race.ParticipantID) string {
	for _, m := range l.members {
		if m.p.ID == id && m.p.Profile.Name != "" {
			return m.p.Profile.Name
		}
	}
	if p, ok := l.room.Participant(id); ok && p.Profile.Name != "" {
		return p.Profile.Name
	}
	return UnknownName
}

// ErrNoParticipant is returned by Body for participants the loop does not
// know.
var ErrNoParticipant = errors.New("session: unknown participant")

// Body returns the avatar the loop keeps for id.
func (l *Loop) Body(id race.ParticipantID) (*agent.Body, error) {
	for _, m := range l.members {
		if m.p.ID == id {
			return m.body, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoParticipant, id)
}
