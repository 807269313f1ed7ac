package race

import (
	"time"

	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/course"
)

// Machine is the host-authoritative race state machine.
// It is not safe for concurrent use; the session loop drives it from one
// goroutine.
type Machine struct {
	runes  []course.Rune
	finish course.FinishRegion
	start  time.Time
	margin float64

	phase   Phase
	outcome Outcome
}

// NewMachine creates a running race over the given runes and finish region.
// margin widens every rune's capture radius.
func NewMachine(runes []course.Rune, finish course.FinishRegion, start time.Time, margin float64) *Machine {
	rs := make([]course.Rune, len(runes))
	copy(rs, runes)
	return &Machine{
		runes:  rs,
		finish: finish,
		start:  start,
		margin: margin,
		phase:  Running,
	}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Outcome returns the race outcome.
func (m *Machine) Outcome() Outcome {
	return m.outcome
}

// Start returns the race start time.
func (m *Machine) Start() time.Time {
	return m.start
}

// RuneCount returns the number of runes in the race.
func (m *Machine) RuneCount() int {
	return len(m.runes)
}

// Tick runs captures and the win check for every entry, then returns the
// progress of each entry.
//
// Entries are processed in slice order. When several entries satisfy the
// win condition in the same tick the first one wins. Once the race is
// Finished, Tick only reports progress.
func (m *Machine) Tick(now time.Time, entries []*Entry) map[ParticipantID]Progress {
	if m.phase == Running {
		for _, e := range entries {
			m.capture(e)
			if m.wins(e) {
				m.finishRace(now, e, entries)
				break
			}
		}
	}

	out := make(map[ParticipantID]Progress, len(entries))
	for _, e := range entries {
		out[e.ID] = m.progress(e)
	}
	return out
}

// capture adds every rune within reach of the entry's avatar.
func (m *Machine) capture(e *Entry) {
	if e.Avatar == nil {
		return
	}
	if e.Captured == nil {
		e.Captured = make(map[int]bool)
	}
	center := e.Avatar.Center()
	for _, r := range m.runes {
		if e.Captured[r.ID] {
			continue
		}
		if Captures(center, r, m.margin) {
			e.Captured[r.ID] = true
		}
	}
}

func (m *Machine) wins(e *Entry) bool {
	if e.Avatar == nil || len(e.Captured) != len(m.runes) {
		return false
	}
	return m.finish.Contains(e.Avatar.Center())
}

func (m *Machine) finishRace(now time.Time, winner *Entry, entries []*Entry) {
	id := winner.ID
	elapsed := now.Sub(m.start)
	at := now

	winner.FinishedAt = &at
	m.outcome = Outcome{Winner: &id, Elapsed: &elapsed}
	m.phase = Finished

	for _, e := range entries {
		if e.Avatar != nil {
			e.Avatar.Freeze(true)
		}
	}
}

func (m *Machine) progress(e *Entry) Progress {
	ids := e.CapturedIDs()
	return Progress{
		Count:   len(ids),
		IDs:     ids,
		Winner:  m.outcome.Winner,
		Elapsed: m.outcome.Elapsed,
	}
}

// Captures reports whether an avatar centred at center reaches rune r.
// The boundary counts as reached.
func Captures(center core.Vec, r course.Rune, margin float64) bool {
	return center.Dist(r.Pos) <= r.Radius+margin
}
