// Package race tracks rune captures and decides the race winner.
// It runs on the host only; other participants see its results through
// replicated progress.
package race

import (
	"slices"
	"time"

	"github.com/vovakirdan/rune-race/internal/core"
)

// ParticipantID uniquely identifies a participant for the life of a session.
type ParticipantID string

// DefaultMargin is added to every rune radius in the capture check.
const DefaultMargin = 8

// Phase is the state of a race.
type Phase int

const (
	// Running is the initial phase: captures and win checks happen every tick.
	Running Phase = iota

	// Finished is terminal. A winner has been recorded.
	Finished
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case Running:
		return "Running"
	case Finished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// Avatar is the part of a participant's body the race needs.
type Avatar interface {
	// Center returns the avatar's centre in world coordinates.
	Center() core.Vec

	// Freeze stops (true) or resumes (false) the avatar's simulation.
	Freeze(frozen bool)
}

// Entry is one participant's state in the race.
type Entry struct {
	ID     ParticipantID
	Avatar Avatar

	// Captured holds the rune ids this participant has collected.
	// Ids are only ever added.
	Captured map[int]bool

	// FinishedAt is set once, when this participant wins.
	FinishedAt *time.Time
}

// NewEntry creates an entry with nothing captured.
func NewEntry(id ParticipantID, avatar Avatar) *Entry {
	return &Entry{
		ID:       id,
		Avatar:   avatar,
		Captured: make(map[int]bool),
	}
}

// CapturedIDs returns the captured rune ids in ascending order.
func (e *Entry) CapturedIDs() []int {
	ids := make([]int, 0, len(e.Captured))
	for id := range e.Captured {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Outcome is the race result. Both fields are nil until a winner exists.
type Outcome struct {
	Winner  *ParticipantID
	Elapsed *time.Duration
}

// Decided reports whether a winner has been recorded.
func (o Outcome) Decided() bool {
	return o.Winner != nil
}

// Progress is the per-participant view of the race published every tick.
type Progress struct {
	Count   int            `msgpack:"count"`
	IDs     []int          `msgpack:"ids"`
	Winner  *ParticipantID `msgpack:"winner"`
	Elapsed *time.Duration `msgpack:"elapsed"`
}

// Outcome returns the race outcome carried by the progress.
func (p Progress) Outcome() Outcome {
	return Outcome{Winner: p.Winner, Elapsed: p.Elapsed}
}
