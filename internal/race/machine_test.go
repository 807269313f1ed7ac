package race

import (
	"testing"
	"time"

	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/course"
)

type stubAvatar struct {
	pos    core.Vec
	frozen bool
}

func (a *stubAvatar) Center() core.Vec   { return a.pos }
func (a *stubAvatar) Freeze(frozen bool) { a.frozen = frozen }

var t0 = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

func threeRunes() []course.Rune {
	return []course.Rune{
		{ID: 0, Pos: core.V(100, 100), Radius: 26},
		{ID: 1, Pos: core.V(300, 100), Radius: 26},
		{ID: 2, Pos: core.V(500, 100), Radius: 26},
	}
}

func finishAt(x, y float64) course.FinishRegion {
	return course.FinishRegion{Center: core.V(x, y), Half: core.V(64, 64)}
}

func TestCaptures(t *testing.T) {
	r := course.Rune{ID: 0, Pos: core.V(100, 100), Radius: 26}

	tests := []struct {
		name   string
		center core.Vec
		want   bool
	}{
		{"inside margin", core.V(115, 110), true},
		{"too far", core.V(140, 100), false},
		{"exact boundary", core.V(134, 100), true},
		{"just past boundary", core.V(134.01, 100), false},
		{"on the rune", core.V(100, 100), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Captures(tt.center, r, DefaultMargin); got != tt.want {
				t.Errorf("Captures(%v) = %v, want %v (dist %.2f)", tt.center, got, tt.want, tt.center.Dist(r.Pos))
			}
		})
	}
}

func TestTickCapturesMonotonic(t *testing.T) {
	m := NewMachine(threeRunes(), finishAt(1000, 100), t0, DefaultMargin)
	a := &stubAvatar{pos: core.V(115, 110)}
	e := NewEntry("p1", a)
	entries := []*Entry{e}

	path := []core.Vec{
		core.V(115, 110), // rune 0
		core.V(200, 100), // nothing
		core.V(300, 90),  // rune 1
		core.V(0, 0),     // nothing
	}

	prev := map[int]bool{}
	for i, p := range path {
		a.pos = p
		progress := m.Tick(t0.Add(time.Duration(i)*time.Second), entries)
		for id := range prev {
			if !e.Captured[id] {
				t.Fatalf("tick %d: rune %d was dropped", i, id)
			}
		}
		if got := progress["p1"].Count; got != len(e.Captured) {
			t.Errorf("tick %d: progress count = %d, captured = %d", i, got, len(e.Captured))
		}
		prev = make(map[int]bool)
		for id := range e.Captured {
			prev[id] = true
		}
	}

	got := e.CapturedIDs()
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Errorf("CapturedIDs = %v, want [0 1]", got)
	}
	if m.Phase() != Running {
		t.Errorf("Phase = %v, want Running", m.Phase())
	}
}

func TestTickWinner(t *testing.T) {
	m := NewMachine(threeRunes(), finishAt(1000, 100), t0, DefaultMargin)

	winner := &stubAvatar{pos: core.V(1000, 100)}
	other := &stubAvatar{pos: core.V(0, 0)}
	w := NewEntry("winner", winner)
	w.Captured = map[int]bool{0: true, 1: true, 2: true}
	o := NewEntry("other", other)
	entries := []*Entry{o, w}

	now := t0.Add(42 * time.Second)
	progress := m.Tick(now, entries)

	if m.Phase() != Finished {
		t.Fatalf("Phase = %v, want Finished", m.Phase())
	}
	out := m.Outcome()
	if !out.Decided() || *out.Winner != "winner" {
		t.Fatalf("Winner = %v, want winner", out.Winner)
	}
	if *out.Elapsed != 42*time.Second {
		t.Errorf("Elapsed = %v, want 42s", *out.Elapsed)
	}
	if w.FinishedAt == nil || !w.FinishedAt.Equal(now) {
		t.Errorf("FinishedAt = %v, want %v", w.FinishedAt, now)
	}
	if o.FinishedAt != nil {
		t.Error("loser has a finish time")
	}
	if !winner.frozen || !other.frozen {
		t.Error("not every avatar is frozen")
	}
	for id, p := range progress {
		if p.Winner == nil || *p.Winner != "winner" {
			t.Errorf("progress[%s].Winner = %v", id, p.Winner)
		}
	}
	if progress["winner"].Count != 3 {
		t.Errorf("winner count = %d, want 3", progress["winner"].Count)
	}
}

func TestTickWinnerExactlyOnce(t *testing.T) {
	m := NewMachine(threeRunes(), finishAt(1000, 100), t0, DefaultMargin)

	a := &stubAvatar{pos: core.V(1000, 100)}
	b := &stubAvatar{pos: core.V(1000, 100)}
	ea := NewEntry("a", a)
	eb := NewEntry("b", b)
	for _, e := range []*Entry{ea, eb} {
		e.Captured = map[int]bool{0: true, 1: true, 2: true}
	}

	// Both qualify in the same tick: the first processed wins.
	m.Tick(t0.Add(time.Second), []*Entry{ea, eb})
	if got := *m.Outcome().Winner; got != "a" {
		t.Fatalf("Winner = %s, want a", got)
	}

	// Later ticks never change the winner or elapsed time.
	for i := 2; i < 10; i++ {
		m.Tick(t0.Add(time.Duration(i)*time.Second), []*Entry{eb, ea})
		out := m.Outcome()
		if *out.Winner != "a" || *out.Elapsed != time.Second {
			t.Fatalf("tick %d: outcome changed to %s/%v", i, *out.Winner, *out.Elapsed)
		}
	}
	if eb.FinishedAt != nil {
		t.Error("second entry got a finish time")
	}
}

func TestTickWinCondition(t *testing.T) {
	f := finishAt(1000, 100)

	tests := []struct {
		name     string
		captured map[int]bool
		pos      core.Vec
		want     bool
	}{
		{"all runes inside", map[int]bool{0: true, 1: true, 2: true}, core.V(1000, 100), true},
		{"all runes on edge", map[int]bool{0: true, 1: true, 2: true}, core.V(1064, 164), true},
		{"all runes outside", map[int]bool{0: true, 1: true, 2: true}, core.V(1065, 100), false},
		{"missing rune inside", map[int]bool{0: true, 1: true}, core.V(1000, 100), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(threeRunes(), f, t0, DefaultMargin)
			e := NewEntry("p", &stubAvatar{pos: tt.pos})
			e.Captured = tt.captured

			m.Tick(t0, []*Entry{e})
			if got := m.Outcome().Decided(); got != tt.want {
				t.Errorf("Decided = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTickCaptureThenWinSameTick(t *testing.T) {
	// The last rune sits inside the finish region.
	runes := []course.Rune{{ID: 0, Pos: core.V(1000, 100), Radius: 26}}
	m := NewMachine(runes, finishAt(1000, 100), t0, DefaultMargin)
	e := NewEntry("p", &stubAvatar{pos: core.V(1005, 100)})

	m.Tick(t0, []*Entry{e})
	if !m.Outcome().Decided() {
		t.Error("capturing the last rune inside the finish did not win")
	}
}

func TestTickNilAvatar(t *testing.T) {
	m := NewMachine(threeRunes(), finishAt(1000, 100), t0, DefaultMargin)
	e := &Entry{ID: "ghost"}

	progress := m.Tick(t0, []*Entry{e})
	if progress["ghost"].Count != 0 || progress["ghost"].Winner != nil {
		t.Errorf("progress = %+v", progress["ghost"])
	}
}
