package session

import (
	"fmt"
	"time"

	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/race"
)

// HUD is the read-only view of the race for the loop's participant.
// It is derived on demand and never fed back into the race.
type HUD struct {
	Role     Role
	Elapsed  time.Duration
	Captured int
	Total    int
	Racers   int

	Finished   bool
	WinnerID   race.ParticipantID
	Winner     string
	WinnerTime time.Duration
	SelfWon    bool
}

// Announcement returns the winner line, or "" while the race runs.
func (h HUD) Announcement() string {
	if !h.Finished {
		return ""
	}
	if h.SelfWon {
		return fmt.Sprintf("You win! %s", formatElapsed(h.WinnerTime))
	}
	return fmt.Sprintf("%s wins! %s", h.Winner, formatElapsed(h.WinnerTime))
}

// Clock returns the elapsed time as the HUD shows it.
func (h HUD) Clock() string {
	return formatElapsed(h.Elapsed)
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(100 * time.Millisecond)
	return fmt.Sprintf("%d:%04.1f", int(d.Minutes()), (d % time.Minute).Seconds())
}

// HUD projects the race for display.
func (l *Loop) HUD(now time.Time) HUD {
	h := HUD{
		Role:     l.role,
		Captured: l.progress[l.self].Count,
		Total:    l.course.RuneCount(),
		Racers:   len(l.members),
	}
	if start := l.room.Started(); !start.IsZero() {
		h.Elapsed = now.Sub(start)
	}

	if out := l.outcome; out.Decided() {
		h.Finished = true
		h.WinnerID = *out.Winner
		h.Winner = l.nameOf(*out.Winner)
		h.SelfWon = *out.Winner == l.self
		if out.Elapsed != nil {
			h.WinnerTime = *out.Elapsed
			h.Elapsed = *out.Elapsed
		}
	}
	return h
}

// AvatarView is one avatar as the presentation layer draws it.
type AvatarView struct {
	ID       race.ParticipantID
	Name     string
	Color    core.Color
	Box      core.Box
	Frozen   bool
	Self     bool
	Host     bool
	Captured int
}

// Avatars returns every avatar in join order.
func (l *Loop) Avatars() []AvatarView {
	host, _ := l.room.Host()
	out := make([]AvatarView, 0, len(l.members))
	for _, m := range l.members {
		name := m.p.Profile.Name
		if name == "" {
			name = UnknownName
		}
		out = append(out, AvatarView{
			ID:       m.p.ID,
			Name:     name,
			Color:    m.p.Profile.Color,
			Box:      m.body.Box(),
			Frozen:   m.body.Frozen(),
			Self:     m.p.ID == l.self,
			Host:     m.p.ID == host,
			Captured: l.progress[m.p.ID].Count,
		})
	}
	return out
}

// CapturedBy returns the rune ids the participant has captured, as far as
// this loop knows.
func (l *Loop) CapturedBy(id race.ParticipantID) []int {
	return append([]int(nil), l.progress[id].IDs...)
}
