package session

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/course"
	"github.com/vovakirdan/rune-race/internal/race"
	"github.com/vovakirdan/rune-race/internal/replication"
)

// Roster lists the room's participants for remote viewers.
func Roster(room *Room) []replication.Member {
	host, _ := room.Host()
	ps := room.Participants()
	out := make([]replication.Member, 0, len(ps))
	for _, p := range ps {
		out = append(out, replication.Member{
			ID:    p.ID,
			Name:  p.Profile.Name,
			Color: int(p.Profile.Color),
			Host:  p.ID == host,
		})
	}
	return out
}

// HelloFrame is the first frame a viewer of room receives.
func HelloFrame(room *Room, c *course.Course) replication.Frame {
	snap := c.Snapshot()
	return replication.Frame{
		Kind:    replication.KindHello,
		Session: room.ID(),
		Course:  &snap,
		Roster:  Roster(room),
		Started: startedNanos(room),
	}
}

func startedNanos(room *Room) int64 {
	t := room.Started()
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

// Broadcast sends the channel contents to the relay's viewers tickRate
// times a second until ctx is done.
func Broadcast(ctx context.Context, room *Room, ch *replication.Channel, relay *replication.Relay, tickRate int, logger *log.Logger) {
	if tickRate <= 0 {
		tickRate = DefaultOptions().TickRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick++
			if relay.Viewers() == 0 {
				continue
			}
			f := replication.StateFrame(room.ID(), tick, Roster(room), ch)
			f.Started = startedNanos(room)
			if err := relay.Broadcast(f); err != nil && logger != nil {
				logger.Warn("Broadcast failed", "error", err)
			}
		}
	}
}

// Follow makes room track a remote roster: members missing locally join,
// members no longer listed leave and the listed host becomes the host.
func Follow(room *Room, roster []replication.Member) {
	listed := make(map[race.ParticipantID]bool, len(roster))
	var host race.ParticipantID
	hasHost := false
	for _, m := range roster {
		listed[m.ID] = true
		room.JoinAs(m.ID, Profile{Name: m.Name, Color: core.Color(m.Color)}, nil)
		if m.Host && !hasHost {
			host, hasHost = m.ID, true
		}
	}
	for _, p := range room.Participants() {
		if !listed[p.ID] {
			p.Leave()
		}
	}
	room.mirrorHost(host, hasHost)
}

// Mirror applies a relay frame to a room that mirrors the remote one:
// the race start and the roster.
func Mirror(room *Room, f replication.Frame) {
	if f.Started != 0 {
		room.StartAt(time.Unix(0, f.Started))
	}
	Follow(room, f.Roster)
}
