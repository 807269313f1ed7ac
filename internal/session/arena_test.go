package session

import (
	"testing"
	"time"

	"github.com/vovakirdan/rune-race/internal/agent"
)

func TestArenaEnterAndBots(t *testing.T) {
	a := NewArena(farCourse(t), DefaultOptions())

	p, l := a.Enter(Profile{Name: "Ada"}, NewJoystick(0))
	if !a.Room.IsHost(p.ID) {
		t.Fatal("first participant is not the host")
	}

	made := 0
	newBot := func(i int) Input {
		made++
		return agent.NewBot(int64(i))
	}
	a.AddBots(2, newBot)
	a.AddBots(2, newBot)
	if made != 2 || a.Room.Count() != 3 {
		t.Fatalf("bots made = %d, room size = %d", made, a.Room.Count())
	}

	now := time.Now()
	l.Tick(now)
	if l.Role() != RoleHost {
		t.Errorf("role = %v, want Host", l.Role())
	}
	if got := len(a.Channel.IDs()); got != 3 {
		t.Errorf("published %d slots, want 3", got)
	}

	viewer := a.Spectate("viewer")
	viewer.Tick(now)
	if viewer.Role() != RoleGuest || len(viewer.Avatars()) != 3 {
		t.Errorf("spectator role = %v with %d avatars", viewer.Role(), len(viewer.Avatars()))
	}

	a.Exit(p, l)
	if !p.Left() || a.Room.Count() != 2 {
		t.Errorf("after exit: left=%v count=%d", p.Left(), a.Room.Count())
	}
}
