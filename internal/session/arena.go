package session

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/rune-race/internal/course"
	"github.com/vovakirdan/rune-race/internal/race"
	"github.com/vovakirdan/rune-race/internal/replication"
)

// Arena bundles what every participant of one race shares: the room,
// the course and the replication channel the room authorizes.
type Arena struct {
	Room    *Room
	Course  *course.Course
	Channel *replication.Channel
	Options Options

	botsOnce sync.Once
}

// NewArena creates a race on c whose clock is time.Now.
func NewArena(c *course.Course, opts Options) *Arena {
	room := NewRoom(time.Now)
	return &Arena{
		Room:    room,
		Course:  c,
		Channel: replication.NewChannel(room),
		Options: opts,
	}
}

// Enter joins a participant and creates its loop. The loop logs with the
// participant's name as prefix.
func (a *Arena) Enter(profile Profile, in Input) (*Participant, *Loop) {
	p := a.Room.Join(profile, in)

	opts := a.Options
	if opts.Logger != nil {
		opts.Logger = opts.Logger.WithPrefix(profile.Name)
	} else {
		opts.Logger = log.New(io.Discard)
	}
	return p, NewLoop(p.ID, a.Room, a.Course, a.Channel, opts)
}

// Exit removes the participant and stops its loop.
func (a *Arena) Exit(p *Participant, l *Loop) {
	p.Leave()
	if l != nil {
		l.Close()
	}
}

// AddBots joins n bot racers, once per arena. Bots have no loop of their
// own: the host loop drives them. newBot is called with 1..n.
func (a *Arena) AddBots(n int, newBot func(i int) Input) {
	a.botsOnce.Do(func() {
		for i := 1; i <= n; i++ {
			a.Room.Join(Profile{Name: fmt.Sprintf("Bot %d", i)}, newBot(i))
		}
	})
}

// Spectate creates a loop for a viewer who is not in the room. Its loop
// is always a guest.
func (a *Arena) Spectate(id race.ParticipantID) *Loop {
	opts := a.Options
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return NewLoop(id, a.Room, a.Course, a.Channel, opts)
}
