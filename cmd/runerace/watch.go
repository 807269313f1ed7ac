package main

import (
	"context"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/course"
	"github.com/vovakirdan/rune-race/internal/platform/tui"
	"github.com/vovakirdan/rune-race/internal/race"
	"github.com/vovakirdan/rune-race/internal/replication"
	"github.com/vovakirdan/rune-race/internal/session"
)

var watchCmd = &cobra.Command{
	Use:   "watch <url>",
	Short: "Spectate a served race",
	Long: `Connect to the spectator relay of 'runerace serve --ws' and watch
the race live. The course and the racers come from the server.

Examples:
  runerace watch ws://localhost:8080/race`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

func runWatch(_ *cobra.Command, args []string) {
	cfg := loadConfig()
	logger, closeLog := newLogger("watch", false)
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mirror, err := replication.Dial(ctx, args[0])
	if err != nil {
		fail("connecting", err)
	}
	defer mirror.Close()

	hello := mirror.Hello()
	c, err := course.FromSnapshot(*hello.Course)
	if err != nil {
		fail("reading course", err)
	}
	logger.Info("watching", "session", hello.Session, "racers", len(hello.Roster))

	// The local room only mirrors the remote roster, and the channel
	// accepts no local writers.
	room := session.NewRoom(nil)
	session.Mirror(room, hello)
	opts := cfg.LoopOptions()
	opts.Logger = logger
	arena := &session.Arena{
		Room:    room,
		Course:  c,
		Channel: replication.NewChannel(nil),
		Options: opts,
	}
	loop := arena.Spectate(race.ParticipantID("viewer-" + uuid.NewString()))

	go func() {
		err := mirror.Run(ctx, arena.Channel, func(f replication.Frame) {
			session.Mirror(room, f)
		})
		if err != nil {
			logger.Warn("relay connection lost", "error", err)
		}
	}()

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}
	rc := core.RuntimeConfig{ScreenW: width, ScreenH: height, TickRate: cfg.Session.TickRate}

	m := tui.NewModel(loop, nil, cancel, rc)
	if err := tui.Run(m); err != nil {
		fail("running viewer", err)
	}
}
