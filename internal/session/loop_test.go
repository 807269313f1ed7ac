package session

import (
	"testing"
	"time"

	"github.com/vovakirdan/rune-race/internal/agent"
	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/course"
	"github.com/vovakirdan/rune-race/internal/race"
	"github.com/vovakirdan/rune-race/internal/replication"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return t0 }

// testCourse is a flat 16x8 course with the given objectives.
func testCourse(t *testing.T, runes []course.Rune, finish course.FinishRegion) *course.Course {
	t.Helper()
	rows := make([][]int, 8)
	for y := range rows {
		rows[y] = make([]int, 16)
		for x := range rows[y] {
			rows[y][x] = course.Empty
			if y == len(rows)-1 {
				rows[y][x] = course.CarveTile
			}
		}
	}
	c, err := course.FromSnapshot(course.Snapshot{
		Rows:     rows,
		TileSize: 64,
		Spawn:    core.V(96, 400),
		Runes:    runes,
		Finish:   finish,
	})
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}
	return c
}

// farCourse has objectives nobody reaches.
func farCourse(t *testing.T) *course.Course {
	return testCourse(t,
		[]course.Rune{{ID: 0, Pos: core.V(900, 100), Radius: 26}},
		course.FinishRegion{Center: core.V(960, 400), Half: core.V(64, 64)},
	)
}

// spawnWinCourse puts the only rune and the finish on the spawn point.
func spawnWinCourse(t *testing.T) *course.Course {
	return testCourse(t,
		[]course.Rune{{ID: 0, Pos: core.V(96, 410), Radius: 26}},
		course.FinishRegion{Center: core.V(96, 400), Half: core.V(64, 64)},
	)
}

type fixture struct {
	room *Room
	ch   *replication.Channel
	c    *course.Course
}

func newFixture(c *course.Course) *fixture {
	room := NewRoom(fixedClock)
	return &fixture{room: room, ch: replication.NewChannel(room), c: c}
}

func (f *fixture) loop(self race.ParticipantID) *Loop {
	return NewLoop(self, f.room, f.c, f.ch, DefaultOptions())
}

func TestRolePerTick(t *testing.T) {
	f := newFixture(farCourse(t))
	a := f.room.Join(Profile{Name: "Ada"}, nil)
	b := f.room.Join(Profile{Name: "Bo"}, nil)
	la, lb := f.loop(a.ID), f.loop(b.ID)

	la.Tick(t0)
	lb.Tick(t0)
	if la.Role() != RoleHost {
		t.Errorf("first joiner role = %v, want Host", la.Role())
	}
	if lb.Role() != RoleGuest {
		t.Errorf("second joiner role = %v, want Guest", lb.Role())
	}

	spectator := f.loop("viewer")
	spectator.Tick(t0)
	if spectator.Role() != RoleGuest {
		t.Errorf("spectator role = %v, want Guest", spectator.Role())
	}
}

func TestHostPublishesGuestMirrors(t *testing.T) {
	f := newFixture(farCourse(t))
	a := f.room.Join(Profile{Name: "Ada"}, NewJoystick(0))
	b := f.room.Join(Profile{Name: "Bo"}, nil)
	la, lb := f.loop(a.ID), f.loop(b.ID)

	a.Input.(*Joystick).Press(core.ActionRight)
	for i := range 10 {
		now := t0.Add(time.Duration(i) * time.Second / 30)
		la.Tick(now)
		lb.Tick(now)
	}

	for _, id := range []race.ParticipantID{a.ID, b.ID} {
		if _, _, ok := f.ch.ReadPosition(id); !ok {
			t.Errorf("no position published for %s", id)
		}
		if _, _, ok := f.ch.ReadProgress(id); !ok {
			t.Errorf("no progress published for %s", id)
		}
	}

	hostBody, err := la.Body(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	guestView, err := lb.Body(a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if hostBody.Center() != guestView.Center() {
		t.Errorf("guest sees %v, host has %v", guestView.Center(), hostBody.Center())
	}
	if hostBody.Center().X <= f.c.Spawn.X {
		t.Errorf("host body did not run right: %v", hostBody.Center())
	}
}

func TestGuestCannotPublish(t *testing.T) {
	f := newFixture(farCourse(t))
	a := f.room.Join(Profile{Name: "Ada"}, nil)
	b := f.room.Join(Profile{Name: "Bo"}, nil)

	err := f.ch.PublishPosition(b.ID, a.ID, core.V(1, 1))
	if err == nil {
		t.Fatal("guest publish accepted")
	}
	if err := f.ch.PublishPosition(a.ID, b.ID, core.V(1, 1)); err != nil {
		t.Fatalf("host publish: %v", err)
	}
}

func TestWinnerFreezesEveryone(t *testing.T) {
	f := newFixture(spawnWinCourse(t))
	a := f.room.Join(Profile{Name: "Ada"}, nil)
	b := f.room.Join(Profile{Name: "Bo"}, nil)
	la, lb := f.loop(a.ID), f.loop(b.ID)

	now := t0.Add(5 * time.Second)
	la.Tick(now)

	out := la.Outcome()
	if !out.Decided() || *out.Winner != a.ID {
		t.Fatalf("host outcome = %+v, want winner %s", out, a.ID)
	}
	if *out.Elapsed != 5*time.Second {
		t.Errorf("elapsed = %v, want 5s", *out.Elapsed)
	}
	for _, v := range la.Avatars() {
		if !v.Frozen {
			t.Errorf("host avatar %s not frozen", v.Name)
		}
	}

	// The guest has not ticked yet: nothing propagated.
	if lb.Outcome().Decided() {
		t.Fatal("guest decided before reading")
	}
	lb.Tick(now)
	if got := lb.Outcome(); !got.Decided() || *got.Winner != a.ID {
		t.Fatalf("guest outcome = %+v", got)
	}
	for _, v := range lb.Avatars() {
		if !v.Frozen {
			t.Errorf("guest avatar %s not frozen", v.Name)
		}
	}

	hud := lb.HUD(now.Add(time.Minute))
	if !hud.Finished || hud.Winner != "Ada" || hud.SelfWon {
		t.Errorf("guest HUD = %+v", hud)
	}
	if hud.Elapsed != 5*time.Second {
		t.Errorf("HUD elapsed = %v, want frozen at 5s", hud.Elapsed)
	}
	if got := lb.HUD(now).Announcement(); got != "Ada wins! 0:05.0" {
		t.Errorf("Announcement = %q", got)
	}
	if got := la.HUD(now).Announcement(); got != "You win! 0:05.0" {
		t.Errorf("host Announcement = %q", got)
	}

	// The winner never changes afterwards.
	for i := range 5 {
		later := now.Add(time.Duration(i+1) * time.Second)
		la.Tick(later)
		lb.Tick(later)
		if *la.Outcome().Winner != a.ID || *lb.Outcome().Winner != a.ID {
			t.Fatal("winner changed")
		}
	}
}

func TestWinnerNameFallback(t *testing.T) {
	f := newFixture(spawnWinCourse(t))
	a := f.room.Join(Profile{Name: "Ada"}, nil)
	b := f.room.Join(Profile{Name: "Bo"}, nil)
	la, lb := f.loop(a.ID), f.loop(b.ID)

	la.Tick(t0)
	lb.Tick(t0)
	a.Leave()
	lb.Tick(t0.Add(time.Second))

	hud := lb.HUD(t0)
	if !hud.Finished || hud.Winner != UnknownName {
		t.Errorf("HUD = %+v, want winner %q", hud, UnknownName)
	}
}

// leavingInput makes its participant leave the first time it is read,
// which happens in the middle of the host's pass over avatars.
type leavingInput struct {
	p *Participant
}

func (in *leavingInput) Intent() core.Intent {
	in.p.Leave()
	return core.Intent{Dir: 1}
}

func TestLeaveDuringTick(t *testing.T) {
	f := newFixture(farCourse(t))
	a := f.room.Join(Profile{Name: "Ada"}, nil)
	in := &leavingInput{}
	b := f.room.Join(Profile{Name: "Bo"}, in)
	in.p = b
	c := f.room.Join(Profile{Name: "Cy"}, nil)
	la := f.loop(a.ID)

	la.Tick(t0)

	// The pass that saw the leave still covered everyone.
	if len(la.Avatars()) != 3 {
		t.Fatalf("avatars after leave tick = %d, want 3", len(la.Avatars()))
	}
	if _, _, ok := f.ch.ReadPosition(c.ID); !ok {
		t.Error("participant after the leaver was not published")
	}

	la.Tick(t0.Add(time.Second))
	views := la.Avatars()
	if len(views) != 2 || views[0].ID != a.ID || views[1].ID != c.ID {
		t.Fatalf("avatars = %+v, want [Ada Cy]", views)
	}
	if _, _, ok := f.ch.ReadPosition(b.ID); ok {
		t.Error("leaver's slots were not forgotten")
	}
}

func TestLeaveDisposesAvatar(t *testing.T) {
	f := newFixture(farCourse(t))
	a := f.room.Join(Profile{Name: "Ada"}, nil)
	b := f.room.Join(Profile{Name: "Bo"}, nil)
	la := f.loop(a.ID)
	la.Tick(t0)

	body, err := la.Body(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	b.Leave()
	b.Leave()
	la.Tick(t0)

	if !body.Disposed() {
		t.Error("leaver's body not disposed")
	}
	if _, err := la.Body(b.ID); err == nil {
		t.Error("leaver still has a body")
	}
}

func TestHostLeavesNoMigration(t *testing.T) {
	f := newFixture(farCourse(t))
	a := f.room.Join(Profile{Name: "Ada"}, nil)
	b := f.room.Join(Profile{Name: "Bo"}, nil)
	la, lb := f.loop(a.ID), f.loop(b.ID)
	la.Tick(t0)
	lb.Tick(t0)

	_, seqBefore, _ := f.ch.ReadPosition(b.ID)
	a.Leave()
	la.Close()
	for range 3 {
		lb.Tick(t0)
	}

	if _, ok := f.room.Host(); ok {
		t.Error("room picked a new host")
	}
	if lb.Role() != RoleGuest {
		t.Errorf("remaining participant role = %v, want Guest", lb.Role())
	}
	if _, seq, _ := f.ch.ReadPosition(b.ID); seq != seqBefore {
		t.Error("state advanced without a host")
	}
}

func TestJoinAfterStartSpawnsAtSpawn(t *testing.T) {
	f := newFixture(farCourse(t))
	a := f.room.Join(Profile{Name: "Ada"}, nil)
	la := f.loop(a.ID)
	la.Tick(t0)

	b := f.room.Join(Profile{Name: "Bo"}, nil)
	if _, err := la.Body(b.ID); err == nil {
		t.Fatal("join applied before the next tick")
	}
	la.Tick(t0)

	body, err := la.Body(b.ID)
	if err != nil {
		t.Fatal(err)
	}
	if d := body.Center().Dist(f.c.Spawn); d > 5 {
		t.Errorf("late joiner at %v, spawn %v", body.Center(), f.c.Spawn)
	}
}

func TestBotDrivenOnlyByHost(t *testing.T) {
	f := newFixture(farCourse(t))
	a := f.room.Join(Profile{Name: "Ada"}, nil)
	bot := agent.NewBot(7)
	b := f.room.Join(Profile{Name: "Bot"}, bot)
	la := f.loop(a.ID)

	for i := range 60 {
		la.Tick(t0.Add(time.Duration(i) * time.Second / 30))
	}

	body, _ := la.Body(b.ID)
	if body.Center().X <= f.c.Spawn.X+64 {
		t.Errorf("bot did not advance: %v", body.Center())
	}
}

func TestHUDProgress(t *testing.T) {
	c := testCourse(t,
		[]course.Rune{
			{ID: 0, Pos: core.V(96, 410), Radius: 26},
			{ID: 1, Pos: core.V(900, 100), Radius: 26},
		},
		course.FinishRegion{Center: core.V(960, 400), Half: core.V(64, 64)},
	)
	f := newFixture(c)
	a := f.room.Join(Profile{Name: "Ada"}, nil)
	la := f.loop(a.ID)

	la.Tick(t0.Add(2 * time.Second))
	hud := la.HUD(t0.Add(2 * time.Second))
	if hud.Captured != 1 || hud.Total != 2 {
		t.Errorf("HUD captured %d/%d, want 1/2", hud.Captured, hud.Total)
	}
	if hud.Finished || hud.Announcement() != "" {
		t.Error("race finished without the second rune")
	}
	if hud.Clock() != "0:02.0" || hud.Role != RoleHost || hud.Racers != 1 {
		t.Errorf("HUD = %+v", hud)
	}
	if ids := la.CapturedBy(a.ID); len(ids) != 1 || ids[0] != 0 {
		t.Errorf("CapturedBy = %v", ids)
	}
}

func TestCloseDropsLeaveHandlers(t *testing.T) {
	f := newFixture(farCourse(t))
	a := f.room.Join(Profile{Name: "Ada"}, nil)
	b := f.room.Join(Profile{Name: "Bo"}, nil)
	la, lb := f.loop(a.ID), f.loop(b.ID)
	la.Tick(t0)
	lb.Tick(t0)

	la.Close()
	b.Leave()

	la.pendingMu.Lock()
	queued := len(la.pending)
	la.pendingMu.Unlock()
	if queued != 0 {
		t.Errorf("closed loop queued %d events", queued)
	}

	a.mu.Lock()
	handlers := len(a.handlers)
	a.mu.Unlock()
	if handlers != 1 {
		t.Errorf("Ada has %d leave handlers, want only the open loop's", handlers)
	}
}

func TestBotFinishesRace(t *testing.T) {
	c := testCourse(t,
		[]course.Rune{
			{ID: 0, Pos: core.V(420, 352), Radius: 26},
			{ID: 1, Pos: core.V(700, 430), Radius: 26},
		},
		course.FinishRegion{Center: core.V(900, 400), Half: core.V(64, 64)},
	)
	f := newFixture(c)
	b := f.room.Join(Profile{Name: "Bot"}, agent.NewBot(11))
	lb := f.loop(b.ID)

	for i := range 900 {
		lb.Tick(t0.Add(time.Duration(i) * time.Second / 30))
		if lb.Outcome().Decided() {
			break
		}
	}

	out := lb.Outcome()
	if !out.Decided() || *out.Winner != b.ID {
		body, _ := lb.Body(b.ID)
		t.Fatalf("bot did not win; at %v holding %v", body.Center(), lb.CapturedBy(b.ID))
	}
}
