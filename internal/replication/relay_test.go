package replication

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/course"
	"github.com/vovakirdan/rune-race/internal/race"
)

func testSnapshot() *course.Snapshot {
	return &course.Snapshot{
		Rows:     [][]int{{-1, -1}, {0, 0}},
		Order:    []int{1, 2, 3},
		TileSize: 64,
		Spawn:    core.V(32, 32),
		Runes:    []course.Rune{{ID: 0, Pos: core.V(64, 10), Radius: 26}},
		Finish:   course.FinishRegion{Center: core.V(100, 64), Half: core.V(64, 64)},
	}
}

func TestFrameCodec(t *testing.T) {
	winner := race.ParticipantID("a")
	elapsed := 1500 * time.Millisecond
	pos := core.V(12.5, -3)

	in := Frame{
		Kind:    KindState,
		Session: "s1",
		Tick:    9,
		Roster:  []Member{{ID: "a", Name: "Ada", Color: 3, Host: true}},
		States: map[race.ParticipantID]Envelope{
			"a": {
				Position:    &pos,
				Progress:    &race.Progress{Count: 1, IDs: []int{0}, Winner: &winner, Elapsed: &elapsed},
				PositionSeq: 4,
				ProgressSeq: 5,
			},
		},
	}

	data, err := EncodeFrame(in)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	out, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}

	env, ok := out.States["a"]
	if !ok || env.Position == nil || *env.Position != pos {
		t.Fatalf("position = %+v", env.Position)
	}
	if env.Progress == nil || *env.Progress.Winner != "a" || *env.Progress.Elapsed != elapsed {
		t.Fatalf("progress = %+v", env.Progress)
	}
	if env.Seq() != 5 || out.Tick != 9 || out.Roster[0].Name != "Ada" {
		t.Errorf("frame = %+v", out)
	}
}

func TestDecodeFrameRejects(t *testing.T) {
	tests := []struct {
		name  string
		frame Frame
	}{
		{"unknown kind", Frame{Kind: "bogus"}},
		{"hello without course", Frame{Kind: KindHello}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeFrame(tt.frame)
			if err != nil {
				t.Fatal(err)
			}
			if _, err := DecodeFrame(data); err == nil {
				t.Error("DecodeFrame accepted a bad frame")
			}
		})
	}

	if _, err := DecodeFrame([]byte{0xc1}); err == nil {
		t.Error("DecodeFrame accepted garbage")
	}
}

func TestRelayRoundTrip(t *testing.T) {
	hello := Frame{Kind: KindHello, Session: "race-1", Course: testSnapshot()}
	relay := NewRelay(func() Frame { return hello }, nil)
	srv := httptest.NewServer(relay)
	defer srv.Close()
	defer relay.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	m, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer m.Close()

	if got := m.Hello(); got.Session != "race-1" || got.Course == nil || len(got.Course.Rows) != 2 {
		t.Fatalf("hello = %+v", got)
	}
	if relay.Viewers() != 1 {
		t.Fatalf("Viewers = %d, want 1", relay.Viewers())
	}

	host := NewChannel(FixedWriter("h"))
	if err := host.PublishPosition("h", "h", core.V(3, 4)); err != nil {
		t.Fatal(err)
	}
	if err := host.PublishProgress("h", "h", race.Progress{Count: 1, IDs: []int{0}}); err != nil {
		t.Fatal(err)
	}

	local := NewChannel(nil)
	frames := make(chan Frame, 1)
	errc := make(chan error, 1)
	go func() {
		errc <- m.Run(ctx, local, func(f Frame) { frames <- f })
	}()

	roster := []Member{{ID: "h", Name: "Host", Host: true}}
	if err := relay.Broadcast(StateFrame("race-1", 1, roster, host)); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}

	select {
	case f := <-frames:
		if f.Tick != 1 || len(f.Roster) != 1 {
			t.Errorf("frame = %+v", f)
		}
	case <-ctx.Done():
		t.Fatal("no state frame received")
	}

	pos, _, ok := local.ReadPosition("h")
	if !ok || pos != core.V(3, 4) {
		t.Errorf("mirrored position = %v, %v", pos, ok)
	}
	p, _, ok := local.ReadProgress("h")
	if !ok || p.Count != 1 {
		t.Errorf("mirrored progress = %+v, %v", p, ok)
	}

	relay.Close()
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Run after relay close: %v", err)
		}
	case <-ctx.Done():
		t.Fatal("Run did not return after relay close")
	}
}
