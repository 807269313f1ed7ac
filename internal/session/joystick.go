package session

import (
	"sync"

	"github.com/vovakirdan/rune-race/internal/core"
)

// DefaultHoldTicks is how long a direction press lasts without a repeat.
// Terminals report key presses but not releases, so a held key shows up
// as a stream of repeats.
const DefaultHoldTicks = 8

// Joystick is a direction pad plus a jump button fed by key presses.
// The owning session writes it and the host loop reads it.
type Joystick struct {
	mu   sync.Mutex
	hold int

	dir      int
	dirLeft  int
	jumpLeft int
}

// jumpBuffer is how many ticks a jump press stays pending, so a press
// just before landing still jumps.
const jumpBuffer = 4

// NewJoystick creates a joystick whose direction presses last hold ticks.
func NewJoystick(hold int) *Joystick {
	if hold < 1 {
		hold = DefaultHoldTicks
	}
	return &Joystick{hold: hold}
}

// Press records an action.
func (j *Joystick) Press(a core.Action) {
	j.mu.Lock()
	defer j.mu.Unlock()

	switch a {
	case core.ActionLeft:
		j.dir, j.dirLeft = -1, j.hold
	case core.ActionRight:
		j.dir, j.dirLeft = 1, j.hold
	case core.ActionJump:
		j.jumpLeft = jumpBuffer
	}
}

// Release drops every held button.
func (j *Joystick) Release() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.dir, j.dirLeft, j.jumpLeft = 0, 0, 0
}

// Intent implements Input. Each call consumes one tick of hold.
func (j *Joystick) Intent() core.Intent {
	j.mu.Lock()
	defer j.mu.Unlock()

	in := core.Intent{Dir: j.dir, Jump: j.jumpLeft > 0}
	if j.jumpLeft > 0 {
		j.jumpLeft--
	}
	if j.dirLeft > 0 {
		j.dirLeft--
		if j.dirLeft == 0 {
			j.dir = 0
		}
	}
	return in
}
