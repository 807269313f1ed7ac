package agent

import (
	"math"
	"math/rand"

	"github.com/vovakirdan/rune-race/internal/core"
)

// Bot drives a body toward a goal, usually the next rune and then the
// finish. It jumps whenever it runs into something and when the goal is
// overhead. Without a goal it runs right.
type Bot struct {
	body *Body
	rng  *rand.Rand

	jumpChance float64
	hesitation float64
	stuck      int

	goal    core.Vec
	hasGoal bool
	under   int // ticks spent below the goal without reaching it
	wander  int // ticks left exploring away from the goal
	wanderX int
}

const (
	// botReach is how close horizontally the bot must be to jump for a goal.
	botReach = 48.0
	// botTolerance is the horizontal distance treated as "under the goal".
	botTolerance = 8.0
	// botPatience is how many ticks the bot tries from under a goal before
	// exploring for a ledge.
	botPatience = 90
	botWander   = 75
)

// NewBot creates a bot. The same seed replays the same jumps.
func NewBot(seed int64) *Bot {
	return &Bot{
		rng:        rand.New(rand.NewSource(seed)),
		jumpChance: 0.04,
	}
}

// WithJumpChance sets the chance per grounded tick of a random jump.
func (b *Bot) WithJumpChance(p float64) *Bot {
	b.jumpChance = p
	return b
}

// WithHesitation sets the chance per tick of standing still.
func (b *Bot) WithHesitation(p float64) *Bot {
	b.hesitation = p
	return b
}

// Attach binds the bot to the body it drives.
func (b *Bot) Attach(body *Body) {
	b.body = body
}

// Steer sets the point the bot heads for.
func (b *Bot) Steer(goal core.Vec) {
	if !b.hasGoal || goal != b.goal {
		b.under, b.wander = 0, 0
	}
	b.goal, b.hasGoal = goal, true
}

// Intent returns the input for the next step.
func (b *Bot) Intent() core.Intent {
	if b.body == nil {
		return core.Intent{}
	}
	if b.hasGoal {
		return b.seek()
	}

	in := core.Intent{Dir: 1}
	if b.body.Blocked() {
		b.stuck++
	} else {
		b.stuck = 0
	}

	switch {
	case b.stuck > 0:
		in.Jump = true
		// Back off briefly when a jump alone does not clear the wall.
		if b.stuck > 20 && b.stuck%40 < 10 {
			in.Dir = -1
		}
	case b.body.OnGround() && b.rng.Float64() < b.jumpChance:
		in.Jump = true
	case b.hesitation > 0 && b.rng.Float64() < b.hesitation:
		in.Dir = 0
	}
	return in
}

// seek moves toward the goal, jumping for it once close. A goal it cannot
// reach from below sends it exploring to one side for a while, which
// usually finds a ledge to jump from.
func (b *Bot) seek() core.Intent {
	pos := b.body.Center()
	dx := b.goal.X - pos.X
	above := b.goal.Y < pos.Y-botTolerance

	if b.body.Blocked() {
		b.stuck++
	} else {
		b.stuck = 0
	}

	if b.wander > 0 {
		b.wander--
		in := core.Intent{Dir: b.wanderX}
		in.Jump = b.stuck > 0 || (b.body.OnGround() && b.rng.Float64() < b.jumpChance)
		return in
	}

	var in core.Intent
	switch {
	case dx > botTolerance:
		in.Dir = 1
	case dx < -botTolerance:
		in.Dir = -1
	}

	near := math.Abs(dx) <= botReach
	if near && above {
		b.under++
		if b.under > botPatience {
			b.under = 0
			b.wander = botWander
			b.wanderX = 1
			if b.rng.Intn(2) == 0 {
				b.wanderX = -1
			}
		}
	}

	switch {
	case b.stuck > 0:
		in.Jump = true
		if b.stuck > 20 && b.stuck%40 < 10 {
			in.Dir = -in.Dir
		}
	case near && above && b.body.OnGround():
		in.Jump = true
	case b.hesitation > 0 && b.rng.Float64() < b.hesitation:
		in.Dir = 0
	}
	return in
}
