// Package agent simulates participant avatars: a platformer body that
// collides with course tiles, and a bot that drives one.
package agent

import (
	"math"

	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/course"
)

// Physics holds movement constants in world units per second.
type Physics struct {
	Gravity     float64
	RunSpeed    float64
	JumpImpulse float64
	MaxFall     float64
	Width       float64 // body size
	Height      float64
}

// DefaultPhysics returns the stock movement constants.
func DefaultPhysics() Physics {
	return Physics{
		Gravity:     900,
		RunSpeed:    260,
		JumpImpulse: 520,
		MaxFall:     900,
		Width:       40,
		Height:      48,
	}
}

// JumpHeight returns the apex of a standing jump.
func (p Physics) JumpHeight() float64 {
	if p.Gravity <= 0 {
		return math.Inf(1)
	}
	return p.JumpImpulse * p.JumpImpulse / (2 * p.Gravity)
}

// skin keeps a resolved body from touching the tile it was pushed out of.
const skin = 0.01

// Body is one avatar on a course. Position is the body centre.
type Body struct {
	world *course.Course
	phys  Physics

	pos core.Vec
	vel core.Vec

	onGround bool
	blocked  bool
	frozen   bool
	disposed bool
}

// NewBody places a body centred at spawn.
func NewBody(world *course.Course, spawn core.Vec, phys Physics) *Body {
	b := &Body{world: world, phys: phys, pos: spawn}
	b.clampToWorld()
	return b
}

// Center implements race.Avatar.
func (b *Body) Center() core.Vec {
	return b.pos
}

// Velocity returns the current velocity.
func (b *Body) Velocity() core.Vec {
	return b.vel
}

// Box returns the body's bounding box.
func (b *Body) Box() core.Box {
	return core.BoxAt(b.pos, b.phys.Width, b.phys.Height)
}

// Freeze implements race.Avatar. A frozen body ignores Step and SetPos.
func (b *Body) Freeze(frozen bool) {
	b.frozen = frozen
	if frozen {
		b.vel = core.Vec{}
	}
}

// Frozen reports whether the body is frozen.
func (b *Body) Frozen() bool {
	return b.frozen
}

// Dispose releases the body. A disposed body never moves again.
func (b *Body) Dispose() {
	b.disposed = true
	b.vel = core.Vec{}
}

// Disposed reports whether Dispose was called.
func (b *Body) Disposed() bool {
	return b.disposed
}

// OnGround reports whether the body stood on a tile after the last step.
func (b *Body) OnGround() bool {
	return b.onGround
}

// Blocked reports whether horizontal movement hit a tile in the last step.
func (b *Body) Blocked() bool {
	return b.blocked
}

// SetPos moves the body directly, as replicated state does on guests.
func (b *Body) SetPos(p core.Vec) {
	if b.frozen || b.disposed {
		return
	}
	b.pos = p
}

// Step advances the body by dt seconds under the given intent.
func (b *Body) Step(dt float64, in core.Intent) {
	if b.frozen || b.disposed || dt <= 0 {
		return
	}

	b.vel.X = float64(core.Clamp(in.Dir, -1, 1)) * b.phys.RunSpeed
	if in.Jump && b.onGround {
		b.vel.Y = -b.phys.JumpImpulse
	}
	b.vel.Y = math.Min(b.vel.Y+b.phys.Gravity*dt, b.phys.MaxFall)

	// Sub-step so a fast body never skips a whole tile.
	dx, dy := b.vel.X*dt, b.vel.Y*dt
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy)) / (b.world.TileSize / 2)))
	steps = max(steps, 1)

	b.blocked = false
	b.onGround = false
	for range steps {
		b.moveX(dx / float64(steps))
		b.moveY(dy / float64(steps))
	}
	b.clampToWorld()
}

// span returns the tile columns and rows covered by box.
func (b *Body) span(box core.Box) (c0, c1, r0, r1 int) {
	c0, r0 = b.world.TileOf(core.V(box.X, box.Y))
	c1, r1 = b.world.TileOf(core.V(box.Right()-skin, box.Bottom()-skin))
	return c0, c1, r0, r1
}

func (b *Body) solidColumn(col, r0, r1 int) bool {
	for row := r0; row <= r1; row++ {
		if b.world.Solid(col, row) {
			return true
		}
	}
	return false
}

func (b *Body) solidRow(row, c0, c1 int) bool {
	for col := c0; col <= c1; col++ {
		if b.world.Solid(col, row) {
			return true
		}
	}
	return false
}

func (b *Body) moveX(dx float64) {
	if dx == 0 {
		return
	}
	b.pos.X += dx
	c0, c1, r0, r1 := b.span(b.Box())
	t := b.world.TileSize

	switch {
	case dx > 0 && b.solidColumn(c1, r0, r1):
		b.pos.X = float64(c1)*t - b.phys.Width/2 - skin
		b.vel.X = 0
		b.blocked = true
	case dx < 0 && b.solidColumn(c0, r0, r1):
		b.pos.X = float64(c0+1)*t + b.phys.Width/2 + skin
		b.vel.X = 0
		b.blocked = true
	}
}

func (b *Body) moveY(dy float64) {
	if dy == 0 {
		return
	}
	b.pos.Y += dy
	c0, c1, r0, r1 := b.span(b.Box())
	t := b.world.TileSize

	switch {
	case dy > 0 && b.solidRow(r1, c0, c1):
		b.pos.Y = float64(r1)*t - b.phys.Height/2 - skin
		b.vel.Y = 0
		b.onGround = true
	case dy < 0 && b.solidRow(r0, c0, c1):
		b.pos.Y = float64(r0+1)*t + b.phys.Height/2 + skin
		b.vel.Y = 0
	}
}

// clampToWorld keeps the body inside the course rectangle.
func (b *Body) clampToWorld() {
	hw, hh := b.phys.Width/2, b.phys.Height/2
	x := core.ClampF(b.pos.X, hw, b.world.WidthPx()-hw)
	y := core.ClampF(b.pos.Y, hh, b.world.HeightPx()-hh)
	if x != b.pos.X {
		b.blocked = true
		b.vel.X = 0
	}
	if y != b.pos.Y {
		b.vel.Y = 0
		if y < b.pos.Y {
			b.onGround = true
		}
	}
	b.pos = core.V(x, y)
}
