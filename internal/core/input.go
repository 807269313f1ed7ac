package core

// Action represents a semantic input, abstracted from physical key presses.
type Action int

const (
	ActionNone  Action = iota
	ActionLeft         // A, Left arrow - run left
	ActionRight        // D, Right arrow - run right
	ActionJump         // Space, W, Up - jump
	ActionQuit         // Q, Ctrl+C - leave the race
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionJump:
		return "Jump"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Intent is what an avatar consumes each step: the direction buttons and
// jump as the input layer last reported them.
type Intent struct {
	Dir  int  // -1 left, 0 idle, +1 right
	Jump bool // jump button held
}

// RuntimeConfig contains configuration passed to the race view at startup.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for bots and IDs; 0 means time-based
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}
