// Package config provides YAML-based race configuration loading and bot
// difficulty presets.
package config

// RaceConfig contains all tunable settings of a race.
type RaceConfig struct {
	Physics PhysicsConfig `yaml:"physics"`
	Course  CourseConfig  `yaml:"course"`
	Race    RulesConfig   `yaml:"race"`
	Session SessionConfig `yaml:"session"`
	Bots    BotConfig     `yaml:"bots"`
}

// PhysicsConfig defines avatar movement in world units per second.
type PhysicsConfig struct {
	Gravity     float64 `yaml:"gravity"`
	RunSpeed    float64 `yaml:"run_speed"`
	JumpImpulse float64 `yaml:"jump_impulse"`
	MaxFall     float64 `yaml:"max_fall"`
	BodyWidth   float64 `yaml:"body_width"`
	BodyHeight  float64 `yaml:"body_height"`
}

// CourseConfig defines how zones are assembled.
type CourseConfig struct {
	Level     int     `yaml:"level"`      // first zone, 1..3
	ExtraRows int     `yaml:"extra_rows"` // empty rows above the zones
	TileSize  float64 `yaml:"tile_size"`
	Layer     string  `yaml:"layer"`
}

// RulesConfig defines the objectives.
type RulesConfig struct {
	Runes         int     `yaml:"runes"`
	RuneRadius    float64 `yaml:"rune_radius"`
	CaptureMargin float64 `yaml:"capture_margin"`
}

// SessionConfig defines the per-frame driver.
type SessionConfig struct {
	TickRate  int `yaml:"tick_rate"`
	HoldTicks int `yaml:"hold_ticks"` // how long a key press keeps running
}

// BotConfig defines computer-controlled racers.
type BotConfig struct {
	Count      int              `yaml:"count"`
	Difficulty DifficultyPreset `yaml:"difficulty"`
	JumpChance float64          `yaml:"jump_chance"`
	Hesitation float64          `yaml:"hesitation"` // chance per tick to stand still
}
