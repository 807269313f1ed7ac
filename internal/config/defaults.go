package config

import (
	_ "embed"
)

//go:embed defaults/race.yaml
var defaultRaceYAML []byte

// DefaultRaceConfig returns the hardcoded race configuration. It matches
// the embedded defaults/race.yaml.
func DefaultRaceConfig() RaceConfig {
	return RaceConfig{
		Physics: PhysicsConfig{
			Gravity:     900,
			RunSpeed:    260,
			JumpImpulse: 520,
			MaxFall:     900,
			BodyWidth:   40,
			BodyHeight:  48,
		},
		Course: CourseConfig{
			Level:     1,
			ExtraRows: 6,
			TileSize:  64,
			Layer:     "layer01",
		},
		Race: RulesConfig{
			Runes:         3,
			RuneRadius:    26,
			CaptureMargin: 8,
		},
		Session: SessionConfig{
			TickRate:  30,
			HoldTicks: 8,
		},
		Bots: BotConfig{
			Count:      0,
			Difficulty: DifficultyNormal,
			JumpChance: 0.04,
			Hesitation: 0.15,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultRaceYAML
}
