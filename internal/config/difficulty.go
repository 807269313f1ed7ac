package config

import "github.com/vovakirdan/rune-race/internal/agent"

// DifficultyPreset represents a named bot difficulty.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the known presets from easiest to hardest.
func Presets() []DifficultyPreset {
	return []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}
}

// hesitationForPreset returns the per-tick idle chance for a preset.
func hesitationForPreset(preset DifficultyPreset) (float64, bool) {
	switch preset {
	case DifficultyEasy:
		return 0.35, true
	case DifficultyNormal:
		return 0.15, true
	case DifficultyHard:
		return 0.0, true
	default:
		return 0, false
	}
}

// ApplyBotPreset modifies the config based on a difficulty preset.
// Unknown presets leave the config unchanged and return false.
func ApplyBotPreset(cfg *RaceConfig, preset DifficultyPreset) bool {
	hesitation, ok := hesitationForPreset(preset)
	if !ok {
		return false
	}
	cfg.Bots.Difficulty = preset
	cfg.Bots.Hesitation = hesitation

	// Harder bots also jump for high runes more eagerly.
	switch preset {
	case DifficultyEasy:
		cfg.Bots.JumpChance = 0.02
	case DifficultyHard:
		cfg.Bots.JumpChance = 0.06
	default:
		cfg.Bots.JumpChance = 0.04
	}
	return true
}

// NewBot creates a bot tuned by the configuration.
func (c RaceConfig) NewBot(seed int64) *agent.Bot {
	return agent.NewBot(seed).
		WithJumpChance(c.Bots.JumpChance).
		WithHesitation(c.Bots.Hesitation)
}
