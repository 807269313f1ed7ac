package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/rune-race/internal/agent"
	"github.com/vovakirdan/rune-race/internal/course"
	"github.com/vovakirdan/rune-race/internal/session"
)

// FileName is the configuration file looked up in the search path.
const FileName = "race.yaml"

// ErrInvalid is returned for configurations that cannot run a race.
var ErrInvalid = errors.New("config: invalid")

// Load loads the race configuration.
// Search order: customPath -> ~/.runerace/configs/race.yaml ->
// ./configs/race.yaml -> embedded default -> hardcoded default.
//
// Fields missing from a file keep their default value.
func Load(customPath string) (RaceConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return RaceConfig{}, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := Parse(data)
		if err != nil {
			return RaceConfig{}, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(FileName); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := Parse(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", FileName)); err == nil {
		if cfg, err := Parse(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := Parse(defaultRaceYAML)
	if err != nil {
		return DefaultRaceConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (RaceConfig, error) {
	cfg := DefaultRaceConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return RaceConfig{}, err
	}
	if err := cfg.Validate(); err != nil {
		return RaceConfig{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration can run a race.
func (c RaceConfig) Validate() error {
	switch {
	case c.Course.TileSize <= 0:
		return fmt.Errorf("%w: course.tile_size must be positive", ErrInvalid)
	case c.Course.ExtraRows < 0:
		return fmt.Errorf("%w: course.extra_rows must not be negative", ErrInvalid)
	case c.Race.Runes < 1:
		return fmt.Errorf("%w: race.runes must be at least 1", ErrInvalid)
	case c.Race.RuneRadius <= 0 || c.Race.CaptureMargin < 0:
		return fmt.Errorf("%w: race.rune_radius and race.capture_margin", ErrInvalid)
	case c.Session.TickRate < 1 || c.Session.TickRate > 240:
		return fmt.Errorf("%w: session.tick_rate must be in 1..240", ErrInvalid)
	case c.Physics.BodyWidth <= 0 || c.Physics.BodyHeight <= 0:
		return fmt.Errorf("%w: physics body size must be positive", ErrInvalid)
	case c.Physics.BodyWidth >= c.Course.TileSize || c.Physics.BodyHeight >= 2*c.Course.TileSize:
		return fmt.Errorf("%w: physics body does not fit through a one-tile gap", ErrInvalid)
	case c.Bots.Count < 0:
		return fmt.Errorf("%w: bots.count must not be negative", ErrInvalid)
	}
	return nil
}

// CourseOptions converts the configuration into course build options.
func (c RaceConfig) CourseOptions() course.Options {
	return course.Options{
		ExtraRows:  c.Course.ExtraRows,
		TileSize:   c.Course.TileSize,
		RuneCount:  c.Race.Runes,
		RuneRadius: c.Race.RuneRadius,
		Layer:      c.Course.Layer,
	}
}

// PhysicsOptions converts the configuration into avatar physics.
func (c RaceConfig) PhysicsOptions() agent.Physics {
	return agent.Physics{
		Gravity:     c.Physics.Gravity,
		RunSpeed:    c.Physics.RunSpeed,
		JumpImpulse: c.Physics.JumpImpulse,
		MaxFall:     c.Physics.MaxFall,
		Width:       c.Physics.BodyWidth,
		Height:      c.Physics.BodyHeight,
	}
}

// LoopOptions converts the configuration into session loop options.
func (c RaceConfig) LoopOptions() session.Options {
	return session.Options{
		TickRate: c.Session.TickRate,
		Margin:   c.Race.CaptureMargin,
		Physics:  c.PhysicsOptions(),
	}
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".runerace", "configs", filename)
}
