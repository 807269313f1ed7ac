package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedMatchesHardcoded(t *testing.T) {
	var cfg RaceConfig
	if err := yaml.Unmarshal(DefaultYAML(), &cfg); err != nil {
		t.Fatalf("embedded YAML: %v", err)
	}
	if cfg != DefaultRaceConfig() {
		t.Errorf("embedded = %+v\nhardcoded = %+v", cfg, DefaultRaceConfig())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "race.yaml")
	data := []byte("course:\n  level: 3\nsession:\n  tick_rate: 60\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Course.Level != 3 || cfg.Session.TickRate != 60 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	// Unset fields keep their defaults.
	if cfg.Physics.Gravity != 900 || cfg.Race.Runes != 3 {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		invalid bool
	}{
		{"bad yaml", "physics: [", false},
		{"zero tick rate", "session:\n  tick_rate: 0\n", true},
		{"no runes", "race:\n  runes: 0\n", true},
		{"body too wide", "physics:\n  body_width: 80\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("Load accepted a bad config")
			}
			if tt.invalid && !errors.Is(err, ErrInvalid) {
				t.Errorf("error = %v, want ErrInvalid", err)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load accepted a missing file")
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != DefaultRaceConfig() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoadLocalConfigsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.Mkdir("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", FileName), []byte("bots:\n  count: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Bots.Count != 2 {
		t.Errorf("Bots.Count = %d, want 2", cfg.Bots.Count)
	}
}

func TestConversions(t *testing.T) {
	cfg := DefaultRaceConfig()

	opts := cfg.CourseOptions()
	if opts.ExtraRows != 6 || opts.TileSize != 64 || opts.RuneCount != 3 || opts.RuneRadius != 26 {
		t.Errorf("CourseOptions = %+v", opts)
	}
	phys := cfg.PhysicsOptions()
	if phys.Gravity != 900 || phys.Width != 40 {
		t.Errorf("PhysicsOptions = %+v", phys)
	}
	if jh := phys.JumpHeight(); jh < 2*cfg.Course.TileSize {
		t.Errorf("default jump height %v cannot clear two tiles", jh)
	}
	loop := cfg.LoopOptions()
	if loop.TickRate != 30 || loop.Margin != 8 {
		t.Errorf("LoopOptions = %+v", loop)
	}
}

func TestApplyBotPreset(t *testing.T) {
	tests := []struct {
		preset     DifficultyPreset
		hesitation float64
		ok         bool
	}{
		{DifficultyEasy, 0.35, true},
		{DifficultyNormal, 0.15, true},
		{DifficultyHard, 0, true},
		{"impossible", 0.15, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			cfg := DefaultRaceConfig()
			if got := ApplyBotPreset(&cfg, tt.preset); got != tt.ok {
				t.Fatalf("ApplyBotPreset = %v, want %v", got, tt.ok)
			}
			if cfg.Bots.Hesitation != tt.hesitation {
				t.Errorf("Hesitation = %v, want %v", cfg.Bots.Hesitation, tt.hesitation)
			}
			if cfg.NewBot(1) == nil {
				t.Error("NewBot returned nil")
			}
		})
	}
}
