package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/rune-race/internal/config"
	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/platform/tui"
	"github.com/vovakirdan/rune-race/internal/session"
	"github.com/vovakirdan/rune-race/internal/zones"
)

var (
	flagLevel      int
	flagBots       int
	flagDifficulty string
	flagName       string
	flagMenu       bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Race locally against bots",
	Long: `Start a race in this terminal. You join first, so your session
simulates the race; bots join after you.

Controls:
  ←/a, →/d   - Run
  Space/↑    - Jump
  Tab        - Standings
  Q/Ctrl+C   - Leave

Difficulty options (bots):
  easy   - Bots hesitate often
  normal - Bots hesitate sometimes
  hard   - Bots never hesitate

Examples:
  runerace play
  runerace play --bots 3 --difficulty hard
  runerace play --menu
  runerace play --level 2 --zones ./levels`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 0, "First zone of the course, 1-3 (0 = from config)")
	playCmd.Flags().IntVar(&flagBots, "bots", -1, "Number of bot racers (-1 = from config)")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Bot difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagName, "name", "", "Your racer name (default: login name)")
	playCmd.Flags().BoolVar(&flagMenu, "menu", false, "Pick zone, bots and difficulty in a menu first")
}

// applyRaceFlags applies the race flags shared by play and serve.
func applyRaceFlags(cfg *config.RaceConfig) {
	if flagLevel > 0 {
		cfg.Course.Level = flagLevel
	}
	if flagBots >= 0 {
		cfg.Bots.Count = flagBots
	}
	if flagDifficulty != "" && !config.ApplyBotPreset(cfg, config.DifficultyPreset(flagDifficulty)) {
		fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q (want one of %v)\n", flagDifficulty, config.Presets())
		os.Exit(1)
	}
}

// botFactory returns the bot inputs for an arena, seeded from base.
func botFactory(cfg config.RaceConfig, base int64) func(int) session.Input {
	return func(i int) session.Input {
		return cfg.NewBot(base + int64(i))
	}
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	applyRaceFlags(&cfg)

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width, height = w, h
	}

	if flagMenu {
		setup, ok, err := tui.RunMenu(tui.Setup{
			Level:      cfg.Course.Level,
			Bots:       cfg.Bots.Count,
			Difficulty: string(cfg.Bots.Difficulty),
		}, zones.ZoneCount, presetNames(), width, height)
		if err != nil {
			fail("running menu", err)
		}
		if !ok {
			return
		}
		cfg.Course.Level = setup.Level
		cfg.Bots.Count = setup.Bots
		config.ApplyBotPreset(&cfg, config.DifficultyPreset(setup.Difficulty))
	}

	c, err := buildCourse(cfg, cfg.Course.Level)
	if err != nil {
		fail("building course", err)
	}

	logger, closeLog := newLogger("runerace", false)
	defer closeLog()

	opts := cfg.LoopOptions()
	opts.Logger = logger
	arena := session.NewArena(c, opts)

	stick := session.NewJoystick(cfg.Session.HoldTicks)
	p, loop := arena.Enter(session.Profile{Name: racerName()}, stick)
	arena.AddBots(cfg.Bots.Count, botFactory(cfg, seed()))
	logger.Info("race started", "room", arena.Room.ID(), "level", cfg.Course.Level, "bots", cfg.Bots.Count)

	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: cfg.Session.TickRate,
	}
	m := tui.NewModel(loop, stick, func() { arena.Exit(p, loop) }, rc)
	if err := tui.Run(m); err != nil {
		fail("running race", err)
	}
}

func presetNames() []string {
	presets := config.Presets()
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = string(p)
	}
	return names
}

func racerName() string {
	if flagName != "" {
		return flagName
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return session.UnknownName
}
