package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rune-race/internal/core"
	"github.com/vovakirdan/rune-race/internal/platform/tui"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print an assembled course",
	Long: `Assemble the course for a level and print it as text: solid tiles,
runes, the finish region and the spawn point.

Examples:
  runerace preview --level 2
  runerace preview --zones ~/.runerace/zones.db`,
	Args: cobra.NoArgs,
	Run:  runPreview,
}

func init() {
	previewCmd.Flags().IntVar(&flagLevel, "level", 0, "First zone of the course, 1-3 (0 = from config)")
}

func runPreview(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	applyRaceFlags(&cfg)

	c, err := buildCourse(cfg, cfg.Course.Level)
	if err != nil {
		fail("building course", err)
	}

	cols := int(c.WidthPx() / (c.TileSize / 2))
	rows := int(c.HeightPx() / c.TileSize)
	s := core.NewScreen(cols, rows)
	cam := tui.DrawRace(s, tui.Scene{Course: c, Focus: c.Spawn})
	x, y := cam.Project(c.Spawn)
	s.Set(x, y, 'S', core.ColorDefault)

	fmt.Printf("Course order %v, %dx%d tiles, %d runes\n", c.Order, c.Grid.W, c.Grid.H, c.RuneCount())
	fmt.Println(s.String())
}
