// runerace is a terminal platformer race: collect every rune, then reach
// the finish before anyone else.
//
// Usage:
//
//	runerace play               - Race locally against bots
//	runerace serve              - Host a shared race over SSH
//	runerace watch <url>        - Spectate a served race
//	runerace preview            - Print an assembled course
//	runerace zones list         - List zones in a catalog
//	runerace zones import <dir> - Copy zone files into a catalog
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: from config)
//	--seed <value>   - Set RNG seed for bots
//	--zones <path>   - Zone directory or catalog .db (default: built-in)
//	--config <path>  - Race config YAML
//	--log <path>     - Write logs to a file
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rune-race/internal/config"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagZones   string
	flagConfig  string
	flagLogPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runerace",
	Short: "Rune Race - a platformer race in your terminal",
	Long: `Rune Race assembles a course from three zones and races everyone
across it. Capture every rune, then stand in the finish to win.

Available commands:
  play     - Race locally against bots
  serve    - Host a shared race over SSH
  watch    - Spectate a served race
  preview  - Print an assembled course
  zones    - Manage zone catalogs

Examples:
  runerace play --bots 3 --difficulty hard
  runerace serve --ssh :2222 --ws :8080
  runerace watch ws://localhost:8080/race
  runerace zones import ./levels --db ~/.runerace/zones.db`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = from config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagZones, "zones", "", "Zone directory or catalog .db (default: built-in zones)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to race config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write logs to this file")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(zonesCmd)
}

// loadConfig loads the race config and applies the global overrides.
func loadConfig() config.RaceConfig {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		fail("loading config", err)
	}
	if flagFPS > 0 {
		cfg.Session.TickRate = flagFPS
	}
	return cfg
}

func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// fail prints an error and exits.
func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	os.Exit(1)
}
