package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/rune-race/internal/platform/tui"
	"github.com/vovakirdan/rune-race/internal/replication"
	"github.com/vovakirdan/rune-race/internal/session"
)

var (
	flagSSHAddr     string
	flagWSAddr      string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host a shared race over SSH",
	Long: `Start an SSH server where every connection joins the same race.

The first player to connect hosts the race: their session simulates
every avatar and publishes the state. Bots join right after the host.
When the host leaves the race stops advancing.

With --ws, the race state is also streamed over a WebSocket so that
'runerace watch' can spectate it.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.runerace/host_key

Examples:
  runerace serve                         # Listen on :23234
  runerace serve --ssh :2222 --bots 2    # Port 2222 with two bots
  runerace serve --ws :8080              # Also stream to spectators

Players connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", "", "Spectator WebSocket address (host:port), empty to disable")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().IntVar(&flagLevel, "level", 0, "First zone of the course, 1-3 (0 = from config)")
	serveCmd.Flags().IntVar(&flagBots, "bots", -1, "Number of bot racers (-1 = from config)")
	serveCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Bot difficulty preset: easy, normal, hard")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	applyRaceFlags(&cfg)

	c, err := buildCourse(cfg, cfg.Course.Level)
	if err != nil {
		fail("building course", err)
	}

	logger, closeLog := newLogger("runerace", true)
	defer closeLog()

	opts := cfg.LoopOptions()
	opts.Logger = logger
	arena := session.NewArena(c, opts)

	server, err := tui.NewSSHServer(tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
		HoldTicks:   cfg.Session.HoldTicks,
		Bots:        cfg.Bots.Count,
		NewBot:      botFactory(cfg, seed()),
	}, arena, logger.WithPrefix("ssh"))
	if err != nil {
		fail("creating server", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if flagWSAddr != "" {
		relay := replication.NewRelay(func() replication.Frame {
			return session.HelloFrame(arena.Room, c)
		}, logger.WithPrefix("relay"))
		defer relay.Close()

		mux := http.NewServeMux()
		mux.Handle("/race", relay)
		httpServer := &http.Server{Addr: flagWSAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

		go func() {
			logger.Info("starting spectator relay", "address", flagWSAddr, "path", "/race")
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("relay server error", "error", err)
				stop()
			}
		}()
		go session.Broadcast(ctx, arena.Room, arena.Channel, relay, cfg.Session.TickRate, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			//nolint:errcheck // Best-effort shutdown
			httpServer.Shutdown(shutdownCtx)
		}()
	}

	logger.Info("connect with: ssh localhost -p <port>", "address", server.Addr())
	if err := server.ListenAndServe(ctx); err != nil {
		fail("serving", err)
	}
}
