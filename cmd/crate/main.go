package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/kmaier/crate/internal/adapter"
	"github.com/kmaier/crate/internal/audiofile"
	"github.com/kmaier/crate/internal/library"
	"github.com/kmaier/crate/internal/player"
	"github.com/kmaier/crate/internal/store"
	"github.com/kmaier/crate/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("crate %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("crate needs an interactive terminal")
	}

	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting crate", "version", Version)

	st, err := store.Open(cfg.Library.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open library store: %w", err)
	}
	defer st.Close()

	caps := audiofile.NewCaps(!cfg.Library.CopyImports)
	picker := audiofile.NewFallbackPicker(audiofile.NewWalkPicker(caps), audiofile.NewLegacyPicker())

	lib := library.NewService(st, picker, caps, logger)
	if err := lib.Load(); err != nil {
		return fmt.Errorf("failed to load library: %w", err)
	}
	lib.Persist()
	defer lib.Persist()

	output := openOutput(cfg, logger)
	var sink player.NowPlayingSink
	if mpv, ok := output.(*player.MPV); ok {
		sink = mpv
	}
	ctrl := player.NewController(output, st, lib, sink, cfg.CachePath(), logger)
	defer ctrl.Close()
	remote := player.NewRemote(ctrl, logger)

	model := tui.New(lib, ctrl, remote, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")
	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// openOutput starts the configured audio backend, degrading to a
// silent output when the player binary is missing so the library stays
// usable.
func openOutput(cfg *adapter.Config, logger *slog.Logger) player.Output {
	mpv, err := player.StartMPV(cfg.Player.Command, cfg.Player.Socket, cfg.Player.Args, logger)
	if err != nil {
		logger.Warn("audio output unavailable, playback disabled", "error", err)
		fmt.Fprintln(os.Stderr, "warning: mpv not available, playback disabled")
		return player.NewNoopOutput()
	}
	return mpv
}
