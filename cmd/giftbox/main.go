package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/giftbox/asset"
	"github.com/lixenwraith/giftbox/audio"
	"github.com/lixenwraith/giftbox/config"
	"github.com/lixenwraith/giftbox/engine"
	"github.com/lixenwraith/giftbox/modes"
	"github.com/lixenwraith/giftbox/render"
	"github.com/lixenwraith/giftbox/reveal"
	"github.com/lixenwraith/giftbox/session"
	"github.com/lixenwraith/giftbox/status"
	"github.com/lixenwraith/giftbox/viewport"
)

type flags struct {
	debug      bool
	color      string
	storage    string
	sessionDir string
	assets     string
	song       string
	reset      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "giftbox: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:           "giftbox",
		Short:         "A code-locked gift reveal for the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			applyFlags(cmd, &f, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, f.reset)
		},
	}

	fs := cmd.Flags()
	fs.BoolVar(&f.debug, "debug", false, "write debug logs and show the status line")
	fs.StringVar(&f.color, "color", config.ColorAuto, "color mode: auto, truecolor, 256")
	fs.StringVar(&f.storage, "storage", config.StorageFile, "session storage: file, sqlite, memory")
	fs.StringVar(&f.sessionDir, "session-dir", "", "directory holding session state")
	fs.StringVar(&f.assets, "assets", "", "asset directory")
	fs.StringVar(&f.song, "song", "", "song file, relative to the asset directory")
	fs.BoolVar(&f.reset, "reset", false, "clear the saved session before starting")
	return cmd
}

// applyFlags overrides environment configuration with explicitly set flags
func applyFlags(cmd *cobra.Command, f *flags, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("debug") {
		cfg.Debug = f.debug
	}
	if changed("color") {
		cfg.ColorMode = f.color
	}
	if changed("storage") {
		cfg.Storage = f.storage
	}
	if changed("session-dir") {
		cfg.SessionDir = f.sessionDir
	}
	if changed("assets") {
		cfg.AssetDir = f.assets
	}
	if changed("song") {
		cfg.SongPath = f.song
	}
}

func run(parent context.Context, cfg *config.Config, reset bool) error {
	logFile, err := setupLogging(cfg.Debug, cfg.LogDir)
	if err != nil {
		return err
	}
	if logFile != nil {
		defer logFile.Close()
	}
	logger := log.Logger

	store, err := session.Open(session.Options{
		Backend:   cfg.Storage,
		Dir:       cfg.SessionDir,
		SessionID: cfg.SessionID,
	})
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer store.Close()
	if reset {
		if err := store.Clear(); err != nil {
			return fmt.Errorf("reset session: %w", err)
		}
	}

	manifest, err := asset.LoadManifest(cfg.ResolveAsset(cfg.ManifestPath))
	if err != nil {
		return err
	}

	metrics := status.NewRegistry()
	machine := reveal.New(
		reveal.WithSecret(cfg.SecretDigits()),
		reveal.WithStorage(store),
		reveal.WithLogger(logger),
		reveal.WithMetrics(metrics),
	)

	palette256 := configureColor(cfg.ColorMode)
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	loader := asset.NewLoader(cfg.AssetDir,
		asset.WithCellSize(cfg.CellWidth, cfg.CellHeight),
		asset.WithPalette256(palette256),
		asset.WithLogger(logger),
		asset.WithMetrics(metrics),
	)

	player := audio.NewSongPlayer(cfg.ResolveAsset(cfg.SongPath),
		audio.WithVolume(cfg.Volume),
		audio.WithLogger(logger),
		audio.WithMetrics(metrics),
	)
	defer player.Close()

	ctx := engine.NewContext(engine.Dependencies{
		Screen:   screen,
		Machine:  machine,
		Player:   player,
		Assets:   loader,
		Manifest: manifest,
		Metrics:  metrics,
		Log:      logger,
	}, engine.Settings{
		BrushRadius:      cfg.BrushRadius,
		DevicePixelRatio: cfg.DevicePixelRatio,
		Viewport: viewport.Metrics{
			CellWidth:  cfg.CellWidth,
			CellHeight: cfg.CellHeight,
			Breakpoint: cfg.DesktopBreakpoint,
		},
		Debug: cfg.Debug,
	})

	// Goroutines owned by the engine restore the terminal before dying
	ctx.SetCrashHandler(func(r any) {
		screen.Fini()
		// \r\n keeps raw-mode output readable if the reset was partial
		fmt.Fprintf(os.Stderr, "\r\n\x1b[31mGIFTBOX CRASHED: %v\x1b[0m\r\n", r)
		fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
		os.Exit(1)
	})
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\n\x1b[31mGIFTBOX CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	if parent == nil {
		parent = context.Background()
	}
	runCtx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().
		Str("storage", cfg.Storage).
		Str("stage", machine.Stage().String()).
		Bool("desktop", ctx.Desktop()).
		Msg("giftbox started")

	ctx.Prefetch()
	err = ctx.Run(runCtx, modes.NewInputHandler(ctx), render.NewDefault())
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	logger.Info().Str("metrics", metrics.Summary()).Msg("giftbox stopped")
	return err
}

// configureColor steers tcell's color detection; reports whether 256-color art is needed
func configureColor(mode string) bool {
	switch mode {
	case config.Color256:
		os.Setenv("TCELL_TRUECOLOR", "disable")
		return true
	case config.ColorTrueColor:
		os.Setenv("COLORTERM", "truecolor")
	}
	return false
}
